// Package format renders report tables as ASCII or Markdown.
package format

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode controls the output format.
type Mode int

const (
	ASCII    Mode = iota // box-drawing terminal tables
	Markdown             // GitHub-flavoured Markdown tables
)

// ParseMode maps "ascii" and "markdown" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "ascii":
		return ASCII, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return ASCII, fmt.Errorf("unknown report format %q", s)
}

// ColumnAlign specifies the horizontal alignment for a column.
type ColumnAlign int

const (
	AlignDefault ColumnAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ColumnConfig controls per-column formatting.
type ColumnConfig struct {
	Number   int // 1-based column index
	Align    ColumnAlign
	MaxWidth int // 0 = unlimited
}

// TableBuilder collects a table and renders it in the Mode chosen at creation.
type TableBuilder interface {
	Title(s string)
	Header(cols ...string)
	Row(vals ...any)
	Footer(vals ...any)
	Columns(cfgs ...ColumnConfig)
	// RightAlignFrom right-aligns every column from the 1-based index n on.
	RightAlignFrom(n, total int)
	String() string
}

// NewTable returns a TableBuilder for m.
func NewTable(m Mode) TableBuilder {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &prettyTable{writer: w, mode: m}
}

type prettyTable struct {
	writer table.Writer
	mode   Mode
	cfgs   []table.ColumnConfig
	title  string
}

func (p *prettyTable) Title(s string) {
	p.title = s
	p.writer.SetTitle(s)
}

func (p *prettyTable) Header(cols ...string) {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	p.writer.AppendHeader(row)
}

func (p *prettyTable) Row(vals ...any) { p.writer.AppendRow(table.Row(vals)) }

func (p *prettyTable) Footer(vals ...any) { p.writer.AppendFooter(table.Row(vals)) }

func (p *prettyTable) Columns(cfgs ...ColumnConfig) {
	for _, c := range cfgs {
		p.cfgs = append(p.cfgs, table.ColumnConfig{
			Number:   c.Number,
			Align:    toTextAlign(c.Align),
			WidthMax: c.MaxWidth,
		})
	}
	p.writer.SetColumnConfigs(p.cfgs)
}

func (p *prettyTable) RightAlignFrom(n, total int) {
	cfgs := make([]ColumnConfig, 0, total)
	for i := n; i <= total; i++ {
		cfgs = append(cfgs, ColumnConfig{Number: i, Align: AlignRight})
	}
	p.Columns(cfgs...)
}

func (p *prettyTable) String() string {
	if p.mode == Markdown {
		return p.writer.RenderMarkdown()
	}
	if p.title != "" {
		// Borders and padding take two cells on each side of the title.
		p.writer.Style().Size.WidthMin = text.RuneWidthWithoutEscSequences(p.title) + 4
	}
	return p.writer.Render()
}

func toTextAlign(a ColumnAlign) text.Align {
	switch a {
	case AlignLeft:
		return text.AlignLeft
	case AlignRight:
		return text.AlignRight
	case AlignCenter:
		return text.AlignCenter
	default:
		return text.AlignDefault
	}
}
