package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"rfmseg/internal/analysis"
	"rfmseg/internal/logging"
	"rfmseg/internal/rfm"
)

// Workbook sheet names.
const (
	SheetSegmentation  = "Segmentation"
	SheetSegments      = "Segments"
	SheetMeans         = "Means"
	SheetDistributions = "Distributions"
	SheetRepeat        = "Repeat Customers"
)

// DefaultBins is the histogram resolution for Recency and Monetary.
const DefaultBins = 50

var chartSize = excelize.ChartDimension{Width: 720, Height: 400}

// WriteWorkbook saves res as an XLSX file at path. bins <= 0 uses DefaultBins.
func WriteWorkbook(path string, res *analysis.Result, bins int) error {
	if bins <= 0 {
		bins = DefaultBins
	}
	f := excelize.NewFile()
	defer f.Close()

	w := &workbook{f: f}
	if err := w.init(); err != nil {
		return err
	}
	if err := f.SetSheetName("Sheet1", SheetSegmentation); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	steps := []struct {
		sheet string
		fn    func() error
	}{
		{SheetSegmentation, func() error { return w.segmentation(res.Customers) }},
		{SheetSegments, func() error { return w.segments(res.Summary) }},
		{SheetMeans, func() error { return w.means(res.Summary) }},
		{SheetDistributions, func() error { return w.distributions(res.Customers, bins) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return fmt.Errorf("sheet %s: %w", s.sheet, err)
		}
	}

	repeat := res.RepeatCustomers()
	if len(repeat) == 0 {
		logging.New("export").Info("no repeat customers, skipping sheet", "sheet", SheetRepeat)
	} else if err := w.repeatCustomers(repeat); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetRepeat, err)
	}

	f.SetActiveSheet(0)
	if err := f.SetDocProps(&excelize.DocProperties{
		Created:     time.Now().UTC().Format(time.RFC3339),
		Creator:     "rfmseg",
		Title:       "RFM customer segmentation",
		Description: fmt.Sprintf("Snapshot %s, %d customers", res.Snapshot.Format(time.DateTime), len(res.Customers)),
	}); err != nil {
		return fmt.Errorf("doc props: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	logging.New("export").Info("workbook written", "path", path, "customers", len(res.Customers))
	return nil
}

type workbook struct {
	f      *excelize.File
	header int
}

func (w *workbook) init() error {
	style, err := w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	w.header = style
	return nil
}

// table writes a header row and data rows starting at col, styles the
// header and fits column widths.
func (w *workbook) table(sheet string, col int, header []string, rows [][]any) error {
	start, err := excelize.CoordinatesToCellName(col, 1)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, start, &header); err != nil {
		return err
	}
	end, _ := excelize.CoordinatesToCellName(col+len(header)-1, 1)
	if err := w.f.SetCellStyle(sheet, start, end, w.header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(col, i+2)
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	for i, h := range header {
		name, _ := excelize.ColumnNumberToName(col + i)
		width := max(12, min(40, float64(len(h))*1.3))
		if err := w.f.SetColWidth(sheet, name, name, width); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) newSheet(name string) error {
	_, err := w.f.NewSheet(name)
	return err
}

// ref returns an absolute reference such as 'Repeat Customers'!$B$2:$B$9.
func ref(sheet string, col, fromRow, toRow int) string {
	name, _ := excelize.ColumnNumberToName(col)
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, name, fromRow, name, toRow)
}

func title(s string) []excelize.RichTextRun {
	return []excelize.RichTextRun{{Text: s}}
}

func (w *workbook) segmentation(rows []rfm.CustomerRFM) error {
	sheet := SheetSegmentation
	data := make([][]any, len(rows))
	for i, c := range rows {
		data[i] = []any{
			c.CustomerKey, c.Recency, c.Frequency, c.Monetary,
			c.Scores.R, c.Scores.F, c.Scores.M, c.Scores.Key(), c.Segment,
		}
	}
	if err := w.table(sheet, 1, Header, data); err != nil {
		return err
	}
	if err := w.f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(Header), len(rows)+1)
	if err := w.f.AutoFilter(sheet, "A1:"+last, []excelize.AutoFilterOptions{}); err != nil {
		return err
	}
	return w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (w *workbook) segments(summary []rfm.SegmentSummary) error {
	sheet := SheetSegments
	if err := w.newSheet(sheet); err != nil {
		return err
	}
	total := 0
	for _, s := range summary {
		total += s.Count
	}
	data := make([][]any, len(summary))
	for i, s := range summary {
		data[i] = []any{s.Segment, s.Count, float64(s.Count) / float64(total)}
	}
	if err := w.table(sheet, 1, []string{"Segment", "Customers", "Share"}, data); err != nil {
		return err
	}
	pct, err := w.f.NewStyle(&excelize.Style{NumFmt: 10})
	if err != nil {
		return err
	}
	if len(summary) > 0 {
		end := fmt.Sprintf("C%d", len(summary)+1)
		if err := w.f.SetCellStyle(sheet, "C2", end, pct); err != nil {
			return err
		}
	}
	n := len(summary) + 1
	return w.f.AddChart(sheet, "E2", &excelize.Chart{
		Type: excelize.Bar,
		Series: []excelize.ChartSeries{{
			Name:       "Customers",
			Categories: ref(sheet, 1, 2, n),
			Values:     ref(sheet, 2, 2, n),
		}},
		Title:     title("Customer Segment Distribution"),
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: chartSize,
		XAxis:     excelize.ChartAxis{Title: title("Segment")},
		YAxis:     excelize.ChartAxis{Title: title("Number of Customers")},
	})
}

func (w *workbook) means(summary []rfm.SegmentSummary) error {
	sheet := SheetMeans
	if err := w.newSheet(sheet); err != nil {
		return err
	}
	data := make([][]any, len(summary))
	for i, s := range summary {
		data[i] = []any{s.Segment, s.MeanRecency, s.MeanFrequency, s.MeanMonetary}
	}
	header := []string{"Segment", "Recency", "Frequency", "Monetary"}
	if err := w.table(sheet, 1, header, data); err != nil {
		return err
	}
	if len(summary) == 0 {
		return nil
	}
	num, err := w.f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	last := len(summary) + 1
	if err := w.f.SetCellStyle(sheet, "B2", fmt.Sprintf("D%d", last), num); err != nil {
		return err
	}
	// One scale per metric column.
	for _, col := range []string{"B", "C", "D"} {
		rng := fmt.Sprintf("%s2:%s%d", col, col, last)
		if err := w.f.SetConditionalFormat(sheet, rng, []excelize.ConditionalFormatOptions{{
			Type:     "3_color_scale",
			Criteria: "=",
			MinType:  "min",
			MidType:  "percentile",
			MidValue: "50",
			MaxType:  "max",
			MinColor: "#FFFFCC",
			MidColor: "#FD8D3C",
			MaxColor: "#800026",
		}}); err != nil {
			return err
		}
	}
	return nil
}

func (w *workbook) distributions(rows []rfm.CustomerRFM, bins int) error {
	sheet := SheetDistributions
	if err := w.newSheet(sheet); err != nil {
		return err
	}
	recency := make([]float64, len(rows))
	monetary := make([]float64, len(rows))
	frequency := make([]int, len(rows))
	for i, c := range rows {
		recency[i] = float64(c.Recency)
		monetary[i] = c.Monetary
		frequency[i] = c.Frequency
	}

	hists := []struct {
		metric string
		axis   string
		bins   []rfm.Bin
		label  func(rfm.Bin) string
	}{
		{"Recency", "Recency (days)", rfm.Histogram(recency, bins), binRange(0)},
		{"Frequency", "Frequency (orders)", rfm.DistinctCounts(frequency), func(b rfm.Bin) string {
			return fmt.Sprintf("%.0f", b.Lo)
		}},
		{"Monetary", "Monetary value", rfm.Histogram(monetary, bins), binRange(2)},
	}
	for i, h := range hists {
		col := 1 + i*3
		data := make([][]any, len(h.bins))
		for j, b := range h.bins {
			data[j] = []any{h.label(b), b.Count}
		}
		if err := w.table(sheet, col, []string{h.metric, "Customers"}, data); err != nil {
			return err
		}
		if len(h.bins) == 0 {
			continue
		}
		anchor := fmt.Sprintf("J%d", 1+i*22)
		n := len(h.bins) + 1
		if err := w.f.AddChart(sheet, anchor, &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       h.metric,
				Categories: ref(sheet, col, 2, n),
				Values:     ref(sheet, col+1, 2, n),
			}},
			Title:     title(h.metric + " Distribution"),
			Legend:    excelize.ChartLegend{Position: "none"},
			Dimension: chartSize,
			XAxis:     excelize.ChartAxis{Title: title(h.axis)},
			YAxis:     excelize.ChartAxis{Title: title("Number of Customers")},
		}); err != nil {
			return err
		}
	}
	return nil
}

func binRange(prec int) func(rfm.Bin) string {
	return func(b rfm.Bin) string {
		return fmt.Sprintf("%.*f-%.*f", prec, b.Lo, prec, b.Hi)
	}
}

// segmentRows is a contiguous block of sheet rows holding one segment.
type segmentRows struct {
	Segment string
	From    int // first sheet row, 1-based
	To      int // last sheet row, inclusive
}

// groupBySegment orders rows by segment, then key, and returns the sheet row
// range of each segment for data starting on row 2.
func groupBySegment(rows []rfm.CustomerRFM) ([]rfm.CustomerRFM, []segmentRows) {
	sorted := append([]rfm.CustomerRFM(nil), rows...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Segment != sorted[b].Segment {
			return sorted[a].Segment < sorted[b].Segment
		}
		return sorted[a].CustomerKey < sorted[b].CustomerKey
	})
	var groups []segmentRows
	for i, c := range sorted {
		row := i + 2
		if len(groups) == 0 || groups[len(groups)-1].Segment != c.Segment {
			groups = append(groups, segmentRows{Segment: c.Segment, From: row, To: row})
			continue
		}
		groups[len(groups)-1].To = row
	}
	return sorted, groups
}

func (w *workbook) repeatCustomers(rows []rfm.CustomerRFM) error {
	sheet := SheetRepeat
	if err := w.newSheet(sheet); err != nil {
		return err
	}
	rows, groups := groupBySegment(rows)
	data := make([][]any, len(rows))
	for i, c := range rows {
		data[i] = []any{c.CustomerKey, c.Recency, c.Frequency, c.Monetary, c.Segment}
	}
	header := []string{"customer_unique_id", "Recency", "Frequency", "Monetary", "Segment"}
	if err := w.table(sheet, 1, header, data); err != nil {
		return err
	}

	const recency, frequency, monetary = 2, 3, 4
	plots := []struct {
		x, y   int
		xTitle string
		yTitle string
	}{
		{recency, monetary, "Recency (days)", "Monetary value"},
		{frequency, monetary, "Frequency (orders)", "Monetary value"},
		{recency, frequency, "Recency (days)", "Frequency (orders)"},
	}
	for i, p := range plots {
		series := make([]excelize.ChartSeries, len(groups))
		for j, g := range groups {
			series[j] = excelize.ChartSeries{
				Name:       g.Segment,
				Categories: ref(sheet, p.x, g.From, g.To),
				Values:     ref(sheet, p.y, g.From, g.To),
				Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
				Line:       excelize.ChartLine{Type: excelize.ChartLineNone},
			}
		}
		anchor := fmt.Sprintf("G%d", 1+i*22)
		if err := w.f.AddChart(sheet, anchor, &excelize.Chart{
			Type:      excelize.Scatter,
			Series:    series,
			Title:     title(p.xTitle + " vs " + p.yTitle),
			Legend:    excelize.ChartLegend{Position: "right"},
			Dimension: chartSize,
			XAxis:     excelize.ChartAxis{Title: title(p.xTitle)},
			YAxis:     excelize.ChartAxis{Title: title(p.yTitle)},
		}); err != nil {
			return err
		}
	}
	return nil
}
