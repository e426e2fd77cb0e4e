package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// rawTable is a CSV file held as header plus string rows.
type rawTable struct {
	name   Table
	header []string
	index  map[string]int
	rows   [][]string
}

const ctxCheckEvery = 10000

func readFile(ctx context.Context, name Table, path string) (*rawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCSV(ctx, name, f)
}

func readCSV(ctx context.Context, name Table, r io.Reader) (*rawTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty file", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	t := &rawTable{name: name, header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		t.index[strings.TrimSpace(h)] = i
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: line %d: %w", name, line, err)
		}
		t.rows = append(t.rows, rec)
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// columns resolves the named columns, failing on the first missing one.
func (t *rawTable) columns(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, ok := t.index[n]
		if !ok {
			return nil, fmt.Errorf("%s: missing column %q", t.name, n)
		}
		idx[i] = j
	}
	return idx, nil
}

// cell returns the trimmed value; short rows read as empty.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTime coerces s to a timestamp; unparseable or empty input is null.
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseFloat coerces s to a number; unparseable, empty or NaN input is null.
func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != v {
		return 0, false
	}
	return v, true
}

func parseInt(s string) (int, bool) {
	v, ok := parseFloat(s)
	if !ok {
		return 0, false
	}
	return int(v), true
}
