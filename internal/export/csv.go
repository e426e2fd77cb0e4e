// Package export writes segmentation results to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"rfmseg/internal/rfm"
)

// Header is the column order of the segmentation CSV.
var Header = []string{
	"customer_unique_id", "Recency", "Frequency", "Monetary",
	"R_Score", "F_Score", "M_Score", "RFM_Segment", "Segment",
}

// ErrMalformed reports a segmentation CSV that does not follow Header.
var ErrMalformed = errors.New("malformed segmentation csv")

func record(c rfm.CustomerRFM) []string {
	return []string{
		c.CustomerKey,
		strconv.Itoa(c.Recency),
		strconv.Itoa(c.Frequency),
		strconv.FormatFloat(c.Monetary, 'f', -1, 64),
		strconv.Itoa(c.Scores.R),
		strconv.Itoa(c.Scores.F),
		strconv.Itoa(c.Scores.M),
		c.Scores.Key(),
		c.Segment,
	}
}

// WriteCSV writes a header and one record per customer.
func WriteCSV(w io.Writer, rows []rfm.CustomerRFM) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, c := range rows {
		if err := cw.Write(record(c)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes rows to it.
func WriteCSVFile(path string, rows []rfm.CustomerRFM) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// ReadCSV parses a file produced by WriteCSV. RFM_Segment must agree with
// the three score columns.
func ReadCSV(r io.Reader) ([]rfm.CustomerRFM, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty input", ErrMalformed)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, col := range Header {
		if head[i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrMalformed, i+1, head[i], col)
		}
	}

	var out []rfm.CustomerRFM
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		c, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		out = append(out, c)
	}
}

func parseRecord(rec []string) (rfm.CustomerRFM, error) {
	c := rfm.CustomerRFM{CustomerKey: rec[0], Segment: rec[8]}
	var err error
	if c.Recency, err = strconv.Atoi(rec[1]); err != nil {
		return c, fmt.Errorf("Recency: %w", err)
	}
	if c.Frequency, err = strconv.Atoi(rec[2]); err != nil {
		return c, fmt.Errorf("Frequency: %w", err)
	}
	if c.Monetary, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return c, fmt.Errorf("Monetary: %w", err)
	}
	var scores rfm.ScoreTriple
	for i, dst := range []*int{&scores.R, &scores.F, &scores.M} {
		if *dst, err = strconv.Atoi(rec[4+i]); err != nil {
			return c, fmt.Errorf("%s: %w", Header[4+i], err)
		}
	}
	if !scores.Valid() {
		return c, fmt.Errorf("%w: %s", rfm.ErrInvalidScore, scores.Key())
	}
	if scores.Key() != rec[7] {
		return c, fmt.Errorf("RFM_Segment %q does not match scores %s", rec[7], scores.Key())
	}
	c.Scores = scores
	return c, nil
}
