package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"rfmseg/internal/analysis"
	"rfmseg/internal/rfm"
)

func sampleRows() []rfm.CustomerRFM {
	return []rfm.CustomerRFM{
		{CustomerKey: "u1", Recency: 6, Frequency: 2, Monetary: 355, Scores: rfm.ScoreTriple{R: 3, F: 4, M: 4}, Segment: rfm.LoyalCustomers},
		{CustomerKey: "u2", Recency: 48, Frequency: 1, Monetary: 25.5, Scores: rfm.ScoreTriple{R: 2, F: 1, M: 1}, Segment: rfm.AboutToSleep},
		{CustomerKey: "u3", Recency: 121, Frequency: 1, Monetary: 215.07, Scores: rfm.ScoreTriple{R: 1, F: 1, M: 3}, Segment: rfm.PotentialLoyalists},
	}
}

func TestWriteCSV_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()[:2]); err != nil {
		t.Fatal(err)
	}
	want := "customer_unique_id,Recency,Frequency,Monetary,R_Score,F_Score,M_Score,RFM_Segment,Segment\n" +
		"u1,6,2,355,3,4,4,344,Loyal Customers\n" +
		"u2,48,1,25.5,2,1,1,211,About to Sleep\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestCSV_ReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.csv")
	if err := WriteCSVFile(path, sampleRows()); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRows()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleRows(), got); diff != "" {
		t.Errorf("read back mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	head := strings.Join(Header, ",") + "\n"
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "id,Recency,Frequency,Monetary,R_Score,F_Score,M_Score,RFM_Segment,Segment\n"},
		{"short row", head + "u1,6,2\n"},
		{"bad recency", head + "u1,x,2,355,3,4,4,344,Loyal Customers\n"},
		{"score out of range", head + "u1,6,2,355,5,4,4,544,Loyal Customers\n"},
		{"key mismatch", head + "u1,6,2,355,3,4,4,443,Loyal Customers\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func sampleResult(rows []rfm.CustomerRFM) *analysis.Result {
	return &analysis.Result{
		Snapshot:  time.Date(2018, 3, 21, 18, 0, 0, 0, time.UTC),
		Customers: rows,
		Summary:   rfm.Summarize(rows),
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.xlsx")
	if err := WriteWorkbook(path, sampleResult(sampleRows()), 4); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := []string{SheetSegmentation, SheetSegments, SheetMeans, SheetDistributions, SheetRepeat}
	if diff := cmp.Diff(want, f.GetSheetList()); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	rows, err := f.GetRows(SheetSegmentation)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("segmentation rows = %d, want 4", len(rows))
	}
	if diff := cmp.Diff(Header, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if rows[1][0] != "u1" || rows[1][7] != "344" || rows[1][8] != rfm.LoyalCustomers {
		t.Errorf("first row = %v", rows[1])
	}

	seg, err := f.GetRows(SheetSegments)
	if err != nil {
		t.Fatal(err)
	}
	if len(seg) != 4 {
		t.Errorf("segments rows = %d, want 4", len(seg))
	}

	dist, err := f.GetRows(SheetDistributions)
	if err != nil {
		t.Fatal(err)
	}
	// 4 recency bins plus header.
	if len(dist) != 5 {
		t.Errorf("distribution rows = %d, want 5", len(dist))
	}
	if dist[0][3] != "Frequency" || dist[1][3] != "1" || dist[1][4] != "2" {
		t.Errorf("frequency column = %v", dist[:3])
	}

	repeat, err := f.GetRows(SheetRepeat)
	if err != nil {
		t.Fatal(err)
	}
	if len(repeat) != 2 || repeat[1][0] != "u1" {
		t.Errorf("repeat customers = %v", repeat)
	}
}

func TestWriteWorkbook_NoRepeatCustomers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seg.xlsx")
	if err := WriteWorkbook(path, sampleResult(sampleRows()[1:]), 0); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	for _, name := range f.GetSheetList() {
		if name == SheetRepeat {
			t.Errorf("sheet %q written without repeat customers", SheetRepeat)
		}
	}
	dist, err := f.GetRows(SheetDistributions)
	if err != nil {
		t.Fatal(err)
	}
	if len(dist) != DefaultBins+1 {
		t.Errorf("distribution rows = %d, want %d", len(dist), DefaultBins+1)
	}
}

func TestGroupBySegment(t *testing.T) {
	rows := []rfm.CustomerRFM{
		{CustomerKey: "c", Segment: rfm.LoyalCustomers},
		{CustomerKey: "a", Segment: rfm.Champions},
		{CustomerKey: "b", Segment: rfm.LoyalCustomers},
		{CustomerKey: "d", Segment: rfm.Champions},
		{CustomerKey: "e", Segment: rfm.Promising},
	}
	sorted, groups := groupBySegment(rows)

	keys := make([]string, len(sorted))
	for i, c := range sorted {
		keys[i] = c.CustomerKey
	}
	if diff := cmp.Diff([]string{"a", "d", "b", "c", "e"}, keys); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	want := []segmentRows{
		{Segment: rfm.Champions, From: 2, To: 3},
		{Segment: rfm.LoyalCustomers, From: 4, To: 5},
		{Segment: rfm.Promising, From: 6, To: 6},
	}
	if diff := cmp.Diff(want, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
	if rows[0].CustomerKey != "c" {
		t.Error("input slice was reordered")
	}
}

func TestWriteWorkbook_RepeatCustomersGroupedBySegment(t *testing.T) {
	rows := []rfm.CustomerRFM{
		{CustomerKey: "x", Recency: 3, Frequency: 3, Monetary: 900, Scores: rfm.ScoreTriple{R: 4, F: 4, M: 4}, Segment: rfm.Champions},
		{CustomerKey: "y", Recency: 40, Frequency: 2, Monetary: 300, Scores: rfm.ScoreTriple{R: 2, F: 4, M: 4}, Segment: rfm.LoyalCustomers},
		{CustomerKey: "z", Recency: 5, Frequency: 2, Monetary: 120, Scores: rfm.ScoreTriple{R: 4, F: 4, M: 2}, Segment: rfm.Champions},
	}
	path := filepath.Join(t.TempDir(), "seg.xlsx")
	if err := WriteWorkbook(path, sampleResult(rows), 3); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := f.GetRows(SheetRepeat)
	if err != nil {
		t.Fatal(err)
	}
	var order []string
	for _, r := range got[1:] {
		order = append(order, r[0]+" "+r[4])
	}
	want := []string{"x " + rfm.Champions, "z " + rfm.Champions, "y " + rfm.LoyalCustomers}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("repeat rows mismatch (-want +got):\n%s", diff)
	}
}
