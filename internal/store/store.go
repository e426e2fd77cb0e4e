// Package store persists segmentation runs in SQLite.
package store

import (
	"errors"
	"time"

	"rfmseg/internal/analysis"
	"rfmseg/internal/rfm"
)

// ErrRunNotFound is returned for a run ID the store does not hold.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored segmentation run.
type Run struct {
	ID           string
	CreatedAt    time.Time
	Snapshot     time.Time
	Multiplicity string
	Customers    int
	Facts        int
	Rules        []RuleRecord
}

// RuleRecord is a segment rule as stored with its run.
type RuleRecord struct {
	Pattern string `json:"pattern"`
	Segment string `json:"segment"`
}

// Store is the persistence facade for runs. Repeated saves append.
type Store interface {
	SaveRun(res *analysis.Result) (runID string, err error)
	GetRun(runID string) (*Run, error)
	ListRuns() ([]*Run, error)
	LoadSegments(runID string) ([]rfm.CustomerRFM, error)
	LoadThresholds(runID string) (rfm.Thresholds, error)
	LoadSummary(runID string) ([]rfm.SegmentSummary, error)
	Close() error
}
