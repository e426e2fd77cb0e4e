package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rfmseg/internal/analysis"
	"rfmseg/internal/logging"
	"rfmseg/internal/rfm"
)

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }

// SqlStore implements Store with SQLite.
type SqlStore struct {
	db *sql.DB
}

var _ Store = (*SqlStore)(nil)

// Open opens or creates a SQLite DB at path and runs migrations.
// Creates the parent directory if it does not exist.
func Open(path string) (*SqlStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &SqlStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqlStore) migrate() error {
	var tableCount int
	err := s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}
	if tableCount == 0 {
		return s.freshInstall()
	}

	var v int
	err = s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("schema_version table is empty")
	}
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != currentSchemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

func (s *SqlStore) freshInstall() error {
	if _, err := s.db.Exec(schemaV1); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", currentSchemaVersion); err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SqlStore) Close() error {
	return s.db.Close()
}

// SaveRun stores res under a new run ID in one transaction.
func (s *SqlStore) SaveRun(res *analysis.Result) (string, error) {
	rules := make([]RuleRecord, len(res.Rules))
	for i, r := range res.Rules {
		rules[i] = RuleRecord{Pattern: r.Pattern(), Segment: r.Segment}
	}
	rulesJSON, err := json.Marshal(rules)
	if err != nil {
		return "", fmt.Errorf("marshal rules: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := uuid.NewString()
	_, err = tx.Exec(
		`INSERT INTO runs(id, created_at, snapshot, multiplicity, customers, facts, rules)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		id, nowUTC(), res.Snapshot.UTC().Format(time.RFC3339), string(res.Multiplicity),
		len(res.Customers), res.Join.Facts, string(rulesJSON),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for _, th := range []struct {
		metric string
		cuts   rfm.Cuts
	}{
		{"Recency", res.Thresholds.Recency},
		{"Frequency", res.Thresholds.Frequency},
		{"Monetary", res.Thresholds.Monetary},
	} {
		if _, err := tx.Exec(
			"INSERT INTO thresholds(run_id, metric, q25, q50, q75) VALUES(?, ?, ?, ?, ?)",
			id, th.metric, th.cuts.Q25, th.cuts.Q50, th.cuts.Q75,
		); err != nil {
			return "", fmt.Errorf("insert thresholds: %w", err)
		}
	}

	stmt, err := tx.Prepare(
		`INSERT INTO customer_segments(run_id, customer_unique_id, recency, frequency, monetary,
		        r_score, f_score, m_score, rfm_segment, segment)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("prepare customer insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range res.Customers {
		if _, err := stmt.Exec(id, c.CustomerKey, c.Recency, c.Frequency, c.Monetary,
			c.Scores.R, c.Scores.F, c.Scores.M, c.Scores.Key(), c.Segment); err != nil {
			return "", fmt.Errorf("insert customer %s: %w", c.CustomerKey, err)
		}
	}

	for i, sum := range res.Summary {
		if _, err := tx.Exec(
			`INSERT INTO segment_summary(run_id, position, segment, customers,
			        mean_recency, mean_frequency, mean_monetary)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			id, i, sum.Segment, sum.Count, sum.MeanRecency, sum.MeanFrequency, sum.MeanMonetary,
		); err != nil {
			return "", fmt.Errorf("insert summary: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit run: %w", err)
	}
	logging.New("store").Info("run saved", "run_id", id, "customers", len(res.Customers))
	return id, nil
}

const runColumns = "id, created_at, snapshot, multiplicity, customers, facts, rules"

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var created, snapshot, rules string
	if err := row.Scan(&r.ID, &created, &snapshot, &r.Multiplicity, &r.Customers, &r.Facts, &rules); err != nil {
		return nil, err
	}
	var err error
	if r.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
		return nil, fmt.Errorf("run %s created_at: %w", r.ID, err)
	}
	if r.Snapshot, err = time.Parse(time.RFC3339, snapshot); err != nil {
		return nil, fmt.Errorf("run %s snapshot: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(rules), &r.Rules); err != nil {
		return nil, fmt.Errorf("run %s rules: %w", r.ID, err)
	}
	return &r, nil
}

// GetRun returns the run by id, or nil if it does not exist.
func (s *SqlStore) GetRun(runID string) (*Run, error) {
	r, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// ListRuns returns every run, oldest first.
func (s *SqlStore) ListRuns() ([]*Run, error) {
	rows, err := s.db.Query("SELECT " + runColumns + " FROM runs ORDER BY created_at, rowid")
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()
	var list []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return list, nil
}

func (s *SqlStore) requireRun(runID string) error {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs WHERE id = ?", runID).Scan(&n); err != nil {
		return fmt.Errorf("check run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

// LoadSegments returns the labeled customers of a run ordered by key.
func (s *SqlStore) LoadSegments(runID string) ([]rfm.CustomerRFM, error) {
	if err := s.requireRun(runID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT customer_unique_id, recency, frequency, monetary, r_score, f_score, m_score, segment
		 FROM customer_segments WHERE run_id = ? ORDER BY customer_unique_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	defer rows.Close()
	var list []rfm.CustomerRFM
	for rows.Next() {
		var c rfm.CustomerRFM
		if err := rows.Scan(&c.CustomerKey, &c.Recency, &c.Frequency, &c.Monetary,
			&c.Scores.R, &c.Scores.F, &c.Scores.M, &c.Segment); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	return list, nil
}

// LoadThresholds returns the quartile cuts a run scored with.
func (s *SqlStore) LoadThresholds(runID string) (rfm.Thresholds, error) {
	var th rfm.Thresholds
	if err := s.requireRun(runID); err != nil {
		return th, err
	}
	rows, err := s.db.Query("SELECT metric, q25, q50, q75 FROM thresholds WHERE run_id = ?", runID)
	if err != nil {
		return th, fmt.Errorf("load thresholds: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var metric string
		var c rfm.Cuts
		if err := rows.Scan(&metric, &c.Q25, &c.Q50, &c.Q75); err != nil {
			return th, fmt.Errorf("scan thresholds: %w", err)
		}
		switch metric {
		case "Recency":
			th.Recency = c
		case "Frequency":
			th.Frequency = c
		case "Monetary":
			th.Monetary = c
		}
	}
	if err := rows.Err(); err != nil {
		return th, fmt.Errorf("load thresholds: %w", err)
	}
	return th, nil
}

// LoadSummary returns the per-segment aggregates of a run in saved order.
func (s *SqlStore) LoadSummary(runID string) ([]rfm.SegmentSummary, error) {
	if err := s.requireRun(runID); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT segment, customers, mean_recency, mean_frequency, mean_monetary
		 FROM segment_summary WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	defer rows.Close()
	var list []rfm.SegmentSummary
	for rows.Next() {
		var sum rfm.SegmentSummary
		if err := rows.Scan(&sum.Segment, &sum.Count, &sum.MeanRecency, &sum.MeanFrequency, &sum.MeanMonetary); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		list = append(list, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	return list, nil
}
