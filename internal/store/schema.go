package store

// schemaVersionV1 is the first run schema.
const schemaVersionV1 = 1

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS runs (
	id           TEXT PRIMARY KEY,
	created_at   TEXT NOT NULL,
	snapshot     TEXT NOT NULL,
	multiplicity TEXT NOT NULL,
	customers    INTEGER NOT NULL,
	facts        INTEGER NOT NULL,
	rules        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS thresholds (
	run_id TEXT NOT NULL REFERENCES runs(id),
	metric TEXT NOT NULL,
	q25    REAL NOT NULL,
	q50    REAL NOT NULL,
	q75    REAL NOT NULL,
	PRIMARY KEY (run_id, metric)
);

CREATE TABLE IF NOT EXISTS customer_segments (
	run_id             TEXT NOT NULL REFERENCES runs(id),
	customer_unique_id TEXT NOT NULL,
	recency            INTEGER NOT NULL,
	frequency          INTEGER NOT NULL,
	monetary           REAL NOT NULL,
	r_score            INTEGER NOT NULL,
	f_score            INTEGER NOT NULL,
	m_score            INTEGER NOT NULL,
	rfm_segment        TEXT NOT NULL,
	segment            TEXT NOT NULL,
	PRIMARY KEY (run_id, customer_unique_id)
);

CREATE INDEX IF NOT EXISTS idx_customer_segments_segment ON customer_segments(run_id, segment);

CREATE TABLE IF NOT EXISTS segment_summary (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	position       INTEGER NOT NULL,
	segment        TEXT NOT NULL,
	customers      INTEGER NOT NULL,
	mean_recency   REAL NOT NULL,
	mean_frequency REAL NOT NULL,
	mean_monetary  REAL NOT NULL,
	PRIMARY KEY (run_id, segment)
);
`
