package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docdown/docdown/internal/model"
)

// DBFileName is the history database filename inside the data directory.
const DBFileName = "docdown.db"

// CrawlDB stores crawl-run history in a single SQLite file.
//
// Design decision: One database file for all sites rather than one per
// output directory. History queries span sites ("what did I download last
// week") and a single file keeps backup trivial.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB under dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error
// is returned instead of creating an empty history.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, DBFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating a
	// new file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Runs store one row per crawl invocation
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		base_url TEXT NOT NULL,
		method TEXT NOT NULL,
		output_dir TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		finished_at DATETIME,
		pages_saved INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0,
		interrupted INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_base_url ON runs(base_url);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Pages store one row per processed URL within a run
	CREATE TABLE IF NOT EXISTS pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		url TEXT NOT NULL,
		title TEXT,
		status_code INTEGER,
		failed INTEGER DEFAULT 0,
		error TEXT,
		output_path TEXT,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is a stored crawl run.
type RunRecord struct {
	ID          int64
	BaseURL     string
	Method      string
	OutputDir   string
	StartedAt   time.Time
	FinishedAt  time.Time
	PagesSaved  int
	PagesFailed int
	Interrupted bool
}

// PageRecord is a stored page outcome.
type PageRecord struct {
	ID         int64
	RunID      int64
	URL        string
	Title      string
	StatusCode int
	Failed     bool
	Err        string
	OutputPath string
	FetchedAt  time.Time
}

// StartRun inserts a run row and returns its ID. Page rows reference it.
func (cdb *CrawlDB) StartRun(ctx context.Context, baseURL, method, outputDir string) (int64, error) {
	query := `
	INSERT INTO runs (base_url, method, output_dir)
	VALUES (?, ?, ?)
	`

	result, err := cdb.db.ExecContext(ctx, query, baseURL, method, outputDir)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return result.LastInsertId()
}

// FinishRun records the final counters of a run.
func (cdb *CrawlDB) FinishRun(ctx context.Context, runID int64, summary *model.Summary) error {
	query := `
	UPDATE runs
	SET finished_at = CURRENT_TIMESTAMP, pages_saved = ?, pages_failed = ?, interrupted = ?
	WHERE id = ?
	`

	_, err := cdb.db.ExecContext(ctx, query,
		summary.Saved(),
		summary.Failures(),
		boolToInt(summary.Interrupted),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	return nil
}

// InsertPage stores one page outcome for a run.
// Uses UPSERT so a rerun of the same URL within a run never duplicates.
func (cdb *CrawlDB) InsertPage(ctx context.Context, runID int64, page *model.Page) error {
	query := `
	INSERT INTO pages (run_id, url, title, status_code, failed, error, output_path, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(run_id, url) DO UPDATE SET
		title = excluded.title,
		status_code = excluded.status_code,
		failed = excluded.failed,
		error = excluded.error,
		output_path = excluded.output_path,
		fetched_at = excluded.fetched_at
	`

	_, err := cdb.db.ExecContext(ctx, query,
		runID,
		page.URL,
		page.Title,
		page.StatusCode,
		boolToInt(page.Failed),
		page.Err,
		page.OutputPath,
		page.FetchedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}

	return nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero
// returns all runs.
func (cdb *CrawlDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, base_url, method, output_dir, started_at, finished_at, pages_saved, pages_failed, interrupted
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunRecord
	for rows.Next() {
		var run RunRecord
		var started string
		var finished sql.NullString
		var interrupted int

		err := rows.Scan(
			&run.ID,
			&run.BaseURL,
			&run.Method,
			&run.OutputDir,
			&started,
			&finished,
			&run.PagesSaved,
			&run.PagesFailed,
			&interrupted,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.StartedAt = parseTimestamp(started)
		if finished.Valid {
			run.FinishedAt = parseTimestamp(finished.String)
		}
		run.Interrupted = interrupted != 0
		results = append(results, run)
	}

	return results, rows.Err()
}

// RunPages returns the page outcomes of one run in insertion order.
func (cdb *CrawlDB) RunPages(ctx context.Context, runID int64) ([]PageRecord, error) {
	query := `
	SELECT id, run_id, url, title, status_code, failed, error, output_path, fetched_at
	FROM pages
	WHERE run_id = ?
	ORDER BY id
	`

	rows, err := cdb.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var results []PageRecord
	for rows.Next() {
		var page PageRecord
		var failed int
		var fetched string

		err := rows.Scan(
			&page.ID,
			&page.RunID,
			&page.URL,
			&page.Title,
			&page.StatusCode,
			&failed,
			&page.Err,
			&page.OutputPath,
			&fetched,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		page.Failed = failed != 0
		page.FetchedAt = parseTimestamp(fetched)
		results = append(results, page)
	}

	return results, rows.Err()
}

// LastRunForSite returns the most recent run for a base URL, or nil when
// the site was never crawled.
func (cdb *CrawlDB) LastRunForSite(ctx context.Context, baseURL string) (*RunRecord, error) {
	query := `
	SELECT id, base_url, method, output_dir, started_at, finished_at, pages_saved, pages_failed, interrupted
	FROM runs
	WHERE base_url = ?
	ORDER BY started_at DESC, id DESC
	LIMIT 1
	`

	var run RunRecord
	var started string
	var finished sql.NullString
	var interrupted int

	err := cdb.db.QueryRowContext(ctx, query, baseURL).Scan(
		&run.ID,
		&run.BaseURL,
		&run.Method,
		&run.OutputDir,
		&started,
		&finished,
		&run.PagesSaved,
		&run.PagesFailed,
		&interrupted,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last run: %w", err)
	}

	run.StartedAt = parseTimestamp(started)
	if finished.Valid {
		run.FinishedAt = parseTimestamp(finished.String)
	}
	run.Interrupted = interrupted != 0
	return &run, nil
}

// RunRecorder binds page inserts to one run ID. It satisfies the
// crawler's recorder interface.
type RunRecorder struct {
	db    *CrawlDB
	runID int64
}

// NewRunRecorder creates a RunRecorder for the given run.
func (cdb *CrawlDB) NewRunRecorder(runID int64) *RunRecorder {
	return &RunRecorder{db: cdb, runID: runID}
}

// RecordPage stores one page outcome under the recorder's run.
func (r *RunRecorder) RecordPage(ctx context.Context, page *model.Page) error {
	return r.db.InsertPage(ctx, r.runID, page)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats. SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
