// Package catalog persists dataset scans in SQLite so later queries can run
// without reopening every archive.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

// ErrNoScan is returned by queries against a catalog holding no scan.
var ErrNoScan = errors.New("catalog holds no scan")

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA busy_timeout=5000",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Store is an open catalog database.
type Store struct {
	db    *sql.DB
	clock timeutil.Clock
}

// Open opens or creates the catalog at path and migrates it to the latest
// schema.
func Open(path string) (*Store, error) {
	return OpenWithClock(path, timeutil.RealClock{})
}

// OpenWithClock is Open with an injected clock for scan timestamps.
func OpenWithClock(path string, clock timeutil.Clock) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}

	s := &Store{db: db, clock: clock}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Scan is one saved scan.
type Scan struct {
	ID      string    `json:"id"`
	Root    string    `json:"root"`
	Created time.Time `json:"created"`
	Files   int       `json:"files"`
	Skipped int       `json:"skipped"`
}

// Row is a catalogued record.
type Row struct {
	motion.Info
	Dataset  string `json:"dataset"`
	Subject  string `json:"subject"`
	Category string `json:"category"`
}

// SaveScan stores every record of c under a new scan id and returns the id.
func (s *Store) SaveScan(ctx context.Context, c *dataset.Catalog) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO scans (scan_id, root, created_unix_ns, files, skipped) VALUES (?, ?, ?, ?, ?)`,
		id, c.Root, s.clock.Now().UnixNano(), c.TotalFiles(), c.Skipped)
	if err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records
		(scan_id, dataset, subject, name, path, fps, frames, bodies, dofs, size_bytes, duration_s, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, d := range c.Datasets {
		for _, sub := range d.Subjects {
			for _, r := range sub.Records {
				_, err := stmt.ExecContext(ctx, id, d.Name, sub.Name, r.Name, r.Path,
					r.FPS, r.Frames, r.Bodies, r.DOFs, r.SizeBytes, r.Duration(), classify.Primary(r.Name))
				if err != nil {
					return "", fmt.Errorf("insert record %s: %w", r.Path, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	monitoring.Logf("catalog: saved scan %s (%d records)", id, c.TotalFiles())
	return id, nil
}

// Scans lists saved scans, newest first.
func (s *Store) Scans(ctx context.Context) ([]Scan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scan_id, root, created_unix_ns, files, skipped FROM scans ORDER BY created_unix_ns DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var sc Scan
		var ns int64
		if err := rows.Scan(&sc.ID, &sc.Root, &ns, &sc.Files, &sc.Skipped); err != nil {
			return nil, err
		}
		sc.Created = time.Unix(0, ns).UTC()
		out = append(out, sc)
	}
	return out, rows.Err()
}

// LatestScan returns the newest scan, or ErrNoScan.
func (s *Store) LatestScan(ctx context.Context) (Scan, error) {
	scans, err := s.Scans(ctx)
	if err != nil {
		return Scan{}, err
	}
	if len(scans) == 0 {
		return Scan{}, ErrNoScan
	}
	return scans[0], nil
}

const rowColumns = `dataset, subject, name, path, fps, frames, bodies, dofs, size_bytes, category`

func scanRow(rows *sql.Rows) (Row, error) {
	var r Row
	err := rows.Scan(&r.Dataset, &r.Subject, &r.Name, &r.Path, &r.FPS, &r.Frames, &r.Bodies, &r.DOFs, &r.SizeBytes, &r.Category)
	return r, err
}

// Records returns the records of one dataset in a scan in path order. An
// empty dataset name returns every record.
func (s *Store) Records(ctx context.Context, scanID, datasetName string) ([]Row, error) {
	q := `SELECT ` + rowColumns + ` FROM records WHERE scan_id = ?`
	args := []any{scanID}
	if datasetName != "" {
		q += ` AND dataset = ?`
		args = append(args, datasetName)
	}
	q += ` ORDER BY path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FindByDuration queries the latest scan with the same inclusive semantics
// and ordering as dataset.FindByDuration.
func (s *Store) FindByDuration(ctx context.Context, datasetName string, r dataset.DurationRange) ([]dataset.Match, error) {
	latest, err := s.LatestScan(ctx)
	if err != nil {
		return nil, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM records WHERE scan_id = ? AND dataset = ?`, latest.ID, datasetName).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %q in scan %s", dataset.ErrDatasetNotFound, datasetName, latest.ID)
	}

	q := `SELECT subject, name, path, duration_s, frames, size_bytes FROM records
		WHERE scan_id = ? AND dataset = ? AND duration_s >= ?`
	args := []any{latest.ID, datasetName, r.Min}
	if !math.IsInf(r.Max, 1) {
		q += ` AND duration_s <= ?`
		args = append(args, r.Max)
	}
	q += ` ORDER BY duration_s, path`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []dataset.Match
	for rows.Next() {
		var m dataset.Match
		if err := rows.Scan(&m.Subject, &m.Name, &m.Path, &m.Duration, &m.Frames, &m.SizeBytes); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CategoryCounts returns how many records of the latest scan carry each
// primary category.
func (s *Store) CategoryCounts(ctx context.Context) (map[string]int, error) {
	latest, err := s.LatestScan(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, COUNT(*) FROM records WHERE scan_id = ? GROUP BY category`, latest.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var c string
		var n int
		if err := rows.Scan(&c, &n); err != nil {
			return nil, err
		}
		out[c] = n
	}
	return out, rows.Err()
}
