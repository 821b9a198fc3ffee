package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"poreparse/poreblazer"
)

// Summary section names as stored in the index.
const (
	SectionGeneral           = "general"
	SectionTotal             = "total"
	SectionNetworkAccessible = "network_accessible"
)

// ErrRunNotFound is returned when a run directory is not in the index.
var ErrRunNotFound = errors.New("run not indexed")

// RunRecord is one indexed run.
type RunRecord struct {
	ID        int64
	Dir       string
	InputFile string
	IndexedAt time.Time
}

// RunStore is a SQLite-backed index of parsed runs.
type RunStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// Open opens (creating if necessary) the run index at path and initializes
// the schema.
func Open(path string) (*RunStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if err := InitSchema(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return &RunStore{db: db}, nil
}

// Close closes the underlying database.
func (s *RunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// IndexRun inserts or replaces the index entry for run's directory and
// returns its id. The previous summary and PSD rows for the directory are
// discarded.
func (s *RunStore) IndexRun(ctx context.Context, run *poreblazer.Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (dir, input_file, indexed_at) VALUES (?, ?, ?)
		ON CONFLICT(dir) DO UPDATE SET input_file = excluded.input_file, indexed_at = excluded.indexed_at`,
		run.Dir, run.InputFileName, now); err != nil {
		return 0, fmt.Errorf("failed to upsert run: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM runs WHERE dir = ?`, run.Dir).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to look up run id: %w", err)
	}

	for _, table := range []string{"summary_values", "psd_rows"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE run_id = ?`, id); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if run.Summary != nil {
		if err := insertSummary(ctx, tx, id, run.Summary); err != nil {
			return 0, err
		}
	}
	if err := insertPSD(ctx, tx, id, false, run.PSD); err != nil {
		return 0, err
	}
	if err := insertPSD(ctx, tx, id, true, run.NetworkPSD); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return id, nil
}

func insertSummary(ctx context.Context, tx *sql.Tx, id int64, s *poreblazer.Summary) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO summary_values (run_id, section, key, value, is_int) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare summary insert: %w", err)
	}
	defer stmt.Close()

	for key, v := range s.General {
		isInt := 0
		if v.IsInt {
			isInt = 1
		}
		if _, err := stmt.ExecContext(ctx, id, SectionGeneral, key, v.Float64(), isInt); err != nil {
			return fmt.Errorf("failed to insert general value: %w", err)
		}
	}
	for key, v := range s.Total {
		if _, err := stmt.ExecContext(ctx, id, SectionTotal, key, v, 0); err != nil {
			return fmt.Errorf("failed to insert total value: %w", err)
		}
	}
	for key, v := range s.NetworkAccessible {
		if _, err := stmt.ExecContext(ctx, id, SectionNetworkAccessible, key, v, 0); err != nil {
			return fmt.Errorf("failed to insert network value: %w", err)
		}
	}
	return nil
}

func insertPSD(ctx context.Context, tx *sql.Tx, id int64, network bool, rows []poreblazer.PSDRow) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO psd_rows (run_id, network, d, volume_fraction, derivative) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare psd insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	if network {
		n = 1
	}
	for _, row := range rows {
		var cum, deriv any
		if row.Cumulative != nil {
			cum = *row.Cumulative
		}
		if row.Derivative != nil {
			deriv = *row.Derivative
		}
		if _, err := stmt.ExecContext(ctx, id, n, row.Diameter, cum, deriv); err != nil {
			return fmt.Errorf("failed to insert psd row: %w", err)
		}
	}
	return nil
}

// ListRuns returns all indexed runs ordered by directory.
func (s *RunStore) ListRuns(ctx context.Context) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, dir, input_file, indexed_at FROM runs ORDER BY dir`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetRun returns the index entry for a run directory.
func (s *RunStore) GetRun(ctx context.Context, dir string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `SELECT id, dir, input_file, indexed_at FROM runs WHERE dir = ?`, dir)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", dir, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(r rowScanner) (RunRecord, error) {
	var rec RunRecord
	var indexedAt string
	if err := r.Scan(&rec.ID, &rec.Dir, &rec.InputFile, &indexedAt); err != nil {
		return RunRecord{}, err
	}
	t, err := time.Parse(time.RFC3339, indexedAt)
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to parse indexed_at: %w", err)
	}
	rec.IndexedAt = t
	return rec, nil
}

// SummaryValues returns the stored summary of a run as section -> key ->
// value maps.
func (s *RunStore) SummaryValues(ctx context.Context, dir string) (map[string]map[string]float64, error) {
	rec, err := s.GetRun(ctx, dir)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT section, key, value FROM summary_values WHERE run_id = ? ORDER BY section, key`, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query summary values: %w", err)
	}
	defer rows.Close()

	sections := make(map[string]map[string]float64)
	for rows.Next() {
		var section, key string
		var value float64
		if err := rows.Scan(&section, &key, &value); err != nil {
			return nil, err
		}
		if sections[section] == nil {
			sections[section] = make(map[string]float64)
		}
		sections[section][key] = value
	}
	return sections, rows.Err()
}

// PSD returns the stored pore-size distribution of a run, sorted by
// diameter. network selects the network-accessible table.
func (s *RunStore) PSD(ctx context.Context, dir string, network bool) ([]poreblazer.PSDRow, error) {
	rec, err := s.GetRun(ctx, dir)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	if network {
		n = 1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d, volume_fraction, derivative FROM psd_rows WHERE run_id = ? AND network = ? ORDER BY d`, rec.ID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query psd rows: %w", err)
	}
	defer rows.Close()

	var result []poreblazer.PSDRow
	for rows.Next() {
		var row poreblazer.PSDRow
		var cum, deriv sql.NullFloat64
		if err := rows.Scan(&row.Diameter, &cum, &deriv); err != nil {
			return nil, err
		}
		if cum.Valid {
			row.Cumulative = &cum.Float64
		}
		if deriv.Valid {
			row.Derivative = &deriv.Float64
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// DeleteRun removes a run and its values from the index.
func (s *RunStore) DeleteRun(ctx context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE dir = ?`, dir)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", dir, ErrRunNotFound)
	}
	return nil
}
