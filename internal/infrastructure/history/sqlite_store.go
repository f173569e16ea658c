// Package history persists run records in a SQLite database.
package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/codriver-ai/codriver/internal/domain"
	"github.com/codriver-ai/codriver/internal/ports"
)

// SQLiteStore persists run history in a SQLite database. When the database
// cannot be opened the store degrades to a no-op that returns empty results;
// history is bookkeeping, not a reason to refuse to run.
type SQLiteStore struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// NewSQLiteStore creates (or opens) the run database at path. An empty path
// resolves to ~/.codriver/history/runs.db.
func NewSQLiteStore(path string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(userHome(), ".codriver", "history", "runs.db")
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return &SQLiteStore{path: path}
	}
	store := &SQLiteStore{db: db, path: path}
	if err := store.init(); err != nil {
		return &SQLiteStore{path: path}
	}
	return store
}

func (s *SQLiteStore) init() error {
	if s.db == nil {
		return os.ErrInvalid
	}
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TEXT,
		plan_id TEXT,
		step_id TEXT,
		kind TEXT,
		command TEXT,
		auto_approved INTEGER,
		status TEXT,
		exit_code INTEGER,
		error TEXT,
		duration_ms INTEGER
	);`)
	return err
}

// Save implements ports.HistoryRepository.
func (s *SQLiteStore) Save(record domain.RunRecord) error {
	if s.db == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.Exec(`INSERT INTO runs
		(timestamp, plan_id, step_id, kind, command, auto_approved, status, exit_code, error, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.Timestamp.Format(time.RFC3339),
		record.PlanID,
		record.StepID,
		string(record.Kind),
		record.Command,
		boolToInt(record.AutoApproved),
		string(record.Status),
		record.ExitCode,
		record.Error,
		record.DurationMS,
	)
	return err
}

// Records returns run entries, newest first (limit/search optional).
func (s *SQLiteStore) Records(limit int, search string) ([]domain.RunRecord, error) {
	if s.db == nil {
		return nil, nil
	}
	builder := strings.Builder{}
	builder.WriteString("SELECT timestamp, plan_id, step_id, kind, command, auto_approved, status, exit_code, error, duration_ms FROM runs")
	var args []interface{}
	if search != "" {
		builder.WriteString(" WHERE command LIKE ?")
		args = append(args, "%"+search+"%")
	}
	builder.WriteString(" ORDER BY datetime(timestamp) DESC, id DESC")
	if limit > 0 {
		builder.WriteString(" LIMIT ?")
		args = append(args, limit)
	}
	rows, err := s.db.Query(builder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var ts, kind, status string
		var autoApproved int
		if err := rows.Scan(&ts, &rec.PlanID, &rec.StepID, &kind, &rec.Command,
			&autoApproved, &status, &rec.ExitCode, &rec.Error, &rec.DurationMS); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			rec.Timestamp = t
		}
		rec.Kind = domain.StepKind(kind)
		rec.Status = domain.StepStatus(status)
		rec.AutoApproved = autoApproved == 1
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Clear deletes all run entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec("DELETE FROM runs")
	return err
}

// ExportJSON writes the runs table to a jsonl file.
func (s *SQLiteStore) ExportJSON(dest string) error {
	records, err := s.Records(0, "")
	if err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the database location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Available reports whether the database opened successfully.
func (s *SQLiteStore) Available() bool {
	return s.db != nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func userHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
