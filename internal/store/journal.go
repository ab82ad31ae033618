package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const journalFileName = "journal.sqlite"

// JournalEntry is one recorded remote mutation.
type JournalEntry struct {
	ID      string    `json:"id"`
	Op      string    `json:"op"`
	PlateID int       `json:"plateId"`
	OK      bool      `json:"ok"`
	Error   string    `json:"error,omitempty"`
	APIURL  string    `json:"apiUrl"`
	At      time.Time `json:"at"`
}

// Journal appends mutation outcomes to a local SQLite file. It never feeds data
// back into the dashboard; it exists for operators to inspect what happened.
type Journal struct {
	db     *sql.DB
	apiURL string
	now    func() time.Time
}

func (s Store) journalPath() string {
	return filepath.Join(s.Dir, journalFileName)
}

// OpenJournal opens (creating if needed) the journal for mutations against apiURL.
func (s Store) OpenJournal(ctx context.Context, apiURL string) (*Journal, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.journalPath())
	if err != nil {
		return nil, err
	}
	// WAL + busy_timeout: the TUI and CLI may write at the same time.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateJournal(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Journal{db: db, apiURL: strings.TrimSpace(apiURL), now: time.Now}, nil
}

func migrateJournal(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS journal (
			entry_id TEXT PRIMARY KEY,
			op TEXT NOT NULL,
			plate_id INTEGER NOT NULL,
			ok INTEGER NOT NULL,
			error TEXT,
			api_url TEXT NOT NULL,
			at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_at ON journal(at_unixms);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_plate ON journal(plate_id, at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append records the outcome of op on plateID. opErr is nil on success.
func (j *Journal) Append(ctx context.Context, op string, plateID int, opErr error) error {
	if j == nil || j.db == nil {
		return errors.New("journal not open")
	}
	var errText sql.NullString
	ok := 1
	if opErr != nil {
		ok = 0
		errText = sql.NullString{String: opErr.Error(), Valid: true}
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO journal(entry_id, op, plate_id, ok, error, api_url, at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), op, plateID, ok, errText, j.apiURL, j.now().UTC().UnixMilli(),
	)
	return err
}

// Read returns the most recent limit entries, oldest first (limit <= 0 = all).
func (j *Journal) Read(ctx context.Context, limit int) ([]JournalEntry, error) {
	return j.query(ctx, `SELECT entry_id, op, plate_id, ok, error, api_url, at_unixms FROM journal ORDER BY at_unixms DESC, rowid DESC`, limit)
}

// ReadForPlate is Read restricted to one plate.
func (j *Journal) ReadForPlate(ctx context.Context, plateID int, limit int) ([]JournalEntry, error) {
	return j.query(ctx, `SELECT entry_id, op, plate_id, ok, error, api_url, at_unixms FROM journal WHERE plate_id = ? ORDER BY at_unixms DESC, rowid DESC`, limit, plateID)
}

func (j *Journal) query(ctx context.Context, q string, limit int, args ...any) ([]JournalEntry, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal not open")
	}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JournalEntry
	for rows.Next() {
		var (
			e       JournalEntry
			ok      int
			errText sql.NullString
			atMs    int64
		)
		if err := rows.Scan(&e.ID, &e.Op, &e.PlateID, &ok, &errText, &e.APIURL, &atMs); err != nil {
			return nil, err
		}
		e.OK = ok != 0
		e.Error = errText.String
		e.At = time.UnixMilli(atMs).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Newest-first from SQL; callers want oldest-first.
	for i, k := 0, len(out)-1; i < k; i, k = i+1, k-1 {
		out[i], out[k] = out[k], out[i]
	}
	if out == nil {
		out = []JournalEntry{}
	}
	return out, nil
}
