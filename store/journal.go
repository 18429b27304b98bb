package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/signadot/rewind/debug"
)

// Journal stores every snapshot it is handed in a SQLite table,
// pruning the oldest rows past a configured bound. Read returns the
// most recent row, so a Journal drops in wherever a plain Store fits
// while keeping earlier snapshots inspectable through List and
// ReadSeq.
type Journal struct {
	db    *sql.DB
	limit int
}

// Entry describes one journaled snapshot.
type Entry struct {
	Seq int64
	ID  string
	At  time.Time
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	seq  INTEGER PRIMARY KEY AUTOINCREMENT,
	id   TEXT NOT NULL,
	at   INTEGER NOT NULL,
	body BLOB NOT NULL
)`

// OpenJournal opens or creates a snapshot journal at path. limit
// bounds how many snapshots are kept; zero or negative keeps them
// all.
func OpenJournal(path string, limit int) (*Journal, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("journal path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Journal{db: db, limit: limit}, nil
}

var _ Store = (*Journal)(nil)

func (j *Journal) Write(snapshot map[string]any) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("journal is not open")
	}
	body, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	id := uuid.New().String()
	if debug.Store() {
		debug.Logf("journaling snapshot %s (%d bytes)\n", id, len(body))
	}
	if _, err := j.db.Exec(
		`INSERT INTO snapshots (id, at, body) VALUES (?, ?, ?)`,
		id, toMillis(time.Now()), body,
	); err != nil {
		return fmt.Errorf("journal snapshot: %w", err)
	}
	if j.limit > 0 {
		return j.Prune(j.limit)
	}
	return nil
}

// Prune deletes all but the newest keep snapshots.
func (j *Journal) Prune(keep int) error {
	if j == nil || j.db == nil {
		return fmt.Errorf("journal is not open")
	}
	if keep < 0 {
		keep = 0
	}
	// With fewer than keep rows the subquery is empty and nothing
	// matches.
	if _, err := j.db.Exec(
		`DELETE FROM snapshots WHERE seq <= (
		   SELECT seq FROM snapshots ORDER BY seq DESC LIMIT 1 OFFSET ?
		 )`,
		keep,
	); err != nil {
		return fmt.Errorf("prune journal: %w", err)
	}
	return nil
}

func (j *Journal) Read() (map[string]any, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal is not open")
	}
	row := j.db.QueryRow(`SELECT body FROM snapshots ORDER BY seq DESC LIMIT 1`)
	var body []byte
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // empty journal is not an error
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeBody(body)
}

// ReadSeq returns the journaled snapshot with the given sequence
// number.
func (j *Journal) ReadSeq(seq int64) (map[string]any, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal is not open")
	}
	row := j.db.QueryRow(`SELECT body FROM snapshots WHERE seq = ?`, seq)
	var body []byte
	if err := row.Scan(&body); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no snapshot with seq %d", seq)
		}
		return nil, fmt.Errorf("read snapshot %d: %w", seq, err)
	}
	return decodeBody(body)
}

// List returns the journaled entries, newest first.
func (j *Journal) List() ([]Entry, error) {
	if j == nil || j.db == nil {
		return nil, fmt.Errorf("journal is not open")
	}
	rows, err := j.db.Query(`SELECT seq, id, at FROM snapshots ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		var at int64
		if err := rows.Scan(&e.Seq, &e.ID, &at); err != nil {
			return nil, fmt.Errorf("list snapshots: %w", err)
		}
		e.At = fromMillis(at)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return entries, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

func decodeBody(body []byte) (map[string]any, error) {
	snap := map[string]any{}
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return snap, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
