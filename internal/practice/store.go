package practice

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// LineStats summarizes past drills of one line.
type LineStats struct {
	Opening  string
	Line     string
	Attempts int
	Correct  int
	LastSeen time.Time
}

// Accuracy is the fraction of correct answers, 0 when never attempted.
func (ls LineStats) Accuracy() float64 {
	if ls.Attempts == 0 {
		return 0
	}
	return float64(ls.Correct) / float64(ls.Attempts)
}

// Store persists drill results in SQLite, keyed by opening title and line
// signature.
type Store struct {
	db *sql.DB
}

const resultsDDL = `CREATE TABLE IF NOT EXISTS practice_results (
  opening TEXT NOT NULL,
  line TEXT NOT NULL,
  attempts INTEGER NOT NULL DEFAULT 0,
  correct INTEGER NOT NULL DEFAULT 0,
  last_seen TEXT NOT NULL,
  PRIMARY KEY (opening, line)
)`

// OpenStore opens (creating if needed) the results database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(resultsDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Record accumulates one session's result for a line.
func (s *Store) Record(opening, line string, attempts, correct int) error {
	_, err := s.db.Exec(`INSERT INTO practice_results (opening, line, attempts, correct, last_seen)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(opening, line) DO UPDATE SET
  attempts = attempts + excluded.attempts,
  correct = correct + excluded.correct,
  last_seen = excluded.last_seen`,
		opening, line, attempts, correct, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Weakest returns up to limit lines ordered by accuracy, worst first. Lines
// tied on accuracy surface the least recently seen one first.
func (s *Store) Weakest(limit int) ([]LineStats, error) {
	rows, err := s.db.Query(`SELECT opening, line, attempts, correct, last_seen
FROM practice_results
ORDER BY CAST(correct AS REAL) / attempts ASC, last_seen ASC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStats(rows)
}

// Lines returns every recorded line for an opening, most recent first.
func (s *Store) Lines(opening string) ([]LineStats, error) {
	rows, err := s.db.Query(`SELECT opening, line, attempts, correct, last_seen
FROM practice_results
WHERE opening = ?
ORDER BY last_seen DESC`, opening)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanStats(rows)
}

func scanStats(rows *sql.Rows) ([]LineStats, error) {
	var out []LineStats
	for rows.Next() {
		var ls LineStats
		var seen string
		if err := rows.Scan(&ls.Opening, &ls.Line, &ls.Attempts, &ls.Correct, &seen); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, seen); err == nil {
			ls.LastSeen = t
		}
		out = append(out, ls)
	}
	return out, rows.Err()
}
