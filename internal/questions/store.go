// Package questions supplies the shared question pool. The engine only
// consumes identity and difficulty; prompt text is carried for the
// question-rendering collaborator.
package questions

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hexfront/internal/game"
)

// Entry is one stored question.
type Entry struct {
	ID         string `db:"id" yaml:"id"`
	Difficulty int    `db:"difficulty" yaml:"difficulty"`
	Prompt     string `db:"prompt" yaml:"prompt"`
	Answer     string `db:"answer" yaml:"answer"`
}

// Store wraps the sqlite question bank.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the bank at the given path, creating the
// schema and seeding a starter bank when the table is empty.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating bank directory: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening question bank: %w", err)
	}
	conn.SetMaxOpenConns(1)

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := s.seedIfEmpty(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the bank.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		difficulty INTEGER NOT NULL CHECK (difficulty BETWEEN 1 AND 3),
		prompt TEXT NOT NULL,
		answer TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_difficulty ON questions(difficulty);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrating question bank: %w", err)
	}
	return nil
}

func (s *Store) seedIfEmpty() error {
	var count int
	if err := s.conn.Get(&count, "SELECT COUNT(*) FROM questions"); err != nil {
		return fmt.Errorf("counting questions: %w", err)
	}
	if count > 0 {
		return nil
	}
	return s.Insert(seedEntries)
}

// Insert adds entries to the bank.
func (s *Store) Insert(entries []Entry) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, e := range entries {
		_, err := tx.Exec(
			"INSERT OR REPLACE INTO questions (id, difficulty, prompt, answer) VALUES (?, ?, ?, ?)",
			e.ID, e.Difficulty, e.Prompt, e.Answer)
		if err != nil {
			return fmt.Errorf("inserting question %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// All returns every stored question.
func (s *Store) All() ([]Entry, error) {
	var entries []Entry
	if err := s.conn.Select(&entries, "SELECT id, difficulty, prompt, answer FROM questions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	return entries, nil
}

// Pool loads the bank as the engine's flat question pool.
func (s *Store) Pool() ([]game.Question, error) {
	entries, err := s.All()
	if err != nil {
		return nil, err
	}
	return ToPool(entries), nil
}

// ToPool strips entries down to what the engine tracks.
func ToPool(entries []Entry) []game.Question {
	pool := make([]game.Question, len(entries))
	for i, e := range entries {
		pool[i] = game.Question{ID: e.ID, Difficulty: e.Difficulty}
	}
	return pool
}
