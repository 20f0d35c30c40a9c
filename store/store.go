// Package store persists the reply service state in SQLite: which posts
// have been answered, the operator's prompts and the keyword configuration.
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/osman-haider/SmartXBot/backend"
)

const (
	settingPrompts        = "prompts"
	settingKeywordsConfig = "keywords_config"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// New opens (creating when needed) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// modernc sqlite serialises writers; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS processed_tweets (
		tweet_id TEXT PRIMARY KEY,
		reply TEXT,
		processed_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// IsProcessed reports whether a reply was already generated for tweetID.
func (s *Store) IsProcessed(tweetID string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM processed_tweets WHERE tweet_id = ?`, tweetID).Scan(&n)
	if err != nil {
		return false, errors.Wrap(err, "query processed tweet")
	}
	return n > 0, nil
}

// MarkProcessed records tweetID with the reply that was generated for it.
func (s *Store) MarkProcessed(tweetID, reply string) error {
	_, err := s.db.Exec(`
		INSERT INTO processed_tweets (tweet_id, reply, processed_at)
		VALUES (?, ?, ?)
		ON CONFLICT(tweet_id) DO NOTHING
	`, tweetID, reply, time.Now().UTC())
	return errors.Wrap(err, "insert processed tweet")
}

// ProcessedCount is the number of answered posts.
func (s *Store) ProcessedCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM processed_tweets`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count processed tweets")
	}
	return n, nil
}

// SavePrompts replaces the stored prompts.
func (s *Store) SavePrompts(p backend.Prompts) error {
	return s.saveSetting(settingPrompts, p)
}

// LoadPrompts returns the stored prompts; zero values when none are stored.
func (s *Store) LoadPrompts() (backend.Prompts, error) {
	var p backend.Prompts
	_, err := s.loadSetting(settingPrompts, &p)
	return p, err
}

// SaveKeywordsConfig replaces the stored keyword configuration.
func (s *Store) SaveKeywordsConfig(cfg backend.KeywordsConfig) error {
	return s.saveSetting(settingKeywordsConfig, cfg)
}

// LoadKeywordsConfig returns the stored keyword configuration and whether
// one has been saved.
func (s *Store) LoadKeywordsConfig() (backend.KeywordsConfig, bool, error) {
	var cfg backend.KeywordsConfig
	ok, err := s.loadSetting(settingKeywordsConfig, &cfg)
	return cfg, ok, err
}

func (s *Store) saveSetting(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", key)
	}

	_, err = s.db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(data), time.Now().UTC())
	return errors.Wrapf(err, "save %s", key)
}

func (s *Store) loadSetting(key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "load %s", key)
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, errors.Wrapf(err, "decode %s", key)
	}
	return true, nil
}
