// Package session persists the live session to SQLite so a restarted
// control process resumes the show where it left off.
package session

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Store is a sqlite-backed session snapshot store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open initializes the database, creating the file and schema if needed.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	createTable := `
	CREATE TABLE IF NOT EXISTS live_session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		is_live INTEGER NOT NULL DEFAULT 0,
		presentation_id TEXT NOT NULL DEFAULT '',
		presentation_path TEXT NOT NULL DEFAULT '',
		current_slide_id TEXT NOT NULL DEFAULT '',
		current_slide_index INTEGER NOT NULL DEFAULT -1,
		is_blackout INTEGER NOT NULL DEFAULT 0,
		is_clear INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create live_session table: %w", err)
	}

	logger.Info("session database initialized", "path", dbPath)
	return &Store{db: db, logger: logger}, nil
}

// Save upserts the singleton session row.
func (s *Store) Save(state models.LiveState) error {
	query := `INSERT INTO live_session
		(id, is_live, presentation_id, presentation_path, current_slide_id,
		 current_slide_index, is_blackout, is_clear, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		 is_live = excluded.is_live,
		 presentation_id = excluded.presentation_id,
		 presentation_path = excluded.presentation_path,
		 current_slide_id = excluded.current_slide_id,
		 current_slide_index = excluded.current_slide_index,
		 is_blackout = excluded.is_blackout,
		 is_clear = excluded.is_clear,
		 updated_at = excluded.updated_at`

	_, err := s.db.Exec(query,
		state.IsLive, state.PresentationID, state.PresentationPath,
		state.CurrentSlideID, state.CurrentSlideIndex,
		state.IsBlackout, state.IsClear, time.Now())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the persisted session, reporting false when none exists.
func (s *Store) Load() (models.LiveState, bool, error) {
	query := `SELECT is_live, presentation_id, presentation_path,
		current_slide_id, current_slide_index, is_blackout, is_clear
		FROM live_session WHERE id = 1`

	var state models.LiveState
	err := s.db.QueryRow(query).Scan(
		&state.IsLive, &state.PresentationID, &state.PresentationPath,
		&state.CurrentSlideID, &state.CurrentSlideIndex,
		&state.IsBlackout, &state.IsClear)
	if err == sql.ErrNoRows {
		return models.LiveState{}, false, nil
	}
	if err != nil {
		return models.LiveState{}, false, fmt.Errorf("load session: %w", err)
	}
	return state, true, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
