package agentstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/randalmurphal/agentstore/pkg/agentstore/observability"
)

// SQLiteStore persists checkpoints to an embedded SQLite database.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db  *sql.DB
	obs observer
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens a SQLite-backed checkpoint store.
// The path should be a file path (e.g., "./checkpoints.db") or ":memory:" for testing.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &ConnectivityError{Backend: backendSQLite, Op: opOpen, Err: err}
	}

	if path == ":memory:" {
		// Each pool connection would get its own empty in-memory database.
		// Cap the pool so every statement sees the same one.
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, &ConnectivityError{Backend: backendSQLite, Op: opOpen, Err: err}
	}

	// Concurrent writers wait for the lock instead of failing immediately
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, &ConnectivityError{Backend: backendSQLite, Op: opOpen, Err: err}
	}

	obs := newObserver(backendSQLite, opts...)
	observability.LogStoreOpen(obs.logger, backendSQLite, path)
	return &SQLiteStore{db: db, obs: obs}, nil
}

// EnsureSchema implements Store.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) (err error) {
	ctx, span, done := s.obs.start(ctx, opEnsureSchema)
	defer func() { s.obs.end(ctx, span, opEnsureSchema, done(), err) }()

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS agent_state (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			agent_id TEXT NOT NULL,
			name TEXT NOT NULL,
			config TEXT NOT NULL,
			state TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`); err != nil {
		return &ConnectivityError{Backend: backendSQLite, Op: opEnsureSchema, Err: err}
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_agent_state_created_at
		ON agent_state(created_at)
	`); err != nil {
		return &ConnectivityError{Backend: backendSQLite, Op: opEnsureSchema, Err: err}
	}

	observability.LogSchemaEnsured(s.obs.logger, backendSQLite, done())
	return nil
}

// SaveCheckpoint implements Store.
func (s *SQLiteStore) SaveCheckpoint(ctx context.Context, cp Checkpoint) (id string, err error) {
	ctx, span, done := s.obs.start(ctx, opSave)
	defer func() { s.obs.end(ctx, span, opSave, done(), err) }()

	stateText, configText, err := encodeCheckpoint(cp)
	if err != nil {
		return "", err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_state (agent_id, name, config, state, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, cp.AgentID, cp.Name, configText, stateText, cp.CreatedAt)
	if err != nil {
		return "", &ConnectivityError{Backend: backendSQLite, Op: opSave, Err: err}
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return "", &ConnectivityError{Backend: backendSQLite, Op: opSave, Err: err}
	}

	id = strconv.FormatInt(rowID, 10)
	s.obs.saved(ctx, id, cp.AgentID, len(stateText)+len(configText), done())
	return id, nil
}

// GetCheckpoint implements Store.
func (s *SQLiteStore) GetCheckpoint(ctx context.Context, id string) (cp *StoredCheckpoint, ok bool, err error) {
	ctx, span, done := s.obs.start(ctx, opGet)
	defer func() { s.obs.end(ctx, span, opGet, done(), err) }()

	rowID, perr := strconv.ParseInt(id, 10, 64)
	if perr != nil {
		// Identifiers are decimal integers; anything else matches no row.
		return nil, false, nil
	}
	id = strconv.FormatInt(rowID, 10)

	var (
		agentID, name, configText, stateText string
		createdAt                            int64
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT agent_id, name, config, state, created_at
		FROM agent_state
		WHERE id = ?
	`, rowID).Scan(&agentID, &name, &configText, &stateText, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		observability.LogCheckpointLoaded(s.obs.logger, backendSQLite, id, false, done())
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ConnectivityError{Backend: backendSQLite, Op: opGet, Err: err}
	}

	cp, err = decodeCheckpoint(id, agentID, name, configText, stateText, createdAt)
	if err != nil {
		return nil, false, err
	}
	observability.LogCheckpointLoaded(s.obs.logger, backendSQLite, id, true, done())
	return cp, true, nil
}

// ListCheckpoints implements Store.
func (s *SQLiteStore) ListCheckpoints(ctx context.Context) (infos []CheckpointInfo, err error) {
	ctx, span, done := s.obs.start(ctx, opList)
	defer func() { s.obs.end(ctx, span, opList, done(), err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, name, created_at
		FROM agent_state
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, &ConnectivityError{Backend: backendSQLite, Op: opList, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowID int64
			info  CheckpointInfo
		)
		if err := rows.Scan(&rowID, &info.AgentID, &info.Name, &info.CreatedAt); err != nil {
			return nil, &ConnectivityError{Backend: backendSQLite, Op: opList, Err: err}
		}
		info.ID = strconv.FormatInt(rowID, 10)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &ConnectivityError{Backend: backendSQLite, Op: opList, Err: err}
	}

	return infos, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
