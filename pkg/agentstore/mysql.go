package agentstore

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/randalmurphal/agentstore/pkg/agentstore/observability"
)

// MySQLStore persists checkpoints to a MySQL server.
type MySQLStore struct {
	db  *sql.DB
	obs observer
}

var _ Store = (*MySQLStore)(nil)

// NewMySQLStore opens a MySQL-backed checkpoint store and verifies the
// server is reachable. The dsn uses go-sql-driver format, e.g.
// "user:pass@tcp(localhost:3306)/agents".
func NewMySQLStore(ctx context.Context, dsn string, opts ...Option) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, &ConnectivityError{Backend: backendMySQL, Op: opOpen, Err: err}
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, &ConnectivityError{Backend: backendMySQL, Op: opOpen, Err: err}
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &ConnectivityError{Backend: backendMySQL, Op: opOpen, Err: err}
	}

	obs := newObserver(backendMySQL, opts...)
	observability.LogStoreOpen(obs.logger, backendMySQL, cfg.Addr+"/"+cfg.DBName)
	return &MySQLStore{db: db, obs: obs}, nil
}

// EnsureSchema implements Store.
//
// MySQL has no CREATE INDEX IF NOT EXISTS, so the created_at index is
// declared inside the CREATE TABLE statement.
func (s *MySQLStore) EnsureSchema(ctx context.Context) (err error) {
	ctx, span, done := s.obs.start(ctx, opEnsureSchema)
	defer func() { s.obs.end(ctx, span, opEnsureSchema, done(), err) }()

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS agent_state (
			id BIGINT NOT NULL AUTO_INCREMENT,
			agent_id VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			config LONGTEXT NOT NULL,
			state LONGTEXT NOT NULL,
			created_at BIGINT NOT NULL,
			PRIMARY KEY (id),
			KEY idx_agent_state_created_at (created_at)
		)
	`); err != nil {
		return &ConnectivityError{Backend: backendMySQL, Op: opEnsureSchema, Err: err}
	}

	observability.LogSchemaEnsured(s.obs.logger, backendMySQL, done())
	return nil
}

// SaveCheckpoint implements Store.
func (s *MySQLStore) SaveCheckpoint(ctx context.Context, cp Checkpoint) (id string, err error) {
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
		return "", &ConnectivityError{Backend: backendMySQL, Op: opSave, Err: err}
	}

	rowID, err := res.LastInsertId()
	if err != nil {
		return "", &ConnectivityError{Backend: backendMySQL, Op: opSave, Err: err}
	}

	id = strconv.FormatInt(rowID, 10)
	s.obs.saved(ctx, id, cp.AgentID, len(stateText)+len(configText), done())
	return id, nil
}

// GetCheckpoint implements Store.
func (s *MySQLStore) GetCheckpoint(ctx context.Context, id string) (cp *StoredCheckpoint, ok bool, err error) {
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
		observability.LogCheckpointLoaded(s.obs.logger, backendMySQL, id, false, done())
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ConnectivityError{Backend: backendMySQL, Op: opGet, Err: err}
	}

	cp, err = decodeCheckpoint(id, agentID, name, configText, stateText, createdAt)
	if err != nil {
		return nil, false, err
	}
	observability.LogCheckpointLoaded(s.obs.logger, backendMySQL, id, true, done())
	return cp, true, nil
}

// ListCheckpoints implements Store.
func (s *MySQLStore) ListCheckpoints(ctx context.Context) (infos []CheckpointInfo, err error) {
	ctx, span, done := s.obs.start(ctx, opList)
	defer func() { s.obs.end(ctx, span, opList, done(), err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, name, created_at
		FROM agent_state
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, &ConnectivityError{Backend: backendMySQL, Op: opList, Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowID int64
			info  CheckpointInfo
		)
		if err := rows.Scan(&rowID, &info.AgentID, &info.Name, &info.CreatedAt); err != nil {
			return nil, &ConnectivityError{Backend: backendMySQL, Op: opList, Err: err}
		}
		info.ID = strconv.FormatInt(rowID, 10)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, &ConnectivityError{Backend: backendMySQL, Op: opList, Err: err}
	}

	return infos, nil
}

// Close implements Store.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
