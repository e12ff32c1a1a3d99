package config

import (
	"errors"
	"fmt"
)

// Kind selects a checkpoint store backend.
type Kind string

// Supported backend kinds.
const (
	KindSQLite   Kind = "sqlite"
	KindMySQL    Kind = "mysql"
	KindPostgres Kind = "postgres"
)

// Sentinel errors for backend validation.
var (
	// ErrUnknownKind indicates an unrecognized backend kind.
	ErrUnknownKind = errors.New("unknown backend kind")

	// ErrPathRequired indicates a sqlite backend without a database path.
	ErrPathRequired = errors.New("sqlite backend requires path")

	// ErrDSNRequired indicates a server backend without a connection string.
	ErrDSNRequired = errors.New("backend requires dsn")

	// ErrConflictingTarget indicates both path and dsn were set.
	ErrConflictingTarget = errors.New("backend takes either path or dsn, not both")
)

// Backend is a tagged union describing one checkpoint database.
// Kind picks the engine; exactly one of Path (sqlite) or DSN
// (mysql, postgres) locates it.
type Backend struct {
	Kind Kind   `json:"kind" yaml:"kind" env:"AGENTSTORE_KIND"`
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"AGENTSTORE_PATH"`
	DSN  string `json:"dsn,omitempty" yaml:"dsn,omitempty" env:"AGENTSTORE_DSN"`
}

// Validate checks that the backend description is complete and unambiguous.
func (b Backend) Validate() error {
	switch b.Kind {
	case KindSQLite:
		if b.Path == "" {
			return ErrPathRequired
		}
		if b.DSN != "" {
			return fmt.Errorf("sqlite: %w", ErrConflictingTarget)
		}
	case KindMySQL, KindPostgres:
		if b.DSN == "" {
			return fmt.Errorf("%s: %w", b.Kind, ErrDSNRequired)
		}
		if b.Path != "" {
			return fmt.Errorf("%s: %w", b.Kind, ErrConflictingTarget)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, b.Kind)
	}
	return nil
}
