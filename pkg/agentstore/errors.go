package agentstore

import (
	"errors"
	"fmt"
)

// Validation errors returned by Store.SaveCheckpoint before anything
// is written to the backend.
var (
	// ErrAgentIDRequired is returned when a checkpoint has an empty agent ID.
	ErrAgentIDRequired = errors.New("agent id required")

	// ErrNameRequired is returned when a checkpoint has an empty name.
	ErrNameRequired = errors.New("checkpoint name required")

	// ErrStateRequired is returned when a checkpoint has a nil state.
	ErrStateRequired = errors.New("checkpoint state required")

	// ErrStoreClosed is returned when operations are attempted on a closed store.
	ErrStoreClosed = errors.New("checkpoint store closed")
)

// ConnectivityError wraps a backend failure: the database could not be
// reached, the connection was refused or dropped, or a statement failed
// for reasons unrelated to the checkpoint payload.
type ConnectivityError struct {
	Backend string // "sqlite", "mysql", or "postgres"
	Op      string // "open", "ensure_schema", "save", "get", "list"
	Err     error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s %s: backend unavailable: %v", e.Backend, e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// SerializationError wraps a failure to encode checkpoint state or config
// as JSON. The checkpoint is rejected before any row is written.
type SerializationError struct {
	Field string // "state" or "config"
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("encode checkpoint %s: %v", e.Field, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// DeserializationError wraps a failure to decode a stored checkpoint
// payload. It indicates the persisted text is not valid JSON.
type DeserializationError struct {
	ID    string // checkpoint id whose payload failed to decode
	Field string // "state" or "config"
	Err   error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode checkpoint %s %s: %v", e.ID, e.Field, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// IsConnectivity reports whether err is or wraps a ConnectivityError.
func IsConnectivity(err error) bool {
	var ce *ConnectivityError
	return errors.As(err, &ce)
}

// IsSerialization reports whether err is or wraps a SerializationError.
func IsSerialization(err error) bool {
	var se *SerializationError
	return errors.As(err, &se)
}

// IsDeserialization reports whether err is or wraps a DeserializationError.
func IsDeserialization(err error) bool {
	var de *DeserializationError
	return errors.As(err, &de)
}
