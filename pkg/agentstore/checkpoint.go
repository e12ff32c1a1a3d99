package agentstore

// Checkpoint is a named snapshot of agent state to persist.
//
// State and Config hold arbitrary JSON-serializable values. State is
// required; Config is optional and round-trips as nil when absent.
// CreatedAt is a unix timestamp in milliseconds; callers choose the
// clock so replayed histories keep their original timestamps.
type Checkpoint struct {
	AgentID   string
	Name      string
	Config    any
	State     any
	CreatedAt int64
}

// Validate checks that the checkpoint has the required fields.
func (c Checkpoint) Validate() error {
	if c.AgentID == "" {
		return ErrAgentIDRequired
	}
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.State == nil {
		return ErrStateRequired
	}
	return nil
}

// StoredCheckpoint is a checkpoint read back from a store, including the
// identifier assigned when it was saved.
type StoredCheckpoint struct {
	ID string
	Checkpoint
}

// CheckpointInfo describes a stored checkpoint without its payload.
// Listings return CheckpointInfo so large state blobs are never
// deserialized just to browse what exists.
type CheckpointInfo struct {
	ID        string
	AgentID   string
	Name      string
	CreatedAt int64
}
