package agentstore

import (
	"context"
	"sort"
	"strconv"
	"sync"
)

// MemoryStore keeps checkpoints in process memory.
// Fast but non-durable, intended for tests and development. It runs
// every payload through the same JSON codec as the SQL backends so
// round-trip behavior matches what production stores return.
type MemoryStore struct {
	mu     sync.RWMutex
	rows   []memoryRow
	nextID int64
	closed bool
}

type memoryRow struct {
	id        int64
	agentID   string
	name      string
	config    string
	state     string
	createdAt int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory checkpoint store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// EnsureSchema implements Store. It is a no-op for the in-memory store.
func (s *MemoryStore) EnsureSchema(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// SaveCheckpoint implements Store.
func (s *MemoryStore) SaveCheckpoint(_ context.Context, cp Checkpoint) (string, error) {
	stateText, configText, err := encodeCheckpoint(cp)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrStoreClosed
	}

	row := memoryRow{
		id:        s.nextID,
		agentID:   cp.AgentID,
		name:      cp.Name,
		config:    configText,
		state:     stateText,
		createdAt: cp.CreatedAt,
	}
	s.nextID++
	s.rows = append(s.rows, row)
	return strconv.FormatInt(row.id, 10), nil
}

// GetCheckpoint implements Store.
func (s *MemoryStore) GetCheckpoint(_ context.Context, id string) (*StoredCheckpoint, bool, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// Identifiers are decimal integers; anything else matches no row.
		return nil, false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, ErrStoreClosed
	}

	for _, row := range s.rows {
		if row.id != rowID {
			continue
		}
		cp, err := decodeCheckpoint(strconv.FormatInt(row.id, 10), row.agentID, row.name, row.config, row.state, row.createdAt)
		if err != nil {
			return nil, false, err
		}
		return cp, true, nil
	}
	return nil, false, nil
}

// ListCheckpoints implements Store. Ties on created_at keep insertion order.
func (s *MemoryStore) ListCheckpoints(_ context.Context) ([]CheckpointInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]CheckpointInfo, 0, len(s.rows))
	for _, row := range s.rows {
		infos = append(infos, CheckpointInfo{
			ID:        strconv.FormatInt(row.id, 10),
			AgentID:   row.agentID,
			Name:      row.name,
			CreatedAt: row.createdAt,
		})
	}
	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CreatedAt > infos[j].CreatedAt
	})
	return infos, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// Len returns the number of stored checkpoints. Useful for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.rows)
}
