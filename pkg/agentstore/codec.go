package agentstore

import "encoding/json"

// Payload field names used in serialization errors.
const (
	fieldState  = "state"
	fieldConfig = "config"
)

// encodeField marshals a state or config value to JSON text.
// A nil value encodes as "null", which is how absent config is stored.
func encodeField(field string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", &SerializationError{Field: field, Err: err}
	}
	return string(data), nil
}

// decodeField unmarshals stored JSON text back into a generic value.
// The text "null" decodes to nil.
func decodeField(id, field, text string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &DeserializationError{ID: id, Field: field, Err: err}
	}
	return v, nil
}

// encodeCheckpoint validates cp and encodes its state and config.
// Every backend funnels writes through this single path so
// serialization behavior is identical across engines.
func encodeCheckpoint(cp Checkpoint) (stateText, configText string, err error) {
	if err := cp.Validate(); err != nil {
		return "", "", err
	}
	stateText, err = encodeField(fieldState, cp.State)
	if err != nil {
		return "", "", err
	}
	configText, err = encodeField(fieldConfig, cp.Config)
	if err != nil {
		return "", "", err
	}
	return stateText, configText, nil
}

// decodeCheckpoint rebuilds a StoredCheckpoint from a scanned row.
func decodeCheckpoint(id, agentID, name, configText, stateText string, createdAt int64) (*StoredCheckpoint, error) {
	state, err := decodeField(id, fieldState, stateText)
	if err != nil {
		return nil, err
	}
	config, err := decodeField(id, fieldConfig, configText)
	if err != nil {
		return nil, err
	}
	return &StoredCheckpoint{
		ID: id,
		Checkpoint: Checkpoint{
			AgentID:   agentID,
			Name:      name,
			Config:    config,
			State:     state,
			CreatedAt: createdAt,
		},
	}, nil
}
