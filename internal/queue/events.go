package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the update stream
const (
	EventUserUpdate = "user_update"
)

// Stream names
const (
	StreamUpdates = "stream:updates"
)

// Consumer group name for update workers
const (
	ConsumerGroupUpdates = "update_workers"
)

// UpdateEvent tells connected clients that something in their account changed
// (new message, comment, reaction). Delivery is best effort, at most once.
type UpdateEvent struct {
	Type      string  `json:"type"`
	Timestamp int64   `json:"timestamp"` // Unix timestamp when event occurred
	UserIDs   []int64 `json:"user_ids,omitempty"`
}

// NewUserUpdateEvent creates an event signalling the given users to refresh.
func NewUserUpdateEvent(userIDs []int64) UpdateEvent {
	return UpdateEvent{
		Type:      EventUserUpdate,
		Timestamp: time.Now().Unix(),
		UserIDs:   userIDs,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e UpdateEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseUpdateEvent parses an UpdateEvent from Redis stream message values.
func ParseUpdateEvent(values map[string]interface{}) (UpdateEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return UpdateEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event UpdateEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return UpdateEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
