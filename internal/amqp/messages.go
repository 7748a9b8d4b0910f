package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action is what happened to a record.
type Action string

const (
	ActionSaved   Action = "saved"
	ActionDeleted Action = "deleted"
)

// RecordChangeMessage announces a write to a collection. It carries only
// the key; consumers read the current record from the store.
type RecordChangeMessage struct {
	Collection string    `json:"collection"`
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Action     Action    `json:"action"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRecordChangeMessage(collection, id, ownerID string, action Action) *RecordChangeMessage {
	return &RecordChangeMessage{
		Collection: collection,
		ID:         id,
		OwnerID:    ownerID,
		Action:     action,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *RecordChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordChangeMessageFromJSON decodes and validates a message body.
func RecordChangeMessageFromJSON(data []byte) (*RecordChangeMessage, error) {
	var msg RecordChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Collection == "" || msg.ID == "" {
		return nil, fmt.Errorf("record change message missing collection or id")
	}
	switch msg.Action {
	case ActionSaved, ActionDeleted:
	default:
		return nil, fmt.Errorf("unknown record change action %q", msg.Action)
	}
	return &msg, nil
}
