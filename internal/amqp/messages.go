package amqp

import (
	"encoding/json"
	"time"
)

// DataRefreshMessage announces that the fleet cost table changed and that
// cached record sets must be dropped. It carries no rows: receivers reread
// their own source.
type DataRefreshMessage struct {
	Fingerprint string    `json:"fingerprint,omitempty"`
	Origin      string    `json:"origin"`
	Reason      string    `json:"reason,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewDataRefreshMessage creates a refresh message stamped with the current time.
func NewDataRefreshMessage(origin, fingerprint, reason string) *DataRefreshMessage {
	return &DataRefreshMessage{
		Fingerprint: fingerprint,
		Origin:      origin,
		Reason:      reason,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DataRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DataRefreshMessageFromJSON creates a message from JSON bytes
func DataRefreshMessageFromJSON(data []byte) (*DataRefreshMessage, error) {
	var msg DataRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
