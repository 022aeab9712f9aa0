package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Operations carried by a SyncMessage.
const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// SyncMessage tells the worker that an expense changed. It carries only the
// id and operation; the worker reads the current row from the database.
type SyncMessage struct {
	Op        string    `json:"op"`
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSyncMessage(op string, id int64) *SyncMessage {
	return &SyncMessage{
		Op:        op,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *SyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncMessageFromJSON decodes and validates a message body.
func SyncMessageFromJSON(data []byte) (*SyncMessage, error) {
	var msg SyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Op != OpUpsert && msg.Op != OpDelete {
		return nil, fmt.Errorf("unknown sync operation %q", msg.Op)
	}
	return &msg, nil
}
