package amqp

import (
	"testing"
	"time"
)

func TestNewSyncMessage(t *testing.T) {
	msg := NewSyncMessage(OpUpsert, 12345)

	if msg.Op != OpUpsert {
		t.Errorf("Op = %q, want %q", msg.Op, OpUpsert)
	}
	if msg.ID != 12345 {
		t.Errorf("ID = %d, want 12345", msg.ID)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestSyncMessageJSON(t *testing.T) {
	msg := &SyncMessage{
		Op:        OpDelete,
		ID:        7,
		Timestamp: time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	parsed, err := SyncMessageFromJSON(body)
	if err != nil {
		t.Fatalf("SyncMessageFromJSON: %v", err)
	}

	if parsed.Op != msg.Op {
		t.Errorf("Op = %q, want %q", parsed.Op, msg.Op)
	}
	if parsed.ID != msg.ID {
		t.Errorf("ID = %d, want %d", parsed.ID, msg.ID)
	}
	if !parsed.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Timestamp = %v, want %v", parsed.Timestamp, msg.Timestamp)
	}
}

func TestSyncMessageFromJSONInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `{"id": "oops"`},
		{"wrong type", `{"op": "upsert", "id": "not_a_number"}`},
		{"unknown op", `{"op": "replace", "id": 1}`},
		{"missing op", `{"id": 1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := SyncMessageFromJSON([]byte(tc.body)); err == nil {
				t.Errorf("expected error for %s", tc.body)
			}
		})
	}
}
