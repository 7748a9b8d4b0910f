package amqp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{64, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"amqp closed", amqp091.ErrClosed, true},
		{"wrapped dial refusal", fmt.Errorf("dial AMQP: %w", errors.New("dial tcp: connect: connection refused")), true},
		{"EOF error", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"other error", errors.New("ACCESS_REFUSED"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.expected {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRecordChangeMessage_JSON(t *testing.T) {
	msg := NewRecordChangeMessage("expenses", "e1", "u1", ActionSaved)
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}
	got, err := RecordChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("RecordChangeMessageFromJSON() error = %v", err)
	}
	if got.Collection != "expenses" || got.ID != "e1" || got.OwnerID != "u1" || got.Action != ActionSaved {
		t.Errorf("decoded message = %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestRecordChangeMessageFromJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing id", `{"collection":"expenses","action":"saved"}`},
		{"missing collection", `{"id":"e1","action":"saved"}`},
		{"unknown action", `{"collection":"expenses","id":"e1","action":"exploded"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := RecordChangeMessageFromJSON([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

type fakeDelivery struct {
	data    []byte
	acked   bool
	nacked  bool
	requeue bool
}

func (d *fakeDelivery) Ack(bool) error { d.acked = true; return nil }
func (d *fakeDelivery) Nack(_ bool, requeue bool) error {
	d.nacked = true
	d.requeue = requeue
	return nil
}
func (d *fakeDelivery) body() []byte { return d.data }

func TestSettle(t *testing.T) {
	valid, _ := NewRecordChangeMessage("expenses", "e1", "u1", ActionDeleted).ToJSON()

	tests := []struct {
		name        string
		body        []byte
		handlerErr  error
		wantAck     bool
		wantRequeue bool
	}{
		{"success acks", valid, nil, true, false},
		{"transient failure requeues", valid, errors.New("sheets unavailable"), false, true},
		{"poison is dropped", valid, fmt.Errorf("bad row: %w", ErrPoison), false, false},
		{"undecodable is dropped", []byte("garbage"), nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDelivery{data: tt.body}
			settle(context.Background(), d, func(context.Context, *RecordChangeMessage) error { return tt.handlerErr })
			if d.acked != tt.wantAck {
				t.Errorf("acked = %v, want %v", d.acked, tt.wantAck)
			}
			if !tt.wantAck && !d.nacked {
				t.Error("expected nack")
			}
			if d.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", d.requeue, tt.wantRequeue)
			}
		})
	}
}
