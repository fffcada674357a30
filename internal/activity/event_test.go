package activity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	valid := NewEvent(TypeJobPosted, "user-1", "job-1", "Backend Engineer")
	validBody, err := json.Marshal(valid)
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: string(validBody)},
		{name: "not json", body: "{", wantErr: true},
		{name: "bad id", body: `{"id":"x","type":"job.posted","actorId":"u"}`, wantErr: true},
		{name: "unknown type", body: `{"id":"` + uuid.NewString() + `","type":"job.deleted","actorId":"u"}`, wantErr: true},
		{name: "missing actor", body: `{"id":"` + uuid.NewString() + `","type":"job.posted"}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Decode([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEvent)
				assert.Nil(t, e)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valid.ID, e.ID)
			assert.Equal(t, "Backend Engineer", e.Summary)
			assert.True(t, valid.OccurredAt.Equal(e.OccurredAt))
		})
	}
}

type recordingBroker struct {
	routingKey string
	messageID  string
	body       []byte
	deadline   bool
	err        error
}

func (b *recordingBroker) Publish(ctx context.Context, routingKey, messageID string, body []byte, contentType string) error {
	_, b.deadline = ctx.Deadline()
	b.routingKey = routingKey
	b.messageID = messageID
	b.body = body
	return b.err
}

func TestBrokerPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	broker := &recordingBroker{}
	p := NewBrokerPublisher(broker, time.Second, logger)

	event := NewEvent(TypeCompanyRegistered, "user-1", "company-1", "Acme")
	require.NoError(t, p.Publish(context.Background(), event))

	assert.Equal(t, TypeCompanyRegistered, broker.routingKey)
	assert.Equal(t, event.ID, broker.messageID)
	assert.True(t, broker.deadline)

	decoded, err := Decode(broker.body)
	require.NoError(t, err)
	assert.Equal(t, "company-1", decoded.EntityID)

	broker.err = errors.New("channel closed")
	err = p.Publish(context.Background(), event)
	assert.ErrorContains(t, err, "failed to publish company.registered event")
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), NewEvent(TypeUserRegistered, "u", "u", "")))
}
