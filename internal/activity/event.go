// Package activity defines the domain events the API publishes and the worker records.
package activity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types double as routing keys on the topic exchange
const (
	TypeUserRegistered       = "user.registered"
	TypeCompanyRegistered    = "company.registered"
	TypeCompanyUpdated       = "company.updated"
	TypeJobPosted            = "job.posted"
	TypeApplicationSubmitted = "application.submitted"
)

var knownTypes = map[string]struct{}{
	TypeUserRegistered:       {},
	TypeCompanyRegistered:    {},
	TypeCompanyUpdated:       {},
	TypeJobPosted:            {},
	TypeApplicationSubmitted: {},
}

// ErrInvalidEvent is returned when a message body is not a well-formed event
var ErrInvalidEvent = errors.New("invalid activity event")

// Event is the message body published for each successful write
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	ActorID    string    `json:"actorId"`
	EntityID   string    `json:"entityId"`
	Summary    string    `json:"summary"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent stamps a fresh event id and time
func NewEvent(eventType, actorID, entityID, summary string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ActorID:    actorID,
		EntityID:   entityID,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
}

// KnownType reports whether t is one of the published event types
func KnownType(t string) bool {
	_, ok := knownTypes[t]
	return ok
}

// Validate checks the fields the worker relies on
func (e *Event) Validate() error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return fmt.Errorf("%w: bad id %q", ErrInvalidEvent, e.ID)
	}
	if !KnownType(e.Type) {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, e.Type)
	}
	if e.ActorID == "" {
		return fmt.Errorf("%w: missing actor", ErrInvalidEvent)
	}
	return nil
}

// Decode parses and validates a message body
func Decode(body []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(body, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
