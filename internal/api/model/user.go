package model

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	ID           string         `db:"id"`
	Fullname     string         `db:"fullname"`
	Email        string         `db:"email"`
	PhoneNumber  string         `db:"phone_number"`
	PasswordHash string         `db:"password_hash"`
	Role         string         `db:"role"`
	Bio          string         `db:"bio"`
	Skills       pq.StringArray `db:"skills"`
	PhotoURL     string         `db:"photo_url"`
	ResumeURL    string         `db:"resume_url"`
	ResumeName   string         `db:"resume_name"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// ActivityEvent is one entry of a user's activity log, written by the worker
type ActivityEvent struct {
	ID        string    `db:"id"`
	EventID   string    `db:"event_id"`
	EventType string    `db:"event_type"`
	ActorID   string    `db:"actor_id"`
	EntityID  string    `db:"entity_id"`
	Summary   string    `db:"summary"`
	CreatedAt time.Time `db:"created_at"`
}
