package model

import "time"

type Company struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Website     string    `db:"website"`
	Location    string    `db:"location"`
	LogoURL     string    `db:"logo_url"`
	OwnerID     string    `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
