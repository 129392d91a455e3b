package models

import "database/sql"

type User struct {
	ID             int            `json:"id,omitempty" db:"id,omitempty"`
	FirstName      string         `json:"first_name,omitempty" db:"first_name,omitempty"`
	LastName       string         `json:"last_name,omitempty" db:"last_name,omitempty"`
	Username       string         `json:"username,omitempty" db:"username,omitempty"`
	Email          string         `json:"email,omitempty" db:"email,omitempty"`
	Password       string         `json:"password,omitempty" db:"password,omitempty"`
	Role           string         `json:"role,omitempty" db:"role,omitempty"`
	Currency       string         `json:"currency,omitempty" db:"currency,omitempty"`
	InactiveStatus bool           `json:"inactive_status,omitempty" db:"inactive_status,omitempty"`
	CreatedAt      sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt      sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
