package models

import "database/sql"

// Friend statuses.
const (
	FriendStatusActive   = "active"
	FriendStatusInactive = "inactive"
)

// Friend is a directional link owned by UserID. FriendUserID is NULL for
// contacts that never registered; Name and Email are denormalized from the
// target account at link time and may drift until the next sync.
type Friend struct {
	ID           int            `json:"id,omitempty" db:"id,omitempty"`
	UserID       int            `json:"user_id,omitempty" db:"user_id,omitempty"`
	FriendUserID sql.NullInt64  `json:"friend_user_id,omitempty" db:"friend_user_id,omitempty"`
	Name         string         `json:"name,omitempty" db:"name,omitempty"`
	Email        string         `json:"email,omitempty" db:"email,omitempty"`
	Status       string         `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt    sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt    sql.NullString `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// FriendRequest tracks a pending connection, addressed by email so it also
// covers invitees without an account yet.
type FriendRequest struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	FromUser  int            `json:"from_user,omitempty" db:"from_user,omitempty"`
	ToEmail   string         `json:"to_email,omitempty" db:"to_email,omitempty"`
	Token     string         `json:"token,omitempty" db:"token,omitempty"`
	Status    string         `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
