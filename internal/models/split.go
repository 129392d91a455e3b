package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Split event statuses.
const (
	SplitStatusActive    = "active"
	SplitStatusSettled   = "settled"
	SplitStatusCancelled = "cancelled"
)

// Split modes.
const (
	SplitModeEqual    = "equal"
	SplitModeExplicit = "explicit"
)

// SplitEvent is one shared expense. Shares are immutable after creation;
// only the status (and settled_at) changes afterwards.
type SplitEvent struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	CreatorID   int             `json:"creator_id,omitempty" db:"creator_id,omitempty"`
	PayerID     int             `json:"payer_id,omitempty" db:"payer_id,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Total       decimal.Decimal `json:"total,omitempty" db:"total,omitempty"`
	Mode        string          `json:"mode,omitempty" db:"mode,omitempty"`
	Status      string          `json:"status,omitempty" db:"status,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	SettledAt   sql.NullString  `json:"settled_at,omitempty" db:"settled_at,omitempty"`
}

// SplitShare is one participant's slice of a split event. UserID is NULL for
// email-only participants, which never produce debt records.
type SplitShare struct {
	ID        int             `json:"id,omitempty" db:"id,omitempty"`
	SplitID   int             `json:"split_id,omitempty" db:"split_id,omitempty"`
	UserID    sql.NullInt64   `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name      string          `json:"name,omitempty" db:"name,omitempty"`
	Email     string          `json:"email,omitempty" db:"email,omitempty"`
	Amount    decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	CreatedAt sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
