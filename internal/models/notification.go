package models

import "database/sql"

// Notification types.
const (
	NotificationTypeSplitCreated   = "split_created"
	NotificationTypeSplitSettled   = "split_settled"
	NotificationTypeSplitCancelled = "split_cancelled"
	NotificationTypeDebtCreated    = "debt_created"
	NotificationTypeDebtPaid       = "debt_paid"
	NotificationTypeDebtCancelled  = "debt_cancelled"
	NotificationTypeDebtDisputed   = "debt_disputed"
)

// Related record kinds for deep links.
const (
	RelatedKindSplit = "split"
	RelatedKindDebt  = "debt"
)

type Notification struct {
	ID          int            `json:"id,omitempty" db:"id,omitempty"`
	RecipientID int            `json:"recipient_id,omitempty" db:"recipient_id,omitempty"`
	SenderID    int            `json:"sender_id,omitempty" db:"sender_id,omitempty"`
	Type        string         `json:"type,omitempty" db:"type,omitempty"`
	Title       string         `json:"title,omitempty" db:"title,omitempty"`
	Body        string         `json:"body,omitempty" db:"body,omitempty"`
	IsRead      bool           `json:"is_read" db:"is_read"`
	ReadAt      sql.NullString `json:"read_at,omitempty" db:"read_at,omitempty"`
	RelatedKind string         `json:"related_kind,omitempty" db:"related_kind,omitempty"`
	RelatedID   sql.NullInt64  `json:"related_id,omitempty" db:"related_id,omitempty"`
	CreatedAt   sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}
