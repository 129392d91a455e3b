package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Debt statuses. Paid and cancelled are terminal.
const (
	DebtStatusPending   = "pending"
	DebtStatusPaid      = "paid"
	DebtStatusCancelled = "cancelled"
	DebtStatusDisputed  = "disputed"
)

// Debt types.
const (
	DebtTypeManual = "manual"
	DebtTypeSplit  = "split"
	DebtTypeLoan   = "loan"
)

// Debt is a directional obligation: DebtorID owes CreditorID. Invariant:
// creditor and debtor are never the same account.
type Debt struct {
	ID            int             `json:"id,omitempty" db:"id,omitempty"`
	CreditorID    int             `json:"creditor_id,omitempty" db:"creditor_id,omitempty"`
	DebtorID      int             `json:"debtor_id,omitempty" db:"debtor_id,omitempty"`
	Amount        decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Description   string          `json:"description,omitempty" db:"description,omitempty"`
	Status        string          `json:"status,omitempty" db:"status,omitempty"`
	Type          string          `json:"type,omitempty" db:"type,omitempty"`
	SplitID       sql.NullInt64   `json:"split_id,omitempty" db:"split_id,omitempty"`
	DueDate       sql.NullString  `json:"due_date,omitempty" db:"due_date,omitempty"`
	PaidAt        sql.NullString  `json:"paid_at,omitempty" db:"paid_at,omitempty"`
	PaymentMethod sql.NullString  `json:"payment_method,omitempty" db:"payment_method,omitempty"`
	CreatedAt     sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt     sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
