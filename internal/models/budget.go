package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Budget caps one category for one calendar month. Spent, Remaining, Usage
// and the flags are computed from the expenses table on read, never stored.
type Budget struct {
	ID             int             `json:"id,omitempty" db:"id,omitempty"`
	UserID         int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Name           string          `json:"name,omitempty" db:"name,omitempty"`
	Category       string          `json:"category,omitempty" db:"category,omitempty"`
	Amount         decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Month          int             `json:"month,omitempty" db:"month,omitempty"`
	Year           int             `json:"year,omitempty" db:"year,omitempty"`
	AlertThreshold decimal.Decimal `json:"alert_threshold,omitempty" db:"alert_threshold,omitempty"`
	IsActive       bool            `json:"is_active" db:"is_active"`
	CreatedAt      sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt      sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`

	Spent       decimal.Decimal `json:"spent_amount"`
	Remaining   decimal.Decimal `json:"remaining_amount"`
	Usage       decimal.Decimal `json:"usage_percentage"`
	OverBudget  bool            `json:"is_over_budget"`
	ShouldAlert bool            `json:"should_alert"`
}

// Derive fills the computed fields from the given spent amount.
func (b *Budget) Derive(spent decimal.Decimal) {
	b.Spent = spent
	b.Remaining = decimal.Max(decimal.Zero, b.Amount.Sub(spent))
	if b.Amount.IsPositive() {
		b.Usage = spent.Div(b.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		b.Usage = decimal.Zero
	}
	b.OverBudget = spent.GreaterThan(b.Amount)
	b.ShouldAlert = b.Usage.GreaterThanOrEqual(b.AlertThreshold.Mul(decimal.NewFromInt(100)))
}
