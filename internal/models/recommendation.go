package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Recommendation types.
const (
	RecommendationBudgetAlert    = "budget_alert"
	RecommendationFrequencyAlert = "frequency_alert"
	RecommendationSpendingTip    = "spending_tip"
)

// Recommendation is one generated spending insight. Rows are written when
// insights are generated and only ever flip to dismissed afterwards.
type Recommendation struct {
	ID               int             `json:"id,omitempty" db:"id,omitempty"`
	UserID           int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Type             string          `json:"type,omitempty" db:"type,omitempty"`
	Title            string          `json:"title,omitempty" db:"title,omitempty"`
	Description      string          `json:"description,omitempty" db:"description,omitempty"`
	Category         string          `json:"category,omitempty" db:"category,omitempty"`
	Priority         string          `json:"priority,omitempty" db:"priority,omitempty"`
	PotentialSavings decimal.Decimal `json:"potential_savings" db:"potential_savings"`
	IsDismissed      bool            `json:"is_dismissed" db:"is_dismissed"`
	CreatedAt        sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt        sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}
