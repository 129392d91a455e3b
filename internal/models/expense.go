package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// ExpenseCategories is the fixed category list. Budgets reference the same names.
var ExpenseCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Travel",
	"Education",
	"Personal Care",
	"Home & Garden",
	"Gifts & Donations",
	"Business",
	"Other",
}

// PaymentModes accepted on an expense.
var PaymentModes = []string{"cash", "card", "wallet", "bank", "cheque", "online"}

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Title       string          `json:"title,omitempty" db:"title,omitempty"`
	Amount      decimal.Decimal `json:"amount,omitempty" db:"amount,omitempty"`
	Category    string          `json:"category,omitempty" db:"category,omitempty"`
	Subcategory string          `json:"subcategory,omitempty" db:"subcategory,omitempty"`
	Date        string          `json:"date,omitempty" db:"date,omitempty"`
	PaymentMode string          `json:"payment_mode,omitempty" db:"payment_mode,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Merchant    string          `json:"merchant,omitempty" db:"merchant,omitempty"`
	Location    string          `json:"location,omitempty" db:"location,omitempty"`
	Tags        string          `json:"tags,omitempty" db:"tags,omitempty"`
	Currency    string          `json:"currency,omitempty" db:"currency,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
	UpdatedAt   sql.NullString  `json:"updated_at,omitempty" db:"updated_at,omitempty"`
}

// ValidCategory reports whether name is one of ExpenseCategories.
func ValidCategory(name string) bool {
	for _, c := range ExpenseCategories {
		if c == name {
			return true
		}
	}
	return false
}

// ValidPaymentMode reports whether mode is one of PaymentModes.
func ValidPaymentMode(mode string) bool {
	for _, m := range PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}
