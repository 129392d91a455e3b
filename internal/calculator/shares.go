// Package calculator holds the pure split arithmetic: per-person share
// computation and the creditor/debtor direction rules. No storage, no HTTP.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ShareTolerance is the maximum accepted drift between a stated total and the
// sum of explicit shares, in currency units.
var ShareTolerance = decimal.RequireFromString("0.01")

var (
	ErrNonPositiveTotal = errors.New("total must be greater than 0")
	ErrNoParticipants   = errors.New("no valid participants")
)

// EqualShare computes the per-person amount for an equal split among
// participantCount friends plus the payer. The divisor is participantCount+1
// because the payer always carries an implicit share of their own.
//
// The rounding remainder (total - share*participantCount - share) is absorbed
// by the payer's implicit share and deliberately not redistributed.
func EqualShare(total decimal.Decimal, participantCount int) (decimal.Decimal, error) {
	if !total.IsPositive() {
		return decimal.Zero, ErrNonPositiveTotal
	}
	if participantCount < 1 {
		return decimal.Zero, ErrNoParticipants
	}
	divisor := decimal.NewFromInt(int64(participantCount) + 1)
	return total.Div(divisor).Round(2), nil
}

// ValidateExplicitShares checks that the provided shares add up to the stated
// total within ShareTolerance.
func ValidateExplicitShares(total decimal.Decimal, shares []decimal.Decimal) error {
	if !total.IsPositive() {
		return ErrNonPositiveTotal
	}
	if len(shares) == 0 {
		return ErrNoParticipants
	}
	sum := decimal.Zero
	for _, s := range shares {
		if !s.IsPositive() {
			return fmt.Errorf("share amounts must be greater than 0, got %s", s)
		}
		sum = sum.Add(s)
	}
	if diff := sum.Sub(total).Abs(); diff.GreaterThan(ShareTolerance) {
		return fmt.Errorf("shares sum to %s but total is %s", sum, total)
	}
	return nil
}
