package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualShare(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		participants int
		want         string
	}{
		{"two participants plus payer", "100", 2, "33.33"},
		{"exact division", "90", 2, "30"},
		{"single participant", "50", 1, "25"},
		{"repeating decimal", "10", 2, "3.33"},
		{"large total", "1234.56", 3, "308.64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, err := EqualShare(decimal.RequireFromString(tt.total), tt.participants)
			require.NoError(t, err)
			assert.True(t, share.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", share, tt.want)
		})
	}
}

func TestEqualShareRemainderStaysWithPayer(t *testing.T) {
	// 100 split across 2 participants + payer: each share is 33.33, so the
	// recorded shares sum to 66.66 and the payer absorbs the extra cent.
	total := decimal.RequireFromString("100")
	share, err := EqualShare(total, 2)
	require.NoError(t, err)

	recorded := share.Mul(decimal.NewFromInt(2))
	remainder := total.Sub(recorded).Sub(share)
	assert.True(t, remainder.Equal(decimal.RequireFromString("0.01")), "remainder was %s", remainder)
}

func TestEqualShareRejectsBadInput(t *testing.T) {
	_, err := EqualShare(decimal.Zero, 2)
	assert.ErrorIs(t, err, ErrNonPositiveTotal)

	_, err = EqualShare(decimal.RequireFromString("-10"), 2)
	assert.ErrorIs(t, err, ErrNonPositiveTotal)

	_, err = EqualShare(decimal.RequireFromString("100"), 0)
	assert.ErrorIs(t, err, ErrNoParticipants)
}

func TestValidateExplicitShares(t *testing.T) {
	d := decimal.RequireFromString

	t.Run("exact sum accepted", func(t *testing.T) {
		err := ValidateExplicitShares(d("90"), []decimal.Decimal{d("30"), d("30"), d("30")})
		assert.NoError(t, err)
	})

	t.Run("within tolerance accepted", func(t *testing.T) {
		err := ValidateExplicitShares(d("100"), []decimal.Decimal{d("33.33"), d("33.33"), d("33.33")})
		assert.NoError(t, err)
	})

	t.Run("mismatch rejected", func(t *testing.T) {
		err := ValidateExplicitShares(d("100"), []decimal.Decimal{d("40"), d("40")})
		assert.Error(t, err)
	})

	t.Run("just outside tolerance rejected", func(t *testing.T) {
		err := ValidateExplicitShares(d("100"), []decimal.Decimal{d("50"), d("49.98")})
		assert.Error(t, err)
	})

	t.Run("non-positive share rejected", func(t *testing.T) {
		err := ValidateExplicitShares(d("100"), []decimal.Decimal{d("100"), d("0")})
		assert.Error(t, err)
	})

	t.Run("empty shares rejected", func(t *testing.T) {
		err := ValidateExplicitShares(d("100"), nil)
		assert.ErrorIs(t, err, ErrNoParticipants)
	})

	t.Run("non-positive total rejected", func(t *testing.T) {
		err := ValidateExplicitShares(decimal.Zero, []decimal.Decimal{d("10")})
		assert.ErrorIs(t, err, ErrNonPositiveTotal)
	})
}
