package recommendations

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketsplit/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRuleBasedInsightsOverBudget(t *testing.T) {
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Food & Dining", Total: d("450"), Count: 9, Budget: d("400"), HasBudget: true},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, models.RecommendationBudgetAlert, recs[0].Type)
	assert.Equal(t, "high", recs[0].Priority)
	assert.True(t, recs[0].PotentialSavings.Equal(d("50")), "savings = overspend, got %s", recs[0].PotentialSavings)
	assert.Contains(t, recs[0].Description, "Food & Dining")
}

func TestRuleBasedInsightsUnderBudgetIsQuiet(t *testing.T) {
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Shopping", Total: d("120"), Count: 4, Budget: d("300"), HasBudget: true},
	})
	assert.Empty(t, recs)
}

func TestRuleBasedInsightsHighFrequency(t *testing.T) {
	// 16 transactions averaging 10 each: frequency rule only.
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Transportation", Total: d("160"), Count: 16},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, models.RecommendationFrequencyAlert, recs[0].Type)
	assert.Equal(t, "medium", recs[0].Priority)
	// 20% of the 10.00 average.
	assert.True(t, recs[0].PotentialSavings.Equal(d("2")), "got %s", recs[0].PotentialSavings)
}

func TestRuleBasedInsightsHighAverage(t *testing.T) {
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Travel", Total: d("600"), Count: 4},
	})

	require.Len(t, recs, 1)
	assert.Equal(t, models.RecommendationSpendingTip, recs[0].Type)
	// 15% of the 150.00 average.
	assert.True(t, recs[0].PotentialSavings.Equal(d("22.5")), "got %s", recs[0].PotentialSavings)
}

func TestRuleBasedInsightsOneCategoryCanTripAllRules(t *testing.T) {
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Shopping", Total: d("2000"), Count: 16, Budget: d("1000"), HasBudget: true},
	})

	require.Len(t, recs, 3)
	types := map[string]bool{}
	for _, r := range recs {
		types[r.Type] = true
	}
	assert.True(t, types[models.RecommendationBudgetAlert])
	assert.True(t, types[models.RecommendationFrequencyAlert])
	assert.True(t, types[models.RecommendationSpendingTip])
}

func TestRuleBasedInsightsCappedAtTenWithHighPriorityFirst(t *testing.T) {
	var stats []categoryStats
	for i := 0; i < 6; i++ {
		// Each category trips the over-budget and high-average rules.
		stats = append(stats, categoryStats{
			Category:  fmt.Sprintf("Category %d", i),
			Total:     d("500"),
			Count:     2,
			Budget:    d("100"),
			HasBudget: true,
		})
	}

	recs := ruleBasedInsights(stats)
	require.Len(t, recs, 10)
	for i := 0; i < 6; i++ {
		assert.Equal(t, "high", recs[i].Priority, "over-budget alerts come first")
	}
	for i := 6; i < 10; i++ {
		assert.Equal(t, "medium", recs[i].Priority)
	}
}

func TestRuleBasedInsightsSkipsEmptyCategories(t *testing.T) {
	recs := ruleBasedInsights([]categoryStats{
		{Category: "Other", Total: decimal.Zero, Count: 0, Budget: d("10"), HasBudget: true},
	})
	assert.Empty(t, recs)
}
