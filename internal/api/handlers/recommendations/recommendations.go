package recommendations

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	"pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

// minExpensesForInsights is the data floor below which no recommendations are
// generated.
const minExpensesForInsights = 10

// categoryStats is one category's current-month spending next to its budget
// cap, if any.
type categoryStats struct {
	Category  string
	Total     decimal.Decimal
	Count     int
	Budget    decimal.Decimal
	HasBudget bool
}

// ruleBasedInsights derives recommendations from per-category spending stats:
// over-budget alerts, high transaction frequency, and high average spend.
// Capped at ten, over-budget alerts first.
func ruleBasedInsights(stats []categoryStats) []models.Recommendation {
	var recs []models.Recommendation

	frequencyThreshold := 15
	highAverage := decimal.NewFromInt(100)

	for _, s := range stats {
		if s.Count == 0 {
			continue
		}
		average := s.Total.Div(decimal.NewFromInt(int64(s.Count))).Round(2)

		if s.HasBudget && s.Total.GreaterThan(s.Budget) {
			overspend := s.Total.Sub(s.Budget)
			recs = append(recs, models.Recommendation{
				Type:             models.RecommendationBudgetAlert,
				Title:            fmt.Sprintf("Over budget in %s", s.Category),
				Description:      fmt.Sprintf("You have exceeded your %s budget by %s this month.", s.Category, overspend.StringFixed(2)),
				Category:         s.Category,
				Priority:         "high",
				PotentialSavings: overspend,
			})
		}

		if s.Count > frequencyThreshold {
			recs = append(recs, models.Recommendation{
				Type:             models.RecommendationFrequencyAlert,
				Title:            fmt.Sprintf("High transaction frequency in %s", s.Category),
				Description:      fmt.Sprintf("You made %d transactions in %s this month. Consider consolidating purchases.", s.Count, s.Category),
				Category:         s.Category,
				Priority:         "medium",
				PotentialSavings: average.Mul(decimal.NewFromFloat(0.2)).Round(2),
			})
		}

		if average.GreaterThan(highAverage) {
			recs = append(recs, models.Recommendation{
				Type:             models.RecommendationSpendingTip,
				Title:            fmt.Sprintf("High average spending in %s", s.Category),
				Description:      fmt.Sprintf("Your average %s transaction is %s. Look for bulk discounts or alternatives.", s.Category, average.StringFixed(2)),
				Category:         s.Category,
				Priority:         "medium",
				PotentialSavings: average.Mul(decimal.NewFromFloat(0.15)).Round(2),
			})
		}
	}

	// Surface the urgent ones when the list gets trimmed.
	ordered := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		if r.Priority == "high" {
			ordered = append(ordered, r)
		}
	}
	for _, r := range recs {
		if r.Priority != "high" {
			ordered = append(ordered, r)
		}
	}
	if len(ordered) > 10 {
		ordered = ordered[:10]
	}
	return ordered
}

// FUNC TO GENERATE SPENDING RECOMMENDATIONS
func GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := handlers.RequireDB(w)
	if db == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var expenseCount int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE user_id = ?", userID).Scan(&expenseCount)
	if err != nil {
		utils.Logger.Errorf("error counting expenses: %v", err)
		utils.WriteError(w, "error generating recommendations", http.StatusInternalServerError)
		return
	}

	if expenseCount < minExpensesForInsights {
		utils.WriteSuccess(w, http.StatusOK,
			"not enough data for recommendations, add more expenses to get personalized insights",
			[]models.Recommendation{})
		return
	}

	now := time.Now().UTC()
	rows, err := db.QueryContext(ctx, `
		SELECT e.category, SUM(e.amount), COUNT(*), COALESCE(b.amount, 0), b.id IS NOT NULL
		FROM expenses e
		LEFT JOIN budgets b
			ON b.user_id = e.user_id AND b.category = e.category
			AND b.month = ? AND b.year = ? AND b.is_active = TRUE
		WHERE e.user_id = ? AND MONTH(e.date) = ? AND YEAR(e.date) = ?
		GROUP BY e.category, b.amount, b.id`,
		int(now.Month()), now.Year(), userID, int(now.Month()), now.Year(),
	)
	if err != nil {
		utils.Logger.Errorf("error loading category stats: %v", err)
		utils.WriteError(w, "error generating recommendations", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var stats []categoryStats
	for rows.Next() {
		var s categoryStats
		if err := rows.Scan(&s.Category, &s.Total, &s.Count, &s.Budget, &s.HasBudget); err != nil {
			utils.Logger.Errorf("error scanning category stats: %v", err)
			utils.WriteError(w, "error generating recommendations", http.StatusInternalServerError)
			return
		}
		stats = append(stats, s)
	}

	recs := ruleBasedInsights(stats)

	// Persist the top five so they can be dismissed later; storage failures
	// are logged, the generated list still goes back to the caller.
	nowStr := mysql.Now()
	for i := range recs {
		recs[i].UserID = userID
		if i >= 5 {
			continue
		}
		res, err := db.ExecContext(ctx, `
			INSERT INTO recommendations (user_id, type, title, description, category, priority, potential_savings, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, recs[i].Type, recs[i].Title, recs[i].Description, recs[i].Category, recs[i].Priority, recs[i].PotentialSavings, nowStr, nowStr,
		)
		if err != nil {
			utils.Logger.Errorf("error storing recommendation: %v", err)
			continue
		}
		if id, err := res.LastInsertId(); err == nil {
			recs[i].ID = int(id)
		}
	}

	utils.WriteSuccess(w, http.StatusOK, "recommendations", recs)
}

// FUNC TO DISMISS A STORED RECOMMENDATION
func DismissRecommendationHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := handlers.RequireDB(w)
	if db == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	recID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"UPDATE recommendations SET is_dismissed = TRUE, updated_at = ? WHERE id = ? AND user_id = ? AND is_dismissed = FALSE",
		mysql.Now(), recID, userID,
	)
	if err != nil {
		utils.Logger.Errorf("error dismissing recommendation: %v", err)
		utils.WriteError(w, "error dismissing recommendation", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "recommendation not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "recommendation dismissed", nil)
}
