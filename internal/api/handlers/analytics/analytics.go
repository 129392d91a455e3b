package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	"pocketsplit/pkg/utils"
)

type bucketTotal struct {
	Key   string          `json:"key"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// monthParams reads ?month= and ?year=, defaulting to the current UTC month.
func monthParams(r *http.Request) (int, int, error) {
	now := time.Now().UTC()
	month, year := int(now.Month()), now.Year()

	q := r.URL.Query()
	if s := q.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, fmt.Errorf("month must be between 1 and 12")
		}
		month = m
	}
	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil || y < 2000 || y > 2100 {
			return 0, 0, fmt.Errorf("year is out of range")
		}
		year = y
	}
	return month, year, nil
}

func groupedTotals(ctx context.Context, db *sql.DB, userID int, keyExpr string, month, year int) ([]bucketTotal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+keyExpr+` AS k, SUM(amount), COUNT(*)
		FROM expenses
		WHERE user_id = ? AND MONTH(date) = ? AND YEAR(date) = ?
		GROUP BY k
		ORDER BY SUM(amount) DESC`,
		userID, month, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := []bucketTotal{}
	for rows.Next() {
		var b bucketTotal
		if err := rows.Scan(&b.Key, &b.Total, &b.Count); err != nil {
			return nil, err
		}
		totals = append(totals, b)
	}
	return totals, rows.Err()
}

// FUNC FOR THE MONTHLY SPENDING SUMMARY
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
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

	month, year, err := monthParams(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var total decimal.NullDecimal
	var count int
	err = db.QueryRowContext(ctx, `
		SELECT SUM(amount), COUNT(*) FROM expenses
		WHERE user_id = ? AND MONTH(date) = ? AND YEAR(date) = ?`,
		userID, month, year,
	).Scan(&total, &count)
	if err != nil {
		utils.Logger.Errorf("error computing summary: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	totalSpent := decimal.Zero
	if total.Valid {
		totalSpent = total.Decimal
	}
	average := decimal.Zero
	if count > 0 {
		average = totalSpent.Div(decimal.NewFromInt(int64(count))).Round(2)
	}

	byCategory, err := groupedTotals(ctx, db, userID, "category", month, year)
	if err != nil {
		utils.Logger.Errorf("error computing category breakdown: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	byPaymentMode, err := groupedTotals(ctx, db, userID, "payment_mode", month, year)
	if err != nil {
		utils.Logger.Errorf("error computing payment mode breakdown: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	daily, err := groupedTotals(ctx, db, userID, "DATE_FORMAT(date, '%Y-%m-%d')", month, year)
	if err != nil {
		utils.Logger.Errorf("error computing daily breakdown: %v", err)
		utils.WriteError(w, "error computing summary", http.StatusInternalServerError)
		return
	}

	response := struct {
		Month         int             `json:"month"`
		Year          int             `json:"year"`
		TotalSpent    decimal.Decimal `json:"total_spent"`
		ExpenseCount  int             `json:"expense_count"`
		AverageAmount decimal.Decimal `json:"average_amount"`
		ByCategory    []bucketTotal   `json:"by_category"`
		ByPaymentMode []bucketTotal   `json:"by_payment_mode"`
		Daily         []bucketTotal   `json:"daily"`
	}{
		Month:         month,
		Year:          year,
		TotalSpent:    totalSpent,
		ExpenseCount:  count,
		AverageAmount: average,
		ByCategory:    byCategory,
		ByPaymentMode: byPaymentMode,
		Daily:         daily,
	}

	utils.WriteSuccess(w, http.StatusOK, "spending summary", response)
}

// FUNC FOR SPENDING TRENDS OVER A LOOKBACK WINDOW
func TrendsHandler(w http.ResponseWriter, r *http.Request) {
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

	q := r.URL.Query()
	period := q.Get("period")
	if period == "" {
		period = "monthly"
	}

	var bucketExpr string
	switch period {
	case "daily":
		bucketExpr = "DATE_FORMAT(date, '%Y-%m-%d')"
	case "weekly":
		bucketExpr = "DATE_FORMAT(date, '%x-W%v')"
	case "monthly":
		bucketExpr = "DATE_FORMAT(date, '%Y-%m')"
	default:
		utils.WriteError(w, "period must be daily, weekly or monthly", http.StatusBadRequest)
		return
	}

	months := 6
	if s := q.Get("months"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 || m > 36 {
			utils.WriteError(w, "months must be between 1 and 36", http.StatusBadRequest)
			return
		}
		months = m
	}
	since := time.Now().UTC().AddDate(0, -months, 0).Format("2006-01-02")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT `+bucketExpr+` AS bucket, SUM(amount), COUNT(*)
		FROM expenses
		WHERE user_id = ? AND date >= ?
		GROUP BY bucket
		ORDER BY bucket`,
		userID, since,
	)
	if err != nil {
		utils.Logger.Errorf("error computing trends: %v", err)
		utils.WriteError(w, "error computing trends", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type trendBucket struct {
		Key        string                     `json:"key"`
		Total      decimal.Decimal            `json:"total"`
		Count      int                        `json:"count"`
		ByCategory map[string]decimal.Decimal `json:"by_category"`
	}

	buckets := []trendBucket{}
	index := map[string]int{}
	for rows.Next() {
		var b trendBucket
		if err := rows.Scan(&b.Key, &b.Total, &b.Count); err != nil {
			utils.Logger.Errorf("error scanning trend bucket: %v", err)
			utils.WriteError(w, "error computing trends", http.StatusInternalServerError)
			return
		}
		b.ByCategory = map[string]decimal.Decimal{}
		index[b.Key] = len(buckets)
		buckets = append(buckets, b)
	}

	catRows, err := db.QueryContext(ctx, `
		SELECT `+bucketExpr+` AS bucket, category, SUM(amount)
		FROM expenses
		WHERE user_id = ? AND date >= ?
		GROUP BY bucket, category`,
		userID, since,
	)
	if err != nil {
		utils.Logger.Errorf("error computing trend categories: %v", err)
		utils.WriteError(w, "error computing trends", http.StatusInternalServerError)
		return
	}
	defer catRows.Close()

	for catRows.Next() {
		var bucket, category string
		var amount decimal.Decimal
		if err := catRows.Scan(&bucket, &category, &amount); err != nil {
			utils.Logger.Errorf("error scanning trend category: %v", err)
			utils.WriteError(w, "error computing trends", http.StatusInternalServerError)
			return
		}
		if i, ok := index[bucket]; ok {
			buckets[i].ByCategory[category] = amount
		}
	}

	response := struct {
		Period string        `json:"period"`
		Since  string        `json:"since"`
		Trends []trendBucket `json:"trends"`
	}{
		Period: period,
		Since:  since,
		Trends: buckets,
	}

	utils.WriteSuccess(w, http.StatusOK, "spending trends", response)
}

// FUNC TO COMPARE BUDGETS AGAINST ACTUAL SPENDING
func BudgetComparisonHandler(w http.ResponseWriter, r *http.Request) {
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

	month, year, err := monthParams(r)
	if err != nil {
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	rows, err := db.QueryContext(ctx, `
		SELECT b.id, b.name, b.category, b.amount, b.alert_threshold, COALESCE(SUM(e.amount), 0)
		FROM budgets b
		LEFT JOIN expenses e
			ON e.user_id = b.user_id AND e.category = b.category
			AND MONTH(e.date) = b.month AND YEAR(e.date) = b.year
		WHERE b.user_id = ? AND b.month = ? AND b.year = ? AND b.is_active = TRUE
		GROUP BY b.id, b.name, b.category, b.amount, b.alert_threshold
		ORDER BY b.category`,
		userID, month, year,
	)
	if err != nil {
		utils.Logger.Errorf("error comparing budgets: %v", err)
		utils.WriteError(w, "error comparing budgets", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	comparisons := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		var spent decimal.Decimal
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.Amount, &b.AlertThreshold, &spent); err != nil {
			utils.Logger.Errorf("error scanning budget comparison: %v", err)
			utils.WriteError(w, "error comparing budgets", http.StatusInternalServerError)
			return
		}
		b.UserID = userID
		b.Month = month
		b.Year = year
		b.IsActive = true
		b.Derive(spent)
		comparisons = append(comparisons, b)
	}

	response := struct {
		Month   int             `json:"month"`
		Year    int             `json:"year"`
		Budgets []models.Budget `json:"budgets"`
	}{
		Month:   month,
		Year:    year,
		Budgets: comparisons,
	}

	utils.WriteSuccess(w, http.StatusOK, "budget comparison", response)
}
