package budgets

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	storemysql "pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

const budgetColumns = "id, user_id, name, category, amount, month, year, alert_threshold, is_active, created_at, updated_at"

func scanBudget(scanner interface{ Scan(...interface{}) error }) (models.Budget, error) {
	var b models.Budget
	err := scanner.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Amount, &b.Month, &b.Year, &b.AlertThreshold, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// categorySpent sums a user's expenses for one category in one calendar month.
func categorySpent(ctx context.Context, db *sql.DB, userID int, category string, month, year int) (decimal.Decimal, error) {
	var spent decimal.NullDecimal
	err := db.QueryRowContext(ctx, `
		SELECT SUM(amount) FROM expenses
		WHERE user_id = ? AND category = ? AND MONTH(date) = ? AND YEAR(date) = ?`,
		userID, category, month, year,
	).Scan(&spent)
	if err != nil {
		return decimal.Zero, err
	}
	if !spent.Valid {
		return decimal.Zero, nil
	}
	return spent.Decimal, nil
}

type budgetPayload struct {
	Name           string          `json:"name"`
	Category       string          `json:"category"`
	Amount         decimal.Decimal `json:"amount"`
	Month          int             `json:"month"`
	Year           int             `json:"year"`
	AlertThreshold decimal.Decimal `json:"alert_threshold"`
}

func (p *budgetPayload) validate() string {
	if !models.ValidCategory(p.Category) {
		return "unknown category"
	}
	if !p.Amount.IsPositive() {
		return "amount must be greater than zero"
	}
	now := time.Now().UTC()
	if p.Month == 0 {
		p.Month = int(now.Month())
	}
	if p.Year == 0 {
		p.Year = now.Year()
	}
	if p.Month < 1 || p.Month > 12 {
		return "month must be between 1 and 12"
	}
	if p.Year < 2000 || p.Year > 2100 {
		return "year is out of range"
	}
	if p.AlertThreshold.IsZero() {
		p.AlertThreshold = decimal.NewFromFloat(0.8)
	}
	if p.AlertThreshold.IsNegative() || p.AlertThreshold.GreaterThan(decimal.NewFromInt(1)) {
		return "alert_threshold must be between 0 and 1"
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = p.Category + " budget"
	}
	return ""
}

// FUNC TO CREATE A MONTHLY BUDGET
func CreateBudgetHandler(w http.ResponseWriter, r *http.Request) {
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

	var payload budgetPayload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if msg := payload.validate(); msg != "" {
		utils.WriteError(w, msg, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := storemysql.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, name, category, amount, month, year, alert_threshold, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		userID, payload.Name, payload.Category, payload.Amount, payload.Month, payload.Year, payload.AlertThreshold, now, now,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			utils.WriteError(w, "a budget for this category and month already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("error creating budget: %v", err)
		utils.WriteError(w, "error creating budget", http.StatusInternalServerError)
		return
	}

	id, _ := res.LastInsertId()
	budget := models.Budget{
		ID:             int(id),
		UserID:         userID,
		Name:           payload.Name,
		Category:       payload.Category,
		Amount:         payload.Amount,
		Month:          payload.Month,
		Year:           payload.Year,
		AlertThreshold: payload.AlertThreshold,
		IsActive:       true,
		CreatedAt:      sql.NullString{String: now, Valid: true},
		UpdatedAt:      sql.NullString{String: now, Valid: true},
	}

	spent, err := categorySpent(ctx, db, userID, budget.Category, budget.Month, budget.Year)
	if err != nil {
		utils.Logger.Errorf("error computing spent amount: %v", err)
		spent = decimal.Zero
	}
	budget.Derive(spent)

	utils.WriteSuccess(w, http.StatusCreated, "budget created", budget)
}

// FUNC TO LIST BUDGETS WITH THEIR COMPUTED USAGE
func ListBudgetsHandler(w http.ResponseWriter, r *http.Request) {
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

	query := "SELECT " + budgetColumns + " FROM budgets WHERE user_id = ? AND is_active = TRUE"
	args := []interface{}{userID}

	q := r.URL.Query()
	if monthStr := q.Get("month"); monthStr != "" {
		query += " AND month = ?"
		args = append(args, monthStr)
	}
	if yearStr := q.Get("year"); yearStr != "" {
		query += " AND year = ?"
		args = append(args, yearStr)
	}
	query += " ORDER BY year DESC, month DESC, category"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching budgets: %v", err)
		utils.WriteError(w, "error fetching budgets", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	budgets := []models.Budget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			utils.Logger.Errorf("error scanning budget: %v", err)
			utils.WriteError(w, "error fetching budgets", http.StatusInternalServerError)
			return
		}
		budgets = append(budgets, budget)
	}

	for i := range budgets {
		spent, err := categorySpent(ctx, db, userID, budgets[i].Category, budgets[i].Month, budgets[i].Year)
		if err != nil {
			utils.Logger.Errorf("error computing spent amount: %v", err)
			spent = decimal.Zero
		}
		budgets[i].Derive(spent)
	}

	utils.WriteSuccess(w, http.StatusOK, "budgets", budgets)
}

// FUNC TO GET ONE BUDGET BY ID
func GetBudgetHandler(w http.ResponseWriter, r *http.Request) {
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

	budgetID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	row := db.QueryRowContext(ctx, "SELECT "+budgetColumns+" FROM budgets WHERE id = ? AND user_id = ?", budgetID, userID)
	budget, err := scanBudget(row)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "budget not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching budget: %v", err)
		utils.WriteError(w, "error fetching budget", http.StatusInternalServerError)
		return
	}

	spent, err := categorySpent(ctx, db, userID, budget.Category, budget.Month, budget.Year)
	if err != nil {
		utils.Logger.Errorf("error computing spent amount: %v", err)
		spent = decimal.Zero
	}
	budget.Derive(spent)

	utils.WriteSuccess(w, http.StatusOK, "budget", budget)
}

// FUNC TO UPDATE A BUDGET
func UpdateBudgetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
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

	budgetID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	var payload budgetPayload
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if msg := payload.validate(); msg != "" {
		utils.WriteError(w, msg, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, `
		UPDATE budgets
		SET name = ?, category = ?, amount = ?, month = ?, year = ?, alert_threshold = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		payload.Name, payload.Category, payload.Amount, payload.Month, payload.Year, payload.AlertThreshold, storemysql.Now(), budgetID, userID,
	)
	if err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			utils.WriteError(w, "a budget for this category and month already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("error updating budget: %v", err)
		utils.WriteError(w, "error updating budget", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "budget not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "budget updated", nil)
}

// FUNC TO DEACTIVATE A BUDGET
func DeleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
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

	budgetID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "UPDATE budgets SET is_active = FALSE, updated_at = ? WHERE id = ? AND user_id = ? AND is_active = TRUE", storemysql.Now(), budgetID, userID)
	if err != nil {
		utils.Logger.Errorf("error deleting budget: %v", err)
		utils.WriteError(w, "error deleting budget", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "budget not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "budget deleted", nil)
}
