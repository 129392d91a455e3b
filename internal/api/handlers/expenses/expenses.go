package expenses

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	"pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

const expenseColumns = "id, user_id, title, amount, category, subcategory, date, payment_mode, description, merchant, location, tags, currency, created_at, updated_at"

func scanExpense(scanner interface{ Scan(...interface{}) error }) (models.Expense, error) {
	var e models.Expense
	err := scanner.Scan(&e.ID, &e.UserID, &e.Title, &e.Amount, &e.Category, &e.Subcategory, &e.Date, &e.PaymentMode, &e.Description, &e.Merchant, &e.Location, &e.Tags, &e.Currency, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

type expensePayload struct {
	Title       string          `json:"title"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Date        string          `json:"date"`
	PaymentMode string          `json:"payment_mode"`
	Description string          `json:"description"`
	Merchant    string          `json:"merchant"`
	Location    string          `json:"location"`
	Tags        string          `json:"tags"`
	Currency    string          `json:"currency"`
}

func (p *expensePayload) validate() string {
	if strings.TrimSpace(p.Title) == "" {
		return "title is required"
	}
	if !p.Amount.IsPositive() {
		return "amount must be greater than zero"
	}
	if !models.ValidCategory(p.Category) {
		return "unknown category"
	}
	if p.PaymentMode == "" {
		p.PaymentMode = "cash"
	}
	if !models.ValidPaymentMode(p.PaymentMode) {
		return "unknown payment mode"
	}
	if p.Date == "" {
		p.Date = time.Now().UTC().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return "date must be YYYY-MM-DD"
	}
	if p.Currency == "" {
		p.Currency = "USD"
	}
	return ""
}

// FUNC TO ADD AN EXPENSE
func AddExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	var payload expensePayload
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

	expense, err := insertExpense(ctx, db, userID, payload)
	if err != nil {
		utils.Logger.Errorf("error inserting expense: %v", err)
		utils.WriteError(w, "error adding expense", http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "expense added", expense)
}

// FUNC TO ADD MANY EXPENSES IN ONE CALL
func BulkAddExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	type request struct {
		Expenses []expensePayload `json:"expenses"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if len(req.Expenses) == 0 {
		utils.WriteError(w, "expenses list is empty", http.StatusBadRequest)
		return
	}
	if len(req.Expenses) > 100 {
		utils.WriteError(w, "too many expenses in one request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	// Each row is written on its own. Bad rows are reported back with their
	// index instead of failing the whole batch.
	var added []models.Expense
	var failures []string
	for i := range req.Expenses {
		payload := req.Expenses[i]
		if msg := payload.validate(); msg != "" {
			failures = append(failures, fmt.Sprintf("expense %d: %s", i, msg))
			continue
		}
		expense, err := insertExpense(ctx, db, userID, payload)
		if err != nil {
			utils.Logger.Errorf("error inserting expense %d: %v", i, err)
			failures = append(failures, fmt.Sprintf("expense %d: could not be saved", i))
			continue
		}
		added = append(added, *expense)
	}

	response := struct {
		Added    []models.Expense `json:"added"`
		Failures []string         `json:"failures,omitempty"`
	}{Added: added, Failures: failures}

	utils.WriteSuccess(w, http.StatusCreated, fmt.Sprintf("%d of %d expenses added", len(added), len(req.Expenses)), response)
}

func insertExpense(ctx context.Context, db *sql.DB, userID int, p expensePayload) (*models.Expense, error) {
	now := mysql.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, title, amount, category, subcategory, date, payment_mode, description, merchant, location, tags, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, p.Title, p.Amount, p.Category, p.Subcategory, p.Date, p.PaymentMode, p.Description, p.Merchant, p.Location, p.Tags, p.Currency, now, now,
	)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &models.Expense{
		ID:          int(id),
		UserID:      userID,
		Title:       p.Title,
		Amount:      p.Amount,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Date:        p.Date,
		PaymentMode: p.PaymentMode,
		Description: p.Description,
		Merchant:    p.Merchant,
		Location:    p.Location,
		Tags:        p.Tags,
		Currency:    p.Currency,
		CreatedAt:   sql.NullString{String: now, Valid: true},
		UpdatedAt:   sql.NullString{String: now, Valid: true},
	}, nil
}

// FUNC TO LIST EXPENSES WITH FILTERS AND PAGINATION
func ListExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "SELECT " + expenseColumns + " FROM expenses WHERE user_id = ?"
	args := []interface{}{userID}

	query, args, errMsg := applyExpenseFilters(r, query, args)
	if errMsg != "" {
		utils.WriteError(w, errMsg, http.StatusBadRequest)
		return
	}

	page, limit := utils.GetPaginationParams(r)
	query += " ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching expenses: %v", err)
		utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			utils.Logger.Errorf("error scanning expense: %v", err)
			utils.WriteError(w, "error fetching expenses", http.StatusInternalServerError)
			return
		}
		expenses = append(expenses, expense)
	}

	response := struct {
		Status   string           `json:"status"`
		Count    int              `json:"count"`
		Page     int              `json:"page"`
		PageSize int              `json:"page_size"`
		Data     []models.Expense `json:"data"`
	}{
		Status:   "success",
		Count:    len(expenses),
		Page:     page,
		PageSize: limit,
		Data:     expenses,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func applyExpenseFilters(r *http.Request, query string, args []interface{}) (string, []interface{}, string) {
	q := r.URL.Query()

	if category := q.Get("category"); category != "" {
		if !models.ValidCategory(category) {
			return "", nil, "unknown category"
		}
		query += " AND category = ?"
		args = append(args, category)
	}
	if mode := q.Get("payment_mode"); mode != "" {
		if !models.ValidPaymentMode(mode) {
			return "", nil, "unknown payment mode"
		}
		query += " AND payment_mode = ?"
		args = append(args, mode)
	}
	if from := q.Get("start_date"); from != "" {
		if _, err := time.Parse("2006-01-02", from); err != nil {
			return "", nil, "start_date must be YYYY-MM-DD"
		}
		query += " AND date >= ?"
		args = append(args, from)
	}
	if to := q.Get("end_date"); to != "" {
		if _, err := time.Parse("2006-01-02", to); err != nil {
			return "", nil, "end_date must be YYYY-MM-DD"
		}
		query += " AND date <= ?"
		args = append(args, to)
	}
	if search := strings.TrimSpace(q.Get("search")); search != "" {
		query += " AND (title LIKE ? OR description LIKE ? OR merchant LIKE ?)"
		like := "%" + search + "%"
		args = append(args, like, like, like)
	}

	return query, args, ""
}

// FUNC TO GET ONE EXPENSE BY ID
func GetExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	row := db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?", expenseID, userID)
	expense, err := scanExpense(row)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "expense not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("error fetching expense: %v", err)
		utils.WriteError(w, "error fetching expense", http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "expense", expense)
}

// FUNC TO UPDATE AN EXPENSE
func UpdateExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	var payload expensePayload
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
		UPDATE expenses
		SET title = ?, amount = ?, category = ?, subcategory = ?, date = ?, payment_mode = ?, description = ?, merchant = ?, location = ?, tags = ?, currency = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		payload.Title, payload.Amount, payload.Category, payload.Subcategory, payload.Date, payload.PaymentMode, payload.Description, payload.Merchant, payload.Location, payload.Tags, payload.Currency, mysql.Now(), expenseID, userID,
	)
	if err != nil {
		utils.Logger.Errorf("error updating expense: %v", err)
		utils.WriteError(w, "error updating expense", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "expense updated", nil)
}

// FUNC TO DELETE AN EXPENSE
func DeleteExpenseHandler(w http.ResponseWriter, r *http.Request) {
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

	expenseID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ? AND user_id = ?", expenseID, userID)
	if err != nil {
		utils.Logger.Errorf("error deleting expense: %v", err)
		utils.WriteError(w, "error deleting expense", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "expense not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "expense deleted", nil)
}

// FUNC TO LIST THE SUPPORTED CATEGORIES AND PAYMENT MODES
func ListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := struct {
		Categories   []string `json:"categories"`
		PaymentModes []string `json:"payment_modes"`
	}{
		Categories:   models.ExpenseCategories,
		PaymentModes: models.PaymentModes,
	}

	utils.WriteSuccess(w, http.StatusOK, "categories", response)
}

// FUNC TO EXPORT THE USER'S EXPENSES AS CSV
func ExportExpensesHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	query := "SELECT " + expenseColumns + " FROM expenses WHERE user_id = ?"
	args := []interface{}{userID}
	query, args, errMsg := applyExpenseFilters(r, query, args)
	if errMsg != "" {
		utils.WriteError(w, errMsg, http.StatusBadRequest)
		return
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error exporting expenses: %v", err)
		utils.WriteError(w, "error exporting expenses", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=expenses-%s.csv", time.Now().UTC().Format("2006-01-02")))

	writer := csv.NewWriter(w)
	writer.Write([]string{"date", "title", "amount", "currency", "category", "subcategory", "payment_mode", "merchant", "location", "description", "tags"})

	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			utils.Logger.Errorf("error scanning expense for export: %v", err)
			return
		}
		writer.Write([]string{
			expense.Date,
			expense.Title,
			expense.Amount.StringFixed(2),
			expense.Currency,
			expense.Category,
			expense.Subcategory,
			expense.PaymentMode,
			expense.Merchant,
			expense.Location,
			expense.Description,
			expense.Tags,
		})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		utils.Logger.Errorf("error writing csv: %v", err)
	}
}
