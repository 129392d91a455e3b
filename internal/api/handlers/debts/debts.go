package debts

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/repositories/sqlconnect"
	"pocketsplit/internal/service"
	"pocketsplit/internal/storage"
	"pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

func debtService() *service.DebtService {
	return service.NewDebtService(mysql.New(sqlconnect.DB))
}

// FUNC TO RECORD A MANUAL DEBT
func CreateDebtHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if handlers.RequireDB(w) == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	type request struct {
		FriendID    int             `json:"friend_id"`
		Email       string          `json:"email"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		Type        string          `json:"type"`
		DueDate     string          `json:"due_date"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.DueDate != "" {
		if _, err := time.Parse("2006-01-02", req.DueDate); err != nil {
			utils.WriteError(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		req.DueDate += " 00:00:00"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	debt, err := debtService().CreateManual(ctx, service.CreateDebtInput{
		CreditorID:  userID,
		FriendID:    req.FriendID,
		Email:       req.Email,
		Amount:      req.Amount,
		Description: req.Description,
		Type:        req.Type,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "debt recorded", debt)
}

// FUNC TO LIST THE LOGGED IN USER'S DEBTS
func ListDebtsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if handlers.RequireDB(w) == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	debts, err := debtService().List(ctx, userID, storage.DebtFilter{
		Direction: r.URL.Query().Get("direction"),
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "debts", debts)
}

// FUNC TO EDIT A PENDING DEBT
func UpdateDebtHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if handlers.RequireDB(w) == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	debtID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	type request struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		DueDate     string          `json:"due_date"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.DueDate != "" {
		if _, err := time.Parse("2006-01-02", req.DueDate); err != nil {
			utils.WriteError(w, "due_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		req.DueDate += " 00:00:00"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	debt, err := debtService().Update(ctx, userID, debtID, service.UpdateDebtInput{
		Amount:      req.Amount,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "debt updated", debt)
}

// FUNC FOR THE DEBTOR'S "I PAID" ACTION
func MarkPaidHandler(w http.ResponseWriter, r *http.Request) {
	transitionHandler(w, r, func(ctx context.Context, userID, debtID int, method string) (interface{}, error) {
		return debtService().MarkPaid(ctx, userID, debtID, method)
	}, "debt marked as paid")
}

// FUNC FOR THE CREDITOR'S "CONFIRM RECEIVED" ACTION
func ConfirmReceivedHandler(w http.ResponseWriter, r *http.Request) {
	transitionHandler(w, r, func(ctx context.Context, userID, debtID int, method string) (interface{}, error) {
		return debtService().ConfirmReceived(ctx, userID, debtID, method)
	}, "debt confirmed as received")
}

// FUNC FOR THE CREDITOR'S CANCEL ACTION
func CancelDebtHandler(w http.ResponseWriter, r *http.Request) {
	transitionHandler(w, r, func(ctx context.Context, userID, debtID int, _ string) (interface{}, error) {
		return debtService().Cancel(ctx, userID, debtID)
	}, "debt cancelled")
}

// FUNC FOR THE DEBTOR'S DISPUTE ACTION
func DisputeDebtHandler(w http.ResponseWriter, r *http.Request) {
	transitionHandler(w, r, func(ctx context.Context, userID, debtID int, _ string) (interface{}, error) {
		return debtService().Dispute(ctx, userID, debtID)
	}, "debt disputed")
}

func transitionHandler(w http.ResponseWriter, r *http.Request, do func(context.Context, int, int, string) (interface{}, error), message string) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if handlers.RequireDB(w) == nil {
		return
	}

	userID, ok := handlers.RequireUser(w, r)
	if !ok {
		return
	}

	debtID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	// Optional body carrying a payment method tag.
	var method string
	if r.Body != nil {
		type request struct {
			PaymentMethod string `json:"payment_method"`
		}
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			method = req.PaymentMethod
		}
		r.Body.Close()
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	debt, err := do(ctx, userID, debtID, method)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, message, debt)
}
