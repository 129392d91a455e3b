package splits

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/repositories/sqlconnect"
	"pocketsplit/internal/service"
	"pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

func splitService() *service.SplitService {
	return service.NewSplitService(mysql.New(sqlconnect.DB))
}

// FUNC TO CREATE A SPLIT EXPENSE
func CreateSplitHandler(w http.ResponseWriter, r *http.Request) {
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
		Description   string                   `json:"description"`
		Total         decimal.Decimal          `json:"total"`
		PayerFriendID int                      `json:"payer_friend_id"`
		Mode          string                   `json:"mode"`
		Participants  []service.ParticipantRef `json:"participants"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := splitService().CreateSplit(ctx, service.CreateSplitInput{
		CreatorID:     userID,
		Description:   req.Description,
		Total:         req.Total,
		PayerFriendID: req.PayerFriendID,
		Mode:          req.Mode,
		Participants:  req.Participants,
	})
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusCreated, "split expense created", result)
}

// FUNC TO LIST THE LOGGED IN USER'S SPLITS
func ListSplitsHandler(w http.ResponseWriter, r *http.Request) {
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

	events, err := splitService().ListSplits(ctx, userID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "split expenses", events)
}

// FUNC TO GET ONE SPLIT WITH ITS SHARES
func GetSplitHandler(w http.ResponseWriter, r *http.Request) {
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

	splitID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	split, shares, err := splitService().GetSplit(ctx, userID, splitID)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "split expense", map[string]interface{}{
		"split":  split,
		"shares": shares,
	})
}

// FUNC TO SETTLE A SPLIT (CASCADES LINKED DEBTS TO PAID)
func SettleSplitHandler(w http.ResponseWriter, r *http.Request) {
	settleOrCancel(w, r, false)
}

// FUNC TO CANCEL A SPLIT (CASCADES LINKED DEBTS TO CANCELLED)
func CancelSplitHandler(w http.ResponseWriter, r *http.Request) {
	settleOrCancel(w, r, true)
}

func settleOrCancel(w http.ResponseWriter, r *http.Request, cancelSplit bool) {
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

	splitID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	result, err := splitService().SettleSplit(ctx, userID, splitID, cancelSplit)
	if err != nil {
		handlers.WriteServiceError(w, err)
		return
	}

	msg := "split expense settled"
	if cancelSplit {
		msg = "split expense cancelled"
	}
	utils.WriteSuccess(w, http.StatusOK, msg, result)
}
