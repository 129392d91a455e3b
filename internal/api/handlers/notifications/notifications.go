package notifications

import (
	"context"
	"net/http"
	"time"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	"pocketsplit/internal/storage/mysql"
	"pocketsplit/pkg/utils"
)

// FUNC TO LIST THE LOGGED IN USER'S NOTIFICATIONS
func ListNotificationsHandler(w http.ResponseWriter, r *http.Request) {
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

	query := `
		SELECT id, recipient_id, sender_id, type, title, body, is_read, read_at, related_kind, related_id, created_at
		FROM notifications
		WHERE recipient_id = ?`
	args := []interface{}{userID}

	if r.URL.Query().Get("unread") == "true" {
		query += " AND is_read = FALSE"
	}

	page, limit := utils.GetPaginationParams(r)
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, (page-1)*limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		utils.Logger.Errorf("error fetching notifications: %v", err)
		utils.WriteError(w, "error fetching notifications", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	notifs := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		err = rows.Scan(&n.ID, &n.RecipientID, &n.SenderID, &n.Type, &n.Title, &n.Body, &n.IsRead, &n.ReadAt, &n.RelatedKind, &n.RelatedID, &n.CreatedAt)
		if err != nil {
			utils.Logger.Errorf("error scanning notification: %v", err)
			utils.WriteError(w, "error fetching notifications", http.StatusInternalServerError)
			return
		}
		notifs = append(notifs, n)
	}

	var unread int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = FALSE", userID).Scan(&unread)
	if err != nil {
		utils.Logger.Errorf("error counting unread notifications: %v", err)
	}

	response := struct {
		Status      string                `json:"status"`
		Count       int                   `json:"count"`
		UnreadCount int                   `json:"unread_count"`
		Page        int                   `json:"page"`
		PageSize    int                   `json:"page_size"`
		Data        []models.Notification `json:"data"`
	}{
		Status:      "success",
		Count:       len(notifs),
		UnreadCount: unread,
		Page:        page,
		PageSize:    limit,
		Data:        notifs,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// FUNC TO MARK ONE NOTIFICATION AS READ
func MarkReadHandler(w http.ResponseWriter, r *http.Request) {
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

	notifID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE, read_at = ? WHERE id = ? AND recipient_id = ? AND is_read = FALSE",
		mysql.Now(), notifID, userID,
	)
	if err != nil {
		utils.Logger.Errorf("error marking notification read: %v", err)
		utils.WriteError(w, "error marking notification read", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		utils.WriteError(w, "notification not found or already read", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "notification marked as read", nil)
}

// FUNC TO MARK ALL NOTIFICATIONS AS READ
func MarkAllReadHandler(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"UPDATE notifications SET is_read = TRUE, read_at = ? WHERE recipient_id = ? AND is_read = FALSE",
		mysql.Now(), userID,
	)
	if err != nil {
		utils.Logger.Errorf("error marking notifications read: %v", err)
		utils.WriteError(w, "error marking notifications read", http.StatusInternalServerError)
		return
	}

	affected, _ := res.RowsAffected()

	response := struct {
		Marked int64 `json:"marked"`
	}{Marked: affected}

	utils.WriteSuccess(w, http.StatusOK, "all notifications marked as read", response)
}
