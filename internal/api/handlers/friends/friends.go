package friends

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"pocketsplit/internal/api/handlers"
	"pocketsplit/internal/models"
	"pocketsplit/pkg/utils"
)

const timeFormat = "2006-01-02 15:04:05"

// FUNC TO SEND A FRIEND REQUEST
func RequestFriendHandler(w http.ResponseWriter, r *http.Request) {
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
		Email string `json:"email"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		utils.WriteError(w, "a valid email is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var me models.User
	err := db.QueryRowContext(ctx, "SELECT id, first_name, last_name, email FROM users WHERE id = ?", userID).
		Scan(&me.ID, &me.FirstName, &me.LastName, &me.Email)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if req.Email == me.Email {
		utils.WriteError(w, "you cannot add yourself", http.StatusBadRequest)
		return
	}

	// Already connected?
	var existing int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM friends f JOIN users u ON f.friend_user_id = u.id
		 WHERE f.user_id = ? AND u.email = ? AND f.status = ?`,
		userID, req.Email, models.FriendStatusActive).Scan(&existing)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if existing > 0 {
		utils.WriteError(w, "you are already connected to this user", http.StatusConflict)
		return
	}

	var pending int
	err = db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM friend_requests WHERE from_user = ? AND to_email = ? AND status = 'pending'",
		userID, req.Email).Scan(&pending)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if pending > 0 {
		utils.WriteError(w, "a request to this email is already pending", http.StatusConflict)
		return
	}

	token := utils.GenerateRandomToken(16)
	if token == "" {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO friend_requests (from_user, to_email, token, status, created_at) VALUES (?, ?, ?, 'pending', ?)",
		userID, req.Email, token, time.Now().UTC().Format(timeFormat))
	if err != nil {
		utils.Logger.Errorf("failed to insert friend request: %v", err)
		utils.WriteError(w, "failed to create friend request", http.StatusInternalServerError)
		return
	}

	inviterName := me.FirstName + " " + me.LastName

	// Registered recipients also get an in-app notification.
	var targetID int
	err = db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", req.Email).Scan(&targetID)
	if err == nil {
		_, nerr := db.ExecContext(ctx,
			`INSERT INTO notifications (recipient_id, sender_id, type, title, body, is_read, related_kind, created_at)
			 VALUES (?, ?, 'friend_request', 'New friend request', ?, FALSE, '', ?)`,
			targetID, userID, inviterName+" wants to split expenses with you.", time.Now().UTC().Format(timeFormat))
		if nerr != nil {
			utils.Logger.Errorf("failed to notify user %d about friend request: %v", targetID, nerr)
		}
	} else if err != sql.ErrNoRows {
		utils.Logger.Errorf("failed to look up invitee: %v", err)
	}

	go func(email, inviter, token string) {
		if err := utils.SendFriendInviteEmail(email, inviter, token); err != nil {
			utils.Logger.Errorf("failed to send friend invite to %s: %v", email, err)
		}
	}(req.Email, inviterName, token)

	utils.WriteSuccess(w, http.StatusCreated, "friend request sent", map[string]interface{}{"token": token})
}

// FUNC TO ACCEPT A FRIEND REQUEST
func AcceptFriendHandler(w http.ResponseWriter, r *http.Request) {
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

	token := r.PathValue("token")
	if token == "" {
		utils.WriteError(w, "invalid token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var fr models.FriendRequest
	err := db.QueryRowContext(ctx,
		"SELECT id, from_user, to_email, status FROM friend_requests WHERE token = ?", token).
		Scan(&fr.ID, &fr.FromUser, &fr.ToEmail, &fr.Status)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "friend request not found", http.StatusNotFound)
			return
		}
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if fr.Status != "pending" {
		utils.WriteError(w, "friend request is no longer pending", http.StatusConflict)
		return
	}

	var me models.User
	err = db.QueryRowContext(ctx, "SELECT id, first_name, last_name, email FROM users WHERE id = ?", userID).
		Scan(&me.ID, &me.FirstName, &me.LastName, &me.Email)
	if err != nil {
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if me.Email != fr.ToEmail {
		utils.WriteError(w, "this invitation was not addressed to you", http.StatusForbidden)
		return
	}
	if fr.FromUser == userID {
		utils.WriteError(w, "you cannot accept your own request", http.StatusBadRequest)
		return
	}

	var inviter models.User
	err = db.QueryRowContext(ctx, "SELECT id, first_name, last_name, email FROM users WHERE id = ?", fr.FromUser).
		Scan(&inviter.ID, &inviter.FirstName, &inviter.LastName, &inviter.Email)
	if err != nil {
		utils.WriteError(w, "inviter account no longer exists", http.StatusNotFound)
		return
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		utils.Logger.Errorf("failed to start transaction: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC().Format(timeFormat)
	if err := upsertFriend(ctx, tx, inviter.ID, me.ID, me.FirstName+" "+me.LastName, me.Email, now); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create friend record: %v", err)
		utils.WriteError(w, "failed to accept friend request", http.StatusInternalServerError)
		return
	}
	if err := upsertFriend(ctx, tx, me.ID, inviter.ID, inviter.FirstName+" "+inviter.LastName, inviter.Email, now); err != nil {
		tx.Rollback()
		utils.Logger.Errorf("failed to create friend record: %v", err)
		utils.WriteError(w, "failed to accept friend request", http.StatusInternalServerError)
		return
	}
	if _, err := tx.ExecContext(ctx, "UPDATE friend_requests SET status = 'accepted' WHERE id = ?", fr.ID); err != nil {
		tx.Rollback()
		utils.WriteError(w, "failed to accept friend request", http.StatusInternalServerError)
		return
	}
	if err := tx.Commit(); err != nil {
		utils.WriteError(w, "failed to accept friend request", http.StatusInternalServerError)
		return
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO notifications (recipient_id, sender_id, type, title, body, is_read, related_kind, created_at)
		 VALUES (?, ?, 'friend_accepted', 'Friend request accepted', ?, FALSE, '', ?)`,
		inviter.ID, me.ID, me.FirstName+" "+me.LastName+" accepted your friend request.", now)
	if err != nil {
		utils.Logger.Errorf("failed to notify inviter %d: %v", inviter.ID, err)
	}

	utils.WriteSuccess(w, http.StatusOK, "friend request accepted", nil)
}

// upsertFriend reactivates an existing link or inserts a fresh one, keeping
// at most one active record per (owner, target) pair.
func upsertFriend(ctx context.Context, tx *sql.Tx, ownerID, targetID int, name, email, now string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE friends SET status = ?, name = ?, email = ?, updated_at = ? WHERE user_id = ? AND friend_user_id = ?",
		models.FriendStatusActive, name, email, now, ownerID, targetID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO friends (user_id, friend_user_id, name, email, status, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		ownerID, targetID, name, email, models.FriendStatusActive, now)
	return err
}

// FUNC TO LIST THE LOGGED IN USER'S FRIENDS
func ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
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

	rows, err := db.QueryContext(ctx,
		"SELECT id, user_id, friend_user_id, name, email, status, created_at FROM friends WHERE user_id = ? AND status = ? ORDER BY name",
		userID, models.FriendStatusActive)
	if err != nil {
		utils.Logger.Errorf("failed to list friends: %v", err)
		utils.WriteError(w, "failed to retrieve friends", http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	var friends []models.Friend
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(&f.ID, &f.UserID, &f.FriendUserID, &f.Name, &f.Email, &f.Status, &f.CreatedAt); err != nil {
			utils.Logger.Errorf("error reading friends: %v", err)
			utils.WriteError(w, "error reading friends", http.StatusInternalServerError)
			return
		}
		friends = append(friends, f)
	}

	utils.WriteSuccess(w, http.StatusOK, "friends", friends)
}

// FUNC TO REMOVE A FRIEND (SOFT)
func RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
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

	friendID, ok := handlers.PathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"UPDATE friends SET status = ?, updated_at = ? WHERE id = ? AND user_id = ? AND status = ?",
		models.FriendStatusInactive, time.Now().UTC().Format(timeFormat), friendID, userID, models.FriendStatusActive)
	if err != nil {
		utils.Logger.Errorf("failed to remove friend: %v", err)
		utils.WriteError(w, "failed to remove friend", http.StatusInternalServerError)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		utils.WriteError(w, "friend not found", http.StatusNotFound)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "friend removed", nil)
}
