package auth

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

// FUNC TO REGISTER USERS
func RegisterUsersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := handlers.RequireDB(w)
	if db == nil {
		return
	}

	var newUser models.User
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&newUser); err != nil {
		utils.WriteError(w, "invalid or unexpected fields in body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	newUser.Username = strings.ToLower(strings.TrimSpace(newUser.Username))
	newUser.Email = strings.ToLower(strings.TrimSpace(newUser.Email))
	newUser.Role = "user"
	if newUser.Currency == "" {
		newUser.Currency = "USD"
	}

	if newUser.FirstName == "" || newUser.LastName == "" || newUser.Username == "" || newUser.Email == "" || newUser.Password == "" {
		utils.WriteError(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if !strings.Contains(newUser.Email, "@") {
		utils.WriteError(w, "invalid email address", http.StatusBadRequest)
		return
	}
	if len(newUser.Password) < 8 {
		utils.WriteError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	hashedPwd, err := utils.HashPassword(newUser.Password)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := db.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, username, email, password, role, currency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		newUser.FirstName, newUser.LastName, newUser.Username, newUser.Email, hashedPwd, newUser.Role, newUser.Currency,
		time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteError(w, "email or username already exists", http.StatusConflict)
			return
		}
		utils.Logger.Errorf("failed to insert user: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}

	id, err := res.LastInsertId()
	if err != nil {
		utils.Logger.Errorf("failed to get last insert ID: %v", err)
		utils.WriteError(w, "error signing up", http.StatusInternalServerError)
		return
	}
	newUser.ID = int(id)
	newUser.Password = ""

	go func(email, firstName string) {
		if err := utils.SendWelcomeEmail(email, firstName); err != nil {
			utils.Logger.Errorf("failed to send welcome email to %s: %v", email, err)
		}
	}(newUser.Email, newUser.FirstName)

	utils.WriteSuccess(w, http.StatusCreated, "account created", newUser)
}

// FUNC TO LOG USERS IN
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	db := handlers.RequireDB(w)
	if db == nil {
		return
	}

	type loginRequest struct {
		AccountID string `json:"account_id"`
		Password  string `json:"password"`
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.AccountID == "" || req.Password == "" {
		utils.WriteError(w, "email or username and password are required", http.StatusBadRequest)
		return
	}

	user := &models.User{}
	query := "SELECT id, first_name, last_name, email, username, password, inactive_status, role FROM users WHERE username = ? OR email = ?"
	err := db.QueryRow(query, req.AccountID, req.AccountID).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Username, &user.Password, &user.InactiveStatus, &user.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("database query error: %v", err)
		utils.WriteError(w, "internal error", http.StatusInternalServerError)
		return
	}

	if user.InactiveStatus {
		utils.WriteError(w, "user account is not active", http.StatusForbidden)
		return
	}

	if err := utils.VerifyPassword(req.Password, user.Password); err != nil {
		utils.WriteError(w, "incorrect password or account ID", http.StatusForbidden)
		return
	}

	tokenString, err := utils.SignToken(user.ID, user.Username, user.Role)
	if err != nil {
		utils.Logger.Errorf("could not create login token: %v", err)
		utils.WriteError(w, "error signing in", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "login successful",
		"token":   tokenString,
		"user": map[string]interface{}{
			"id":        user.ID,
			"firstName": user.FirstName,
			"lastName":  user.LastName,
			"email":     user.Email,
			"username":  user.Username,
			"role":      user.Role,
		},
	})
}

// FUNC TO LOG USERS OUT
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		utils.WriteError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "Bearer",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteStrictMode,
	})

	utils.WriteSuccess(w, http.StatusOK, "logged out", nil)
}

// FUNC TO GET THE LOGGED IN USER'S PROFILE
func GetProfileHandler(w http.ResponseWriter, r *http.Request) {
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

	var user models.User
	err := db.QueryRowContext(ctx,
		"SELECT id, first_name, last_name, username, email, role, currency, created_at FROM users WHERE id = ?", userID).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.Role, &user.Currency, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			utils.WriteError(w, "user not found", http.StatusNotFound)
			return
		}
		utils.Logger.Errorf("failed to load profile: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "profile", user)
}

// FUNC TO UPDATE THE LOGGED IN USER'S PROFILE
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
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

	type request struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Currency  string `json:"currency"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.FirstName == "" || req.LastName == "" {
		utils.WriteError(w, "first and last name are required", http.StatusBadRequest)
		return
	}
	if req.Currency != "" && len(req.Currency) != 3 {
		utils.WriteError(w, "currency must be a 3-letter code", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	query := "UPDATE users SET first_name = ?, last_name = ?, updated_at = ? WHERE id = ?"
	args := []interface{}{req.FirstName, req.LastName, time.Now().UTC().Format("2006-01-02 15:04:05"), userID}
	if req.Currency != "" {
		query = "UPDATE users SET first_name = ?, last_name = ?, currency = ?, updated_at = ? WHERE id = ?"
		args = []interface{}{req.FirstName, req.LastName, strings.ToUpper(req.Currency), time.Now().UTC().Format("2006-01-02 15:04:05"), userID}
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		utils.Logger.Errorf("failed to update profile: %v", err)
		utils.WriteError(w, "failed to update profile", http.StatusInternalServerError)
		return
	}

	// Keep the denormalized name on friends' records in sync.
	fullName := req.FirstName + " " + req.LastName
	if _, err := db.ExecContext(ctx, "UPDATE friends SET name = ? WHERE friend_user_id = ?", fullName, userID); err != nil {
		utils.Logger.Warnf("failed to sync friend records for user %d: %v", userID, err)
	}

	utils.WriteSuccess(w, http.StatusOK, "profile updated", nil)
}

// FUNC TO CHANGE THE LOGGED IN USER'S PASSWORD
func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
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
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req request
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if req.CurrentPassword == "" || req.NewPassword == "" {
		utils.WriteError(w, "current and new password are required", http.StatusBadRequest)
		return
	}
	if len(req.NewPassword) < 8 {
		utils.WriteError(w, "password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var current string
	if err := db.QueryRowContext(ctx, "SELECT password FROM users WHERE id = ?", userID).Scan(&current); err != nil {
		utils.WriteError(w, "user not found", http.StatusNotFound)
		return
	}
	if err := utils.VerifyPassword(req.CurrentPassword, current); err != nil {
		utils.WriteError(w, "current password is incorrect", http.StatusForbidden)
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.WriteError(w, "error hashing password", http.StatusInternalServerError)
		return
	}

	if _, err := db.ExecContext(ctx, "UPDATE users SET password = ?, updated_at = ? WHERE id = ?",
		hashed, time.Now().UTC().Format("2006-01-02 15:04:05"), userID); err != nil {
		utils.Logger.Errorf("failed to update password: %v", err)
		utils.WriteError(w, "failed to update password", http.StatusInternalServerError)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, "password updated", nil)
}
