// Package handlers holds helpers shared by the per-area handler packages.
package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"pocketsplit/internal/repositories/sqlconnect"
	"pocketsplit/pkg/utils"
)

// RequireDB writes a 500 and returns nil if the shared connection is gone.
func RequireDB(w http.ResponseWriter) *sql.DB {
	db := sqlconnect.DB
	if db == nil {
		utils.Logger.Error("DB is not initialized")
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
		return nil
	}
	return db
}

// RequireUser reads the authenticated user ID or writes a 401.
func RequireUser(w http.ResponseWriter, r *http.Request) (int, bool) {
	userID, ok := utils.UserIDFromRequest(r)
	if !ok {
		utils.WriteError(w, "unauthorized", http.StatusUnauthorized)
		return 0, false
	}
	return userID, true
}

// PathID parses the named path value as a positive integer or writes a 400.
func PathID(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		utils.WriteError(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
