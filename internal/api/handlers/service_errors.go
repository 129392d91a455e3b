package handlers

import (
	"errors"
	"net/http"

	"pocketsplit/internal/service"
	"pocketsplit/internal/storage"
	"pocketsplit/pkg/utils"
)

// WriteServiceError maps service-layer errors onto HTTP status codes, keeping
// the descriptive message for client errors and hiding internal ones.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrForbidden):
		utils.WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, storage.ErrNotFound):
		utils.WriteError(w, "record not found", http.StatusNotFound)
	case errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrAlreadySettled):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	default:
		utils.Logger.Errorf("internal error: %v", err)
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}
