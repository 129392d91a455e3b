package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse{
		Status:  "error",
		Message: message,
	})
}

func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode JSON response", http.StatusInternalServerError)
	}
}

// WriteSuccess wraps data in the standard {status, message, data} envelope.
func WriteSuccess(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	body := map[string]interface{}{
		"status":  "success",
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	WriteJSON(w, statusCode, body)
}
