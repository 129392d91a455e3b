package utils

import "net/http"

type ContextKey string

// UserIDFromRequest reads the authenticated user ID placed in the request
// context by the JWT middleware. ok is false on unauthenticated requests.
func UserIDFromRequest(r *http.Request) (int, bool) {
	idFloat, ok := r.Context().Value(ContextKey("userId")).(float64)
	if !ok {
		return 0, false
	}
	return int(idFloat), true
}
