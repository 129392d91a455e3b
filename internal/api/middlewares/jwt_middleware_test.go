package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pocketsplit/pkg/utils"
)

func identityEcho(t *testing.T, gotID *int, gotOK *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotID, *gotOK = utils.UserIDFromRequest(r)
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTMiddlewareInjectsIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.SignToken(42, "ama", "user")
	require.NoError(t, err)

	var gotID int
	var gotOK bool
	handler := JWTMiddleware(identityEcho(t, &gotID, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/debts/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK)
	assert.Equal(t, 42, gotID)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotID int
	var gotOK bool
	handler := JWTMiddleware(identityEcho(t, &gotID, &gotOK))

	req := httptest.NewRequest(http.MethodGet, "/debts/list", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, gotOK)
}

// The friend-accept path needs the caller's identity to bind the accepted
// request to an account, so it must go through the JWT middleware like every
// other authenticated route.
func TestFriendAcceptPathKeepsAuthenticatedIdentity(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.SignToken(7, "kofi", "user")
	require.NoError(t, err)

	var gotID int
	var gotOK bool
	wrap := MiddlewaresExcludePaths(JWTMiddleware, "/users/signup", "/users/login")
	handler := wrap(identityEcho(t, &gotID, &gotOK))

	req := httptest.NewRequest(http.MethodPost, "/friends/accept/sometoken", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotOK, "accept handler must see the authenticated identity")
	assert.Equal(t, 7, gotID)
}

func TestMiddlewaresExcludePathsSkipsPublicRoutes(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	var gotID int
	var gotOK bool
	wrap := MiddlewaresExcludePaths(JWTMiddleware, "/users/signup", "/users/login")
	handler := wrap(identityEcho(t, &gotID, &gotOK))

	// No token at all: public paths pass straight through.
	req := httptest.NewRequest(http.MethodPost, "/users/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, gotOK, "public routes carry no identity")
}
