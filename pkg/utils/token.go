package utils

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignToken issues an HS256 JWT carrying the user identity. Expiry defaults
// to 24h; JWT_EXP_HOURS overrides it.
func SignToken(userID int, username, role string) (string, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", errors.New("JWT_SECRET is not set")
	}

	exp := 24 * time.Hour
	if v := os.Getenv("JWT_EXP_HOURS"); v != "" {
		if d, err := time.ParseDuration(v + "h"); err == nil {
			exp = d
		}
	}

	claims := jwt.MapClaims{
		"uid":  userID,
		"user": username,
		"role": role,
		"exp":  time.Now().Add(exp).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
