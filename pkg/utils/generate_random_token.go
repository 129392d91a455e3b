package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomToken returns a hex token of 2n characters, used for friend
// invitation links.
func GenerateRandomToken(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		Logger.Errorf("failed to read random bytes: %v", err)
		return ""
	}
	return hex.EncodeToString(bytes)
}
