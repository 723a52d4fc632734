package mock

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
)

// generateCode returns a random opaque value with the given prefix.
// Panics if crypto/rand fails, which should never happen in practice.
func generateCode(prefix string) string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Errorf("crypto/rand failed: %w", err))
	}
	return prefix + "_" + base64.RawURLEncoding.EncodeToString(b)
}

// ExtractBearerToken extracts a bearer token from an Authorization header
func ExtractBearerToken(authHeader string) string {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}
