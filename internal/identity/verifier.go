// Package identity resolves a caller's bearer credential into a user.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/rxlens/catalog/internal/models"
)

var (
	ErrMissingBearer  = errors.New("missing bearer token")
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrNotConfigured means the server lacks identity platform settings.
	// It is an operator error, never the caller's.
	ErrNotConfigured = errors.New("identity platform is not configured")
)

// Verifier checks an Authorization header against the identity platform.
type Verifier interface {
	Verify(ctx context.Context, authorization string) (*models.User, error)
}

// BearerToken extracts the raw token from an Authorization header value.
func BearerToken(authorization string) (string, error) {
	if !strings.HasPrefix(authorization, "Bearer ") {
		return "", ErrMissingBearer
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authorization, "Bearer "))
	if raw == "" {
		return "", ErrMissingBearer
	}
	return raw, nil
}
