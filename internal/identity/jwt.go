package identity

import (
	"context"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rxlens/catalog/internal/models"
)

type supabaseClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"` // usually "authenticated" / "anon"
}

// JWTVerifier validates Supabase access tokens locally with the project's
// HS256 JWT secret, without a round trip to the auth server.
type JWTVerifier struct {
	secret   []byte
	issuer   string // optional
	audience string // optional
}

func NewJWTVerifier(secret, issuer, audience string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

func (v *JWTVerifier) Verify(_ context.Context, authorization string) (*models.User, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: SUPABASE_JWT_SECRET is not set", ErrNotConfigured)
	}
	raw, err := BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	claims := &supabaseClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("%w: issuer mismatch", ErrInvalidSession)
	}
	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidSession)
	}

	userID := claims.Subject // Supabase user UUID is in "sub"
	if userID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}
	return &models.User{ID: userID, Email: claims.Email, Role: claims.Role}, nil
}
