package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rxlens/catalog/internal/models"
)

// SupabaseVerifier asks GoTrue who owns the session (GET /auth/v1/user).
// This is the same lookup the hosted client performs in auth.getUser().
type SupabaseVerifier struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewSupabaseVerifier(baseURL, anonKey string, client *http.Client) *SupabaseVerifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SupabaseVerifier{baseURL: baseURL, anonKey: anonKey, client: client}
}

type gotrueUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (v *SupabaseVerifier) Verify(ctx context.Context, authorization string) (*models.User, error) {
	if v.baseURL == "" || v.anonKey == "" {
		return nil, fmt.Errorf("%w: SUPABASE_URL or SUPABASE_ANON_KEY is not set", ErrNotConfigured)
	}
	if _, err := BearerToken(authorization); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", v.anonKey)
	req.Header.Set("Authorization", authorization)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: auth status %d", ErrInvalidSession, resp.StatusCode)
	}

	var u gotrueUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return nil, fmt.Errorf("decode auth user: %w", err)
	}
	if u.ID == "" {
		return nil, ErrInvalidSession
	}
	return &models.User{ID: u.ID, Email: u.Email, Role: u.Role}, nil
}
