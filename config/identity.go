package config

import "strings"

const (
	IdentityModeSupabase = "supabase"
	IdentityModeJWT      = "jwt"
)

// Identity describes how caller sessions are verified and how admin
// grants are gated.
type Identity struct {
	Mode string // supabase | jwt

	SupabaseURL     string
	SupabaseAnonKey string

	JWTSecret   string
	JWTIssuer   string // optional
	JWTAudience string // optional

	// AdminGrantToken is the bootstrap secret. Never log it.
	AdminGrantToken string
}

func LoadIdentity() Identity {
	mode := strings.ToLower(firstEnv("IDENTITY_MODE"))
	if mode != IdentityModeJWT {
		mode = IdentityModeSupabase
	}
	return Identity{
		Mode:            mode,
		SupabaseURL:     strings.TrimRight(firstEnv("SUPABASE_URL"), "/"),
		SupabaseAnonKey: firstEnv("SUPABASE_ANON_KEY"),
		JWTSecret:       firstEnv("SUPABASE_JWT_SECRET"),
		JWTIssuer:       firstEnv("SUPABASE_JWT_ISSUER"),
		JWTAudience:     firstEnv("SUPABASE_JWT_AUDIENCE"),
		AdminGrantToken: secretEnv("ADMIN_GRANT_TOKEN"),
	}
}

// Missing lists the identity platform variables the selected mode needs
// but that are unset. The bootstrap secret is reported separately.
func (c Identity) Missing() []string {
	var out []string
	if c.Mode == IdentityModeJWT {
		if c.JWTSecret == "" {
			out = append(out, "SUPABASE_JWT_SECRET")
		}
		return out
	}
	if c.SupabaseURL == "" {
		out = append(out, "SUPABASE_URL")
	}
	if c.SupabaseAnonKey == "" {
		out = append(out, "SUPABASE_ANON_KEY")
	}
	return out
}
