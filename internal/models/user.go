package models

// User is the caller identity resolved from the identity platform.
type User struct {
	ID    string `json:"id"` // uuid
	Email string `json:"email"`
	Role  string `json:"role"` // platform role, usually "authenticated"
}
