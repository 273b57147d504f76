package model

import "time"

// AccountUser is the remote account as returned by the auth backend.
type AccountUser struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// FullName reads the full_name metadata written at sign-up.
func (u AccountUser) FullName() string {
	if u.Metadata == nil {
		return ""
	}
	name, _ := u.Metadata["full_name"].(string)
	return name
}

// Session is an authenticated backend session.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	User         AccountUser
}

// AuthResult is the outcome of sign-up or sign-in; Session is nil when the
// backend still waits for e-mail confirmation.
type AuthResult struct {
	User    AccountUser
	Session *Session
}

// Profile is the row written to the remote profiles table after sign-up.
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age"`
	Gender    string `json:"gender"`
}

// LocalAccount mirrors the account keys kept in local persistence.
type LocalAccount struct {
	Name         string
	Email        string
	LoggedIn     bool
	RegisteredAt time.Time
}
