package auth

import "time"

// UserCreate is the register request body.
type UserCreate struct {
	PGPKey   string `json:"pgp_key"`
	IsSeller bool   `json:"is_seller"`
}

type LoginRequest struct {
	PGPKey string `json:"pgp_key"`
}

// User is the account record returned by register.
type User struct {
	ID        string    `json:"id"`
	IsSeller  bool      `json:"is_seller"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Session is what the client can read from its stored access token. The
// signature is not checked; only the server can do that.
type Session struct {
	Subject   string    `json:"subject"`
	IsSeller  bool      `json:"is_seller"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Expired   bool      `json:"expired"`
}
