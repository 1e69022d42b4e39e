package auth

import "context"

// Service defines the seller's authentication operations against the
// marketplace API and the local credential slot.
type Service interface {
	Register(ctx context.Context, pgpKey string, isSeller bool) (*User, error)
	// Login exchanges a PGP key for an access token and stores the token.
	Login(ctx context.Context, pgpKey string) (*AuthResponse, error)
	// Logout clears the stored token. It makes no network call.
	Logout(ctx context.Context) error
	// Session decodes the stored token's claims.
	Session(ctx context.Context) (*Session, error)
}
