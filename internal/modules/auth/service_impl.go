package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/georgemunganga/printa-storefront/internal/apiclient"
	"github.com/georgemunganga/printa-storefront/internal/tokenstore"
)

var (
	ErrNoSession    = errors.New("not logged in")
	ErrInvalidToken = errors.New("stored token is not a readable JWT")
)

type service struct {
	api    *apiclient.Client
	tokens tokenstore.Store
	now    func() time.Time
}

// NewService creates an auth service. Tokens are written to the same store
// the API client reads from.
func NewService(api *apiclient.Client) Service {
	return &service{api: api, tokens: api.Tokens(), now: time.Now}
}

func (s *service) Register(ctx context.Context, pgpKey string, isSeller bool) (*User, error) {
	var u User
	if err := s.api.PostJSON(ctx, apiclient.PathRegister, UserCreate{PGPKey: pgpKey, IsSeller: isSeller}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *service) Login(ctx context.Context, pgpKey string) (*AuthResponse, error) {
	var resp AuthResponse
	if err := s.api.PostJSON(ctx, apiclient.PathLogin, LoginRequest{PGPKey: pgpKey}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, errors.New("login response carried no access token")
	}
	if err := s.tokens.SetToken(ctx, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}
	return &resp, nil
}

func (s *service) Logout(ctx context.Context) error {
	return s.tokens.Clear(ctx)
}

func (s *service) Session(ctx context.Context) (*Session, error) {
	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, ErrNoSession
	}
	return parseSession(token, s.now())
}

func parseSession(token string, now time.Time) (*Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sess := &Session{}
	sess.Subject, _ = claims["sub"].(string)
	sess.IsSeller, _ = claims["is_seller"].(bool)

	var exp int64
	switch v := claims["exp"].(type) {
	case float64:
		exp = int64(v)
	case json.Number:
		exp, _ = v.Int64()
	}
	if exp > 0 {
		sess.ExpiresAt = time.Unix(exp, 0).UTC()
		sess.Expired = !now.Before(sess.ExpiresAt)
	}
	return sess, nil
}
