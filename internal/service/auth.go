package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PaulBabatuyi/FileVault-API/internal/crypto"
	"github.com/PaulBabatuyi/FileVault-API/internal/database"
)

// Session keys are namespaced so the cache can host other state later.
const sessionPrefix = "auth_"

// AuthService resolves bearer tokens to identities and mints new sessions.
type AuthService struct {
	db       Database
	sessions Sessions
	ttl      time.Duration
}

func NewAuthService(db Database, sessions Sessions, ttl time.Duration) *AuthService {
	return &AuthService{db: db, sessions: sessions, ttl: ttl}
}

// Login verifies basic credentials and mints a fresh token with the
// configured TTL. Wrong password and unknown email are indistinguishable.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.db.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return "", ErrUnauthenticated
	}
	if err != nil {
		return "", fmt.Errorf("login lookup: %w", err)
	}

	if !crypto.VerifyPassword([]byte(password), u.Salt, u.PasswordHash) {
		return "", ErrUnauthenticated
	}

	token := uuid.New().String()
	if err := s.sessions.Set(ctx, sessionPrefix+token, u.ID.Hex(), s.ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// Logout deletes the session behind token. An unknown token is an
// authentication failure, not a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	key := sessionPrefix + token
	_, ok, err := s.sessions.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("session lookup: %w", err)
	}
	if !ok {
		return ErrUnauthenticated
	}
	return s.sessions.Del(ctx, key)
}

// UserFromToken resolves a bearer token to its user record.
func (s *AuthService) UserFromToken(ctx context.Context, token string) (*database.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	val, ok, err := s.sessions.Get(ctx, sessionPrefix+token)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !ok {
		return nil, ErrUnauthenticated
	}

	userID, valid := database.ParseObjectID(val)
	if !valid {
		return nil, ErrUnauthenticated
	}

	u, err := s.db.GetUserByID(ctx, userID)
	if errors.Is(err, database.ErrNotFound) {
		// Session outlived the account.
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("user lookup: %w", err)
	}
	return u, nil
}
