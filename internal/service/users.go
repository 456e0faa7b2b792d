package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/crypto"
	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/queue"
)

// UserService handles registration.
type UserService struct {
	db     Database
	queue  Queue
	logger *zap.Logger
}

func NewUserService(db Database, q Queue, logger *zap.Logger) *UserService {
	return &UserService{db: db, queue: q, logger: logger}
}

// Register creates a user and enqueues the welcome job. Email uniqueness is
// check-then-insert backed by the store's unique index; the index turns the
// race window into ErrEmailTaken as well.
func (s *UserService) Register(ctx context.Context, email, password string) (*database.User, error) {
	if email == "" {
		return nil, validationErr("Missing email")
	}
	if password == "" {
		return nil, validationErr("Missing password")
	}

	if _, err := s.db.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("email check: %w", err)
	}

	salt, err := crypto.RandBytes(crypto.SaltLen)
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	u := &database.User{
		Email:        email,
		PasswordHash: crypto.HashPassword([]byte(password), salt),
		Salt:         salt,
	}

	id, err := s.db.CreateUser(ctx, u)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	u.ID = id

	// Post-commit step: a queue outage must not fail registration.
	job := queue.WelcomeJob{UserID: id.Hex()}
	if err := s.queue.Enqueue(ctx, queue.UserQueue, job); err != nil {
		s.logger.Warn("failed to enqueue welcome job",
			zap.String("user_id", id.Hex()),
			zap.Error(err),
		)
	}

	return u, nil
}
