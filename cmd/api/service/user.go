package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/logger"
)

// UserStore is the persistence contract the user service needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// UserService handles registration
type UserService struct {
	repo UserStore
	log  *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(repo UserStore, log *logger.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// Register creates a new account. The password is hashed before it
// reaches the store; the returned projection never carries the
// credential.
func (s *UserService) Register(ctx context.Context, username, password string, fullname *string) (models.PublicUser, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(digest),
		Fullname:     fullname,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return models.PublicUser{}, err
	}

	s.log.Info("registered user", "user_id", user.ID, "username", username)
	return user.Public(), nil
}
