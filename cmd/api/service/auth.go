package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
	"github.com/noteful/api/common/logger"
)

// AuthClaims is the identity assertion payload: a signed,
// time-bounded token carrying the public user identity
type AuthClaims struct {
	User models.PublicUser `json:"user"`
	jwt.RegisteredClaims
}

// AuthService verifies credentials and issues identity assertions
type AuthService struct {
	users  UserStore
	secret []byte
	expiry time.Duration
	log    *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserStore, secret string, expiry time.Duration, log *logger.Logger) *AuthService {
	return &AuthService{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
		log:    log,
	}
}

// Login verifies the presented credential and returns a signed token.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", apperr.Unauthorized("Incorrect username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperr.Unauthorized("Incorrect username or password")
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("user logged in", "user_id", user.ID, "username", username)
	return token, nil
}

// IssueToken signs an identity assertion for the given user
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := AuthClaims{
		User: user.Public(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
