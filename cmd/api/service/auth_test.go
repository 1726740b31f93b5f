package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noteful/api/cmd/api/models"
	"github.com/noteful/api/common/apperr"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.Username]; ok {
		return apperr.DuplicateName("The username already exists")
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, apperr.NotFound("The user does not exist")
	}
	return user, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, apperr.NotFound("The user does not exist")
}

const testSecret = "test-signing-secret"

func newAuthFixture(t *testing.T) (*AuthService, *models.User) {
	t.Helper()
	digest, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Username:     "alice",
		PasswordHash: string(digest),
	}
	store := &fakeUserStore{users: map[string]*models.User{"alice": user}}
	return NewAuthService(store, testSecret, time.Hour, testLogger()), user
}

func TestLogin_Success(t *testing.T) {
	svc, user := newAuthFixture(t)

	tokenString, err := svc.Login(context.Background(), "alice", "correct horse")
	require.NoError(t, err)

	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)
	assert.Equal(t, user.ID, claims.User.ID)
	assert.Equal(t, "alice", claims.User.Username)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "Incorrect username or password", err.Error())
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, _ := newAuthFixture(t)

	// Same message as a wrong password: usernames are not probeable
	_, err := svc.Login(context.Background(), "mallory", "correct horse")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "Incorrect username or password", err.Error())
}

func TestRegister_HashesPassword(t *testing.T) {
	store := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewUserService(store, testLogger())

	public, err := svc.Register(context.Background(), "bob", "hunter2hunter2", nil)
	require.NoError(t, err)
	assert.Equal(t, "bob", public.Username)
	assert.NotEqual(t, uuid.Nil, public.ID)

	stored := store.users["bob"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	store := &fakeUserStore{users: map[string]*models.User{}}
	svc := NewUserService(store, testLogger())

	_, err := svc.Register(context.Background(), "bob", "hunter2hunter2", nil)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "bob", "hunter2hunter2", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicateName, apperr.KindOf(err))
	assert.Equal(t, "The username already exists", err.Error())
}
