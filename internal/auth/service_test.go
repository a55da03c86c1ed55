package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskboard/taskboard-api/internal/logging"
	"github.com/taskboard/taskboard-api/internal/user"
)

// fakeStore is an in-memory user.Store for service tests.
type fakeStore struct {
	users map[uuid.UUID]*user.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]*user.User)}
}

func (s *fakeStore) Create(ctx context.Context, u *user.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	email = strings.ToLower(email)
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (s *fakeStore) Save(ctx context.Context, u *user.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && existing.Email == u.Email {
			return user.ErrDuplicateEmail
		}
	}
	u.UpdatedAt = time.Now()
	clone := *u
	s.users[u.ID] = &clone
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return user.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)

	svc := NewService(store, NewHasher(4), tokens, logging.NewLogger(true), time.Hour)
	return svc, store
}

func TestService_Signup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Signup(ctx, "Alice", "Alice@Example.COM", "secret123")
	require.NoError(t, err)
	require.NotNil(t, u)
	require.NotEmpty(t, token)

	// email is stored lowercase
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, user.DefaultSettings(), u.Settings)
	assert.Empty(t, u.Tasks)

	// password is stored hashed, never in the clear
	stored, err := store.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	// same email, different case
	_, _, err = svc.Signup(ctx, "Other Alice", "ALICE@example.com", "different456")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestService_Login(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestService_Login_WrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc, _ := newTestService(t)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "secret123")

	// unknown email and wrong password are indistinguishable to the caller
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_TokenRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Signup(ctx, "Alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	tokens, err := NewJWTService([]byte("test-secret"))
	require.NoError(t, err)

	got, err := tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got)
}
