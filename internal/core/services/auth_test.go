package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"groupchat/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users    map[string]*domain.User
	byEmail  map[string]*domain.User
	statuses map[string][]string
	failWith error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    make(map[string]*domain.User),
		byEmail:  make(map[string]*domain.User),
		statuses: make(map[string][]string),
	}
}

func (r *fakeUserRepo) add(u *domain.User) {
	r.users[u.ID] = u
	r.byEmail[u.Email] = u
}

func (r *fakeUserRepo) CreateUser(_ context.Context, u *domain.User) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, domain.ErrUserAlreadyExists
	}
	u.CreatedAt = time.Now()
	r.add(u)
	return u, nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id string) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) SetStatus(_ context.Context, id string, status string) error {
	if r.failWith != nil {
		return r.failWith
	}
	r.statuses[id] = append(r.statuses[id], status)
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *TokenService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens := NewTokenService("test-secret")
	return NewAuthService(slog.Default(), tokens, repo), tokens, repo
}

func TestAuthenticateMissingHeader(t *testing.T) {
	auth, _, _ := newAuthFixture(t)

	authCtx, err := auth.Authenticate(context.Background(), http.Header{})

	require.NoError(t, err)
	assert.False(t, authCtx.Authenticated)
}

func TestAuthenticateWrongScheme(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	headers := http.Header{}
	headers.Set("Authorization", "Basic dXNlcjpwYXNz")

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.NoError(t, err)
	assert.False(t, authCtx.Authenticated)
}

func TestAuthenticateGarbageToken(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer not-a-jwt")

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.NoError(t, err)
	assert.False(t, authCtx.Authenticated)
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	auth, tokens, _ := newAuthFixture(t)
	token, err := tokens.Issue("ghost-user")
	require.NoError(t, err)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.NoError(t, err)
	assert.False(t, authCtx.Authenticated)
}

func TestAuthenticateWrongSecret(t *testing.T) {
	auth, _, repo := newAuthFixture(t)
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", Username: "alice"})
	otherIssuer := NewTokenService("different-secret")
	token, err := otherIssuer.Issue("u1")
	require.NoError(t, err)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.NoError(t, err)
	assert.False(t, authCtx.Authenticated)
}

func TestAuthenticateValidToken(t *testing.T) {
	auth, tokens, repo := newAuthFixture(t)
	repo.add(&domain.User{ID: "u1", Email: "a@b.c", Username: "alice"})
	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.NoError(t, err)
	assert.True(t, authCtx.Authenticated)
	assert.Equal(t, "u1", authCtx.UserID)
	assert.Equal(t, "alice", authCtx.Username)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), authCtx.ExpiresAt, time.Minute)
}

func TestAuthenticateIdentityStoreFault(t *testing.T) {
	auth, tokens, repo := newAuthFixture(t)
	repo.failWith = errors.New("connection refused")
	token, err := tokens.Issue("u1")
	require.NoError(t, err)
	headers := http.Header{}
	headers.Set("Authorization", "Bearer "+token)

	authCtx, err := auth.Authenticate(context.Background(), headers)

	require.Error(t, err)
	assert.False(t, authCtx.Authenticated)
}
