package services

import (
	"context"
	"errors"
	"log/slog"

	"groupchat/internal/core/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users  domain.UserRepository
	tokens *TokenService
	log    *slog.Logger
}

func NewUserService(log *slog.Logger, users domain.UserRepository, tokens *TokenService) *UserService {
	return &UserService{
		log:    log,
		users:  users,
		tokens: tokens,
	}
}

// Register creates the user and returns it together with a fresh access token.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*domain.User, string, error) {
	if email == "" || username == "" || password == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Status:       domain.StatusOffline,
	}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		s.log.ErrorContext(ctx, "user - register - create user failed", "email", email, "err", err)
		return nil, "", err
	}
	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "user - register - issue token failed", "user_id", created.ID, "err", err)
		return nil, "", err
	}
	s.log.InfoContext(ctx, "user - register - success", "user_id", created.ID, "username", username)
	return created, token, nil
}

// Login verifies credentials and returns the user with a fresh access token.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		s.log.ErrorContext(ctx, "user - login - lookup failed", "email", email, "err", err)
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.log.ErrorContext(ctx, "user - login - issue token failed", "user_id", user.ID, "err", err)
		return nil, "", err
	}
	s.log.InfoContext(ctx, "user - login - success", "user_id", user.ID)
	return user, token, nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.log.ErrorContext(ctx, "user - profile - lookup failed", "user_id", userID, "err", err)
		return nil, err
	}
	return user, nil
}
