package services

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"groupchat/internal/core/domain"
)

// AuthService is the gate every connection passes before the socket joins a
// room. A missing header, wrong scheme, or bad token all resolve to an
// unauthenticated AuthContext, not an error; only an I/O fault talking to
// the identity store surfaces as an error.
type AuthService struct {
	tokens *TokenService
	users  domain.UserRepository
	log    *slog.Logger
}

func NewAuthService(log *slog.Logger, tokens *TokenService, users domain.UserRepository) *AuthService {
	return &AuthService{
		log:    log,
		tokens: tokens,
		users:  users,
	}
}

func (s *AuthService) Authenticate(ctx context.Context, headers http.Header) (domain.AuthContext, error) {
	authHeader := headers.Get("Authorization")
	if authHeader == "" {
		return domain.AuthContext{}, nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return domain.AuthContext{}, nil
	}
	userID, expiresAt, err := s.tokens.Validate(parts[1])
	if err != nil {
		s.log.DebugContext(ctx, "auth - authenticate - token rejected", "err", err)
		return domain.AuthContext{}, nil
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidUserID) {
			s.log.DebugContext(ctx, "auth - authenticate - unknown subject", "user_id", userID)
			return domain.AuthContext{}, nil
		}
		return domain.AuthContext{}, err
	}
	return domain.AuthContext{
		UserID:        user.ID,
		Username:      user.Username,
		Authenticated: true,
		ExpiresAt:     expiresAt,
	}, nil
}
