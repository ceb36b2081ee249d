package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"groupchat/internal/core/domain"
	"groupchat/internal/core/services"
	"groupchat/internal/platform/logger"
	"groupchat/pkg/middleware"
)

type AccountHandler struct {
	userSvc *services.UserService
}

func NewAccountHandler(u *services.UserService) *AccountHandler {
	return &AccountHandler{userSvc: u}
}

// Register creates an account and returns an access token.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "account handler - register - bad request")
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, token, err := h.userSvc.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			http.Error(w, "email, username and password are required", http.StatusBadRequest)
		case errors.Is(err, domain.ErrUserAlreadyExists):
			http.Error(w, "a user with this email/username already exists", http.StatusBadRequest)
		default:
			log.ErrorContext(r.Context(), "account handler - register failed", "email", req.Email, "err", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"access":  token,
		"user_id": user.ID,
	})
}

// Login verifies credentials and returns an access token.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.ErrorContext(r.Context(), "account handler - login - bad request")
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	user, token, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			http.Error(w, "invalid email or password", http.StatusUnauthorized)
			return
		}
		log.ErrorContext(r.Context(), "account handler - login failed", "email", req.Email, "err", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"access":  token,
		"user_id": user.ID,
	})
}

// WhoAmI returns the authenticated user's profile.
func (h *AccountHandler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	authCtx, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	user, err := h.userSvc.Profile(r.Context(), authCtx.UserID)
	if err != nil {
		log.ErrorContext(r.Context(), "account handler - whoami failed", "user_id", authCtx.UserID, "err", err)
		http.Error(w, "profile lookup failed", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"username": user.Username,
		"status":   user.Status,
	})
}
