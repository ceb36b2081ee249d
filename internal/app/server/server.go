package server

import (
	"log/slog"
	"net/http"
	"time"

	"groupchat/internal/app/server/handlers"
	"groupchat/internal/core/services"
	"groupchat/pkg/middleware"
)

type Server struct {
	mux            *http.ServeMux
	log            *slog.Logger
	name           string
	addr           string
	accountHandler *handlers.AccountHandler
	chatHandler    *handlers.ChatHandler
	wsHandler      *handlers.WSHandler
	authSvc        *services.AuthService
}

func NewServer(
	log *slog.Logger,
	name string,
	addr string,
	room string,
	userSvc *services.UserService,
	authSvc *services.AuthService,
	chatSvc *services.ChatService,
) *Server {
	s := &Server{
		mux:            http.NewServeMux(),
		log:            log,
		name:           name,
		addr:           addr,
		accountHandler: handlers.NewAccountHandler(userSvc),
		chatHandler:    handlers.NewChatHandler(chatSvc, room),
		wsHandler:      handlers.NewWSHandler(authSvc, chatSvc, room),
		authSvc:        authSvc,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	auth := middleware.AuthMiddleware(s.authSvc)

	// Public routes
	s.mux.HandleFunc("POST /accounts/v1/register", s.accountHandler.Register)
	s.mux.HandleFunc("POST /accounts/v1/login", s.accountHandler.Login)

	// Protected routes
	s.mux.Handle("GET /accounts/v1/whoami", auth(http.HandlerFunc(s.accountHandler.WhoAmI)))
	s.mux.Handle("GET /chat/v1/history", auth(http.HandlerFunc(s.chatHandler.History)))
	s.mux.Handle("GET /chat/v1/presence", auth(http.HandlerFunc(s.chatHandler.Presence)))

	// The WebSocket route authenticates inside the handler so a rejected
	// handshake closes with policy code 4001 instead of an HTTP status.
	s.mux.HandleFunc("/ws/chat", s.wsHandler.Handler)
}

// Handler returns the fully wrapped route tree.
func (s *Server) Handler() http.Handler {
	return middleware.RequestLogger(s.log)(middleware.TracerMiddleware(s.name)(s.mux))
}

func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	s.log.Info("server starting", "addr", s.addr)
	return server.ListenAndServe()
}
