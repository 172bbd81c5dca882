package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"chatwire/internal/attachments"
	"chatwire/internal/auth"
	"chatwire/internal/config"
	"chatwire/internal/handlers"
	"chatwire/internal/middleware"
	"chatwire/internal/service"
	"chatwire/internal/store/sqlstore"
	"chatwire/internal/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlstore.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		slog.Error("connect database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	attachmentStore := attachments.NewStore(cfg.AttachmentDir, cfg.BaseURL)

	hub := ws.NewHub(slog.With("component", "ws"))
	go hub.Run()

	membership := service.NewMembershipService(store, slog.With("component", "membership"))
	messages := service.NewMessageService(store, attachmentStore, hub, slog.With("component", "messages"))

	authHandler := &handlers.AuthHandler{Store: store, Tokens: tokens}
	chatroomHandler := &handlers.ChatroomHandler{Service: membership}
	messageHandler := &handlers.MessageHandler{
		Service:    messages,
		Log:        slog.With("component", "messages"),
		Production: cfg.Production(),
	}

	requireAuth := middleware.AuthMiddleware(tokens)

	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(slog.With("component", "http")))

	// Public endpoints
	r.HandleFunc("/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")

	// Authenticated API
	r.Handle("/logout", requireAuth(http.HandlerFunc(authHandler.Logout))).Methods("POST")
	r.Handle("/user", requireAuth(http.HandlerFunc(authHandler.Me))).Methods("GET")
	r.Handle("/chatrooms", requireAuth(http.HandlerFunc(chatroomHandler.CreateChatroom))).Methods("POST")
	r.Handle("/chatrooms", requireAuth(http.HandlerFunc(chatroomHandler.ListChatrooms))).Methods("GET")
	r.Handle("/chatrooms/{id}/join", requireAuth(http.HandlerFunc(chatroomHandler.JoinChatroom))).Methods("POST")
	r.Handle("/chatrooms/{id}/leave", requireAuth(http.HandlerFunc(chatroomHandler.LeaveChatroom))).Methods("POST")
	r.Handle("/messages", requireAuth(http.HandlerFunc(messageHandler.SendMessage))).Methods("POST")
	r.Handle("/chatrooms/{id}/messages", requireAuth(http.HandlerFunc(messageHandler.ListMessages))).Methods("GET")

	// WebSocket endpoint. Browsers cannot set headers on WebSocket
	// dials, so the token travels as a query parameter. Any
	// authenticated user may connect and subscribe; membership is not
	// checked per topic.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		userID, err := tokens.Validate(r.URL.Query().Get("token"))
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := store.GetUserByID(userID)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ws.ServeWS(hub, w, r, user.ID, user.Name)
	})

	// Stored attachments are served straight off disk under the same
	// paths their public URLs use.
	r.PathPrefix("/pictures/").Handler(http.StripPrefix("/pictures/",
		http.FileServer(http.Dir(filepath.Join(cfg.AttachmentDir, "pictures")))))
	r.PathPrefix("/videos/").Handler(http.StripPrefix("/videos/",
		http.FileServer(http.Dir(filepath.Join(cfg.AttachmentDir, "videos")))))

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
