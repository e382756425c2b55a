package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"chat-relay/internal/config"
	"chat-relay/internal/database"
	"chat-relay/internal/handlers"
	"chat-relay/internal/relay"
	"chat-relay/internal/services"
	"chat-relay/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize store
	store, err := newStore(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// Relay core: registry, fan-out, typing state, gateway
	registry := relay.NewRegistry()
	roomRelay := relay.NewRelay(registry)
	typing := relay.NewTypingAggregator()
	gateway := relay.NewGateway(registry, roomRelay, store, typing, cfg.Chat.HistoryLimit)

	// Room management collaborator
	roomService := services.NewRoomService(store)

	// Initialize handlers
	roomHandlers := handlers.NewRoomHandlers(roomService, cfg.Chat.AdminUsername)
	wsHandlers := handlers.NewWebSocketHandlers(gateway, cfg.Server.AllowedOrigins)

	// Setup routes
	mux := http.NewServeMux()
	setupRoutes(mux, roomHandlers, wsHandlers)

	// Create server
	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      corsMiddleware(mux, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	logger.Info("Server started on http://localhost%s", cfg.Server.Port)
	logger.Info("WebSocket endpoint: ws://localhost%s/ws", cfg.Server.Port)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error: %v", err)
	}
}

func newStore(cfg *config.Config) (database.Store, error) {
	if cfg.Database.URL == "memory" {
		logger.Warn("Using in-memory store; nothing will survive a restart")
		return database.NewMemoryStore(), nil
	}
	return database.NewPostgresDB(cfg.Database.URL)
}

func setupRoutes(mux *http.ServeMux, roomHandlers *handlers.RoomHandlers, wsHandlers *handlers.WebSocketHandlers) {
	mux.HandleFunc("/health", roomHandlers.Health)

	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			roomHandlers.ListRooms(w, r)
		case http.MethodPost:
			roomHandlers.CreateRoom(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// /rooms/{name}
	mux.HandleFunc("/rooms/", func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/rooms/")
		if name == "" || strings.Contains(name, "/") {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		if r.Method == http.MethodDelete {
			roomHandlers.DeleteRoom(w, r, name)
			return
		}

		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// WebSocket route
	mux.HandleFunc("/ws", wsHandlers.HandleWebSocket)
}

func corsMiddleware(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Username")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
