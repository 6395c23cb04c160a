package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"secretreels/internal/auth"
	"secretreels/internal/config"
	"secretreels/internal/database"
	"secretreels/internal/engine"
	"secretreels/internal/feed"
	"secretreels/internal/handlers"
	"secretreels/internal/middleware"
	"secretreels/internal/utils"
	"secretreels/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	// Initialize components
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	metrics := utils.NewMetricsCollector()

	// Connect to the document store and make sure the vote uniqueness
	// index exists before serving traffic.
	db, err := database.NewMongoDB(cfg.Database.URI, cfg.Database.Name)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Printf("Error closing database connection: %v", err)
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.EnsureIndexes(indexCtx); err != nil {
		cancel()
		log.Fatalf("Failed to ensure indexes: %v", err)
	}
	cancel()

	// Initialize actor system
	system := actor.NewActorSystem()

	assembler := feed.NewAssembler(db, cfg.Feed.PageSize, cfg.Feed.SecretsPerPerson)
	reelsEngine := engine.NewEngine(system, db, assembler, metrics, cfg.VoteMaxAttempts)

	authService := auth.NewService(db,
		cfg.Auth.GoogleClientID,
		cfg.Auth.GoogleClientSecret,
		cfg.Auth.GoogleRedirectURL,
	)
	jwtAuth := middleware.NewJWTAuth(cfg.Auth.JWTSecret)

	hub := websocket.NewHub()
	go hub.Run()

	// Create server instance
	server := handlers.NewServer(system, reelsEngine, metrics, authService, jwtAuth, hub)

	// Set up HTTP handlers
	mux := http.NewServeMux()
	mux.HandleFunc("/health", server.HandleHealth())
	mux.HandleFunc("/auth/google/login", server.HandleGoogleLogin())
	mux.HandleFunc("/auth/google/callback", server.HandleGoogleCallback())
	mux.HandleFunc("/auth/guest", server.HandleGuestLogin())
	mux.HandleFunc("/auth/moderator/login", server.HandleModeratorLogin())
	mux.HandleFunc("/persons", server.HandlePersons())
	mux.HandleFunc("/persons/get", server.HandleGetPerson())
	mux.HandleFunc("/persons/vote", server.HandlePersonVote())
	mux.HandleFunc("/persons/delete", server.HandleDeletePerson())
	mux.HandleFunc("/secrets", server.HandleSecrets())
	mux.HandleFunc("/secrets/list", server.HandleGetPersonSecrets())
	mux.HandleFunc("/secrets/vote", server.HandleSecretVote())
	mux.HandleFunc("/comments", server.HandleComments())
	mux.HandleFunc("/comments/list", server.HandleGetPersonComments())
	mux.HandleFunc("/ws", server.HandleWebSocket())
	if cfg.Server.MetricsEnabled {
		mux.HandleFunc("/admin/stats", server.HandleStats())
	}

	handler := middleware.CORS(cfg.AllowedOrigins)(jwtAuth.Authenticate(mux))

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
