package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"secretreels/internal/auth"
	"secretreels/internal/engine"
	"secretreels/internal/middleware"
	"secretreels/internal/utils"
	"secretreels/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Auth           *auth.Service
	JWT            *middleware.JWTAuth
	Hub            *websocket.Hub
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	eng *engine.Engine,
	metrics *utils.MetricsCollector,
	authService *auth.Service,
	jwtAuth *middleware.JWTAuth,
	hub *websocket.Hub,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         eng,
		Metrics:        metrics,
		Auth:           authService,
		JWT:            jwtAuth,
		Hub:            hub,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to an actor and waits for its reply. Actor
// replies are either a result or an *utils.AppError value.
func (s *Server) ask(pid *actor.PID, msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(pid, msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("engine")
	}
	if appErr, ok := result.(*utils.AppError); ok {
		return nil, appErr
	}
	return result, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func (s *Server) respondWithError(w http.ResponseWriter, err error) {
	s.Metrics.IncrementErrors()
	if appErr, ok := err.(*utils.AppError); ok {
		http.Error(w, appErr.Message, utils.AppErrorToHTTPStatus(appErr.Code))
		return
	}
	log.Printf("Unexpected error: %v", err)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// requireSession rejects anonymous callers before anything reaches the
// ledger.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) *auth.Session {
	session := middleware.SessionFrom(r)
	if session.Anonymous() {
		s.respondWithError(w, utils.NewUnauthenticatedError("sign in or continue as guest"))
		return nil
	}
	return session
}
