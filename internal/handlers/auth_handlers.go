package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"secretreels/internal/auth"
	"secretreels/internal/models"
)

const oauthStateCookie = "oauth_state"

// AuthResponse carries the issued token and the signed-in user.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ModeratorLoginRequest represents a moderator sign-in request
type ModeratorLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleGoogleLogin starts the OAuth round trip by redirecting to
// Google's consent screen.
func (s *Server) HandleGoogleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		state, err := auth.GenerateStateToken()
		if err != nil {
			log.Printf("Error generating state token: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     oauthStateCookie,
			Value:    state,
			Expires:  time.Now().Add(10 * time.Minute),
			HttpOnly: true,
			Path:     "/",
		})
		http.Redirect(w, r, s.Auth.GoogleLoginURL(state), http.StatusTemporaryRedirect)
	}
}

// HandleGoogleCallback completes the OAuth round trip and issues a token.
func (s *Server) HandleGoogleCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		cookie, err := r.Cookie(oauthStateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
			http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
			return
		}

		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code", http.StatusBadRequest)
			return
		}

		user, err := s.Auth.HandleGoogleCallback(r.Context(), code)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		s.issueToken(w, user)
	}
}

// HandleGuestLogin mints an anonymous guest identity and issues a token.
func (s *Server) HandleGuestLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		user, err := s.Auth.CreateGuest(r.Context())
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		s.issueToken(w, user)
	}
}

// HandleModeratorLogin signs a moderator in with email and password.
func (s *Server) HandleModeratorLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ModeratorLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		if req.Email == "" || req.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}

		user, err := s.Auth.ModeratorLogin(r.Context(), req.Email, req.Password)
		if err != nil {
			s.respondWithError(w, err)
			return
		}

		s.issueToken(w, user)
	}
}

func (s *Server) issueToken(w http.ResponseWriter, user *models.User) {
	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.respondJSON(w, http.StatusOK, &AuthResponse{Token: token, User: user})
}
