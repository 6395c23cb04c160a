package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"secretreels/internal/engine/actors"
	"secretreels/internal/models"

	"github.com/google/uuid"
)

// CreateSecretRequest represents a request to share a new secret
type CreateSecretRequest struct {
	PersonID string `json:"personId"`
	Content  string `json:"content"`
}

// HandleSecrets serves secret creation.
func (s *Server) HandleSecrets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session := s.requireSession(w, r)
		if session == nil {
			return
		}

		var req CreateSecretRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		personID, err := uuid.Parse(req.PersonID)
		if err != nil {
			http.Error(w, "Invalid person ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.SecretPID, &actors.CreateSecretMsg{
			PersonID: personID,
			AuthorID: session.UserID,
			Content:  req.Content,
		})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}
		s.respondJSON(w, http.StatusCreated, result)
	}
}

// HandleGetPersonSecrets lists a person's secrets, newest first.
func (s *Server) HandleGetPersonSecrets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		personID, err := uuid.Parse(r.URL.Query().Get("personId"))
		if err != nil {
			http.Error(w, "Invalid person ID", http.StatusBadRequest)
			return
		}

		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, parseErr := strconv.Atoi(limitStr); parseErr == nil && parsed > 0 {
				limit = parsed
			}
		}

		result, askErr := s.ask(s.Engine.SecretPID, &actors.GetPersonSecretsMsg{
			PersonID: personID,
			Limit:    limit,
		})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandleSecretVote applies a vote to a secret and broadcasts the new
// counters.
func (s *Server) HandleSecretVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session := s.requireSession(w, r)
		if session == nil {
			return
		}

		var req VoteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		secretID, err := uuid.Parse(req.ItemID)
		if err != nil {
			http.Error(w, "Invalid item ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.SecretPID, &actors.VoteSecretMsg{
			SecretID:  secretID,
			VoterID:   session.UserID,
			Direction: models.VoteDirection(req.Direction),
		})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}

		voteResult := result.(*models.VoteResult)
		s.Hub.BroadcastVote(voteResult)
		s.respondJSON(w, http.StatusOK, voteResult)
	}
}
