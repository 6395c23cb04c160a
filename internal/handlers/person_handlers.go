package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"secretreels/internal/engine/actors"
	"secretreels/internal/feed"
	"secretreels/internal/middleware"
	"secretreels/internal/models"

	"github.com/google/uuid"
)

// CreatePersonRequest represents a request to create a new person
type CreatePersonRequest struct {
	Name  string `json:"name"`
	Blurb string `json:"blurb,omitempty"`
}

// VoteRequest represents a vote on a person or a secret
type VoteRequest struct {
	ItemID    string `json:"itemId"`
	Direction string `json:"direction"` // "up" or "down"
}

// HandlePersons serves person creation and the paginated feed.
func (s *Server) HandlePersons() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			session := s.requireSession(w, r)
			if session == nil {
				return
			}

			var req CreatePersonRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			result, err := s.ask(s.Engine.PersonPID, &actors.CreatePersonMsg{
				OwnerID: session.UserID,
				Name:    req.Name,
				Blurb:   req.Blurb,
			})
			if err != nil {
				s.respondWithError(w, err)
				return
			}
			s.respondJSON(w, http.StatusCreated, result)

		case http.MethodGet:
			viewerID := uuid.Nil
			if session := middleware.SessionFrom(r); !session.Anonymous() {
				viewerID = session.UserID
			}

			pageSize := 0
			if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
				if limit, err := strconv.Atoi(limitStr); err == nil {
					pageSize = limit
				}
			}

			result, err := s.ask(s.Engine.PersonPID, &actors.GetFeedMsg{
				ViewerID: viewerID,
				Cursor:   r.URL.Query().Get("cursor"),
				PageSize: pageSize,
			})
			if err != nil {
				s.respondWithError(w, err)
				return
			}
			s.respondJSON(w, http.StatusOK, result.(*feed.Page))

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleGetPerson serves a single person by ID.
func (s *Server) HandleGetPerson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		personID, err := uuid.Parse(r.URL.Query().Get("id"))
		if err != nil {
			http.Error(w, "Invalid person ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.PersonPID, &actors.GetPersonMsg{PersonID: personID})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}

// HandlePersonVote applies a vote to a person and broadcasts the new
// counters.
func (s *Server) HandlePersonVote() http.HandlerFunc {
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

		personID, err := uuid.Parse(req.ItemID)
		if err != nil {
			http.Error(w, "Invalid item ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.PersonPID, &actors.VotePersonMsg{
			PersonID:  personID,
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

// HandleDeletePerson lets a moderator take a person down.
func (s *Server) HandleDeletePerson() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		session := s.requireSession(w, r)
		if session == nil {
			return
		}

		var req struct {
			PersonID string `json:"personId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		personID, err := uuid.Parse(req.PersonID)
		if err != nil {
			http.Error(w, "Invalid person ID", http.StatusBadRequest)
			return
		}

		result, askErr := s.ask(s.Engine.PersonPID, &actors.DeletePersonMsg{
			PersonID:    personID,
			CallerID:    session.UserID,
			IsModerator: session.IsModerator,
		})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}

		log.Printf("Person %s removed by %s", personID, session.UserID)
		s.respondJSON(w, http.StatusOK, result)
	}
}
