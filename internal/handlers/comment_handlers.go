package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"secretreels/internal/engine/actors"

	"github.com/google/uuid"
)

// CreateCommentRequest represents a request to create a new comment
type CreateCommentRequest struct {
	PersonID string `json:"personId"`
	Content  string `json:"content"`
}

// RemoveCommentRequest represents a request to remove a comment
type RemoveCommentRequest struct {
	CommentID string `json:"commentId"`
}

// HandleComments handles comment creation and removal.
func (s *Server) HandleComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		switch r.Method {
		case http.MethodPost:
			session := s.requireSession(w, r)
			if session == nil {
				return
			}

			var req CreateCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				log.Printf("Error decoding request: %v", err)
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			personID, err := uuid.Parse(req.PersonID)
			if err != nil {
				http.Error(w, "Invalid person ID", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.CommentPID, &actors.AddCommentMsg{
				PersonID: personID,
				AuthorID: session.UserID,
				Content:  req.Content,
			})
			if askErr != nil {
				s.respondWithError(w, askErr)
				return
			}

			commentResult := result.(*actors.CommentResult)
			s.Hub.BroadcastCommentCount(commentResult.PersonID, commentResult.CommentCount)
			s.respondJSON(w, http.StatusCreated, commentResult)

		case http.MethodDelete:
			session := s.requireSession(w, r)
			if session == nil {
				return
			}

			var req RemoveCommentRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}

			commentID, err := uuid.Parse(req.CommentID)
			if err != nil {
				http.Error(w, "Invalid comment ID", http.StatusBadRequest)
				return
			}

			result, askErr := s.ask(s.Engine.CommentPID, &actors.RemoveCommentMsg{
				CommentID:   commentID,
				CallerID:    session.UserID,
				IsModerator: session.IsModerator,
			})
			if askErr != nil {
				s.respondWithError(w, askErr)
				return
			}

			removal := result.(*actors.CommentRemoval)
			s.Hub.BroadcastCommentCount(removal.PersonID, removal.CommentCount)
			s.respondJSON(w, http.StatusOK, removal)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// HandleGetPersonComments lists a person's comments, newest first.
func (s *Server) HandleGetPersonComments() http.HandlerFunc {
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

		result, askErr := s.ask(s.Engine.CommentPID, &actors.GetPersonCommentsMsg{PersonID: personID})
		if askErr != nil {
			s.respondWithError(w, askErr)
			return
		}
		s.respondJSON(w, http.StatusOK, result)
	}
}
