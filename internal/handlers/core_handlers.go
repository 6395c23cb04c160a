package handlers

import (
	"net/http"
	"time"
)

// HandleHealth reports service liveness.
func (s *Server) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	}
}

// HandleStats exposes request counters and per-operation latency
// averages for moderators.
func (s *Server) HandleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.Metrics.IncrementRequests()

		session := s.requireSession(w, r)
		if session == nil {
			return
		}
		if !session.IsModerator {
			http.Error(w, "Moderator access required", http.StatusForbidden)
			return
		}

		s.respondJSON(w, http.StatusOK, s.Metrics.Snapshot())
	}
}
