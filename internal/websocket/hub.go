// Package websocket pushes live counter updates to connected clients
// after successful votes and comment changes.
package websocket

import (
	"encoding/json"
	"log"

	"secretreels/internal/models"

	"github.com/google/uuid"
)

// VoteUpdate is broadcast after a reconciled vote commits.
type VoteUpdate struct {
	Type      string                 `json:"type"`
	ItemID    uuid.UUID              `json:"itemId"`
	ItemType  models.VoteContentType `json:"itemType"`
	Upvotes   int                    `json:"upvotes"`
	Downvotes int                    `json:"downvotes"`
}

// CommentUpdate is broadcast after a comment add or removal commits.
type CommentUpdate struct {
	Type         string    `json:"type"`
	PersonID     uuid.UUID `json:"personId"`
	CommentCount int       `json:"commentCount"`
}

// Hub maintains the set of active clients and fans events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("Websocket client connected, %d active", len(h.clients))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Websocket client disconnected, %d active", len(h.clients))
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastVote publishes the post-commit counters for an item.
func (h *Hub) BroadcastVote(result *models.VoteResult) {
	h.publish(&VoteUpdate{
		Type:      "vote_update",
		ItemID:    result.ItemID,
		ItemType:  result.ItemType,
		Upvotes:   result.Upvotes,
		Downvotes: result.Downvotes,
	})
}

// BroadcastCommentCount publishes a person's new comment count.
func (h *Hub) BroadcastCommentCount(personID uuid.UUID, count int) {
	h.publish(&CommentUpdate{
		Type:         "comment_update",
		PersonID:     personID,
		CommentCount: count,
	})
}

func (h *Hub) publish(event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal websocket event: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Printf("Websocket broadcast queue full, dropping event")
	}
}
