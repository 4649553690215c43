package ws

import (
	"encoding/json"
	"log"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
)

// Hub fans persisted messages out to connected clients. Persistence itself
// happens on the HTTP path before BroadcastMessage is called, so a client
// that misses the fanout still sees the message on its next fetch.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages to fan out to chat members.
	broadcast chan *models.Message

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	store store.Store
}

func NewHub(store store.Store) *Hub {
	return &Hub{
		broadcast:  make(chan *models.Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		store:      store,
	}
}

// BroadcastMessage hands a saved message to the hub for fanout.
func (h *Hub) BroadcastMessage(msg *models.Message) {
	h.broadcast <- msg
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			msgBytes, err := json.Marshal(msg)
			if err != nil {
				log.Printf("marshaling message: %v", err)
				continue
			}

			for client := range h.clients {
				// Only members of the message's chat receive it.
				isMember, err := h.store.IsMember(msg.ChatID, client.userID)
				if err != nil {
					log.Printf("checking membership: %v", err)
					continue
				}
				if !isMember {
					continue
				}

				select {
				case client.send <- msgBytes:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
