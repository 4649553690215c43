package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
	"github.com/okunev/chirp/internal/ws"
)

type MessageHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

type sendMessageRequest struct {
	ChatID      int     `json:"chat_id"`
	SenderID    int     `json:"sender_id"`
	Content     string  `json:"content"`
	MessageType string  `json:"message_type"`
	FileURL     *string `json:"file_url"`
	IsSystem    bool    `json:"is_system"`
}

type markReadRequest struct {
	MessageID int `json:"message_id"`
	UserID    int `json:"user_id"`
}

// GetMessages handles GET /messages?chat_id=&user_id=. The requesting user
// must be a member of the chat.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := strconv.Atoi(r.URL.Query().Get("chat_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "chat_id required")
		return
	}
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "user_id required")
		return
	}

	if !h.requireMember(w, chatID, userID) {
		return
	}

	messages, err := h.Store.GetChatMessages(chatID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// SendMessage handles POST /messages. The insert and the chat's
// last-activity bump happen in one transaction in the store; connected chat
// members are then notified through the hub.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	if req.ChatID == 0 || req.SenderID == 0 || req.Content == "" {
		respondError(w, http.StatusBadRequest, "chat_id, sender_id and content required")
		return
	}
	if req.MessageType == "" {
		req.MessageType = "text"
	}

	if !h.requireMember(w, req.ChatID, req.SenderID) {
		return
	}

	msg, err := h.Store.SaveMessage(req.ChatID, &req.SenderID, req.Content, req.MessageType, req.FileURL, req.IsSystem)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	if h.Hub != nil {
		h.broadcast(msg)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": map[string]interface{}{
			"id":         msg.ID,
			"created_at": msg.CreatedAt,
		},
	})
}

// MarkRead handles PUT /messages: idempotently adds the user to the
// message's read-by set.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.MessageID == 0 || req.UserID == 0 {
		respondError(w, http.StatusBadRequest, "message_id and user_id required")
		return
	}

	chatID, err := h.Store.GetMessageChatID(req.MessageID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Message not found")
			return
		}
		respondStoreError(w, err)
		return
	}

	if !h.requireMember(w, chatID, req.UserID) {
		return
	}

	if err := h.Store.MarkMessageRead(req.MessageID, req.UserID); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// requireMember writes a 403 and returns false unless userID belongs to the
// chat. Every chat- and message-scoped operation goes through here first.
func (h *MessageHandler) requireMember(w http.ResponseWriter, chatID, userID int) bool {
	isMember, err := h.Store.IsMember(chatID, userID)
	if err != nil {
		respondStoreError(w, err)
		return false
	}
	if !isMember {
		respondError(w, http.StatusForbidden, "not a member of this chat")
		return false
	}
	return true
}

// broadcast fans a freshly saved message out to connected chat members, with
// the sender's current public profile attached the same way a later GET
// would render it.
func (h *MessageHandler) broadcast(msg *models.Message) {
	out := *msg
	if msg.SenderID != nil {
		if sender, err := h.Store.GetUserByID(*msg.SenderID); err == nil {
			out.Sender = models.Sender{
				Username:  &sender.Username,
				Nickname:  &sender.Nickname,
				AvatarURL: &sender.AvatarURL,
			}
		}
	}
	h.Hub.BroadcastMessage(&out)
}
