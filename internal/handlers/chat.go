package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
)

type ChatHandler struct {
	Store store.Store
}

type createChatRequest struct {
	Type      string  `json:"type"`
	CreatorID int     `json:"creator_id"`
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
	MemberIDs []int   `json:"member_ids"`
}

// GetChats handles GET /chats?user_id=: every chat the user belongs to, most
// recently active first.
func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("user_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "user_id required")
		return
	}

	chats, err := h.Store.GetUserChats(userID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if chats == nil {
		chats = []models.ChatSummary{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// CreateChat handles POST /chats. The chat row and its membership rows are
// created as one atomic unit by the store.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req createChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Type == "" || req.CreatorID == 0 {
		respondError(w, http.StatusBadRequest, "type and creator_id required")
		return
	}

	switch req.Type {
	case models.ChatTypeGroup:
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			respondError(w, http.StatusBadRequest, "name required for group chats")
			return
		}
	case models.ChatTypePrivate:
		if countOthers(req.CreatorID, req.MemberIDs) != 1 {
			respondError(w, http.StatusBadRequest, "private chat requires exactly one other member")
			return
		}
	default:
		respondError(w, http.StatusBadRequest, "type must be private or group")
		return
	}

	chatID, err := h.Store.CreateChat(req.Type, req.CreatorID, req.Name, req.AvatarURL, req.MemberIDs)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"chat_id": chatID,
	})
}

// countOthers counts the distinct member ids besides the creator.
func countOthers(creatorID int, memberIDs []int) int {
	seen := map[int]bool{creatorID: true}
	n := 0
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			n++
		}
	}
	return n
}
