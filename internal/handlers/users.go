package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okunev/chirp/internal/store"
)

type UserHandler struct {
	Store store.Store
}

// GetUser handles GET /users?username=: case-sensitive exact lookup,
// returning public fields only.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		respondError(w, http.StatusBadRequest, "username required")
		return
	}

	user, err := h.Store.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"nickname":   user.Nickname,
			"avatar_url": user.AvatarURL,
		},
	})
}
