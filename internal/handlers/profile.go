package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
)

type ProfileHandler struct {
	Store store.Store
}

type updateProfileRequest struct {
	UserID int `json:"user_id"`
	models.ProfilePatch
}

// UpdateProfile handles PUT /profile: a sparse patch of optional fields.
// Fields absent from the body stay untouched; an empty patch is a no-op
// success.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserID == 0 {
		respondError(w, http.StatusBadRequest, "user_id required")
		return
	}

	if err := h.Store.UpdateProfile(req.UserID, req.ProfilePatch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}
