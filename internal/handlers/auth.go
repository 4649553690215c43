package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/okunev/chirp/internal/auth"
	"github.com/okunev/chirp/internal/models"
	"github.com/okunev/chirp/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Store store.Store
}

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Auth handles POST /auth for both register and login, switched on the
// action field.
func (h *AuthHandler) Auth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	if !validPassword(req.Password) {
		respondError(w, http.StatusBadRequest, "Password must be at least 7 characters with 1 digit")
		return
	}

	switch req.Action {
	case "register":
		h.register(w, req)
	case "login":
		h.login(w, req)
	default:
		respondError(w, http.StatusBadRequest, "action must be register or login")
	}
}

func (h *AuthHandler) register(w http.ResponseWriter, req authRequest) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		Nickname:     req.Username,
	}
	if err := h.Store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicateUsername) {
			respondError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"nickname": user.Nickname,
		},
	})
}

func (h *AuthHandler) login(w http.ResponseWriter, req authRequest) {
	user, err := h.Store.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password: the caller must not be able
			// to tell which one failed.
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		respondStoreError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := h.Store.SetOnline(user.ID, true); err != nil {
		respondStoreError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  "user_id",
		Value: auth.SignCookie(strconv.Itoa(user.ID)),
		Path:  "/",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user": map[string]interface{}{
			"id":         user.ID,
			"username":   user.Username,
			"nickname":   user.Nickname,
			"avatar_url": user.AvatarURL,
			"theme":      user.Theme,
		},
	})
}

// validPassword enforces the password policy: minimum length 7 with at least
// one digit.
func validPassword(password string) bool {
	if len(password) < 7 {
		return false
	}
	for _, c := range password {
		if unicode.IsDigit(c) {
			return true
		}
	}
	return false
}
