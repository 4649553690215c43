package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okunev/chirp/internal/store/sqlstore"
)

func newTestStore(t *testing.T) *sqlstore.SQLStore {
	t.Helper()
	store, err := sqlstore.New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	return store
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestRegister(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	handler := &AuthHandler{Store: store}

	creds := map[string]string{"action": "register", "username": "testuser", "password": "password123"}

	rr := postJSON(t, handler.Auth, "/auth", creds)
	if rr.Code != http.StatusOK {
		t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	body := decodeBody(t, rr)
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected user object in response, got %v", body)
	}
	if user["username"] != "testuser" || user["nickname"] != "testuser" {
		t.Errorf("Unexpected user payload: %v", user)
	}

	// Duplicate username
	rr = postJSON(t, handler.Auth, "/auth", creds)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("handler returned wrong status code for duplicate user: got %v want %v", rr.Code, http.StatusBadRequest)
	}
	if decodeBody(t, rr)["error"] != "Username already exists" {
		t.Error("Expected duplicate-username error message")
	}
}

func TestRegisterPasswordPolicy(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	handler := &AuthHandler{Store: store}

	tests := []struct {
		password string
		status   int
	}{
		{"abc1234", http.StatusOK},         // 7 chars, has digit
		{"abcdefg", http.StatusBadRequest}, // 7 chars, no digit
		{"ab1", http.StatusBadRequest},     // too short
	}

	for i, tc := range tests {
		creds := map[string]string{"action": "register", "username": string(rune('a' + i)), "password": tc.password}
		rr := postJSON(t, handler.Auth, "/auth", creds)
		if rr.Code != tc.status {
			t.Errorf("password %q: got status %v want %v", tc.password, rr.Code, tc.status)
		}
	}
}

func TestRegisterMissingFields(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	handler := &AuthHandler{Store: store}

	for _, creds := range []map[string]string{
		{"action": "register", "username": "", "password": "password123"},
		{"action": "register", "username": "testuser", "password": ""},
		{"action": "register", "username": "   ", "password": "password123"},
	} {
		rr := postJSON(t, handler.Auth, "/auth", creds)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("creds %v: got status %v want 400", creds, rr.Code)
		}
	}
}

func TestLogin(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	handler := &AuthHandler{Store: store}

	rr := postJSON(t, handler.Auth, "/auth", map[string]string{"action": "register", "username": "testuser", "password": "password123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("register failed: %v", rr.Body.String())
	}

	rr = postJSON(t, handler.Auth, "/auth", map[string]string{"action": "login", "username": "testuser", "password": "password123"})
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	body := decodeBody(t, rr)
	user := body["user"].(map[string]interface{})
	if user["theme"] != "light" {
		t.Errorf("Expected default theme in login payload, got %v", user["theme"])
	}

	// Login marks the user online.
	stored, _ := store.GetUserByUsername("testuser")
	if !stored.IsOnline {
		t.Error("Expected user to be online after login")
	}

	// Check cookies
	if len(rr.Result().Cookies()) == 0 {
		t.Error("Expected cookies to be set")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	handler := &AuthHandler{Store: store}

	postJSON(t, handler.Auth, "/auth", map[string]string{"action": "register", "username": "testuser", "password": "password123"})

	// Wrong password and unknown username must be indistinguishable.
	wrongPass := postJSON(t, handler.Auth, "/auth", map[string]string{"action": "login", "username": "testuser", "password": "wrongpass1"})
	unknownUser := postJSON(t, handler.Auth, "/auth", map[string]string{"action": "login", "username": "nobody", "password": "password123"})

	for _, rr := range []*httptest.ResponseRecorder{wrongPass, unknownUser} {
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("got status %v want 401", rr.Code)
		}
	}
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Errorf("Responses differ: %q vs %q", wrongPass.Body.String(), unknownUser.Body.String())
	}
}
