package handlers

import (
	"net/http"
	"testing"
)

func TestUpdateProfile(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	alice := createUser(t, store, "alice")

	handler := &ProfileHandler{Store: store}

	rr := putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{
		"user_id":  alice.ID,
		"nickname": "Allie",
		"theme":    "dark",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %v want 200: %s", rr.Code, rr.Body.String())
	}

	got, _ := store.GetUserByID(alice.ID)
	if got.Nickname != "Allie" || got.Theme != "dark" {
		t.Errorf("Unexpected profile: %+v", got)
	}
	// Absent fields stay untouched.
	if got.AvatarURL != "" || got.HideOnlineStatus {
		t.Errorf("Expected untouched avatar/hide flag, got %+v", got)
	}
}

func TestUpdateProfileExplicitFalse(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	alice := createUser(t, store, "alice")

	handler := &ProfileHandler{Store: store}

	putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{
		"user_id":            alice.ID,
		"hide_online_status": true,
	})

	// An explicit false is a real update, not an absent field.
	rr := putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{
		"user_id":            alice.ID,
		"hide_online_status": false,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %v want 200", rr.Code)
	}
	got, _ := store.GetUserByID(alice.ID)
	if got.HideOnlineStatus {
		t.Error("Expected hide_online_status to be cleared")
	}
}

func TestUpdateProfileEmptyPatch(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()
	alice := createUser(t, store, "alice")

	handler := &ProfileHandler{Store: store}

	rr := putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{"user_id": alice.ID})
	if rr.Code != http.StatusOK {
		t.Errorf("Empty patch should be a no-op success, got %v", rr.Code)
	}
}

func TestUpdateProfileErrors(t *testing.T) {
	store := newTestStore(t)
	defer store.Close()

	handler := &ProfileHandler{Store: store}

	rr := putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{"nickname": "ghost"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Missing user_id: got %v want 400", rr.Code)
	}

	rr = putJSON(t, handler.UpdateProfile, "/profile", map[string]interface{}{"user_id": 9999, "nickname": "ghost"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Unknown user: got %v want 404", rr.Code)
	}
}
