package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// All responses, success and error alike, are JSON in the same envelope
// style. Store failures surface as a generic 500 with no internal detail.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondStoreError(w http.ResponseWriter, err error) {
	log.Printf("store error: %v", err)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
