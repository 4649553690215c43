package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/okunev/chirp/internal/auth"
	"github.com/okunev/chirp/internal/config"
	"github.com/okunev/chirp/internal/handlers"
	"github.com/okunev/chirp/internal/middleware"
	"github.com/okunev/chirp/internal/store/sqlstore"
	"github.com/okunev/chirp/internal/ws"
)

var addr = flag.String("addr", ":8080", "http service address")

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file, relying on the environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.CookieSecret != "" {
		auth.SecretKey = []byte(cfg.CookieSecret)
	}

	store, err := sqlstore.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// Initialize WebSocket Hub
	hub := ws.NewHub(store)
	go hub.Run()

	// Initialize Handlers
	authHandler := &handlers.AuthHandler{Store: store}
	userHandler := &handlers.UserHandler{Store: store}
	chatHandler := &handlers.ChatHandler{Store: store}
	messageHandler := &handlers.MessageHandler{Store: store, Hub: hub}
	profileHandler := &handlers.ProfileHandler{Store: store}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusMethodNotAllowed)
		w.Write([]byte(`{"error":"Method not allowed"}`))
	})

	// API Endpoints
	r.HandleFunc("/auth", authHandler.Auth).Methods("POST")
	r.HandleFunc("/users", userHandler.GetUser).Methods("GET")
	r.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	r.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	r.HandleFunc("/messages", messageHandler.GetMessages).Methods("GET")
	r.HandleFunc("/messages", messageHandler.SendMessage).Methods("POST")
	r.HandleFunc("/messages", messageHandler.MarkRead).Methods("PUT")
	r.HandleFunc("/profile", profileHandler.UpdateProfile).Methods("PUT")

	// WebSocket Endpoint, authenticated by the signed login cookie
	r.Handle("/ws", middleware.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Context().Value(middleware.UserIDKey).(int)
		ws.ServeWs(hub, w, r, userID)
	})))

	// CORS wraps the whole router so preflights are answered even for routes
	// that would otherwise 405.
	handler := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-Id"},
		MaxAge:         86400,
	})(r)

	log.Println("Starting server on", *addr)
	log.Fatal(http.ListenAndServe(*addr, handler))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s %v", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}
