// Package server exposes the HTTP ingestion and introspection surface.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rewired-gh/alertrelay/internal/dispatch"
	"github.com/rewired-gh/alertrelay/internal/logger"
	"github.com/rewired-gh/alertrelay/internal/models"
	"github.com/rewired-gh/alertrelay/internal/queue"
)

// Server wires the HTTP handlers to the ingestion queue and dispatcher.
type Server struct {
	queue      *queue.Queue
	dispatcher *dispatch.Dispatcher
	chatID     string
	router     *mux.Router
}

// New creates the HTTP surface. chatID is the configured destination,
// reported verbatim on /status.
func New(q *queue.Queue, d *dispatch.Dispatcher, chatID string) *Server {
	s := &Server{queue: q, dispatcher: d, chatID: chatID}

	r := mux.NewRouter()
	r.HandleFunc("/alert", s.handleAlert).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	s.router = r

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write response: %v", err)
	}
}

// handleAlert validates the payload, enqueues the alert, and answers 202.
// The alert is in the queue before the response is written.
func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	var alert models.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		logger.Error("Failed to parse alert payload: %v", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON payload"})
		return
	}
	if err := alert.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing 'message' field"})
		return
	}
	alert.Normalize()
	alert.ID = uuid.NewString()

	s.queue.Enqueue(alert)
	logger.Info("Enqueued alert %s of type %q", alert.ID, alert.Type)

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st := s.dispatcher.Status()

	var lastSent any
	if st.LastMessageTimestamp != "" {
		lastSent = st.LastMessageTimestamp
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                 "online",
		"bot_username":           st.BotUsername,
		"target_chat_id":         s.chatID,
		"last_message_timestamp": lastSent,
		"server_time_utc":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.dispatcher.History()
	if err != nil {
		logger.Error("Failed to read history: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "history unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
