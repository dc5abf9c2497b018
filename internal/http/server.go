// Package http is the thin inbound transport: it turns HTTP requests into
// (userId, text) events for the bot engine and writes the textual reply
// back. Anything chat-platform specific stays outside this repository.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"ventas/internal/bot"
)

type Server struct {
	*http.Server
	engine *bot.Engine
}

type messageRequest struct {
	UserID int64  `json:"user_id"`
	Text   string `json:"text"`
}

type messageResponse struct {
	Reply string `json:"reply"`
}

func NewServer(addr string, engine *bot.Engine) *Server {
	s := &Server{engine: engine}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/messages", s.handleMessage)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.Server = &http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
	return s
}

// handleMessage processes one inbound event. One request, one reply; all
// engine failures come back as reply text, so this only errors on
// malformed requests.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}

	start := time.Now()
	reply := s.engine.HandleMessage(r.Context(), req.UserID, req.Text)
	slog.InfoContext(r.Context(), "message handled",
		"user_id", req.UserID,
		"duration", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messageResponse{Reply: reply})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
