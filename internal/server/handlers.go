package server

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"strconv"

	"codeberg.org/snonux/signopsis/internal/fingerspell"
)

const maxPlaceholderSize = 2000

type transcribeRequest struct {
	Text *string `json:"text"`
}

type transcribeResponse struct {
	Result []fingerspell.LetterUnit `json:"result"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes)

	var req transcribeRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil && err != io.EOF {
		s.logger.Sugar().Debugw("Rejecting transcription request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fingerspell.ErrTextRequired.Error()})
		return
	}
	if req.Text == nil || *req.Text == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fingerspell.ErrTextRequired.Error()})
		return
	}

	units := s.speller.Spell(*req.Text)
	if units == nil {
		units = []fingerspell.LetterUnit{}
	}
	writeJSON(w, http.StatusOK, transcribeResponse{Result: units})
}

func (s *Server) handlePlaceholder(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	width := sizeParam(query.Get("width"))
	height := sizeParam(query.Get("height"))
	text := query.Get("text")

	fontSize := min(width, height) / 4
	if fontSize < 8 {
		fontSize = 8
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+
		`<rect width="100%%" height="100%%" fill="#e5e7eb"/>`+
		`<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="sans-serif" font-size="%d" fill="#6b7280">%s</text>`+
		`</svg>`, width, height, width, height, fontSize, html.EscapeString(text))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

// sizeParam parses a placeholder dimension, defaulting to 200
func sizeParam(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 200
	}
	return min(n, maxPlaceholderSize)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
