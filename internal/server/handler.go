// Package server provides the HTTP JSON API handlers.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coby5502/dango/internal/dictionary"
	"github.com/coby5502/dango/internal/store"
	"github.com/coby5502/dango/internal/words"
)

// TermResolver resolves a term to a dictionary result.
type TermResolver interface {
	Resolve(ctx context.Context, term string) (*dictionary.Result, error)
}

// Handler serves the dictionary, words, and sync-status endpoints.
type Handler struct {
	resolver TermResolver
	words    words.Repository
	monitor  *store.Monitor
}

// NewHandler creates a Handler.
func NewHandler(resolver TermResolver, wordRepo words.Repository, monitor *store.Monitor) *Handler {
	return &Handler{
		resolver: resolver,
		words:    wordRepo,
		monitor:  monitor,
	}
}

// Register attaches all routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dictionary/lookup", h.lookup)
	mux.HandleFunc("GET /api/words", h.listWords)
	mux.HandleFunc("POST /api/words", h.saveWord)
	mux.HandleFunc("GET /api/sync/status", h.syncStatus)
	mux.HandleFunc("POST /api/sync/retry", h.syncRetry)
}

type lookupResponse struct {
	Reading    string        `json:"reading,omitempty"`
	Meanings   []string      `json:"meanings"`
	Examples   []examplePair `json:"examples,omitempty"`
	Confidence float64       `json:"confidence"`
}

type examplePair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("term")
	if strings.TrimSpace(term) == "" {
		writeError(w, http.StatusBadRequest, "term is required")
		return
	}

	result, err := h.resolver.Resolve(r.Context(), term)
	if err != nil {
		slog.Default().Error("lookup failed", "term", term, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if result == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no result"})
		return
	}

	resp := lookupResponse{
		Reading:    result.Reading,
		Meanings:   result.Meanings,
		Confidence: result.Confidence,
	}
	for _, e := range result.Examples {
		resp.Examples = append(resp.Examples, examplePair{Source: e.Source, Target: e.Target})
	}
	writeJSON(w, http.StatusOK, resp)
}

type wordResponse struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Reading    string `json:"reading,omitempty"`
	Meaning    string `json:"meaning"`
	IsFavorite bool   `json:"is_favorite"`
}

func (h *Handler) listWords(w http.ResponseWriter, r *http.Request) {
	found, err := h.words.FindAll(r.Context())
	if err != nil {
		slog.Default().Error("list words failed", "error", err)
		writeError(w, http.StatusInternalServerError, "list words failed")
		return
	}

	resp := make([]wordResponse, 0, len(found))
	for _, word := range found {
		resp = append(resp, wordResponse{
			ID:         word.ID,
			Text:       word.Text,
			Reading:    word.Reading,
			Meaning:    word.Meaning,
			IsFavorite: word.IsFavorite,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type saveWordRequest struct {
	Text       string `json:"text"`
	Reading    string `json:"reading"`
	Meaning    string `json:"meaning"`
	SourceType string `json:"source_type"`
	SourceText string `json:"source_text"`
	SourceLink string `json:"source_link"`
}

func (h *Handler) saveWord(w http.ResponseWriter, r *http.Request) {
	var req saveWordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	word := &words.Word{
		Text:       req.Text,
		Reading:    req.Reading,
		Meaning:    req.Meaning,
		SourceType: req.SourceType,
		SourceText: req.SourceText,
		SourceLink: req.SourceLink,
	}
	if err := h.words.Save(r.Context(), word); err != nil {
		slog.Default().Error("save word failed", "text", req.Text, "error", err)
		writeError(w, http.StatusInternalServerError, "save word failed")
		return
	}

	writeJSON(w, http.StatusCreated, wordResponse{
		ID:      word.ID,
		Text:    word.Text,
		Reading: word.Reading,
		Meaning: word.Meaning,
	})
}

type syncStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func (h *Handler) syncStatus(w http.ResponseWriter, _ *http.Request) {
	status := h.monitor.Status()
	writeJSON(w, http.StatusOK, syncStatusResponse{
		Status:  status.State.String(),
		Message: status.Message,
	})
}

func (h *Handler) syncRetry(w http.ResponseWriter, r *http.Request) {
	h.monitor.Retry(r.Context())
	status := h.monitor.Status()
	writeJSON(w, http.StatusOK, syncStatusResponse{
		Status:  status.State.String(),
		Message: status.Message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
