package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/habla-dev/habla/internal/metrics"
	"github.com/habla-dev/habla/internal/storage/sqlite"
	"github.com/habla-dev/habla/internal/translate"
	"github.com/habla-dev/habla/internal/websocket"
	"github.com/habla-dev/habla/pkg/logger"
)

const defaultHistoryLimit = 50

// Translator runs a single translation. Satisfied by *translate.Engine.
type Translator interface {
	Translate(ctx context.Context, req translate.Request) (*translate.Result, error)
}

// Handler contains the API handlers
type Handler struct {
	translator Translator
	tracker    *metrics.Tracker
	storage    *sqlite.TranslationStorage
	wsServer   *websocket.Server
	logger     *logger.Logger
}

// NewHandler creates a new API handler. storage and wsServer may be nil.
func NewHandler(translator Translator, tracker *metrics.Tracker, storage *sqlite.TranslationStorage, wsServer *websocket.Server, logger *logger.Logger) *Handler {
	return &Handler{
		translator: translator,
		tracker:    tracker,
		storage:    storage,
		wsServer:   wsServer,
		logger:     logger.Named("api-handler"),
	}
}

// translateRequest is the POST /translate payload
type translateRequest struct {
	Text      string `json:"text"`
	Direction string `json:"direction"`
}

// translateResponse is the POST /translate envelope
type translateResponse struct {
	OK         bool   `json:"ok"`
	Direction  string `json:"direction,omitempty"`
	Original   string `json:"original,omitempty"`
	Translated string `json:"translated,omitempty"`
	Source     string `json:"source,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Translate handles POST /translate
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, translateResponse{OK: false, Error: "invalid JSON body"})
		return
	}

	direction, err := translate.ParseDirection(req.Direction)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, translateResponse{OK: false, Error: err.Error()})
		return
	}

	result, err := h.translator.Translate(r.Context(), translate.Request{
		Text:      req.Text,
		Direction: direction,
	})
	if err != nil {
		h.logger.Error("Translation failed", logger.Error(err),
			logger.String("direction", direction.String()))

		status := http.StatusInternalServerError
		var notFound *translate.ModelNotFoundError
		if errors.As(err, &notFound) {
			status = http.StatusServiceUnavailable
		}
		WriteJSON(w, status, translateResponse{OK: false, Error: err.Error()})
		return
	}

	h.logger.Info("Translation completed",
		logger.String("direction", direction.String()),
		logger.String("source", string(result.Source)))

	if h.storage != nil {
		if _, err := h.storage.StoreTranslation(&sqlite.TranslationRecord{
			Direction:  direction.String(),
			Original:   req.Text,
			Translated: result.Text,
			Source:     string(result.Source),
		}); err != nil {
			h.logger.Error("Failed to store translation", logger.Error(err))
		}
	}

	if h.wsServer != nil {
		h.wsServer.BroadcastTranslation(direction.String(), req.Text, result.Text, string(result.Source))
	}

	WriteJSON(w, http.StatusOK, translateResponse{
		OK:         true,
		Direction:  direction.String(),
		Original:   req.Text,
		Translated: result.Text,
		Source:     string(result.Source),
	})
}

// GetStats handles GET /stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.tracker.Sample()
	if err != nil {
		h.logger.Error("Failed to sample process stats", logger.Error(err))
		http.Error(w, "Failed to read process stats", http.StatusInternalServerError)
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// ResetStats handles POST /reset-stats
func (h *Handler) ResetStats(w http.ResponseWriter, r *http.Request) {
	h.tracker.Reset()
	WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GetHistory handles GET /api/history
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		http.Error(w, "History storage not available", http.StatusServiceUnavailable)
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid limit parameter", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	records, err := h.storage.GetRecent(limit)
	if err != nil {
		h.logger.Error("Failed to load translation history", logger.Error(err))
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*sqlite.TranslationRecord{}
	}

	WriteJSON(w, http.StatusOK, records)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
