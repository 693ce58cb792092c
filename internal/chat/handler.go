package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

const maxRequestBytes = 16 << 10

type advisor interface {
	Respond(ctx context.Context, message string) (Reply, error)
	Analyze(ctx context.Context, message string) (Analysis, error)
}

// MessageRequest is the body of both chat endpoints.
type MessageRequest struct {
	Message string `json:"message"`
}

// Handler serves the public chat API.
type Handler struct {
	service advisor
	logger  *logging.Logger
}

func NewHandler(service advisor, logger *logging.Logger) *Handler {
	if service == nil {
		panic("chat: service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Routes mounts under /v1/chat.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/messages", h.Messages)
	r.Post("/analyze", h.Analyze)
	return r
}

// Messages handles POST /messages.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	reply, err := h.service.Respond(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

// Analyze handles POST /analyze. It never calls the language model.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	analysis, err := h.service.Analyze(r.Context(), req.Message)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (MessageRequest, bool) {
	var req MessageRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrExternalCollaborator):
		h.logger.Error("chat dependency unavailable", "error", err)
		http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("chat request failed", "error", err)
		http.Error(w, "Failed to process message", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
