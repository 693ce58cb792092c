package learning

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/symptom-advisor/internal/compliance"
	httpmiddleware "github.com/wolfman30/symptom-advisor/internal/http/middleware"
	"github.com/wolfman30/symptom-advisor/pkg/apperrors"
	"github.com/wolfman30/symptom-advisor/pkg/logging"
)

type reviewService interface {
	Suggestions(ctx context.Context, filter ListFilter) ([]Suggestion, error)
	Stats(ctx context.Context) (map[Status]int, error)
	ProcessSuggestion(ctx context.Context, id, reviewer int64) (bool, error)
	RejectSuggestion(ctx context.Context, id, reviewer int64) error
	AutoApprove(ctx context.Context) (int, error)
}

type reviewHistory interface {
	ReviewHistory(ctx context.Context, suggestionID int64) ([]compliance.ReviewEvent, error)
}

// Handler exposes suggestion review to administrators. Routes must sit
// behind AdminJWT so a reviewer id is available.
type Handler struct {
	service reviewService
	history reviewHistory
	logger  *logging.Logger
}

func NewHandler(service reviewService, history reviewHistory, logger *logging.Logger) *Handler {
	if service == nil {
		panic("learning: review service cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, history: history, logger: logger}
}

// Routes mounts under /admin/learning.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/suggestions", h.List)
	r.Get("/stats", h.Stats)
	r.Post("/auto-approve", h.AutoApprove)
	r.Route("/suggestions/{id}", func(r chi.Router) {
		r.Post("/approve", h.Approve)
		r.Post("/reject", h.Reject)
		if h.history != nil {
			r.Get("/history", h.History)
		}
	})
	return r
}

// List handles GET /suggestions?status=&min_confidence=&limit=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{Status: Status(q.Get("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		http.Error(w, "unknown status", http.StatusBadRequest)
		return
	}
	if raw := q.Get("min_confidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			http.Error(w, "min_confidence must be between 0 and 1", http.StatusBadRequest)
			return
		}
		filter.MinConfidence = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		filter.Limit = v
	}

	out, err := h.service.Suggestions(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list suggestions", "error", err)
		http.Error(w, "Failed to list suggestions", http.StatusInternalServerError)
		return
	}
	if out == nil {
		out = []Suggestion{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"suggestions": out})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("failed to count suggestions", "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, counts)
}

// Approve handles POST /suggestions/{id}/approve.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, reviewer, ok := h.reviewTarget(w, r)
	if !ok {
		return
	}
	promoted, err := h.service.ProcessSuggestion(r.Context(), id, reviewer)
	if err != nil {
		h.writeError(w, "approve", id, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"id": id, "promoted": promoted})
}

// Reject handles POST /suggestions/{id}/reject.
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, reviewer, ok := h.reviewTarget(w, r)
	if !ok {
		return
	}
	if err := h.service.RejectSuggestion(r.Context(), id, reviewer); err != nil {
		h.writeError(w, "reject", id, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": StatusRejected})
}

// AutoApprove handles POST /auto-approve. Partial failures still report the
// number promoted.
func (h *Handler) AutoApprove(w http.ResponseWriter, r *http.Request) {
	promoted, err := h.service.AutoApprove(r.Context())
	resp := map[string]any{"promoted": promoted}
	if err != nil {
		h.logger.Error("auto-approval run failed", "error", err, "promoted", promoted)
		resp["error"] = "some suggestions could not be promoted"
		h.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// History handles GET /suggestions/{id}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid suggestion id", http.StatusBadRequest)
		return
	}
	events, err := h.history.ReviewHistory(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load review history", "error", err, "suggestion_id", id)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []compliance.ReviewEvent{}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) reviewTarget(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid suggestion id", http.StatusBadRequest)
		return 0, 0, false
	}
	reviewer, ok := httpmiddleware.ReviewerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "reviewer identity required", http.StatusUnauthorized)
		return 0, 0, false
	}
	return id, reviewer, true
}

func (h *Handler) writeError(w http.ResponseWriter, action string, id int64, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		http.Error(w, "suggestion not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrInvalidTransition):
		http.Error(w, "suggestion already reviewed", http.StatusConflict)
	default:
		h.logger.Error("suggestion review failed", "error", err, "action", action, "suggestion_id", id)
		http.Error(w, "Failed to review suggestion", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
