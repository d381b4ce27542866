package call

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/callsight/platform/internal/cache"
	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the call module. Reads go through the
// call cache when one is configured; evaluation writes invalidate it.
type Handler struct {
	repo  *Repository
	cache *cache.Client
	log   *logrus.Logger
}

// NewHandler creates a new call handler
func NewHandler(repo *Repository, cacheClient *cache.Client, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, cache: cacheClient, log: log}
}

// ListCalls returns the entire call history, newest first
func (h *Handler) ListCalls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cache != nil {
		var cached []Call
		hit, err := h.cache.GetJSON(ctx, cache.CallListKey, &cached)
		if err != nil {
			h.log.WithError(err).Warn("call list cache read failed")
		} else if hit {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	calls, err := h.repo.List(ctx)
	if err != nil {
		h.log.WithError(err).Error("failed to list calls")
		writeError(w, err)
		return
	}
	if calls == nil {
		calls = []Call{}
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cache.CallListKey, calls); err != nil {
			h.log.WithError(err).Warn("call list cache write failed")
		}
	}

	writeJSON(w, http.StatusOK, calls)
}

// GetCall returns one call by ID
func (h *Handler) GetCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := types.ParseID(chi.URLParam(r, "callID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid call ID"))
		return
	}

	if h.cache != nil {
		var cached Call
		hit, err := h.cache.GetJSON(ctx, cache.CallKey(id), &cached)
		if err != nil {
			h.log.WithError(err).Warn("call cache read failed")
		} else if hit {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	c, err := h.repo.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, errors.ErrNotFound) {
			h.log.WithError(err).Error("failed to get call")
		}
		writeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(ctx, cache.CallKey(id), c); err != nil {
			h.log.WithError(err).Warn("call cache write failed")
		}
	}

	writeJSON(w, http.StatusOK, c)
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
