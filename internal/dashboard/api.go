package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/types"
)

// Handler provides HTTP handlers for the metrics module
type Handler struct {
	service *Service
	log     *logrus.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(service *Service, log *logrus.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// Routes registers the metrics routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/dashboard", h.GetDashboardMetrics)
	r.Get("/clinics/{clinicID}", h.GetClinicMetrics)

	return r
}

// GetClinicMetrics returns the summary block and chart breakdowns for the
// clinic in the path ("all" for the global scope), optionally narrowed to
// one assistant via the assistantId query parameter.
func (h *Handler) GetClinicMetrics(w http.ResponseWriter, r *http.Request) {
	clinicID := chi.URLParam(r, "clinicID")
	if clinicID == "" {
		writeError(w, errors.Validation("clinicId is required", map[string]string{"clinicId": "missing"}))
		return
	}

	scope := NormalizeScope(clinicID, r.URL.Query().Get("assistantId"))
	if scope.ClinicID != "" {
		if _, err := types.ParseID(scope.ClinicID); err != nil {
			writeError(w, errors.BadRequest("invalid clinicId"))
			return
		}
	}
	if scope.AssistantID != "" {
		if _, err := types.ParseID(scope.AssistantID); err != nil {
			writeError(w, errors.BadRequest("invalid assistantId"))
			return
		}
	}

	out, err := h.service.ClinicMetrics(r.Context(), scope)
	if err != nil {
		h.log.WithError(err).Error("failed to compute clinic metrics")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// GetDashboardMetrics returns the unfiltered landing-view summary
func (h *Handler) GetDashboardMetrics(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.DashboardMetrics(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to compute dashboard metrics")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
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
