package clinic

import (
	"encoding/json"
	"net/http"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/types"
)

// Handler provides HTTP handlers for clinics and assistants
type Handler struct {
	repo *Repository
}

// NewHandler creates a new clinic handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

type clinicResponse struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

// ListClinics returns all clinics as {id, name} pairs
func (h *Handler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.repo.ListClinics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]clinicResponse, 0, len(clinics))
	for _, c := range clinics {
		out = append(out, clinicResponse{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListAssistants returns the assistants of the clinic given by clinicId
func (h *Handler) ListAssistants(w http.ResponseWriter, r *http.Request) {
	clinicID := r.URL.Query().Get("clinicId")
	if clinicID == "" {
		writeError(w, errors.Validation("clinicId is required", map[string]string{"clinicId": "missing"}))
		return
	}

	id, err := types.ParseID(clinicID)
	if err != nil {
		writeError(w, errors.BadRequest("invalid clinicId"))
		return
	}

	assistants, err := h.repo.ListAssistants(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]clinicResponse, 0, len(assistants))
	for _, a := range assistants {
		out = append(out, clinicResponse{ID: a.ID, Name: a.Name})
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
