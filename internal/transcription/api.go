package transcription

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/metrics"
)

// maxUploadSize bounds the multipart audio upload (25MB, the provider's own cap)
const maxUploadSize = 25 << 20

// Handler provides HTTP handlers for transcription
type Handler struct {
	client *Client
	log    *logrus.Logger
}

// NewHandler creates a new transcription handler
func NewHandler(client *Client, log *logrus.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// Routes registers the transcription routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Transcribe)

	return r
}

type transcribeURLRequest struct {
	AudioURL string `json:"audio_url"`
}

// Transcribe accepts either a multipart upload (field "file") or a JSON
// body naming a recording URL, and returns the transcript.
func (h *Handler) Transcribe(w http.ResponseWriter, r *http.Request) {
	result, err := h.transcribe(r)
	if err != nil {
		metrics.RecordTranscription("error")
		h.log.WithError(err).Error("transcription failed")
		writeError(w, err)
		return
	}

	metrics.RecordTranscription("ok")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) transcribe(r *http.Request) (*Result, error) {
	ctx := r.Context()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req transcribeURLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, errors.BadRequest("invalid request body: " + err.Error())
		}
		if req.AudioURL == "" {
			return nil, errors.Validation("audio_url is required", map[string]string{"audio_url": "missing"})
		}
		return h.client.TranscribeURL(ctx, req.AudioURL)
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, errors.BadRequest("invalid multipart form: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, errors.Validation("file is required", map[string]string{"file": "missing"})
	}
	defer file.Close()

	return h.client.Transcribe(ctx, header.Filename, file)
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
