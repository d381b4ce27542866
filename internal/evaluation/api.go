package evaluation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/callsight/platform/internal/cache"
	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/types"
)

// Store is the write store behind the evaluation handlers
type Store interface {
	CreateHuman(ctx context.Context, in CreateHumanInput) (*Human, error)
	UpdateHuman(ctx context.Context, id types.ID, in UpdateHumanInput) (*Human, error)
	UpdateLLMReview(ctx context.Context, id types.ID, approved bool, reviewerName, reviewComment string) (*LLM, error)
}

// Handler provides HTTP handlers for the evaluation writer. Successful
// writes invalidate the cached views of the affected call and the call
// list so subsequent reads reflect the change.
type Handler struct {
	repo  Store
	cache *cache.Client
	log   *logrus.Logger
}

// NewHandler creates a new evaluation handler
func NewHandler(repo Store, cacheClient *cache.Client, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, cache: cacheClient, log: log}
}

// --- Request types ---

type humanEvaluationRequest struct {
	ReviewerName string   `json:"reviewer_name"`
	Outcome      bool     `json:"outcome"`
	Feedback     string   `json:"feedback"`
	CallType     string   `json:"call_type"`
	Tags         []string `json:"tags"`
}

func (req *humanEvaluationRequest) validate() (CallType, *errors.AppError) {
	details := map[string]string{}
	if req.ReviewerName == "" {
		details["reviewer_name"] = "missing"
	}

	var callType CallType
	if req.CallType != "" {
		ct, err := ParseCallType(req.CallType)
		if err != nil {
			details["call_type"] = err.Error()
		}
		callType = ct
	}

	for _, tag := range req.Tags {
		if !ValidTag(tag) {
			details["tags"] = "unknown tag: " + tag
			break
		}
	}

	if len(details) > 0 {
		return "", errors.Validation("invalid evaluation", details)
	}
	return callType, nil
}

type llmReviewRequest struct {
	Approved      bool   `json:"approved"`
	ReviewerName  string `json:"reviewer_name"`
	ReviewComment string `json:"review_comment"`
}

// --- Handlers ---

// CreateHuman records a reviewer's evaluation of a call
func (h *Handler) CreateHuman(w http.ResponseWriter, r *http.Request) {
	callID, err := types.ParseID(chi.URLParam(r, "callID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid call ID"))
		return
	}

	var req humanEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	callType, appErr := req.validate()
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	created, err := h.repo.CreateHuman(r.Context(), CreateHumanInput{
		CallID:       callID,
		ReviewerName: req.ReviewerName,
		Outcome:      req.Outcome,
		Feedback:     req.Feedback,
		CallType:     callType,
		Tags:         req.Tags,
	})
	if err != nil {
		h.logWriteError(err, "create evaluation")
		writeError(w, err)
		return
	}

	h.invalidateCall(r, callID)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateHuman overwrites an existing evaluation
func (h *Handler) UpdateHuman(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "evaluationID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid evaluation ID"))
		return
	}

	var req humanEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}

	callType, appErr := req.validate()
	if appErr != nil {
		writeError(w, appErr)
		return
	}

	updated, err := h.repo.UpdateHuman(r.Context(), id, UpdateHumanInput{
		ReviewerName: req.ReviewerName,
		Outcome:      req.Outcome,
		Feedback:     req.Feedback,
		CallType:     callType,
		Tags:         req.Tags,
	})
	if err != nil {
		h.logWriteError(err, "update evaluation")
		writeError(w, err)
		return
	}

	h.invalidateCall(r, updated.CallID)
	writeJSON(w, http.StatusOK, updated)
}

// UpdateLLMReview records a reviewer's verdict on an automated evaluation
func (h *Handler) UpdateLLMReview(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "evaluationID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid evaluation ID"))
		return
	}

	var req llmReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body: "+err.Error()))
		return
	}
	if req.ReviewerName == "" {
		writeError(w, errors.Validation("invalid review", map[string]string{"reviewer_name": "missing"}))
		return
	}

	updated, err := h.repo.UpdateLLMReview(r.Context(), id, req.Approved, req.ReviewerName, req.ReviewComment)
	if err != nil {
		h.logWriteError(err, "update llm review")
		writeError(w, err)
		return
	}

	h.invalidateCall(r, updated.CallID)
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) invalidateCall(r *http.Request, callID types.ID) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(r.Context(), cache.CallKey(callID), cache.CallListKey); err != nil {
		h.log.WithError(err).Warn("call cache invalidation failed")
	}
}

func (h *Handler) logWriteError(err error, op string) {
	if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrConflict) {
		return
	}
	h.log.WithError(err).Errorf("failed to %s", op)
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
