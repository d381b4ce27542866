package evaluation

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/metrics"
	"github.com/callsight/platform/internal/shared/types"
)

// Repository provides database operations for evaluations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new evaluation repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateHumanInput carries the fields of a new human evaluation
type CreateHumanInput struct {
	CallID       types.ID
	ReviewerName string
	Outcome      bool
	Feedback     string
	CallType     CallType
	Tags         []string
}

// CreateHuman inserts a human evaluation for a call. Each call takes at
// most one; a second insert returns a conflict.
func (r *Repository) CreateHuman(ctx context.Context, in CreateHumanInput) (*Human, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("create_evaluation", time.Since(start)) }()

	e := &Human{
		ID:           types.NewID(),
		CallID:       in.CallID,
		ReviewerName: in.ReviewerName,
		Outcome:      in.Outcome,
		Feedback:     in.Feedback,
		Tags:         in.Tags,
	}
	if in.CallType != "" {
		ct := in.CallType
		e.CallType = &ct
	}
	if e.Tags == nil {
		e.Tags = []string{}
	}

	query := `
		INSERT INTO evaluations (id, call_id, reviewer_name, outcome, feedback, call_type, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		e.ID, e.CallID, e.ReviewerName, e.Outcome, e.Feedback, e.CallType, e.Tags,
	).Scan(&e.CreatedAt, &e.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "evaluations_call_unique") {
			return nil, errors.Conflict("call already has a human evaluation")
		}
		if strings.Contains(err.Error(), "foreign key") {
			return nil, errors.NotFound("call", e.CallID.String())
		}
		return nil, errors.Wrap(err, "failed to create evaluation")
	}

	metrics.RecordEvaluationCreated(string(in.CallType))
	return e, nil
}

// UpdateHumanInput carries the mutable fields of a human evaluation
type UpdateHumanInput struct {
	ReviewerName string
	Outcome      bool
	Feedback     string
	CallType     CallType
	Tags         []string
}

// UpdateHuman overwrites all mutable fields of an evaluation by ID
func (r *Repository) UpdateHuman(ctx context.Context, id types.ID, in UpdateHumanInput) (*Human, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update_evaluation", time.Since(start)) }()

	var callType *CallType
	if in.CallType != "" {
		ct := in.CallType
		callType = &ct
	}
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		UPDATE evaluations
		SET reviewer_name = $2, outcome = $3, feedback = $4, call_type = $5,
			tags = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, call_id, reviewer_name, outcome, feedback, call_type, tags,
			created_at, updated_at`

	e := &Human{}
	err := r.pool.QueryRow(ctx, query,
		id, in.ReviewerName, in.Outcome, in.Feedback, callType, tags,
	).Scan(&e.ID, &e.CallID, &e.ReviewerName, &e.Outcome, &e.Feedback,
		&e.CallType, &e.Tags, &e.CreatedAt, &e.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("evaluation", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update evaluation")
	}

	metrics.RecordEvaluationUpdated()
	return e, nil
}

// UpdateLLMReview overwrites only the reviewer-facing fields of an
// automated evaluation. The AI-generated fields are never touched.
func (r *Repository) UpdateLLMReview(ctx context.Context, id types.ID, approved bool, reviewerName, reviewComment string) (*LLM, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("update_llm_review", time.Since(start)) }()

	query := `
		UPDATE llm_evaluations
		SET approved = $2, reviewer_name = $3, review_comment = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, call_id, score, outcome, llm_feedback, call_type, tags,
			sentiment, protocol_adherence, approved, reviewer_name, review_comment,
			created_at, updated_at`

	l := &LLM{}
	err := r.pool.QueryRow(ctx, query, id, approved, reviewerName, reviewComment).Scan(
		&l.ID, &l.CallID, &l.Score, &l.Outcome, &l.LLMFeedback, &l.CallType, &l.Tags,
		&l.Sentiment, &l.ProtocolAdherence, &l.Approved, &l.ReviewerName, &l.ReviewComment,
		&l.CreatedAt, &l.UpdatedAt)

	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("llm evaluation", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update llm evaluation review")
	}

	metrics.RecordLLMReview(approved)
	return l, nil
}
