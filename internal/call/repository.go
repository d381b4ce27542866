package call

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/metrics"
	"github.com/callsight/platform/internal/shared/types"
)

// Repository provides database operations for calls
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new call repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const callSelect = `
	SELECT c.id, c.assistant_id, c.start_time, c.end_time, c.duration_seconds,
		c.recording_url, c.created_at,
		a.id, a.clinic_id, a.name, a.created_at,
		cl.id, cl.name, cl.created_at
	FROM calls c
	JOIN assistants a ON a.id = c.assistant_id
	JOIN clinics cl ON cl.id = a.clinic_id`

// List returns the entire call history, newest first, with assistant,
// clinic and both evaluation kinds attached. No pagination.
func (r *Repository) List(ctx context.Context) ([]Call, error) {
	return r.ListInScope(ctx, "", "")
}

// ListInScope returns calls filtered to a clinic and optionally an
// assistant within it. Empty strings mean no filter.
func (r *Repository) ListInScope(ctx context.Context, clinicID, assistantID string) ([]Call, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_calls", time.Since(start)) }()

	query := callSelect
	args := []any{}
	if clinicID != "" {
		args = append(args, clinicID)
		query += fmt.Sprintf(" WHERE a.clinic_id = $%d", len(args))
	}
	if assistantID != "" {
		args = append(args, assistantID)
		if clinicID != "" {
			query += fmt.Sprintf(" AND c.assistant_id = $%d", len(args))
		} else {
			query += fmt.Sprintf(" WHERE c.assistant_id = $%d", len(args))
		}
	}
	query += " ORDER BY c.start_time DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list calls")
	}
	defer rows.Close()

	calls, err := scanCalls(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachEvaluations(ctx, calls); err != nil {
		return nil, err
	}

	return calls, nil
}

// Get returns one call with the same nested shape as List
func (r *Repository) Get(ctx context.Context, id types.ID) (*Call, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("get_call", time.Since(start)) }()

	rows, err := r.pool.Query(ctx, callSelect+" WHERE c.id = $1", id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get call")
	}
	defer rows.Close()

	calls, err := scanCalls(rows)
	if err != nil {
		return nil, err
	}
	if len(calls) == 0 {
		return nil, errors.NotFound("call", id.String())
	}

	if err := r.attachEvaluations(ctx, calls); err != nil {
		return nil, err
	}

	return &calls[0], nil
}

func scanCalls(rows pgx.Rows) ([]Call, error) {
	var calls []Call
	for rows.Next() {
		var c Call
		var cl clinic.Clinic
		if err := rows.Scan(
			&c.ID, &c.AssistantID, &c.StartTime, &c.EndTime, &c.Duration,
			&c.RecordingURL, &c.CreatedAt,
			&c.Assistant.ID, &c.Assistant.ClinicID, &c.Assistant.Name, &c.Assistant.CreatedAt,
			&cl.ID, &cl.Name, &cl.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan call")
		}
		c.Assistant.Clinic = &cl
		c.Evaluations = []evaluation.Human{}
		calls = append(calls, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read calls")
	}
	return calls, nil
}

// attachEvaluations loads both evaluation kinds for the given calls in two
// queries and stitches them in by call ID.
func (r *Repository) attachEvaluations(ctx context.Context, calls []Call) error {
	if len(calls) == 0 {
		return nil
	}

	ids := make([]string, len(calls))
	index := make(map[types.ID]*Call, len(calls))
	for i := range calls {
		ids[i] = calls[i].ID.String()
		index[calls[i].ID] = &calls[i]
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, call_id, reviewer_name, outcome, feedback, call_type, tags,
			created_at, updated_at
		FROM evaluations
		WHERE call_id = ANY($1)
		ORDER BY created_at`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load evaluations")
	}
	defer rows.Close()

	for rows.Next() {
		var e evaluation.Human
		if err := rows.Scan(&e.ID, &e.CallID, &e.ReviewerName, &e.Outcome,
			&e.Feedback, &e.CallType, &e.Tags, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return errors.Wrap(err, "failed to scan evaluation")
		}
		if c, ok := index[e.CallID]; ok {
			c.Evaluations = append(c.Evaluations, e)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, "failed to read evaluations")
	}

	llmRows, err := r.pool.Query(ctx, `
		SELECT id, call_id, score, outcome, llm_feedback, call_type, tags,
			sentiment, protocol_adherence, approved, reviewer_name, review_comment,
			created_at, updated_at
		FROM llm_evaluations
		WHERE call_id = ANY($1)`, ids)
	if err != nil {
		return errors.Wrap(err, "failed to load llm evaluations")
	}
	defer llmRows.Close()

	for llmRows.Next() {
		var l evaluation.LLM
		if err := llmRows.Scan(&l.ID, &l.CallID, &l.Score, &l.Outcome,
			&l.LLMFeedback, &l.CallType, &l.Tags, &l.Sentiment, &l.ProtocolAdherence,
			&l.Approved, &l.ReviewerName, &l.ReviewComment,
			&l.CreatedAt, &l.UpdatedAt); err != nil {
			return errors.Wrap(err, "failed to scan llm evaluation")
		}
		if c, ok := index[l.CallID]; ok {
			llm := l
			c.LLM = &llm
		}
	}
	if err := llmRows.Err(); err != nil {
		return errors.Wrap(err, "failed to read llm evaluations")
	}

	return nil
}
