package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/callsight/platform/internal/shared/errors"
	"github.com/callsight/platform/internal/shared/metrics"
)

// PostgresStore runs the grouping and aggregate queries behind the charts
// and the unfiltered dashboard summary.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new dashboard store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// scopeFilter builds the WHERE tail joining evaluations to calls and
// assistants for scope filtering. The evaluation table is aliased e.
func scopeFilter(scope Scope, conds []string, args []any) ([]string, []any) {
	if scope.ClinicID != "" {
		args = append(args, scope.ClinicID)
		conds = append(conds, fmt.Sprintf("a.clinic_id = $%d", len(args)))
	}
	if scope.AssistantID != "" {
		args = append(args, scope.AssistantID)
		conds = append(conds, fmt.Sprintf("c.assistant_id = $%d", len(args)))
	}
	return conds, args
}

// CallTypeCounts groups both evaluation kinds in scope by call type. Null
// call types are labeled UNKNOWN. The caller picks which grouping to use.
func (s *PostgresStore) CallTypeCounts(ctx context.Context, scope Scope) (llm, human []CallTypeCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("call_type_counts", time.Since(start)) }()

	llm, err = s.groupCallTypes(ctx, "llm_evaluations", scope)
	if err != nil {
		return nil, nil, err
	}
	human, err = s.groupCallTypes(ctx, "evaluations", scope)
	if err != nil {
		return nil, nil, err
	}
	return llm, human, nil
}

func (s *PostgresStore) groupCallTypes(ctx context.Context, table string, scope Scope) ([]CallTypeCount, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(e.call_type, 'UNKNOWN'), COUNT(*)
		FROM %s e
		JOIN calls c ON c.id = e.call_id
		JOIN assistants a ON a.id = c.assistant_id`, table)

	conds, args := scopeFilter(scope, nil, nil)
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " GROUP BY 1 ORDER BY 2 DESC, 1"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to group call types")
	}
	defer rows.Close()

	var counts []CallTypeCount
	for rows.Next() {
		var c CallTypeCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan call type count")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read call type counts")
	}
	return counts, nil
}

// SentimentCounts groups automated evaluations in scope by sentiment,
// excluding rows without one.
func (s *PostgresStore) SentimentCounts(ctx context.Context, scope Scope) ([]SentimentCount, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("sentiment_counts", time.Since(start)) }()

	query := `
		SELECT e.sentiment, COUNT(*)
		FROM llm_evaluations e
		JOIN calls c ON c.id = e.call_id
		JOIN assistants a ON a.id = c.assistant_id
		WHERE e.sentiment IS NOT NULL`

	conds, args := scopeFilter(scope, nil, nil)
	for _, cond := range conds {
		query += " AND " + cond
	}
	query += " GROUP BY e.sentiment ORDER BY 2 DESC, 1"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to group sentiments")
	}
	defer rows.Close()

	counts := []SentimentCount{}
	for rows.Next() {
		var c SentimentCount
		if err := rows.Scan(&c.Sentiment, &c.Count); err != nil {
			return nil, errors.Wrap(err, "failed to scan sentiment count")
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read sentiment counts")
	}
	return counts, nil
}

// Totals computes the store-level aggregates for the unfiltered dashboard
// summary in a handful of direct queries.
func (s *PostgresStore) Totals(ctx context.Context) (*Totals, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("dashboard_totals", time.Since(start)) }()

	t := &Totals{}

	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM calls`).Scan(&t.TotalCalls); err != nil {
		return nil, errors.Wrap(err, "failed to count calls")
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(score), 0) FROM llm_evaluations`).Scan(&t.AvgScore); err != nil {
		return nil, errors.Wrap(err, "failed to average scores")
	}

	if err := s.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT call_id) FROM evaluations`).Scan(&t.CallsWithHumanEval); err != nil {
		return nil, errors.Wrap(err, "failed to count evaluated calls")
	}

	rows, err := s.pool.Query(ctx, `
		SELECT e.outcome, l.outcome
		FROM calls c
		JOIN evaluations e ON e.call_id = c.id
		JOIN llm_evaluations l ON l.call_id = c.id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load outcome pairs")
	}
	defer rows.Close()

	for rows.Next() {
		var p OutcomePair
		if err := rows.Scan(&p.Human, &p.LLM); err != nil {
			return nil, errors.Wrap(err, "failed to scan outcome pair")
		}
		t.BothEvalOutcomes = append(t.BothEvalOutcomes, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read outcome pairs")
	}

	return t, nil
}
