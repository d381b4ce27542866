package dashboard

import (
	"context"

	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/clinic"
)

// CallSource provides the call sets the aggregator works over
type CallSource interface {
	ListInScope(ctx context.Context, clinicID, assistantID string) ([]call.Call, error)
}

// AssistantSource provides the assistants in scope for performance rows
type AssistantSource interface {
	ListAssistantsWithClinic(ctx context.Context, clinicID string) ([]clinic.Assistant, error)
}

// Store provides the grouping and aggregate queries
type Store interface {
	CallTypeCounts(ctx context.Context, scope Scope) (llm, human []CallTypeCount, err error)
	SentimentCounts(ctx context.Context, scope Scope) ([]SentimentCount, error)
	Totals(ctx context.Context) (*Totals, error)
}

// Service computes summary statistics and chart breakdowns for a scope
type Service struct {
	calls      CallSource
	assistants AssistantSource
	store      Store
}

// NewService creates a new metrics service
func NewService(calls CallSource, assistants AssistantSource, store Store) *Service {
	return &Service{calls: calls, assistants: assistants, store: store}
}

// NormalizeScope maps the "all" sentinels to unfiltered
func NormalizeScope(clinicID, assistantID string) Scope {
	s := Scope{}
	if clinicID != "" && clinicID != "all" {
		s.ClinicID = clinicID
	}
	if assistantID != "" && assistantID != "all" {
		s.AssistantID = assistantID
	}
	return s
}

// ClinicMetrics computes the summary block and chart breakdowns for a
// clinic/assistant scope.
func (s *Service) ClinicMetrics(ctx context.Context, scope Scope) (*ClinicMetrics, error) {
	calls, err := s.calls.ListInScope(ctx, scope.ClinicID, scope.AssistantID)
	if err != nil {
		return nil, err
	}

	summary := summarize(calls)
	scored := countScored(calls)

	// Performance rows cover every assistant of the clinic (or all
	// clinics) with that assistant's full call history, regardless of the
	// assistant filter on the summary block.
	assistants, err := s.assistants.ListAssistantsWithClinic(ctx, scope.ClinicID)
	if err != nil {
		return nil, err
	}
	perfCalls := calls
	if scope.AssistantID != "" {
		perfCalls, err = s.calls.ListInScope(ctx, scope.ClinicID, "")
		if err != nil {
			return nil, err
		}
	}

	llmCounts, humanCounts, err := s.store.CallTypeCounts(ctx, scope)
	if err != nil {
		return nil, err
	}

	sentiments := []SentimentCount{}
	if scored > 0 {
		sentiments, err = s.store.SentimentCounts(ctx, scope)
		if err != nil {
			return nil, err
		}
	}

	return &ClinicMetrics{
		Metrics: summary,
		Charts: Charts{
			AssistantPerformance:  assistantRows(assistants, perfCalls),
			CallTypeDistribution:  chooseCallTypes(llmCounts, humanCounts),
			SentimentDistribution: sentiments,
			HasLLMEvaluations:     scored > 0,
		},
	}, nil
}

// DashboardMetrics computes the narrower unfiltered summary for the
// landing view.
func (s *Service) DashboardMetrics(ctx context.Context) (*DashboardMetrics, error) {
	t, err := s.store.Totals(ctx)
	if err != nil {
		return nil, err
	}

	m := &DashboardMetrics{
		TotalCalls: t.TotalCalls,
		AvgScore:   t.AvgScore,
	}

	if t.TotalCalls > 0 {
		m.HumanEvalPercentage = float64(t.CallsWithHumanEval) / float64(t.TotalCalls) * 100
	}

	if n := len(t.BothEvalOutcomes); n > 0 {
		matches := 0
		for _, p := range t.BothEvalOutcomes {
			if p.Human == p.LLM {
				matches++
			}
		}
		m.OutcomeMatchPercentage = float64(matches) / float64(n) * 100
	}

	return m, nil
}
