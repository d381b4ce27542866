package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/shared/types"
)

type fakeCallSource struct {
	calls    map[string][]call.Call // keyed by "clinicID|assistantID"
	requests []string
}

func (f *fakeCallSource) ListInScope(_ context.Context, clinicID, assistantID string) ([]call.Call, error) {
	key := clinicID + "|" + assistantID
	f.requests = append(f.requests, key)
	return f.calls[key], nil
}

type fakeAssistantSource struct {
	assistants []clinic.Assistant
}

func (f *fakeAssistantSource) ListAssistantsWithClinic(_ context.Context, _ string) ([]clinic.Assistant, error) {
	return f.assistants, nil
}

type fakeStore struct {
	llm        []CallTypeCount
	human      []CallTypeCount
	sentiments []SentimentCount
	totals     *Totals

	sentimentQueried bool
}

func (f *fakeStore) CallTypeCounts(_ context.Context, _ Scope) ([]CallTypeCount, []CallTypeCount, error) {
	return f.llm, f.human, nil
}

func (f *fakeStore) SentimentCounts(_ context.Context, _ Scope) ([]SentimentCount, error) {
	f.sentimentQueried = true
	return f.sentiments, nil
}

func (f *fakeStore) Totals(_ context.Context) (*Totals, error) {
	return f.totals, nil
}

func TestNormalizeScope(t *testing.T) {
	assert.Equal(t, Scope{}, NormalizeScope("all", ""))
	assert.Equal(t, Scope{}, NormalizeScope("all", "all"))
	assert.Equal(t, Scope{ClinicID: "c1"}, NormalizeScope("c1", "all"))
	assert.Equal(t, Scope{ClinicID: "c1", AssistantID: "a1"}, NormalizeScope("c1", "a1"))
}

func TestClinicMetricsShape(t *testing.T) {
	cl := &clinic.Clinic{ID: types.NewID(), Name: "Lakeside"}
	a := clinic.Assistant{ID: types.NewID(), Name: "Front Desk", Clinic: cl}

	scoped := []call.Call{
		makeCall(a.ID, llmEval(score(80), true)),
		makeCall(a.ID, llmEval(score(40), false), humanEval(false)),
	}

	calls := &fakeCallSource{calls: map[string][]call.Call{
		cl.ID.String() + "|": scoped,
	}}
	store := &fakeStore{
		llm:        []CallTypeCount{{Type: "BILLING", Count: 2}},
		human:      []CallTypeCount{{Type: "GENERAL_INQUIRY", Count: 1}},
		sentiments: []SentimentCount{{Sentiment: "positive", Count: 1}},
	}

	svc := NewService(calls, &fakeAssistantSource{assistants: []clinic.Assistant{a}}, store)

	out, err := svc.ClinicMetrics(context.Background(), Scope{ClinicID: cl.ID.String()})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Metrics.TotalCalls)
	assert.Equal(t, 60.0, out.Metrics.AvgScore)
	assert.Equal(t, 50, out.Metrics.SuccessRate)
	assert.Equal(t, 50, out.Metrics.HumanEvalPercentage)
	assert.Equal(t, 100, out.Metrics.OutcomeMatchPercentage)

	assert.True(t, out.Charts.HasLLMEvaluations)
	assert.Equal(t, []CallTypeCount{{Type: "BILLING", Count: 2}}, out.Charts.CallTypeDistribution)
	assert.Equal(t, []SentimentCount{{Sentiment: "positive", Count: 1}}, out.Charts.SentimentDistribution)
	require.Len(t, out.Charts.AssistantPerformance, 1)
	assert.Equal(t, "Front Desk (Lakeside)", out.Charts.AssistantPerformance[0].Name)
}

func TestClinicMetricsSkipsSentimentWithoutScores(t *testing.T) {
	a := types.NewID()
	calls := &fakeCallSource{calls: map[string][]call.Call{
		"|": {makeCall(a, nil, humanEval(true))},
	}}
	store := &fakeStore{
		human:      []CallTypeCount{{Type: "BILLING", Count: 1}},
		sentiments: []SentimentCount{{Sentiment: "positive", Count: 9}},
	}

	svc := NewService(calls, &fakeAssistantSource{}, store)

	out, err := svc.ClinicMetrics(context.Background(), Scope{})
	require.NoError(t, err)

	assert.False(t, store.sentimentQueried)
	assert.False(t, out.Charts.HasLLMEvaluations)
	assert.Empty(t, out.Charts.SentimentDistribution)
	// with zero automated evaluations the human grouping is used
	assert.Equal(t, []CallTypeCount{{Type: "BILLING", Count: 1}}, out.Charts.CallTypeDistribution)
}

func TestClinicMetricsPerformanceIgnoresAssistantFilter(t *testing.T) {
	cl := &clinic.Clinic{ID: types.NewID(), Name: "Summit"}
	a1 := clinic.Assistant{ID: types.NewID(), Name: "Reception", Clinic: cl}
	a2 := clinic.Assistant{ID: types.NewID(), Name: "After Hours", Clinic: cl}

	a1Calls := []call.Call{makeCall(a1.ID, llmEval(score(90), true))}
	clinicCalls := append([]call.Call{makeCall(a2.ID, llmEval(score(30), false))}, a1Calls...)

	calls := &fakeCallSource{calls: map[string][]call.Call{
		cl.ID.String() + "|" + a1.ID.String(): a1Calls,
		cl.ID.String() + "|":                  clinicCalls,
	}}
	store := &fakeStore{}

	svc := NewService(calls, &fakeAssistantSource{assistants: []clinic.Assistant{a1, a2}}, store)

	out, err := svc.ClinicMetrics(context.Background(),
		Scope{ClinicID: cl.ID.String(), AssistantID: a1.ID.String()})
	require.NoError(t, err)

	// summary block is assistant-scoped
	assert.Equal(t, 1, out.Metrics.TotalCalls)
	// performance rows still cover the whole clinic
	require.Len(t, out.Charts.AssistantPerformance, 2)
	assert.Equal(t, 1, out.Charts.AssistantPerformance[1].TotalCalls)
}

func TestDashboardMetrics(t *testing.T) {
	store := &fakeStore{totals: &Totals{
		TotalCalls:         3,
		AvgScore:           61.5,
		CallsWithHumanEval: 1,
		BothEvalOutcomes: []OutcomePair{
			{Human: true, LLM: false},
		},
	}}

	svc := NewService(&fakeCallSource{}, &fakeAssistantSource{}, store)

	out, err := svc.DashboardMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalCalls)
	assert.Equal(t, 61.5, out.AvgScore)
	assert.InDelta(t, 33.333, out.HumanEvalPercentage, 0.001)
	assert.Equal(t, 0.0, out.OutcomeMatchPercentage)
}

func TestDashboardMetricsEmptyStore(t *testing.T) {
	store := &fakeStore{totals: &Totals{}}
	svc := NewService(&fakeCallSource{}, &fakeAssistantSource{}, store)

	out, err := svc.DashboardMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, out.TotalCalls)
	assert.Equal(t, 0.0, out.AvgScore)
	assert.Equal(t, 0.0, out.HumanEvalPercentage)
	assert.Equal(t, 0.0, out.OutcomeMatchPercentage)
}
