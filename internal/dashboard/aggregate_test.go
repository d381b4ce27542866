package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/types"
)

func llmEval(score *float64, outcome bool) *evaluation.LLM {
	return &evaluation.LLM{
		ID:      types.NewID(),
		Score:   score,
		Outcome: outcome,
	}
}

func humanEval(outcome bool) evaluation.Human {
	return evaluation.Human{
		ID:      types.NewID(),
		Outcome: outcome,
	}
}

func score(v float64) *float64 { return &v }

func makeCall(assistantID types.ID, llm *evaluation.LLM, humans ...evaluation.Human) call.Call {
	return call.Call{
		ID:          types.NewID(),
		AssistantID: assistantID,
		LLM:         llm,
		Evaluations: humans,
	}
}

func TestSummarizeEmptyScope(t *testing.T) {
	m := summarize(nil)

	assert.Equal(t, 0, m.TotalCalls)
	assert.Equal(t, 0.0, m.AvgScore)
	assert.Equal(t, 0, m.SuccessRate)
	assert.Equal(t, 0, m.HumanEvalPercentage)
	assert.Equal(t, 0, m.OutcomeMatchPercentage)
}

func TestSummarizeScoresAndSuccessRate(t *testing.T) {
	a := types.NewID()
	calls := []call.Call{
		makeCall(a, llmEval(score(80), true)),
		makeCall(a, llmEval(score(60), false)),
		makeCall(a, llmEval(score(40), true)),
	}

	m := summarize(calls)

	assert.Equal(t, 3, m.TotalCalls)
	assert.Equal(t, 60.0, m.AvgScore)
	assert.Equal(t, 67, m.SuccessRate) // round(2/3*100)
	assert.Equal(t, 0, m.HumanEvalPercentage)
	assert.Equal(t, 0, m.OutcomeMatchPercentage)
}

func TestSummarizeSuccessCountsEitherEvaluator(t *testing.T) {
	a := types.NewID()
	tests := []struct {
		name        string
		c           call.Call
		successRate int
	}{
		{"ai success only", makeCall(a, llmEval(score(50), true)), 100},
		{"human success only", makeCall(a, llmEval(score(50), false), humanEval(true)), 100},
		{"both fail", makeCall(a, llmEval(score(50), false), humanEval(false)), 0},
		{"no evaluations", makeCall(a, nil), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := summarize([]call.Call{tt.c})
			assert.Equal(t, tt.successRate, m.SuccessRate)
			assert.LessOrEqual(t, m.SuccessRate, 100)
		})
	}
}

func TestSummarizeOutcomeMismatch(t *testing.T) {
	a := types.NewID()
	calls := []call.Call{
		makeCall(a, llmEval(score(70), false), humanEval(true)),
	}

	m := summarize(calls)

	// restricted set has exactly one call, and it disagrees
	assert.Equal(t, 0, m.OutcomeMatchPercentage)
	assert.Equal(t, 100, m.HumanEvalPercentage)
}

func TestSummarizeOutcomeMatchIgnoresSingleEvalCalls(t *testing.T) {
	a := types.NewID()
	base := []call.Call{
		makeCall(a, llmEval(score(70), true), humanEval(true)),
	}
	m := summarize(base)
	assert.Equal(t, 100, m.OutcomeMatchPercentage)

	// calls carrying only one evaluation kind must not move the rate
	withExtras := append(base,
		makeCall(a, llmEval(score(20), false)),
		makeCall(a, nil, humanEval(false)),
	)
	m = summarize(withExtras)
	assert.Equal(t, 100, m.OutcomeMatchPercentage)
}

func TestSummarizeAvgScoreSkipsUnscored(t *testing.T) {
	a := types.NewID()
	calls := []call.Call{
		makeCall(a, llmEval(score(90), true)),
		makeCall(a, llmEval(nil, true)), // outcome without score
		makeCall(a, nil),
	}

	m := summarize(calls)

	assert.Equal(t, 90.0, m.AvgScore)
}

func TestAssistantRowsFractionScale(t *testing.T) {
	cl := &clinic.Clinic{ID: types.NewID(), Name: "Lakeside"}
	a := clinic.Assistant{ID: types.NewID(), Name: "Front Desk", Clinic: cl}

	calls := []call.Call{
		makeCall(a.ID, llmEval(score(80), true)),
		makeCall(a.ID, llmEval(score(60), false)),
	}

	rows := assistantRows([]clinic.Assistant{a}, calls)

	assert.Len(t, rows, 1)
	assert.Equal(t, "Front Desk (Lakeside)", rows[0].Name)
	assert.Equal(t, 2, rows[0].TotalCalls)
	assert.Equal(t, 70.0, rows[0].Score)
	// per-assistant success rate is a 0-1 fraction, not a percentage
	assert.Equal(t, 0.5, rows[0].SuccessRate)
}

func TestAssistantRowsIncludeIdleAssistants(t *testing.T) {
	cl := &clinic.Clinic{ID: types.NewID(), Name: "Summit"}
	busy := clinic.Assistant{ID: types.NewID(), Name: "Reception", Clinic: cl}
	idle := clinic.Assistant{ID: types.NewID(), Name: "After Hours", Clinic: cl}

	calls := []call.Call{makeCall(busy.ID, llmEval(score(75), true))}

	rows := assistantRows([]clinic.Assistant{busy, idle}, calls)

	assert.Len(t, rows, 2)
	assert.Equal(t, 0, rows[1].TotalCalls)
	assert.Equal(t, 0.0, rows[1].Score)
	assert.Equal(t, 0.0, rows[1].SuccessRate)
}

func TestChooseCallTypes(t *testing.T) {
	llm := []CallTypeCount{{Type: "BILLING", Count: 3}}
	human := []CallTypeCount{{Type: "GENERAL_INQUIRY", Count: 5}}

	// automated grouping wins when present; the two are never merged
	assert.Equal(t, llm, chooseCallTypes(llm, human))
	assert.Equal(t, human, chooseCallTypes(nil, human))
	assert.Equal(t, []CallTypeCount{}, chooseCallTypes(nil, nil))
}

func TestRoundPct(t *testing.T) {
	tests := []struct {
		n, d, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{2, 3, 67},
		{1, 3, 33},
		{1, 2, 50},
		{3, 3, 100},
	}

	for _, tt := range tests {
		if got := roundPct(tt.n, tt.d); got != tt.want {
			t.Errorf("roundPct(%d, %d) = %d, want %d", tt.n, tt.d, got, tt.want)
		}
	}
}
