package dashboard

import (
	"fmt"
	"math"

	"github.com/callsight/platform/internal/call"
	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/shared/types"
)

// summarize computes the summary block over a call set. A call counts as
// successful when either evaluator marked it so; the outcome-agreement
// rate only considers calls carrying both evaluation kinds.
func summarize(calls []call.Call) Metrics {
	total := len(calls)

	var successful, withHuman, scored, both, matches int
	var scoreSum float64

	for i := range calls {
		c := &calls[i]
		if c.Successful() {
			successful++
		}
		if c.HumanEvaluation() != nil {
			withHuman++
		}
		if c.HasScoredLLM() {
			scored++
			scoreSum += *c.LLM.Score
		}
		if human := c.HumanEvaluation(); human != nil && c.LLM != nil {
			both++
			if human.Outcome == c.LLM.Outcome {
				matches++
			}
		}
	}

	avgScore := 0.0
	if scored > 0 {
		avgScore = round2(scoreSum / float64(scored))
	}

	return Metrics{
		TotalCalls:             total,
		AvgScore:               avgScore,
		SuccessRate:            roundPct(successful, total),
		HumanEvalPercentage:    roundPct(withHuman, total),
		OutcomeMatchPercentage: roundPct(matches, both),
	}
}

// countScored returns how many calls carry a scored automated evaluation
func countScored(calls []call.Call) int {
	n := 0
	for i := range calls {
		if calls[i].HasScoredLLM() {
			n++
		}
	}
	return n
}

// assistantRows recomputes call count, average score and success rate per
// assistant. Every assistant in scope gets a row, including those without
// calls. SuccessRate is a 0-1 fraction here.
func assistantRows(assistants []clinic.Assistant, calls []call.Call) []AssistantPerformance {
	byAssistant := make(map[types.ID][]call.Call)
	for _, c := range calls {
		byAssistant[c.AssistantID] = append(byAssistant[c.AssistantID], c)
	}

	rows := make([]AssistantPerformance, 0, len(assistants))
	for _, a := range assistants {
		assistantCalls := byAssistant[a.ID]
		total := len(assistantCalls)

		var successful, scored int
		var scoreSum float64
		for i := range assistantCalls {
			c := &assistantCalls[i]
			if c.Successful() {
				successful++
			}
			if c.HasScoredLLM() {
				scored++
				scoreSum += *c.LLM.Score
			}
		}

		avgScore := 0.0
		if scored > 0 {
			avgScore = round2(scoreSum / float64(scored))
		}
		successRate := 0.0
		if total > 0 {
			successRate = round2(float64(successful) / float64(total))
		}

		name := a.Name
		if a.Clinic != nil {
			name = fmt.Sprintf("%s (%s)", a.Name, a.Clinic.Name)
		}

		rows = append(rows, AssistantPerformance{
			Name:        name,
			Score:       avgScore,
			SuccessRate: successRate,
			TotalCalls:  total,
		})
	}

	return rows
}

// chooseCallTypes picks the automated-evaluation grouping when any exists,
// otherwise falls back to the human grouping. The two are never merged.
func chooseCallTypes(llm, human []CallTypeCount) []CallTypeCount {
	if len(llm) > 0 {
		return llm
	}
	if human == nil {
		return []CallTypeCount{}
	}
	return human
}

// roundPct returns n/d as a whole-number percentage, 0 when d is 0
func roundPct(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}

// round2 rounds to two decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
