package call

import (
	"time"

	"github.com/callsight/platform/internal/clinic"
	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/types"
)

// Call is one recorded phone call handled by an assistant, with its human
// evaluation and automated evaluation attached on nested reads.
type Call struct {
	ID           types.ID   `json:"id"`
	AssistantID  types.ID   `json:"assistant_id"`
	StartTime    time.Time  `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	Duration     *int       `json:"duration"` // seconds
	RecordingURL *string    `json:"recording_url"`

	Assistant   clinic.Assistant   `json:"assistant"`
	Evaluations []evaluation.Human `json:"evaluations"`
	LLM         *evaluation.LLM    `json:"llm_evaluation"`

	CreatedAt time.Time `json:"created_at"`
}

// HumanEvaluation returns the call's human evaluation, nil when unreviewed.
// The schema allows at most one per call.
func (c *Call) HumanEvaluation() *evaluation.Human {
	if len(c.Evaluations) == 0 {
		return nil
	}
	return &c.Evaluations[0]
}

// Successful reports whether either evaluator marked the call a success.
func (c *Call) Successful() bool {
	if c.LLM != nil && c.LLM.Outcome {
		return true
	}
	for _, e := range c.Evaluations {
		if e.Outcome {
			return true
		}
	}
	return false
}

// HasScoredLLM reports whether the call has an automated evaluation with a score.
func (c *Call) HasScoredLLM() bool {
	return c.LLM.HasScore()
}
