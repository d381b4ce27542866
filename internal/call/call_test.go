package call

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/types"
)

func TestHumanEvaluation(t *testing.T) {
	c := Call{ID: types.NewID()}
	assert.Nil(t, c.HumanEvaluation())

	ev := evaluation.Human{ID: types.NewID(), ReviewerName: "Dana", Outcome: true}
	c.Evaluations = []evaluation.Human{ev}
	got := c.HumanEvaluation()
	assert.NotNil(t, got)
	assert.Equal(t, ev.ID, got.ID)
}

func TestSuccessful(t *testing.T) {
	score := 70.0
	tests := []struct {
		name string
		call Call
		want bool
	}{
		{name: "no evaluations", call: Call{}, want: false},
		{
			name: "automated success",
			call: Call{LLM: &evaluation.LLM{Score: &score, Outcome: true}},
			want: true,
		},
		{
			name: "human success only",
			call: Call{
				LLM:         &evaluation.LLM{Outcome: false},
				Evaluations: []evaluation.Human{{Outcome: true}},
			},
			want: true,
		},
		{
			name: "both negative",
			call: Call{
				LLM:         &evaluation.LLM{Outcome: false},
				Evaluations: []evaluation.Human{{Outcome: false}},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.call.Successful())
		})
	}
}

func TestHasScoredLLM(t *testing.T) {
	c := Call{}
	assert.False(t, c.HasScoredLLM())

	c.LLM = &evaluation.LLM{}
	assert.False(t, c.HasScoredLLM())

	score := 55.0
	c.LLM.Score = &score
	assert.True(t, c.HasScoredLLM())
}
