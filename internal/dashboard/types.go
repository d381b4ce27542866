package dashboard

// Scope restricts metrics to one clinic and optionally one assistant
// within it. Empty fields mean unfiltered; the HTTP layer maps the "all"
// sentinel to empty before it gets here.
type Scope struct {
	ClinicID    string
	AssistantID string
}

// Metrics is the summary block of the clinic metrics response. The
// percentage fields are whole-number percentages.
type Metrics struct {
	TotalCalls             int     `json:"total_calls"`
	AvgScore               float64 `json:"avg_score"`
	SuccessRate            int     `json:"success_rate"`
	HumanEvalPercentage    int     `json:"human_eval_percentage"`
	OutcomeMatchPercentage int     `json:"outcome_match_percentage"`
}

// AssistantPerformance is one per-assistant chart row. SuccessRate here is
// a 0-1 fraction, unlike the whole-number percentage in Metrics; the scale
// difference is kept because chart consumers already expect it.
type AssistantPerformance struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	SuccessRate float64 `json:"success_rate"`
	TotalCalls  int     `json:"total_calls"`
}

// CallTypeCount is one slice of the call-type distribution
type CallTypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// SentimentCount is one slice of the sentiment distribution
type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int    `json:"count"`
}

// Charts holds the chart-ready breakdowns of the clinic metrics response
type Charts struct {
	AssistantPerformance  []AssistantPerformance `json:"assistant_performance"`
	CallTypeDistribution  []CallTypeCount        `json:"call_type_distribution"`
	SentimentDistribution []SentimentCount       `json:"sentiment_distribution"`
	HasLLMEvaluations     bool                   `json:"has_llm_evaluations"`
}

// ClinicMetrics is the full filtered metrics response
type ClinicMetrics struct {
	Metrics Metrics `json:"metrics"`
	Charts  Charts  `json:"charts"`
}

// DashboardMetrics is the narrower unfiltered summary for the landing
// view. Percentages are unrounded here.
type DashboardMetrics struct {
	TotalCalls             int     `json:"total_calls"`
	AvgScore               float64 `json:"avg_score"`
	HumanEvalPercentage    float64 `json:"human_eval_percentage"`
	OutcomeMatchPercentage float64 `json:"outcome_match_percentage"`
}

// OutcomePair is the outcome booleans of a call evaluated by both kinds
type OutcomePair struct {
	Human bool
	LLM   bool
}

// Totals carries the store-level aggregates behind DashboardMetrics
type Totals struct {
	TotalCalls         int
	AvgScore           float64
	CallsWithHumanEval int
	BothEvalOutcomes   []OutcomePair
}
