package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/callsight/platform/internal/evaluation"
	"github.com/callsight/platform/internal/shared/config"
	"github.com/callsight/platform/internal/shared/database"
	"github.com/callsight/platform/internal/shared/types"
)

// Seeds a local database with sample clinics, assistants, calls and
// evaluations. Production data arrives through the calling-platform
// ingestion pipeline; this stands in for it during development.

type seedCall struct {
	assistant    int // index into assistants
	minutesAgo   int
	duration     int
	llmScore     *float64
	llmOutcome   bool
	llmCallType  evaluation.CallType
	llmSentiment string
	humanOutcome *bool
	humanType    evaluation.CallType
}

func f(v float64) *float64 { return &v }
func b(v bool) *bool       { return &v }

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if _, err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	clinics := []struct {
		id   types.ID
		name string
	}{
		{types.NewID(), "Lakeside Veterinary Clinic"},
		{types.NewID(), "Summit Animal Hospital"},
	}

	assistants := []struct {
		id     types.ID
		clinic int
		name   string
	}{
		{types.NewID(), 0, "Front Desk EN"},
		{types.NewID(), 0, "Front Desk ES"},
		{types.NewID(), 1, "Reception"},
	}

	calls := []seedCall{
		{assistant: 0, minutesAgo: 30, duration: 182, llmScore: f(86), llmOutcome: true,
			llmCallType: evaluation.CallTypeAppointmentAdjustment, llmSentiment: "positive",
			humanOutcome: b(true), humanType: evaluation.CallTypeAppointmentAdjustment},
		{assistant: 0, minutesAgo: 95, duration: 64, llmScore: f(42), llmOutcome: false,
			llmCallType: evaluation.CallTypeMissedCall, llmSentiment: "negative",
			humanOutcome: b(true), humanType: evaluation.CallTypeGeneralInquiry},
		{assistant: 1, minutesAgo: 160, duration: 240, llmScore: f(91), llmOutcome: true,
			llmCallType: evaluation.CallTypeNewClientSpanish, llmSentiment: "positive"},
		{assistant: 1, minutesAgo: 300, duration: 75, llmScore: f(68), llmOutcome: true,
			llmCallType: evaluation.CallTypeGeneralInquiry, llmSentiment: "neutral",
			humanOutcome: b(false), humanType: evaluation.CallTypeGeneralInquiryTransfer},
		{assistant: 2, minutesAgo: 420, duration: 130, llmScore: f(77), llmOutcome: true,
			llmCallType: evaluation.CallTypeBilling, llmSentiment: "neutral"},
		{assistant: 2, minutesAgo: 600, duration: 0},
	}

	for _, c := range clinics {
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO clinics (id, name) VALUES ($1, $2)`, c.id, c.name); err != nil {
			fail("insert clinic", err)
		}
	}

	for _, a := range assistants {
		if _, err := db.Pool.Exec(ctx,
			`INSERT INTO assistants (id, clinic_id, name) VALUES ($1, $2, $3)`,
			a.id, clinics[a.clinic].id, a.name); err != nil {
			fail("insert assistant", err)
		}
	}

	now := time.Now()
	for _, c := range calls {
		callID := types.NewID()
		start := now.Add(-time.Duration(c.minutesAgo) * time.Minute)
		end := start.Add(time.Duration(c.duration) * time.Second)
		recording := fmt.Sprintf("https://recordings.example.com/%s.mp3", callID)

		if _, err := db.Pool.Exec(ctx, `
			INSERT INTO calls (id, assistant_id, start_time, end_time, duration_seconds, recording_url)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			callID, assistants[c.assistant].id, start, end, c.duration, recording); err != nil {
			fail("insert call", err)
		}

		if c.llmScore != nil {
			if _, err := db.Pool.Exec(ctx, `
				INSERT INTO llm_evaluations (id, call_id, score, outcome, llm_feedback, call_type, tags, sentiment, protocol_adherence)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
				types.NewID(), callID, c.llmScore, c.llmOutcome,
				"Automated review of call handling.", c.llmCallType,
				[]string{"Professional"}, c.llmSentiment, f(80)); err != nil {
				fail("insert llm evaluation", err)
			}
		}

		if c.humanOutcome != nil {
			if _, err := db.Pool.Exec(ctx, `
				INSERT INTO evaluations (id, call_id, reviewer_name, outcome, feedback, call_type, tags)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				types.NewID(), callID, "Dana Reviewer", *c.humanOutcome,
				"Spot-checked against the recording.", c.humanType,
				[]string{"Polite", "Helpful"}); err != nil {
				fail("insert evaluation", err)
			}
		}
	}

	fmt.Printf("seeded %d clinics, %d assistants, %d calls\n",
		len(clinics), len(assistants), len(calls))
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", op, err)
	os.Exit(1)
}
