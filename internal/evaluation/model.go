package evaluation

import (
	"fmt"
	"time"

	"github.com/callsight/platform/internal/shared/types"
)

// CallType categorizes what a call was about
type CallType string

const (
	CallTypeAppointmentAdjustment  CallType = "APPOINTMENT_ADJUSTMENT"
	CallTypeNewClientSpanish       CallType = "NEW_CLIENT_SPANISH"
	CallTypeGeneralInquiry         CallType = "GENERAL_INQUIRY"
	CallTypeGeneralInquiryTransfer CallType = "GENERAL_INQUIRY_TRANSFER"
	CallTypeTimeSensitive          CallType = "TIME_SENSITIVE"
	CallTypeNewClientEnglish       CallType = "NEW_CLIENT_ENGLISH"
	CallTypeLookingForSomeone      CallType = "LOOKING_FOR_SOMEONE"
	CallTypeMissedCall             CallType = "MISSED_CALL"
	CallTypeMiscalaneous           CallType = "MISCALANEOUS"
	CallTypeBilling                CallType = "BILLING"
)

// CallTypes lists every valid call type
var CallTypes = []CallType{
	CallTypeAppointmentAdjustment,
	CallTypeNewClientSpanish,
	CallTypeGeneralInquiry,
	CallTypeGeneralInquiryTransfer,
	CallTypeTimeSensitive,
	CallTypeNewClientEnglish,
	CallTypeLookingForSomeone,
	CallTypeMissedCall,
	CallTypeMiscalaneous,
	CallTypeBilling,
}

// ParseCallType validates a call type string
func ParseCallType(s string) (CallType, error) {
	for _, t := range CallTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown call type: %q", s)
}

// AvailableTags is the fixed vocabulary reviewers can tag a call with
var AvailableTags = []string{"Polite", "Professional", "Helpful", "Clear", "Empathetic", "Knowledgeable"}

// ValidTag reports whether tag belongs to the fixed vocabulary
func ValidTag(tag string) bool {
	for _, t := range AvailableTags {
		if t == tag {
			return true
		}
	}
	return false
}

// Human is a reviewer's evaluation of one call. A call has at most one.
type Human struct {
	ID           types.ID  `json:"id"`
	CallID       types.ID  `json:"call_id"`
	ReviewerName string    `json:"reviewer_name"`
	Outcome      bool      `json:"outcome"`
	Feedback     string    `json:"feedback"`
	CallType     *CallType `json:"call_type"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// LLM is the automated evaluation the pipeline attaches to a call, plus the
// reviewer fields a human fills in when approving or rejecting it.
type LLM struct {
	ID                types.ID  `json:"id"`
	CallID            types.ID  `json:"call_id"`
	Score             *float64  `json:"score"`
	Outcome           bool      `json:"outcome"`
	LLMFeedback       *string   `json:"llm_feedback"`
	CallType          *CallType `json:"call_type"`
	Tags              []string  `json:"tags"`
	Sentiment         *string   `json:"sentiment"`
	ProtocolAdherence *float64  `json:"protocol_adherence"`

	// Review fields, set through UpdateLLMReview only
	Approved      *bool   `json:"approved"`
	ReviewerName  *string `json:"reviewer_name"`
	ReviewComment *string `json:"review_comment"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasScore reports whether the automated evaluation carries a score
func (l *LLM) HasScore() bool {
	return l != nil && l.Score != nil
}
