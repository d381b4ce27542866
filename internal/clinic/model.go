package clinic

import (
	"time"

	"github.com/callsight/platform/internal/shared/types"
)

// Clinic is a customer site whose phone lines are answered by AI assistants.
type Clinic struct {
	ID        types.ID  `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Assistant is one AI agent configuration belonging to a clinic.
type Assistant struct {
	ID       types.ID `json:"id"`
	ClinicID types.ID `json:"clinic_id"`
	Name     string   `json:"name"`

	// Clinic is populated on nested reads
	Clinic *Clinic `json:"clinic,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
