package medication

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table. Medications are never hard
// deleted; retiring one clears the active flag so history stays intact.
type Medication struct {
	ID             uuid.UUID `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Dosage         string    `db:"dosage" json:"dosage"`
	IntakeQuantity string    `db:"intake_quantity" json:"intake_quantity"`
	Frequency      int       `db:"frequency" json:"frequency"`
	Timing         *string   `db:"timing" json:"timing,omitempty"`
	Instructions   string    `db:"instructions" json:"instructions"`
	Notes          string    `db:"notes" json:"notes"`
	Active         bool      `db:"active" json:"active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// EditDetails is what the edit form preloads: the current frequency and
// the active slot times as "HH:mm" strings.
type EditDetails struct {
	MedicationID        uuid.UUID `json:"medication_id"`
	Frequency           int       `json:"frequency"`
	ActiveScheduleTimes []string  `json:"active_schedule_times"`
}
