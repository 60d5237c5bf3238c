package intake

import (
	"time"

	"github.com/google/uuid"

	"github.com/adherd/adherd/internal/domain/schedule"
)

// Record maps to the intake_record table: one taken / not-taken fact
// for a schedule slot on a date. The doctor note is the only field that
// changes after insert.
type Record struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ScheduleID      uuid.UUID `db:"schedule_id" json:"schedule_id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	LoggedDate      time.Time `db:"logged_date" json:"logged_date"`
	Taken           bool      `db:"taken" json:"taken"`
	DoctorNote      string    `db:"doctor_note" json:"doctor_note"`
	ClientRequestID *string   `db:"client_request_id" json:"client_request_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// LogEntry is an intake record joined with its schedule, the shape the
// clinician's medication log view consumes.
type LogEntry struct {
	IntakeRecordID uuid.UUID          `json:"intake_record_id"`
	ScheduleID     uuid.UUID          `json:"schedule_id"`
	LoggedDate     time.Time          `json:"logged_date"`
	ScheduledTime  schedule.TimeOfDay `json:"scheduled_time"`
	Taken          bool               `json:"taken"`
	DoctorNote     string             `json:"doctor_note"`
}

// HistoryEntry is an intake record joined with schedule and medication
// for the patient's history timeline.
type HistoryEntry struct {
	IntakeRecordID uuid.UUID          `json:"intake_record_id"`
	MedicationName string             `json:"medication_name"`
	ScheduledTime  schedule.TimeOfDay `json:"scheduled_time"`
	LoggedDate     time.Time          `json:"logged_date"`
	Taken          bool               `json:"taken"`
}
