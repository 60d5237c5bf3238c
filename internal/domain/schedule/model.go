package schedule

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Schedule maps to the schedule table: one daily dose slot for a
// medication. The time of day is fixed at creation; changing a slot
// means deactivating this row and inserting a new one.
type Schedule struct {
	ID           uuid.UUID `db:"id" json:"id"`
	MedicationID uuid.UUID `db:"medication_id" json:"medication_id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	TimeOfDay    TimeOfDay `db:"time_of_day" json:"time_of_day"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PatientSlot is a schedule row joined with its medication, as shown on
// the patient's daily timetable.
type PatientSlot struct {
	ScheduleID     uuid.UUID `json:"schedule_id"`
	MedicationID   uuid.UUID `json:"medication_id"`
	MedicationName string    `json:"medication_name"`
	IntakeQuantity string    `json:"intake_quantity"`
	TimeOfDay      TimeOfDay `json:"time_of_day"`
}

// TimeOfDay is a wall-clock slot with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

var (
	compactTimePattern = regexp.MustCompile(`^\d{4}$`)
	clockTimePattern   = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// ParseTimeOfDay accepts "HHmm" (mobile clients) and "HH:mm" (web
// clients). Anything else, including out-of-range values like "25:00",
// is an error naming the offending input.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var layout string
	switch {
	case compactTimePattern.MatchString(s):
		layout = "1504"
	case clockTimePattern.MatchString(s):
		layout = "15:04"
	default:
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Minutes returns minutes since midnight, the schedule sort key.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
