// Package adherence answers the clinic's missed-dose questions: has a
// schedule been missed this month, has any slot of a medication been
// missed, and which of a patient's medications need attention.
package adherence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adherd/adherd/internal/domain/intake"
	"github.com/adherd/adherd/internal/domain/medication"
	"github.com/adherd/adherd/internal/domain/schedule"
)

type ScheduleSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*schedule.Schedule, error)
	FindByMedication(ctx context.Context, medicationID uuid.UUID) ([]*schedule.Schedule, error)
}

type IntakeSource interface {
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*intake.Record, error)
}

type MedicationSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*medication.Medication, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*medication.Medication, error)
}

type Service struct {
	schedules ScheduleSource
	intakes   IntakeSource
	meds      MedicationSource
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(schedules ScheduleSource, intakes IntakeSource, meds MedicationSource, log zerolog.Logger) *Service {
	return &Service{
		schedules: schedules,
		intakes:   intakes,
		meds:      meds,
		now:       time.Now,
		log:       log,
	}
}

// HasMissedDose reports whether the schedule has a record in the
// current calendar month marked not taken. A schedule with no records
// this month has not missed anything.
func (s *Service) HasMissedDose(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	if _, err := s.schedules.GetByID(ctx, scheduleID); err != nil {
		return false, err
	}
	return s.missedThisMonth(ctx, scheduleID)
}

func (s *Service) missedThisMonth(ctx context.Context, scheduleID uuid.UUID) (bool, error) {
	records, err := s.intakes.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return false, fmt.Errorf("list intake records: %w", err)
	}
	now := s.now()
	for _, rec := range records {
		if rec.Taken {
			continue
		}
		if rec.LoggedDate.Month() == now.Month() && rec.LoggedDate.Year() == now.Year() {
			return true, nil
		}
	}
	return false, nil
}

// HasMedicationMissedDose checks every slot the medication has ever
// had, retired ones included: a dose missed on a since-replaced
// schedule still counts for the month it happened in.
func (s *Service) HasMedicationMissedDose(ctx context.Context, medicationID uuid.UUID) (bool, error) {
	if _, err := s.meds.GetByID(ctx, medicationID); err != nil {
		return false, err
	}
	schedules, err := s.schedules.FindByMedication(ctx, medicationID)
	if err != nil {
		return false, fmt.Errorf("list schedules: %w", err)
	}
	for _, sched := range schedules {
		missed, err := s.missedThisMonth(ctx, sched.ID)
		if err != nil {
			return false, err
		}
		if missed {
			return true, nil
		}
	}
	return false, nil
}

// MedicationStatus is a medication with its missed-dose flag for the
// clinician dashboard.
type MedicationStatus struct {
	Medication *medication.Medication `json:"medication"`
	MissedDose bool                   `json:"missed_dose"`
}

// PatientMedicationOverview flags each of the patient's medications
// with whether any of its slots missed a dose this month.
func (s *Service) PatientMedicationOverview(ctx context.Context, patientID uuid.UUID) ([]*MedicationStatus, error) {
	meds, err := s.meds.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	overview := make([]*MedicationStatus, 0, len(meds))
	for _, med := range meds {
		missed, err := s.HasMedicationMissedDose(ctx, med.ID)
		if err != nil {
			return nil, err
		}
		overview = append(overview, &MedicationStatus{Medication: med, MissedDose: missed})
	}
	return overview, nil
}
