package medication

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adherd/adherd/internal/domain/schedule"
	"github.com/adherd/adherd/internal/platform/apperr"
	"github.com/adherd/adherd/internal/platform/db"
)

// ScheduleManager is the slice of the schedule service the edit workflow
// needs. Declared here to keep the dependency one-directional.
type ScheduleManager interface {
	CreateSchedule(ctx context.Context, medicationID, patientID uuid.UUID, t schedule.TimeOfDay) (*schedule.Schedule, error)
	FindActiveByMedication(ctx context.Context, medicationID uuid.UUID) ([]*schedule.Schedule, error)
	DeactivateSchedules(ctx context.Context, schedules []*schedule.Schedule) error
	DeleteOldInactiveSchedules(ctx context.Context, medicationID uuid.UUID, cutoff time.Time) error
}

// PatientDirectory answers existence checks without importing the
// patient package's repository wholesale.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	meds      Repository
	patients  PatientDirectory
	schedules ScheduleManager
	runner    db.Runner
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

func NewService(meds Repository, patients PatientDirectory, schedules ScheduleManager, runner db.Runner, retention time.Duration, log zerolog.Logger) *Service {
	return &Service{
		meds:      meds,
		patients:  patients,
		schedules: schedules,
		runner:    runner,
		retention: retention,
		now:       time.Now,
		log:       log,
	}
}

type CreateRequest struct {
	PatientID      uuid.UUID
	Name           string
	Dosage         string
	IntakeQuantity string
	Frequency      int
	Timing         *string
	Instructions   string
	Notes          string
	Times          []string
}

// Create inserts a medication, links it to the patient and creates one
// active schedule per time string. Everything happens in one
// transaction: a single malformed time aborts the whole create.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Medication, error) {
	times, err := parseTimes(req.Times)
	if err != nil {
		return nil, err
	}

	med := &Medication{
		Name:           req.Name,
		Dosage:         req.Dosage,
		IntakeQuantity: req.IntakeQuantity,
		Frequency:      req.Frequency,
		Timing:         req.Timing,
		Instructions:   req.Instructions,
		Notes:          req.Notes,
		Active:         true,
	}

	err = s.runner.RunTx(ctx, func(ctx context.Context) error {
		ok, err := s.patients.Exists(ctx, req.PatientID)
		if err != nil {
			return fmt.Errorf("check patient: %w", err)
		}
		if !ok {
			return apperr.NotFound("patient", "patient %s not found", req.PatientID)
		}
		if err := s.meds.Create(ctx, med); err != nil {
			return fmt.Errorf("create medication: %w", err)
		}
		if err := s.meds.LinkPatient(ctx, med.ID, req.PatientID); err != nil {
			return fmt.Errorf("link medication to patient: %w", err)
		}
		for _, t := range times {
			if _, err := s.schedules.CreateSchedule(ctx, med.ID, req.PatientID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("medication_id", med.ID.String()).
		Str("patient_id", req.PatientID.String()).
		Int("schedules", len(times)).
		Msg("medication created")
	return med, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.meds.GetByID(ctx, id)
}

// GetByIDs resolves a batch of medication ids. Unknown ids are simply
// absent from the result rather than an error.
func (s *Service) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Medication, error) {
	if len(ids) == 0 {
		return []*Medication{}, nil
	}
	return s.meds.GetByIDs(ctx, ids)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	return s.meds.ListByPatient(ctx, patientID)
}

// EditDetails preloads the edit form: the medication's current frequency
// and its active slot times in "HH:mm" form.
func (s *Service) EditDetails(ctx context.Context, medicationID uuid.UUID) (*EditDetails, error) {
	med, err := s.meds.GetByID(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	active, err := s.schedules.FindActiveByMedication(ctx, medicationID)
	if err != nil {
		return nil, fmt.Errorf("load active schedules: %w", err)
	}
	times := make([]string, 0, len(active))
	for _, sched := range active {
		times = append(times, sched.TimeOfDay.String())
	}
	return &EditDetails{
		MedicationID:        med.ID,
		Frequency:           med.Frequency,
		ActiveScheduleTimes: times,
	}, nil
}

type EditRequest struct {
	PatientID uuid.UUID
	Frequency int
	Times     []string
}

// ProcessEdit replaces a medication's schedule set and frequency in one
// transaction. The medication row is locked for the duration, so two
// concurrent edits of the same medication serialise. Steps, in order:
// prune old retired slots, retire the current active set, save the new
// frequency, create one active slot per submitted time. Any failure,
// including a malformed time string, rolls back all of it.
func (s *Service) ProcessEdit(ctx context.Context, medicationID uuid.UUID, req EditRequest) error {
	err := s.runner.RunTx(ctx, func(ctx context.Context) error {
		med, err := s.meds.GetByIDForUpdate(ctx, medicationID)
		if err != nil {
			return err
		}
		ok, err := s.patients.Exists(ctx, req.PatientID)
		if err != nil {
			return fmt.Errorf("check patient: %w", err)
		}
		if !ok {
			return apperr.NotFound("patient", "patient %s not found", req.PatientID)
		}

		cutoff := s.now().Add(-s.retention)
		if err := s.schedules.DeleteOldInactiveSchedules(ctx, medicationID, cutoff); err != nil {
			return err
		}

		active, err := s.schedules.FindActiveByMedication(ctx, medicationID)
		if err != nil {
			return fmt.Errorf("load active schedules: %w", err)
		}
		if err := s.schedules.DeactivateSchedules(ctx, active); err != nil {
			return err
		}

		med.Frequency = req.Frequency
		if err := s.meds.Update(ctx, med); err != nil {
			return fmt.Errorf("update medication: %w", err)
		}

		times, err := parseTimes(req.Times)
		if err != nil {
			return err
		}
		for _, t := range times {
			if _, err := s.schedules.CreateSchedule(ctx, medicationID, req.PatientID, t); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().
		Str("medication_id", medicationID.String()).
		Int("frequency", req.Frequency).
		Int("schedules", len(req.Times)).
		Msg("medication edit applied")
	return nil
}

// Deactivate retires a medication and all of its active schedules.
// History is kept; nothing is deleted.
func (s *Service) Deactivate(ctx context.Context, medicationID uuid.UUID) error {
	return s.runner.RunTx(ctx, func(ctx context.Context) error {
		med, err := s.meds.GetByIDForUpdate(ctx, medicationID)
		if err != nil {
			return err
		}
		active, err := s.schedules.FindActiveByMedication(ctx, medicationID)
		if err != nil {
			return fmt.Errorf("load active schedules: %w", err)
		}
		if err := s.schedules.DeactivateSchedules(ctx, active); err != nil {
			return err
		}
		med.Active = false
		if err := s.meds.Update(ctx, med); err != nil {
			return fmt.Errorf("update medication: %w", err)
		}
		return nil
	})
}

func parseTimes(raw []string) ([]schedule.TimeOfDay, error) {
	times := make([]schedule.TimeOfDay, 0, len(raw))
	for _, v := range raw {
		t, err := schedule.ParseTimeOfDay(v)
		if err != nil {
			return nil, apperr.BadRequest("invalid schedule time %q", v)
		}
		times = append(times, t)
	}
	return times, nil
}
