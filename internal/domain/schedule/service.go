package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// IntakeDeleter removes the intake records tied to a schedule. Satisfied
// by the intake repository; declared here so retiring a schedule does
// not pull in the intake package.
type IntakeDeleter interface {
	DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) (int64, error)
}

type Service struct {
	repo    Repository
	intakes IntakeDeleter
	log     zerolog.Logger
}

func NewService(repo Repository, intakes IntakeDeleter, log zerolog.Logger) *Service {
	return &Service{repo: repo, intakes: intakes, log: log}
}

// CreateSchedule inserts a new active slot. Duplicate times for the same
// medication are allowed; callers manage replacement via deactivation.
func (s *Service) CreateSchedule(ctx context.Context, medicationID, patientID uuid.UUID, t TimeOfDay) (*Schedule, error) {
	sched := &Schedule{
		MedicationID: medicationID,
		PatientID:    patientID,
		TimeOfDay:    t,
		Active:       true,
	}
	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) FindActiveByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Schedule, error) {
	return s.repo.FindActiveByMedication(ctx, medicationID)
}

// DeactivateSchedules retires the given slots. Already-inactive slots
// are left as they are.
func (s *Service) DeactivateSchedules(ctx context.Context, schedules []*Schedule) error {
	if len(schedules) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(schedules))
	for _, sched := range schedules {
		ids = append(ids, sched.ID)
	}
	if err := s.repo.Deactivate(ctx, ids); err != nil {
		return fmt.Errorf("deactivate schedules: %w", err)
	}
	for _, sched := range schedules {
		sched.Active = false
	}
	return nil
}

// DeleteOldInactiveSchedules removes retired slots created before the
// cutoff together with their intake history. Records go first, then the
// schedule; the caller's transaction keeps the pair atomic. Active
// slots are never touched.
func (s *Service) DeleteOldInactiveSchedules(ctx context.Context, medicationID uuid.UUID, cutoff time.Time) error {
	old, err := s.repo.FindInactiveOlderThan(ctx, medicationID, cutoff)
	if err != nil {
		return fmt.Errorf("find inactive schedules: %w", err)
	}
	for _, sched := range old {
		deleted, err := s.intakes.DeleteBySchedule(ctx, sched.ID)
		if err != nil {
			return fmt.Errorf("delete intake records for schedule %s: %w", sched.ID, err)
		}
		if err := s.repo.Delete(ctx, sched.ID); err != nil {
			return fmt.Errorf("delete schedule %s: %w", sched.ID, err)
		}
		s.log.Debug().
			Str("schedule_id", sched.ID.String()).
			Int64("intake_records", deleted).
			Msg("pruned inactive schedule")
	}
	return nil
}

// DailyScheduleForPatient returns the patient's active slots in time
// order, joined with the medication they belong to.
func (s *Service) DailyScheduleForPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientSlot, error) {
	return s.repo.FindActiveByPatient(ctx, patientID)
}

// FindByPatientAndTime returns the patient's active slots at an exact
// time of day, used by the notification client.
func (s *Service) FindByPatientAndTime(ctx context.Context, patientID uuid.UUID, t TimeOfDay) ([]*Schedule, error) {
	return s.repo.FindActiveByPatientAndTime(ctx, patientID, t)
}
