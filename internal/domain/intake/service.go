package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adherd/adherd/internal/domain/schedule"
	"github.com/adherd/adherd/internal/platform/apperr"
)

// ScheduleDirectory resolves schedules for record validation.
type ScheduleDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*schedule.Schedule, error)
}

// PatientDirectory answers whether a patient exists.
type PatientDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	repo      Repository
	schedules ScheduleDirectory
	patients  PatientDirectory
	log       zerolog.Logger
}

func NewService(repo Repository, schedules ScheduleDirectory, patients PatientDirectory, log zerolog.Logger) *Service {
	return &Service{repo: repo, schedules: schedules, patients: patients, log: log}
}

// CreateRequest carries one intake fact from the mobile client.
type CreateRequest struct {
	ScheduleID      uuid.UUID
	PatientID       uuid.UUID
	LoggedDate      time.Time
	Taken           bool
	ClientRequestID *string
}

// CreateRecord validates the schedule and patient references, then
// inserts the record immediately. A missing schedule and a missing
// patient fail with different errors so the client can tell a stale
// schedule id from a revoked patient. The logged date is the client's
// statement of when the dose happened and is never substituted.
func (s *Service) CreateRecord(ctx context.Context, req CreateRequest) (*Record, error) {
	if req.LoggedDate.IsZero() {
		return nil, apperr.BadRequest("logged date is required")
	}
	if _, err := s.schedules.GetByID(ctx, req.ScheduleID); err != nil {
		return nil, err
	}
	ok, err := s.patients.Exists(ctx, req.PatientID)
	if err != nil {
		return nil, fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return nil, apperr.NotFound("patient", "patient %s not found", req.PatientID)
	}

	rec := &Record{
		ScheduleID:      req.ScheduleID,
		PatientID:       req.PatientID,
		LoggedDate:      req.LoggedDate,
		Taken:           req.Taken,
		DoctorNote:      "",
		ClientRequestID: req.ClientRequestID,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create intake record: %w", err)
	}
	s.log.Info().
		Str("intake_record_id", rec.ID.String()).
		Str("schedule_id", rec.ScheduleID.String()).
		Bool("taken", rec.Taken).
		Msg("intake recorded")
	return rec, nil
}

// LogsForMedication returns every record whose schedule belongs to the
// medication, mapped into log entries.
func (s *Service) LogsForMedication(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*LogEntry, int, error) {
	return s.repo.ListByMedication(ctx, medicationID, limit, offset)
}

// UpdateDoctorNote replaces the note on a record.
func (s *Service) UpdateDoctorNote(ctx context.Context, recordID uuid.UUID, note string) (*Record, error) {
	rec, err := s.repo.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	rec.DoctorNote = note
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update doctor note: %w", err)
	}
	return rec, nil
}

// HistoryForPatient returns the patient's dated intake timeline.
func (s *Service) HistoryForPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HistoryEntry, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
