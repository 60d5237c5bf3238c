package intake

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*Record, error)
	// ListByMedication joins records with their schedules across the
	// whole medication, newest first.
	ListByMedication(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*LogEntry, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HistoryEntry, int, error)
	// DeleteBySchedule removes every record of a schedule and reports
	// how many went away. Satisfies schedule.IntakeDeleter.
	DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) (int64, error)
}
