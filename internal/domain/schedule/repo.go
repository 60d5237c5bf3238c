package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error)
	// FindByMedication returns every schedule for the medication,
	// active and retired alike.
	FindByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Schedule, error)
	FindActiveByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Schedule, error)
	FindInactiveOlderThan(ctx context.Context, medicationID uuid.UUID, cutoff time.Time) ([]*Schedule, error)
	FindActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientSlot, error)
	FindActiveByPatientAndTime(ctx context.Context, patientID uuid.UUID, t TimeOfDay) ([]*Schedule, error)
	Deactivate(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
