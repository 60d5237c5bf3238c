package medication

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, m *Medication) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medication, error)
	// GetByIDForUpdate locks the medication row for the rest of the
	// transaction, serialising concurrent edit workflows.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Medication, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Medication, error)
	Update(ctx context.Context, m *Medication) error
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error)
	LinkPatient(ctx context.Context, medicationID, patientID uuid.UUID) error
}
