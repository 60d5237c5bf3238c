package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. Registration and profile editing
// happen in a separate system; this service only resolves patients by id.
type Patient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
