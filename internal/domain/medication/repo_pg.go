package medication

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adherd/adherd/internal/platform/apperr"
	"github.com/adherd/adherd/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const medCols = `id, name, dosage, intake_quantity, frequency, timing, instructions, notes, active, created_at, updated_at`

func scanMed(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.Name, &m.Dosage, &m.IntakeQuantity, &m.Frequency,
		&m.Timing, &m.Instructions, &m.Notes, &m.Active, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medication (id, name, dosage, intake_quantity, frequency, timing, instructions, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		m.ID, m.Name, m.Dosage, m.IntakeQuantity, m.Frequency, m.Timing, m.Instructions, m.Notes, m.Active).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) getByID(ctx context.Context, id uuid.UUID, lock string) (*Medication, error) {
	m, err := scanMed(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medCols+` FROM medication WHERE id = $1`+lock, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("medication", "medication %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return r.getByID(ctx, id, "")
}

func (r *repoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return r.getByID(ctx, id, " FOR UPDATE")
}

func (r *repoPG) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medCols+` FROM medication WHERE id = ANY($1) ORDER BY name ASC`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Medication{}
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, dosage=$3, intake_quantity=$4, frequency=$5,
			timing=$6, instructions=$7, notes=$8, active=$9, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.IntakeQuantity, m.Frequency,
		m.Timing, m.Instructions, m.Notes, m.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("medication", "medication %s not found", m.ID)
	}
	return nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+medColsPrefixed+`
		FROM medication m
		JOIN patient_medication pm ON pm.medication_id = m.id
		WHERE pm.patient_id = $1
		ORDER BY m.name ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Medication{}
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

const medColsPrefixed = `m.id, m.name, m.dosage, m.intake_quantity, m.frequency, m.timing, m.instructions, m.notes, m.active, m.created_at, m.updated_at`

func (r *repoPG) LinkPatient(ctx context.Context, medicationID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_medication (patient_id, medication_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, patientID, medicationID)
	return err
}
