package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
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

const schedCols = `id, medication_id, patient_id, time_of_day, active, created_at`

func timeOfDayToPG(t TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: int64(t.Minutes()) * 60 * 1_000_000, Valid: true}
}

func timeOfDayFromPG(pt pgtype.Time) TimeOfDay {
	mins := int(pt.Microseconds / 60_000_000)
	return TimeOfDay{Hour: mins / 60, Minute: mins % 60}
}

func scanSchedule(row pgx.Row) (*Schedule, error) {
	var (
		s   Schedule
		tod pgtype.Time
	)
	if err := row.Scan(&s.ID, &s.MedicationID, &s.PatientID, &tod, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.TimeOfDay = timeOfDayFromPG(tod)
	return &s, nil
}

func (r *repoPG) Create(ctx context.Context, s *Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO schedule (id, medication_id, patient_id, time_of_day, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`,
		s.ID, s.MedicationID, s.PatientID, timeOfDayToPG(s.TimeOfDay), s.Active).
		Scan(&s.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Schedule, error) {
	s, err := scanSchedule(r.conn(ctx).QueryRow(ctx,
		`SELECT `+schedCols+` FROM schedule WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("schedule", "schedule %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repoPG) collect(rows pgx.Rows, err error) ([]*Schedule, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Schedule{}
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *repoPG) FindByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Schedule, error) {
	return r.collect(r.conn(ctx).Query(ctx, `
		SELECT `+schedCols+` FROM schedule
		WHERE medication_id = $1
		ORDER BY time_of_day ASC, created_at ASC`, medicationID))
}

func (r *repoPG) FindActiveByMedication(ctx context.Context, medicationID uuid.UUID) ([]*Schedule, error) {
	return r.collect(r.conn(ctx).Query(ctx, `
		SELECT `+schedCols+` FROM schedule
		WHERE medication_id = $1 AND active = TRUE
		ORDER BY time_of_day ASC`, medicationID))
}

func (r *repoPG) FindInactiveOlderThan(ctx context.Context, medicationID uuid.UUID, cutoff time.Time) ([]*Schedule, error) {
	return r.collect(r.conn(ctx).Query(ctx, `
		SELECT `+schedCols+` FROM schedule
		WHERE medication_id = $1 AND active = FALSE AND created_at < $2
		ORDER BY created_at ASC`, medicationID, cutoff))
}

func (r *repoPG) FindActiveByPatient(ctx context.Context, patientID uuid.UUID) ([]*PatientSlot, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.id, s.medication_id, m.name, m.intake_quantity, s.time_of_day
		FROM schedule s
		JOIN medication m ON m.id = s.medication_id
		WHERE s.patient_id = $1 AND s.active = TRUE
		ORDER BY s.time_of_day ASC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := []*PatientSlot{}
	for rows.Next() {
		var (
			slot PatientSlot
			tod  pgtype.Time
		)
		if err := rows.Scan(&slot.ScheduleID, &slot.MedicationID, &slot.MedicationName, &slot.IntakeQuantity, &tod); err != nil {
			return nil, err
		}
		slot.TimeOfDay = timeOfDayFromPG(tod)
		slots = append(slots, &slot)
	}
	return slots, rows.Err()
}

func (r *repoPG) FindActiveByPatientAndTime(ctx context.Context, patientID uuid.UUID, t TimeOfDay) ([]*Schedule, error) {
	return r.collect(r.conn(ctx).Query(ctx, `
		SELECT `+schedCols+` FROM schedule
		WHERE patient_id = $1 AND time_of_day = $2 AND active = TRUE
		ORDER BY created_at ASC`, patientID, timeOfDayToPG(t)))
}

func (r *repoPG) Deactivate(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE schedule SET active = FALSE WHERE id = ANY($1)`, ids)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM schedule WHERE id = $1`, id)
	return err
}
