package intake

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adherd/adherd/internal/domain/schedule"
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

const recordCols = `id, schedule_id, patient_id, logged_date, taken, doctor_note, client_request_id, created_at`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.ScheduleID, &rec.PatientID, &rec.LoggedDate,
		&rec.Taken, &rec.DoctorNote, &rec.ClientRequestID, &rec.CreatedAt)
	return &rec, err
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO intake_record (id, schedule_id, patient_id, logged_date, taken, doctor_note, client_request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		rec.ID, rec.ScheduleID, rec.PatientID, rec.LoggedDate, rec.Taken, rec.DoctorNote, rec.ClientRequestID).
		Scan(&rec.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	rec, err := scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM intake_record WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("intake_record", "intake record %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE intake_record SET doctor_note = $2 WHERE id = $1`, rec.ID, rec.DoctorNote)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("intake_record", "intake record %s not found", rec.ID)
	}
	return nil
}

func (r *repoPG) ListBySchedule(ctx context.Context, scheduleID uuid.UUID) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM intake_record
		WHERE schedule_id = $1
		ORDER BY logged_date DESC, created_at DESC`, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repoPG) ListByMedication(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*LogEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*)
		FROM intake_record ir
		JOIN schedule s ON s.id = ir.schedule_id
		WHERE s.medication_id = $1`, medicationID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ir.id, ir.schedule_id, ir.logged_date, s.time_of_day, ir.taken, ir.doctor_note
		FROM intake_record ir
		JOIN schedule s ON s.id = ir.schedule_id
		WHERE s.medication_id = $1
		ORDER BY ir.logged_date DESC, s.time_of_day ASC
		LIMIT $2 OFFSET $3`, medicationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	entries := []*LogEntry{}
	for rows.Next() {
		var (
			e   LogEntry
			tod pgtype.Time
		)
		if err := rows.Scan(&e.IntakeRecordID, &e.ScheduleID, &e.LoggedDate, &tod, &e.Taken, &e.DoctorNote); err != nil {
			return nil, 0, err
		}
		e.ScheduledTime = timeOfDayFromPG(tod)
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*HistoryEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM intake_record WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT ir.id, m.name, s.time_of_day, ir.logged_date, ir.taken
		FROM intake_record ir
		JOIN schedule s ON s.id = ir.schedule_id
		JOIN medication m ON m.id = s.medication_id
		WHERE ir.patient_id = $1
		ORDER BY ir.logged_date DESC, s.time_of_day ASC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	entries := []*HistoryEntry{}
	for rows.Next() {
		var (
			e   HistoryEntry
			tod pgtype.Time
		)
		if err := rows.Scan(&e.IntakeRecordID, &e.MedicationName, &tod, &e.LoggedDate, &e.Taken); err != nil {
			return nil, 0, err
		}
		e.ScheduledTime = timeOfDayFromPG(tod)
		entries = append(entries, &e)
	}
	return entries, total, rows.Err()
}

func (r *repoPG) DeleteBySchedule(ctx context.Context, scheduleID uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM intake_record WHERE schedule_id = $1`, scheduleID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func timeOfDayFromPG(pt pgtype.Time) schedule.TimeOfDay {
	mins := int(pt.Microseconds / 60_000_000)
	return schedule.TimeOfDay{Hour: mins / 60, Minute: mins % 60}
}
