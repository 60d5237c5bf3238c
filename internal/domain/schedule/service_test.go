package schedule

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adherd/adherd/internal/platform/apperr"
)

// -- Mock Repositories --

type mockScheduleRepo struct {
	schedules map[uuid.UUID]*Schedule
}

func newMockScheduleRepo() *mockScheduleRepo {
	return &mockScheduleRepo{schedules: make(map[uuid.UUID]*Schedule)}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *Schedule) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	cp := *s
	m.schedules[s.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id uuid.UUID) (*Schedule, error) {
	s, ok := m.schedules[id]
	if !ok {
		return nil, apperr.NotFound("schedule", "schedule %s not found", id)
	}
	cp := *s
	return &cp, nil
}

func (m *mockScheduleRepo) FindByMedication(_ context.Context, medicationID uuid.UUID) ([]*Schedule, error) {
	var result []*Schedule
	for _, s := range m.schedules {
		if s.MedicationID == medicationID {
			cp := *s
			result = append(result, &cp)
		}
	}
	sortByTime(result)
	return result, nil
}

func (m *mockScheduleRepo) FindActiveByMedication(_ context.Context, medicationID uuid.UUID) ([]*Schedule, error) {
	result := []*Schedule{}
	for _, s := range m.schedules {
		if s.MedicationID == medicationID && s.Active {
			cp := *s
			result = append(result, &cp)
		}
	}
	sortByTime(result)
	return result, nil
}

func (m *mockScheduleRepo) FindInactiveOlderThan(_ context.Context, medicationID uuid.UUID, cutoff time.Time) ([]*Schedule, error) {
	var result []*Schedule
	for _, s := range m.schedules {
		if s.MedicationID == medicationID && !s.Active && s.CreatedAt.Before(cutoff) {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) FindActiveByPatient(_ context.Context, patientID uuid.UUID) ([]*PatientSlot, error) {
	var scheds []*Schedule
	for _, s := range m.schedules {
		if s.PatientID == patientID && s.Active {
			scheds = append(scheds, s)
		}
	}
	sortByTime(scheds)
	slots := []*PatientSlot{}
	for _, s := range scheds {
		slots = append(slots, &PatientSlot{
			ScheduleID:   s.ID,
			MedicationID: s.MedicationID,
			TimeOfDay:    s.TimeOfDay,
		})
	}
	return slots, nil
}

func (m *mockScheduleRepo) FindActiveByPatientAndTime(_ context.Context, patientID uuid.UUID, t TimeOfDay) ([]*Schedule, error) {
	result := []*Schedule{}
	for _, s := range m.schedules {
		if s.PatientID == patientID && s.Active && s.TimeOfDay == t {
			cp := *s
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockScheduleRepo) Deactivate(_ context.Context, ids []uuid.UUID) error {
	for _, id := range ids {
		if s, ok := m.schedules[id]; ok {
			s.Active = false
		}
	}
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.schedules, id)
	return nil
}

func sortByTime(scheds []*Schedule) {
	sort.Slice(scheds, func(i, j int) bool {
		return scheds[i].TimeOfDay.Minutes() < scheds[j].TimeOfDay.Minutes()
	})
}

type mockIntakeDeleter struct {
	bySchedule map[uuid.UUID]int64
	deleted    []uuid.UUID
}

func newMockIntakeDeleter() *mockIntakeDeleter {
	return &mockIntakeDeleter{bySchedule: make(map[uuid.UUID]int64)}
}

func (m *mockIntakeDeleter) DeleteBySchedule(_ context.Context, scheduleID uuid.UUID) (int64, error) {
	n := m.bySchedule[scheduleID]
	delete(m.bySchedule, scheduleID)
	m.deleted = append(m.deleted, scheduleID)
	return n, nil
}

func newTestService() (*Service, *mockScheduleRepo, *mockIntakeDeleter) {
	repo := newMockScheduleRepo()
	intakes := newMockIntakeDeleter()
	return NewService(repo, intakes, zerolog.Nop()), repo, intakes
}

// -- Tests --

func TestCreateSchedule_ActiveByDefault(t *testing.T) {
	svc, repo, _ := newTestService()
	medID, patID := uuid.New(), uuid.New()

	sched, err := svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sched.Active {
		t.Error("expected new schedule to be active")
	}
	if sched.MedicationID != medID || sched.PatientID != patID {
		t.Error("expected schedule to carry medication and patient ids")
	}
	if _, ok := repo.schedules[sched.ID]; !ok {
		t.Error("expected schedule to be persisted")
	}
}

func TestCreateSchedule_AllowsDuplicateTimes(t *testing.T) {
	svc, repo, _ := newTestService()
	medID, patID := uuid.New(), uuid.New()

	for i := 0; i < 2; i++ {
		if _, err := svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 8}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	if len(repo.schedules) != 2 {
		t.Errorf("expected 2 schedules, got %d", len(repo.schedules))
	}
}

func TestFindActiveByMedication_OrderedByTime(t *testing.T) {
	svc, _, _ := newTestService()
	medID, patID := uuid.New(), uuid.New()

	for _, h := range []int{20, 8, 13} {
		if _, err := svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: h}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := svc.FindActiveByMedication(context.Background(), medID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(got))
	}
	for i, want := range []int{8, 13, 20} {
		if got[i].TimeOfDay.Hour != want {
			t.Errorf("position %d: expected hour %d, got %d", i, want, got[i].TimeOfDay.Hour)
		}
	}
}

func TestFindActiveByMedication_EmptyResult(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.FindActiveByMedication(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty slice, got %v", got)
	}
}

func TestDeactivateSchedules_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService()
	medID, patID := uuid.New(), uuid.New()

	s1, _ := svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 8})
	s2, _ := svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 20})

	scheds := []*Schedule{s1, s2}
	if err := svc.DeactivateSchedules(context.Background(), scheds); err != nil {
		t.Fatalf("first deactivation: %v", err)
	}
	if err := svc.DeactivateSchedules(context.Background(), scheds); err != nil {
		t.Fatalf("second deactivation: %v", err)
	}

	for id, s := range repo.schedules {
		if s.Active {
			t.Errorf("schedule %s still active", id)
		}
	}
	if s1.Active || s2.Active {
		t.Error("expected in-memory schedules to be marked inactive")
	}
}

func TestDeactivateSchedules_EmptyInput(t *testing.T) {
	svc, _, _ := newTestService()
	if err := svc.DeactivateSchedules(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteOldInactiveSchedules_RemovesRecordsThenSchedule(t *testing.T) {
	svc, repo, intakes := newTestService()
	medID, patID := uuid.New(), uuid.New()
	now := time.Now()

	old := &Schedule{ID: uuid.New(), MedicationID: medID, PatientID: patID,
		TimeOfDay: TimeOfDay{Hour: 8}, Active: false, CreatedAt: now.AddDate(0, 0, -120)}
	repo.Create(context.Background(), old)
	intakes.bySchedule[old.ID] = 4

	if err := svc.DeleteOldInactiveSchedules(context.Background(), medID, now.AddDate(0, 0, -90)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := repo.schedules[old.ID]; ok {
		t.Error("expected old inactive schedule to be deleted")
	}
	if len(intakes.deleted) != 1 || intakes.deleted[0] != old.ID {
		t.Errorf("expected intake records deleted for %s, got %v", old.ID, intakes.deleted)
	}
}

func TestDeleteOldInactiveSchedules_SparesActiveAndRecent(t *testing.T) {
	svc, repo, intakes := newTestService()
	medID, patID := uuid.New(), uuid.New()
	now := time.Now()

	active := &Schedule{ID: uuid.New(), MedicationID: medID, PatientID: patID,
		TimeOfDay: TimeOfDay{Hour: 8}, Active: true, CreatedAt: now.AddDate(0, 0, -120)}
	recent := &Schedule{ID: uuid.New(), MedicationID: medID, PatientID: patID,
		TimeOfDay: TimeOfDay{Hour: 20}, Active: false, CreatedAt: now.AddDate(0, 0, -10)}
	repo.Create(context.Background(), active)
	repo.Create(context.Background(), recent)

	if err := svc.DeleteOldInactiveSchedules(context.Background(), medID, now.AddDate(0, 0, -90)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := repo.schedules[active.ID]; !ok {
		t.Error("active schedule must never be pruned")
	}
	if _, ok := repo.schedules[recent.ID]; !ok {
		t.Error("recently deactivated schedule is inside the retention window")
	}
	if len(intakes.deleted) != 0 {
		t.Errorf("expected no intake deletions, got %v", intakes.deleted)
	}
}

func TestDeleteOldInactiveSchedules_ScopedToMedication(t *testing.T) {
	svc, repo, _ := newTestService()
	medID, otherMed, patID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	other := &Schedule{ID: uuid.New(), MedicationID: otherMed, PatientID: patID,
		TimeOfDay: TimeOfDay{Hour: 8}, Active: false, CreatedAt: now.AddDate(0, 0, -120)}
	repo.Create(context.Background(), other)

	if err := svc.DeleteOldInactiveSchedules(context.Background(), medID, now.AddDate(0, 0, -90)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.schedules[other.ID]; !ok {
		t.Error("schedule of another medication must not be pruned")
	}
}

func TestFindByPatientAndTime(t *testing.T) {
	svc, _, _ := newTestService()
	medID, patID := uuid.New(), uuid.New()

	svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 8})
	svc.CreateSchedule(context.Background(), medID, patID, TimeOfDay{Hour: 20})

	got, err := svc.FindByPatientAndTime(context.Background(), patID, TimeOfDay{Hour: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].TimeOfDay.Hour != 8 {
		t.Errorf("expected one 08:00 schedule, got %v", got)
	}
}
