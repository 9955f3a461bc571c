package service

import (
	"context"
	"time"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They enforce the same invariants the mongo
// implementations enforce through indexes: at most one active plan per
// (user, planType), one session log per (plan, week, day), one plan day per
// (user, date).

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// --- plan repo -------------------------------------------------------------

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.PlanRecord

	setActiveErr error // Injected failure for the next SetActive call
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.PlanRecord{}}
}

func (r *fakePlanRepo) snapshot() map[primitive.ObjectID]*domain.PlanRecord {
	out := make(map[primitive.ObjectID]*domain.PlanRecord, len(r.plans))
	for id, p := range r.plans {
		cp := *p
		out[id] = &cp
	}
	return out
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.PlanRecord) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	cp := *plan
	cp.ID = id
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.plans[id] = &cp
	return id, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanRecord, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlanRepo) GetByUser(_ context.Context, userID primitive.ObjectID) ([]domain.PlanRecord, error) {
	var out []domain.PlanRecord
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) GetActive(_ context.Context, userID primitive.ObjectID, planType domain.PlanType) (*domain.PlanRecord, error) {
	for _, p := range r.plans {
		if p.UserID == userID && p.PlanType == planType && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) CountByUserAndType(_ context.Context, userID primitive.ObjectID, planType domain.PlanType) (int64, error) {
	var n int64
	for _, p := range r.plans {
		if p.UserID == userID && p.PlanType == planType {
			n++
		}
	}
	return n, nil
}

func (r *fakePlanRepo) DeactivateOthers(_ context.Context, userID primitive.ObjectID, planType domain.PlanType, excludeID primitive.ObjectID) error {
	for _, p := range r.plans {
		if p.UserID == userID && p.PlanType == planType && p.IsActive && p.ID != excludeID {
			p.IsActive = false
			p.Status = domain.PlanArchived
			p.PlanStartDate = nil
		}
	}
	return nil
}

func (r *fakePlanRepo) SetActive(_ context.Context, planID primitive.ObjectID, startDate time.Time) error {
	if r.setActiveErr != nil {
		err := r.setActiveErr
		r.setActiveErr = nil
		return err
	}
	p, ok := r.plans[planID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range r.plans {
		if other.UserID == p.UserID && other.PlanType == p.PlanType && other.IsActive && other.ID != planID {
			return repository.ErrConflict
		}
	}
	p.IsActive = true
	p.Status = domain.PlanActive
	p.PlanStartDate = &startDate
	return nil
}

func (r *fakePlanRepo) SetArchiveObjectKey(_ context.Context, planID primitive.ObjectID, objectKey string) error {
	p, ok := r.plans[planID]
	if !ok {
		return repository.ErrNotFound
	}
	p.ArchiveObjectKey = objectKey
	return nil
}

// --- plan request repo -----------------------------------------------------

type fakePlanRequestRepo struct {
	requests map[primitive.ObjectID]*domain.PlanRequest
}

func newFakePlanRequestRepo() *fakePlanRequestRepo {
	return &fakePlanRequestRepo{requests: map[primitive.ObjectID]*domain.PlanRequest{}}
}

func (r *fakePlanRequestRepo) Create(_ context.Context, request *domain.PlanRequest) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	cp := *request
	cp.ID = id
	cp.CreatedAt = time.Now().UTC()
	r.requests[id] = &cp
	return id, nil
}

func (r *fakePlanRequestRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlanRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

// --- session log repo ------------------------------------------------------

type fakeSessionLogRepo struct {
	logs map[primitive.ObjectID]*domain.SessionLog

	bulkCreateErr error // Injected failure for the next BulkCreate call
}

func newFakeSessionLogRepo() *fakeSessionLogRepo {
	return &fakeSessionLogRepo{logs: map[primitive.ObjectID]*domain.SessionLog{}}
}

func (r *fakeSessionLogRepo) snapshot() map[primitive.ObjectID]*domain.SessionLog {
	out := make(map[primitive.ObjectID]*domain.SessionLog, len(r.logs))
	for id, l := range r.logs {
		cp := *l
		out[id] = &cp
	}
	return out
}

func (r *fakeSessionLogRepo) BulkCreate(_ context.Context, logs []domain.SessionLog) error {
	if r.bulkCreateErr != nil {
		err := r.bulkCreateErr
		r.bulkCreateErr = nil
		return err
	}
	for i := range logs {
		for _, existing := range r.logs {
			if existing.PlanID == logs[i].PlanID &&
				existing.WeekNumber == logs[i].WeekNumber &&
				existing.DayNumber == logs[i].DayNumber {
				return repository.ErrConflict
			}
		}
		cp := logs[i]
		cp.ID = primitive.NewObjectID()
		cp.CreatedAt = time.Now().UTC()
		cp.UpdatedAt = cp.CreatedAt
		r.logs[cp.ID] = &cp
	}
	return nil
}

func (r *fakeSessionLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionLog, error) {
	l, ok := r.logs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *fakeSessionLogRepo) GetByUserAndDate(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.SessionLog, error) {
	for _, l := range r.logs {
		if l.UserID == userID && l.WorkoutDate.Equal(date) {
			cp := *l
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionLogRepo) GetByPlan(_ context.Context, planID primitive.ObjectID) ([]domain.SessionLog, error) {
	var out []domain.SessionLog
	for _, l := range r.logs {
		if l.PlanID == planID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeSessionLogRepo) UpdateCompletion(_ context.Context, sessionLog *domain.SessionLog) error {
	l, ok := r.logs[sessionLog.ID]
	if !ok {
		return repository.ErrNotFound
	}
	l.WarmupCompleted = sessionLog.WarmupCompleted
	l.MainWorkoutCompleted = sessionLog.MainWorkoutCompleted
	l.CooldownCompleted = sessionLog.CooldownCompleted
	l.WorkoutStatus = sessionLog.WorkoutStatus
	l.CompletedAt = sessionLog.CompletedAt
	l.DifficultyRating = sessionLog.DifficultyRating
	l.Notes = sessionLog.Notes
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *fakeSessionLogRepo) MarkMissedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, l := range r.logs {
		if l.WorkoutStatus == domain.WorkoutPending && l.WorkoutDate.Before(cutoff) {
			l.WorkoutStatus = domain.WorkoutMissed
			n++
		}
	}
	return n, nil
}

// --- plan day repo ---------------------------------------------------------

type fakePlanDayRepo struct {
	days map[primitive.ObjectID]*domain.PlanDay

	missNextGet bool // Simulates losing the get-then-create race once
}

func newFakePlanDayRepo() *fakePlanDayRepo {
	return &fakePlanDayRepo{days: map[primitive.ObjectID]*domain.PlanDay{}}
}

func (r *fakePlanDayRepo) Create(_ context.Context, day *domain.PlanDay) (primitive.ObjectID, error) {
	for _, d := range r.days {
		if d.UserID == day.UserID && d.Date.Equal(day.Date) {
			return primitive.NilObjectID, repository.ErrConflict
		}
	}
	id := primitive.NewObjectID()
	cp := *day
	cp.ID = id
	cp.CreatedAt = time.Now().UTC()
	r.days[id] = &cp
	return id, nil
}

func (r *fakePlanDayRepo) GetByUserAndDate(_ context.Context, userID primitive.ObjectID, date time.Time) (*domain.PlanDay, error) {
	if r.missNextGet {
		r.missNextGet = false
		return nil, repository.ErrNotFound
	}
	for _, d := range r.days {
		if d.UserID == userID && d.Date.Equal(date) {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// --- meal log repo ---------------------------------------------------------

type fakeMealLogRepo struct {
	logs map[primitive.ObjectID]*domain.MealLog
}

func newFakeMealLogRepo() *fakeMealLogRepo {
	return &fakeMealLogRepo{logs: map[primitive.ObjectID]*domain.MealLog{}}
}

func (r *fakeMealLogRepo) Create(_ context.Context, mealLog *domain.MealLog) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	cp := *mealLog
	cp.ID = id
	cp.CreatedAt = time.Now().UTC()
	r.logs[id] = &cp
	return id, nil
}

func (r *fakeMealLogRepo) GetByPlanDay(_ context.Context, planDayID primitive.ObjectID) ([]domain.MealLog, error) {
	var out []domain.MealLog
	for _, l := range r.logs {
		if l.PlanDayID == planDayID {
			out = append(out, *l)
		}
	}
	return out, nil
}

// --- hydration repo --------------------------------------------------------

type fakeHydrationRepo struct {
	logs []domain.HydrationLog
}

func newFakeHydrationRepo() *fakeHydrationRepo {
	return &fakeHydrationRepo{}
}

func (r *fakeHydrationRepo) Create(_ context.Context, hydrationLog *domain.HydrationLog) (primitive.ObjectID, error) {
	cp := *hydrationLog
	cp.ID = primitive.NewObjectID()
	cp.CreatedAt = time.Now().UTC()
	r.logs = append(r.logs, cp)
	return cp.ID, nil
}

func (r *fakeHydrationRepo) SumForDate(_ context.Context, userID primitive.ObjectID, date time.Time) (int, error) {
	total := 0
	for _, l := range r.logs {
		if l.UserID == userID && l.Date.Equal(date) {
			total += l.AmountMl
		}
	}
	return total, nil
}

// --- tx runner -------------------------------------------------------------

// fakeTxRunner mimics transactional semantics: on error it restores the plan
// and session-log fakes to their pre-transaction state.
type fakeTxRunner struct {
	planRepo       *fakePlanRepo
	sessionLogRepo *fakeSessionLogRepo
}

func (r *fakeTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	planSnap := r.planRepo.snapshot()
	logSnap := r.sessionLogRepo.snapshot()
	if err := fn(ctx); err != nil {
		r.planRepo.plans = planSnap
		r.sessionLogRepo.logs = logSnap
		return err
	}
	return nil
}

// --- response archive ------------------------------------------------------

type fakeArchive struct {
	keys []string
	err  error
}

func (a *fakeArchive) ArchiveResponse(_ context.Context, objectKey string, _ []byte) error {
	if a.err != nil {
		return a.err
	}
	a.keys = append(a.keys, objectKey)
	return nil
}

func (a *fakeArchive) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://archive.test/" + objectKey, nil
}
