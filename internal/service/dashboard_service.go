package service

import (
	"context"
	"errors"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionLogNotFound = errors.New("session log not found")
	ErrInvalidMealType    = errors.New("invalid meal type")
	ErrInvalidMealStatus  = errors.New("invalid meal status")
	ErrInvalidAmount      = errors.New("amount must be positive")
)

// TodayWorkoutView is the workout dashboard read-model. Exactly one of the
// three states holds: no active plan, a rest day, or a scheduled session with
// its prescription and live completion flags.
type TodayWorkoutView struct {
	HasActivePlan bool
	IsRestDay     bool

	PlanID    primitive.ObjectID
	PlanName  string
	SessionID primitive.ObjectID
	Week      int
	Day       int

	// Day is nil when HasActivePlan is false. For rest days it carries the
	// day's label and focus with an empty prescription.
	Session *domain.WorkoutDay

	WarmupCompleted      bool
	MainWorkoutCompleted bool
	CooldownCompleted    bool
	WorkoutStatus        domain.WorkoutStatus
}

// CompleteWorkoutInput carries the full completion state of a session. All
// three section flags are explicit; submitting the same state twice is a
// no-op.
type CompleteWorkoutInput struct {
	SessionID            primitive.ObjectID
	WarmupCompleted      bool
	MainWorkoutCompleted bool
	CooldownCompleted    bool
	DifficultyRating     *int
	Notes                string
}

// MealProgress compares logged COMPLETED meals against the plan's daily
// targets.
type MealProgress struct {
	ConsumedCalories float64
	ConsumedProtein  float64
	ConsumedCarbs    float64
	ConsumedFats     float64

	TargetCalories float64
	TargetProtein  float64
	TargetCarbs    float64
	TargetFats     float64
}

// TodayNutritionView is the nutrition dashboard read-model.
type TodayNutritionView struct {
	HasActivePlan bool

	PlanID    primitive.ObjectID
	PlanName  string
	PlanDayID primitive.ObjectID

	MealTemplates []domain.MealTemplate
	Logs          []domain.MealLog
	Progress      MealProgress
}

// CompleteMealInput logs one meal outcome for today.
type CompleteMealInput struct {
	MealType domain.MealType
	Status   domain.MealStatus
	Macros   domain.MacroSet
	Notes    string
}

// HydrationView reports today's running hydration total against the target.
type HydrationView struct {
	ConsumedMl int
	TargetMl   int
}

// --- Service Interface ---
type DashboardService interface {
	GetTodayWorkout(ctx context.Context, userID primitive.ObjectID) (*TodayWorkoutView, error)
	CompleteWorkout(ctx context.Context, userID primitive.ObjectID, input CompleteWorkoutInput) (*domain.SessionLog, error)
	GetTodayNutrition(ctx context.Context, userID primitive.ObjectID) (*TodayNutritionView, error)
	CompleteMeal(ctx context.Context, userID primitive.ObjectID, input CompleteMealInput) (*domain.MealLog, error)
	GetTodayHydration(ctx context.Context, userID primitive.ObjectID) (*HydrationView, error)
	LogHydration(ctx context.Context, userID primitive.ObjectID, amountMl int) (*HydrationView, error)
}

// --- Service Implementation ---

type dashboardService struct {
	planRepo          repository.PlanRepository
	sessionLogRepo    repository.SessionLogRepository
	planDayRepo       repository.PlanDayRepository
	mealLogRepo       repository.MealLogRepository
	hydrationRepo     repository.HydrationRepository
	hydrationTargetMl int
	clock             Clock
}

// NewDashboardService creates a new instance of dashboardService.
func NewDashboardService(
	planRepo repository.PlanRepository,
	sessionLogRepo repository.SessionLogRepository,
	planDayRepo repository.PlanDayRepository,
	mealLogRepo repository.MealLogRepository,
	hydrationRepo repository.HydrationRepository,
	hydrationTargetMl int,
	clock Clock,
) DashboardService {
	if hydrationTargetMl <= 0 {
		hydrationTargetMl = domain.DefaultHydrationTargetMl
	}
	return &dashboardService{
		planRepo:          planRepo,
		sessionLogRepo:    sessionLogRepo,
		planDayRepo:       planDayRepo,
		mealLogRepo:       mealLogRepo,
		hydrationRepo:     hydrationRepo,
		hydrationTargetMl: hydrationTargetMl,
		clock:             clock,
	}
}

// GetTodayWorkout resolves today's session from the materialized schedule and
// joins it with the prescription stored on the active plan.
func (s *dashboardService) GetTodayWorkout(ctx context.Context, userID primitive.ObjectID) (*TodayWorkoutView, error) {
	today := StartOfDay(s.clock())

	sessionLog, err := s.sessionLogRepo.GetByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &TodayWorkoutView{HasActivePlan: false}, nil
		}
		return nil, err
	}

	plan, err := s.planRepo.GetByID(ctx, sessionLog.PlanID)
	if err != nil {
		return nil, err
	}
	if !plan.IsActive {
		// Schedule rows of archived plans do not drive the dashboard.
		return &TodayWorkoutView{HasActivePlan: false}, nil
	}

	view := &TodayWorkoutView{
		HasActivePlan:        true,
		IsRestDay:            sessionLog.IsRestDay,
		PlanID:               plan.ID,
		PlanName:             plan.Name,
		SessionID:            sessionLog.ID,
		Week:                 sessionLog.WeekNumber,
		Day:                  sessionLog.DayNumber,
		WarmupCompleted:      sessionLog.WarmupCompleted,
		MainWorkoutCompleted: sessionLog.MainWorkoutCompleted,
		CooldownCompleted:    sessionLog.CooldownCompleted,
		WorkoutStatus:        sessionLog.WorkoutStatus,
	}
	if plan.WorkoutPlan != nil {
		view.Session = plan.WorkoutPlan.FindDay(sessionLog.WeekNumber, sessionLog.DayNumber)
	}
	return view, nil
}

// CompleteWorkout records the full completion state of a session. The
// session is COMPLETED exactly when all three sections are done; anything
// less puts it back to PENDING (SKIPPED for rest days), and re-submitting
// the same flags changes nothing.
func (s *dashboardService) CompleteWorkout(ctx context.Context, userID primitive.ObjectID, input CompleteWorkoutInput) (*domain.SessionLog, error) {
	sessionLog, err := s.sessionLogRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionLogNotFound
		}
		return nil, err
	}
	if sessionLog.UserID != userID {
		return nil, ErrPlanAccessDenied
	}

	sessionLog.WarmupCompleted = input.WarmupCompleted
	sessionLog.MainWorkoutCompleted = input.MainWorkoutCompleted
	sessionLog.CooldownCompleted = input.CooldownCompleted
	sessionLog.DifficultyRating = input.DifficultyRating
	if input.Notes != "" {
		sessionLog.Notes = input.Notes
	}

	if input.WarmupCompleted && input.MainWorkoutCompleted && input.CooldownCompleted {
		sessionLog.WorkoutStatus = domain.WorkoutCompleted
		if sessionLog.CompletedAt == nil {
			now := s.clock()
			sessionLog.CompletedAt = &now
		}
	} else {
		if sessionLog.IsRestDay {
			sessionLog.WorkoutStatus = domain.WorkoutSkipped
		} else {
			sessionLog.WorkoutStatus = domain.WorkoutPending
		}
		sessionLog.CompletedAt = nil
	}

	if err := s.sessionLogRepo.UpdateCompletion(ctx, sessionLog); err != nil {
		return nil, err
	}
	return sessionLog, nil
}

// GetTodayNutrition resolves today's nutrition dashboard. The plan-day row is
// created lazily on first read.
func (s *dashboardService) GetTodayNutrition(ctx context.Context, userID primitive.ObjectID) (*TodayNutritionView, error) {
	plan, err := s.planRepo.GetActive(ctx, userID, domain.PlanTypeNutrition)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &TodayNutritionView{HasActivePlan: false}, nil
		}
		return nil, err
	}

	planDay, err := s.getOrCreatePlanDay(ctx, userID, plan.ID)
	if err != nil {
		return nil, err
	}

	logs, err := s.mealLogRepo.GetByPlanDay(ctx, planDay.ID)
	if err != nil {
		return nil, err
	}

	view := &TodayNutritionView{
		HasActivePlan: true,
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		PlanDayID:     planDay.ID,
		Logs:          logs,
	}
	if plan.NutritionPlan != nil {
		view.MealTemplates = plan.NutritionPlan.Meals.Templates
		view.Progress = buildMealProgress(plan.NutritionPlan.Targets, logs)
	}
	return view, nil
}

// CompleteMeal appends one meal log to today's plan day. Logs are additive;
// a second log for the same meal type is a new row, not an update.
func (s *dashboardService) CompleteMeal(ctx context.Context, userID primitive.ObjectID, input CompleteMealInput) (*domain.MealLog, error) {
	switch input.MealType {
	case domain.MealBreakfast, domain.MealLunch, domain.MealDinner, domain.MealSnack:
	default:
		return nil, ErrInvalidMealType
	}
	switch input.Status {
	case domain.MealLogged, domain.MealSkippedStatus:
	default:
		return nil, ErrInvalidMealStatus
	}

	plan, err := s.planRepo.GetActive(ctx, userID, domain.PlanTypeNutrition)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	planDay, err := s.getOrCreatePlanDay(ctx, userID, plan.ID)
	if err != nil {
		return nil, err
	}

	mealLog := &domain.MealLog{
		PlanDayID: planDay.ID,
		UserID:    userID,
		MealType:  input.MealType,
		Status:    input.Status,
		Macros:    input.Macros,
		Notes:     input.Notes,
	}
	id, err := s.mealLogRepo.Create(ctx, mealLog)
	if err != nil {
		return nil, err
	}
	mealLog.ID = id
	return mealLog, nil
}

// GetTodayHydration reports today's running total against the target.
func (s *dashboardService) GetTodayHydration(ctx context.Context, userID primitive.ObjectID) (*HydrationView, error) {
	today := StartOfDay(s.clock())
	consumed, err := s.hydrationRepo.SumForDate(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	return &HydrationView{ConsumedMl: consumed, TargetMl: s.hydrationTargetMl}, nil
}

// LogHydration appends one intake event and returns the updated total.
func (s *dashboardService) LogHydration(ctx context.Context, userID primitive.ObjectID, amountMl int) (*HydrationView, error) {
	if amountMl <= 0 {
		return nil, ErrInvalidAmount
	}
	today := StartOfDay(s.clock())
	_, err := s.hydrationRepo.Create(ctx, &domain.HydrationLog{
		UserID:   userID,
		Date:     today,
		AmountMl: amountMl,
	})
	if err != nil {
		return nil, err
	}
	return s.GetTodayHydration(ctx, userID)
}

// getOrCreatePlanDay fetches today's plan-day row, creating it on first
// access. A concurrent create loses to the unique (user, date) index and
// falls back to re-reading the winner's row.
func (s *dashboardService) getOrCreatePlanDay(ctx context.Context, userID, planID primitive.ObjectID) (*domain.PlanDay, error) {
	today := StartOfDay(s.clock())

	planDay, err := s.planDayRepo.GetByUserAndDate(ctx, userID, today)
	if err == nil {
		return planDay, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	fresh := &domain.PlanDay{PlanID: planID, UserID: userID, Date: today}
	id, createErr := s.planDayRepo.Create(ctx, fresh)
	if createErr == nil {
		fresh.ID = id
		return fresh, nil
	}
	if errors.Is(createErr, repository.ErrConflict) {
		return s.planDayRepo.GetByUserAndDate(ctx, userID, today)
	}
	return nil, createErr
}

// buildMealProgress sums macros of COMPLETED logs against the plan targets.
// Skipped meals contribute nothing.
func buildMealProgress(targets domain.NutritionTargets, logs []domain.MealLog) MealProgress {
	progress := MealProgress{
		TargetCalories: targets.DailyCalories,
		TargetProtein:  targets.ProteinGrams,
		TargetCarbs:    targets.CarbGrams,
		TargetFats:     targets.FatGrams,
	}
	for _, entry := range logs {
		if entry.Status != domain.MealLogged {
			continue
		}
		progress.ConsumedCalories += entry.Macros.Calories
		progress.ConsumedProtein += entry.Macros.Protein
		progress.ConsumedCarbs += entry.Macros.Carbs
		progress.ConsumedFats += entry.Macros.Fats
	}
	return progress
}
