package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/generation"
	"pulsefit/coach-app/internal/planschema"
	"pulsefit/coach-app/internal/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const workoutPlanJSON = `{
  "meta": {"planName": "Foundation", "planDescription": "Two week intro block", "planDurationWeeks": 2},
  "plan": {
    "schedule": [
      {
        "week": 1, "weekLabel": "Week 1", "focus": "base", "isDeloadWeek": false,
        "days": [
          {
            "day": 1, "dayLabel": "Full Body A", "focus": "full body", "isRestDay": false,
            "sessionIntent": "learn the movements", "totalDurationMinutes": 60,
            "warmup": [], "cooldown": [],
            "workout": [
              {
                "exercise": "Goblet Squat", "movementPattern": "squat", "role": "main_lift",
                "sets": 3, "reps": "8-10", "restSeconds": 120,
                "intensityGuidance": {"type": "rpe", "value": "7"},
                "tempo": "2-0-2", "notes": ""
              }
            ]
          },
          {
            "day": 2, "dayLabel": "Rest", "focus": "recovery", "isRestDay": true,
            "sessionIntent": "full rest", "totalDurationMinutes": 0,
            "warmup": [], "workout": [], "cooldown": []
          }
        ]
      },
      {
        "week": 2, "weekLabel": "Week 2", "focus": "base", "isDeloadWeek": false,
        "days": [
          {
            "day": 1, "dayLabel": "Full Body B", "focus": "full body", "isRestDay": false,
            "sessionIntent": "add a little load", "totalDurationMinutes": 60,
            "warmup": [], "cooldown": [],
            "workout": [
              {
                "exercise": "Romanian Deadlift", "movementPattern": "hinge", "role": "main_lift",
                "sets": 3, "reps": "8-10", "restSeconds": 120,
                "intensityGuidance": {"type": "rpe", "value": "7"},
                "tempo": "3-0-1", "notes": ""
              }
            ]
          }
        ]
      }
    ],
    "progressionSummary": {"strategy": "linear", "notes": ["add load weekly"]},
    "substitutions": [],
    "recoveryGuidance": {"recommendedRestDays": 3, "sorenessExpectations": "mild", "mobilityFocus": ["hips"]},
    "notes": {"safety": [], "general": []}
  }
}`

const nutritionPlanJSON = `{
  "meta": {"planName": "Steady Fuel", "planDescription": "Maintenance plan", "planDurationWeeks": 8},
  "plan": {
    "targets": {"dailyCalories": 2400, "proteinGrams": 160, "carbGrams": 280, "fatGrams": 75, "macroStrategy": "balanced"},
    "structure": {"mealsPerDay": 3, "timingGuidance": "even spacing", "hydrationGuidance": "2 liters", "supplementGuidance": "none"},
    "meals": {
      "templates": [
        {
          "mealType": "lunch", "goal": "steady energy",
          "mealOptions": [
            {
              "foods": [{"name": "Chicken bowl", "quantity": "1 bowl", "notes": ""}],
              "estimatedMacros": {"protein": 45, "carbs": 60, "fats": 15, "calories": 550}
            }
          ]
        }
      ]
    },
    "adjustments": {"checkInMetrics": ["weight"], "rules": []},
    "flexibility": {
      "eatingOut": {"frequency": "weekly", "rules": []},
      "substitutions": [], "budgetTips": []
    },
    "health": {"allergiesExcluded": [], "medicalNotes": [], "digestiveTip": "", "safetyNote": ""},
    "notes": {"adherenceTips": [], "commonMistakes": [], "general": ""}
  }
}`

type planServiceFixture struct {
	svc         PlanService
	planRepo    *fakePlanRepo
	requestRepo *fakePlanRequestRepo
	sessionRepo *fakeSessionLogRepo
	generator   *generation.ScriptedGenerator
	archive     *fakeArchive
	now         time.Time
}

func newPlanServiceFixture(t *testing.T, gen *generation.ScriptedGenerator) *planServiceFixture {
	t.Helper()
	f := &planServiceFixture{
		planRepo:    newFakePlanRepo(),
		requestRepo: newFakePlanRequestRepo(),
		sessionRepo: newFakeSessionLogRepo(),
		generator:   gen,
		archive:     &fakeArchive{},
		now:         time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC),
	}
	f.svc = NewPlanService(
		template.NewRegistry(),
		gen,
		f.planRepo,
		f.requestRepo,
		f.sessionRepo,
		&fakeTxRunner{planRepo: f.planRepo, sessionLogRepo: f.sessionRepo},
		f.archive,
		fixedClock(f.now),
	)
	return f
}

func workoutCreateInput(userID primitive.ObjectID) CreatePlanInput {
	return CreatePlanInput{
		UserID:          userID,
		TemplateID:      "workout_onboarding",
		TemplateVersion: "1.2.0",
		Answers: domain.Answers{
			"fitness_level":        "beginner",
			"primary_goal":         "build_muscle",
			"training_environment": "gym",
			"weekly_frequency":     "3",
			"has_injuries":         false,
		},
	}
}

func TestCreatePlanFirstPlanIsActivated(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()

	result, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.True(t, result.Activated)
	assert.NoError(t, result.ActivationErr)

	// The returned record reflects the activation, start date included.
	assert.True(t, result.Plan.IsActive)
	assert.Equal(t, domain.PlanActive, result.Plan.Status)
	require.NotNil(t, result.Plan.PlanStartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *result.Plan.PlanStartDate)

	stored, err := f.planRepo.GetByID(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanActive, stored.Status)
	assert.True(t, stored.IsActive)
	assert.Equal(t, "Foundation", stored.Name)
	assert.Equal(t, 2, stored.DurationWeeks)
	assert.Equal(t, "build_muscle", stored.Goal)
	assert.Equal(t, "gym", stored.Environment)
	assert.Equal(t, "3", stored.WeeklyFrequency)
	assert.Equal(t, planschema.SchemaVersion, stored.SchemaVersion)
	require.NotNil(t, stored.PlanStartDate)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *stored.PlanStartDate)

	// The answer set that produced the plan is persisted alongside it.
	request, err := f.requestRepo.GetByID(context.Background(), stored.RequestID)
	require.NoError(t, err)
	assert.Equal(t, "workout_onboarding", request.TemplateID)
	assert.Equal(t, "1.2.0", request.TemplateVersion)
	assert.NotEmpty(t, request.Prompt)
	assert.Equal(t, float64(60), request.Answers["session_length_minutes"]) // Default applied

	assert.Len(t, f.archive.keys, 1)
	assert.Equal(t, 1, f.generator.Calls())
}

func TestCreatePlanMaterializesScheduleDates(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()

	result, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)

	logs, err := f.sessionRepo.GetByPlan(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	require.Len(t, logs, 3)

	byWeekDay := map[[2]int]domain.SessionLog{}
	for _, l := range logs {
		byWeekDay[[2]int{l.WeekNumber, l.DayNumber}] = l
	}

	w1d1 := byWeekDay[[2]int{1, 1}]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), w1d1.WorkoutDate)
	assert.Equal(t, domain.WorkoutPending, w1d1.WorkoutStatus)

	w1d2 := byWeekDay[[2]int{1, 2}]
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), w1d2.WorkoutDate)
	assert.True(t, w1d2.IsRestDay)
	assert.Equal(t, domain.WorkoutSkipped, w1d2.WorkoutStatus)

	w2d1 := byWeekDay[[2]int{2, 1}]
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), w2d1.WorkoutDate)
}

func TestCreatePlanRetriesOnceOnInvalidResponse(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(`{"broken": true}`, workoutPlanJSON))
	userID := primitive.NewObjectID()

	result, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)
	assert.Equal(t, "Foundation", result.Plan.Name)
	assert.Equal(t, 2, f.generator.Calls())
}

func TestCreatePlanFailsAfterTwoAttemptsAndPersistsNothing(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewFailingGenerator(errors.New("upstream down")))
	userID := primitive.NewObjectID()

	_, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 2, f.generator.Calls())
	assert.Empty(t, f.planRepo.plans)
	assert.Empty(t, f.requestRepo.requests)
	assert.Empty(t, f.archive.keys)
}

func TestCreatePlanRejectsBadInputBeforeGeneration(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()

	input := workoutCreateInput(userID)
	input.TemplateVersion = "0.1.0"
	_, err := f.svc.CreatePlan(context.Background(), input)
	var mismatch *template.VersionMismatchError
	require.ErrorAs(t, err, &mismatch)

	input = workoutCreateInput(userID)
	delete(input.Answers, "primary_goal")
	_, err = f.svc.CreatePlan(context.Background(), input)
	var missing *template.MissingRequiredFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "primary_goal", missing.Key)

	assert.Equal(t, 0, f.generator.Calls())
	assert.Empty(t, f.planRepo.plans)
}

func TestCreatePlanSecondPlanStaysGenerated(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()

	first, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)
	require.True(t, first.Activated)

	second, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)
	assert.False(t, second.Activated)

	stored, err := f.planRepo.GetByID(context.Background(), second.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanGenerated, stored.Status)
	assert.False(t, stored.IsActive)

	// The first plan is untouched.
	active, err := f.planRepo.GetActive(context.Background(), userID, domain.PlanTypeWorkout)
	require.NoError(t, err)
	assert.Equal(t, first.Plan.ID, active.ID)
}

func TestCreatePlanReportsActivationFailureSeparately(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	f.planRepo.setActiveErr = errors.New("write concern timeout")

	result, err := f.svc.CreatePlan(context.Background(), workoutCreateInput(userID))
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.False(t, result.Activated)
	assert.Error(t, result.ActivationErr)

	stored, err := f.planRepo.GetByID(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanGenerated, stored.Status)
	assert.False(t, stored.IsActive)

	logs, err := f.sessionRepo.GetByPlan(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestCreatePlanNutrition(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(nutritionPlanJSON))
	userID := primitive.NewObjectID()

	result, err := f.svc.CreatePlan(context.Background(), CreatePlanInput{
		UserID:          userID,
		TemplateID:      "nutrition_onboarding",
		TemplateVersion: "1.1.0",
		Answers: domain.Answers{
			"nutrition_goal": "maintain",
			"dietary_style":  "omnivore",
			"has_allergies":  false,
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Activated)

	stored, err := f.planRepo.GetByID(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanTypeNutrition, stored.PlanType)
	assert.Equal(t, "Steady Fuel", stored.Name)
	assert.Equal(t, "maintain", stored.Goal)
	require.NotNil(t, stored.NutritionPlan)
	assert.Nil(t, stored.WorkoutPlan)

	// Nutrition plans have no workout schedule to materialize.
	logs, err := f.sessionRepo.GetByPlan(context.Background(), result.Plan.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestActivatePlanSwitchesActivePlan(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	ctx := context.Background()

	first, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)
	second, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)

	require.NoError(t, f.svc.ActivatePlan(ctx, userID, second.Plan.ID))

	oldPlan, err := f.planRepo.GetByID(ctx, first.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanArchived, oldPlan.Status)
	assert.False(t, oldPlan.IsActive)
	assert.Nil(t, oldPlan.PlanStartDate)

	newPlan, err := f.planRepo.GetByID(ctx, second.Plan.ID)
	require.NoError(t, err)
	assert.True(t, newPlan.IsActive)

	logs, err := f.sessionRepo.GetByPlan(ctx, second.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)
}

func TestActivatePlanIsIdempotentWhenAlreadyActive(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	ctx := context.Background()

	result, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)
	require.True(t, result.Activated)

	require.NoError(t, f.svc.ActivatePlan(ctx, userID, result.Plan.ID))

	logs, err := f.sessionRepo.GetByPlan(ctx, result.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3) // Not duplicated
}

func TestActivatePlanRollsBackOnMaterializationFailure(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	ctx := context.Background()

	first, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)
	second, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)

	f.sessionRepo.bulkCreateErr = errors.New("disk full")
	err = f.svc.ActivatePlan(ctx, userID, second.Plan.ID)
	require.Error(t, err)

	// The transaction rolled back: the first plan is still the active one and
	// the second remains GENERATED with no schedule rows.
	active, err := f.planRepo.GetActive(ctx, userID, domain.PlanTypeWorkout)
	require.NoError(t, err)
	assert.Equal(t, first.Plan.ID, active.ID)

	stored, err := f.planRepo.GetByID(ctx, second.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanGenerated, stored.Status)
	logs, err := f.sessionRepo.GetByPlan(ctx, second.Plan.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestActivatePlanOwnership(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	owner := primitive.NewObjectID()
	intruder := primitive.NewObjectID()
	ctx := context.Background()

	result, err := f.svc.CreatePlan(ctx, workoutCreateInput(owner))
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.ActivatePlan(ctx, intruder, result.Plan.ID), ErrPlanAccessDenied)
	assert.ErrorIs(t, f.svc.ActivatePlan(ctx, owner, primitive.NewObjectID()), ErrPlanNotFound)

	_, err = f.svc.GetMyPlan(ctx, intruder, result.Plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

func TestGetMyPlansAndSessionLogs(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	ctx := context.Background()

	result, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)

	plans, err := f.svc.GetMyPlans(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, plans, 1)

	logs, err := f.svc.GetSessionLogs(ctx, userID, result.Plan.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 3)

	_, err = f.svc.GetSessionLogs(ctx, primitive.NewObjectID(), result.Plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

func TestGetRawResponseURL(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	userID := primitive.NewObjectID()
	ctx := context.Background()

	result, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)

	stored, err := f.planRepo.GetByID(ctx, result.Plan.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.ArchiveObjectKey)
	assert.Contains(t, stored.ArchiveObjectKey, "plans/"+userID.Hex()+"/"+result.Plan.ID.Hex()+"/")

	url, err := f.svc.GetRawResponseURL(ctx, userID, result.Plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://archive.test/"+stored.ArchiveObjectKey, url)

	_, err = f.svc.GetRawResponseURL(ctx, primitive.NewObjectID(), result.Plan.ID)
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

func TestGetRawResponseURLWhenUploadFailed(t *testing.T) {
	f := newPlanServiceFixture(t, generation.NewScriptedGenerator(workoutPlanJSON))
	f.archive.err = errors.New("bucket offline")
	userID := primitive.NewObjectID()
	ctx := context.Background()

	result, err := f.svc.CreatePlan(ctx, workoutCreateInput(userID))
	require.NoError(t, err)
	assert.Empty(t, result.Plan.ArchiveObjectKey)

	_, err = f.svc.GetRawResponseURL(ctx, userID, result.Plan.ID)
	assert.ErrorIs(t, err, ErrArchiveUnavailable)
}
