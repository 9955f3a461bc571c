package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"time"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/generation"
	"pulsefit/coach-app/internal/planschema"
	"pulsefit/coach-app/internal/repository"
	"pulsefit/coach-app/internal/storage"
	"pulsefit/coach-app/internal/template"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrPlanAccessDenied   = errors.New("plan does not belong to this user")
	ErrGenerationFailed   = errors.New("plan generation failed after all attempts")
	ErrActivationConflict = errors.New("another plan was activated concurrently")
	ErrArchiveUnavailable = errors.New("no archived response for this plan")
)

// maxGenerationAttempts caps the calls to the generation collaborator per
// CreatePlan request. Each attempt is independent; nothing is reused between
// them.
const maxGenerationAttempts = 2

// CreatePlanInput is one plan-generation request. TemplateVersion pins the
// questionnaire shape the client rendered.
type CreatePlanInput struct {
	UserID          primitive.ObjectID
	TemplateID      string
	TemplateVersion string
	Answers         domain.Answers
}

// CreatePlanResult reports the persisted plan plus the outcome of the
// first-plan auto-activation. ActivationErr is non-nil when generation and
// persistence succeeded but activation did not; the plan then stays GENERATED
// and can be activated explicitly later.
type CreatePlanResult struct {
	Plan          *domain.PlanRecord
	Activated     bool
	ActivationErr error
}

// --- Service Interface ---
type PlanService interface {
	CreatePlan(ctx context.Context, input CreatePlanInput) (*CreatePlanResult, error)
	ActivatePlan(ctx context.Context, userID, planID primitive.ObjectID) error
	GetMyPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanRecord, error)
	GetMyPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.PlanRecord, error)
	GetSessionLogs(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.SessionLog, error)
	GetRawResponseURL(ctx context.Context, userID, planID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type planService struct {
	registry       *template.Registry
	generator      generation.Generator
	planRepo       repository.PlanRepository
	requestRepo    repository.PlanRequestRepository
	sessionLogRepo repository.SessionLogRepository
	txRunner       repository.TxRunner
	archive        storage.ResponseArchive // Optional; nil disables archival
	clock          Clock
}

// NewPlanService creates a new instance of planService.
func NewPlanService(
	registry *template.Registry,
	generator generation.Generator,
	planRepo repository.PlanRepository,
	requestRepo repository.PlanRequestRepository,
	sessionLogRepo repository.SessionLogRepository,
	txRunner repository.TxRunner,
	archive storage.ResponseArchive,
	clock Clock,
) PlanService {
	return &planService{
		registry:       registry,
		generator:      generator,
		planRepo:       planRepo,
		requestRepo:    requestRepo,
		sessionLogRepo: sessionLogRepo,
		txRunner:       txRunner,
		archive:        archive,
		clock:          clock,
	}
}

// CreatePlan runs the full generation pipeline: version pin, sanitize,
// validate, prompt build, bounded generation+validation attempts, persistence,
// and first-plan activation. Input-shape errors surface before any external
// call and are never retried.
func (s *planService) CreatePlan(ctx context.Context, input CreatePlanInput) (*CreatePlanResult, error) {
	tpl, err := s.registry.Get(input.TemplateID)
	if err != nil {
		return nil, err
	}

	// 1. Version pin
	if err := template.AssertTemplateVersion(tpl, input.TemplateVersion); err != nil {
		return nil, err
	}

	// 2. Sanitize + validate answers
	answers := template.SanitizeAnswers(tpl, input.Answers)
	if err := template.ValidateAnswers(tpl, answers); err != nil {
		return nil, err
	}

	// 3. Build prompt
	userPrompt := template.BuildUserPrompt(tpl, answers)
	systemPrompt := generation.SystemPromptFor(tpl.PlanType)

	// 4-6. Generate and validate, bounded attempts, independent each time
	var rawResponse string
	var workoutDoc *domain.WorkoutPlanDoc
	var nutritionDoc *domain.NutritionPlanDoc
	var lastErr error
	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		raw, genErr := s.generator.GeneratePlan(ctx, systemPrompt, userPrompt)
		if genErr != nil {
			lastErr = genErr
			log.Printf("Generation attempt %d/%d failed for user %s: %v", attempt, maxGenerationAttempts, input.UserID.Hex(), genErr)
			continue
		}
		workoutDoc, nutritionDoc, lastErr = validatePlanDocument(tpl.PlanType, raw)
		if lastErr == nil {
			rawResponse = raw
			break
		}
		log.Printf("Response validation attempt %d/%d failed for user %s: %v", attempt, maxGenerationAttempts, input.UserID.Hex(), lastErr)
	}
	if workoutDoc == nil && nutritionDoc == nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}

	// 7. Persist the request record, then the plan record referencing it
	request := &domain.PlanRequest{
		UserID:          input.UserID,
		TemplateID:      tpl.ID,
		TemplateVersion: tpl.Version,
		PlanType:        tpl.PlanType,
		Answers:         answers,
		Prompt:          userPrompt,
	}
	requestID, err := s.requestRepo.Create(ctx, request)
	if err != nil {
		return nil, err
	}

	plan := buildPlanRecord(input.UserID, requestID, tpl.PlanType, answers, rawResponse, workoutDoc, nutritionDoc)
	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID

	s.archiveResponse(ctx, plan)

	result := &CreatePlanResult{Plan: plan}

	// 8. First plan of this type activates immediately. Activation failure is
	// reported separately; the generated plan survives it.
	count, err := s.planRepo.CountByUserAndType(ctx, input.UserID, tpl.PlanType)
	if err != nil {
		result.ActivationErr = err
		return result, nil
	}
	if count == 1 {
		if err := s.ActivatePlan(ctx, input.UserID, planID); err != nil {
			result.ActivationErr = err
			return result, nil
		}
		result.Activated = true
		// Reload so the response carries the activated state, start date
		// included.
		if activated, readErr := s.planRepo.GetByID(ctx, planID); readErr == nil {
			result.Plan = activated
		} else {
			log.Printf("WARN: Failed to reload plan %s after activation: %v", planID.Hex(), readErr)
			plan.Status = domain.PlanActive
			plan.IsActive = true
			startDate := StartOfDay(s.clock())
			plan.PlanStartDate = &startDate
		}
	}
	return result, nil
}

// ActivatePlan makes the plan the user's single active plan of its type and
// materializes its session schedule. Deactivation, activation, and the bulk
// insert run in one transaction; a partial failure rolls everything back, so
// re-invoking after a failure is safe.
func (s *planService) ActivatePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	if plan.UserID != userID {
		return ErrPlanAccessDenied
	}
	if plan.IsActive {
		return nil // Already active; nothing to do
	}

	startDate := StartOfDay(s.clock())
	sessionLogs := materializeSchedule(plan, startDate)

	err = s.txRunner.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.planRepo.DeactivateOthers(txCtx, userID, plan.PlanType, planID); err != nil {
			return err
		}
		if err := s.planRepo.SetActive(txCtx, planID, startDate); err != nil {
			return err
		}
		return s.sessionLogRepo.BulkCreate(txCtx, sessionLogs)
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrActivationConflict
		}
		return err
	}
	return nil
}

// GetMyPlans lists all of the user's plans, newest first.
func (s *planService) GetMyPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.PlanRecord, error) {
	return s.planRepo.GetByUser(ctx, userID)
}

// GetMyPlan fetches one plan with an ownership check.
func (s *planService) GetMyPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.PlanRecord, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}

// GetSessionLogs lists the materialized schedule of one of the user's plans.
func (s *planService) GetSessionLogs(ctx context.Context, userID, planID primitive.ObjectID) ([]domain.SessionLog, error) {
	if _, err := s.GetMyPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.sessionLogRepo.GetByPlan(ctx, planID)
}

// GetRawResponseURL presigns a download link for the archived raw response of
// one of the user's plans.
func (s *planService) GetRawResponseURL(ctx context.Context, userID, planID primitive.ObjectID) (string, error) {
	plan, err := s.GetMyPlan(ctx, userID, planID)
	if err != nil {
		return "", err
	}
	if s.archive == nil || plan.ArchiveObjectKey == "" {
		return "", ErrArchiveUnavailable
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, plan.ArchiveObjectKey, storage.DefaultPresignedURLExpiry)
}

// archiveResponse writes the raw model output to the response archive and
// records the object key on the plan row. Best-effort: the plan row already
// holds the raw text.
func (s *planService) archiveResponse(ctx context.Context, plan *domain.PlanRecord) {
	if s.archive == nil {
		return
	}
	objectKey := path.Join("plans", plan.UserID.Hex(), plan.ID.Hex(), uuid.NewString()+".json")
	if err := s.archive.ArchiveResponse(ctx, objectKey, []byte(plan.RawResponse)); err != nil {
		log.Printf("WARN: Failed to archive generation response for plan %s: %v", plan.ID.Hex(), err)
		return
	}
	if err := s.planRepo.SetArchiveObjectKey(ctx, plan.ID, objectKey); err != nil {
		log.Printf("WARN: Failed to record archive key for plan %s: %v", plan.ID.Hex(), err)
		return
	}
	plan.ArchiveObjectKey = objectKey
}

// validatePlanDocument dispatches to the structural validator for the plan type.
func validatePlanDocument(planType domain.PlanType, raw string) (*domain.WorkoutPlanDoc, *domain.NutritionPlanDoc, error) {
	switch planType {
	case domain.PlanTypeNutrition:
		doc, err := planschema.ValidateNutritionPlan(raw)
		if err != nil {
			return nil, nil, err
		}
		return nil, doc, nil
	default:
		doc, err := planschema.ValidateWorkoutPlan(raw)
		if err != nil {
			return nil, nil, err
		}
		return doc, nil, nil
	}
}

// buildPlanRecord assembles the persisted row, denormalizing summary fields
// from the plan meta and the questionnaire answers for list views.
func buildPlanRecord(
	userID, requestID primitive.ObjectID,
	planType domain.PlanType,
	answers domain.Answers,
	rawResponse string,
	workoutDoc *domain.WorkoutPlanDoc,
	nutritionDoc *domain.NutritionPlanDoc,
) *domain.PlanRecord {
	plan := &domain.PlanRecord{
		UserID:        userID,
		RequestID:     requestID,
		PlanType:      planType,
		Status:        domain.PlanGenerated,
		IsActive:      false,
		SchemaVersion: planschema.SchemaVersion,
		RawResponse:   rawResponse,
		WorkoutPlan:   workoutDoc,
		NutritionPlan: nutritionDoc,
	}
	if workoutDoc != nil {
		plan.Name = workoutDoc.Meta.PlanName
		plan.Description = workoutDoc.Meta.PlanDescription
		plan.DurationWeeks = workoutDoc.Meta.PlanDurationWeeks
		plan.Goal = answerString(answers, "primary_goal")
		plan.Environment = answerString(answers, "training_environment")
		plan.WeeklyFrequency = answerString(answers, "weekly_frequency")
	}
	if nutritionDoc != nil {
		plan.Name = nutritionDoc.Meta.PlanName
		plan.Description = nutritionDoc.Meta.PlanDescription
		plan.DurationWeeks = nutritionDoc.Meta.PlanDurationWeeks
		plan.Goal = answerString(answers, "nutrition_goal")
	}
	return plan
}

func answerString(answers domain.Answers, key string) string {
	if v, ok := answers[key].(string); ok {
		return v
	}
	return ""
}

// materializeSchedule projects the plan's week/day matrix onto calendar
// dates: workoutDate = startDate + (week-1)*7 + (day-1) days. Weeks are
// 1-indexed, days are 1-indexed within the week, so week 2 day 1 lands
// exactly 7 days after week 1 day 1. Rest days seed SKIPPED, the rest
// PENDING. A plan with no schedule produces no rows, which is not an error.
func materializeSchedule(plan *domain.PlanRecord, startDate time.Time) []domain.SessionLog {
	if plan.WorkoutPlan == nil {
		return nil
	}
	var logs []domain.SessionLog
	for _, week := range plan.WorkoutPlan.Schedule {
		for _, day := range week.Days {
			offsetDays := (week.Week-1)*7 + (day.Day - 1)
			status := domain.WorkoutPending
			if day.IsRestDay {
				status = domain.WorkoutSkipped
			}
			logs = append(logs, domain.SessionLog{
				PlanID:        plan.ID,
				UserID:        plan.UserID,
				WeekNumber:    week.Week,
				DayNumber:     day.Day,
				WorkoutDate:   startDate.AddDate(0, 0, offsetDays),
				IsRestDay:     day.IsRestDay,
				WorkoutStatus: status,
			})
		}
	}
	return logs
}
