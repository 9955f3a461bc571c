package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/service"
	"pulsefit/coach-app/internal/template"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	TemplateID      string         `json:"templateId" binding:"required"`
	TemplateVersion string         `json:"templateVersion" binding:"required"`
	Answers         domain.Answers `json:"answers" binding:"required"`
}

// PlanSummaryResponse is the list-view projection of a plan record.
type PlanSummaryResponse struct {
	ID              string            `json:"id"`
	PlanType        domain.PlanType   `json:"planType"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	DurationWeeks   int               `json:"durationWeeks"`
	Goal            string            `json:"goal,omitempty"`
	Environment     string            `json:"environment,omitempty"`
	WeeklyFrequency string            `json:"weeklyFrequency,omitempty"`
	Status          domain.PlanStatus `json:"status"`
	IsActive        bool              `json:"isActive"`
	PlanStartDate   *time.Time        `json:"planStartDate,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// PlanDetailResponse adds the full parsed document to the summary.
type PlanDetailResponse struct {
	PlanSummaryResponse
	WorkoutPlan   *domain.WorkoutPlanDoc   `json:"workoutPlan,omitempty"`
	NutritionPlan *domain.NutritionPlanDoc `json:"nutritionPlan,omitempty"`
}

type CreatePlanResponse struct {
	Plan            PlanDetailResponse `json:"plan"`
	Activated       bool               `json:"activated"`
	ActivationError string             `json:"activationError,omitempty"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Generate a new plan from questionnaire answers
// @Description Runs the full generation pipeline and persists the result. The
// @Description user's first plan of a type is activated automatically.
// @Tags Plans
// @Accept json
// @Produce json
// @Param request body CreatePlanRequest true "Template reference and answers"
// @Success 201 {object} CreatePlanResponse "Plan generated"
// @Failure 400 {object} gin.H "Invalid answers"
// @Failure 404 {object} gin.H "Unknown template"
// @Failure 409 {object} gin.H "Template version mismatch"
// @Failure 502 {object} gin.H "Generation failed after all attempts"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.planService.CreatePlan(c.Request.Context(), service.CreatePlanInput{
		UserID:          userID,
		TemplateID:      req.TemplateID,
		TemplateVersion: req.TemplateVersion,
		Answers:         req.Answers,
	})
	if err != nil {
		h.abortCreatePlanError(c, err)
		return
	}

	resp := CreatePlanResponse{
		Plan:      MapPlanToDetailResponse(result.Plan),
		Activated: result.Activated,
	}
	if result.ActivationErr != nil {
		resp.ActivationError = result.ActivationErr.Error()
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PlanHandler) abortCreatePlanError(c *gin.Context, err error) {
	var versionMismatch *template.VersionMismatchError
	var missingField *template.MissingRequiredFieldError
	var selectionCount *template.SelectionCountError
	var invalidOption *template.InvalidOptionError
	var invalidType *template.InvalidAnswerTypeError

	switch {
	case errors.Is(err, template.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &versionMismatch):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &missingField),
		errors.As(err, &selectionCount),
		errors.As(err, &invalidOption),
		errors.As(err, &invalidType):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGenerationFailed):
		abortWithError(c, http.StatusBadGateway, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during plan generation")
	}
}

// ListPlans returns all of the logged-in user's plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	plans, err := h.planService.GetMyPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to list plans")
		return
	}

	resp := make([]PlanSummaryResponse, 0, len(plans))
	for i := range plans {
		resp = append(resp, MapPlanToSummaryResponse(&plans[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetPlan returns one plan with its full parsed document.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetMyPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.abortPlanLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapPlanToDetailResponse(plan))
}

// ActivatePlan makes the plan the user's active plan of its type.
func (h *PlanHandler) ActivatePlan(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}

	if err := h.planService.ActivatePlan(c.Request.Context(), userID, planID); err != nil {
		if errors.Is(err, service.ErrActivationConflict) {
			abortWithError(c, http.StatusConflict, err.Error())
			return
		}
		h.abortPlanLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "activated"})
}

// GetSessionLogs returns the materialized schedule of a plan.
func (h *PlanHandler) GetSessionLogs(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}

	logs, err := h.planService.GetSessionLogs(c.Request.Context(), userID, planID)
	if err != nil {
		h.abortPlanLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// GetRawResponseURL returns a short-lived download link for the archived raw
// model response behind a plan.
func (h *PlanHandler) GetRawResponseURL(c *gin.Context) {
	userID, planID, ok := h.userAndPlanID(c)
	if !ok {
		return
	}

	url, err := h.planService.GetRawResponseURL(c.Request.Context(), userID, planID)
	if err != nil {
		if errors.Is(err, service.ErrArchiveUnavailable) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		h.abortPlanLookupError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *PlanHandler) abortPlanLookupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func (h *PlanHandler) userAndPlanID(c *gin.Context) (userID, planID primitive.ObjectID, ok bool) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return userID, planID, false
	}
	planID, err = primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return userID, planID, false
	}
	return userID, planID, true
}

// --- Mappers ---

func MapPlanToSummaryResponse(plan *domain.PlanRecord) PlanSummaryResponse {
	return PlanSummaryResponse{
		ID:              plan.ID.Hex(),
		PlanType:        plan.PlanType,
		Name:            plan.Name,
		Description:     plan.Description,
		DurationWeeks:   plan.DurationWeeks,
		Goal:            plan.Goal,
		Environment:     plan.Environment,
		WeeklyFrequency: plan.WeeklyFrequency,
		Status:          plan.Status,
		IsActive:        plan.IsActive,
		PlanStartDate:   plan.PlanStartDate,
		CreatedAt:       plan.CreatedAt,
	}
}

func MapPlanToDetailResponse(plan *domain.PlanRecord) PlanDetailResponse {
	return PlanDetailResponse{
		PlanSummaryResponse: MapPlanToSummaryResponse(plan),
		WorkoutPlan:         plan.WorkoutPlan,
		NutritionPlan:       plan.NutritionPlan,
	}
}
