package api

import (
	"errors"
	"fmt"
	"net/http"

	"pulsefit/coach-app/internal/domain"
	"pulsefit/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardHandler holds the dashboard service dependency.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// --- Request Structs ---

type CompleteWorkoutRequest struct {
	SessionID            string `json:"sessionId" binding:"required"`
	WarmupCompleted      bool   `json:"warmupCompleted"`
	MainWorkoutCompleted bool   `json:"mainWorkoutCompleted"`
	CooldownCompleted    bool   `json:"cooldownCompleted"`
	DifficultyRating     *int   `json:"difficultyRating"`
	Notes                string `json:"notes"`
}

type CompleteMealRequest struct {
	MealType domain.MealType   `json:"mealType" binding:"required"`
	Status   domain.MealStatus `json:"status" binding:"required"`
	Macros   domain.MacroSet   `json:"macros"`
	Notes    string            `json:"notes"`
}

type LogHydrationRequest struct {
	AmountMl int `json:"amountMl" binding:"required"`
}

// --- Handler Methods ---

// GetTodayWorkout returns the workout dashboard for the current day.
func (h *DashboardHandler) GetTodayWorkout(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	view, err := h.dashboardService.GetTodayWorkout(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load today's workout")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CompleteWorkout records the completion state of a scheduled session.
func (h *DashboardHandler) CompleteWorkout(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(req.SessionID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	sessionLog, err := h.dashboardService.CompleteWorkout(c.Request.Context(), userID, service.CompleteWorkoutInput{
		SessionID:            sessionID,
		WarmupCompleted:      req.WarmupCompleted,
		MainWorkoutCompleted: req.MainWorkoutCompleted,
		CooldownCompleted:    req.CooldownCompleted,
		DifficultyRating:     req.DifficultyRating,
		Notes:                req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionLogNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout")
		}
		return
	}
	c.JSON(http.StatusOK, sessionLog)
}

// GetTodayNutrition returns the nutrition dashboard for the current day.
func (h *DashboardHandler) GetTodayNutrition(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	view, err := h.dashboardService.GetTodayNutrition(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load today's nutrition")
		return
	}
	c.JSON(http.StatusOK, view)
}

// CompleteMeal logs one meal outcome for today.
func (h *DashboardHandler) CompleteMeal(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req CompleteMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	mealLog, err := h.dashboardService.CompleteMeal(c.Request.Context(), userID, service.CompleteMealInput{
		MealType: req.MealType,
		Status:   req.Status,
		Macros:   req.Macros,
		Notes:    req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMealType), errors.Is(err, service.ErrInvalidMealStatus):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, "No active nutrition plan")
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to log meal")
		}
		return
	}
	c.JSON(http.StatusCreated, mealLog)
}

// GetTodayHydration returns today's hydration total against the target.
func (h *DashboardHandler) GetTodayHydration(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	view, err := h.dashboardService.GetTodayHydration(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load hydration")
		return
	}
	c.JSON(http.StatusOK, view)
}

// LogHydration appends one intake event and returns the updated total.
func (h *DashboardHandler) LogHydration(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}

	var req LogHydrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	view, err := h.dashboardService.LogHydration(c.Request.Context(), userID, req.AmountMl)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to log hydration")
		return
	}
	c.JSON(http.StatusCreated, view)
}
