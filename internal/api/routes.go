package api

import (
	"net/http"

	"pulsefit/coach-app/internal/service"
	"pulsefit/coach-app/internal/template"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	registry *template.Registry,
	authService service.AuthService,
	planService service.PlanService,
	dashboardService service.DashboardService,
) {

	authHandler := NewAuthHandler(authService)
	templateHandler := NewTemplateHandler(registry)
	planHandler := NewPlanHandler(planService)
	dashboardHandler := NewDashboardHandler(dashboardService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})
		protected.PUT("/profile", authHandler.UpdateProfile)

		// --- Questionnaire Templates ---
		templateGroup := protected.Group("/templates")
		{
			templateGroup.GET("", templateHandler.ListTemplates)
			templateGroup.GET("/:templateId", templateHandler.GetTemplate)
		}

		// --- Plan Generation and Lifecycle ---
		planGroup := protected.Group("/plans")
		{
			planGroup.POST("", planHandler.CreatePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.POST("/:planId/activate", planHandler.ActivatePlan)
			planGroup.GET("/:planId/sessions", planHandler.GetSessionLogs)
			planGroup.GET("/:planId/raw-response", planHandler.GetRawResponseURL)
		}

		// --- Daily Dashboards ---
		dashboardGroup := protected.Group("/dashboard")
		{
			dashboardGroup.GET("/workout/today", dashboardHandler.GetTodayWorkout)
			dashboardGroup.POST("/workout/complete", dashboardHandler.CompleteWorkout)
			dashboardGroup.GET("/nutrition/today", dashboardHandler.GetTodayNutrition)
			dashboardGroup.POST("/nutrition/meals", dashboardHandler.CompleteMeal)
			dashboardGroup.GET("/hydration/today", dashboardHandler.GetTodayHydration)
			dashboardGroup.POST("/hydration", dashboardHandler.LogHydration)
		}
	}
}
