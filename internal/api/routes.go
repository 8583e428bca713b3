package api

import (
	"net/http"

	"alcyxob/fitness-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes registers every endpoint on router. metricsHandler may be nil.
func SetupRoutes(
	router *gin.Engine,
	planService service.PlanService,
	imageService service.ImageService,
	settingsService service.SettingsService,
	metricsHandler http.Handler,
) {
	planHandler := NewPlanHandler(planService)
	imageHandler := NewImageHandler(imageService, planService)
	settingsHandler := NewSettingsHandler(settingsService)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	apiV1 := router.Group("/api/v1")
	{
		planGroup := apiV1.Group("/plans")
		{
			planGroup.POST("/generate", planHandler.GeneratePlan)
			planGroup.POST("/demo", planHandler.DemoPlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/draft", planHandler.GetDraft)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
			planGroup.POST("/:planId/save", planHandler.SavePlan)
			planGroup.POST("/:planId/regenerate", planHandler.RegeneratePlan)
			planGroup.POST("/:planId/substitutions", planHandler.Substitute)
			planGroup.POST("/:planId/images", imageHandler.AttachImage)
		}

		apiV1.POST("/alternatives", planHandler.Alternatives)

		imageGroup := apiV1.Group("/images")
		{
			imageGroup.POST("/generate", imageHandler.GenerateImage)
			imageGroup.POST("/edit", imageHandler.EditImage)
			// Archived images are referenced by items as /api/v1/images/<key>.
			imageGroup.GET("/*key", imageHandler.ArchivedImage)
		}

		settingsGroup := apiV1.Group("/settings")
		{
			settingsGroup.GET("/api-key", settingsHandler.GetAPIKeyStatus)
			settingsGroup.PUT("/api-key", settingsHandler.SetAPIKey)
			settingsGroup.DELETE("/api-key", settingsHandler.ClearAPIKey)
		}
	}
}
