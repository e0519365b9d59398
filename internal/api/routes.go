package api

import (
	"net/http"

	"fitforge/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires the HTTP surface. All workout and exercise routes
// require an authenticated caller.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	generationService service.GenerationService,
	exerciseService service.ExerciseService,
) {
	workoutHandler := NewWorkoutHandler(generationService)
	exerciseHandler := NewExerciseHandler(exerciseService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("/generate-day", workoutHandler.GenerateDay)
			workoutGroup.GET("/day", workoutHandler.GetDay)
			workoutGroup.POST("/generate-week", workoutHandler.GenerateWeek)
			workoutGroup.GET("/week", workoutHandler.GetWeek)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			// Maintenance path: the generation pipeline never writes here.
			exerciseGroup.POST("/bulk-upsert", exerciseHandler.BulkUpsert)
			exerciseGroup.GET("", exerciseHandler.ListExercises)
		}
	}
}
