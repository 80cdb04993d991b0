package app

import (
	"github.com/Harish3000/Learn-Labs-sub000/docs"
	"github.com/Harish3000/Learn-Labs-sub000/internal/config"
	"github.com/Harish3000/Learn-Labs-sub000/internal/middleware"
	"github.com/Harish3000/Learn-Labs-sub000/internal/model"
	"github.com/Harish3000/Learn-Labs-sub000/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Health)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerAssessmentRoutes(authGroup, c)
		a.registerLectureRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerAssessmentRoutes(rg *gin.RouterGroup, c *controllers) {
	assessment := rg.Group("/assessment")
	{
		assessment.POST("/performance", c.assessment.SubmitPerformance)
		assessment.GET("/next-difficulty", c.assessment.NextDifficulty)
		assessment.GET("/last-attempt", c.assessment.LastAttempt)
		assessment.GET("/session/ws", c.assessment.SessionWS)
	}
}

func (a *App) registerLectureRoutes(rg *gin.RouterGroup, c *controllers) {
	lectures := rg.Group("/lectures")
	{
		lectures.GET("", c.lecture.GetLectures)
		lectures.GET("/:id", c.lecture.GetLectureData)
		lectures.POST("/:id/join", c.lecture.JoinLecture)
		lectures.GET("/:id/live-window", c.lecture.GetLiveWindow)

		// Lecturer-only management surface.
		manage := lectures.Group("")
		manage.Use(middleware.RoleMiddleware(model.Lecturer))
		{
			manage.GET("/:id/verify-video", c.lecture.VerifyVideo)
			manage.POST("/:id/assets", c.lecture.UploadAsset)
		}
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Lecturer, model.Admin))
	{
		admin.GET("/dashboard/student-performance", c.dashboard.GetStudentPerformance)
	}
}
