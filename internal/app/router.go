package app

import (
	"projectgreen_backend/docs"
	"projectgreen_backend/internal/config"
	"projectgreen_backend/internal/middleware"
	"projectgreen_backend/internal/model"
	"projectgreen_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerTrainingRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerTrainingRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)

	training := rg.Group("/training")
	{
		training.GET("/modules", c.training.GetModules)
		training.GET("/modules/:id", c.training.GetModule)
		training.GET("/modules/:id/progress", c.training.GetModuleProgress)
		training.POST("/progress", c.training.RecordProgress)
		training.GET("/user/progress", c.training.GetUserProgress)
		training.GET("/leaderboard", c.training.GetLeaderboard)
		training.GET("/my-rank", c.training.GetMyRank)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/training")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/modules", c.catalog.CreateModule)
		admin.DELETE("/modules/:id", c.catalog.DeleteModule)

		admin.POST("/flashcards", c.catalog.AddFlashcard)
		admin.PUT("/flashcards/:id", c.catalog.UpdateFlashcard)
		admin.DELETE("/flashcards/:id", c.catalog.DeleteFlashcard)

		admin.POST("/videos", c.catalog.AddVideo)
		admin.PUT("/videos/:id", c.catalog.UpdateVideo)
		admin.DELETE("/videos/:id", c.catalog.DeleteVideo)
		admin.POST("/videos/upload", c.catalog.UploadVideo)

		admin.POST("/quizzes", c.catalog.AddQuiz)
		admin.DELETE("/quizzes/:id", c.catalog.DeleteQuiz)

		admin.POST("/questions", c.catalog.AddQuestion)
		admin.DELETE("/questions/:id", c.catalog.DeleteQuestion)

		admin.POST("/options", c.catalog.AddOption)
		admin.DELETE("/options/:id", c.catalog.DeleteOption)
	}
}
