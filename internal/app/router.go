package app

import (
	"study_backend/docs"
	"study_backend/internal/config"
	"study_backend/internal/middleware"
	"study_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.StreakMiddleware(s.streak))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/users/profile", c.user.UpdateProfile)
		authGroup.POST("/users/language", c.user.ChangeLanguage)
		authGroup.GET("/users/streak", c.user.GetStreak)

		// Topic discovery chat
		authGroup.POST("/chat/messages", c.chat.SendMessage)
		authGroup.POST("/chat/messages/async", c.chat.SendMessageAsync)
		authGroup.GET("/chat/messages", c.chat.GetHistory)
		authGroup.DELETE("/chat/messages", c.chat.ClearHistory)

		// Courses
		authGroup.POST("/courses/generate", c.course.GenerateCourse)
		authGroup.GET("/dashboard", c.course.GetDashboard)
		authGroup.GET("/courses/:id", c.course.GetCourse)
		authGroup.GET("/courses/:id/certificate", c.course.DownloadCertificate)

		// Lessons and quizzes
		authGroup.GET("/lessons/:id", c.learning.GetLesson)
		authGroup.POST("/lessons/:id/chat", c.learning.LessonChat)
		authGroup.POST("/quizzes/:id/submit", c.learning.SubmitQuiz)

		// Gamification
		authGroup.GET("/leaderboard", c.leaderboard.GetLeaderboard)
		authGroup.GET("/gamification", c.leaderboard.GetGamification)

		// Background tasks
		authGroup.GET("/tasks/:id", c.task.GetTask)
	}
}
