package app

import (
	"study_quiz_backend/docs"
	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/middleware"
	"study_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	router.GET("/api/health", c.health.HealthCheck)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		a.registerCourseRoutes(authGroup, c)
		a.registerSessionRoutes(authGroup, c)

		authGroup.GET("/stats", c.stats.Get)
		authGroup.GET("/leaderboard", c.stats.Leaderboard)
	}
}

func (a *App) registerCourseRoutes(rg *gin.RouterGroup, c *controllers) {
	courses := rg.Group("/courses/:courseId")
	{
		courses.PUT("", c.course.Upsert)
		courses.GET("", c.course.Get)
		courses.PUT("/study-depth", c.course.SetStudyDepth)

		// 测验
		courses.GET("/quizzes", c.quiz.Catalog)
		courses.POST("/quizzes/:quizId/start", c.quiz.Start)
		courses.GET("/attempts", c.quiz.History)
		courses.POST("/attempts/:attemptId/export", c.quiz.Export)

		// 答疑
		courses.POST("/doubts", c.doubt.Ask)
		courses.POST("/doubts/stream", c.doubt.AskStream)
	}
}

func (a *App) registerSessionRoutes(rg *gin.RouterGroup, c *controllers) {
	session := rg.Group("/quiz-session")
	{
		session.GET("", c.quiz.Session)
		session.PUT("/answers/:index", c.quiz.Answer)
		session.POST("/flags/:index", c.quiz.ToggleFlag)
		session.POST("/pause", c.quiz.Pause)
		session.POST("/resume", c.quiz.Resume)
		session.POST("/submit", c.quiz.Submit)
		session.POST("/exit", c.quiz.Exit)
	}
}
