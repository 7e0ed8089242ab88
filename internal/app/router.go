package app

import (
	"time"

	"exam_practice_backend/docs"
	"exam_practice_backend/internal/config"
	"exam_practice_backend/internal/middleware"
	"exam_practice_backend/internal/model"
	"exam_practice_backend/pkg/monitoring"
	"exam_practice_backend/pkg/security"
	"exam_practice_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func newRouter(cfg *config.Config, c *controllers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	setupMiddlewares(router, cfg)
	registerRoutes(router, c, cfg)
	return router
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	registerStudentRoutes(authGroup, c)

	// 3. 教师/管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(model.Teacher))
	registerAdminRoutes(admin, c)
}

func registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)

	rg.GET("/subjects", c.subject.List)
	rg.GET("/subjects/:id", c.subject.Get)
	rg.GET("/exams", c.exam.List)

	// 答题
	rg.POST("/quiz/compose", c.quiz.Compose)
	rg.GET("/quiz/sessions/:id", c.quiz.Resume)
	rg.DELETE("/quiz/sessions/:id", c.quiz.Abandon)

	// 作答记录
	rg.POST("/attempts", c.attempt.Submit)
	rg.GET("/attempts", c.attempt.ListMine)
	rg.GET("/attempts/:id", c.attempt.Get)
}

func registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.POST("/subjects", c.subject.Create)
	rg.PUT("/subjects/:id", c.subject.Update)
	rg.DELETE("/subjects/:id", c.subject.Delete)

	rg.GET("/questions", c.question.List)
	rg.POST("/questions", c.question.Create)
	rg.GET("/questions/:id", c.question.Get)
	rg.PUT("/questions/:id", c.question.Update)
	rg.DELETE("/questions/:id", c.question.Delete)
	rg.POST("/uploads/images", c.upload.UploadImage)

	rg.GET("/exams", c.exam.List)
	rg.POST("/exams", c.exam.Create)
	rg.GET("/exams/:id", c.exam.Get)
	rg.PUT("/exams/:id", c.exam.Update)
	rg.DELETE("/exams/:id", c.exam.Delete)

	rg.GET("/attempts", c.attempt.List)
	rg.DELETE("/attempts/:id", c.attempt.Delete)

	// 用户管理仅限管理员
	users := rg.Group("/users", middleware.RoleMiddleware(model.Admin))
	{
		users.GET("", c.user.List)
		users.PUT("/:id/role", c.user.UpdateRole)
		users.PUT("/:id/disabled", c.user.SetDisabled)
	}
}
