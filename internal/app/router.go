package app

import (
	"agriverse_backend/internal/config"
	"agriverse_backend/internal/middleware"
	"agriverse_backend/internal/model"
	"agriverse_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerMentorRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// The marketplace catalog is browsable by guests; a bearer token, when
		// present, lets the detail view report the caller's enrollment.
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.List)
		public.GET("/courses/:id", middleware.TryAuthMiddleware(cfg), c.course.Get)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.GET("/interests", c.auth.GetInterests)
	rg.POST("/interests", c.auth.SaveInterests)

	learning := rg.Group("/learning")
	{
		learning.GET("/modules", c.learning.GetModules)
		learning.GET("/progress", c.learning.GetProgress)
		learning.POST("/complete-video/:videoId", c.learning.CompleteVideo)
		learning.POST("/submit-proof/:videoId", c.learning.SubmitProof)
	}

	farmers := rg.Group("/farmers")
	{
		farmers.POST("/register", c.farmer.Register)
		farmers.GET("/profile", c.farmer.Profile)
		farmers.PUT("/verification", c.farmer.UpdateVerification)
		farmers.GET("/verification-status", c.farmer.VerificationStatus)
	}

	purchases := rg.Group("/purchases")
	{
		purchases.GET("/my-courses", c.purchase.MyCourses)
		purchases.POST("/confirm", c.purchase.Confirm)
		purchases.POST("/:id", c.purchase.Initiate)
		purchases.PUT("/:id/progress", c.purchase.UpdateWatchProgress)
	}

	rg.POST("/courses/:id/rating", c.course.AddRating)
}

func (a *App) registerMentorRoutes(rg *gin.RouterGroup, c *controllers) {
	mentors := rg.Group("/mentors")
	{
		mentors.POST("/register", c.mentor.Register)
		mentors.GET("/profile", c.mentor.Profile)
		mentors.GET("/stats", middleware.RoleMiddleware(model.RoleMentor), c.mentor.Stats)
	}

	courses := rg.Group("/courses")
	courses.Use(middleware.RoleMiddleware(model.RoleMentor))
	{
		courses.POST("", c.course.Create)
		courses.PUT("/:id", c.course.Update)
		courses.PUT("/:id/status", c.course.UpdateStatus)
		courses.POST("/:id/videos", c.course.UploadVideo)
		courses.POST("/:id/thumbnail", c.course.UploadThumbnail)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		admin.POST("/learning/reset", c.learning.ResetProgress)
		admin.POST("/learning/seed", c.learning.ReseedCatalog)
		admin.PUT("/farmers/:id/rating", c.farmer.UpdateRating)
	}
}
