package app

import (
	"simtrain_backend/docs"
	"simtrain_backend/internal/config"
	"simtrain_backend/internal/middleware"
	"simtrain_backend/internal/model"
	"simtrain_backend/pkg/monitoring"

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
		a.registerPlayerRoutes(authGroup, c)
	}

	a.registerAdminRoutes(router, c, repos, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}
}

func (a *App) registerPlayerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.auth.UpdateProfile)

	games := rg.Group("/games")
	{
		games.GET("/types", c.game.GetGameTypes)
		games.POST("/start", c.game.StartGame)
		games.POST("/:id/action", c.game.ProcessAction)
		games.POST("/:id/action/stream", c.game.StreamAction)
		games.POST("/:id/end", c.game.EndGame)
		games.GET("/history", c.game.GetHistory)
	}

	rg.GET("/reports/me", c.report.GetMyReport)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		// Listing and per-user reports are open to group admins as well; the
		// controllers pin group admins to their own organization.
		shared := admin.Group("/")
		shared.Use(middleware.RoleMiddleware(model.Admin, model.GroupAdmin))
		{
			shared.GET("/users", c.user.GetUsers)
			shared.GET("/reports/users/:id", c.report.GetUserReport)
			shared.GET("/reports/organizations/:id", c.report.GetOrganizationReport)
		}

		adminOnly := admin.Group("/")
		adminOnly.Use(middleware.RoleMiddleware(model.Admin))
		{
			adminOnly.PUT("/users/:id", c.user.UpdateUser)
			adminOnly.POST("/users/:id/reset-password", c.user.ResetPassword)
			adminOnly.POST("/users/:id/disable", c.user.DisableUser)
		}
	}
}
