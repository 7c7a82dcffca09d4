package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hieuleminh03/vgov/internal/handler"
	"github.com/hieuleminh03/vgov/internal/middleware"
	"github.com/hieuleminh03/vgov/internal/model"
	"gorm.io/gorm"
)

type Deps struct {
	DB                  *gorm.DB
	JWTSecret           string
	IsTokenRevoked      func(c *gin.Context, jti string) (bool, error)
	AuthHandler         *handler.AuthHandler
	UserHandler         *handler.UserHandler
	ProjectHandler      *handler.ProjectHandler
	MemberHandler       *handler.MemberHandler
	WorkLogHandler      *handler.WorkLogHandler
	AnalyticsHandler    *handler.AnalyticsHandler
	DashboardHandler    *handler.DashboardHandler
	NotificationHandler *handler.NotificationHandler
	ProfileHandler      *handler.ProfileHandler
	FileHandler         *handler.FileHandler
	SystemHandler       *handler.SystemHandler
}

func Setup(r *gin.Engine, deps Deps) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")

	// Public routes (no auth)
	api.POST("/auth/login", deps.AuthHandler.Login)
	api.GET("/system/version", deps.SystemHandler.Version)

	// Authenticated routes
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret, deps.DB, deps.IsTokenRevoked))
	{
		// Auth
		authed.POST("/auth/logout", deps.AuthHandler.Logout)
		authed.POST("/auth/refresh", deps.AuthHandler.Refresh)
		authed.GET("/auth/me", deps.AuthHandler.Me)

		// Users (admin only)
		users := authed.Group("/users")
		users.Use(middleware.RequireAdmin())
		{
			users.GET("", deps.UserHandler.List)
			users.POST("", deps.UserHandler.Create)
			users.GET("/:id", deps.UserHandler.Get)
			users.PUT("/:id", deps.UserHandler.Update)
			users.DELETE("/:id", deps.UserHandler.Deactivate)
			users.PUT("/:id/role", deps.UserHandler.ChangeRole)
			users.PUT("/:id/activate", deps.UserHandler.SetActive)
			users.GET("/:id/workload", deps.UserHandler.Workload)
		}

		// Projects
		projects := authed.Group("/projects")
		{
			projects.GET("", deps.ProjectHandler.List)
			projects.GET("/:id", deps.ProjectHandler.Get)
			projects.POST("", middleware.RequireAdmin(), deps.ProjectHandler.Create)
			projects.PUT("/:id", middleware.RequireAdmin(), deps.ProjectHandler.Update)
			projects.DELETE("/:id", middleware.RequireAdmin(), deps.ProjectHandler.Delete)
			projects.PUT("/:id/status", middleware.RequireAdmin(), deps.ProjectHandler.ChangeStatus)

			// Members under projects
			projects.GET("/:id/members", deps.MemberHandler.List)
			projects.POST("/:id/members", middleware.RequireAdmin(), deps.MemberHandler.Assign)
			projects.PUT("/:id/members/:user_id", middleware.RequireAdmin(), deps.MemberHandler.UpdateWorkload)
			projects.DELETE("/:id/members/:user_id", middleware.RequireAdmin(), deps.MemberHandler.End)
		}

		// Work logs
		workLogs := authed.Group("/work-logs")
		{
			workLogs.GET("", deps.WorkLogHandler.List)
			workLogs.GET("/user/:user_id", deps.WorkLogHandler.ListForUser)
			workLogs.GET("/project/:project_id", deps.WorkLogHandler.ListForProject)
			nonAdmin := middleware.RequireRole(model.RolePM, model.RoleDev, model.RoleBA, model.RoleTest)
			workLogs.POST("", nonAdmin, deps.WorkLogHandler.Create)
			workLogs.PUT("/:id", nonAdmin, deps.WorkLogHandler.Update)
			workLogs.DELETE("/:id", nonAdmin, deps.WorkLogHandler.Delete)
		}

		// Analytics
		analytics := authed.Group("/analytics")
		{
			analytics.GET("/projects", middleware.RequireRole(model.RoleAdmin, model.RolePM), deps.AnalyticsHandler.Projects)
			analytics.GET("/employees", middleware.RequireAdmin(), deps.AnalyticsHandler.Employees)
			analytics.GET("/workload", middleware.RequireAdmin(), deps.AnalyticsHandler.Workload)
			analytics.GET("/project/:id/timeline", deps.AnalyticsHandler.Timeline)
		}

		// Dashboard
		authed.GET("/dashboard/overview", deps.DashboardHandler.Overview)

		// Notifications
		notifications := authed.Group("/notifications")
		{
			notifications.GET("", deps.NotificationHandler.List)
			notifications.GET("/unread", deps.NotificationHandler.Unread)
			notifications.GET("/unread/count", deps.NotificationHandler.UnreadCount)
			notifications.PUT("/:id/read", deps.NotificationHandler.MarkRead)
			notifications.PUT("/read-all", deps.NotificationHandler.MarkAllRead)
			notifications.DELETE("/:id", deps.NotificationHandler.Delete)
		}

		// Profile
		profile := authed.Group("/profile")
		{
			profile.GET("", deps.ProfileHandler.Get)
			profile.PUT("/photo", deps.ProfileHandler.UpdatePhoto)
			profile.DELETE("/photo", deps.ProfileHandler.RemovePhoto)
			profile.PUT("/password", deps.ProfileHandler.ChangePassword)
		}

		// Files
		files := authed.Group("/files")
		{
			files.POST("/upload", deps.FileHandler.Upload)
			files.GET("/:filename", deps.FileHandler.Get)
			files.GET("/url/:filename", deps.FileHandler.URL)
			files.DELETE("/:filename", deps.FileHandler.Delete)
		}

		// System
		authed.GET("/system/health", middleware.RequireAdmin(), deps.SystemHandler.Health)

		// Lookups
		lookup := authed.Group("/lookup")
		{
			lookup.GET("/roles", deps.SystemHandler.Roles)
			lookup.GET("/project-types", deps.SystemHandler.ProjectTypes)
			lookup.GET("/project-statuses", deps.SystemHandler.ProjectStatuses)
		}
	}
}
