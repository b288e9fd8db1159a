package router

import (
	"time"

	"github.com/datashield-dev/datashield/internal/handlers"
	"github.com/datashield-dev/datashield/internal/middleware"
	"github.com/datashield-dev/datashield/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", types.PurposeHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/audit", middleware.AuthMiddleware(), handlers.AuditStream)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		projects := api.Group("/projects", middleware.AuthMiddleware())
		{
			projects.POST("", handlers.CreateProject)
			projects.GET("", handlers.ListProjects)
			projects.PATCH("/:project_id", handlers.UpdateProject)
			projects.DELETE("/:project_id", handlers.DeleteProject)
			projects.POST("/:project_id/members", handlers.AddProjectMember)

			// Task endpoints
			projects.POST("/:project_id/tasks", handlers.CreateTask)
			projects.GET("/:project_id/tasks", handlers.ListProjectTasks)
			projects.PUT("/:project_id/tasks/:task_id", handlers.UpdateTask)
		}

		// Subject access requests: read the subject's full data bundle, or
		// erase it. Both go through the policy core.
		sar := api.Group("/sar", middleware.AuthMiddleware())
		{
			sar.GET("/:user_id", handlers.FetchSubjectBundle)
			sar.DELETE("/:user_id", handlers.EraseSubject)
		}
	}

	return r
}
