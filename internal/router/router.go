package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/proposalhub-dev/proposalhub/internal/handlers"
	"github.com/proposalhub-dev/proposalhub/internal/middleware"
	"github.com/proposalhub-dev/proposalhub/internal/models"
	"github.com/proposalhub-dev/proposalhub/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)
			auth.GET("/profile", middleware.AuthMiddleware(), handlers.Profile)
			auth.PUT("/profile", middleware.AuthMiddleware(), handlers.UpdateProfile)
			auth.PUT("/change-password", middleware.AuthMiddleware(), handlers.ChangePassword)
		}

		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleAdmin))
		{
			admin.GET("/proposals", handlers.ListAllProposals)
			admin.POST("/proposals/:id/review", handlers.ReviewProposal)
			admin.POST("/proposals/:id/under-review", handlers.MarkUnderReview)
			admin.POST("/users/bd", handlers.CreateBDUser)
			admin.GET("/users/bd", handlers.ListBDUsers)
		}

		bd := api.Group("/bd", middleware.AuthMiddleware(), middleware.RequireRoles(models.RoleBusinessDeveloper))
		{
			bd.GET("/proposals", handlers.ListMyProposals)
			bd.POST("/proposals", handlers.CreateProposal)
			bd.PUT("/proposals/:id", handlers.UpdateProposal)
			bd.POST("/proposals/:id/submit", handlers.SubmitProposal)
			bd.GET("/proposals/:id/reviews", handlers.ListProposalReviews)
			bd.POST("/proposals/:id/revise", handlers.ReviseProposal)
		}

		docs := api.Group("/documents", middleware.AuthMiddleware())
		{
			docs.GET("/proposals/:id/preview/:format", handlers.PreviewDocument)
			docs.GET("/proposals/:id/download/:format", handlers.DownloadDocument)
			docs.GET("/proposals/:id/template", handlers.GetTemplate)
			docs.PUT("/proposals/:id/template", middleware.RequireRoles(models.RoleBusinessDeveloper), handlers.UpdateTemplate)
			docs.GET("/templates/default", handlers.DefaultTemplate)
		}
	}

	return r
}
