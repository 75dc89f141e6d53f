package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Darkdevil-tech-tech/voiceofcode/internal/models"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/services"
	"github.com/Darkdevil-tech-tech/voiceofcode/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	profileHandler   *ProfileHandler
	complaintHandler *ComplaintHandler
	adminHandler     *AdminHandler
	authMiddleware   *AuthMiddleware
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	authMiddleware := NewAuthMiddleware(serviceManager.Auth(), serviceManager.Role())

	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), logger),
		profileHandler:   NewProfileHandler(serviceManager.Profile(), logger),
		complaintHandler: NewComplaintHandler(serviceManager.Complaint(), logger),
		adminHandler:     NewAdminHandler(serviceManager.Admin(), serviceManager.Export(), logger),
		authMiddleware:   authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		// Public auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", hm.authHandler.SignUp)
			auth.POST("/signin", hm.authHandler.SignIn)
			auth.POST("/signout", hm.authMiddleware.RequireAuth(), hm.authHandler.SignOut)
		}

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(hm.authMiddleware.RequireAuth())
		{
			// Profile routes - self only
			authed.GET("/profile", hm.profileHandler.GetProfile)
			authed.PUT("/profile", hm.profileHandler.UpdateProfile)

			// Complaint routes - students own their rows; the service layer
			// grants admins read access on single complaints
			complaints := authed.Group("/complaints")
			{
				complaints.POST("", hm.authMiddleware.RequireRole(models.RoleStudent), hm.complaintHandler.CreateComplaint)
				complaints.GET("", hm.authMiddleware.RequireRole(models.RoleStudent), hm.complaintHandler.ListComplaints)
				complaints.GET("/:id", hm.complaintHandler.GetComplaint)
				complaints.PUT("/:id", hm.authMiddleware.RequireRole(models.RoleStudent), hm.complaintHandler.UpdateComplaint)
				complaints.DELETE("/:id", hm.authMiddleware.RequireRole(models.RoleStudent), hm.complaintHandler.DeleteComplaint)
			}

			// Admin routes
			admin := authed.Group("/admin")
			admin.Use(hm.authMiddleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/complaints", hm.adminHandler.ListAllComplaints)
				admin.PUT("/complaints/:id/status", hm.adminHandler.TriageComplaint)
				admin.GET("/complaints/export", hm.adminHandler.ExportComplaints)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "complaint-service",
		})
	})
}
