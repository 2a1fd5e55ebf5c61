package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/oguzhan/projecthub/internal/app/controllers"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrls *controllers.Controllers,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", ctrls.AuthController.Login)
		auth.POST("/refresh", ctrls.AuthController.RefreshToken)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", ctrls.AuthController.Logout)
		authenticated.POST("/auth/change-password", ctrls.AuthController.ChangePassword)
		authenticated.GET("/auth/profile", ctrls.AuthController.GetProfile)

		// Mentor directory, readable by any authenticated user
		mentors := authenticated.Group("/mentors")
		{
			mentors.GET("", ctrls.MentorController.ListMentors)
			mentors.GET("/:id", ctrls.MentorController.GetMentor)

			// Mentor-only workspace
			me := mentors.Group("/me")
			me.Use(authMiddleware.RoleRequired(string(models.RoleMentor)))
			{
				me.GET("/requests", ctrls.MentorController.ListRequests)
				me.POST("/requests/:id", ctrls.MentorController.RespondToRequest)
				me.GET("/teams", ctrls.MentorController.GetGuidedTeams)
				me.GET("/projects/pending", ctrls.MentorController.ListPendingIdeas)
				me.POST("/projects/:id", ctrls.MentorController.RespondToIdea)
				me.POST("/projects/:id/documents", ctrls.MentorController.ReviewDocument)
			}
		}

		// Student-only pairing and mentor request routes
		teams := authenticated.Group("/teams")
		teams.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
		{
			teams.GET("/me", ctrls.TeamController.GetMyTeam)
			teams.POST("/solo", ctrls.TeamController.GoSolo)

			teams.POST("/invitations", ctrls.TeamController.SendInvitation)
			teams.GET("/invitations", ctrls.TeamController.ListInvitations)
			teams.POST("/invitations/:id/accept", ctrls.TeamController.AcceptInvitation)
			teams.POST("/invitations/:id/reject", ctrls.TeamController.RejectInvitation)
			teams.DELETE("/invitations/:id", ctrls.TeamController.WithdrawInvitation)

			teams.POST("/mentor-request", ctrls.TeamController.RequestMentor)
			teams.GET("/mentor-request", ctrls.TeamController.GetMentorRequest)
			teams.DELETE("/mentor-request/:id", ctrls.TeamController.WithdrawMentorRequest)
		}

		// Student-only project lifecycle routes
		projects := authenticated.Group("/projects")
		projects.Use(authMiddleware.RoleRequired(string(models.RoleStudent)))
		{
			projects.POST("", ctrls.ProjectController.SubmitIdea)
			projects.GET("", ctrls.ProjectController.GetTeamProjects)
			projects.DELETE("/:id", ctrls.ProjectController.WithdrawIdea)
			projects.PUT("/:id/documents", ctrls.ProjectController.SubmitDocument)
		}

		// Admin override layer
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			admin.GET("/dashboard", ctrls.AdminController.Dashboard)

			admin.POST("/students", ctrls.AdminController.CreateStudent)
			admin.GET("/students", ctrls.AdminController.ListStudents)
			admin.PUT("/students/:id", ctrls.AdminController.UpdateStudent)
			admin.DELETE("/students/:id", ctrls.AdminController.DeleteStudent)
			admin.POST("/students/:id/reset-password", ctrls.AdminController.ResetStudentPassword)
			admin.POST("/students/shift-semesters", ctrls.AdminController.ShiftSemesters)

			admin.POST("/mentors", ctrls.AdminController.CreateMentor)
			admin.PUT("/mentors/capacities", ctrls.AdminController.SetAllCapacities)
			admin.PUT("/mentors/:id/capacity", ctrls.AdminController.UpdateMentorCapacity)

			admin.POST("/teams", ctrls.AdminController.ForcePair)
			admin.GET("/teams", ctrls.AdminController.ListTeams)
			admin.POST("/teams/unassign-semester", ctrls.AdminController.UnassignSemester)
			admin.PUT("/teams/:id/mentor", ctrls.AdminController.AssignMentor)
			admin.DELETE("/teams/:id/mentor", ctrls.AdminController.UnassignMentor)
			admin.DELETE("/teams/:id/members/:studentId", ctrls.AdminController.RemoveTeamMember)
			admin.DELETE("/teams/:id", ctrls.AdminController.DisbandTeam)

			admin.GET("/projects", ctrls.AdminController.ListProjects)
			admin.POST("/projects/:id/clear-documents", ctrls.AdminController.ClearProjectDocuments)
			admin.DELETE("/projects/:id", ctrls.AdminController.DeleteProject)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.NewAPIResponse(gin.H{"status": "ok"}))
	})
}
