package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/app/services"
	"github.com/oguzhan/projecthub/internal/middleware"
	"github.com/oguzhan/projecthub/internal/pkg/helpers"
)

// AdminController handles the admin override layer: student and mentor
// records, forced pairing, mentor assignment and bulk semester operations.
type AdminController struct {
	adminService *services.AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService *services.AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{
		adminService: adminService,
		logger:       logger,
	}
}

// CreateStudent adds a student record with the default password
// @Summary Create student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid email, registration number or semester"
// @Failure 409 {object} dto.ErrorResponse "Email or registration number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [post]
func (c *AdminController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.adminService.CreateStudent(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("registrationNo", student.RegistrationNo).Msg("Student created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromStudent(student)))
}

// ListStudents returns a page of students
// @Summary List students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param semester query int false "Filter by semester (1-8)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid semester filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students [get]
func (c *AdminController) ListStudents(ctx *gin.Context) {
	semester := 0
	if raw := ctx.Query("semester"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 8 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid semester filter")
			errorDetail = errorDetail.WithDetails("semester must be between 1 and 8")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		semester = parsed
	}

	page, size := helpers.GetPaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.adminService.ListStudents(ctx.Request.Context(), semester, int(offset), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.StudentListResponse{
		Students:   dto.FromStudents(students),
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}))
}

// UpdateStudent edits a student record
// @Summary Update student
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Updated fields"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{id} [put]
func (c *AdminController) UpdateStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	student, err := c.adminService.UpdateStudent(ctx.Request.Context(), studentID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromStudent(student)))
}

// DeleteStudent removes a student and their account
// @Summary Delete student
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Student deleted"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{id} [delete]
func (c *AdminController) DeleteStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteStudent(ctx.Request.Context(), studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentId", studentID).Msg("Student deleted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Student deleted"}))
}

// ResetStudentPassword resets a student's password to the default
// @Summary Reset student password
// @Description Resets the password to the configured default and revokes all refresh tokens
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Password reset"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/{id}/reset-password [post]
func (c *AdminController) ResetStudentPassword(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.ResetStudentPassword(ctx.Request.Context(), studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentId", studentID).Msg("Student password reset")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Password reset to default"}))
}

// ShiftSemesters increments every student's semester by one
// @Summary Shift all semesters
// @Description Adds one to every student's semester. Calling twice shifts by two; there is no guard.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ShiftSemestersResponse} "Semesters shifted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/students/shift-semesters [post]
func (c *AdminController) ShiftSemesters(ctx *gin.Context) {
	shifted, err := c.adminService.ShiftAllStudents(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("studentsShifted", shifted).Msg("Semester shift applied")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ShiftSemestersResponse{StudentsShifted: shifted}))
}

// CreateMentor adds a mentor record with the default password
// @Summary Create mentor
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateMentorRequest true "Mentor information"
// @Success 201 {object} dto.APIResponse{data=dto.MentorResponse} "Mentor created"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/mentors [post]
func (c *AdminController) CreateMentor(ctx *gin.Context) {
	var req dto.CreateMentorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	mentor, err := c.adminService.CreateMentor(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("mentorId", mentor.ID).Msg("Mentor created")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromMentor(mentor)))
}

// UpdateMentorCapacity sets a mentor's per-phase capacity ceilings
// @Summary Update mentor capacity
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Param request body dto.UpdateMentorCapacityRequest true "Capacity ceilings"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Capacity updated"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/mentors/{id}/capacity [put]
func (c *AdminController) UpdateMentorCapacity(ctx *gin.Context) {
	mentorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateMentorCapacityRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.adminService.UpdateMentorCapacity(ctx.Request.Context(), mentorID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Capacity updated"}))
}

// SetAllCapacities sets one phase's capacity ceiling for every mentor
// @Summary Set capacity for all mentors
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SetAllCapacitiesRequest true "Phase and ceiling"
// @Success 200 {object} dto.APIResponse{data=dto.CapacityUpdateResponse} "Capacities updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown phase or negative value"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/mentors/capacities [put]
func (c *AdminController) SetAllCapacities(ctx *gin.Context) {
	var req dto.SetAllCapacitiesRequest
	if !bindJSON(ctx, &req) {
		return
	}

	phase := models.ProjectPhase(strings.ToUpper(req.Phase))
	switch phase {
	case models.PhasePT1, models.PhasePT2, models.PhaseFinalYear:
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown phase")
		errorDetail = errorDetail.WithDetails("phase must be one of PT1, PT2, FINAL_YEAR")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	updated, err := c.adminService.SetAllCapacities(ctx.Request.Context(), phase, req.Value)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("phase", string(phase)).Int("value", req.Value).Msg("Bulk capacity update")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.CapacityUpdateResponse{MentorsUpdated: updated}))
}

// ForcePair forms a team from two students directly
// @Summary Force-pair students
// @Description Forms a team bypassing the invitation flow. Both students must be unteamed and in the same phase pool.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ForcePairRequest true "Student IDs"
// @Success 201 {object} dto.APIResponse{data=dto.TeamResponse} "Team formed"
// @Failure 400 {object} dto.ErrorResponse "Same student twice or phase pool mismatch"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "A student already belongs to an active team"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams [post]
func (c *AdminController) ForcePair(ctx *gin.Context) {
	var req dto.ForcePairRequest
	if !bindJSON(ctx, &req) {
		return
	}

	team, err := c.adminService.ForcePair(ctx.Request.Context(), req.Student1ID, req.Student2ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("student1Id", req.Student1ID).
		Int64("student2Id", req.Student2ID).
		Int64("teamId", team.ID).
		Msg("Students force-paired")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromTeam(team)))
}

// ListTeams returns every active team with members and mentor
// @Summary List teams
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeamListResponse} "Teams retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams [get]
func (c *AdminController) ListTeams(ctx *gin.Context) {
	teams, err := c.adminService.ListTeams(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.TeamResponse, 0, len(teams))
	for _, team := range teams {
		responses = append(responses, dto.FromTeam(team))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.TeamListResponse{Teams: responses}))
}

// AssignMentor assigns or changes a team's mentor
// @Summary Assign mentor to team
// @Description Assigns the mentor if capacity allows. Assigning the already-assigned mentor is a no-op.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param request body dto.AssignMentorRequest true "Mentor ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Mentor assigned"
// @Failure 404 {object} dto.ErrorResponse "Team or mentor not found"
// @Failure 409 {object} dto.ErrorResponse "Mentor at capacity"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams/{id}/mentor [put]
func (c *AdminController) AssignMentor(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.AssignMentorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.adminService.AssignMentor(ctx.Request.Context(), teamID, req.MentorID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", teamID).Int64("mentorId", req.MentorID).Msg("Mentor assigned")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Mentor assigned"}))
}

// UnassignMentor removes a team's mentor
// @Summary Unassign mentor from team
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Mentor unassigned"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams/{id}/mentor [delete]
func (c *AdminController) UnassignMentor(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.UnassignMentor(ctx.Request.Context(), teamID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Mentor unassigned"}))
}

// RemoveTeamMember removes one student from a team
// @Summary Remove team member
// @Description Removing the last member disbands the team. If the first member leaves a pair the partner is promoted.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Member removed"
// @Failure 400 {object} dto.ErrorResponse "Student is not a member of the team"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams/{id}/members/{studentId} [delete]
func (c *AdminController) RemoveTeamMember(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	if err := c.adminService.RemoveTeamMember(ctx.Request.Context(), teamID, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", teamID).Int64("studentId", studentID).Msg("Team member removed")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Member removed"}))
}

// DisbandTeam disbands a team entirely
// @Summary Disband team
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Team ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Team disbanded"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams/{id} [delete]
func (c *AdminController) DisbandTeam(ctx *gin.Context) {
	teamID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DisbandTeam(ctx.Request.Context(), teamID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", teamID).Msg("Team disbanded")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Team disbanded"}))
}

// UnassignSemester disbands every active team in a semester
// @Summary Disband all teams in a semester
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UnassignSemesterRequest true "Semester"
// @Success 200 {object} dto.APIResponse{data=dto.UnassignSemesterResponse} "Teams disbanded"
// @Failure 400 {object} dto.ErrorResponse "Invalid semester"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/teams/unassign-semester [post]
func (c *AdminController) UnassignSemester(ctx *gin.Context) {
	var req dto.UnassignSemesterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	disbanded, err := c.adminService.UnassignAllTeamsInSemester(ctx.Request.Context(), req.Semester)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int("semester", req.Semester).Int64("teamsDisbanded", disbanded).Msg("Semester teams disbanded")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.UnassignSemesterResponse{TeamsDisbanded: disbanded}))
}

// Dashboard returns overview counters
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Counters retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dashboard, err := c.adminService.Dashboard(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dashboard))
}

// ListProjects returns projects, optionally filtered by phase
// @Summary List projects
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param phase query string false "Filter by phase" Enums(PT1, PT2, FINAL_YEAR)
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse} "Projects retrieved"
// @Failure 400 {object} dto.ErrorResponse "Unknown phase"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/projects [get]
func (c *AdminController) ListProjects(ctx *gin.Context) {
	phase := models.ProjectPhase(strings.ToUpper(ctx.Query("phase")))

	projects, err := c.adminService.ListProjects(ctx.Request.Context(), phase)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ProjectListResponse{
		Projects: dto.FromProjects(projects),
	}))
}

// ClearProjectDocuments nulls selected deliverable slots on a project
// @Summary Clear project documents
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.ClearDocumentsRequest true "Document types to clear"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Documents cleared"
// @Failure 400 {object} dto.ErrorResponse "Unknown document type"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/projects/{id}/clear-documents [post]
func (c *AdminController) ClearProjectDocuments(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ClearDocumentsRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.adminService.ClearProjectDocuments(ctx.Request.Context(), projectID, req.DocumentTypes); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("projectId", projectID).Strs("documentTypes", req.DocumentTypes).Msg("Project documents cleared")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Documents cleared"}))
}

// DeleteProject removes a project record
// @Summary Delete project
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Project deleted"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/projects/{id} [delete]
func (c *AdminController) DeleteProject(ctx *gin.Context) {
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.adminService.DeleteProject(ctx.Request.Context(), projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("projectId", projectID).Msg("Project deleted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Project deleted"}))
}
