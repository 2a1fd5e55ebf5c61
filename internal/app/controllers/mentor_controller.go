package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/app/services"
	"github.com/oguzhan/projecthub/internal/middleware"
)

// MentorController handles the mentor directory and the mentor side of
// requests and project reviews.
type MentorController struct {
	mentorService     *services.MentorService
	assignmentService *services.MentorAssignmentService
	projectService    *services.ProjectService
	logger            zerolog.Logger
}

// NewMentorController creates a new MentorController
func NewMentorController(
	mentorService *services.MentorService,
	assignmentService *services.MentorAssignmentService,
	projectService *services.ProjectService,
	logger zerolog.Logger,
) *MentorController {
	return &MentorController{
		mentorService:     mentorService,
		assignmentService: assignmentService,
		projectService:    projectService,
		logger:            logger,
	}
}

// ListMentors returns every mentor with derived per-phase load
// @Summary List mentors
// @Description Lists mentors with their current load so teams can find free capacity
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MentorListResponse} "Mentors retrieved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors [get]
func (c *MentorController) ListMentors(ctx *gin.Context) {
	mentors, err := c.mentorService.ListMentors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.MentorResponse, 0, len(mentors))
	for _, m := range mentors {
		responses = append(responses, dto.FromMentorWithLoad(m.Mentor, m.Load))
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MentorListResponse{Mentors: responses}))
}

// GetMentor returns one mentor with load
// @Summary Get mentor by ID
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor ID"
// @Success 200 {object} dto.APIResponse{data=dto.MentorResponse} "Mentor retrieved"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/{id} [get]
func (c *MentorController) GetMentor(ctx *gin.Context) {
	mentorID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	mentor, err := c.mentorService.GetMentor(ctx.Request.Context(), mentorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromMentorWithLoad(mentor.Mentor, mentor.Load)))
}

// ListRequests returns the requests addressed to the logged-in mentor
// @Summary List mentor requests
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED) default(PENDING)
// @Success 200 {object} dto.APIResponse{data=dto.MentorRequestListResponse} "Requests retrieved"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/requests [get]
func (c *MentorController) ListRequests(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	status := models.RequestStatus(strings.ToUpper(ctx.DefaultQuery("status", string(models.RequestPending))))
	switch status {
	case models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown request status")
		errorDetail = errorDetail.WithDetails("status must be one of PENDING, APPROVED, REJECTED")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	requests, err := c.assignmentService.ListRequests(ctx.Request.Context(), userID, status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.MentorRequestListResponse{
		Requests: dto.FromMentorRequests(requests),
	}))
}

// RespondToRequest approves or rejects a pending mentor request
// @Summary Respond to a mentor request
// @Description Approving assigns the mentor to the team. Capacity is re-checked at approval time.
// @Tags mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor request ID"
// @Param request body dto.MentorRequestActionRequest true "APPROVE or REJECT"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Request resolved"
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 403 {object} dto.ErrorResponse "Request is addressed to another mentor"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request no longer pending or mentor at capacity"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/requests/{id} [post]
func (c *MentorController) RespondToRequest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.MentorRequestActionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var err error
	switch strings.ToUpper(req.Action) {
	case "APPROVE":
		err = c.assignmentService.ApproveRequest(ctx.Request.Context(), userID, requestID)
	case "REJECT":
		err = c.assignmentService.RejectRequest(ctx.Request.Context(), userID, requestID)
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown action")
		errorDetail = errorDetail.WithDetails("action must be APPROVE or REJECT")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("requestId", requestID).Str("action", req.Action).Msg("Mentor request resolved")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Request resolved"}))
}

// GetGuidedTeams returns the teams the mentor currently guides
// @Summary List guided teams
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeamListResponse} "Teams retrieved"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/teams [get]
func (c *MentorController) GetGuidedTeams(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	teams, err := c.mentorService.GetGuidedTeams(ctx.Request.Context(), userID)
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

// ListPendingIdeas returns pending project ideas from guided teams
// @Summary List pending project ideas
// @Tags mentors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse} "Pending ideas retrieved"
// @Failure 404 {object} dto.ErrorResponse "Mentor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/projects/pending [get]
func (c *MentorController) ListPendingIdeas(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.ListPendingIdeas(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ProjectListResponse{
		Projects: dto.FromProjects(projects),
	}))
}

// RespondToIdea approves or rejects a pending project idea
// @Summary Respond to a project idea
// @Tags mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.ProjectActionRequest true "APPROVE or REJECT"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Idea resolved"
// @Failure 400 {object} dto.ErrorResponse "Unknown action"
// @Failure 403 {object} dto.ErrorResponse "Project belongs to a team guided by another mentor"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Idea no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/projects/{id} [post]
func (c *MentorController) RespondToIdea(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ProjectActionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	var approve bool
	switch strings.ToUpper(req.Action) {
	case "APPROVE":
		approve = true
	case "REJECT":
		approve = false
	default:
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown action")
		errorDetail = errorDetail.WithDetails("action must be APPROVE or REJECT")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.projectService.RespondToIdea(ctx.Request.Context(), userID, projectID, approve); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("projectId", projectID).Str("action", req.Action).Msg("Project idea resolved")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Project idea resolved"}))
}

// ReviewDocument approves or rejects a submitted document link
// @Summary Review a document
// @Description Rejecting clears the document slot so the team can resubmit
// @Tags mentors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.DocumentActionRequest true "Document type and action"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Document reviewed"
// @Failure 400 {object} dto.ErrorResponse "Unknown document type or action"
// @Failure 403 {object} dto.ErrorResponse "Project belongs to a team guided by another mentor"
// @Failure 404 {object} dto.ErrorResponse "Project or document not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /mentors/me/projects/{id}/documents [post]
func (c *MentorController) ReviewDocument(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.DocumentActionRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := c.projectService.ReviewDocument(ctx.Request.Context(), userID, projectID, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Document reviewed"}))
}
