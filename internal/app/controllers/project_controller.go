package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/app/services"
	"github.com/oguzhan/projecthub/internal/middleware"
)

// ProjectController handles the team side of the project lifecycle
type ProjectController struct {
	projectService *services.ProjectService
	logger         zerolog.Logger
}

// NewProjectController creates a new ProjectController
func NewProjectController(projectService *services.ProjectService, logger zerolog.Logger) *ProjectController {
	return &ProjectController{
		projectService: projectService,
		logger:         logger,
	}
}

// SubmitIdea submits a project idea for the caller's team
// @Summary Submit project idea
// @Description Creates a pending project for the team's current phase. The team must already be guided by a mentor.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SubmitProjectRequest true "Project idea"
// @Success 201 {object} dto.APIResponse{data=dto.ProjectResponse} "Idea submitted"
// @Failure 400 {object} dto.ErrorResponse "No mentor, ineligible semester or invalid abstract link"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 409 {object} dto.ErrorResponse "An active project already exists for this phase"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects [post]
func (c *ProjectController) SubmitIdea(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SubmitProjectRequest
	if !bindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.SubmitIdea(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("teamId", project.TeamID).
		Str("phase", string(project.Phase)).
		Msg("Project idea submitted")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromProject(project)))
}

// GetTeamProjects returns the caller team's projects across phases
// @Summary List own team's projects
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ProjectListResponse} "Projects retrieved"
// @Failure 404 {object} dto.ErrorResponse "Team not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects [get]
func (c *ProjectController) GetTeamProjects(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	projects, err := c.projectService.GetTeamProjects(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.ProjectListResponse{
		Projects: dto.FromProjects(projects),
	}))
}

// WithdrawIdea removes a pending project idea
// @Summary Withdraw project idea
// @Description Only pending ideas can be withdrawn. Approved projects are removed by an admin.
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Idea withdrawn"
// @Failure 403 {object} dto.ErrorResponse "Project belongs to another team"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 409 {object} dto.ErrorResponse "Project is no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id} [delete]
func (c *ProjectController) WithdrawIdea(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.projectService.WithdrawIdea(ctx.Request.Context(), userID, projectID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Project idea withdrawn"}))
}

// SubmitDocument stores a deliverable link on the project
// @Summary Submit document link
// @Description Stores a Google Drive link in the named deliverable slot. Non-abstract documents require an approved project.
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Project ID"
// @Param request body dto.SubmitDocumentRequest true "Document type and link"
// @Success 200 {object} dto.APIResponse{data=dto.ProjectResponse} "Document stored"
// @Failure 400 {object} dto.ErrorResponse "Invalid link, unknown document type or project not approved"
// @Failure 403 {object} dto.ErrorResponse "Project belongs to another team"
// @Failure 404 {object} dto.ErrorResponse "Project not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /projects/{id}/documents [put]
func (c *ProjectController) SubmitDocument(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	projectID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubmitDocumentRequest
	if !bindJSON(ctx, &req) {
		return
	}

	project, err := c.projectService.SubmitDocument(ctx.Request.Context(), userID, projectID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("projectId", projectID).
		Str("documentType", req.DocumentType).
		Msg("Document link submitted")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromProject(project)))
}
