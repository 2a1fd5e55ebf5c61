package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/app/services"
	"github.com/oguzhan/projecthub/internal/middleware"
)

// TeamController handles partner invitations, team formation and the
// student side of mentor requests.
type TeamController struct {
	pairingService    *services.PairingService
	assignmentService *services.MentorAssignmentService
	logger            zerolog.Logger
}

// NewTeamController creates a new TeamController
func NewTeamController(
	pairingService *services.PairingService,
	assignmentService *services.MentorAssignmentService,
	logger zerolog.Logger,
) *TeamController {
	return &TeamController{
		pairingService:    pairingService,
		assignmentService: assignmentService,
		logger:            logger,
	}
}

// SendInvitation invites a partner by registration number
// @Summary Send partner invitation
// @Description Invites another student in the same phase pool to form a team
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendInvitationRequest true "Partner registration number"
// @Success 201 {object} dto.APIResponse{data=dto.InvitationResponse} "Invitation sent"
// @Failure 400 {object} dto.ErrorResponse "Self invitation or phase pool mismatch"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 409 {object} dto.ErrorResponse "Already teamed or duplicate pending invitation"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/invitations [post]
func (c *TeamController) SendInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.SendInvitationRequest
	if !bindJSON(ctx, &req) {
		return
	}

	invitation, err := c.pairingService.SendInvitation(ctx.Request.Context(), userID, req.RegistrationNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("senderId", invitation.SenderID).
		Int64("recipientId", invitation.RecipientID).
		Msg("Partner invitation sent")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromInvitation(invitation)))
}

// ListInvitations returns the student's invitations in both directions
// @Summary List own invitations
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InvitationListResponse} "Invitations retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/invitations [get]
func (c *TeamController) ListInvitations(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	invitations, err := c.pairingService.ListInvitations(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.InvitationListResponse{
		Invitations: dto.FromInvitations(invitations),
	}))
}

// AcceptInvitation accepts a pending invitation and forms the team
// @Summary Accept partner invitation
// @Description Forms an active team from the invitation pair. Competing pending invitations of both students are withdrawn.
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Team formed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Failure 409 {object} dto.ErrorResponse "Invitation no longer pending or a member is already teamed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/invitations/{id}/accept [post]
func (c *TeamController) AcceptInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	team, err := c.pairingService.AcceptInvitation(ctx.Request.Context(), userID, invitationID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	populated, err := c.pairingService.PopulateTeam(ctx.Request.Context(), team)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", team.ID).Msg("Team formed from invitation")
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromTeam(populated)))
}

// RejectInvitation rejects a pending invitation
// @Summary Reject partner invitation
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Invitation rejected"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Failure 409 {object} dto.ErrorResponse "Invitation no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/invitations/{id}/reject [post]
func (c *TeamController) RejectInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.pairingService.RejectInvitation(ctx.Request.Context(), userID, invitationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Invitation rejected"}))
}

// WithdrawInvitation withdraws a pending invitation sent by the caller
// @Summary Withdraw partner invitation
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Invitation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Invitation withdrawn"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the sender"
// @Failure 404 {object} dto.ErrorResponse "Invitation not found"
// @Failure 409 {object} dto.ErrorResponse "Invitation no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/invitations/{id} [delete]
func (c *TeamController) WithdrawInvitation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	invitationID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.pairingService.WithdrawInvitation(ctx.Request.Context(), userID, invitationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Invitation withdrawn"}))
}

// GoSolo forms a single-member team
// @Summary Work solo
// @Description Forms a solo team for the caller and withdraws their pending invitations
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 201 {object} dto.APIResponse{data=dto.TeamResponse} "Solo team formed"
// @Failure 409 {object} dto.ErrorResponse "Student already belongs to an active team"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/solo [post]
func (c *TeamController) GoSolo(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	team, err := c.pairingService.GoSolo(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	populated, err := c.pairingService.PopulateTeam(ctx.Request.Context(), team)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("teamId", team.ID).Msg("Solo team formed")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromTeam(populated)))
}

// GetMyTeam returns the caller's active team
// @Summary Get own team
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeamResponse} "Team retrieved"
// @Failure 404 {object} dto.ErrorResponse "Student has no active team"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/me [get]
func (c *TeamController) GetMyTeam(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	team, err := c.pairingService.GetMyTeam(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromTeam(team)))
}

// RequestMentor asks a mentor to guide the caller's team
// @Summary Request a mentor
// @Description Creates a pending mentor request. The mentor must have free capacity for the team's phase.
// @Tags teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.RequestMentorRequest true "Mentor to request"
// @Success 201 {object} dto.APIResponse{data=dto.MentorRequestResponse} "Request created"
// @Failure 404 {object} dto.ErrorResponse "Mentor or team not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate pending request, mentor at capacity or team already guided"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/mentor-request [post]
func (c *TeamController) RequestMentor(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.RequestMentorRequest
	if !bindJSON(ctx, &req) {
		return
	}

	request, err := c.assignmentService.RequestMentor(ctx.Request.Context(), userID, req.MentorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().
		Int64("teamId", request.TeamID).
		Int64("mentorId", request.MentorID).
		Msg("Mentor requested")
	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.FromMentorRequest(request)))
}

// GetMentorRequest returns the team's pending mentor request
// @Summary Get pending mentor request
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.MentorRequestResponse} "Request retrieved"
// @Failure 404 {object} dto.ErrorResponse "No pending request"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/mentor-request [get]
func (c *TeamController) GetMentorRequest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	request, err := c.assignmentService.GetTeamRequest(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.FromMentorRequest(request)))
}

// WithdrawMentorRequest withdraws the team's pending mentor request
// @Summary Withdraw mentor request
// @Tags teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "Mentor request ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Request withdrawn"
// @Failure 403 {object} dto.ErrorResponse "Request belongs to another team"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request no longer pending"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /teams/mentor-request/{id} [delete]
func (c *TeamController) WithdrawMentorRequest(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	requestID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.assignmentService.WithdrawRequest(ctx.Request.Context(), userID, requestID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Mentor request withdrawn"}))
}
