package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/validation"
)

// ProjectService handles project ideas, mentor approval and document links.
// Deliverable files live in external drive storage; only validated links are
// persisted.
type ProjectService struct {
	studentStore studentStore
	mentorStore  mentorStore
	teamStore    teamStore
	projectStore projectStore
	logger       zerolog.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	studentStore studentStore,
	mentorStore mentorStore,
	teamStore teamStore,
	projectStore projectStore,
	logger zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		studentStore: studentStore,
		mentorStore:  mentorStore,
		teamStore:    teamStore,
		projectStore: projectStore,
		logger:       logger,
	}
}

// SubmitIdea creates a pending project idea for the student's team. The
// team must have a mentor, and the phase derives from the team's semester.
func (s *ProjectService) SubmitIdea(ctx context.Context, studentUserID int64, req *dto.SubmitProjectRequest) (*models.Project, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if team.MentorID == nil {
		return nil, apperrors.NewBadRequestError("team has no mentor to review the idea")
	}

	phase, err := student.Phase()
	if err != nil {
		return nil, apperrors.ErrPhaseNotAllowed
	}

	project := &models.Project{
		TeamID:      team.ID,
		Phase:       phase,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Domain:      strings.TrimSpace(req.Domain),
	}
	if project.Title == "" || project.Description == "" {
		return nil, apperrors.NewBadRequestError("title and description are required")
	}
	if req.AbstractURL != "" {
		if !validation.IsValidDriveLink(req.AbstractURL) {
			return nil, apperrors.ErrInvalidDocumentLink
		}
		project.AbstractURL = &req.AbstractURL
	}

	if err := s.projectStore.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	_ = s.teamStore.TouchActivity(ctx, team.ID)
	return project, nil
}

// RespondToIdea approves or rejects a pending project idea. Mentor of the
// owning team only. Rejection frees the team to submit a fresh idea for the
// same phase.
func (s *ProjectService) RespondToIdea(ctx context.Context, mentorUserID, projectID int64, approve bool) error {
	_, project, err := s.authorizedProject(ctx, mentorUserID, projectID)
	if err != nil {
		return err
	}

	next := models.ProjectRejected
	if approve {
		next = models.ProjectApproved
	}
	if !project.ApprovedStatus.CanTransitionTo(next) {
		return apperrors.ErrInvalidState
	}

	if err := s.projectStore.TransitionStatus(ctx, projectID, next); err != nil {
		return err
	}

	s.logger.Info().Int64("projectID", projectID).Str("status", string(next)).Msg("Project idea reviewed")
	return nil
}

// WithdrawIdea removes the team's own project idea while it is still pending
func (s *ProjectService) WithdrawIdea(ctx context.Context, studentUserID, projectID int64) error {
	project, err := s.ownedProject(ctx, studentUserID, projectID)
	if err != nil {
		return err
	}
	return s.projectStore.DeletePendingProject(ctx, project.ID)
}

// SubmitDocument stores a validated document link on the project. The
// abstract may be revised while the idea is pending; every other deliverable
// requires an approved project.
func (s *ProjectService) SubmitDocument(ctx context.Context, studentUserID, projectID int64, req *dto.SubmitDocumentRequest) (*models.Project, error) {
	project, err := s.ownedProject(ctx, studentUserID, projectID)
	if err != nil {
		return nil, err
	}

	doc := models.DocumentType(strings.ToUpper(req.DocumentType))
	if !models.ValidDocumentType(doc) {
		return nil, apperrors.NewBadRequestError("unknown document type")
	}
	if !validation.IsValidDriveLink(req.URL) {
		return nil, apperrors.ErrInvalidDocumentLink
	}
	if doc != models.DocAbstract && project.ApprovedStatus != models.ProjectApproved {
		return nil, apperrors.ErrProjectNotApproved
	}

	if err := s.projectStore.SetDocumentURL(ctx, project.ID, doc, req.URL); err != nil {
		return nil, err
	}
	_ = s.teamStore.TouchActivity(ctx, project.TeamID)

	*project.DocumentURL(doc) = &req.URL
	return project, nil
}

// ReviewDocument lets the mentor act on a submitted document. Rejection
// clears the slot so the team submits a corrected link; approval leaves the
// stored link as the accepted deliverable.
func (s *ProjectService) ReviewDocument(ctx context.Context, mentorUserID, projectID int64, req *dto.DocumentActionRequest) error {
	_, project, err := s.authorizedProject(ctx, mentorUserID, projectID)
	if err != nil {
		return err
	}

	doc := models.DocumentType(strings.ToUpper(req.DocumentType))
	if !models.ValidDocumentType(doc) {
		return apperrors.NewBadRequestError("unknown document type")
	}
	slot := project.DocumentURL(doc)
	if *slot == nil {
		return apperrors.NewResourceNotFoundError("document has not been submitted")
	}

	switch strings.ToUpper(req.Action) {
	case "APPROVE":
		s.logger.Info().Int64("projectID", projectID).Str("docType", string(doc)).Msg("Document approved")
		return nil
	case "REJECT":
		if err := s.projectStore.ClearDocumentURLs(ctx, projectID, []models.DocumentType{doc}); err != nil {
			return err
		}
		s.logger.Info().Int64("projectID", projectID).Str("docType", string(doc)).Msg("Document rejected")
		return nil
	default:
		return apperrors.NewBadRequestError("action must be APPROVE or REJECT")
	}
}

// GetTeamProjects retrieves the student team's projects across phases
func (s *ProjectService) GetTeamProjects(ctx context.Context, studentUserID int64) ([]*models.Project, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return s.projectStore.ListProjectsByTeam(ctx, team.ID)
}

// ListPendingIdeas retrieves pending ideas awaiting the mentor's review
func (s *ProjectService) ListPendingIdeas(ctx context.Context, mentorUserID int64) ([]*models.Project, error) {
	mentor, err := s.mentorStore.GetMentorByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}
	return s.projectStore.ListPendingForMentor(ctx, mentor.ID)
}

// ownedProject resolves a project and checks the student's team owns it
func (s *ProjectService) ownedProject(ctx context.Context, studentUserID, projectID int64) (*models.Project, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	project, err := s.projectStore.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.TeamID != team.ID {
		return nil, apperrors.NewForbiddenError("project belongs to another team")
	}

	return project, nil
}

// authorizedProject resolves a project and checks the mentor guides its team
func (s *ProjectService) authorizedProject(ctx context.Context, mentorUserID, projectID int64) (*models.Mentor, *models.Project, error) {
	mentor, err := s.mentorStore.GetMentorByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, nil, err
	}

	project, err := s.projectStore.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	team, err := s.teamStore.GetTeamByID(ctx, project.TeamID)
	if err != nil {
		return nil, nil, err
	}
	if team.MentorID == nil || *team.MentorID != mentor.ID {
		return nil, nil, apperrors.NewForbiddenError("project belongs to another mentor's team")
	}

	return mentor, project, nil
}
