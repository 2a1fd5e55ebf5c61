package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

// MentorAssignmentService handles mentor requests. Capacity is enforced at
// approval time under a lock on the mentor row; the request-time check is
// advisory only.
type MentorAssignmentService struct {
	txRunner     txRunner
	studentStore studentStore
	mentorStore  mentorStore
	teamStore    teamStore
	requestStore mentorRequestStore
	logger       zerolog.Logger
}

// NewMentorAssignmentService creates a new MentorAssignmentService
func NewMentorAssignmentService(
	txRunner txRunner,
	studentStore studentStore,
	mentorStore mentorStore,
	teamStore teamStore,
	requestStore mentorRequestStore,
	logger zerolog.Logger,
) *MentorAssignmentService {
	return &MentorAssignmentService{
		txRunner:     txRunner,
		studentStore: studentStore,
		mentorStore:  mentorStore,
		teamStore:    teamStore,
		requestStore: requestStore,
		logger:       logger,
	}
}

// RequestMentor creates a pending request from the student's team to a mentor
func (s *MentorAssignmentService) RequestMentor(ctx context.Context, studentUserID, mentorID int64) (*models.MentorRequest, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if team.MentorID != nil {
		return nil, apperrors.NewConflictError("team already has a mentor")
	}

	mentor, err := s.mentorStore.GetMentorByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}

	phase, err := student.Phase()
	if err != nil {
		return nil, apperrors.ErrPhaseNotAllowed
	}

	// Advisory capacity check; approval re-verifies under the mentor lock
	load, err := s.mentorStore.GetMentorLoad(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if load.LoadFor(phase) >= mentor.CapacityFor(phase) {
		return nil, apperrors.ErrMentorAtCapacity
	}

	pending, err := s.requestStore.HasPendingForTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrDuplicateRequest
	}

	req := &models.MentorRequest{TeamID: team.ID, MentorID: mentorID}
	if err := s.requestStore.CreateMentorRequest(ctx, req); err != nil {
		return nil, err
	}

	req.Mentor = mentor
	req.Team = team
	return req, nil
}

// ApproveRequest accepts a pending request and assigns the mentor to the
// team. The mentor row is locked so concurrent approvals cannot exceed the
// phase capacity.
func (s *MentorAssignmentService) ApproveRequest(ctx context.Context, mentorUserID, requestID int64) error {
	mentor, req, err := s.authorizedRequest(ctx, mentorUserID, requestID)
	if err != nil {
		return err
	}
	if !req.Status.CanTransitionTo(models.RequestApproved) {
		return apperrors.ErrInvalidState
	}

	team, err := s.teamStore.GetTeamByID(ctx, req.TeamID)
	if err != nil {
		return err
	}
	if team.Status != models.TeamActive {
		return apperrors.ErrInvalidState
	}
	if team.MentorID != nil {
		return apperrors.NewConflictError("team already has a mentor")
	}

	student, err := s.studentStore.GetStudentByID(ctx, team.Student1ID)
	if err != nil {
		return err
	}
	phase, err := student.Phase()
	if err != nil {
		return apperrors.ErrPhaseNotAllowed
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		locked, err := s.mentorStore.LockMentorTx(ctx, tx, mentor.ID)
		if err != nil {
			return err
		}
		load, err := s.mentorStore.GetMentorLoadTx(ctx, tx, mentor.ID)
		if err != nil {
			return err
		}
		if load.LoadFor(phase) >= locked.CapacityFor(phase) {
			return apperrors.ErrMentorAtCapacity
		}
		if err := s.requestStore.TransitionStatusTx(ctx, tx, requestID, models.RequestApproved); err != nil {
			return err
		}
		return s.teamStore.SetMentorTx(ctx, tx, team.ID, &mentor.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("requestID", requestID).Int64("teamID", team.ID).Int64("mentorID", mentor.ID).Msg("Mentor request approved")
	return nil
}

// RejectRequest declines a pending request
func (s *MentorAssignmentService) RejectRequest(ctx context.Context, mentorUserID, requestID int64) error {
	_, req, err := s.authorizedRequest(ctx, mentorUserID, requestID)
	if err != nil {
		return err
	}
	if !req.Status.CanTransitionTo(models.RequestRejected) {
		return apperrors.ErrInvalidState
	}
	return s.requestStore.TransitionStatus(ctx, requestID, models.RequestRejected)
}

// WithdrawRequest removes the team's own pending request
func (s *MentorAssignmentService) WithdrawRequest(ctx context.Context, studentUserID, requestID int64) error {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return err
	}

	req, err := s.requestStore.GetMentorRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TeamID != team.ID {
		return apperrors.NewForbiddenError("request belongs to another team")
	}

	return s.requestStore.DeletePendingRequest(ctx, requestID)
}

// ListRequests retrieves the requests addressed to the mentor, optionally
// filtered by status.
func (s *MentorAssignmentService) ListRequests(ctx context.Context, mentorUserID int64, status models.RequestStatus) ([]*models.MentorRequest, error) {
	mentor, err := s.mentorStore.GetMentorByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}
	return s.requestStore.ListRequestsForMentor(ctx, mentor.ID, status)
}

// GetTeamRequest retrieves the student team's own pending request, if any
func (s *MentorAssignmentService) GetTeamRequest(ctx context.Context, studentUserID int64) (*models.MentorRequest, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	req, err := s.requestStore.GetPendingRequestForTeam(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	mentor, err := s.mentorStore.GetMentorByID(ctx, req.MentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load requested mentor: %w", err)
	}
	req.Mentor = mentor
	return req, nil
}

func (s *MentorAssignmentService) authorizedRequest(ctx context.Context, mentorUserID, requestID int64) (*models.Mentor, *models.MentorRequest, error) {
	mentor, err := s.mentorStore.GetMentorByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, nil, err
	}

	req, err := s.requestStore.GetMentorRequestByID(ctx, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.MentorID != mentor.ID {
		return nil, nil, apperrors.NewForbiddenError("request is addressed to another mentor")
	}

	return mentor, req, nil
}
