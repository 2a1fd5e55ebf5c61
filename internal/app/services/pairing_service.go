package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

// PairingService handles partner invitations and team formation.
// Every write that creates a team runs inside a transaction holding row
// locks on the member students, so the one-active-team invariant survives
// concurrent accepts.
type PairingService struct {
	txRunner        txRunner
	studentStore    studentStore
	teamStore       teamStore
	invitationStore invitationStore
	mentorStore     mentorStore
	logger          zerolog.Logger
}

// NewPairingService creates a new PairingService
func NewPairingService(
	txRunner txRunner,
	studentStore studentStore,
	teamStore teamStore,
	invitationStore invitationStore,
	mentorStore mentorStore,
	logger zerolog.Logger,
) *PairingService {
	return &PairingService{
		txRunner:        txRunner,
		studentStore:    studentStore,
		teamStore:       teamStore,
		invitationStore: invitationStore,
		mentorStore:     mentorStore,
		logger:          logger,
	}
}

// SendInvitation invites another student, addressed by registration number.
func (s *PairingService) SendInvitation(ctx context.Context, senderUserID int64, registrationNo string) (*models.Invitation, error) {
	sender, err := s.studentStore.GetStudentByUserID(ctx, senderUserID)
	if err != nil {
		return nil, err
	}

	recipient, err := s.studentStore.GetStudentByRegistrationNo(ctx, registrationNo)
	if err != nil {
		return nil, err
	}

	if recipient.ID == sender.ID {
		return nil, apperrors.NewBadRequestError("you cannot invite yourself")
	}
	if !models.SamePhasePool(sender.Semester, recipient.Semester) {
		return nil, apperrors.ErrSemesterMismatch
	}

	// Advisory checks; the accept transaction re-verifies under locks
	if err := s.ensureUnteamed(ctx, sender.ID); err != nil {
		return nil, err
	}
	if err := s.ensureUnteamed(ctx, recipient.ID); err != nil {
		return nil, err
	}

	pending, err := s.invitationStore.HasPendingBetween(ctx, sender.ID, recipient.ID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, apperrors.ErrDuplicateInvite
	}

	inv := &models.Invitation{SenderID: sender.ID, RecipientID: recipient.ID}
	if err := s.invitationStore.CreateInvitation(ctx, inv); err != nil {
		return nil, err
	}

	inv.Sender = sender
	inv.Recipient = recipient
	return inv, nil
}

// AcceptInvitation forms a team from a pending invitation. Both students are
// locked in ascending ID order; the accept loses with ErrAlreadyPaired if
// either joined another team first.
func (s *PairingService) AcceptInvitation(ctx context.Context, recipientUserID, invitationID int64) (*models.Team, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, recipientUserID)
	if err != nil {
		return nil, err
	}

	inv, err := s.invitationStore.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if inv.RecipientID != student.ID {
		return nil, apperrors.ErrNotRecipient
	}
	if !inv.Status.CanTransitionTo(models.InvitationAccepted) {
		return nil, apperrors.ErrInvalidState
	}

	sender, err := s.studentStore.GetStudentByID(ctx, inv.SenderID)
	if err != nil {
		return nil, err
	}
	if !models.SamePhasePool(sender.Semester, student.Semester) {
		// A semester shift between send and accept invalidates the pairing
		return nil, apperrors.ErrSemesterMismatch
	}

	team := &models.Team{Student1ID: inv.SenderID, Student2ID: &inv.RecipientID}
	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentStore.LockStudentsTx(ctx, tx, inv.SenderID, inv.RecipientID); err != nil {
			return err
		}
		for _, id := range []int64{inv.SenderID, inv.RecipientID} {
			if _, err := s.teamStore.GetActiveTeamByStudentTx(ctx, tx, id); err == nil {
				return apperrors.ErrAlreadyPaired
			} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
				return err
			}
		}
		if err := s.invitationStore.TransitionStatusTx(ctx, tx, inv.ID, models.InvitationAccepted); err != nil {
			return err
		}
		if err := s.teamStore.CreateTeamTx(ctx, tx, team); err != nil {
			return err
		}
		withdrawn, err := s.invitationStore.WithdrawPendingInvolvingTx(ctx, tx, inv.ID, inv.SenderID, inv.RecipientID)
		if err != nil {
			return err
		}
		if withdrawn > 0 {
			s.logger.Info().Int64("invitationID", inv.ID).Int64("withdrawn", withdrawn).Msg("Competing invitations withdrawn")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	team.Student1 = sender
	team.Student2 = student
	s.logger.Info().Int64("teamID", team.ID).Int64("invitationID", inv.ID).Msg("Team formed from invitation")
	return team, nil
}

// RejectInvitation declines a pending invitation. Recipient only.
func (s *PairingService) RejectInvitation(ctx context.Context, recipientUserID, invitationID int64) error {
	student, err := s.studentStore.GetStudentByUserID(ctx, recipientUserID)
	if err != nil {
		return err
	}

	inv, err := s.invitationStore.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.RecipientID != student.ID {
		return apperrors.ErrNotRecipient
	}
	if !inv.Status.CanTransitionTo(models.InvitationRejected) {
		return apperrors.ErrInvalidState
	}

	return s.invitationStore.TransitionStatus(ctx, invitationID, models.InvitationRejected)
}

// WithdrawInvitation cancels a pending invitation. Sender only.
func (s *PairingService) WithdrawInvitation(ctx context.Context, senderUserID, invitationID int64) error {
	student, err := s.studentStore.GetStudentByUserID(ctx, senderUserID)
	if err != nil {
		return err
	}

	inv, err := s.invitationStore.GetInvitationByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.SenderID != student.ID {
		return apperrors.NewForbiddenError("only the sender may withdraw an invitation")
	}
	if !inv.Status.CanTransitionTo(models.InvitationWithdrawn) {
		return apperrors.ErrInvalidState
	}

	return s.invitationStore.TransitionStatus(ctx, invitationID, models.InvitationWithdrawn)
}

// GoSolo forms a single-member team for the student and withdraws their
// pending invitations in both directions.
func (s *PairingService) GoSolo(ctx context.Context, studentUserID int64) (*models.Team, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	if _, err := student.Phase(); err != nil {
		return nil, apperrors.ErrPhaseNotAllowed
	}

	team := &models.Team{Student1ID: student.ID}
	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentStore.LockStudentsTx(ctx, tx, student.ID); err != nil {
			return err
		}
		if _, err := s.teamStore.GetActiveTeamByStudentTx(ctx, tx, student.ID); err == nil {
			return apperrors.ErrAlreadyPaired
		} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
			return err
		}
		if err := s.teamStore.CreateTeamTx(ctx, tx, team); err != nil {
			return err
		}
		_, err := s.invitationStore.WithdrawPendingInvolvingTx(ctx, tx, 0, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	team.Student1 = student
	s.logger.Info().Int64("teamID", team.ID).Int64("studentID", student.ID).Msg("Solo team formed")
	return team, nil
}

// ListInvitations retrieves the student's invitations in both directions
func (s *PairingService) ListInvitations(ctx context.Context, studentUserID int64) ([]*models.Invitation, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}
	return s.invitationStore.ListInvitationsForStudent(ctx, student.ID)
}

// GetMyTeam retrieves the student's active team with members and mentor
func (s *PairingService) GetMyTeam(ctx context.Context, studentUserID int64) (*models.Team, error) {
	student, err := s.studentStore.GetStudentByUserID(ctx, studentUserID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamStore.GetActiveTeamByStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	return s.PopulateTeam(ctx, team)
}

// PopulateTeam attaches member and mentor details to a team row
func (s *PairingService) PopulateTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	student1, err := s.studentStore.GetStudentByID(ctx, team.Student1ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team member: %w", err)
	}
	team.Student1 = student1

	if team.Student2ID != nil {
		student2, err := s.studentStore.GetStudentByID(ctx, *team.Student2ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team member: %w", err)
		}
		team.Student2 = student2
	}
	if team.MentorID != nil {
		mentor, err := s.mentorStore.GetMentorByID(ctx, *team.MentorID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team mentor: %w", err)
		}
		team.Mentor = mentor
	}

	return team, nil
}

func (s *PairingService) ensureUnteamed(ctx context.Context, studentID int64) error {
	_, err := s.teamStore.GetActiveTeamByStudent(ctx, studentID)
	if err == nil {
		return apperrors.ErrAlreadyPaired
	}
	if errors.Is(err, apperrors.ErrTeamNotFound) {
		return nil
	}
	return err
}
