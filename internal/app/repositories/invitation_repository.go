package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/dberrors"
	"github.com/oguzhan/projecthub/internal/pkg/logger"
)

// InvitationRepository handles partner invitation database operations
type InvitationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInvitationRepository creates a new InvitationRepository
func NewInvitationRepository(db *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const invitationColumns = "id, sender_id, recipient_id, status, created_at"

func scanInvitation(row pgx.Row) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(&inv.ID, &inv.SenderID, &inv.RecipientID, &inv.Status, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvitation inserts a pending invitation. The partial unique index on
// the unordered pair turns a concurrent duplicate into ErrDuplicateInvite.
func (r *InvitationRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) error {
	sql, args, err := r.sb.Insert("invitations").
		Columns("sender_id", "recipient_id", "status", "created_at").
		Values(inv.SenderID, inv.RecipientID, models.InvitationPending, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create invitation SQL")
		return fmt.Errorf("failed to build create invitation query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "invitations_pending_pair_key") {
			logger.Warn().Int64("senderID", inv.SenderID).Int64("recipientID", inv.RecipientID).Msg("Attempted to create duplicate pending invitation")
			return apperrors.ErrDuplicateInvite
		}
		logger.Error().Err(err).Int64("senderID", inv.SenderID).Msg("Error executing create invitation query")
		return fmt.Errorf("error creating invitation: %w", err)
	}

	inv.Status = models.InvitationPending
	logger.Info().Int64("invitationID", inv.ID).Int64("senderID", inv.SenderID).Int64("recipientID", inv.RecipientID).Msg("Invitation created")
	return nil
}

// GetInvitationByID retrieves an invitation by ID
func (r *InvitationRepository) GetInvitationByID(ctx context.Context, invitationID int64) (*models.Invitation, error) {
	sql, args, err := r.sb.Select(invitationColumns).
		From("invitations").
		Where(squirrel.Eq{"id": invitationID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get invitation SQL")
		return nil, fmt.Errorf("failed to build get invitation query: %w", err)
	}

	inv, err := scanInvitation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInvitationNotFound
		}
		logger.Error().Err(err).Int64("invitationID", invitationID).Msg("Error scanning invitation row")
		return nil, fmt.Errorf("error retrieving invitation: %w", err)
	}

	return inv, nil
}

// HasPendingBetween reports whether a pending invitation exists between the
// two students in either direction.
func (r *InvitationRepository) HasPendingBetween(ctx context.Context, studentA, studentB int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM invitations
			WHERE status = 'PENDING'
			  AND ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1))
		)`, studentA, studentB).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking pending invitation existence")
		return false, fmt.Errorf("error checking pending invitation: %w", err)
	}
	return exists, nil
}

// TransitionStatus moves an invitation out of PENDING using a compare-and-set
// so a concurrent transition loses cleanly with ErrInvalidState.
func (r *InvitationRepository) TransitionStatus(ctx context.Context, invitationID int64, next models.InvitationStatus) error {
	return r.transitionStatus(ctx, r.db, invitationID, next)
}

// TransitionStatusTx is the transactional variant used during acceptance.
func (r *InvitationRepository) TransitionStatusTx(ctx context.Context, q Querier, invitationID int64, next models.InvitationStatus) error {
	return r.transitionStatus(ctx, q, invitationID, next)
}

func (r *InvitationRepository) transitionStatus(ctx context.Context, q Querier, invitationID int64, next models.InvitationStatus) error {
	sql, args, err := r.sb.Update("invitations").
		Set("status", next).
		Where(squirrel.Eq{"id": invitationID, "status": models.InvitationPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building transition invitation SQL")
		return fmt.Errorf("failed to build transition invitation query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("invitationID", invitationID).Msg("Error executing transition invitation query")
		return fmt.Errorf("error transitioning invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the invitation is gone or it already left PENDING
		return apperrors.ErrInvalidState
	}

	logger.Info().Int64("invitationID", invitationID).Str("status", string(next)).Msg("Invitation transitioned")
	return nil
}

// WithdrawPendingInvolvingTx withdraws every pending invitation that involves
// any of the given students, except the one being accepted. Called inside the
// acceptance transaction to uphold the one-active-team invariant.
func (r *InvitationRepository) WithdrawPendingInvolvingTx(ctx context.Context, q Querier, exceptID int64, studentIDs ...int64) (int64, error) {
	sql, args, err := r.sb.Update("invitations").
		Set("status", models.InvitationWithdrawn).
		Where(squirrel.And{
			squirrel.Eq{"status": models.InvitationPending},
			squirrel.NotEq{"id": exceptID},
			squirrel.Or{
				squirrel.Eq{"sender_id": studentIDs},
				squirrel.Eq{"recipient_id": studentIDs},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building withdraw pending SQL")
		return 0, fmt.Errorf("failed to build withdraw pending query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing withdraw pending query")
		return 0, fmt.Errorf("error withdrawing pending invitations: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ListInvitationsForStudent retrieves invitations where the student is sender
// or recipient, newest first, with both parties' registration details.
func (r *InvitationRepository) ListInvitationsForStudent(ctx context.Context, studentID int64) ([]*models.Invitation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT i.id, i.sender_id, i.recipient_id, i.status, i.created_at,
		       ss.registration_no, su.full_name, rs.registration_no, ru.full_name
		FROM invitations i
		JOIN students ss ON ss.id = i.sender_id
		JOIN users su ON su.id = ss.user_id
		JOIN students rs ON rs.id = i.recipient_id
		JOIN users ru ON ru.id = rs.user_id
		WHERE i.sender_id = $1 OR i.recipient_id = $1
		ORDER BY i.created_at DESC`, studentID)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list invitations query")
		return nil, fmt.Errorf("error listing invitations: %w", err)
	}
	defer rows.Close()

	var invitations []*models.Invitation
	for rows.Next() {
		var inv models.Invitation
		var sender, recipient models.Student
		var senderUser, recipientUser models.User
		err := rows.Scan(&inv.ID, &inv.SenderID, &inv.RecipientID, &inv.Status, &inv.CreatedAt,
			&sender.RegistrationNo, &senderUser.FullName,
			&recipient.RegistrationNo, &recipientUser.FullName)
		if err != nil {
			return nil, fmt.Errorf("error scanning invitation row: %w", err)
		}
		sender.ID = inv.SenderID
		sender.User = &senderUser
		recipient.ID = inv.RecipientID
		recipient.User = &recipientUser
		inv.Sender = &sender
		inv.Recipient = &recipient
		invitations = append(invitations, &inv)
	}

	return invitations, rows.Err()
}
