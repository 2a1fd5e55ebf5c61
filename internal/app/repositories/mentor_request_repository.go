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

// MentorRequestRepository handles mentor request database operations
type MentorRequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMentorRequestRepository creates a new MentorRequestRepository
func NewMentorRequestRepository(db *pgxpool.Pool) *MentorRequestRepository {
	return &MentorRequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const mentorRequestColumns = "id, team_id, mentor_id, status, created_at"

func scanMentorRequest(row pgx.Row) (*models.MentorRequest, error) {
	var req models.MentorRequest
	err := row.Scan(&req.ID, &req.TeamID, &req.MentorID, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateMentorRequest inserts a pending mentor request. The partial unique
// index on the team turns a concurrent duplicate into ErrDuplicateRequest.
func (r *MentorRequestRepository) CreateMentorRequest(ctx context.Context, req *models.MentorRequest) error {
	sql, args, err := r.sb.Insert("mentor_requests").
		Columns("team_id", "mentor_id", "status", "created_at").
		Values(req.TeamID, req.MentorID, models.RequestPending, time.Now()).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create mentor request SQL")
		return fmt.Errorf("failed to build create mentor request query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "mentor_requests_pending_team_key") {
			logger.Warn().Int64("teamID", req.TeamID).Msg("Attempted to create duplicate pending mentor request")
			return apperrors.ErrDuplicateRequest
		}
		logger.Error().Err(err).Int64("teamID", req.TeamID).Msg("Error executing create mentor request query")
		return fmt.Errorf("error creating mentor request: %w", err)
	}

	req.Status = models.RequestPending
	logger.Info().Int64("requestID", req.ID).Int64("teamID", req.TeamID).Int64("mentorID", req.MentorID).Msg("Mentor request created")
	return nil
}

// GetMentorRequestByID retrieves a mentor request by ID
func (r *MentorRequestRepository) GetMentorRequestByID(ctx context.Context, requestID int64) (*models.MentorRequest, error) {
	sql, args, err := r.sb.Select(mentorRequestColumns).
		From("mentor_requests").
		Where(squirrel.Eq{"id": requestID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get mentor request SQL")
		return nil, fmt.Errorf("failed to build get mentor request query: %w", err)
	}

	req, err := scanMentorRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", requestID).Msg("Error scanning mentor request row")
		return nil, fmt.Errorf("error retrieving mentor request: %w", err)
	}

	return req, nil
}

// HasPendingForTeam reports whether the team already has a pending request
func (r *MentorRequestRepository) HasPendingForTeam(ctx context.Context, teamID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM mentor_requests WHERE team_id = $1 AND status = 'PENDING')`,
		teamID).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error checking pending mentor request existence")
		return false, fmt.Errorf("error checking pending mentor request: %w", err)
	}
	return exists, nil
}

// GetPendingRequestForTeam retrieves the team's pending request, if any
func (r *MentorRequestRepository) GetPendingRequestForTeam(ctx context.Context, teamID int64) (*models.MentorRequest, error) {
	sql, args, err := r.sb.Select(mentorRequestColumns).
		From("mentor_requests").
		Where(squirrel.Eq{"team_id": teamID, "status": models.RequestPending}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get pending request SQL")
		return nil, fmt.Errorf("failed to build get pending request query: %w", err)
	}

	req, err := scanMentorRequest(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorRequestNotFound
		}
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error scanning mentor request row")
		return nil, fmt.Errorf("error retrieving mentor request: %w", err)
	}

	return req, nil
}

// TransitionStatus moves a request out of PENDING using a compare-and-set.
func (r *MentorRequestRepository) TransitionStatus(ctx context.Context, requestID int64, next models.RequestStatus) error {
	return r.transitionStatus(ctx, r.db, requestID, next)
}

// TransitionStatusTx is the transactional variant used during approval.
func (r *MentorRequestRepository) TransitionStatusTx(ctx context.Context, q Querier, requestID int64, next models.RequestStatus) error {
	return r.transitionStatus(ctx, q, requestID, next)
}

func (r *MentorRequestRepository) transitionStatus(ctx context.Context, q Querier, requestID int64, next models.RequestStatus) error {
	sql, args, err := r.sb.Update("mentor_requests").
		Set("status", next).
		Where(squirrel.Eq{"id": requestID, "status": models.RequestPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building transition mentor request SQL")
		return fmt.Errorf("failed to build transition mentor request query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", requestID).Msg("Error executing transition mentor request query")
		return fmt.Errorf("error transitioning mentor request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	logger.Info().Int64("requestID", requestID).Str("status", string(next)).Msg("Mentor request transitioned")
	return nil
}

// DeletePendingRequest removes a pending request (student withdrawal).
func (r *MentorRequestRepository) DeletePendingRequest(ctx context.Context, requestID int64) error {
	sql, args, err := r.sb.Delete("mentor_requests").
		Where(squirrel.Eq{"id": requestID, "status": models.RequestPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete mentor request SQL")
		return fmt.Errorf("failed to build delete mentor request query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("requestID", requestID).Msg("Error executing delete mentor request query")
		return fmt.Errorf("error deleting mentor request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// ListRequestsForMentor retrieves requests addressed to a mentor, optionally
// filtered by status, with team member registration details attached.
func (r *MentorRequestRepository) ListRequestsForMentor(ctx context.Context, mentorID int64, status models.RequestStatus) ([]*models.MentorRequest, error) {
	builder := r.sb.Select(
		"mr.id", "mr.team_id", "mr.mentor_id", "mr.status", "mr.created_at",
		"t.student1_id", "t.student2_id", "t.status", "t.created_at", "t.last_activity").
		From("mentor_requests mr").
		Join("teams t ON t.id = mr.team_id").
		Where(squirrel.Eq{"mr.mentor_id": mentorID}).
		OrderBy("mr.created_at DESC")

	if status != "" {
		builder = builder.Where(squirrel.Eq{"mr.status": status})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list mentor requests SQL")
		return nil, fmt.Errorf("failed to build list mentor requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error executing list mentor requests query")
		return nil, fmt.Errorf("error listing mentor requests: %w", err)
	}
	defer rows.Close()

	var requests []*models.MentorRequest
	for rows.Next() {
		var req models.MentorRequest
		var team models.Team
		err := rows.Scan(&req.ID, &req.TeamID, &req.MentorID, &req.Status, &req.CreatedAt,
			&team.Student1ID, &team.Student2ID, &team.Status, &team.CreatedAt, &team.LastActivity)
		if err != nil {
			return nil, fmt.Errorf("error scanning mentor request row: %w", err)
		}
		team.ID = req.TeamID
		req.Team = &team
		requests = append(requests, &req)
	}

	return requests, rows.Err()
}
