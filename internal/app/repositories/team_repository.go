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
	"github.com/oguzhan/projecthub/internal/pkg/logger"
)

// TeamRepository handles team database operations
type TeamRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const teamColumns = "id, student1_id, student2_id, mentor_id, status, created_at, last_activity"

func scanTeam(row pgx.Row) (*models.Team, error) {
	var team models.Team
	err := row.Scan(&team.ID, &team.Student1ID, &team.Student2ID, &team.MentorID,
		&team.Status, &team.CreatedAt, &team.LastActivity)
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeamTx inserts a team inside a caller-owned transaction. Callers must
// hold locks on the member student rows before checking the one-active-team
// invariant and calling this.
func (r *TeamRepository) CreateTeamTx(ctx context.Context, q Querier, team *models.Team) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("teams").
		Columns("student1_id", "student2_id", "mentor_id", "status", "created_at", "last_activity").
		Values(team.Student1ID, team.Student2ID, team.MentorID, models.TeamActive, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create team SQL")
		return fmt.Errorf("failed to build create team query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&team.ID)
	if err != nil {
		logger.Error().Err(err).Int64("student1ID", team.Student1ID).Msg("Error executing create team query")
		return fmt.Errorf("error creating team: %w", err)
	}

	team.Status = models.TeamActive
	team.CreatedAt = now
	team.LastActivity = now
	logger.Info().Int64("teamID", team.ID).Msg("Team created")
	return nil
}

// GetTeamByID retrieves a team by ID
func (r *TeamRepository) GetTeamByID(ctx context.Context, teamID int64) (*models.Team, error) {
	sql, args, err := r.sb.Select(teamColumns).
		From("teams").
		Where(squirrel.Eq{"id": teamID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get team SQL")
		return nil, fmt.Errorf("failed to build get team query: %w", err)
	}

	team, err := scanTeam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error scanning team row")
		return nil, fmt.Errorf("error retrieving team: %w", err)
	}

	return team, nil
}

// GetActiveTeamByStudent returns the student's active team, or
// ErrTeamNotFound when the student is unteamed.
func (r *TeamRepository) GetActiveTeamByStudent(ctx context.Context, studentID int64) (*models.Team, error) {
	return r.getActiveTeamByStudent(ctx, r.db, studentID)
}

// GetActiveTeamByStudentTx is the transactional variant, used under student
// row locks during pairing.
func (r *TeamRepository) GetActiveTeamByStudentTx(ctx context.Context, q Querier, studentID int64) (*models.Team, error) {
	return r.getActiveTeamByStudent(ctx, q, studentID)
}

func (r *TeamRepository) getActiveTeamByStudent(ctx context.Context, q Querier, studentID int64) (*models.Team, error) {
	sql, args, err := r.sb.Select(teamColumns).
		From("teams").
		Where(squirrel.And{
			squirrel.Eq{"status": models.TeamActive},
			squirrel.Or{
				squirrel.Eq{"student1_id": studentID},
				squirrel.Eq{"student2_id": studentID},
			},
		}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get active team SQL")
		return nil, fmt.Errorf("failed to build get active team query: %w", err)
	}

	team, err := scanTeam(q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTeamNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning team row")
		return nil, fmt.Errorf("error retrieving team: %w", err)
	}

	return team, nil
}

// ListActiveTeams retrieves all active teams
func (r *TeamRepository) ListActiveTeams(ctx context.Context) ([]*models.Team, error) {
	return r.listTeams(ctx, squirrel.Eq{"status": models.TeamActive})
}

// ListTeamsByMentor retrieves active teams guided by a mentor
func (r *TeamRepository) ListTeamsByMentor(ctx context.Context, mentorID int64) ([]*models.Team, error) {
	return r.listTeams(ctx, squirrel.Eq{"status": models.TeamActive, "mentor_id": mentorID})
}

func (r *TeamRepository) listTeams(ctx context.Context, pred interface{}) ([]*models.Team, error) {
	sql, args, err := r.sb.Select(teamColumns).
		From("teams").
		Where(pred).
		OrderBy("id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list teams SQL")
		return nil, fmt.Errorf("failed to build list teams query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list teams query")
		return nil, fmt.Errorf("error listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning team row: %w", err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}

// SetMentorTx assigns (or replaces) the team's mentor inside a caller-owned
// transaction; the mentor row must be locked first for the capacity check.
func (r *TeamRepository) SetMentorTx(ctx context.Context, q Querier, teamID int64, mentorID *int64) error {
	sql, args, err := r.sb.Update("teams").
		Set("mentor_id", mentorID).
		Set("last_activity", time.Now()).
		Where(squirrel.Eq{"id": teamID, "status": models.TeamActive}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set mentor SQL")
		return fmt.Errorf("failed to build set mentor query: %w", err)
	}

	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error executing set mentor query")
		return fmt.Errorf("error setting team mentor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}

// UpdateMembers selectively clears members and mentor; a team left with no
// students is disbanded.
func (r *TeamRepository) UpdateMembers(ctx context.Context, team *models.Team) error {
	sql, args, err := r.sb.Update("teams").
		Set("student1_id", nullableID(team.Student1ID)).
		Set("student2_id", team.Student2ID).
		Set("mentor_id", team.MentorID).
		Set("status", team.Status).
		Set("last_activity", time.Now()).
		Where(squirrel.Eq{"id": team.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update team members SQL")
		return fmt.Errorf("failed to build update team members query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", team.ID).Msg("Error executing update team members query")
		return fmt.Errorf("error updating team members: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTeamNotFound
	}

	return nil
}

// nullableID maps a zero ID to NULL for columns that allow missing members.
func nullableID(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

// DisbandTeamsBySemester disbands every active team whose members sit in the
// given semester, clearing the mentor so derived load drops immediately.
func (r *TeamRepository) DisbandTeamsBySemester(ctx context.Context, semester int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE teams t SET status = 'DISBANDED', mentor_id = NULL, last_activity = NOW()
		FROM students s
		WHERE s.id = t.student1_id AND t.status = 'ACTIVE' AND s.semester = $1`, semester)
	if err != nil {
		logger.Error().Err(err).Int("semester", semester).Msg("Error executing disband by semester query")
		return 0, fmt.Errorf("error disbanding teams: %w", err)
	}

	logger.Info().Int("semester", semester).Int64("teamsDisbanded", tag.RowsAffected()).Msg("Teams disbanded for semester")
	return tag.RowsAffected(), nil
}

// TouchActivity bumps the team's last_activity timestamp
func (r *TeamRepository) TouchActivity(ctx context.Context, teamID int64) error {
	_, err := r.db.Exec(ctx, `UPDATE teams SET last_activity = NOW() WHERE id = $1`, teamID)
	if err != nil {
		return fmt.Errorf("error touching team activity: %w", err)
	}
	return nil
}

// CountActiveTeams returns the number of active teams
func (r *TeamRepository) CountActiveTeams(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM teams WHERE status = 'ACTIVE'`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting teams: %w", err)
	}
	return count, nil
}
