package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/logger"
)

// MentorRepository handles mentor database operations
type MentorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMentorRepository creates a new MentorRepository
func NewMentorRepository(db *pgxpool.Pool) *MentorRepository {
	return &MentorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const mentorJoinColumns = "m.id, m.user_id, m.degree, m.specialization, m.max_pt1, m.max_pt2, m.max_final_year, u.email, u.full_name"

// loadByPhaseSQL derives per-phase load by counting active teams per mentor.
// A team's phase comes from student1's semester; both members always sit in
// the same pool.
const loadByPhaseSQL = `
SELECT
    COUNT(*) FILTER (WHERE s.semester = 5) AS pt1,
    COUNT(*) FILTER (WHERE s.semester = 6) AS pt2,
    COUNT(*) FILTER (WHERE s.semester IN (7, 8)) AS final_year
FROM teams t
JOIN students s ON s.id = t.student1_id
WHERE t.mentor_id = $1 AND t.status = 'ACTIVE'`

func scanMentorWithUser(row pgx.Row) (*models.Mentor, error) {
	var mentor models.Mentor
	var user models.User
	err := row.Scan(&mentor.ID, &mentor.UserID, &mentor.Degree, &mentor.Specialization,
		&mentor.MaxPT1, &mentor.MaxPT2, &mentor.MaxFinalYear, &user.Email, &user.FullName)
	if err != nil {
		return nil, err
	}
	user.ID = mentor.UserID
	user.RoleType = models.RoleMentor
	mentor.User = &user
	return &mentor, nil
}

// CreateMentorTx inserts a mentor row inside a caller-owned transaction.
func (r *MentorRepository) CreateMentorTx(ctx context.Context, q Querier, mentor *models.Mentor) error {
	sql, args, err := r.sb.Insert("mentors").
		Columns("user_id", "degree", "specialization", "max_pt1", "max_pt2", "max_final_year").
		Values(mentor.UserID, mentor.Degree, mentor.Specialization,
			mentor.MaxPT1, mentor.MaxPT2, mentor.MaxFinalYear).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create mentor SQL")
		return fmt.Errorf("failed to build create mentor query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&mentor.ID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", mentor.UserID).Msg("Error executing create mentor query")
		return fmt.Errorf("error creating mentor: %w", err)
	}

	logger.Info().Int64("mentorID", mentor.ID).Msg("Mentor created")
	return nil
}

// GetMentorByID retrieves a mentor with account details
func (r *MentorRepository) GetMentorByID(ctx context.Context, mentorID int64) (*models.Mentor, error) {
	sql, args, err := r.sb.Select(mentorJoinColumns).
		From("mentors m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.id": mentorID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get mentor SQL")
		return nil, fmt.Errorf("failed to build get mentor query: %w", err)
	}

	mentor, err := scanMentorWithUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorNotFound
		}
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error scanning mentor row")
		return nil, fmt.Errorf("error retrieving mentor: %w", err)
	}

	return mentor, nil
}

// GetMentorByUserID retrieves a mentor by the owning user account ID
func (r *MentorRepository) GetMentorByUserID(ctx context.Context, userID int64) (*models.Mentor, error) {
	sql, args, err := r.sb.Select(mentorJoinColumns).
		From("mentors m").
		Join("users u ON u.id = m.user_id").
		Where(squirrel.Eq{"m.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get mentor by user ID SQL")
		return nil, fmt.Errorf("failed to build get mentor query: %w", err)
	}

	mentor, err := scanMentorWithUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning mentor row")
		return nil, fmt.Errorf("error retrieving mentor: %w", err)
	}

	return mentor, nil
}

// ListMentors retrieves all mentors with account details
func (r *MentorRepository) ListMentors(ctx context.Context) ([]*models.Mentor, error) {
	sql, args, err := r.sb.Select(mentorJoinColumns).
		From("mentors m").
		Join("users u ON u.id = m.user_id").
		OrderBy("u.full_name").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list mentors SQL")
		return nil, fmt.Errorf("failed to build list mentors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list mentors query")
		return nil, fmt.Errorf("error listing mentors: %w", err)
	}
	defer rows.Close()

	var mentors []*models.Mentor
	for rows.Next() {
		mentor, err := scanMentorWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning mentor row: %w", err)
		}
		mentors = append(mentors, mentor)
	}

	return mentors, rows.Err()
}

// GetMentorLoad returns the mentor's derived per-phase load.
func (r *MentorRepository) GetMentorLoad(ctx context.Context, mentorID int64) (models.MentorLoad, error) {
	return r.getLoad(ctx, r.db, mentorID)
}

// GetMentorLoadTx returns the derived load inside a caller-owned transaction,
// after the mentor row has been locked, so approval-time capacity checks see
// a stable count.
func (r *MentorRepository) GetMentorLoadTx(ctx context.Context, q Querier, mentorID int64) (models.MentorLoad, error) {
	return r.getLoad(ctx, q, mentorID)
}

func (r *MentorRepository) getLoad(ctx context.Context, q Querier, mentorID int64) (models.MentorLoad, error) {
	var load models.MentorLoad
	err := q.QueryRow(ctx, loadByPhaseSQL, mentorID).Scan(&load.PT1, &load.PT2, &load.FinalYear)
	if err != nil {
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error scanning mentor load row")
		return models.MentorLoad{}, fmt.Errorf("error retrieving mentor load: %w", err)
	}
	return load, nil
}

// LockMentorTx locks the mentor row so concurrent capacity checks serialize.
// Returns the mentor's capacity columns as read under the lock.
func (r *MentorRepository) LockMentorTx(ctx context.Context, q Querier, mentorID int64) (*models.Mentor, error) {
	sql, args, err := r.sb.Select("id", "user_id", "degree", "specialization", "max_pt1", "max_pt2", "max_final_year").
		From("mentors").
		Where(squirrel.Eq{"id": mentorID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lock mentor SQL")
		return nil, fmt.Errorf("failed to build lock mentor query: %w", err)
	}

	var mentor models.Mentor
	err = q.QueryRow(ctx, sql, args...).Scan(&mentor.ID, &mentor.UserID, &mentor.Degree,
		&mentor.Specialization, &mentor.MaxPT1, &mentor.MaxPT2, &mentor.MaxFinalYear)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrMentorNotFound
		}
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error locking mentor row")
		return nil, fmt.Errorf("error locking mentor: %w", err)
	}

	return &mentor, nil
}

// UpdateCapacity sets a mentor's per-phase capacity ceilings
func (r *MentorRepository) UpdateCapacity(ctx context.Context, mentorID int64, maxPT1, maxPT2, maxFinalYear int) error {
	sql, args, err := r.sb.Update("mentors").
		Set("max_pt1", maxPT1).
		Set("max_pt2", maxPT2).
		Set("max_final_year", maxFinalYear).
		Where(squirrel.Eq{"id": mentorID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update capacity SQL")
		return fmt.Errorf("failed to build update capacity query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error executing update capacity query")
		return fmt.Errorf("error updating capacity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrMentorNotFound
	}

	logger.Info().Int64("mentorID", mentorID).Int("maxPt1", maxPT1).Int("maxPt2", maxPT2).Int("maxFinalYear", maxFinalYear).Msg("Mentor capacity updated")
	return nil
}

// UpdateAllCapacities sets one capacity column for every mentor
func (r *MentorRepository) UpdateAllCapacities(ctx context.Context, phase models.ProjectPhase, value int) (int64, error) {
	var column string
	switch phase {
	case models.PhasePT1:
		column = "max_pt1"
	case models.PhasePT2:
		column = "max_pt2"
	case models.PhaseFinalYear:
		column = "max_final_year"
	default:
		return 0, fmt.Errorf("%w: unknown phase %q", apperrors.ErrValidationFailed, phase)
	}

	sql, args, err := r.sb.Update("mentors").
		Set(column, value).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update all capacities SQL")
		return 0, fmt.Errorf("failed to build update all capacities query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing update all capacities query")
		return 0, fmt.Errorf("error updating capacities: %w", err)
	}

	logger.Info().Str("phase", string(phase)).Int("value", value).Int64("mentorsUpdated", tag.RowsAffected()).Msg("All mentor capacities updated")
	return tag.RowsAffected(), nil
}

// CountMentors returns the number of mentor records
func (r *MentorRepository) CountMentors(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM mentors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting mentors: %w", err)
	}
	return count, nil
}
