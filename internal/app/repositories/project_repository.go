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

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const projectColumns = "id, team_id, phase, title, description, domain, abstract_url, ppt_url, report_pdf_url, demo_video_url, approved_status, created_at, updated_at"

func scanProject(row pgx.Row) (*models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.TeamID, &p.Phase, &p.Title, &p.Description, &p.Domain,
		&p.AbstractURL, &p.PPTURL, &p.ReportPDFURL, &p.DemoVideoURL,
		&p.ApprovedStatus, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// documentColumn maps a deliverable slot to its column. Callers validate the
// document type first; unknown types fall through to an error.
func documentColumn(doc models.DocumentType) (string, error) {
	switch doc {
	case models.DocAbstract:
		return "abstract_url", nil
	case models.DocPPT:
		return "ppt_url", nil
	case models.DocReport:
		return "report_pdf_url", nil
	case models.DocDemo:
		return "demo_video_url", nil
	}
	return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidationFailed, doc)
}

// CreateProject inserts a pending project idea. The partial unique index on
// (team, phase) turns a concurrent duplicate into ErrDuplicateProject.
func (r *ProjectRepository) CreateProject(ctx context.Context, p *models.Project) error {
	now := time.Now()
	sql, args, err := r.sb.Insert("projects").
		Columns("team_id", "phase", "title", "description", "domain", "abstract_url", "approved_status", "created_at", "updated_at").
		Values(p.TeamID, p.Phase, p.Title, p.Description, p.Domain, p.AbstractURL, models.ProjectPending, now, now).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create project SQL")
		return fmt.Errorf("failed to build create project query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&p.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Int64("teamID", p.TeamID).Str("phase", string(p.Phase)).Msg("Attempted to create duplicate active project")
			return apperrors.ErrDuplicateProject
		}
		logger.Error().Err(err).Int64("teamID", p.TeamID).Msg("Error executing create project query")
		return fmt.Errorf("error creating project: %w", err)
	}

	p.ApprovedStatus = models.ProjectPending
	p.CreatedAt = now
	p.UpdatedAt = now
	logger.Info().Int64("projectID", p.ID).Int64("teamID", p.TeamID).Str("phase", string(p.Phase)).Msg("Project created")
	return nil
}

// GetProjectByID retrieves a project by ID
func (r *ProjectRepository) GetProjectByID(ctx context.Context, projectID int64) (*models.Project, error) {
	sql, args, err := r.sb.Select(projectColumns).
		From("projects").
		Where(squirrel.Eq{"id": projectID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get project SQL")
		return nil, fmt.Errorf("failed to build get project query: %w", err)
	}

	p, err := scanProject(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProjectNotFound
		}
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error scanning project row")
		return nil, fmt.Errorf("error retrieving project: %w", err)
	}

	return p, nil
}

// HasActiveForTeamPhase reports whether a non-rejected project exists for the
// team and phase.
func (r *ProjectRepository) HasActiveForTeamPhase(ctx context.Context, teamID int64, phase models.ProjectPhase) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM projects
			WHERE team_id = $1 AND phase = $2 AND approved_status <> 'REJECTED'
		)`, teamID, phase).Scan(&exists)
	if err != nil {
		logger.Error().Err(err).Int64("teamID", teamID).Msg("Error checking active project existence")
		return false, fmt.Errorf("error checking active project: %w", err)
	}
	return exists, nil
}

// TransitionStatus moves a project idea out of PENDING using a compare-and-set.
func (r *ProjectRepository) TransitionStatus(ctx context.Context, projectID int64, next models.ApprovalStatus) error {
	sql, args, err := r.sb.Update("projects").
		Set("approved_status", next).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": projectID, "approved_status": models.ProjectPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building transition project SQL")
		return fmt.Errorf("failed to build transition project query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error executing transition project query")
		return fmt.Errorf("error transitioning project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	logger.Info().Int64("projectID", projectID).Str("status", string(next)).Msg("Project transitioned")
	return nil
}

// SetDocumentURL stores a document link in the slot for doc.
func (r *ProjectRepository) SetDocumentURL(ctx context.Context, projectID int64, doc models.DocumentType, url string) error {
	column, err := documentColumn(doc)
	if err != nil {
		return err
	}

	sql, args, err := r.sb.Update("projects").
		Set(column, url).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building set document URL SQL")
		return fmt.Errorf("failed to build set document URL query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error executing set document URL query")
		return fmt.Errorf("error setting document URL: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	logger.Info().Int64("projectID", projectID).Str("docType", string(doc)).Msg("Document link stored")
	return nil
}

// ClearDocumentURLs nulls the URL slots named in docs.
func (r *ProjectRepository) ClearDocumentURLs(ctx context.Context, projectID int64, docs []models.DocumentType) error {
	if len(docs) == 0 {
		return nil
	}

	builder := r.sb.Update("projects").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": projectID})
	for _, doc := range docs {
		column, err := documentColumn(doc)
		if err != nil {
			return err
		}
		builder = builder.Set(column, nil)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building clear document URLs SQL")
		return fmt.Errorf("failed to build clear document URLs query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error executing clear document URLs query")
		return fmt.Errorf("error clearing document URLs: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	logger.Info().Int64("projectID", projectID).Int("docsCleared", len(docs)).Msg("Document links cleared")
	return nil
}

// DeleteProject removes the project record entirely
func (r *ProjectRepository) DeleteProject(ctx context.Context, projectID int64) error {
	sql, args, err := r.sb.Delete("projects").
		Where(squirrel.Eq{"id": projectID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete project SQL")
		return fmt.Errorf("failed to build delete project query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error executing delete project query")
		return fmt.Errorf("error deleting project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProjectNotFound
	}

	logger.Info().Int64("projectID", projectID).Msg("Project deleted")
	return nil
}

// DeletePendingProject removes a project only while it awaits approval.
func (r *ProjectRepository) DeletePendingProject(ctx context.Context, projectID int64) error {
	sql, args, err := r.sb.Delete("projects").
		Where(squirrel.Eq{"id": projectID, "approved_status": models.ProjectPending}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete pending project SQL")
		return fmt.Errorf("failed to build delete pending project query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projectID", projectID).Msg("Error executing delete pending project query")
		return fmt.Errorf("error deleting pending project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// ListProjectsByTeam retrieves a team's projects, newest phase first
func (r *ProjectRepository) ListProjectsByTeam(ctx context.Context, teamID int64) ([]*models.Project, error) {
	return r.listProjects(ctx, squirrel.Eq{"team_id": teamID})
}

// ListAllProjects retrieves every project, optionally filtered by phase
func (r *ProjectRepository) ListAllProjects(ctx context.Context, phase models.ProjectPhase) ([]*models.Project, error) {
	if phase == "" {
		return r.listProjects(ctx, nil)
	}
	return r.listProjects(ctx, squirrel.Eq{"phase": phase})
}

func (r *ProjectRepository) listProjects(ctx context.Context, pred interface{}) ([]*models.Project, error) {
	builder := r.sb.Select(projectColumns).
		From("projects").
		OrderBy("created_at DESC")
	if pred != nil {
		builder = builder.Where(pred)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list projects SQL")
		return nil, fmt.Errorf("failed to build list projects query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list projects query")
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project row: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}

// ListPendingForMentor retrieves pending project ideas for teams the mentor guides
func (r *ProjectRepository) ListPendingForMentor(ctx context.Context, mentorID int64) ([]*models.Project, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.team_id, p.phase, p.title, p.description, p.domain,
		       p.abstract_url, p.ppt_url, p.report_pdf_url, p.demo_video_url,
		       p.approved_status, p.created_at, p.updated_at
		FROM projects p
		JOIN teams t ON t.id = p.team_id
		WHERE t.mentor_id = $1 AND t.status = 'ACTIVE' AND p.approved_status = 'PENDING'
		ORDER BY p.created_at`, mentorID)
	if err != nil {
		logger.Error().Err(err).Int64("mentorID", mentorID).Msg("Error executing list pending projects query")
		return nil, fmt.Errorf("error listing pending projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project row: %w", err)
		}
		projects = append(projects, p)
	}

	return projects, rows.Err()
}
