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
	"github.com/oguzhan/projecthub/internal/pkg/dberrors"
	"github.com/oguzhan/projecthub/internal/pkg/logger"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const studentJoinColumns = "s.id, s.user_id, s.registration_no, s.department, s.semester, u.email, u.full_name"

func scanStudentWithUser(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var user models.User
	err := row.Scan(&student.ID, &student.UserID, &student.RegistrationNo,
		&student.Department, &student.Semester, &user.Email, &user.FullName)
	if err != nil {
		return nil, err
	}
	user.ID = student.UserID
	user.RoleType = models.RoleStudent
	student.User = &user
	return &student, nil
}

// CreateStudentTx inserts a student row inside a caller-owned transaction.
// The user account is created in the same transaction by the caller.
func (r *StudentRepository) CreateStudentTx(ctx context.Context, q Querier, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id", "registration_no", "department", "semester").
		Values(student.UserID, student.RegistrationNo, student.Department, student.Semester).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = q.QueryRow(ctx, sql, args...).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_registration_no_key") {
			logger.Warn().Str("registrationNo", student.RegistrationNo).Msg("Attempted to create student with duplicate registration number")
			return apperrors.ErrRegistrationNoExists
		}
		logger.Error().Err(err).Int64("userID", student.UserID).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().Int64("studentID", student.ID).Str("registrationNo", student.RegistrationNo).Msg("Student created")
	return nil
}

// GetStudentByID retrieves a student with account details by student ID
func (r *StudentRepository) GetStudentByID(ctx context.Context, studentID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentJoinColumns).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudentWithUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetStudentByUserID retrieves a student by the owning user account ID
func (r *StudentRepository) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentJoinColumns).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by user ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudentWithUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// GetStudentByRegistrationNo retrieves a student by registration number
func (r *StudentRepository) GetStudentByRegistrationNo(ctx context.Context, registrationNo string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentJoinColumns).
		From("students s").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"s.registration_no": registrationNo}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by registration no SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student, err := scanStudentWithUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Str("registrationNo", registrationNo).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// ListStudents retrieves students ordered by registration number, optionally
// filtered by semester. A non-positive limit disables paging.
func (r *StudentRepository) ListStudents(ctx context.Context, semester, offset, limit int) ([]*models.Student, error) {
	builder := r.sb.Select(studentJoinColumns).
		From("students s").
		Join("users u ON u.id = s.user_id").
		OrderBy("s.registration_no")

	if semester > 0 {
		builder = builder.Where(squirrel.Eq{"s.semester": semester})
	}
	if limit > 0 {
		builder = builder.Offset(uint64(offset)).Limit(uint64(limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudentWithUser(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// LockStudentsTx locks the given student rows in ascending ID order so that
// concurrent pairing operations on the same students serialize. Returns
// ErrStudentNotFound unless every requested row exists.
func (r *StudentRepository) LockStudentsTx(ctx context.Context, q Querier, studentIDs ...int64) error {
	sql, args, err := r.sb.Select("id").
		From("students").
		Where(squirrel.Eq{"id": studentIDs}).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building lock students SQL")
		return fmt.Errorf("failed to build lock students query: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing lock students query")
		return fmt.Errorf("error locking students: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("error scanning locked student row: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error locking students: %w", err)
	}
	if locked != len(studentIDs) {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateStudent updates the editable student columns
func (r *StudentRepository) UpdateStudent(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Update("students").
		Set("department", student.Department).
		Set("semester", student.Semester).
		Where(squirrel.Eq{"id": student.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update student SQL")
		return fmt.Errorf("failed to build update student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", student.ID).Msg("Error executing update student query")
		return fmt.Errorf("error updating student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// ShiftAllSemesters increments every student's semester by one.
// Deliberately unguarded: a second call shifts everyone again.
func (r *StudentRepository) ShiftAllSemesters(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE students SET semester = semester + 1`)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing shift semesters query")
		return 0, fmt.Errorf("error shifting semesters: %w", err)
	}

	logger.Info().Int64("studentsShifted", tag.RowsAffected()).Msg("All student semesters shifted")
	return tag.RowsAffected(), nil
}

// CountStudents returns the number of student records, optionally filtered
// by semester.
func (r *StudentRepository) CountStudents(ctx context.Context, semester int) (int64, error) {
	builder := r.sb.Select("COUNT(*)").From("students")
	if semester > 0 {
		builder = builder.Where(squirrel.Eq{"semester": semester})
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}
