package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/auth"
	"github.com/oguzhan/projecthub/internal/pkg/validation"
)

// AdminService handles record management, forced pairing, mentor assignment
// overrides and the semester rollover.
type AdminService struct {
	txRunner        txRunner
	userStore       userStore
	tokenStore      tokenStore
	studentStore    studentStore
	mentorStore     mentorStore
	teamStore       teamStore
	invitationStore invitationStore
	projectStore    projectStore
	defaultPassword string
	logger          zerolog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	txRunner txRunner,
	userStore userStore,
	tokenStore tokenStore,
	studentStore studentStore,
	mentorStore mentorStore,
	teamStore teamStore,
	invitationStore invitationStore,
	projectStore projectStore,
	defaultPassword string,
	logger zerolog.Logger,
) *AdminService {
	return &AdminService{
		txRunner:        txRunner,
		userStore:       userStore,
		tokenStore:      tokenStore,
		studentStore:    studentStore,
		mentorStore:     mentorStore,
		teamStore:       teamStore,
		invitationStore: invitationStore,
		projectStore:    projectStore,
		defaultPassword: defaultPassword,
		logger:          logger,
	}
}

// CreateStudent adds a student record with the default password. The user
// and student rows are written in one transaction.
func (s *AdminService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewBadRequestError("invalid email format")
	}
	if !validation.IsValidRegistrationNo(req.RegistrationNo) {
		return nil, apperrors.NewBadRequestError("invalid registration number format")
	}
	if !validation.IsValidName(req.FullName) {
		return nil, apperrors.NewBadRequestError("invalid name")
	}

	hash, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(req.FullName),
		RoleType: models.RoleStudent,
	}
	student := &models.Student{
		RegistrationNo: req.RegistrationNo,
		Department:     req.Department,
		Semester:       req.Semester,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.userStore.CreateUserTx(ctx, tx, user)
		if err != nil {
			return err
		}
		student.UserID = userID
		return s.studentStore.CreateStudentTx(ctx, tx, student)
	})
	if err != nil {
		return nil, err
	}

	student.User = user
	s.logger.Info().Int64("studentID", student.ID).Str("registrationNo", student.RegistrationNo).Msg("Student record created")
	return student, nil
}

// UpdateStudent edits a student record
func (s *AdminService) UpdateStudent(ctx context.Context, studentID int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentStore.GetStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !validation.IsValidName(req.FullName) {
		return nil, apperrors.NewBadRequestError("invalid name")
	}

	student.Department = req.Department
	student.Semester = req.Semester
	if err := s.studentStore.UpdateStudent(ctx, student); err != nil {
		return nil, err
	}
	if err := s.userStore.UpdateFullName(ctx, student.UserID, strings.TrimSpace(req.FullName)); err != nil {
		return nil, err
	}

	if student.User != nil {
		student.User.FullName = strings.TrimSpace(req.FullName)
	}
	return student, nil
}

// DeleteStudent removes the student and the owning user account
func (s *AdminService) DeleteStudent(ctx context.Context, studentID int64) error {
	student, err := s.studentStore.GetStudentByID(ctx, studentID)
	if err != nil {
		return err
	}
	return s.userStore.DeleteUser(ctx, student.UserID)
}

// ResetStudentPassword restores the default password and revokes sessions
func (s *AdminService) ResetStudentPassword(ctx context.Context, studentID int64) error {
	student, err := s.studentStore.GetStudentByID(ctx, studentID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return err
	}
	if err := s.userStore.UpdatePassword(ctx, student.UserID, hash); err != nil {
		return err
	}
	return s.tokenStore.RevokeAllUserTokens(ctx, student.UserID)
}

// ListStudents retrieves a page of students with the total count
func (s *AdminService) ListStudents(ctx context.Context, semester, offset, limit int) ([]*models.Student, int64, error) {
	total, err := s.studentStore.CountStudents(ctx, semester)
	if err != nil {
		return nil, 0, err
	}
	students, err := s.studentStore.ListStudents(ctx, semester, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// CreateMentor adds a mentor record with the default password
func (s *AdminService) CreateMentor(ctx context.Context, req *dto.CreateMentorRequest) (*models.Mentor, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validation.IsValidEmail(email) {
		return nil, apperrors.NewBadRequestError("invalid email format")
	}
	if !validation.IsValidName(req.FullName) {
		return nil, apperrors.NewBadRequestError("invalid name")
	}

	hash, err := auth.HashPassword(s.defaultPassword)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(req.FullName),
		RoleType: models.RoleMentor,
	}
	mentor := &models.Mentor{
		Degree:         req.Degree,
		Specialization: req.Specialization,
		MaxPT1:         req.MaxPT1,
		MaxPT2:         req.MaxPT2,
		MaxFinalYear:   req.MaxFinalYear,
	}

	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.userStore.CreateUserTx(ctx, tx, user)
		if err != nil {
			return err
		}
		mentor.UserID = userID
		return s.mentorStore.CreateMentorTx(ctx, tx, mentor)
	})
	if err != nil {
		return nil, err
	}

	mentor.User = user
	s.logger.Info().Int64("mentorID", mentor.ID).Msg("Mentor record created")
	return mentor, nil
}

// UpdateMentorCapacity sets a single mentor's per-phase ceilings. Lowering
// a ceiling below the current load never unassigns teams; it only blocks
// new assignments.
func (s *AdminService) UpdateMentorCapacity(ctx context.Context, mentorID int64, req *dto.UpdateMentorCapacityRequest) error {
	return s.mentorStore.UpdateCapacity(ctx, mentorID, req.MaxPT1, req.MaxPT2, req.MaxFinalYear)
}

// SetAllCapacities sets one phase's ceiling for every mentor
func (s *AdminService) SetAllCapacities(ctx context.Context, phase models.ProjectPhase, value int) (int64, error) {
	if value < 0 {
		return 0, apperrors.NewBadRequestError("capacity cannot be negative")
	}
	return s.mentorStore.UpdateAllCapacities(ctx, phase, value)
}

// ForcePair forms a team from two unteamed students, bypassing the
// invitation flow but not the invariants.
func (s *AdminService) ForcePair(ctx context.Context, student1ID, student2ID int64) (*models.Team, error) {
	if student1ID == student2ID {
		return nil, apperrors.NewBadRequestError("cannot pair a student with themselves")
	}

	student1, err := s.studentStore.GetStudentByID(ctx, student1ID)
	if err != nil {
		return nil, err
	}
	student2, err := s.studentStore.GetStudentByID(ctx, student2ID)
	if err != nil {
		return nil, err
	}
	if !models.SamePhasePool(student1.Semester, student2.Semester) {
		return nil, apperrors.ErrSemesterMismatch
	}

	team := &models.Team{Student1ID: student1ID, Student2ID: &student2ID}
	err = s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.studentStore.LockStudentsTx(ctx, tx, student1ID, student2ID); err != nil {
			return err
		}
		for _, id := range []int64{student1ID, student2ID} {
			if _, err := s.teamStore.GetActiveTeamByStudentTx(ctx, tx, id); err == nil {
				return apperrors.ErrAlreadyPaired
			} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
				return err
			}
		}
		if err := s.teamStore.CreateTeamTx(ctx, tx, team); err != nil {
			return err
		}
		_, err := s.invitationStore.WithdrawPendingInvolvingTx(ctx, tx, 0, student1ID, student2ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	team.Student1 = student1
	team.Student2 = student2
	s.logger.Info().Int64("teamID", team.ID).Msg("Team force paired")
	return team, nil
}

// AssignMentor assigns or replaces the team's mentor under a capacity check
func (s *AdminService) AssignMentor(ctx context.Context, teamID, mentorID int64) error {
	team, err := s.teamStore.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Status != models.TeamActive {
		return apperrors.ErrInvalidState
	}
	if team.MentorID != nil && *team.MentorID == mentorID {
		return nil
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
		mentor, err := s.mentorStore.LockMentorTx(ctx, tx, mentorID)
		if err != nil {
			return err
		}
		load, err := s.mentorStore.GetMentorLoadTx(ctx, tx, mentorID)
		if err != nil {
			return err
		}
		if load.LoadFor(phase) >= mentor.CapacityFor(phase) {
			return apperrors.ErrMentorAtCapacity
		}
		return s.teamStore.SetMentorTx(ctx, tx, teamID, &mentorID)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("teamID", teamID).Int64("mentorID", mentorID).Msg("Mentor assigned by admin")
	return nil
}

// UnassignMentor removes the team's mentor
func (s *AdminService) UnassignMentor(ctx context.Context, teamID int64) error {
	return s.txRunner.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return s.teamStore.SetMentorTx(ctx, tx, teamID, nil)
	})
}

// RemoveTeamMember removes one student from a team. The remaining member
// keeps the team; removing the last member disbands it and frees the mentor.
func (s *AdminService) RemoveTeamMember(ctx context.Context, teamID, studentID int64) error {
	team, err := s.teamStore.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Status != models.TeamActive {
		return apperrors.ErrInvalidState
	}
	if !team.HasMember(studentID) {
		return apperrors.NewBadRequestError("student is not a member of this team")
	}

	switch {
	case team.Student2ID != nil && *team.Student2ID == studentID:
		team.Student2ID = nil
	case team.Student2ID != nil:
		// Promote the partner to the first slot
		team.Student1ID = *team.Student2ID
		team.Student2ID = nil
	default:
		team.Status = models.TeamDisbanded
		team.MentorID = nil
	}

	if err := s.teamStore.UpdateMembers(ctx, team); err != nil {
		return err
	}

	s.logger.Info().Int64("teamID", teamID).Int64("studentID", studentID).Str("status", string(team.Status)).Msg("Team member removed")
	return nil
}

// DisbandTeam disbands a team and frees its mentor
func (s *AdminService) DisbandTeam(ctx context.Context, teamID int64) error {
	team, err := s.teamStore.GetTeamByID(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Status != models.TeamActive {
		return apperrors.ErrInvalidState
	}

	team.Status = models.TeamDisbanded
	team.MentorID = nil
	return s.teamStore.UpdateMembers(ctx, team)
}

// UnassignAllTeamsInSemester disbands every active team in the semester,
// typically before a rollover.
func (s *AdminService) UnassignAllTeamsInSemester(ctx context.Context, semester int) (int64, error) {
	if semester < 1 || semester > 8 {
		return 0, apperrors.NewBadRequestError("semester must be between 1 and 8")
	}
	return s.teamStore.DisbandTeamsBySemester(ctx, semester)
}

// ShiftAllStudents advances every student by one semester. The shift is a
// literal increment: calling it twice advances everyone twice.
func (s *AdminService) ShiftAllStudents(ctx context.Context) (int64, error) {
	return s.studentStore.ShiftAllSemesters(ctx)
}

// Dashboard returns the admin overview counters
func (s *AdminService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	students, err := s.studentStore.CountStudents(ctx, 0)
	if err != nil {
		return nil, err
	}
	mentors, err := s.mentorStore.CountMentors(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamStore.CountActiveTeams(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Students:    students,
		Mentors:     mentors,
		ActiveTeams: teams,
	}, nil
}

// ListTeams retrieves every active team with members and mentors attached
func (s *AdminService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.teamStore.ListActiveTeams(ctx)
	if err != nil {
		return nil, err
	}

	for _, team := range teams {
		student1, err := s.studentStore.GetStudentByID(ctx, team.Student1ID)
		if err != nil {
			return nil, err
		}
		team.Student1 = student1
		if team.Student2ID != nil {
			student2, err := s.studentStore.GetStudentByID(ctx, *team.Student2ID)
			if err != nil {
				return nil, err
			}
			team.Student2 = student2
		}
		if team.MentorID != nil {
			mentor, err := s.mentorStore.GetMentorByID(ctx, *team.MentorID)
			if err != nil {
				return nil, err
			}
			team.Mentor = mentor
		}
	}

	return teams, nil
}

// ListProjects retrieves projects, optionally filtered by phase
func (s *AdminService) ListProjects(ctx context.Context, phase models.ProjectPhase) ([]*models.Project, error) {
	if phase != "" {
		switch phase {
		case models.PhasePT1, models.PhasePT2, models.PhaseFinalYear:
		default:
			return nil, apperrors.NewBadRequestError("unknown phase")
		}
	}
	return s.projectStore.ListAllProjects(ctx, phase)
}

// ClearProjectDocuments nulls the named deliverable slots on a project
func (s *AdminService) ClearProjectDocuments(ctx context.Context, projectID int64, docTypes []string) error {
	docs := make([]models.DocumentType, 0, len(docTypes))
	for _, t := range docTypes {
		doc := models.DocumentType(strings.ToUpper(t))
		if !models.ValidDocumentType(doc) {
			return apperrors.NewBadRequestError("unknown document type: " + t)
		}
		docs = append(docs, doc)
	}
	return s.projectStore.ClearDocumentURLs(ctx, projectID, docs)
}

// DeleteProject removes a project record regardless of state
func (s *AdminService) DeleteProject(ctx context.Context, projectID int64) error {
	return s.projectStore.DeleteProject(ctx, projectID)
}
