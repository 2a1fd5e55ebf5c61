package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/repositories"
	"github.com/oguzhan/projecthub/internal/config"
	"github.com/oguzhan/projecthub/internal/db"
	"github.com/oguzhan/projecthub/internal/pkg/auth"
)

// Services defined in this package:
// - AuthService: login, token refresh and profile retrieval for all roles
// - PairingService: partner invitations, solo teams and team lookups
// - MentorAssignmentService: mentor requests and capacity-checked approval
// - MentorService: mentor directory and a mentor's own workload view
// - ProjectService: project ideas, approvals and document submissions
// - AdminService: record management, forced pairing and semester rollover

// txRunner runs a function inside a database transaction. Satisfied by
// *db.PostgresDB; tests substitute a fake that invokes fn directly.
type txRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// The store interfaces below are the repository surface each service
// consumes. *repositories.XRepository satisfies them.

type userStore interface {
	CreateUserTx(ctx context.Context, q repositories.Querier, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateFullName(ctx context.Context, userID int64, fullName string) error
	DeleteUser(ctx context.Context, userID int64) error
}

type tokenStore interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
}

type studentStore interface {
	CreateStudentTx(ctx context.Context, q repositories.Querier, student *models.Student) error
	GetStudentByID(ctx context.Context, studentID int64) (*models.Student, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetStudentByRegistrationNo(ctx context.Context, registrationNo string) (*models.Student, error)
	ListStudents(ctx context.Context, semester, offset, limit int) ([]*models.Student, error)
	LockStudentsTx(ctx context.Context, q repositories.Querier, studentIDs ...int64) error
	UpdateStudent(ctx context.Context, student *models.Student) error
	ShiftAllSemesters(ctx context.Context) (int64, error)
	CountStudents(ctx context.Context, semester int) (int64, error)
}

type mentorStore interface {
	CreateMentorTx(ctx context.Context, q repositories.Querier, mentor *models.Mentor) error
	GetMentorByID(ctx context.Context, mentorID int64) (*models.Mentor, error)
	GetMentorByUserID(ctx context.Context, userID int64) (*models.Mentor, error)
	ListMentors(ctx context.Context) ([]*models.Mentor, error)
	GetMentorLoad(ctx context.Context, mentorID int64) (models.MentorLoad, error)
	GetMentorLoadTx(ctx context.Context, q repositories.Querier, mentorID int64) (models.MentorLoad, error)
	LockMentorTx(ctx context.Context, q repositories.Querier, mentorID int64) (*models.Mentor, error)
	UpdateCapacity(ctx context.Context, mentorID int64, maxPT1, maxPT2, maxFinalYear int) error
	UpdateAllCapacities(ctx context.Context, phase models.ProjectPhase, value int) (int64, error)
	CountMentors(ctx context.Context) (int64, error)
}

type teamStore interface {
	CreateTeamTx(ctx context.Context, q repositories.Querier, team *models.Team) error
	GetTeamByID(ctx context.Context, teamID int64) (*models.Team, error)
	GetActiveTeamByStudent(ctx context.Context, studentID int64) (*models.Team, error)
	GetActiveTeamByStudentTx(ctx context.Context, q repositories.Querier, studentID int64) (*models.Team, error)
	ListActiveTeams(ctx context.Context) ([]*models.Team, error)
	ListTeamsByMentor(ctx context.Context, mentorID int64) ([]*models.Team, error)
	SetMentorTx(ctx context.Context, q repositories.Querier, teamID int64, mentorID *int64) error
	UpdateMembers(ctx context.Context, team *models.Team) error
	DisbandTeamsBySemester(ctx context.Context, semester int) (int64, error)
	TouchActivity(ctx context.Context, teamID int64) error
	CountActiveTeams(ctx context.Context) (int64, error)
}

type invitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) error
	GetInvitationByID(ctx context.Context, invitationID int64) (*models.Invitation, error)
	HasPendingBetween(ctx context.Context, studentA, studentB int64) (bool, error)
	TransitionStatus(ctx context.Context, invitationID int64, next models.InvitationStatus) error
	TransitionStatusTx(ctx context.Context, q repositories.Querier, invitationID int64, next models.InvitationStatus) error
	WithdrawPendingInvolvingTx(ctx context.Context, q repositories.Querier, exceptID int64, studentIDs ...int64) (int64, error)
	ListInvitationsForStudent(ctx context.Context, studentID int64) ([]*models.Invitation, error)
}

type mentorRequestStore interface {
	CreateMentorRequest(ctx context.Context, req *models.MentorRequest) error
	GetMentorRequestByID(ctx context.Context, requestID int64) (*models.MentorRequest, error)
	GetPendingRequestForTeam(ctx context.Context, teamID int64) (*models.MentorRequest, error)
	HasPendingForTeam(ctx context.Context, teamID int64) (bool, error)
	TransitionStatus(ctx context.Context, requestID int64, next models.RequestStatus) error
	TransitionStatusTx(ctx context.Context, q repositories.Querier, requestID int64, next models.RequestStatus) error
	DeletePendingRequest(ctx context.Context, requestID int64) error
	ListRequestsForMentor(ctx context.Context, mentorID int64, status models.RequestStatus) ([]*models.MentorRequest, error)
}

type projectStore interface {
	CreateProject(ctx context.Context, p *models.Project) error
	GetProjectByID(ctx context.Context, projectID int64) (*models.Project, error)
	HasActiveForTeamPhase(ctx context.Context, teamID int64, phase models.ProjectPhase) (bool, error)
	TransitionStatus(ctx context.Context, projectID int64, next models.ApprovalStatus) error
	SetDocumentURL(ctx context.Context, projectID int64, doc models.DocumentType, url string) error
	ClearDocumentURLs(ctx context.Context, projectID int64, docs []models.DocumentType) error
	DeleteProject(ctx context.Context, projectID int64) error
	DeletePendingProject(ctx context.Context, projectID int64) error
	ListProjectsByTeam(ctx context.Context, teamID int64) ([]*models.Project, error)
	ListAllProjects(ctx context.Context, phase models.ProjectPhase) ([]*models.Project, error)
	ListPendingForMentor(ctx context.Context, mentorID int64) ([]*models.Project, error)
}

// Services holds all the service instances
type Services struct {
	AuthService             *AuthService
	PairingService          *PairingService
	MentorAssignmentService *MentorAssignmentService
	MentorService           *MentorService
	ProjectService          *ProjectService
	AdminService            *AdminService
}

// NewServices wires the services onto the repositories
func NewServices(
	database *db.PostgresDB,
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	cfg *config.Config,
	logger zerolog.Logger,
) *Services {
	return &Services{
		AuthService: NewAuthService(
			repos.UserRepository, repos.TokenRepository,
			repos.StudentRepository, repos.MentorRepository,
			jwtService, logger),
		PairingService: NewPairingService(
			database, repos.StudentRepository, repos.TeamRepository,
			repos.InvitationRepository, repos.MentorRepository, logger),
		MentorAssignmentService: NewMentorAssignmentService(
			database, repos.StudentRepository, repos.MentorRepository,
			repos.TeamRepository, repos.MentorRequestRepository, logger),
		MentorService: NewMentorService(
			repos.MentorRepository, repos.TeamRepository,
			repos.StudentRepository, logger),
		ProjectService: NewProjectService(
			repos.StudentRepository, repos.MentorRepository,
			repos.TeamRepository, repos.ProjectRepository, logger),
		AdminService: NewAdminService(
			database, repos.UserRepository, repos.TokenRepository,
			repos.StudentRepository, repos.MentorRepository,
			repos.TeamRepository, repos.InvitationRepository,
			repos.ProjectRepository, cfg.Auth.DefaultPassword, logger),
	}
}
