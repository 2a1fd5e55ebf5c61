package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier abstracts *pgxpool.Pool and pgx.Tx so repository methods suffixed
// with Tx can run inside a caller-owned transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	TokenRepository         *TokenRepository
	StudentRepository       *StudentRepository
	MentorRepository        *MentorRepository
	TeamRepository          *TeamRepository
	InvitationRepository    *InvitationRepository
	MentorRequestRepository *MentorRequestRepository
	ProjectRepository       *ProjectRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		TokenRepository:         NewTokenRepository(db),
		StudentRepository:       NewStudentRepository(db),
		MentorRepository:        NewMentorRepository(db),
		TeamRepository:          NewTeamRepository(db),
		InvitationRepository:    NewInvitationRepository(db),
		MentorRequestRepository: NewMentorRequestRepository(db),
		ProjectRepository:       NewProjectRepository(db),
	}
}
