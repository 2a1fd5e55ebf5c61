package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
	"github.com/oguzhan/projecthub/internal/pkg/auth"
)

const testDefaultPassword = "changeme123"

type adminEnv struct {
	users       *fakeUserStore
	tokens      *fakeTokenStore
	students    *fakeStudentStore
	mentors     *fakeMentorStore
	teams       *fakeTeamStore
	invitations *fakeInvitationStore
	projects    *fakeProjectStore
	svc         *AdminService
}

func newAdminEnv() *adminEnv {
	env := &adminEnv{
		users:       newFakeUserStore(),
		tokens:      newFakeTokenStore(),
		students:    newFakeStudentStore(),
		mentors:     newFakeMentorStore(),
		teams:       newFakeTeamStore(),
		invitations: newFakeInvitationStore(),
		projects:    newFakeProjectStore(),
	}
	env.svc = NewAdminService(&fakeTxRunner{}, env.users, env.tokens,
		env.students, env.mentors, env.teams, env.invitations, env.projects,
		testDefaultPassword, testLogger)
	return env
}

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with the default password", func(t *testing.T) {
		env := newAdminEnv()
		student, err := env.svc.CreateStudent(ctx, &dto.CreateStudentRequest{
			Email:          "jane@univ.edu",
			FullName:       "Jane Doe",
			RegistrationNo: "20CS042",
			Department:     "CSE",
			Semester:       5,
		})
		require.NoError(t, err)
		assert.Equal(t, "20CS042", student.RegistrationNo)

		user, err := env.users.GetUserByEmail(ctx, "jane@univ.edu")
		require.NoError(t, err)
		assert.Equal(t, models.RoleStudent, user.RoleType)
		assert.True(t, auth.CheckPassword(user.Password, testDefaultPassword))
	})

	t.Run("rejects duplicate registration number", func(t *testing.T) {
		env := newAdminEnv()
		req := &dto.CreateStudentRequest{
			Email:          "jane@univ.edu",
			FullName:       "Jane Doe",
			RegistrationNo: "20CS042",
			Department:     "CSE",
			Semester:       5,
		}
		_, err := env.svc.CreateStudent(ctx, req)
		require.NoError(t, err)

		req.Email = "other@univ.edu"
		_, err = env.svc.CreateStudent(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrRegistrationNoExists)
	})

	t.Run("rejects malformed registration number", func(t *testing.T) {
		env := newAdminEnv()
		_, err := env.svc.CreateStudent(ctx, &dto.CreateStudentRequest{
			Email:          "jane@univ.edu",
			FullName:       "Jane Doe",
			RegistrationNo: "not-a-regno",
			Department:     "CSE",
			Semester:       5,
		})
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestResetStudentPassword(t *testing.T) {
	ctx := context.Background()
	env := newAdminEnv()

	student, err := env.svc.CreateStudent(ctx, &dto.CreateStudentRequest{
		Email:          "jane@univ.edu",
		FullName:       "Jane Doe",
		RegistrationNo: "20CS042",
		Department:     "CSE",
		Semester:       5,
	})
	require.NoError(t, err)

	require.NoError(t, env.users.UpdatePassword(ctx, student.UserID, "some-other-hash"))
	require.NoError(t, env.tokens.CreateToken(ctx, "refresh-1", student.UserID, time.Now().Add(time.Hour)))

	require.NoError(t, env.svc.ResetStudentPassword(ctx, student.ID))

	user, err := env.users.GetUserByID(ctx, student.UserID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(user.Password, testDefaultPassword))
	assert.True(t, env.tokens.revoked["refresh-1"])
}

func TestForcePair(t *testing.T) {
	ctx := context.Background()

	t.Run("pairs two unteamed students", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "20CS002", 5)

		team, err := env.svc.ForcePair(ctx, s1.ID, s2.ID)
		require.NoError(t, err)
		assert.Equal(t, s1.ID, team.Student1ID)
		require.NotNil(t, team.Student2ID)
		assert.Equal(t, s2.ID, *team.Student2ID)
	})

	t.Run("withdraws the students' pending invitations", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "20CS002", 5)
		s3 := env.students.add(103, "20CS003", 5)

		inv := &models.Invitation{SenderID: s3.ID, RecipientID: s1.ID}
		require.NoError(t, env.invitations.CreateInvitation(ctx, inv))

		_, err := env.svc.ForcePair(ctx, s1.ID, s2.ID)
		require.NoError(t, err)

		stored, err := env.invitations.GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationWithdrawn, stored.Status)
	})

	t.Run("refuses already teamed students", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "20CS002", 5)
		s3 := env.students.add(103, "20CS003", 5)

		_, err := env.svc.ForcePair(ctx, s1.ID, s2.ID)
		require.NoError(t, err)

		_, err = env.svc.ForcePair(ctx, s2.ID, s3.ID)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyPaired)
	})

	t.Run("refuses cross pool pairing", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "19CS002", 7)

		_, err := env.svc.ForcePair(ctx, s1.ID, s2.ID)
		assert.ErrorIs(t, err, apperrors.ErrSemesterMismatch)
	})
}

func TestAssignMentor(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns under capacity", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		mentor := env.mentors.add(201, 1, 1, 1)
		team := &models.Team{Student1ID: s1.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))

		require.NoError(t, env.svc.AssignMentor(ctx, team.ID, mentor.ID))

		stored, err := env.teams.GetTeamByID(ctx, team.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.MentorID)
		assert.Equal(t, mentor.ID, *stored.MentorID)
	})

	t.Run("refuses a full mentor", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		mentor := env.mentors.add(201, 1, 1, 1)
		env.mentors.setLoad(mentor.ID, models.MentorLoad{PT1: 1})
		team := &models.Team{Student1ID: s1.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))

		err := env.svc.AssignMentor(ctx, team.ID, mentor.ID)
		assert.ErrorIs(t, err, apperrors.ErrMentorAtCapacity)
	})
}

func TestRemoveTeamMember(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes the partner when the first member leaves", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "20CS002", 5)
		team := &models.Team{Student1ID: s1.ID, Student2ID: &s2.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))

		require.NoError(t, env.svc.RemoveTeamMember(ctx, team.ID, s1.ID))

		stored, err := env.teams.GetTeamByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TeamActive, stored.Status)
		assert.Equal(t, s2.ID, stored.Student1ID)
		assert.Nil(t, stored.Student2ID)
	})

	t.Run("disbands when the last member leaves", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		mentor := env.mentors.add(201, 1, 1, 1)
		team := &models.Team{Student1ID: s1.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))
		require.NoError(t, env.teams.SetMentorTx(ctx, nil, team.ID, &mentor.ID))

		require.NoError(t, env.svc.RemoveTeamMember(ctx, team.ID, s1.ID))

		stored, err := env.teams.GetTeamByID(ctx, team.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TeamDisbanded, stored.Status)
		assert.Nil(t, stored.MentorID)
	})

	t.Run("refuses a non member", func(t *testing.T) {
		env := newAdminEnv()
		s1 := env.students.add(101, "20CS001", 5)
		s2 := env.students.add(102, "20CS002", 5)
		team := &models.Team{Student1ID: s1.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))

		err := env.svc.RemoveTeamMember(ctx, team.ID, s2.ID)
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestShiftAllStudents(t *testing.T) {
	ctx := context.Background()
	env := newAdminEnv()
	env.students.add(101, "20CS001", 5)
	env.students.add(102, "20CS002", 6)

	shifted, err := env.svc.ShiftAllStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), shifted)

	// A second call shifts everyone again
	_, err = env.svc.ShiftAllStudents(ctx)
	require.NoError(t, err)

	s1, err := env.students.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, s1.Semester)
	s2, err := env.students.GetStudentByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, s2.Semester)
}

func TestSetAllCapacities(t *testing.T) {
	ctx := context.Background()
	env := newAdminEnv()
	env.mentors.add(201, 1, 1, 1)
	env.mentors.add(202, 2, 2, 2)

	updated, err := env.svc.SetAllCapacities(ctx, models.PhasePT1, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	m1, err := env.mentors.GetMentorByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, m1.MaxPT1)
	assert.Equal(t, 1, m1.MaxPT2)

	_, err = env.svc.SetAllCapacities(ctx, models.PhasePT1, -1)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	env := newAdminEnv()
	s1 := env.students.add(101, "20CS001", 5)
	env.students.add(102, "20CS002", 5)
	env.mentors.add(201, 1, 1, 1)
	require.NoError(t, env.teams.CreateTeamTx(ctx, nil, &models.Team{Student1ID: s1.ID}))

	dash, err := env.svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dash.Students)
	assert.Equal(t, int64(1), dash.Mentors)
	assert.Equal(t, int64(1), dash.ActiveTeams)
}

func TestClearProjectDocuments(t *testing.T) {
	ctx := context.Background()
	env := newAdminEnv()

	url := "https://drive.google.com/file/d/1AbCdEf/view"
	project := &models.Project{TeamID: 1, Phase: models.PhasePT1, Title: "T", Description: "D"}
	require.NoError(t, env.projects.CreateProject(ctx, project))
	require.NoError(t, env.projects.SetDocumentURL(ctx, project.ID, models.DocPPT, url))
	require.NoError(t, env.projects.SetDocumentURL(ctx, project.ID, models.DocReport, url))

	require.NoError(t, env.svc.ClearProjectDocuments(ctx, project.ID, []string{"ppt", "report"}))

	stored, err := env.projects.GetProjectByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PPTURL)
	assert.Nil(t, stored.ReportPDFURL)

	err = env.svc.ClearProjectDocuments(ctx, project.ID, []string{"bogus"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
