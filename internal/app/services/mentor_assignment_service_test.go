package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

type assignmentEnv struct {
	students *fakeStudentStore
	mentors  *fakeMentorStore
	teams    *fakeTeamStore
	requests *fakeMentorRequestStore
	svc      *MentorAssignmentService
}

// newAssignmentEnv seeds two solo PT-1 teams (students with user IDs 101 and
// 102) and one mentor (user ID 201) with capacity 1 per phase.
func newAssignmentEnv(t *testing.T) *assignmentEnv {
	t.Helper()
	env := &assignmentEnv{
		students: newFakeStudentStore(),
		mentors:  newFakeMentorStore(),
		teams:    newFakeTeamStore(),
		requests: newFakeMentorRequestStore(),
	}
	s1 := env.students.add(101, "20CS001", 5)
	s2 := env.students.add(102, "20CS002", 5)
	env.mentors.add(201, 1, 1, 1)

	ctx := context.Background()
	require.NoError(t, env.teams.CreateTeamTx(ctx, nil, &models.Team{Student1ID: s1.ID}))
	require.NoError(t, env.teams.CreateTeamTx(ctx, nil, &models.Team{Student1ID: s2.ID}))

	env.svc = NewMentorAssignmentService(&fakeTxRunner{}, env.students, env.mentors, env.teams, env.requests, testLogger)
	return env
}

func TestRequestMentor(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, req.Status)
		assert.Equal(t, int64(1), req.MentorID)
	})

	t.Run("rejects when team already has a mentor", func(t *testing.T) {
		env := newAssignmentEnv(t)
		mentorID := int64(1)
		require.NoError(t, env.teams.SetMentorTx(ctx, nil, 1, &mentorID))

		_, err := env.svc.RequestMentor(ctx, 101, 1)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})

	t.Run("advisory capacity check blocks a full mentor", func(t *testing.T) {
		env := newAssignmentEnv(t)
		env.mentors.setLoad(1, models.MentorLoad{PT1: 1})

		_, err := env.svc.RequestMentor(ctx, 101, 1)
		assert.ErrorIs(t, err, apperrors.ErrMentorAtCapacity)
	})

	t.Run("rejects duplicate pending request", func(t *testing.T) {
		env := newAssignmentEnv(t)
		_, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)

		_, err = env.svc.RequestMentor(ctx, 101, 1)
		assert.ErrorIs(t, err, apperrors.ErrDuplicateRequest)
	})

	t.Run("requires an active team", func(t *testing.T) {
		env := newAssignmentEnv(t)
		env.students.add(105, "20CS005", 5)

		_, err := env.svc.RequestMentor(ctx, 105, 1)
		assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)
	})
}

func TestApproveRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns mentor to team", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)

		require.NoError(t, env.svc.ApproveRequest(ctx, 201, req.ID))

		team, err := env.teams.GetTeamByID(ctx, 1)
		require.NoError(t, err)
		require.NotNil(t, team.MentorID)
		assert.Equal(t, int64(1), *team.MentorID)

		stored, err := env.requests.GetMentorRequestByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestApproved, stored.Status)
	})

	t.Run("capacity is enforced at approval time", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req1, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)
		req2, err := env.svc.RequestMentor(ctx, 102, 1)
		require.NoError(t, err)

		require.NoError(t, env.svc.ApproveRequest(ctx, 201, req1.ID))
		env.mentors.setLoad(1, models.MentorLoad{PT1: 1})

		err = env.svc.ApproveRequest(ctx, 201, req2.ID)
		assert.ErrorIs(t, err, apperrors.ErrMentorAtCapacity)

		// The losing request stays pending
		stored, err := env.requests.GetMentorRequestByID(ctx, req2.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RequestPending, stored.Status)
	})

	t.Run("only the addressed mentor may respond", func(t *testing.T) {
		env := newAssignmentEnv(t)
		env.mentors.add(202, 3, 3, 3)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)

		err = env.svc.ApproveRequest(ctx, 202, req.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("terminal request cannot be approved again", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)
		require.NoError(t, env.svc.RejectRequest(ctx, 201, req.ID))

		err = env.svc.ApproveRequest(ctx, 201, req.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestWithdrawRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("team withdraws its own pending request", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)

		require.NoError(t, env.svc.WithdrawRequest(ctx, 101, req.ID))

		_, err = env.requests.GetMentorRequestByID(ctx, req.ID)
		assert.ErrorIs(t, err, apperrors.ErrMentorRequestNotFound)
	})

	t.Run("another team cannot withdraw", func(t *testing.T) {
		env := newAssignmentEnv(t)
		req, err := env.svc.RequestMentor(ctx, 101, 1)
		require.NoError(t, err)

		err = env.svc.WithdrawRequest(ctx, 102, req.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestGetTeamRequest(t *testing.T) {
	ctx := context.Background()
	env := newAssignmentEnv(t)

	_, err := env.svc.GetTeamRequest(ctx, 101)
	assert.ErrorIs(t, err, apperrors.ErrMentorRequestNotFound)

	req, err := env.svc.RequestMentor(ctx, 101, 1)
	require.NoError(t, err)

	found, err := env.svc.GetTeamRequest(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, req.ID, found.ID)
	require.NotNil(t, found.Mentor)
	assert.Equal(t, int64(1), found.Mentor.ID)
}
