package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

type pairingEnv struct {
	students    *fakeStudentStore
	teams       *fakeTeamStore
	invitations *fakeInvitationStore
	mentors     *fakeMentorStore
	svc         *PairingService
}

// newPairingEnv seeds three PT-1 students (user IDs 101-103) and one
// sixth-semester student (user ID 104).
func newPairingEnv() *pairingEnv {
	env := &pairingEnv{
		students:    newFakeStudentStore(),
		teams:       newFakeTeamStore(),
		invitations: newFakeInvitationStore(),
		mentors:     newFakeMentorStore(),
	}
	env.students.add(101, "20CS001", 5)
	env.students.add(102, "20CS002", 5)
	env.students.add(103, "20CS003", 5)
	env.students.add(104, "19CS004", 6)
	env.svc = NewPairingService(&fakeTxRunner{}, env.students, env.teams, env.invitations, env.mentors, testLogger)
	return env
}

func TestSendInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending invitation", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)
		assert.Equal(t, models.InvitationPending, inv.Status)
		assert.Equal(t, int64(1), inv.SenderID)
		assert.Equal(t, int64(2), inv.RecipientID)
	})

	t.Run("rejects self invitation", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.SendInvitation(ctx, 101, "20CS001")
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects cross pool invitation", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.SendInvitation(ctx, 101, "19CS004")
		assert.ErrorIs(t, err, apperrors.ErrSemesterMismatch)
	})

	t.Run("rejects duplicate pending in either direction", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		_, err = env.svc.SendInvitation(ctx, 101, "20CS002")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateInvite)

		// Reverse direction counts as the same pair
		_, err = env.svc.SendInvitation(ctx, 102, "20CS001")
		assert.ErrorIs(t, err, apperrors.ErrDuplicateInvite)
	})

	t.Run("rejects when sender already teamed", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.GoSolo(ctx, 101)
		require.NoError(t, err)

		_, err = env.svc.SendInvitation(ctx, 101, "20CS002")
		assert.ErrorIs(t, err, apperrors.ErrAlreadyPaired)
	})

	t.Run("rejects unknown registration number", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.SendInvitation(ctx, 101, "99XX999")
		assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("forms team and withdraws competing invitations", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)
		competing, err := env.svc.SendInvitation(ctx, 103, "20CS002")
		require.NoError(t, err)

		team, err := env.svc.AcceptInvitation(ctx, 102, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.TeamActive, team.Status)
		assert.Equal(t, inv.SenderID, team.Student1ID)
		require.NotNil(t, team.Student2ID)
		assert.Equal(t, inv.RecipientID, *team.Student2ID)

		accepted, err := env.invitations.GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationAccepted, accepted.Status)

		withdrawn, err := env.invitations.GetInvitationByID(ctx, competing.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationWithdrawn, withdrawn.Status)
	})

	t.Run("only recipient may accept", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		_, err = env.svc.AcceptInvitation(ctx, 103, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotRecipient)
	})

	t.Run("terminal invitation cannot be accepted again", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)
		_, err = env.svc.AcceptInvitation(ctx, 102, inv.ID)
		require.NoError(t, err)

		_, err = env.svc.AcceptInvitation(ctx, 102, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("loses when recipient joined another team first", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		// Recipient pairs with a third student before accepting
		other, err := env.svc.SendInvitation(ctx, 103, "20CS002")
		require.NoError(t, err)
		_, err = env.svc.AcceptInvitation(ctx, 102, other.ID)
		require.NoError(t, err)

		// The first invitation was withdrawn by the accept; a student left
		// holding a stale ID gets a state error, not a second team
		_, err = env.svc.AcceptInvitation(ctx, 102, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)

		teams, err := env.teams.ListActiveTeams(ctx)
		require.NoError(t, err)
		assert.Len(t, teams, 1)
	})
}

func TestRejectInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("recipient rejects pending", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		require.NoError(t, env.svc.RejectInvitation(ctx, 102, inv.ID))

		rejected, err := env.invitations.GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationRejected, rejected.Status)
	})

	t.Run("sender cannot reject", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		err = env.svc.RejectInvitation(ctx, 101, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotRecipient)
	})

	t.Run("terminal states stay terminal", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)
		require.NoError(t, env.svc.RejectInvitation(ctx, 102, inv.ID))

		err = env.svc.RejectInvitation(ctx, 102, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
		err = env.svc.WithdrawInvitation(ctx, 101, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

func TestWithdrawInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("sender withdraws pending", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		require.NoError(t, env.svc.WithdrawInvitation(ctx, 101, inv.ID))

		withdrawn, err := env.invitations.GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationWithdrawn, withdrawn.Status)
	})

	t.Run("recipient cannot withdraw", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		err = env.svc.WithdrawInvitation(ctx, 102, inv.ID)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestGoSolo(t *testing.T) {
	ctx := context.Background()

	t.Run("forms solo team and withdraws pending invitations", func(t *testing.T) {
		env := newPairingEnv()
		inv, err := env.svc.SendInvitation(ctx, 101, "20CS002")
		require.NoError(t, err)

		team, err := env.svc.GoSolo(ctx, 101)
		require.NoError(t, err)
		assert.Equal(t, int64(1), team.Student1ID)
		assert.Nil(t, team.Student2ID)

		withdrawn, err := env.invitations.GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		assert.Equal(t, models.InvitationWithdrawn, withdrawn.Status)
	})

	t.Run("rejects second team", func(t *testing.T) {
		env := newPairingEnv()
		_, err := env.svc.GoSolo(ctx, 101)
		require.NoError(t, err)

		_, err = env.svc.GoSolo(ctx, 101)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyPaired)
	})
}

func TestGetMyTeam(t *testing.T) {
	ctx := context.Background()
	env := newPairingEnv()

	_, err := env.svc.GetMyTeam(ctx, 101)
	assert.ErrorIs(t, err, apperrors.ErrTeamNotFound)

	_, err = env.svc.GoSolo(ctx, 101)
	require.NoError(t, err)

	team, err := env.svc.GetMyTeam(ctx, 101)
	require.NoError(t, err)
	require.NotNil(t, team.Student1)
	assert.Equal(t, "20CS001", team.Student1.RegistrationNo)
}
