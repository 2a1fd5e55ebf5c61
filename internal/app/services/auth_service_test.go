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

type authEnv struct {
	users    *fakeUserStore
	tokens   *fakeTokenStore
	students *fakeStudentStore
	mentors  *fakeMentorStore
	svc      *AuthService
}

func newAuthEnv(t *testing.T) *authEnv {
	t.Helper()
	env := &authEnv{
		users:    newFakeUserStore(),
		tokens:   newFakeTokenStore(),
		students: newFakeStudentStore(),
		mentors:  newFakeMentorStore(),
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "projecthub.test",
	})
	env.svc = NewAuthService(env.users, env.tokens, env.students, env.mentors, jwtService, testLogger)
	return env
}

func (env *authEnv) addStudentUser(t *testing.T, email, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{Email: email, Password: hash, FullName: "Jane Doe", RoleType: models.RoleStudent}
	_, err = env.users.CreateUserTx(context.Background(), nil, user)
	require.NoError(t, err)
	env.students.add(user.ID, "20CS042", 5)
	return user
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens and student profile", func(t *testing.T) {
		env := newAuthEnv(t)
		env.addStudentUser(t, "jane@univ.edu", "sekret123")

		resp, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "jane@univ.edu", Password: "sekret123"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)

		profile, ok := resp.User.(dto.StudentResponse)
		require.True(t, ok)
		assert.Equal(t, "20CS042", profile.RegistrationNo)
		assert.Equal(t, "PT1", profile.Phase)
	})

	t.Run("wrong password", func(t *testing.T) {
		env := newAuthEnv(t)
		env.addStudentUser(t, "jane@univ.edu", "sekret123")

		_, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "jane@univ.edu", Password: "wrong-pass"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		env := newAuthEnv(t)
		_, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "nobody@univ.edu", Password: "whatever1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the refresh token", func(t *testing.T) {
		env := newAuthEnv(t)
		env.addStudentUser(t, "jane@univ.edu", "sekret123")
		resp, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "jane@univ.edu", Password: "sekret123"})
		require.NoError(t, err)

		refreshed, err := env.svc.RefreshToken(ctx, resp.Token.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, resp.Token.RefreshToken, refreshed.RefreshToken)
		assert.True(t, env.tokens.revoked[resp.Token.RefreshToken])

		// The old token cannot be replayed
		_, err = env.svc.RefreshToken(ctx, resp.Token.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("unknown token", func(t *testing.T) {
		env := newAuthEnv(t)
		_, err := env.svc.RefreshToken(ctx, "bogus-token")
		assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces the hash and revokes sessions", func(t *testing.T) {
		env := newAuthEnv(t)
		user := env.addStudentUser(t, "jane@univ.edu", "sekret123")
		resp, err := env.svc.Login(ctx, &dto.LoginRequest{Email: "jane@univ.edu", Password: "sekret123"})
		require.NoError(t, err)

		err = env.svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
			CurrentPassword: "sekret123",
			NewPassword:     "newpass456",
		})
		require.NoError(t, err)

		stored, err := env.users.GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, auth.CheckPassword(stored.Password, "newpass456"))
		assert.True(t, env.tokens.revoked[resp.Token.RefreshToken])
	})

	t.Run("wrong current password", func(t *testing.T) {
		env := newAuthEnv(t)
		user := env.addStudentUser(t, "jane@univ.edu", "sekret123")

		err := env.svc.ChangePassword(ctx, user.ID, &dto.ChangePasswordRequest{
			CurrentPassword: "wrong-pass",
			NewPassword:     "newpass456",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	env := newAuthEnv(t)

	mentorUser := &models.User{Email: "ayse@univ.edu", Password: "x", FullName: "Dr. Ayse Kaya", RoleType: models.RoleMentor}
	_, err := env.users.CreateUserTx(ctx, nil, mentorUser)
	require.NoError(t, err)
	mentor := env.mentors.add(mentorUser.ID, 4, 4, 2)
	env.mentors.setLoad(mentor.ID, models.MentorLoad{PT1: 2})

	profile, err := env.svc.GetProfile(ctx, mentorUser.ID)
	require.NoError(t, err)

	resp, ok := profile.(dto.MentorResponse)
	require.True(t, ok)
	require.NotNil(t, resp.Load)
	assert.Equal(t, 2, resp.Load.PT1)
	assert.Equal(t, 4, resp.MaxPT1)
}
