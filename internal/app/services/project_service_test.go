package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/oguzhan/projecthub/internal/app/models"
	"github.com/oguzhan/projecthub/internal/app/models/dto"
	"github.com/oguzhan/projecthub/internal/pkg/apperrors"
)

type projectEnv struct {
	students *fakeStudentStore
	mentors  *fakeMentorStore
	teams    *fakeTeamStore
	projects *fakeProjectStore
	svc      *ProjectService
}

// newProjectEnv seeds a solo PT-1 team (student user ID 101) guided by a
// mentor (user ID 201).
func newProjectEnv(t *testing.T) *projectEnv {
	t.Helper()
	env := &projectEnv{
		students: newFakeStudentStore(),
		mentors:  newFakeMentorStore(),
		teams:    newFakeTeamStore(),
		projects: newFakeProjectStore(),
	}
	s1 := env.students.add(101, "20CS001", 5)
	mentor := env.mentors.add(201, 4, 4, 2)

	ctx := context.Background()
	team := &models.Team{Student1ID: s1.ID}
	require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))
	require.NoError(t, env.teams.SetMentorTx(ctx, nil, team.ID, &mentor.ID))

	env.svc = NewProjectService(env.students, env.mentors, env.teams, env.projects, testLogger)
	return env
}

func validIdea() *dto.SubmitProjectRequest {
	return &dto.SubmitProjectRequest{
		Title:       "Smart Attendance",
		Description: "Face recognition based attendance tracking",
		Domain:      "IoT",
	}
}

func TestSubmitIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending project for the team phase", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		assert.Equal(t, models.ProjectPending, project.ApprovedStatus)
		assert.Equal(t, models.PhasePT1, project.Phase)
	})

	t.Run("requires a mentor", func(t *testing.T) {
		env := newProjectEnv(t)
		s2 := env.students.add(102, "20CS002", 5)
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, &models.Team{Student1ID: s2.ID}))

		_, err := env.svc.SubmitIdea(ctx, 102, validIdea())
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})

	t.Run("rejects a second active idea for the same phase", func(t *testing.T) {
		env := newProjectEnv(t)
		_, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		_, err = env.svc.SubmitIdea(ctx, 101, validIdea())
		assert.ErrorIs(t, err, apperrors.ErrDuplicateProject)
	})

	t.Run("allows a fresh idea after rejection", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, false))

		_, err = env.svc.SubmitIdea(ctx, 101, validIdea())
		assert.NoError(t, err)
	})

	t.Run("rejects ineligible semester", func(t *testing.T) {
		env := newProjectEnv(t)
		s3 := env.students.add(103, "22CS003", 3)
		team := &models.Team{Student1ID: s3.ID}
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, team))
		mentorID := int64(1)
		require.NoError(t, env.teams.SetMentorTx(ctx, nil, team.ID, &mentorID))

		_, err := env.svc.SubmitIdea(ctx, 103, validIdea())
		assert.ErrorIs(t, err, apperrors.ErrPhaseNotAllowed)
	})

	t.Run("rejects a non drive abstract link", func(t *testing.T) {
		env := newProjectEnv(t)
		req := validIdea()
		req.AbstractURL = "https://example.com/abstract.pdf"

		_, err := env.svc.SubmitIdea(ctx, 101, req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDocumentLink)
	})
}

func TestRespondToIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("mentor approves pending idea", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))

		stored, err := env.projects.GetProjectByID(ctx, project.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ProjectApproved, stored.ApprovedStatus)
	})

	t.Run("decision is terminal", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))

		err = env.svc.RespondToIdea(ctx, 201, project.ID, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("another mentor is refused", func(t *testing.T) {
		env := newProjectEnv(t)
		env.mentors.add(202, 4, 4, 2)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		err = env.svc.RespondToIdea(ctx, 202, project.ID, true)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestSubmitDocument(t *testing.T) {
	ctx := context.Background()
	driveLink := "https://drive.google.com/file/d/1AbCdEf/view"

	t.Run("stores link on approved project", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))

		updated, err := env.svc.SubmitDocument(ctx, 101, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "REPORT",
			URL:          driveLink,
		})
		require.NoError(t, err)
		require.NotNil(t, updated.ReportPDFURL)
		assert.Equal(t, driveLink, *updated.ReportPDFURL)
	})

	t.Run("non abstract documents require approval", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		_, err = env.svc.SubmitDocument(ctx, 101, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "PPT",
			URL:          driveLink,
		})
		assert.ErrorIs(t, err, apperrors.ErrProjectNotApproved)
	})

	t.Run("abstract may be revised while pending", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		_, err = env.svc.SubmitDocument(ctx, 101, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "ABSTRACT",
			URL:          driveLink,
		})
		assert.NoError(t, err)
	})

	t.Run("rejects non drive links", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))

		_, err = env.svc.SubmitDocument(ctx, 101, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "REPORT",
			URL:          "https://evil.example.com/drive.google.com/file",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidDocumentLink)
	})

	t.Run("another team's project is refused", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		s2 := env.students.add(102, "20CS002", 5)
		require.NoError(t, env.teams.CreateTeamTx(ctx, nil, &models.Team{Student1ID: s2.ID}))

		_, err = env.svc.SubmitDocument(ctx, 102, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "REPORT",
			URL:          driveLink,
		})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}

func TestReviewDocument(t *testing.T) {
	ctx := context.Background()
	driveLink := "https://drive.google.com/file/d/1AbCdEf/view"

	setup := func(t *testing.T) (*projectEnv, int64) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))
		_, err = env.svc.SubmitDocument(ctx, 101, project.ID, &dto.SubmitDocumentRequest{
			DocumentType: "REPORT",
			URL:          driveLink,
		})
		require.NoError(t, err)
		return env, project.ID
	}

	t.Run("rejection clears the slot for resubmission", func(t *testing.T) {
		env, projectID := setup(t)

		err := env.svc.ReviewDocument(ctx, 201, projectID, &dto.DocumentActionRequest{
			DocumentType: "REPORT",
			Action:       "REJECT",
		})
		require.NoError(t, err)

		stored, err := env.projects.GetProjectByID(ctx, projectID)
		require.NoError(t, err)
		assert.Nil(t, stored.ReportPDFURL)
	})

	t.Run("approval keeps the stored link", func(t *testing.T) {
		env, projectID := setup(t)

		err := env.svc.ReviewDocument(ctx, 201, projectID, &dto.DocumentActionRequest{
			DocumentType: "REPORT",
			Action:       "APPROVE",
		})
		require.NoError(t, err)

		stored, err := env.projects.GetProjectByID(ctx, projectID)
		require.NoError(t, err)
		require.NotNil(t, stored.ReportPDFURL)
		assert.Equal(t, driveLink, *stored.ReportPDFURL)
	})

	t.Run("missing document cannot be reviewed", func(t *testing.T) {
		env, projectID := setup(t)

		err := env.svc.ReviewDocument(ctx, 201, projectID, &dto.DocumentActionRequest{
			DocumentType: "DEMO",
			Action:       "REJECT",
		})
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestWithdrawIdea(t *testing.T) {
	ctx := context.Background()

	t.Run("removes pending idea", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)

		require.NoError(t, env.svc.WithdrawIdea(ctx, 101, project.ID))

		_, err = env.projects.GetProjectByID(ctx, project.ID)
		assert.ErrorIs(t, err, apperrors.ErrProjectNotFound)
	})

	t.Run("approved idea cannot be withdrawn", func(t *testing.T) {
		env := newProjectEnv(t)
		project, err := env.svc.SubmitIdea(ctx, 101, validIdea())
		require.NoError(t, err)
		require.NoError(t, env.svc.RespondToIdea(ctx, 201, project.ID, true))

		err = env.svc.WithdrawIdea(ctx, 101, project.ID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}
