package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/oguzhan/projecthub/internal/app/models"
)

// MentorService handles the mentor directory and a mentor's workload view
type MentorService struct {
	mentorStore  mentorStore
	teamStore    teamStore
	studentStore studentStore
	logger       zerolog.Logger
}

// NewMentorService creates a new MentorService
func NewMentorService(
	mentorStore mentorStore,
	teamStore teamStore,
	studentStore studentStore,
	logger zerolog.Logger,
) *MentorService {
	return &MentorService{
		mentorStore:  mentorStore,
		teamStore:    teamStore,
		studentStore: studentStore,
		logger:       logger,
	}
}

// MentorWithLoad pairs a mentor with their derived per-phase load
type MentorWithLoad struct {
	Mentor *models.Mentor
	Load   models.MentorLoad
}

// ListMentors retrieves every mentor with their current load, so students
// can pick one with free capacity.
func (s *MentorService) ListMentors(ctx context.Context) ([]MentorWithLoad, error) {
	mentors, err := s.mentorStore.ListMentors(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]MentorWithLoad, 0, len(mentors))
	for _, mentor := range mentors {
		load, err := s.mentorStore.GetMentorLoad(ctx, mentor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load mentor workload: %w", err)
		}
		result = append(result, MentorWithLoad{Mentor: mentor, Load: load})
	}

	return result, nil
}

// GetMentor retrieves one mentor with load
func (s *MentorService) GetMentor(ctx context.Context, mentorID int64) (*MentorWithLoad, error) {
	mentor, err := s.mentorStore.GetMentorByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	load, err := s.mentorStore.GetMentorLoad(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}
	return &MentorWithLoad{Mentor: mentor, Load: load}, nil
}

// GetGuidedTeams retrieves the teams the mentor currently guides, with
// member details attached.
func (s *MentorService) GetGuidedTeams(ctx context.Context, mentorUserID int64) ([]*models.Team, error) {
	mentor, err := s.mentorStore.GetMentorByUserID(ctx, mentorUserID)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamStore.ListTeamsByMentor(ctx, mentor.ID)
	if err != nil {
		return nil, err
	}

	for _, team := range teams {
		student1, err := s.studentStore.GetStudentByID(ctx, team.Student1ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team member: %w", err)
		}
		team.Student1 = student1
		if team.Student2ID != nil {
			student2, err := s.studentStore.GetStudentByID(ctx, *team.Student2ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load team member: %w", err)
			}
			team.Student2 = student2
		}
		team.Mentor = mentor
	}

	return teams, nil
}
