package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// TeamResponse represents team information with member details
type TeamResponse struct {
	ID           int64            `json:"id" example:"7"`
	Status       string           `json:"status" example:"ACTIVE"`
	Phase        string           `json:"phase,omitempty" example:"PT1"`
	Student1     *StudentResponse `json:"student1,omitempty"`
	Student2     *StudentResponse `json:"student2,omitempty"`
	Mentor       *MentorResponse  `json:"mentor,omitempty"`
	CreatedAt    string           `json:"createdAt"`
	LastActivity string           `json:"lastActivity"`
}

// TeamListResponse represents a list of teams
type TeamListResponse struct {
	Teams []TeamResponse `json:"teams"`
}

// FromTeam converts a models.Team to a TeamResponse
func FromTeam(team *models.Team) TeamResponse {
	if team == nil {
		return TeamResponse{}
	}

	resp := TeamResponse{
		ID:           team.ID,
		Status:       string(team.Status),
		CreatedAt:    team.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		LastActivity: team.LastActivity.Format("2006-01-02T15:04:05Z07:00"),
	}
	if team.Student1 != nil {
		s1 := FromStudent(team.Student1)
		resp.Student1 = &s1
	}
	if team.Student2 != nil {
		s2 := FromStudent(team.Student2)
		resp.Student2 = &s2
	}
	if team.Mentor != nil {
		m := FromMentor(team.Mentor)
		resp.Mentor = &m
	}
	if phase, err := team.Phase(); err == nil {
		resp.Phase = string(phase)
	}

	return resp
}
