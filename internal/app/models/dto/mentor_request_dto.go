package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// RequestMentorRequest represents a team asking a mentor for guidance
type RequestMentorRequest struct {
	MentorID int64 `json:"mentorId" binding:"required,min=1" example:"3"`
}

// MentorRequestActionRequest represents a mentor approving or rejecting
type MentorRequestActionRequest struct {
	Action string `json:"action" binding:"required" example:"APPROVE" enums:"APPROVE,REJECT"`
}

// MentorRequestResponse represents a mentor request with team details
type MentorRequestResponse struct {
	ID        int64         `json:"id" example:"4"`
	TeamID    int64         `json:"teamId" example:"7"`
	MentorID  int64         `json:"mentorId" example:"3"`
	Status    string        `json:"status" example:"PENDING"`
	Team      *TeamResponse `json:"team,omitempty"`
	CreatedAt string        `json:"createdAt"`
}

// MentorRequestListResponse represents the requests addressed to a mentor
type MentorRequestListResponse struct {
	Requests []MentorRequestResponse `json:"requests"`
}

// FromMentorRequest converts a models.MentorRequest to a response
func FromMentorRequest(req *models.MentorRequest) MentorRequestResponse {
	if req == nil {
		return MentorRequestResponse{}
	}

	resp := MentorRequestResponse{
		ID:        req.ID,
		TeamID:    req.TeamID,
		MentorID:  req.MentorID,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if req.Team != nil {
		team := FromTeam(req.Team)
		resp.Team = &team
	}

	return resp
}

// FromMentorRequests converts a slice of models.MentorRequest
func FromMentorRequests(requests []*models.MentorRequest) []MentorRequestResponse {
	responses := make([]MentorRequestResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, FromMentorRequest(req))
	}
	return responses
}
