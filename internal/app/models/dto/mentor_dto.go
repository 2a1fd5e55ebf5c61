package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// MentorResponse represents mentor information with derived load
type MentorResponse struct {
	ID             int64  `json:"id" example:"3"`
	FullName       string `json:"fullName" example:"Dr. Ayşe Kaya"`
	Email          string `json:"email" example:"ayse@univ.edu"`
	Degree         string `json:"degree" example:"PhD"`
	Specialization string `json:"specialization" example:"Machine Learning"`
	MaxPT1         int    `json:"maxPt1" example:"4"`
	MaxPT2         int    `json:"maxPt2" example:"4"`
	MaxFinalYear   int    `json:"maxFinalYear" example:"2"`

	// Load is derived from active team assignments
	Load *MentorLoadInfo `json:"load,omitempty"`
}

// MentorLoadInfo represents the per-phase load of a mentor
type MentorLoadInfo struct {
	PT1       int `json:"pt1" example:"2"`
	PT2       int `json:"pt2" example:"1"`
	FinalYear int `json:"finalYear" example:"0"`
}

// MentorListResponse represents a list of mentors
type MentorListResponse struct {
	Mentors []MentorResponse `json:"mentors"`
}

// CreateMentorRequest represents an admin adding a mentor record
type CreateMentorRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"fullName" binding:"required"`
	Degree         string `json:"degree" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
	MaxPT1         int    `json:"maxPt1" binding:"min=0"`
	MaxPT2         int    `json:"maxPt2" binding:"min=0"`
	MaxFinalYear   int    `json:"maxFinalYear" binding:"min=0"`
}

// UpdateMentorCapacityRequest represents per-mentor capacity ceilings
type UpdateMentorCapacityRequest struct {
	MaxPT1       int `json:"maxPt1" binding:"min=0"`
	MaxPT2       int `json:"maxPt2" binding:"min=0"`
	MaxFinalYear int `json:"maxFinalYear" binding:"min=0"`
}

// SetAllCapacitiesRequest sets one phase's ceiling for every mentor
type SetAllCapacitiesRequest struct {
	Phase string `json:"phase" binding:"required" example:"PT1" enums:"PT1,PT2,FINAL_YEAR"`
	Value int    `json:"value" binding:"min=0" example:"4"`
}

// FromMentor converts a models.Mentor to a MentorResponse
func FromMentor(mentor *models.Mentor) MentorResponse {
	if mentor == nil {
		return MentorResponse{}
	}

	resp := MentorResponse{
		ID:             mentor.ID,
		Degree:         mentor.Degree,
		Specialization: mentor.Specialization,
		MaxPT1:         mentor.MaxPT1,
		MaxPT2:         mentor.MaxPT2,
		MaxFinalYear:   mentor.MaxFinalYear,
	}
	if mentor.User != nil {
		resp.FullName = mentor.User.FullName
		resp.Email = mentor.User.Email
	}

	return resp
}

// FromMentorWithLoad converts a mentor together with its derived load
func FromMentorWithLoad(mentor *models.Mentor, load models.MentorLoad) MentorResponse {
	resp := FromMentor(mentor)
	resp.Load = &MentorLoadInfo{
		PT1:       load.PT1,
		PT2:       load.PT2,
		FinalYear: load.FinalYear,
	}
	return resp
}
