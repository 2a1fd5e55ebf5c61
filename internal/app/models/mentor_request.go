package models

import "time"

// RequestStatus defines the state of a mentor request
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

var requestTransitions = map[RequestStatus][]RequestStatus{
	RequestPending:  {RequestApproved, RequestRejected},
	RequestApproved: {},
	RequestRejected: {},
}

// CanTransitionTo reports whether the transition is listed in the table.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range requestTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MentorRequest defines a team's request for a mentor.
// At most one pending request exists per team.
type MentorRequest struct {
	ID        int64         `json:"id" db:"id" example:"4"`
	TeamID    int64         `json:"teamId" db:"team_id" example:"7"`
	MentorID  int64         `json:"mentorId" db:"mentor_id" example:"3"`
	Status    RequestStatus `json:"status" db:"status" example:"PENDING"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Team   *Team   `json:"team,omitempty"`
	Mentor *Mentor `json:"mentor,omitempty"`
}
