package models

import "time"

// InvitationStatus defines the state of a partner invitation
type InvitationStatus string

const (
	InvitationPending   InvitationStatus = "PENDING"
	InvitationAccepted  InvitationStatus = "ACCEPTED"
	InvitationRejected  InvitationStatus = "REJECTED"
	InvitationWithdrawn InvitationStatus = "WITHDRAWN"
)

// invitationTransitions is the exhaustive transition table for invitations.
// Every terminal state maps to an empty set; anything not listed is rejected.
var invitationTransitions = map[InvitationStatus][]InvitationStatus{
	InvitationPending:   {InvitationAccepted, InvitationRejected, InvitationWithdrawn},
	InvitationAccepted:  {},
	InvitationRejected:  {},
	InvitationWithdrawn: {},
}

// CanTransitionTo reports whether the transition is listed in the table.
func (s InvitationStatus) CanTransitionTo(next InvitationStatus) bool {
	for _, allowed := range invitationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Invitation defines a partner-pairing offer between two students
type Invitation struct {
	ID          int64            `json:"id" db:"id" example:"11"`
	SenderID    int64            `json:"senderId" db:"sender_id" example:"1"`
	RecipientID int64            `json:"recipientId" db:"recipient_id" example:"2"`
	Status      InvitationStatus `json:"status" db:"status" example:"PENDING"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Sender    *Student `json:"sender,omitempty"`
	Recipient *Student `json:"recipient,omitempty"`
}
