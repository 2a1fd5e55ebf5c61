package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// SendInvitationRequest represents a student inviting a partner by
// registration number.
type SendInvitationRequest struct {
	RegistrationNo string `json:"registrationNo" binding:"required" example:"20CS017"`
}

// InvitationPartyInfo represents one side of an invitation
type InvitationPartyInfo struct {
	StudentID      int64  `json:"studentId" example:"1"`
	RegistrationNo string `json:"registrationNo" example:"20CS042"`
	FullName       string `json:"fullName" example:"Jane Doe"`
}

// InvitationResponse represents a partner invitation
type InvitationResponse struct {
	ID        int64               `json:"id" example:"11"`
	Status    string              `json:"status" example:"PENDING"`
	Sender    InvitationPartyInfo `json:"sender"`
	Recipient InvitationPartyInfo `json:"recipient"`
	CreatedAt string              `json:"createdAt"`
}

// InvitationListResponse represents a student's invitations in both directions
type InvitationListResponse struct {
	Invitations []InvitationResponse `json:"invitations"`
}

// FromInvitation converts a models.Invitation to an InvitationResponse
func FromInvitation(inv *models.Invitation) InvitationResponse {
	if inv == nil {
		return InvitationResponse{}
	}

	resp := InvitationResponse{
		ID:        inv.ID,
		Status:    string(inv.Status),
		Sender:    InvitationPartyInfo{StudentID: inv.SenderID},
		Recipient: InvitationPartyInfo{StudentID: inv.RecipientID},
		CreatedAt: inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if inv.Sender != nil {
		resp.Sender.RegistrationNo = inv.Sender.RegistrationNo
		if inv.Sender.User != nil {
			resp.Sender.FullName = inv.Sender.User.FullName
		}
	}
	if inv.Recipient != nil {
		resp.Recipient.RegistrationNo = inv.Recipient.RegistrationNo
		if inv.Recipient.User != nil {
			resp.Recipient.FullName = inv.Recipient.User.FullName
		}
	}

	return resp
}

// FromInvitations converts a slice of models.Invitation
func FromInvitations(invitations []*models.Invitation) []InvitationResponse {
	responses := make([]InvitationResponse, 0, len(invitations))
	for _, inv := range invitations {
		responses = append(responses, FromInvitation(inv))
	}
	return responses
}
