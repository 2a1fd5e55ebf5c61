package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// SubmitProjectRequest represents a team submitting a project idea
type SubmitProjectRequest struct {
	Title       string `json:"title" binding:"required" example:"Smart Attendance"`
	Description string `json:"description" binding:"required"`
	Domain      string `json:"domain" binding:"required" example:"IoT"`
	AbstractURL string `json:"abstractUrl,omitempty" example:"https://drive.google.com/file/d/abc123"`
}

// ProjectActionRequest represents a mentor approving or rejecting an idea
type ProjectActionRequest struct {
	Action string `json:"action" binding:"required" example:"APPROVE" enums:"APPROVE,REJECT"`
}

// SubmitDocumentRequest represents a document link submission
type SubmitDocumentRequest struct {
	DocumentType string `json:"documentType" binding:"required" example:"REPORT" enums:"ABSTRACT,PPT,REPORT,DEMO"`
	URL          string `json:"url" binding:"required" example:"https://drive.google.com/file/d/abc123"`
}

// DocumentActionRequest represents a mentor acting on a submitted document
type DocumentActionRequest struct {
	DocumentType string `json:"documentType" binding:"required" example:"REPORT" enums:"ABSTRACT,PPT,REPORT,DEMO"`
	Action       string `json:"action" binding:"required" example:"APPROVE" enums:"APPROVE,REJECT"`
}

// ClearDocumentsRequest represents an admin clearing deliverable slots
type ClearDocumentsRequest struct {
	DocumentTypes []string `json:"documentTypes" binding:"required,min=1" example:"PPT,REPORT"`
}

// ProjectResponse represents a project with its deliverable links
type ProjectResponse struct {
	ID             int64         `json:"id" example:"15"`
	TeamID         int64         `json:"teamId" example:"7"`
	Phase          string        `json:"phase" example:"PT1"`
	Title          string        `json:"title" example:"Smart Attendance"`
	Description    string        `json:"description"`
	Domain         string        `json:"domain" example:"IoT"`
	AbstractURL    *string       `json:"abstractUrl,omitempty"`
	PPTURL         *string       `json:"pptUrl,omitempty"`
	ReportPDFURL   *string       `json:"reportPdfUrl,omitempty"`
	DemoVideoURL   *string       `json:"demoVideoUrl,omitempty"`
	ApprovedStatus string        `json:"approvedStatus" example:"PENDING"`
	Team           *TeamResponse `json:"team,omitempty"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
}

// ProjectListResponse represents a list of projects
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// FromProject converts a models.Project to a ProjectResponse
func FromProject(project *models.Project) ProjectResponse {
	if project == nil {
		return ProjectResponse{}
	}

	resp := ProjectResponse{
		ID:             project.ID,
		TeamID:         project.TeamID,
		Phase:          string(project.Phase),
		Title:          project.Title,
		Description:    project.Description,
		Domain:         project.Domain,
		AbstractURL:    project.AbstractURL,
		PPTURL:         project.PPTURL,
		ReportPDFURL:   project.ReportPDFURL,
		DemoVideoURL:   project.DemoVideoURL,
		ApprovedStatus: string(project.ApprovedStatus),
		CreatedAt:      project.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      project.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if project.Team != nil {
		team := FromTeam(project.Team)
		resp.Team = &team
	}

	return resp
}

// FromProjects converts a slice of models.Project
func FromProjects(projects []*models.Project) []ProjectResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, FromProject(p))
	}
	return responses
}
