package models

import "time"

// ApprovalStatus defines the state of a project idea
type ApprovalStatus string

const (
	ProjectPending  ApprovalStatus = "PENDING"
	ProjectApproved ApprovalStatus = "APPROVED"
	ProjectRejected ApprovalStatus = "REJECTED"
)

var approvalTransitions = map[ApprovalStatus][]ApprovalStatus{
	ProjectPending:  {ProjectApproved, ProjectRejected},
	ProjectApproved: {},
	ProjectRejected: {},
}

// CanTransitionTo reports whether the transition is listed in the table.
func (s ApprovalStatus) CanTransitionTo(next ApprovalStatus) bool {
	for _, allowed := range approvalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DocumentType identifies one of the project deliverable slots
type DocumentType string

const (
	DocAbstract DocumentType = "ABSTRACT"
	DocPPT      DocumentType = "PPT"
	DocReport   DocumentType = "REPORT"
	DocDemo     DocumentType = "DEMO"
)

// ValidDocumentType reports whether t names a known deliverable slot.
func ValidDocumentType(t DocumentType) bool {
	switch t {
	case DocAbstract, DocPPT, DocReport, DocDemo:
		return true
	}
	return false
}

// Project defines the project model based on the 'projects' table.
// One active (non-rejected) project exists per team and phase; document
// URLs are filled in incrementally by student submissions.
type Project struct {
	ID             int64          `json:"id" db:"id" example:"15"`
	TeamID         int64          `json:"teamId" db:"team_id" example:"7"`
	Phase          ProjectPhase   `json:"phase" db:"phase" example:"PT1"`
	Title          string         `json:"title" db:"title" example:"Smart Attendance"`
	Description    string         `json:"description" db:"description"`
	Domain         string         `json:"domain" db:"domain" example:"IoT"`
	AbstractURL    *string        `json:"abstractUrl,omitempty" db:"abstract_url"`
	PPTURL         *string        `json:"pptUrl,omitempty" db:"ppt_url"`
	ReportPDFURL   *string        `json:"reportPdfUrl,omitempty" db:"report_pdf_url"`
	DemoVideoURL   *string        `json:"demoVideoUrl,omitempty" db:"demo_video_url"`
	ApprovedStatus ApprovalStatus `json:"approvedStatus" db:"approved_status" example:"PENDING"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Team *Team `json:"team,omitempty"`
}

// DocumentURL returns a pointer to the URL field backing the document slot.
func (p *Project) DocumentURL(doc DocumentType) **string {
	switch doc {
	case DocAbstract:
		return &p.AbstractURL
	case DocPPT:
		return &p.PPTURL
	case DocReport:
		return &p.ReportPDFURL
	case DocDemo:
		return &p.DemoVideoURL
	}
	return nil
}
