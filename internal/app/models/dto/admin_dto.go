package dto

// ForcePairRequest represents an admin pairing two students directly
type ForcePairRequest struct {
	Student1ID int64 `json:"student1Id" binding:"required,min=1" example:"1"`
	Student2ID int64 `json:"student2Id" binding:"required,min=1" example:"2"`
}

// AssignMentorRequest represents an admin assigning or changing a mentor
type AssignMentorRequest struct {
	MentorID int64 `json:"mentorId" binding:"required,min=1" example:"3"`
}

// UnassignSemesterRequest represents a bulk unassignment for a semester
type UnassignSemesterRequest struct {
	Semester int `json:"semester" binding:"required,min=1,max=8" example:"6"`
}

// ShiftSemestersResponse reports how many students a shift touched
type ShiftSemestersResponse struct {
	StudentsShifted int64 `json:"studentsShifted" example:"412"`
}

// UnassignSemesterResponse reports how many teams were disbanded
type UnassignSemesterResponse struct {
	TeamsDisbanded int64 `json:"teamsDisbanded" example:"38"`
}

// CapacityUpdateResponse reports how many mentors a bulk update touched
type CapacityUpdateResponse struct {
	MentorsUpdated int64 `json:"mentorsUpdated" example:"17"`
}

// DashboardResponse represents admin overview counters
type DashboardResponse struct {
	Students    int64 `json:"students" example:"412"`
	Mentors     int64 `json:"mentors" example:"17"`
	ActiveTeams int64 `json:"activeTeams" example:"120"`
}
