package models

import "time"

// TeamStatus defines the lifecycle state of a team
type TeamStatus string

const (
	TeamActive    TeamStatus = "ACTIVE"
	TeamDisbanded TeamStatus = "DISBANDED"
)

// Team defines the team model based on the 'teams' table.
// Solo teams are allowed: student2_id stays null. A student belongs to at
// most one active team at a time.
type Team struct {
	ID           int64      `json:"id" db:"id" example:"7"`
	Student1ID   int64      `json:"student1Id" db:"student1_id" example:"1"`
	Student2ID   *int64     `json:"student2Id,omitempty" db:"student2_id" example:"2"`
	MentorID     *int64     `json:"mentorId,omitempty" db:"mentor_id" example:"3"`
	Status       TeamStatus `json:"status" db:"status" example:"ACTIVE"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastActivity time.Time  `json:"lastActivity" db:"last_activity"`

	// Relations (populated when needed)
	Student1 *Student `json:"student1,omitempty"`
	Student2 *Student `json:"student2,omitempty"`
	Mentor   *Mentor  `json:"mentor,omitempty"`
}

// HasMember reports whether the student belongs to the team.
func (t *Team) HasMember(studentID int64) bool {
	if t.Student1ID == studentID {
		return true
	}
	return t.Student2ID != nil && *t.Student2ID == studentID
}

// Phase derives the team's project phase from its members' semester.
// Both members always sit in the same pairing pool, so student1 decides.
func (t *Team) Phase() (ProjectPhase, error) {
	if t.Student1 == nil {
		return "", ErrNoPhaseForSemester
	}
	return PhaseForSemester(t.Student1.Semester)
}
