package models

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64  `json:"id" db:"id" example:"1"`                               // Unique identifier for the student record
	UserID         int64  `json:"userId" db:"user_id" example:"5"`                      // ID of the associated user account
	RegistrationNo string `json:"registrationNo" db:"registration_no" example:"20CS042"` // University registration number
	Department     string `json:"department" db:"department" example:"CSE"`             // Department short code
	Semester       int    `json:"semester" db:"semester" example:"5"`                   // Current semester (1-8)

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated account information
	Team *Team `json:"team,omitempty"` // Active team, if any
}

// Phase returns the project phase the student is currently eligible for.
func (s *Student) Phase() (ProjectPhase, error) {
	return PhaseForSemester(s.Semester)
}
