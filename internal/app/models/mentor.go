package models

// Mentor defines the mentor model based on the 'mentors' table.
// Per-phase load is derived from active team assignments, never stored.
type Mentor struct {
	ID             int64  `json:"id" db:"id" example:"3"`
	UserID         int64  `json:"userId" db:"user_id" example:"9"`
	Degree         string `json:"degree" db:"degree" example:"PhD"`
	Specialization string `json:"specialization" db:"specialization" example:"Machine Learning"`
	MaxPT1         int    `json:"maxPt1" db:"max_pt1" example:"4"`         // Capacity ceiling for PT-1 teams
	MaxPT2         int    `json:"maxPt2" db:"max_pt2" example:"4"`         // Capacity ceiling for PT-2 teams
	MaxFinalYear   int    `json:"maxFinalYear" db:"max_final_year" example:"2"` // Capacity ceiling for final year teams

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}

// MentorLoad carries the derived per-phase load of a mentor.
type MentorLoad struct {
	PT1       int `json:"pt1"`
	PT2       int `json:"pt2"`
	FinalYear int `json:"finalYear"`
}

// CapacityFor returns the mentor's capacity ceiling for a phase.
func (m *Mentor) CapacityFor(phase ProjectPhase) int {
	switch phase {
	case PhasePT1:
		return m.MaxPT1
	case PhasePT2:
		return m.MaxPT2
	case PhaseFinalYear:
		return m.MaxFinalYear
	}
	return 0
}

// LoadFor returns the derived load for a phase.
func (l MentorLoad) LoadFor(phase ProjectPhase) int {
	switch phase {
	case PhasePT1:
		return l.PT1
	case PhasePT2:
		return l.PT2
	case PhaseFinalYear:
		return l.FinalYear
	}
	return 0
}
