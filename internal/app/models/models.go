package models

import "errors"

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleMentor  RoleType = "MENTOR"
	RoleAdmin   RoleType = "ADMIN"
)

// ProjectPhase represents the project track tied to a student's semester
type ProjectPhase string

const (
	PhasePT1       ProjectPhase = "PT1"
	PhasePT2       ProjectPhase = "PT2"
	PhaseFinalYear ProjectPhase = "FINAL_YEAR"
)

// ErrNoPhaseForSemester is returned when a semester maps to no project phase.
var ErrNoPhaseForSemester = errors.New("semester does not map to a project phase")

// PhaseForSemester maps a semester to its project phase.
// Semester 5 runs PT-1, semester 6 runs PT-2, semesters 7 and 8 run the
// final year project. All other semesters carry no project work.
func PhaseForSemester(semester int) (ProjectPhase, error) {
	switch semester {
	case 5:
		return PhasePT1, nil
	case 6:
		return PhasePT2, nil
	case 7, 8:
		return PhaseFinalYear, nil
	default:
		return "", ErrNoPhaseForSemester
	}
}

// SamePhasePool reports whether two semesters belong to the same pairing pool.
// The final year pool spans semesters 7 and 8.
func SamePhasePool(semesterA, semesterB int) bool {
	phaseA, errA := PhaseForSemester(semesterA)
	phaseB, errB := PhaseForSemester(semesterB)
	if errA != nil || errB != nil {
		return false
	}
	return phaseA == phaseB
}
