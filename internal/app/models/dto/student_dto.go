package dto

import "github.com/oguzhan/projecthub/internal/app/models"

// StudentResponse represents student information with account details
type StudentResponse struct {
	ID             int64  `json:"id" example:"1"`
	RegistrationNo string `json:"registrationNo" example:"20CS042"`
	FullName       string `json:"fullName" example:"Jane Doe"`
	Email          string `json:"email" example:"jane@univ.edu"`
	Department     string `json:"department" example:"CSE"`
	Semester       int    `json:"semester" example:"5"`
	Phase          string `json:"phase,omitempty" example:"PT1"`
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// CreateStudentRequest represents an admin adding a student record
type CreateStudentRequest struct {
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"fullName" binding:"required"`
	RegistrationNo string `json:"registrationNo" binding:"required"`
	Department     string `json:"department" binding:"required"`
	Semester       int    `json:"semester" binding:"required,min=1,max=8"`
}

// UpdateStudentRequest represents an admin editing a student record
type UpdateStudentRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Department string `json:"department" binding:"required"`
	Semester   int    `json:"semester" binding:"required,min=1,max=8"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(student *models.Student) StudentResponse {
	if student == nil {
		return StudentResponse{}
	}

	resp := StudentResponse{
		ID:             student.ID,
		RegistrationNo: student.RegistrationNo,
		Department:     student.Department,
		Semester:       student.Semester,
	}
	if student.User != nil {
		resp.FullName = student.User.FullName
		resp.Email = student.User.Email
	}
	if phase, err := student.Phase(); err == nil {
		resp.Phase = string(phase)
	}

	return resp
}

// FromStudents converts a slice of models.Student
func FromStudents(students []*models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		responses = append(responses, FromStudent(s))
	}
	return responses
}
