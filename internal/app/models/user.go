package models

import "time"

// User defines the base account model for the 'users' table.
// Students, mentors and admins all authenticate through a user row;
// role-specific data lives in the students/mentors tables.
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"jane@univ.edu"`
	Password  string    `json:"-" db:"password_hash"` // Never serialized
	FullName  string    `json:"fullName" db:"full_name" example:"Jane Doe"`
	RoleType  RoleType  `json:"roleType" db:"role_type" example:"STUDENT"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
