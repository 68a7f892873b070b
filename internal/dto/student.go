package dto

import (
	"time"

	"github.com/komiteku/komite-backend/internal/core/domain"
)

// DefaultTargetAmount is applied when a create request omits the target.
// Matches the roster's standing komite dues.
const DefaultTargetAmount int64 = 400000

// CreateStudentRequest defines the data needed to add a student to the roster.
type CreateStudentRequest struct {
	NIS          string `json:"nis" binding:"required"`
	Name         string `json:"name" binding:"required"`
	ClassName    string `json:"className" binding:"required"`
	Gender       string `json:"gender"`
	TargetAmount *int64 `json:"targetAmount" binding:"omitempty,min=0"`
}

// UpdateStudentRequest defines the roster fields an admin may change.
// Changing TargetAmount is the administrative target mutation; the ledger
// itself never alters it.
type UpdateStudentRequest struct {
	Name         *string `json:"name"`
	ClassName    *string `json:"className"`
	Gender       *string `json:"gender"`
	TargetAmount *int64  `json:"targetAmount" binding:"omitempty,min=0"`
}

// StudentResponse defines the data returned for a student.
type StudentResponse struct {
	StudentID    string    `json:"studentID"`
	NIS          string    `json:"nis"`
	Name         string    `json:"name"`
	ClassName    string    `json:"className"`
	Gender       string    `json:"gender,omitempty"`
	TargetAmount int64     `json:"targetAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ImportStudentsResponse reports the outcome of a CSV roster import.
type ImportStudentsResponse struct {
	Imported int `json:"imported"`
}

// ToStudentResponse converts a domain.Student to StudentResponse.
func ToStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		NIS:          s.NIS,
		Name:         s.Name,
		ClassName:    s.ClassName,
		Gender:       s.Gender,
		TargetAmount: s.TargetAmount,
		CreatedAt:    s.CreatedAt,
	}
}

// ToStudentResponses converts a slice of domain.Student.
func ToStudentResponses(students []domain.Student) []StudentResponse {
	res := make([]StudentResponse, len(students))
	for i, s := range students {
		res[i] = ToStudentResponse(&s)
	}
	return res
}
