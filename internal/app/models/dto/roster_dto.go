package dto

import "github.com/kerems/akademix/internal/app/models"

// CreateStudentRequest represents an admin roster creation for a student
type CreateStudentRequest struct {
	FirstName        string `json:"firstName" binding:"required,max=100"`
	LastName         string `json:"lastName" binding:"required,max=100"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=8,max=72"`
	Address          string `json:"address" binding:"max=500"`
	EnrollmentNumber string `json:"enrollmentNumber" binding:"required,max=50"`
	ClassName        string `json:"className" binding:"required,max=50"`
	Section          string `json:"section" binding:"max=10"`
}

// UpdateStudentRequest represents a partial student profile update
type UpdateStudentRequest struct {
	FirstName *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName  *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Address   *string `json:"address,omitempty" binding:"omitempty,max=500"`
	ClassName *string `json:"className,omitempty" binding:"omitempty,max=50"`
	Section   *string `json:"section,omitempty" binding:"omitempty,max=10"`
}

// CreateTeacherRequest represents an admin roster creation for a teacher.
// A teacher must be created with at least one subject assignment.
type CreateTeacherRequest struct {
	FirstName       string   `json:"firstName" binding:"required,max=100"`
	LastName        string   `json:"lastName" binding:"required,max=100"`
	Email           string   `json:"email" binding:"required,email"`
	Password        string   `json:"password" binding:"required,min=8,max=72"`
	Address         string   `json:"address" binding:"max=500"`
	Qualification   string   `json:"qualification" binding:"max=200"`
	ExperienceYears int      `json:"experienceYears" binding:"gte=0"`
	Subjects        []string `json:"subjects" binding:"required,min=1,dive,required,max=200"`
}

// UpdateTeacherRequest represents a partial teacher profile update
type UpdateTeacherRequest struct {
	FirstName       *string `json:"firstName,omitempty" binding:"omitempty,max=100"`
	LastName        *string `json:"lastName,omitempty" binding:"omitempty,max=100"`
	Address         *string `json:"address,omitempty" binding:"omitempty,max=500"`
	Qualification   *string `json:"qualification,omitempty" binding:"omitempty,max=200"`
	ExperienceYears *int    `json:"experienceYears,omitempty" binding:"omitempty,gte=0"`
}

// StudentResponse is a student profile joined with its identity
type StudentResponse struct {
	ID               int64         `json:"id"`
	EnrollmentNumber string        `json:"enrollmentNumber"`
	ClassName        string        `json:"className"`
	Section          string        `json:"section,omitempty"`
	User             *UserResponse `json:"user"`
}

// NewStudentResponse maps a student model to its response view
func NewStudentResponse(s *models.Student) *StudentResponse {
	if s == nil {
		return nil
	}
	return &StudentResponse{
		ID:               s.ID,
		EnrollmentNumber: s.EnrollmentNumber,
		ClassName:        s.ClassName,
		Section:          s.Section,
		User:             NewUserResponse(s.User),
	}
}

// TeacherResponse is a teacher profile joined with its identity and subjects
type TeacherResponse struct {
	ID              int64             `json:"id"`
	Qualification   string            `json:"qualification,omitempty"`
	ExperienceYears int               `json:"experienceYears"`
	User            *UserResponse     `json:"user"`
	Subjects        []*models.Subject `json:"subjects,omitempty"`
}

// NewTeacherResponse maps a teacher model to its response view
func NewTeacherResponse(t *models.Teacher) *TeacherResponse {
	if t == nil {
		return nil
	}
	return &TeacherResponse{
		ID:              t.ID,
		Qualification:   t.Qualification,
		ExperienceYears: t.ExperienceYears,
		User:            NewUserResponse(t.User),
		Subjects:        t.Subjects,
	}
}
