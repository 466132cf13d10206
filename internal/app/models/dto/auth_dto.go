package dto

import "github.com/kerems/akademix/internal/app/models"

// SignupRequest represents a registration request. Role decides which profile
// block is required: students need enrollment fields, teachers need at least
// one subject assignment.
type SignupRequest struct {
	FirstName string `json:"firstName" binding:"required,max=100"`
	LastName  string `json:"lastName" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	Role      string `json:"role" binding:"required,oneof=ADMIN TEACHER STUDENT"`
	Address   string `json:"address" binding:"max=500"`

	// Student profile fields
	EnrollmentNumber string `json:"enrollmentNumber,omitempty" binding:"omitempty,max=50"`
	ClassName        string `json:"className,omitempty" binding:"omitempty,max=50"`
	Section          string `json:"section,omitempty" binding:"omitempty,max=10"`

	// Teacher profile fields
	Qualification   string   `json:"qualification,omitempty" binding:"omitempty,max=200"`
	ExperienceYears *int     `json:"experienceYears,omitempty" binding:"omitempty,gte=0"`
	Subjects        []string `json:"subjects,omitempty" binding:"omitempty,dive,max=200"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a token refresh request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries the issued token pair
type TokenResponse struct {
	Token            string `json:"token"`
	RefreshToken     string `json:"refreshToken"`
	ExpiresIn        int    `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int    `json:"refreshExpiresIn" example:"2592000"`
}

// AuthResponse is the body returned by signup and login
type AuthResponse struct {
	TokenResponse
	User *UserResponse `json:"user"`
}

// UserResponse is the public view of an identity record
type UserResponse struct {
	ID        int64       `json:"id" example:"1"`
	FirstName string      `json:"firstName" example:"John"`
	LastName  string      `json:"lastName" example:"Doe"`
	Email     string      `json:"email" example:"user@school.edu"`
	Role      models.Role `json:"role" example:"STUDENT"`
	Address   string      `json:"address,omitempty"`
	IsActive  bool        `json:"isActive" example:"true"`
}

// NewUserResponse maps a user model to its public view
func NewUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		Address:   user.Address,
		IsActive:  user.IsActive,
	}
}

// ProfileResponse is the caller's own identity plus role-specific profile
type ProfileResponse struct {
	User    *UserResponse   `json:"user"`
	Student *models.Student `json:"student,omitempty"`
	Teacher *models.Teacher `json:"teacher,omitempty"`
}
