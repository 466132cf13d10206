package models

import (
	"time"
)

// User defines the identity model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id" example:"1"`                                                  // Unique identifier for the user
	Email       string     `json:"email" db:"email" example:"user@school.edu"`                              // User's email address
	Password    string     `json:"-" db:"password"`                                                         // User's hashed password (excluded from JSON)
	FirstName   string     `json:"firstName" db:"first_name" example:"John"`                                // User's first name
	LastName    string     `json:"lastName" db:"last_name" example:"Doe"`                                   // User's last name
	Role        Role       `json:"role" db:"role" example:"STUDENT"`                                        // User's role (ADMIN, TEACHER or STUDENT)
	Address     string     `json:"address,omitempty" db:"address"`                                          // Postal address (free text)
	IsActive    bool       `json:"isActive" db:"is_active" example:"true"`                                  // Whether the user account is active
	CreatedAt   time.Time  `json:"createdAt" db:"created_at" example:"2024-01-01T10:00:00Z"`                // Timestamp when the user was created
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at" example:"2024-01-02T15:30:00Z"`                // Timestamp when the user was last updated
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at" example:"2024-04-20T18:00:00Z"` // Timestamp of the last login (nullable)
}

// Student defines the student profile based on the 'students' table
type Student struct {
	ID               int64  `json:"id" db:"id"`
	UserID           int64  `json:"userId" db:"user_id"`
	EnrollmentNumber string `json:"enrollmentNumber" db:"enrollment_number"`
	ClassName        string `json:"className" db:"class_name"`
	Section          string `json:"section" db:"section"`
	User             *User  `json:"user,omitempty"` // Relation, no db tag
}

// Teacher defines the teacher profile based on the 'teachers' table
type Teacher struct {
	ID              int64      `json:"id" db:"id"`
	UserID          int64      `json:"userId" db:"user_id"`
	Qualification   string     `json:"qualification" db:"qualification"`
	ExperienceYears int        `json:"experienceYears" db:"experience_years"`
	User            *User      `json:"user,omitempty"`     // Relation, no db tag
	Subjects        []*Subject `json:"subjects,omitempty"` // Relation, no db tag
}

// RefreshToken defines an opaque refresh token based on the 'refresh_tokens' table
type RefreshToken struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
