package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/db"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	pkgauth "github.com/kerems/akademix/internal/pkg/auth"
)

// Caller is the identity resolved from the request's bearer credential
type Caller struct {
	UserID int64
	Role   models.Role
}

// txRunner runs a function inside a store transaction
type txRunner interface {
	WithinTransaction(ctx context.Context, fn db.TransactionFn) error
}

// authUserStore is the slice of UserRepository that AuthService needs
type authUserStore interface {
	CreateUser(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

type authStudentStore interface {
	CreateStudent(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error)
	GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

type authTeacherStore interface {
	CreateTeacher(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) (int64, error)
	GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
}

type authSubjectStore interface {
	CreateSubjectTx(ctx context.Context, tx pgx.Tx, subject *models.Subject) (int64, error)
	ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error)
}

type refreshTokenStore interface {
	StoreRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Profile(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
}

// authServiceImpl implements the AuthService interface
type authServiceImpl struct {
	tx       txRunner
	users    authUserStore
	students authStudentStore
	teachers authTeacherStore
	subjects authSubjectStore
	tokens   refreshTokenStore
	jwt      *pkgauth.JWTService
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	tx txRunner,
	users authUserStore,
	students authStudentStore,
	teachers authTeacherStore,
	subjects authSubjectStore,
	tokens refreshTokenStore,
	jwt *pkgauth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		tx:       tx,
		users:    users,
		students: students,
		teachers: teachers,
		subjects: subjects,
		tokens:   tokens,
		jwt:      jwt,
		logger:   logger,
	}
}

// ValidateSignup checks role-dependent signup requirements before any store
// write. Exported for reuse by the roster services.
func ValidateSignup(req *dto.SignupRequest) error {
	role := models.Role(req.Role)
	if !role.Valid() {
		return apperrors.ErrInvalidRole
	}

	switch role {
	case models.RoleStudent:
		if strings.TrimSpace(req.EnrollmentNumber) == "" {
			return apperrors.NewValidationError("enrollmentNumber is required for student accounts").WithField("enrollmentNumber")
		}
		if strings.TrimSpace(req.ClassName) == "" {
			return apperrors.NewValidationError("className is required for student accounts").WithField("className")
		}
	case models.RoleTeacher:
		if len(req.Subjects) == 0 {
			return apperrors.ErrTeacherNeedsSubject
		}
		for _, title := range req.Subjects {
			if strings.TrimSpace(title) == "" {
				return apperrors.NewValidationError("subject titles cannot be empty").WithField("subjects")
			}
		}
		if req.ExperienceYears != nil && *req.ExperienceYears < 0 {
			return apperrors.ErrNegativeExperience
		}
	}

	return nil
}

// Signup creates an identity and its role profile in one transaction
func (s *authServiceImpl) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, error) {
	if err := ValidateSignup(req); err != nil {
		return nil, err
	}

	hashed, err := pkgauth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      models.Role(req.Role),
		Address:   req.Address,
		IsActive:  true,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		userID, err := s.users.CreateUser(ctx, tx, user)
		if err != nil {
			return err
		}
		user.ID = userID

		switch user.Role {
		case models.RoleStudent:
			_, err = s.students.CreateStudent(ctx, tx, &models.Student{
				UserID:           userID,
				EnrollmentNumber: req.EnrollmentNumber,
				ClassName:        req.ClassName,
				Section:          req.Section,
			})
			if err != nil {
				return err
			}
		case models.RoleTeacher:
			experience := 0
			if req.ExperienceYears != nil {
				experience = *req.ExperienceYears
			}
			teacherID, err := s.teachers.CreateTeacher(ctx, tx, &models.Teacher{
				UserID:          userID,
				Qualification:   req.Qualification,
				ExperienceYears: experience,
			})
			if err != nil {
				return err
			}
			for _, title := range req.Subjects {
				_, err := s.subjects.CreateSubjectTx(ctx, tx, &models.Subject{
					Title:     strings.TrimSpace(title),
					TeacherID: teacherID,
				})
				if err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")

	return s.issueTokens(ctx, user)
}

// Login verifies the credential and issues a token pair
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same answer for unknown email and wrong password
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !pkgauth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}

	return s.issueTokens(ctx, user)
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// token is revoked so each refresh token works exactly once.
func (s *authServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokens.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.Revoked {
		return nil, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.users.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}
	return &resp.TokenResponse, nil
}

// Profile returns the caller's identity plus role profile
func (s *authServiceImpl) Profile(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{User: dto.NewUserResponse(user)}

	switch user.Role {
	case models.RoleStudent:
		student, err := s.students.GetStudentByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		resp.Student = student
	case models.RoleTeacher:
		teacher, err := s.teachers.GetTeacherByUserID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrTeacherNotFound) {
			return nil, err
		}
		if teacher != nil {
			subjects, err := s.subjects.ListSubjects(ctx, teacher.ID)
			if err != nil {
				return nil, err
			}
			teacher.Subjects = subjects
		}
		resp.Teacher = teacher
	}

	return resp, nil
}

func (s *authServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	if err := s.tokens.StoreRefreshToken(ctx, user.ID, refreshToken, s.jwt.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		TokenResponse: dto.TokenResponse{
			Token:            accessToken,
			RefreshToken:     refreshToken,
			ExpiresIn:        expiresIn,
			RefreshExpiresIn: refreshExpiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
