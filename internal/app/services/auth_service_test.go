package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kerems/akademix/internal/app/models"
	"github.com/kerems/akademix/internal/app/models/dto"
	"github.com/kerems/akademix/internal/db"
	"github.com/kerems/akademix/internal/pkg/apperrors"
	pkgauth "github.com/kerems/akademix/internal/pkg/auth"
)

// fakeTx runs transaction functions directly without a database
type fakeTx struct{}

func (fakeTx) WithinTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeUserStore struct {
	usersByEmail map[string]*models.User
	usersByID    map[int64]*models.User
	nextID       int64
	lastLoginSet []int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		usersByEmail: map[string]*models.User{},
		usersByID:    map[int64]*models.User{},
		nextID:       1,
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, tx pgx.Tx, user *models.User) (int64, error) {
	if _, exists := f.usersByEmail[user.Email]; exists {
		return 0, apperrors.ErrEmailAlreadyRegistered
	}
	user.ID = f.nextID
	f.nextID++
	f.usersByEmail[user.Email] = user
	f.usersByID[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, ok := f.usersByEmail[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id int64) error {
	f.lastLoginSet = append(f.lastLoginSet, id)
	return nil
}

type fakeStudentStore struct {
	students map[int64]*models.Student
	nextID   int64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{students: map[int64]*models.Student{}, nextID: 1}
}

func (f *fakeStudentStore) CreateStudent(ctx context.Context, tx pgx.Tx, student *models.Student) (int64, error) {
	for _, existing := range f.students {
		if existing.EnrollmentNumber == student.EnrollmentNumber {
			return 0, apperrors.ErrEnrollmentNumberExists
		}
	}
	student.ID = f.nextID
	f.nextID++
	f.students[student.ID] = student
	return student.ID, nil
}

func (f *fakeStudentStore) GetStudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	for _, student := range f.students {
		if student.UserID == userID {
			return student, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

type fakeTeacherStore struct {
	teachers map[int64]*models.Teacher
	nextID   int64
}

func newFakeTeacherStore() *fakeTeacherStore {
	return &fakeTeacherStore{teachers: map[int64]*models.Teacher{}, nextID: 1}
}

func (f *fakeTeacherStore) CreateTeacher(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) (int64, error) {
	teacher.ID = f.nextID
	f.nextID++
	f.teachers[teacher.ID] = teacher
	return teacher.ID, nil
}

func (f *fakeTeacherStore) GetTeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	for _, teacher := range f.teachers {
		if teacher.UserID == userID {
			return teacher, nil
		}
	}
	return nil, apperrors.ErrTeacherNotFound
}

type fakeSubjectStore struct {
	subjects map[int64]*models.Subject
	nextID   int64
}

func newFakeSubjectStore() *fakeSubjectStore {
	return &fakeSubjectStore{subjects: map[int64]*models.Subject{}, nextID: 1}
}

func (f *fakeSubjectStore) CreateSubjectTx(ctx context.Context, tx pgx.Tx, subject *models.Subject) (int64, error) {
	subject.ID = f.nextID
	f.nextID++
	f.subjects[subject.ID] = subject
	return subject.ID, nil
}

func (f *fakeSubjectStore) ListSubjects(ctx context.Context, teacherID int64) ([]*models.Subject, error) {
	var out []*models.Subject
	for _, subject := range f.subjects {
		if teacherID == 0 || subject.TeacherID == teacherID {
			out = append(out, subject)
		}
	}
	return out, nil
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeTokenStore) StoreRefreshToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenStore) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	stored, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return stored, nil
}

func (f *fakeTokenStore) RevokeRefreshToken(ctx context.Context, token string) error {
	stored, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.Revoked = true
	return nil
}

type authFixture struct {
	service  AuthService
	users    *fakeUserStore
	students *fakeStudentStore
	teachers *fakeTeacherStore
	subjects *fakeSubjectStore
	tokens   *fakeTokenStore
}

func newAuthFixture() *authFixture {
	users := newFakeUserStore()
	students := newFakeStudentStore()
	teachers := newFakeTeacherStore()
	subjects := newFakeSubjectStore()
	tokens := newFakeTokenStore()

	jwt := pkgauth.NewJWTService(pkgauth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "akademix.test",
	})

	return &authFixture{
		service:  NewAuthService(fakeTx{}, users, students, teachers, subjects, tokens, jwt, zerolog.Nop()),
		users:    users,
		students: students,
		teachers: teachers,
		subjects: subjects,
		tokens:   tokens,
	}
}

func studentSignupRequest() *dto.SignupRequest {
	return &dto.SignupRequest{
		FirstName:        "Ada",
		LastName:         "Student",
		Email:            "ada@school.edu",
		Password:         "longenough",
		Role:             string(models.RoleStudent),
		EnrollmentNumber: "EN-100",
		ClassName:        "10",
		Section:          "A",
	}
}

func TestSignupStudent(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, models.RoleStudent, resp.User.Role)
	require.Len(t, f.students.students, 1)
	assert.Equal(t, "EN-100", f.students.students[1].EnrollmentNumber)

	// Password is stored hashed, never verbatim
	stored := f.users.usersByEmail["ada@school.edu"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "longenough", stored.Password)
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	dup := studentSignupRequest()
	dup.EnrollmentNumber = "EN-101"
	_, err = f.service.Signup(context.Background(), dup)
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyRegistered)
}

func TestSignupTeacherCreatesSubjects(t *testing.T) {
	f := newAuthFixture()

	resp, err := f.service.Signup(context.Background(), &dto.SignupRequest{
		FirstName: "Tom",
		LastName:  "Teacher",
		Email:     "tom@school.edu",
		Password:  "longenough",
		Role:      string(models.RoleTeacher),
		Subjects:  []string{"Mathematics", "Physics"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleTeacher, resp.User.Role)

	require.Len(t, f.teachers.teachers, 1)
	subjects, err := f.subjects.ListSubjects(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestSignupTeacherWithoutSubjects(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Signup(context.Background(), &dto.SignupRequest{
		FirstName: "Tom",
		LastName:  "Teacher",
		Email:     "tom@school.edu",
		Password:  "longenough",
		Role:      string(models.RoleTeacher),
	})
	assert.ErrorIs(t, err, apperrors.ErrTeacherNeedsSubject)
}

func TestSignupStudentMissingEnrollment(t *testing.T) {
	f := newAuthFixture()

	req := studentSignupRequest()
	req.EnrollmentNumber = "  "
	_, err := f.service.Signup(context.Background(), req)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture()
	_, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	resp, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@school.edu",
		Password: "longenough",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, f.users.lastLoginSet)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture()
	_, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@school.edu",
		Password: "not-the-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

// Unknown email must answer exactly like a wrong password so the endpoint
// cannot be used to probe for registered addresses.
func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	_, err := f.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@school.edu",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginDisabledAccount(t *testing.T) {
	f := newAuthFixture()
	_, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)
	f.users.usersByEmail["ada@school.edu"].IsActive = false

	_, err = f.service.Login(context.Background(), &dto.LoginRequest{
		Email:    "ada@school.edu",
		Password: "longenough",
	})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newAuthFixture()
	signup, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	refreshed, err := f.service.Refresh(context.Background(), signup.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, signup.RefreshToken, refreshed.RefreshToken)

	// The consumed token no longer works
	_, err = f.service.Refresh(context.Background(), signup.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshExpiredToken(t *testing.T) {
	f := newAuthFixture()
	signup, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	f.tokens.tokens[signup.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = f.service.Refresh(context.Background(), signup.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestProfileStudent(t *testing.T) {
	f := newAuthFixture()
	signup, err := f.service.Signup(context.Background(), studentSignupRequest())
	require.NoError(t, err)

	profile, err := f.service.Profile(context.Background(), signup.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Student)
	assert.Equal(t, "EN-100", profile.Student.EnrollmentNumber)
	assert.Nil(t, profile.Teacher)
}
