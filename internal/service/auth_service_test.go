package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/spms-api/internal/models"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
)

type mockAuthRepo struct {
	users     map[string]*models.User
	createErr error
	auditLogs []*models.AuditLog
}

func newMockAuthRepo(users ...*models.User) *mockAuthRepo {
	repo := &mockAuthRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAuthRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAuthRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range m.users {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *mockAuthRepo) Create(ctx context.Context, user *models.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "generated"
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockAuthRepo) Update(ctx context.Context, user *models.User) error {
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

type mockTokenStore struct {
	revoked map[string]time.Duration
}

func (m *mockTokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if m == nil {
		return nil
	}
	if m.revoked == nil {
		m.revoked = map[string]time.Duration{}
	}
	m.revoked[tokenID] = ttl
	return nil
}

func (m *mockTokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if m == nil {
		return false, nil
	}
	_, ok := m.revoked[tokenID]
	return ok, nil
}

func hashed(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(repo *mockAuthRepo, tokens *mockTokenStore) *AuthService {
	return NewAuthService(repo, tokens, nil, zap.NewNop(), AuthConfig{Secret: "secret", Expiry: time.Hour, Issuer: "spms"})
}

func TestAuthRegisterStudent(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo, &mockTokenStore{})

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secret1", StudentNumber: "STU001", Semester: "2",
	}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, resp.Role)
	assert.Equal(t, "STU001", resp.StudentNumber)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionRegister, repo.auditLogs[0].Action)
}

func TestAuthRegisterStudentRequiresCode(t *testing.T) {
	svc := newAuthService(newMockAuthRepo(), nil)
	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1"}, RequestMeta{})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	require.NotEmpty(t, appErr.Details)
	assert.Equal(t, "studentId", appErr.Details[0].Field)
}

func TestAuthRegisterTeacherClearsStudentCode(t *testing.T) {
	repo := newMockAuthRepo()
	svc := newAuthService(repo, nil)
	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Name: "Tom", Email: "tom@example.com", Password: "secret1", Role: models.RoleTeacher, StudentNumber: "X1",
	}, RequestMeta{})
	require.NoError(t, err)
	assert.Empty(t, resp.StudentNumber)
	assert.Nil(t, repo.users[resp.ID].StudentNumber)
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Email: "ana@example.com"})
	svc := newAuthService(repo, nil)
	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1", StudentNumber: "S1"}, RequestMeta{})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
}

func TestAuthRegisterDuplicateStudentCode(t *testing.T) {
	repo := newMockAuthRepo()
	repo.createErr = &pq.Error{Code: "23505"}
	svc := newAuthService(repo, nil)
	_, err := svc.Register(context.Background(), models.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secret1", StudentNumber: "S1"}, RequestMeta{})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)
	assert.Equal(t, "studentId already exists", appErr.Message)
}

func TestAuthLogin(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: models.RoleTeacher, Active: true})
	svc := newAuthService(repo, nil)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", resp.ID)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "secret1"})
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthLoginInactive(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: models.RoleStudent, Active: false})
	svc := newAuthService(repo, nil)
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthAuthenticateAndLogout(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: models.RoleAdmin, Active: true})
	tokens := &mockTokenStore{}
	svc := newAuthService(repo, tokens)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	claims, err := svc.Authenticate(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)

	require.NoError(t, svc.Logout(context.Background(), claims, RequestMeta{}))
	require.Contains(t, tokens.revoked, claims.ID)
	assert.Greater(t, tokens.revoked[claims.ID], time.Duration(0))

	_, err = svc.Authenticate(context.Background(), resp.Token)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestAuthAuthenticateRejectsInactiveUser(t *testing.T) {
	repo := newMockAuthRepo(&models.User{ID: "u1", Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: models.RoleAdmin, Active: true})
	svc := newAuthService(repo, nil)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	repo.users["u1"].Active = false
	_, err = svc.Authenticate(context.Background(), resp.Token)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestAuthAuthenticateRejectsGarbage(t *testing.T) {
	svc := newAuthService(newMockAuthRepo(), nil)
	_, err := svc.Authenticate(context.Background(), "not-a-token")
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 401, appErr.Status)
}

func TestAuthUpdateProfile(t *testing.T) {
	repo := newMockAuthRepo(
		&models.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: hashed(t, "secret1"), Role: models.RoleStudent, Active: true},
		&models.User{ID: "u2", Name: "Ben", Email: "ben@example.com", Role: models.RoleStudent, Active: true},
	)
	svc := newAuthService(repo, nil)

	_, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{Email: "ben@example.com"}, RequestMeta{})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrDuplicate.Code, appErr.Code)

	resp, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{Name: "Ana B", Password: "newpass", Semester: "4"}, RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, "Ana B", resp.Name)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "4", repo.users["u1"].Semester)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users["u1"].PasswordHash), []byte("newpass")))
}

func TestAuthListUsersPagination(t *testing.T) {
	repo := newMockAuthRepo(
		&models.User{ID: "u1", Role: models.RoleStudent},
		&models.User{ID: "u2", Role: models.RoleTeacher},
	)
	svc := newAuthService(repo, nil)
	role := models.RoleStudent
	users, pagination, err := svc.ListUsers(context.Background(), models.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Equal(t, 1, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}
