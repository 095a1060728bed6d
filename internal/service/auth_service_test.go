package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vsu-ncs/conduct-api/internal/models"
	appErrors "github.com/vsu-ncs/conduct-api/pkg/errors"
)

type mockAuthRepo struct {
	user             *models.User
	findErr          error
	auditLogs        []*models.AuditLog
	lastLoginUpdated bool
	updatedHash      string
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLoginUpdated = true
	return nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	m.updatedHash = passwordHash
	return nil
}

func (m *mockAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func authConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret: "test-secret",
		AccessTokenExpiry: time.Hour,
		Issuer:            "vsu-ncs-conduct-api",
	}
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:           "user-1",
		Email:        "faculty@vsu.edu.ph",
		PasswordHash: string(hash),
		FullName:     "Jose Rizal",
		Role:         models.RoleFaculty,
		Active:       true,
	}
}

func TestLoginIssuesValidToken(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, authConfig())

	res, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "faculty@vsu.edu.ph",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, models.RoleFaculty, res.User.Role)
	assert.True(t, repo.lastLoginUpdated)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionLogin, repo.auditLogs[0].Action)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleFaculty, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "faculty@vsu.edu.ph",
		Password: "wrong",
	})
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &mockAuthRepo{findErr: sql.ErrNoRows}
	svc := NewAuthService(repo, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@vsu.edu.ph",
		Password: "secret123",
	})
	// Unknown email and wrong password are indistinguishable to the caller.
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrorCode(t, err))
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "secret123")
	user.Active = false
	svc := NewAuthService(&mockAuthRepo{user: user}, nil, nil, authConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "faculty@vsu.edu.ph",
		Password: "secret123",
	})
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrorCode(t, err))
}

func TestChangePassword(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, authConfig())

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "evenmoresecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, repo.updatedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updatedHash), []byte("evenmoresecret")))
}

func TestChangePasswordOldMismatch(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "secret123")}
	svc := NewAuthService(repo, nil, nil, authConfig())

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "evenmoresecret",
	})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrorCode(t, err))
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil, nil, authConfig())

	_, err := svc.ValidateToken("not.a.token")
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	repo := &mockAuthRepo{user: activeUser(t, "secret123")}
	issuer := NewAuthService(repo, nil, nil, authConfig())

	res, err := issuer.Login(context.Background(), models.LoginRequest{
		Email:    "faculty@vsu.edu.ph",
		Password: "secret123",
	})
	require.NoError(t, err)

	other := authConfig()
	other.AccessTokenSecret = "different-secret"
	verifier := NewAuthService(repo, nil, nil, other)

	_, err = verifier.ValidateToken(res.AccessToken)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrorCode(t, err))
}
