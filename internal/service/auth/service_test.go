package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/vms-backend-go/internal/config"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-for-jwt"

type stubEmployeeService struct {
	employee.EmployeeService
	emp employee.Employee
	err error
}

func (s *stubEmployeeService) Authenticate(_ context.Context, username, password string) (employee.Employee, error) {
	if s.err != nil {
		return employee.Employee{}, s.err
	}
	if username != s.emp.Username || password != "secret1" {
		return employee.Employee{}, auth.ErrInvalidCredentials
	}
	return s.emp, nil
}

func newTestAuthService(t *testing.T, admin config.AdminConfig) (auth.AuthService, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, "1h")
	require.NoError(t, err)
	emps := &stubEmployeeService{emp: employee.Employee{ID: "emp-1", Name: "Bob Lee", Email: "bob@x.com", Username: "bob"}}
	return NewAuthService(emps, jwtService, admin), jwtService
}

func adminConfig(t *testing.T) config.AdminConfig {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	return config.AdminConfig{Email: "admin@x.com", PasswordHash: string(hash)}
}

func TestAuthService_EmployeeLogin_Success(t *testing.T) {
	svc, jwtService := newTestAuthService(t, config.AdminConfig{})

	resp, err := svc.EmployeeLogin(context.Background(), auth.LoginRequest{Username: "bob", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Greater(t, resp.ExpiresAt, int64(0))
	assert.Equal(t, auth.PrincipalResponse{Name: "Bob Lee", Email: "bob@x.com", Role: auth.RoleEmployee}, resp.Principal)

	principal, err := jwtService.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "Bob Lee", principal.Name)
}

func TestAuthService_EmployeeLogin_Failures(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AdminConfig{})

	_, err := svc.EmployeeLogin(context.Background(), auth.LoginRequest{Username: "bob", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.EmployeeLogin(context.Background(), auth.LoginRequest{})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestAuthService_AdminLogin(t *testing.T) {
	svc, jwtService := newTestAuthService(t, adminConfig(t))

	resp, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Email: " Admin@X.com ", Password: "admin-pass"})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, resp.Principal.Role)

	principal, err := jwtService.ParseToken(resp.Token)
	require.NoError(t, err)
	assert.True(t, principal.IsAdmin())

	_, err = svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Email: "admin@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Email: "other@x.com", Password: "admin-pass"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_AdminLogin_Disabled(t *testing.T) {
	svc, _ := newTestAuthService(t, config.AdminConfig{})

	_, err := svc.AdminLogin(context.Background(), auth.AdminLoginRequest{Email: "admin@x.com", Password: "admin-pass"})
	assert.ErrorIs(t, err, auth.ErrAdminLoginDisabled)
}
