package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/vms-backend-go/internal/config"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	employeeService employee.EmployeeService
	jwt.Service
	admin config.AdminConfig
}

func NewAuthService(employeeService employee.EmployeeService, jwtService jwt.Service, admin config.AdminConfig) auth.AuthService {
	return &AuthServiceImpl{
		employeeService: employeeService,
		Service:         jwtService,
		admin:           admin,
	}
}

// EmployeeLogin implements auth.AuthService.
func (a *AuthServiceImpl) EmployeeLogin(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emp, err := a.employeeService.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	token, expiresAt, err := a.GenerateEmployeeToken(emp)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Employee logged in", "employee_id", emp.ID)
	return auth.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: auth.PrincipalResponse{
			Name:  emp.Name,
			Email: emp.Email,
			Role:  auth.RoleEmployee,
		},
	}, nil
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.AdminLoginRequest) (auth.TokenResponse, error) {
	if a.admin.Email == "" || a.admin.PasswordHash == "" {
		return auth.TokenResponse{}, auth.ErrAdminLoginDisabled
	}
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	emailMatch := subtle.ConstantTimeCompare([]byte(email), []byte(strings.ToLower(a.admin.Email))) == 1
	// Always run bcrypt so a wrong email costs the same as a wrong password
	passwordErr := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(req.Password))
	if !emailMatch || passwordErr != nil {
		slog.Warn("Admin login failed", "email", email)
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := a.GenerateAdminToken(a.admin.Email)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	slog.Info("Admin logged in")
	return auth.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: auth.PrincipalResponse{
			Email: a.admin.Email,
			Role:  auth.RoleAdmin,
		},
	}, nil
}
