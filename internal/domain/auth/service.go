package auth

import "context"

type AuthService interface {
	EmployeeLogin(ctx context.Context, req LoginRequest) (TokenResponse, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest) (TokenResponse, error)
}
