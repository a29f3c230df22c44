package jwt

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

type Service interface {
	GenerateEmployeeToken(emp employee.Employee) (token string, expiresAt int64, err error)
	GenerateAdminToken(email string) (token string, expiresAt int64, err error)
	ParseToken(tokenString string) (auth.Principal, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateEmployeeToken(emp employee.Employee) (token string, expiresAt int64, err error) {
	return j.encode(map[string]interface{}{
		"sub":   emp.ID,
		"name":  emp.Name,
		"email": emp.Email,
		"role":  string(auth.RoleEmployee),
	})
}

func (j *JWTService) GenerateAdminToken(email string) (token string, expiresAt int64, err error) {
	return j.encode(map[string]interface{}{
		"sub":      auth.AdminSubject,
		"email":    email,
		"role":     string(auth.RoleAdmin),
		"is_admin": true,
	})
}

func (j *JWTService) encode(claims map[string]interface{}) (string, int64, error) {
	expiresAt := j.now().Add(j.accessTokenExpiration).Unix()
	claims["type"] = tokenTypeAccess
	claims["exp"] = expiresAt

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ParseToken verifies signature and expiry and returns the principal the token carries
func (j *JWTService) ParseToken(tokenString string) (auth.Principal, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return auth.Principal{}, auth.ErrInvalidToken
	}
	return PrincipalFromToken(token)
}

// PrincipalFromToken maps verified token claims onto a principal.
// Tokens of another type or with an unknown role are rejected.
func PrincipalFromToken(token jwt.Token) (auth.Principal, error) {
	claims := token.PrivateClaims()

	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return auth.Principal{}, auth.ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	switch auth.Role(role) {
	case auth.RoleAdmin:
		if isAdmin, _ := claims["is_admin"].(bool); !isAdmin {
			return auth.Principal{}, auth.ErrInvalidToken
		}
		return auth.Principal{ID: token.Subject(), Email: email, Role: auth.RoleAdmin}, nil
	case auth.RoleEmployee:
		if token.Subject() == "" || name == "" {
			return auth.Principal{}, auth.ErrInvalidToken
		}
		return auth.Principal{ID: token.Subject(), Name: name, Email: email, Role: auth.RoleEmployee}, nil
	default:
		return auth.Principal{}, auth.ErrInvalidToken
	}
}
