package employee

import (
	"context"
)

// EmployeeService is the identity store used by the visitor workflow and the auth service
type EmployeeService interface {
	// Register creates a new employee with a hashed password
	Register(ctx context.Context, req RegisterRequest) (EmployeeResponse, error)

	// Authenticate checks a username/password pair
	Authenticate(ctx context.Context, username, password string) (Employee, error)

	// FindByName resolves a host employee by exact name; found is false when absent
	FindByName(ctx context.Context, name string) (emp Employee, found bool, err error)

	// ListNames lists registered employees for the host picker
	ListNames(ctx context.Context) ([]EmployeeNameResponse, error)
}
