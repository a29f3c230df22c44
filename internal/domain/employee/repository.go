package employee

import "context"

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByUsername(ctx context.Context, username string) (Employee, error)
	// GetByName returns the earliest registered employee with the exact name
	GetByName(ctx context.Context, name string) (Employee, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (emailTaken bool, usernameTaken bool, err error)
	ListNames(ctx context.Context) ([]Employee, error)
}
