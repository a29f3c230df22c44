package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	bcryptCost   int
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		bcryptCost:   bcrypt.DefaultCost,
	}
}

// Register implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Register(ctx context.Context, req employee.RegisterRequest) (employee.EmployeeResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	emailTaken, usernameTaken, err := s.employeeRepo.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check existing employee: %w", err)
	}
	if emailTaken {
		return employee.EmployeeResponse{}, employee.ErrEmailExists
	}
	if usernameTaken {
		return employee.EmployeeResponse{}, employee.ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	// The repository maps unique violations, so a concurrent registration still yields a duplicate error
	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
	})
	if err != nil {
		if errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrUsernameExists) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Employee registered", "employee_id", created.ID, "username", created.Username)
	return employee.ToResponse(created), nil
}

// Authenticate implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Authenticate(ctx context.Context, username, password string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, auth.ErrInvalidCredentials
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return employee.Employee{}, auth.ErrInvalidCredentials
	}

	return emp, nil
}

// FindByName implements employee.EmployeeService.
func (s *EmployeeServiceImpl) FindByName(ctx context.Context, name string) (employee.Employee, bool, error) {
	emp, err := s.employeeRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, false, nil
		}
		return employee.Employee{}, false, fmt.Errorf("failed to find employee by name: %w", err)
	}
	return emp, true, nil
}

// ListNames implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListNames(ctx context.Context) ([]employee.EmployeeNameResponse, error) {
	employees, err := s.employeeRepo.ListNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	names := make([]employee.EmployeeNameResponse, 0, len(employees))
	for _, e := range employees {
		names = append(names, employee.EmployeeNameResponse{ID: e.ID, Name: e.Name})
	}
	return names, nil
}
