package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	employeeEmailConstraint    = "employees_email_key"
	employeeUsernameConstraint = "employees_username_key"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("generate employee id: %w", err)
	}
	newEmployee.ID = id.String()

	query := `
		INSERT INTO employees (id, name, email, username, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	err = q.QueryRow(ctx, query,
		newEmployee.ID,
		newEmployee.Name,
		newEmployee.Email,
		newEmployee.Username,
		newEmployee.PasswordHash,
	).Scan(&newEmployee.CreatedAt)
	if err != nil {
		return employee.Employee{}, translateEmployeePgError(err)
	}

	return newEmployee, nil
}

// GetByUsername implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByUsername(ctx context.Context, username string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, email, username, password_hash, created_at FROM employees WHERE username = $1`
	return scanEmployee(q.QueryRow(ctx, query, username))
}

// GetByName implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByName(ctx context.Context, name string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT id, name, email, username, password_hash, created_at FROM employees WHERE name = $1 ORDER BY created_at, id LIMIT 1`
	return scanEmployee(q.QueryRow(ctx, query, name))
}

// ExistsByEmailOrUsername implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			EXISTS(SELECT 1 FROM employees WHERE email = $1),
			EXISTS(SELECT 1 FROM employees WHERE username = $2)
	`
	var emailTaken, usernameTaken bool
	if err := q.QueryRow(ctx, query, email, username).Scan(&emailTaken, &usernameTaken); err != nil {
		return false, false, err
	}
	return emailTaken, usernameTaken, nil
}

// ListNames implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListNames(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id, name FROM employees ORDER BY name, created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	for rows.Next() {
		var e employee.Employee
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Username, &e.PasswordHash, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func translateEmployeePgError(err error) error {
	switch {
	case isUniqueViolation(err, employeeEmailConstraint):
		return employee.ErrEmailExists
	case isUniqueViolation(err, employeeUsernameConstraint):
		return employee.ErrUsernameExists
	default:
		return err
	}
}
