package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/vms-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "No token provided")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, auth.ErrAdminLoginDisabled):
		Forbidden(w, "Admin login is not configured")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrUsernameExists):
		Conflict(w, "Username already taken")

	// Visitor domain errors
	case errors.Is(err, visitor.ErrVisitorNotFound):
		NotFound(w, "Visitor not found")
	case errors.Is(err, visitor.ErrHostNotFound):
		BadRequest(w, "Host employee not found", map[string]string{"host_employee": "no employee with this name"})
	case errors.Is(err, visitor.ErrInvalidTransition):
		Conflict(w, err.Error())

	// Upload errors
	case errors.Is(err, file.ErrFileTooLarge):
		ValidationError(w, map[string]string{"photo": err.Error()})
	case errors.Is(err, file.ErrInvalidFileType):
		ValidationError(w, map[string]string{"photo": err.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
