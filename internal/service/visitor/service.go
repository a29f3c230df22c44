package visitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/validator"
)

// Options selects the workflow variant
type Options struct {
	// RequireHost fails registration with visitor.ErrHostNotFound when the host
	// cannot be resolved. Otherwise registration succeeds and the host email is skipped.
	RequireHost bool

	// RequireTimeSlot makes time_slot mandatory at registration
	RequireTimeSlot bool

	// StrictTransitions enforces the lifecycle pending -> approved/rejected -> checked-in -> checked-out
	StrictTransitions bool
}

type VisitorServiceImpl struct {
	visitorRepo     visitor.VisitorRepository
	employeeService employee.EmployeeService
	notifier        notification.Notifier
	broadcaster     notification.Broadcaster
	metrics         *metrics.Metrics
	opts            Options
	now             func() time.Time
}

func NewVisitorService(
	visitorRepo visitor.VisitorRepository,
	employeeService employee.EmployeeService,
	notifier notification.Notifier,
	broadcaster notification.Broadcaster,
	m *metrics.Metrics,
	opts Options,
) visitor.VisitorService {
	return &VisitorServiceImpl{
		visitorRepo:     visitorRepo,
		employeeService: employeeService,
		notifier:        notifier,
		broadcaster:     broadcaster,
		metrics:         m,
		opts:            opts,
		now:             time.Now,
	}
}

// CreateVisitor implements visitor.VisitorService.
func (s *VisitorServiceImpl) CreateVisitor(ctx context.Context, req visitor.CreateVisitorRequest) (visitor.VisitorResponse, error) {
	req.Normalize()
	if err := req.Validate(s.opts.RequireTimeSlot); err != nil {
		return visitor.VisitorResponse{}, err
	}

	var (
		host      employee.Employee
		hostFound bool
		err       error
	)

	// Strict variant resolves the host before anything is written
	if s.opts.RequireHost {
		host, hostFound, err = s.employeeService.FindByName(ctx, req.HostEmployee)
		if err != nil {
			return visitor.VisitorResponse{}, fmt.Errorf("failed to resolve host: %w", err)
		}
		if !hostFound {
			return visitor.VisitorResponse{}, visitor.ErrHostNotFound
		}
	}

	created, err := s.visitorRepo.Create(ctx, visitor.Visitor{
		FullName:     req.FullName,
		Contact:      req.Contact,
		Purpose:      req.Purpose,
		HostEmployee: req.HostEmployee,
		Company:      req.Company,
		TimeSlot:     req.TimeSlot,
		Status:       visitor.StatusPending,
		Photo:        req.Photo,
	})
	if err != nil {
		return visitor.VisitorResponse{}, fmt.Errorf("failed to create visitor: %w", err)
	}
	s.metrics.VisitorsRegistered.Inc()

	if !s.opts.RequireHost {
		host, hostFound, err = s.employeeService.FindByName(ctx, created.HostEmployee)
		if err != nil {
			// The visitor is already stored; only the host email is lost
			slog.Error("Failed to resolve host, skipping notification", "visitor_id", created.ID, "host", created.HostEmployee, "error", err)
			hostFound = false
		}
	}

	if hostFound {
		s.notify(host.Email, subjectVisitorAdded, "visitor_added.txt", created)
	} else {
		slog.Info("Host not found, skipping notification", "visitor_id", created.ID, "host", created.HostEmployee)
	}

	resp := visitor.ToResponse(created)
	s.broadcaster.Broadcast(notification.EventVisitorAdded, resp)

	slog.Info("Visitor registered", "visitor_id", created.ID, "host", created.HostEmployee)
	return resp, nil
}

// TransitionStatus implements visitor.VisitorService.
func (s *VisitorServiceImpl) TransitionStatus(ctx context.Context, id string, req visitor.UpdateStatusRequest) (visitor.VisitorResponse, error) {
	if err := req.Validate(); err != nil {
		return visitor.VisitorResponse{}, err
	}
	status := visitor.Status(req.Status)

	updated, err := s.visitorRepo.UpdateStatus(ctx, id, func(v *visitor.Visitor) error {
		if s.opts.StrictTransitions && !visitor.CanTransition(v.Status, status) {
			return fmt.Errorf("%w: %s to %s", visitor.ErrInvalidTransition, v.Status, status)
		}
		v.ApplyStatus(status, s.now())
		return nil
	})
	if err != nil {
		if errors.Is(err, visitor.ErrVisitorNotFound) || errors.Is(err, visitor.ErrInvalidTransition) {
			return visitor.VisitorResponse{}, err
		}
		return visitor.VisitorResponse{}, fmt.Errorf("failed to update visitor status: %w", err)
	}
	s.metrics.VisitorTransitions.WithLabelValues(string(status)).Inc()

	// Status mail goes to the visitor contact only when it is an email address;
	// phone-number contacts get no message.
	if validator.IsValidEmail(updated.Contact) {
		s.notify(updated.Contact, subjectStatusUpdated, "status_updated.txt", updated)
	} else {
		slog.Info("Visitor contact is not an email address, skipping notification", "visitor_id", updated.ID)
	}

	resp := visitor.ToResponse(updated)
	s.broadcaster.Broadcast(notification.EventVisitorStatusUpdated, resp)

	slog.Info("Visitor status updated", "visitor_id", updated.ID, "status", updated.Status)
	return resp, nil
}

// ListVisitorsForHost implements visitor.VisitorService.
func (s *VisitorServiceImpl) ListVisitorsForHost(ctx context.Context, principal auth.Principal) ([]visitor.VisitorResponse, error) {
	var filter visitor.VisitorFilter
	if !principal.IsAdmin() {
		name := principal.Name
		filter.HostEmployee = &name
	}

	visitors, err := s.visitorRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list visitors: %w", err)
	}
	return visitor.ToResponses(visitors), nil
}

// ListPending implements visitor.VisitorService.
func (s *VisitorServiceImpl) ListPending(ctx context.Context) ([]visitor.VisitorResponse, error) {
	status := visitor.StatusPending
	visitors, err := s.visitorRepo.List(ctx, visitor.VisitorFilter{Status: &status})
	if err != nil {
		return nil, fmt.Errorf("failed to list pending visitors: %w", err)
	}
	return visitor.ToResponses(visitors), nil
}

// GetVisitor implements visitor.VisitorService.
func (s *VisitorServiceImpl) GetVisitor(ctx context.Context, principal auth.Principal, id string) (visitor.VisitorResponse, error) {
	v, err := s.visitorRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, visitor.ErrVisitorNotFound) {
			return visitor.VisitorResponse{}, err
		}
		return visitor.VisitorResponse{}, fmt.Errorf("failed to get visitor: %w", err)
	}

	// Employees only see the visitors they host
	if !principal.IsAdmin() && v.HostEmployee != principal.Name {
		return visitor.VisitorResponse{}, visitor.ErrVisitorNotFound
	}
	return visitor.ToResponse(v), nil
}

// notify renders a message and hands it to the notifier without waiting for delivery
func (s *VisitorServiceImpl) notify(to, subject, templateName string, v visitor.Visitor) {
	if to == "" {
		return
	}
	body, err := renderMessage(templateName, v)
	if err != nil {
		slog.Error("Failed to render notification", "visitor_id", v.ID, "error", err)
		return
	}
	s.notifier.Notify(notification.Message{To: to, Subject: subject, Body: body})
}
