package visitor

import (
	"context"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
)

// VisitorService is the visitor status workflow
type VisitorService interface {
	// CreateVisitor registers a visitor in the pending state and notifies the host
	CreateVisitor(ctx context.Context, req CreateVisitorRequest) (VisitorResponse, error)

	// TransitionStatus moves a visitor to the requested status
	TransitionStatus(ctx context.Context, id string, req UpdateStatusRequest) (VisitorResponse, error)

	// ListVisitorsForHost lists the principal's visitors, or every visitor for admins
	ListVisitorsForHost(ctx context.Context, principal auth.Principal) ([]VisitorResponse, error)

	// ListPending lists visitors awaiting approval
	ListPending(ctx context.Context) ([]VisitorResponse, error)

	// GetVisitor returns a single visitor visible to the principal
	GetVisitor(ctx context.Context, principal auth.Principal, id string) (VisitorResponse, error)
}
