package visitor

import "context"

type VisitorRepository interface {
	Create(ctx context.Context, newVisitor Visitor) (Visitor, error)
	GetByID(ctx context.Context, id string) (Visitor, error)
	// UpdateStatus locks the record, passes it to mutate and persists the result.
	// mutate sees the latest stored state; returning an error aborts the write.
	UpdateStatus(ctx context.Context, id string, mutate func(v *Visitor) error) (Visitor, error)
	List(ctx context.Context, filter VisitorFilter) ([]Visitor, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

// VisitorFilter narrows List; zero values mean no filtering. Results are in creation order.
type VisitorFilter struct {
	HostEmployee *string
	Status       *Status
}
