package visitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/google/uuid"
)

type memoryVisitorRepo struct {
	mu           sync.Mutex
	visitors     []visitor.Visitor
	creates      int
	statusWrites int
}

func (r *memoryVisitorRepo) Create(_ context.Context, v visitor.Visitor) (visitor.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	v.ID = uuid.Must(uuid.NewV7()).String()
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	r.visitors = append(r.visitors, v)
	return v, nil
}

func (r *memoryVisitorRepo) GetByID(_ context.Context, id string) (visitor.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.visitors {
		if v.ID == id {
			return v, nil
		}
	}
	return visitor.Visitor{}, visitor.ErrVisitorNotFound
}

func (r *memoryVisitorRepo) UpdateStatus(_ context.Context, id string, mutate func(v *visitor.Visitor) error) (visitor.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.visitors {
		if r.visitors[i].ID != id {
			continue
		}
		working := r.visitors[i]
		if err := mutate(&working); err != nil {
			return visitor.Visitor{}, err
		}
		working.UpdatedAt = time.Now()
		r.visitors[i] = working
		r.statusWrites++
		return working, nil
	}
	return visitor.Visitor{}, visitor.ErrVisitorNotFound
}

func (r *memoryVisitorRepo) CountByStatus(context.Context) (map[visitor.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[visitor.Status]int)
	for _, v := range r.visitors {
		counts[v.Status]++
	}
	return counts, nil
}

func (r *memoryVisitorRepo) List(_ context.Context, filter visitor.VisitorFilter) ([]visitor.Visitor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []visitor.Visitor
	for _, v := range r.visitors {
		if filter.HostEmployee != nil && v.HostEmployee != *filter.HostEmployee {
			continue
		}
		if filter.Status != nil && v.Status != *filter.Status {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

type stubDirectory struct {
	employee.EmployeeService
	employees map[string]employee.Employee
	err       error
}

func (d *stubDirectory) FindByName(_ context.Context, name string) (employee.Employee, bool, error) {
	if d.err != nil {
		return employee.Employee{}, false, d.err
	}
	e, ok := d.employees[name]
	return e, ok, nil
}

// recordingDispatcher captures side effects and completes them immediately
type recordingDispatcher struct {
	mu       sync.Mutex
	messages []notification.Message
	events   []recordedEvent
	fail     bool
}

type recordedEvent struct {
	name    string
	payload interface{}
}

func (d *recordingDispatcher) result() <-chan error {
	ch := make(chan error, 1)
	if d.fail {
		ch <- errors.New("delivery failed")
	} else {
		ch <- nil
	}
	return ch
}

func (d *recordingDispatcher) Notify(msg notification.Message) <-chan error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return d.result()
}

func (d *recordingDispatcher) Broadcast(event string, payload interface{}) <-chan error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, recordedEvent{name: event, payload: payload})
	return d.result()
}
