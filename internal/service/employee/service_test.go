package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/vms-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memoryEmployeeRepo enforces the same uniqueness as the database constraints
type memoryEmployeeRepo struct {
	mu        sync.Mutex
	employees []employee.Employee
	failWith  error
}

func (r *memoryEmployeeRepo) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.Email == e.Email {
			return employee.Employee{}, employee.ErrEmailExists
		}
		if existing.Username == e.Username {
			return employee.Employee{}, employee.ErrUsernameExists
		}
	}
	e.ID = fmt.Sprintf("emp-%d", len(r.employees)+1)
	e.CreatedAt = time.Now()
	r.employees = append(r.employees, e)
	return e, nil
}

func (r *memoryEmployeeRepo) GetByUsername(_ context.Context, username string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.Username == username {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memoryEmployeeRepo) GetByName(_ context.Context, name string) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return employee.Employee{}, r.failWith
	}
	for _, e := range r.employees {
		if e.Name == name {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memoryEmployeeRepo) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var emailTaken, usernameTaken bool
	for _, e := range r.employees {
		emailTaken = emailTaken || e.Email == email
		usernameTaken = usernameTaken || e.Username == username
	}
	return emailTaken, usernameTaken, nil
}

func (r *memoryEmployeeRepo) ListNames(_ context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]employee.Employee(nil), r.employees...), nil
}

func newTestService() (*EmployeeServiceImpl, *memoryEmployeeRepo) {
	repo := &memoryEmployeeRepo{}
	svc := NewEmployeeService(repo).(*EmployeeServiceImpl)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo
}

func bob() employee.RegisterRequest {
	return employee.RegisterRequest{Name: "Bob Lee", Email: "Bob@X.com", Username: "bob", Password: "secret1"}
}

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	resp, err := svc.Register(ctx, bob())
	require.NoError(t, err)
	assert.Equal(t, "Bob Lee", resp.Name)
	assert.Equal(t, "bob@x.com", resp.Email)
	assert.NotEmpty(t, resp.ID)

	// Password is stored hashed
	stored := repo.employees[0]
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_Validation(t *testing.T) {
	svc, repo := newTestService()

	req := bob()
	req.Password = "short"
	req.Email = "not-an-email"

	_, err := svc.Register(context.Background(), req)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "email")
	assert.Empty(t, repo.employees)
}

func TestRegister_RejectsOverlongEmail(t *testing.T) {
	svc, repo := newTestService()

	req := bob()
	req.Email = strings.Repeat("b", 300) + "@example.com"

	_, err := svc.Register(context.Background(), req)
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "email must not exceed 255 characters", verrs.ToMap()["email"])
	assert.Empty(t, repo.employees)
}

func TestRegister_Duplicates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, err := svc.Register(ctx, bob())
	require.NoError(t, err)

	sameEmail := bob()
	sameEmail.Username = "bobby"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	sameUsername := bob()
	sameUsername.Email = "other@x.com"
	_, err = svc.Register(ctx, sameUsername)
	assert.ErrorIs(t, err, employee.ErrUsernameExists)
}

func TestRegister_ConcurrentDuplicateYieldsDuplicateError(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, bob())
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, errors.Is(err, employee.ErrEmailExists) || errors.Is(err, employee.ErrUsernameExists), err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, repo.employees, 1)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()
	_, err := svc.Register(ctx, bob())
	require.NoError(t, err)

	emp, err := svc.Authenticate(ctx, "bob", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Bob Lee", emp.Name)

	_, err = svc.Authenticate(ctx, "bob", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestFindByName(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()
	_, err := svc.Register(ctx, bob())
	require.NoError(t, err)

	emp, found, err := svc.FindByName(ctx, "Bob Lee")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "bob@x.com", emp.Email)

	_, found, err = svc.FindByName(ctx, "bob lee")
	require.NoError(t, err)
	assert.False(t, found, "name match is exact")

	repo.failWith = errors.New("connection refused")
	_, _, err = svc.FindByName(ctx, "Bob Lee")
	assert.ErrorContains(t, err, "connection refused")
}

func TestListNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	names, err := svc.ListNames(ctx)
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)

	_, err = svc.Register(ctx, bob())
	require.NoError(t, err)

	names, err = svc.ListNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []employee.EmployeeNameResponse{{ID: "emp-1", Name: "Bob Lee"}}, names)
}
