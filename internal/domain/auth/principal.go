package auth

import "context"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// AdminSubject is the fixed subject carried by admin tokens
const AdminSubject = "admin"

// Principal is the authenticated caller. Employees are scoped to the visitors
// they host by Name; admins are unscoped.
type Principal struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
