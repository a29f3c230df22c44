package employee

import "time"

// Employee is a host that visitors come to see. Records are never updated or deleted.
type Employee struct {
	ID           string
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
