package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/vms-backend-go/internal/domain/visitor"
	"github.com/cmlabs-hris/vms-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const visitorColumns = `id, full_name, contact, purpose, host_employee, company, time_slot, status, check_in_time, check_out_time, photo, created_at, updated_at`

type visitorRepositoryImpl struct {
	db *database.DB
}

func NewVisitorRepository(db *database.DB) visitor.VisitorRepository {
	return &visitorRepositoryImpl{db: db}
}

// Create implements visitor.VisitorRepository.
func (r *visitorRepositoryImpl) Create(ctx context.Context, newVisitor visitor.Visitor) (visitor.Visitor, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return visitor.Visitor{}, fmt.Errorf("generate visitor id: %w", err)
	}

	query := `
		INSERT INTO visitors (id, full_name, contact, purpose, host_employee, company, time_slot, status, photo)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + visitorColumns

	return scanVisitor(q.QueryRow(ctx, query,
		id.String(),
		newVisitor.FullName,
		newVisitor.Contact,
		newVisitor.Purpose,
		newVisitor.HostEmployee,
		newVisitor.Company,
		newVisitor.TimeSlot,
		string(newVisitor.Status),
		newVisitor.Photo,
	))
}

// GetByID implements visitor.VisitorRepository.
func (r *visitorRepositoryImpl) GetByID(ctx context.Context, id string) (visitor.Visitor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return visitor.Visitor{}, visitor.ErrVisitorNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + visitorColumns + ` FROM visitors WHERE id = $1`
	return scanVisitor(q.QueryRow(ctx, query, id))
}

// UpdateStatus implements visitor.VisitorRepository.
// The row is locked for the duration of mutate, and COALESCE keeps an existing
// check-in/check-out time even if another writer set it first.
func (r *visitorRepositoryImpl) UpdateStatus(ctx context.Context, id string, mutate func(v *visitor.Visitor) error) (visitor.Visitor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return visitor.Visitor{}, visitor.ErrVisitorNotFound
	}

	var updated visitor.Visitor
	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		current, err := scanVisitor(q.QueryRow(txCtx, `SELECT `+visitorColumns+` FROM visitors WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		if err := mutate(&current); err != nil {
			return err
		}

		query := `
		UPDATE visitors
		SET status = $2, check_in_time = COALESCE(check_in_time, $3), check_out_time = COALESCE(check_out_time, $4), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + visitorColumns

		updated, err = scanVisitor(q.QueryRow(txCtx, query, id, string(current.Status), current.CheckInTime, current.CheckOutTime))
		return err
	})
	if err != nil {
		return visitor.Visitor{}, err
	}
	return updated, nil
}

// List implements visitor.VisitorRepository.
func (r *visitorRepositoryImpl) List(ctx context.Context, filter visitor.VisitorFilter) ([]visitor.Visitor, error) {
	q := GetQuerier(ctx, r.db)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.HostEmployee != nil {
		args = append(args, *filter.HostEmployee)
		conditions = append(conditions, fmt.Sprintf("host_employee = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + visitorColumns + ` FROM visitors`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visitors := make([]visitor.Visitor, 0)
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return visitors, nil
}

// CountByStatus implements visitor.VisitorRepository.
// Statuses without visitors are absent from the result.
func (r *visitorRepositoryImpl) CountByStatus(ctx context.Context) (map[visitor.Status]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT status, COUNT(*) FROM visitors GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[visitor.Status]int)
	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[visitor.Status(status)] = int(count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func scanVisitor(row pgx.Row) (visitor.Visitor, error) {
	var v visitor.Visitor
	err := row.Scan(
		&v.ID,
		&v.FullName,
		&v.Contact,
		&v.Purpose,
		&v.HostEmployee,
		&v.Company,
		&v.TimeSlot,
		&v.Status,
		&v.CheckInTime,
		&v.CheckOutTime,
		&v.Photo,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return visitor.Visitor{}, visitor.ErrVisitorNotFound
		}
		return visitor.Visitor{}, err
	}
	return v, nil
}
