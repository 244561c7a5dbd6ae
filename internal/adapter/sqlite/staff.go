package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// StaffRepository implements domain.StaffRepository using SQLite. A
// mediator's CurrentActiveCases is not a stored column: it is recomputed
// from live case assignments on every read, so the capacity check always
// sees the same count the assignment writes against.
type StaffRepository struct {
	db *sql.DB
}

// Compile-time check: StaffRepository implements domain.StaffRepository.
var _ domain.StaffRepository = (*StaffRepository)(nil)

// NewStaffRepository wraps an existing database connection.
func NewStaffRepository(db *sql.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

func (r *StaffRepository) CreateOfficer(ctx context.Context, o domain.Officer) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO officers (id, name, is_active, can_assign_cases, can_close_cases, can_preside_hearings, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Name, boolToInt(o.IsActive),
		boolToInt(o.CanAssignCases), boolToInt(o.CanCloseCases), boolToInt(o.CanPresideHearings),
		o.Version, formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting officer: %w", err)
	}
	return nil
}

func (r *StaffRepository) Officer(ctx context.Context, id string) (domain.Officer, error) {
	var o domain.Officer
	var isActive, canAssign, canClose, canPreside int
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, is_active, can_assign_cases, can_close_cases, can_preside_hearings, version, created_at, updated_at
		 FROM officers WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &isActive, &canAssign, &canClose, &canPreside, &o.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Officer{}, &domain.NotFoundError{Entity: "officer", ID: id}
		}
		return domain.Officer{}, fmt.Errorf("scanning officer: %w", err)
	}

	o.IsActive = isActive != 0
	o.CanAssignCases = canAssign != 0
	o.CanCloseCases = canClose != 0
	o.CanPresideHearings = canPreside != 0
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)

	return o, nil
}

func (r *StaffRepository) CreateMediator(ctx context.Context, m domain.Mediator) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mediators (id, name, is_active, max_active_cases, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, boolToInt(m.IsActive), m.MaxActiveCases,
		m.Version, formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mediator: %w", err)
	}
	return nil
}

func (r *StaffRepository) Mediator(ctx context.Context, id string) (domain.Mediator, error) {
	var m domain.Mediator
	var isActive int
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT m.id, m.name, m.is_active, m.max_active_cases, m.version, m.created_at, m.updated_at,
			(SELECT COUNT(*) FROM cases c WHERE c.assigned_mediator_id = m.id AND c.is_active = 1)
		 FROM mediators m WHERE m.id = ?`, id,
	).Scan(&m.ID, &m.Name, &isActive, &m.MaxActiveCases, &m.Version, &createdAt, &updatedAt, &m.CurrentActiveCases)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Mediator{}, &domain.NotFoundError{Entity: "mediator", ID: id}
		}
		return domain.Mediator{}, fmt.Errorf("scanning mediator: %w", err)
	}

	m.IsActive = isActive != 0
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)

	return m, nil
}
