package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// OccupancyRepository implements domain.OccupancyRepository using SQLite.
type OccupancyRepository struct {
	db *sql.DB
}

// Compile-time check: OccupancyRepository implements domain.OccupancyRepository.
var _ domain.OccupancyRepository = (*OccupancyRepository)(nil)

// NewOccupancyRepository wraps an existing database connection.
func NewOccupancyRepository(db *sql.DB) *OccupancyRepository {
	return &OccupancyRepository{db: db}
}

func (r *OccupancyRepository) Create(ctx context.Context, o domain.Occupancy) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO occupancies (id, property_id, tenant_id, agreement_id, start_date, end_date, is_current, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.PropertyID, o.TenantID, o.AgreementID,
		formatTime(o.StartDate), formatNullTime(o.EndDate), boolToInt(o.IsCurrent),
		formatTime(o.CreatedAt), formatTime(o.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting occupancy: %w", err)
	}
	return nil
}

func (r *OccupancyRepository) CurrentByProperty(ctx context.Context, propertyID string) (domain.Occupancy, error) {
	var o domain.Occupancy
	var startDate string
	var endDate sql.NullString
	var isCurrent int
	var createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, property_id, tenant_id, agreement_id, start_date, end_date, is_current, created_at, updated_at
		 FROM occupancies WHERE property_id = ? AND is_current = 1`, propertyID,
	).Scan(&o.ID, &o.PropertyID, &o.TenantID, &o.AgreementID, &startDate, &endDate, &isCurrent, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Occupancy{}, &domain.NotFoundError{Entity: "current occupancy for property", ID: propertyID}
		}
		return domain.Occupancy{}, fmt.Errorf("scanning occupancy: %w", err)
	}

	o.StartDate = parseTime(startDate)
	o.EndDate = parseNullTime(endDate)
	o.IsCurrent = isCurrent != 0
	o.CreatedAt = parseTime(createdAt)
	o.UpdatedAt = parseTime(updatedAt)

	return o, nil
}

func (r *OccupancyRepository) Update(ctx context.Context, o domain.Occupancy) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE occupancies SET end_date = ?, is_current = ?, updated_at = ? WHERE id = ?`,
		formatNullTime(o.EndDate), boolToInt(o.IsCurrent), formatTime(o.UpdatedAt), o.ID,
	)
	if err != nil {
		return fmt.Errorf("updating occupancy: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "occupancy", ID: o.ID}
	}

	return nil
}
