package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// PropertyRepository implements domain.PropertyRepository using SQLite.
type PropertyRepository struct {
	db *sql.DB
}

// Compile-time check: PropertyRepository implements domain.PropertyRepository.
var _ domain.PropertyRepository = (*PropertyRepository)(nil)

// NewPropertyRepository wraps an existing database connection.
func NewPropertyRepository(db *sql.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func (r *PropertyRepository) Create(ctx context.Context, p domain.Property) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO properties (id, code, landlord_id, status, monthly_rent, location, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Code, p.LandlordID, string(p.Status), p.MonthlyRent, p.Location,
		p.Version, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("property code %q already exists: %w", p.Code, domain.ErrConflict)
		}
		return fmt.Errorf("inserting property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (domain.Property, error) {
	var p domain.Property
	var status, createdAt, updatedAt string

	err := r.db.QueryRowContext(ctx,
		`SELECT id, code, landlord_id, status, monthly_rent, location, version, created_at, updated_at
		 FROM properties WHERE id = ?`, id,
	).Scan(&p.ID, &p.Code, &p.LandlordID, &status, &p.MonthlyRent, &p.Location, &p.Version, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Property{}, &domain.NotFoundError{Entity: "property", ID: id}
		}
		return domain.Property{}, fmt.Errorf("scanning property: %w", err)
	}

	p.Status = domain.Status(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return p, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p domain.Property) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE properties SET
			landlord_id = ?, status = ?, monthly_rent = ?, location = ?,
			version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		p.LandlordID, string(p.Status), p.MonthlyRent, p.Location,
		formatTime(p.UpdatedAt), p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "properties", "property", p.ID)
	}

	return nil
}
