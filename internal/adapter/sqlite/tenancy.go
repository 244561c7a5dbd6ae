package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// TenancyRepository implements domain.TenancyRepository using SQLite.
type TenancyRepository struct {
	db *sql.DB
}

// Compile-time check: TenancyRepository implements domain.TenancyRepository.
var _ domain.TenancyRepository = (*TenancyRepository)(nil)

// NewTenancyRepository wraps an existing database connection.
func NewTenancyRepository(db *sql.DB) *TenancyRepository {
	return &TenancyRepository{db: db}
}

const agreementColumns = `id, number, property_id, landlord_id, tenant_id, monthly_rent,
	start_date, end_date, status, payment_frequency, termination_reason, suspension_reason,
	actual_vacate_date, renewed_from_id, version, created_at, updated_at`

func (r *TenancyRepository) Create(ctx context.Context, a domain.TenancyAgreement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenancy_agreements (`+agreementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Number, a.PropertyID, a.LandlordID, a.TenantID, a.MonthlyRent,
		formatTime(a.StartDate), formatTime(a.EndDate), string(a.Status), string(a.PaymentFrequency),
		a.TerminationReason, a.SuspensionReason,
		formatNullTime(a.ActualVacateDate), a.RenewedFromID, a.Version,
		formatTime(a.CreatedAt), formatTime(a.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("agreement number %q already exists: %w", a.Number, domain.ErrConflict)
		}
		return fmt.Errorf("inserting agreement: %w", err)
	}
	return nil
}

func (r *TenancyRepository) GetByID(ctx context.Context, id string) (domain.TenancyAgreement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+agreementColumns+` FROM tenancy_agreements WHERE id = ?`, id)
	a, err := scanAgreement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TenancyAgreement{}, &domain.NotFoundError{Entity: "tenancy agreement", ID: id}
	}
	return a, err
}

func (r *TenancyRepository) GetActiveByProperty(ctx context.Context, propertyID string) (domain.TenancyAgreement, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+agreementColumns+` FROM tenancy_agreements
		 WHERE property_id = ? AND status = ?`,
		propertyID, string(domain.TenancyActive))
	a, err := scanAgreement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TenancyAgreement{}, &domain.NotFoundError{Entity: "active agreement for property", ID: propertyID}
	}
	return a, err
}

func (r *TenancyRepository) List(ctx context.Context, filter domain.TenancyFilter) ([]domain.TenancyAgreement, error) {
	query := `SELECT ` + agreementColumns + ` FROM tenancy_agreements`
	var clauses []string
	var args []any

	if filter.Status != nil {
		clauses = append(clauses, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.PropertyID != "" {
		clauses = append(clauses, `property_id = ?`)
		args = append(args, filter.PropertyID)
	}
	if filter.EndedBefore != nil {
		clauses = append(clauses, `end_date < ?`)
		args = append(args, formatTime(*filter.EndedBefore))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing agreements: %w", err)
	}
	defer rows.Close()

	var agreements []domain.TenancyAgreement
	for rows.Next() {
		a, err := scanAgreement(rows)
		if err != nil {
			return nil, err
		}
		agreements = append(agreements, a)
	}

	return agreements, rows.Err()
}

func (r *TenancyRepository) Update(ctx context.Context, a domain.TenancyAgreement) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tenancy_agreements SET
			monthly_rent = ?, start_date = ?, end_date = ?, status = ?, payment_frequency = ?,
			termination_reason = ?, suspension_reason = ?, actual_vacate_date = ?,
			renewed_from_id = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		a.MonthlyRent, formatTime(a.StartDate), formatTime(a.EndDate),
		string(a.Status), string(a.PaymentFrequency),
		a.TerminationReason, a.SuspensionReason, formatNullTime(a.ActualVacateDate),
		a.RenewedFromID, formatTime(a.UpdatedAt),
		a.ID, a.Version,
	)
	if err != nil {
		return fmt.Errorf("updating agreement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "tenancy_agreements", "tenancy agreement", a.ID)
	}

	return nil
}

func scanAgreement(row scanner) (domain.TenancyAgreement, error) {
	var a domain.TenancyAgreement
	var startDate, endDate, status, frequency string
	var vacateDate sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&a.ID, &a.Number, &a.PropertyID, &a.LandlordID, &a.TenantID, &a.MonthlyRent,
		&startDate, &endDate, &status, &frequency,
		&a.TerminationReason, &a.SuspensionReason, &vacateDate, &a.RenewedFromID,
		&a.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.TenancyAgreement{}, err
		}
		return domain.TenancyAgreement{}, fmt.Errorf("scanning agreement: %w", err)
	}

	a.StartDate = parseTime(startDate)
	a.EndDate = parseTime(endDate)
	a.Status = domain.Status(status)
	a.PaymentFrequency = domain.PaymentFrequency(frequency)
	a.ActualVacateDate = parseNullTime(vacateDate)
	a.CreatedAt = parseTime(createdAt)
	a.UpdatedAt = parseTime(updatedAt)

	return a, nil
}
