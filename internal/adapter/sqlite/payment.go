package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// RentPaymentRepository implements domain.RentPaymentRepository using SQLite.
type RentPaymentRepository struct {
	db *sql.DB
}

// Compile-time check: RentPaymentRepository implements domain.RentPaymentRepository.
var _ domain.RentPaymentRepository = (*RentPaymentRepository)(nil)

// NewRentPaymentRepository wraps an existing database connection.
func NewRentPaymentRepository(db *sql.DB) *RentPaymentRepository {
	return &RentPaymentRepository{db: db}
}

const paymentColumns = `id, agreement_id, amount, payment_date, period_start, period_end,
	method, status, version, created_at, updated_at`

func (r *RentPaymentRepository) Create(ctx context.Context, p domain.RentPayment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rent_payments (`+paymentColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AgreementID, p.Amount,
		formatTime(p.PaymentDate), formatTime(p.PeriodStart), formatTime(p.PeriodEnd),
		p.Method, string(p.Status), p.Version,
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting payment: %w", err)
	}
	return nil
}

func (r *RentPaymentRepository) GetByID(ctx context.Context, id string) (domain.RentPayment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM rent_payments WHERE id = ?`, id)
	p, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RentPayment{}, &domain.NotFoundError{Entity: "rent payment", ID: id}
	}
	return p, err
}

func (r *RentPaymentRepository) ListByAgreement(ctx context.Context, agreementID string) ([]domain.RentPayment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM rent_payments
		 WHERE agreement_id = ? ORDER BY period_start`, agreementID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.RentPayment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

func (r *RentPaymentRepository) Update(ctx context.Context, p domain.RentPayment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rent_payments SET
			amount = ?, payment_date = ?, period_start = ?, period_end = ?,
			method = ?, status = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		p.Amount, formatTime(p.PaymentDate), formatTime(p.PeriodStart), formatTime(p.PeriodEnd),
		p.Method, string(p.Status), formatTime(p.UpdatedAt),
		p.ID, p.Version,
	)
	if err != nil {
		return fmt.Errorf("updating payment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "rent_payments", "rent payment", p.ID)
	}

	return nil
}

func scanPayment(row scanner) (domain.RentPayment, error) {
	var p domain.RentPayment
	var paymentDate, periodStart, periodEnd, status, createdAt, updatedAt string

	err := row.Scan(
		&p.ID, &p.AgreementID, &p.Amount,
		&paymentDate, &periodStart, &periodEnd,
		&p.Method, &status, &p.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RentPayment{}, err
		}
		return domain.RentPayment{}, fmt.Errorf("scanning payment: %w", err)
	}

	p.PaymentDate = parseTime(paymentDate)
	p.PeriodStart = parseTime(periodStart)
	p.PeriodEnd = parseTime(periodEnd)
	p.Status = domain.Status(status)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)

	return p, nil
}
