package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// MediationRepository implements domain.MediationRepository using SQLite.
type MediationRepository struct {
	db *sql.DB
}

// Compile-time check: MediationRepository implements domain.MediationRepository.
var _ domain.MediationRepository = (*MediationRepository)(nil)

// NewMediationRepository wraps an existing database connection.
func NewMediationRepository(db *sql.DB) *MediationRepository {
	return &MediationRepository{db: db}
}

const sessionColumns = `id, case_id, status, mediator_id, scheduled_date, agreement_reached,
	agreement_summary, notes, version, created_at, updated_at`

func (r *MediationRepository) Create(ctx context.Context, m domain.MediationSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mediation_sessions (`+sessionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.CaseID, string(m.Status), m.MediatorID,
		formatNullTime(m.ScheduledDate), boolToInt(m.AgreementReached),
		m.AgreementSummary, m.Notes, m.Version,
		formatTime(m.CreatedAt), formatTime(m.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting mediation session: %w", err)
	}
	return nil
}

func (r *MediationRepository) GetByID(ctx context.Context, id string) (domain.MediationSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM mediation_sessions WHERE id = ?`, id)
	m, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MediationSession{}, &domain.NotFoundError{Entity: "mediation session", ID: id}
	}
	return m, err
}

func (r *MediationRepository) ListByCase(ctx context.Context, caseID string) ([]domain.MediationSession, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM mediation_sessions WHERE case_id = ? ORDER BY created_at`, caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing mediation sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.MediationSession
	for rows.Next() {
		m, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, m)
	}

	return sessions, rows.Err()
}

func (r *MediationRepository) Update(ctx context.Context, m domain.MediationSession) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE mediation_sessions SET
			status = ?, mediator_id = ?, scheduled_date = ?, agreement_reached = ?,
			agreement_summary = ?, notes = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		string(m.Status), m.MediatorID, formatNullTime(m.ScheduledDate),
		boolToInt(m.AgreementReached), m.AgreementSummary, m.Notes,
		formatTime(m.UpdatedAt), m.ID, m.Version,
	)
	if err != nil {
		return fmt.Errorf("updating mediation session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "mediation_sessions", "mediation session", m.ID)
	}

	return nil
}

func scanSession(row scanner) (domain.MediationSession, error) {
	var m domain.MediationSession
	var status string
	var scheduledDate sql.NullString
	var reached int
	var createdAt, updatedAt string

	err := row.Scan(
		&m.ID, &m.CaseID, &status, &m.MediatorID, &scheduledDate, &reached,
		&m.AgreementSummary, &m.Notes, &m.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MediationSession{}, err
		}
		return domain.MediationSession{}, fmt.Errorf("scanning mediation session: %w", err)
	}

	m.Status = domain.Status(status)
	m.ScheduledDate = parseNullTime(scheduledDate)
	m.AgreementReached = reached != 0
	m.CreatedAt = parseTime(createdAt)
	m.UpdatedAt = parseTime(updatedAt)

	return m, nil
}
