package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rcdesk/rentcase/internal/domain"
)

// CaseRepository implements domain.CaseRepository using SQLite.
type CaseRepository struct {
	db *sql.DB
}

// Compile-time check: CaseRepository implements domain.CaseRepository.
var _ domain.CaseRepository = (*CaseRepository)(nil)

// NewCaseRepository wraps an existing database connection.
func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

const caseColumns = `id, number, complainant_id, complainant_name, complainant_contact,
	respondent_id, respondent_name, respondent_contact, type, status, priority,
	description, property_id, agreement_id, assigned_officer_id, assigned_mediator_id,
	resolution, awarded_amount, submitted_at, closed_at, is_active, version,
	created_at, updated_at`

func (r *CaseRepository) Create(ctx context.Context, c domain.Case) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cases (`+caseColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Number, c.Complainant.ID, c.Complainant.Name, c.Complainant.Contact,
		c.Respondent.ID, c.Respondent.Name, c.Respondent.Contact,
		string(c.Type), string(c.Status), string(c.Priority),
		c.Description, c.PropertyID, c.AgreementID, c.AssignedOfficerID, c.AssignedMediatorID,
		resolutionValue(c.Resolution), nullableInt(c.AwardedAmount),
		formatNullTime(c.SubmittedAt), formatNullTime(c.ClosedAt),
		boolToInt(c.IsActive), c.Version,
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("case number %q already exists: %w", c.Number, domain.ErrConflict)
		}
		return fmt.Errorf("inserting case: %w", err)
	}
	return nil
}

func (r *CaseRepository) GetByID(ctx context.Context, id string) (domain.Case, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+caseColumns+` FROM cases WHERE id = ?`, id)
	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Case{}, &domain.NotFoundError{Entity: "case", ID: id}
	}
	return c, err
}

func (r *CaseRepository) List(ctx context.Context, filter domain.CaseFilter) ([]domain.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases`
	var clauses []string
	var args []any

	if filter.Status != nil {
		clauses = append(clauses, `status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.OfficerID != "" {
		clauses = append(clauses, `assigned_officer_id = ?`)
		args = append(args, filter.OfficerID)
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
		return nil, fmt.Errorf("listing cases: %w", err)
	}
	defer rows.Close()

	var cases []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}

	return cases, rows.Err()
}

func (r *CaseRepository) Update(ctx context.Context, c domain.Case) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE cases SET
			complainant_id = ?, complainant_name = ?, complainant_contact = ?,
			respondent_id = ?, respondent_name = ?, respondent_contact = ?,
			type = ?, status = ?, priority = ?, description = ?,
			property_id = ?, agreement_id = ?, assigned_officer_id = ?, assigned_mediator_id = ?,
			resolution = ?, awarded_amount = ?, submitted_at = ?, closed_at = ?,
			is_active = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		c.Complainant.ID, c.Complainant.Name, c.Complainant.Contact,
		c.Respondent.ID, c.Respondent.Name, c.Respondent.Contact,
		string(c.Type), string(c.Status), string(c.Priority), c.Description,
		c.PropertyID, c.AgreementID, c.AssignedOfficerID, c.AssignedMediatorID,
		resolutionValue(c.Resolution), nullableInt(c.AwardedAmount),
		formatNullTime(c.SubmittedAt), formatNullTime(c.ClosedAt),
		boolToInt(c.IsActive), formatTime(c.UpdatedAt),
		c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("updating case: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "cases", "case", c.ID)
	}

	return nil
}

func (r *CaseRepository) AddParticipant(ctx context.Context, p domain.CaseParticipant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO case_participants (id, case_id, party_id, name, role, added_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.CaseID, p.PartyID, p.Name, string(p.Role), formatTime(p.AddedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting case participant: %w", err)
	}
	return nil
}

func (r *CaseRepository) ListParticipants(ctx context.Context, caseID string) ([]domain.CaseParticipant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, case_id, party_id, name, role, added_at
		 FROM case_participants WHERE case_id = ? ORDER BY added_at`, caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing case participants: %w", err)
	}
	defer rows.Close()

	var participants []domain.CaseParticipant
	for rows.Next() {
		var p domain.CaseParticipant
		var role, addedAt string
		if err := rows.Scan(&p.ID, &p.CaseID, &p.PartyID, &p.Name, &role, &addedAt); err != nil {
			return nil, fmt.Errorf("scanning case participant: %w", err)
		}
		p.Role = domain.ParticipantRole(role)
		p.AddedAt = parseTime(addedAt)
		participants = append(participants, p)
	}

	return participants, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCase(row scanner) (domain.Case, error) {
	var c domain.Case
	var kind, status, priority string
	var resolution sql.NullString
	var awarded sql.NullInt64
	var submittedAt, closedAt sql.NullString
	var isActive int
	var createdAt, updatedAt string

	err := row.Scan(
		&c.ID, &c.Number, &c.Complainant.ID, &c.Complainant.Name, &c.Complainant.Contact,
		&c.Respondent.ID, &c.Respondent.Name, &c.Respondent.Contact,
		&kind, &status, &priority, &c.Description,
		&c.PropertyID, &c.AgreementID, &c.AssignedOfficerID, &c.AssignedMediatorID,
		&resolution, &awarded, &submittedAt, &closedAt, &isActive, &c.Version,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Case{}, err
		}
		return domain.Case{}, fmt.Errorf("scanning case: %w", err)
	}

	c.Type = domain.CaseType(kind)
	c.Status = domain.Status(status)
	c.Priority = domain.CasePriority(priority)
	if resolution.Valid {
		res := domain.Resolution(resolution.String)
		c.Resolution = &res
	}
	if awarded.Valid {
		amount := awarded.Int64
		c.AwardedAmount = &amount
	}
	c.SubmittedAt = parseNullTime(submittedAt)
	c.ClosedAt = parseNullTime(closedAt)
	c.IsActive = isActive != 0
	c.CreatedAt = parseTime(createdAt)
	c.UpdatedAt = parseTime(updatedAt)

	return c, nil
}

func resolutionValue(r *domain.Resolution) any {
	if r == nil {
		return nil
	}
	return string(*r)
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
