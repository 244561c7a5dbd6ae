package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcdesk/rentcase/internal/domain"
)

// HearingRepository implements domain.HearingRepository using SQLite.
type HearingRepository struct {
	db *sql.DB
}

// Compile-time check: HearingRepository implements domain.HearingRepository.
var _ domain.HearingRepository = (*HearingRepository)(nil)

// NewHearingRepository wraps an existing database connection.
func NewHearingRepository(db *sql.DB) *HearingRepository {
	return &HearingRepository{db: db}
}

const hearingColumns = `id, case_id, number, date, start_time, end_time, location, status,
	presiding_officer_id, notes, rescheduled_to_id, version, created_at, updated_at`

const dateFormat = "2006-01-02"

func (r *HearingRepository) Create(ctx context.Context, h domain.Hearing) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hearings (`+hearingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.CaseID, h.Number,
		h.Date.UTC().Format(dateFormat), formatTime(h.StartTime), formatTime(h.EndTime),
		h.Location, string(h.Status), h.PresidingOfficerID, h.Notes, h.RescheduledToID,
		h.Version, formatTime(h.CreatedAt), formatTime(h.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("hearing number %q already exists: %w", h.Number, domain.ErrConflict)
		}
		return fmt.Errorf("inserting hearing: %w", err)
	}
	return nil
}

func (r *HearingRepository) GetByID(ctx context.Context, id string) (domain.Hearing, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+hearingColumns+` FROM hearings WHERE id = ?`, id)
	h, err := scanHearing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Hearing{}, &domain.NotFoundError{Entity: "hearing", ID: id}
	}
	return h, err
}

func (r *HearingRepository) ListByCase(ctx context.Context, caseID string) ([]domain.Hearing, error) {
	return r.list(ctx, `SELECT `+hearingColumns+` FROM hearings WHERE case_id = ? ORDER BY date, start_time`, caseID)
}

func (r *HearingRepository) ListByOfficerOn(ctx context.Context, officerID string, date time.Time) ([]domain.Hearing, error) {
	return r.list(ctx,
		`SELECT `+hearingColumns+` FROM hearings
		 WHERE presiding_officer_id = ? AND date = ? ORDER BY start_time`,
		officerID, date.UTC().Format(dateFormat),
	)
}

func (r *HearingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Hearing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing hearings: %w", err)
	}
	defer rows.Close()

	var hearings []domain.Hearing
	for rows.Next() {
		h, err := scanHearing(rows)
		if err != nil {
			return nil, err
		}
		hearings = append(hearings, h)
	}

	return hearings, rows.Err()
}

func (r *HearingRepository) Update(ctx context.Context, h domain.Hearing) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hearings SET
			date = ?, start_time = ?, end_time = ?, location = ?, status = ?,
			notes = ?, rescheduled_to_id = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		h.Date.UTC().Format(dateFormat), formatTime(h.StartTime), formatTime(h.EndTime),
		h.Location, string(h.Status), h.Notes, h.RescheduledToID,
		formatTime(h.UpdatedAt), h.ID, h.Version,
	)
	if err != nil {
		return fmt.Errorf("updating hearing: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return staleOrMissing(ctx, r.db, "hearings", "hearing", h.ID)
	}

	return nil
}

func (r *HearingRepository) AddParticipant(ctx context.Context, p domain.HearingParticipant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO hearing_participants (id, hearing_id, party_id, name, role, checked_in_at, checked_out_at, attended)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.HearingID, p.PartyID, p.Name, string(p.Role),
		formatNullTime(p.CheckedInAt), formatNullTime(p.CheckedOutAt), boolToInt(p.Attended),
	)
	if err != nil {
		return fmt.Errorf("inserting hearing participant: %w", err)
	}
	return nil
}

func (r *HearingRepository) GetParticipant(ctx context.Context, id string) (domain.HearingParticipant, error) {
	var p domain.HearingParticipant
	var role string
	var checkedIn, checkedOut sql.NullString
	var attended int

	err := r.db.QueryRowContext(ctx,
		`SELECT id, hearing_id, party_id, name, role, checked_in_at, checked_out_at, attended
		 FROM hearing_participants WHERE id = ?`, id,
	).Scan(&p.ID, &p.HearingID, &p.PartyID, &p.Name, &role, &checkedIn, &checkedOut, &attended)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HearingParticipant{}, &domain.NotFoundError{Entity: "hearing participant", ID: id}
		}
		return domain.HearingParticipant{}, fmt.Errorf("scanning hearing participant: %w", err)
	}

	p.Role = domain.ParticipantRole(role)
	p.CheckedInAt = parseNullTime(checkedIn)
	p.CheckedOutAt = parseNullTime(checkedOut)
	p.Attended = attended != 0

	return p, nil
}

func (r *HearingRepository) UpdateParticipant(ctx context.Context, p domain.HearingParticipant) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE hearing_participants SET checked_in_at = ?, checked_out_at = ?, attended = ? WHERE id = ?`,
		formatNullTime(p.CheckedInAt), formatNullTime(p.CheckedOutAt), boolToInt(p.Attended), p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating hearing participant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rows == 0 {
		return &domain.NotFoundError{Entity: "hearing participant", ID: p.ID}
	}

	return nil
}

func scanHearing(row scanner) (domain.Hearing, error) {
	var h domain.Hearing
	var date, startTime, endTime, status, createdAt, updatedAt string

	err := row.Scan(
		&h.ID, &h.CaseID, &h.Number, &date, &startTime, &endTime,
		&h.Location, &status, &h.PresidingOfficerID, &h.Notes, &h.RescheduledToID,
		&h.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hearing{}, err
		}
		return domain.Hearing{}, fmt.Errorf("scanning hearing: %w", err)
	}

	h.Date, _ = time.Parse(dateFormat, date)
	h.StartTime = parseTime(startTime)
	h.EndTime = parseTime(endTime)
	h.Status = domain.Status(status)
	h.CreatedAt = parseTime(createdAt)
	h.UpdatedAt = parseTime(updatedAt)

	return h, nil
}
