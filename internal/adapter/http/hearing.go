package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// HearingResponse is the API representation of a hearing.
type HearingResponse struct {
	ID                 string `json:"id" doc:"Unique identifier"`
	CaseID             string `json:"case_id" doc:"Owning case"`
	Number             string `json:"number" doc:"Human-readable reference number"`
	Date               string `json:"date" doc:"Calendar date (ISO 8601)"`
	StartTime          string `json:"start_time" doc:"Scheduled start (ISO 8601)"`
	EndTime            string `json:"end_time" doc:"Scheduled end (ISO 8601)"`
	Location           string `json:"location,omitempty" doc:"Venue"`
	Status             string `json:"status" doc:"Lifecycle state"`
	PresidingOfficerID string `json:"presiding_officer_id" doc:"Presiding officer"`
	Notes              string `json:"notes,omitempty" doc:"Outcome or adjournment notes"`
	RescheduledToID    string `json:"rescheduled_to_id,omitempty" doc:"Replacement hearing when rescheduled"`
	CreatedAt          string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt          string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toHearingResponse(h domain.Hearing) HearingResponse {
	return HearingResponse{
		ID:                 h.ID,
		CaseID:             h.CaseID,
		Number:             h.Number,
		Date:               h.Date.Format("2006-01-02"),
		StartTime:          h.StartTime.Format(timeFormat),
		EndTime:            h.EndTime.Format(timeFormat),
		Location:           h.Location,
		Status:             string(h.Status),
		PresidingOfficerID: h.PresidingOfficerID,
		Notes:              h.Notes,
		RescheduledToID:    h.RescheduledToID,
		CreatedAt:          h.CreatedAt.Format(timeFormat),
		UpdatedAt:          h.UpdatedAt.Format(timeFormat),
	}
}

// AttendeeResponse is the API representation of a hearing participant.
type AttendeeResponse struct {
	ID           string `json:"id" doc:"Unique identifier"`
	HearingID    string `json:"hearing_id" doc:"Owning hearing"`
	PartyID      string `json:"party_id,omitempty" doc:"External party ID"`
	Name         string `json:"name" doc:"Display name"`
	Role         string `json:"role" doc:"Participant role"`
	CheckedInAt  string `json:"checked_in_at,omitempty" doc:"Check-in timestamp (ISO 8601)"`
	CheckedOutAt string `json:"checked_out_at,omitempty" doc:"Check-out timestamp (ISO 8601)"`
	Attended     bool   `json:"attended" doc:"Whether attendance was confirmed"`
}

func toAttendeeResponse(p domain.HearingParticipant) AttendeeResponse {
	return AttendeeResponse{
		ID:           p.ID,
		HearingID:    p.HearingID,
		PartyID:      p.PartyID,
		Name:         p.Name,
		Role:         string(p.Role),
		CheckedInAt:  formatTimePtr(p.CheckedInAt),
		CheckedOutAt: formatTimePtr(p.CheckedOutAt),
		Attended:     p.Attended,
	}
}

// --- Schedule ---

type ScheduleHearingInput struct {
	Body struct {
		CaseID             string    `json:"case_id" minLength:"1" doc:"Case to hear"`
		Date               time.Time `json:"date" doc:"Calendar date"`
		StartTime          time.Time `json:"start_time" doc:"Scheduled start"`
		EndTime            time.Time `json:"end_time" doc:"Scheduled end"`
		Location           string    `json:"location,omitempty" doc:"Venue"`
		PresidingOfficerID string    `json:"presiding_officer_id" minLength:"1" doc:"Presiding officer"`
		Actor              string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type HearingOutput struct {
	Body HearingResponse
}

type GetHearingInput struct {
	ID string `path:"id" doc:"Hearing ID"`
}

type ListCaseHearingsInput struct {
	CaseID string `path:"caseID" doc:"Case ID"`
}

type ListHearingsOutput struct {
	Body []HearingResponse
}

// --- Events ---

type HearingEventInput struct {
	ID   string `path:"id" doc:"Hearing ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"begin,adjourn,complete,cancel"`
		Notes string `json:"notes,omitempty" doc:"Outcome or adjournment notes"`
		Actor string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type MoveHearingInput struct {
	ID   string `path:"id" doc:"Hearing ID"`
	Body struct {
		Date      time.Time `json:"date" doc:"New calendar date"`
		StartTime time.Time `json:"start_time" doc:"New scheduled start"`
		EndTime   time.Time `json:"end_time" doc:"New scheduled end"`
		Actor     string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

// --- Participants ---

type AddAttendeeInput struct {
	ID   string `path:"id" doc:"Hearing ID"`
	Body struct {
		PartyID string `json:"party_id,omitempty" doc:"External party ID"`
		Name    string `json:"name" minLength:"1" doc:"Display name"`
		Role    string `json:"role" doc:"Participant role" enum:"complainant,respondent,witness,representative"`
	}
}

type AttendeeOutput struct {
	Body AttendeeResponse
}

type AttendeeEventInput struct {
	ID string `path:"id" doc:"Hearing participant ID"`
}

// RegisterHearings adds all hearing API routes to the Huma API.
func RegisterHearings(api huma.API, svc *app.HearingService) {
	huma.Register(api, huma.Operation{
		OperationID: "schedule-hearing",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearings",
		Summary:     "Schedule a hearing for a case",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *ScheduleHearingInput) (*HearingOutput, error) {
		h, err := svc.Schedule(ctx, app.ScheduleHearingInput{
			CaseID:             input.Body.CaseID,
			Date:               input.Body.Date,
			StartTime:          input.Body.StartTime,
			EndTime:            input.Body.EndTime,
			Location:           input.Body.Location,
			PresidingOfficerID: input.Body.PresidingOfficerID,
			Actor:              input.Body.Actor,
		})
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &HearingOutput{Body: toHearingResponse(h)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-hearing",
		Method:      http.MethodGet,
		Path:        "/api/v1/hearings/{id}",
		Summary:     "Get a hearing by ID",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *GetHearingInput) (*HearingOutput, error) {
		h, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &HearingOutput{Body: toHearingResponse(h)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-case-hearings",
		Method:      http.MethodGet,
		Path:        "/api/v1/cases/{caseID}/hearings",
		Summary:     "List hearings for a case",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *ListCaseHearingsInput) (*ListHearingsOutput, error) {
		hearings, err := svc.ListByCase(ctx, input.CaseID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]HearingResponse, len(hearings))
		for i, h := range hearings {
			resp[i] = toHearingResponse(h)
		}
		return &ListHearingsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-hearing",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearings/{id}/events",
		Summary:     "Trigger a hearing lifecycle event",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *HearingEventInput) (*HearingOutput, error) {
		var h domain.Hearing
		var err error
		switch domain.Event(input.Body.Event) {
		case domain.EventHearingBegin:
			h, err = svc.Begin(ctx, input.ID, input.Body.Actor)
		case domain.EventHearingAdjourn:
			h, err = svc.Adjourn(ctx, input.ID, input.Body.Notes, input.Body.Actor)
		case domain.EventHearingComplete:
			h, err = svc.Complete(ctx, input.ID, input.Body.Notes, input.Body.Actor)
		case domain.EventHearingCancel:
			h, err = svc.Cancel(ctx, input.ID, input.Body.Actor)
		default:
			return nil, huma.Error422UnprocessableEntity("unknown event " + input.Body.Event)
		}
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &HearingOutput{Body: toHearingResponse(h)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reschedule-hearing",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearings/{id}/reschedule",
		Summary:     "Reschedule a hearing to a new slot",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *MoveHearingInput) (*HearingOutput, error) {
		h, err := svc.Reschedule(ctx, input.ID, input.Body.Date, input.Body.StartTime, input.Body.EndTime, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &HearingOutput{Body: toHearingResponse(h)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resume-hearing",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearings/{id}/resume",
		Summary:     "Resume an adjourned hearing on a new slot",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *MoveHearingInput) (*HearingOutput, error) {
		h, err := svc.Resume(ctx, input.ID, input.Body.Date, input.Body.StartTime, input.Body.EndTime, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &HearingOutput{Body: toHearingResponse(h)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-hearing-participant",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearings/{id}/participants",
		Summary:     "Summon a participant to a hearing",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *AddAttendeeInput) (*AttendeeOutput, error) {
		p, err := svc.AddParticipant(ctx, input.ID, input.Body.PartyID, input.Body.Name, domain.ParticipantRole(input.Body.Role))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AttendeeOutput{Body: toAttendeeResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-in-participant",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearing-participants/{id}/check-in",
		Summary:     "Check a participant in to a hearing",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *AttendeeEventInput) (*AttendeeOutput, error) {
		p, err := svc.CheckIn(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AttendeeOutput{Body: toAttendeeResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-out-participant",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearing-participants/{id}/check-out",
		Summary:     "Check a participant out of a hearing",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *AttendeeEventInput) (*AttendeeOutput, error) {
		p, err := svc.CheckOut(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AttendeeOutput{Body: toAttendeeResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "confirm-participant-attendance",
		Method:      http.MethodPost,
		Path:        "/api/v1/hearing-participants/{id}/attendance",
		Summary:     "Confirm a participant attended",
		Tags:        []string{"Hearings"},
	}, func(ctx context.Context, input *AttendeeEventInput) (*AttendeeOutput, error) {
		p, err := svc.MarkAttended(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AttendeeOutput{Body: toAttendeeResponse(p)}, nil
	})
}
