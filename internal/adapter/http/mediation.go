package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// MediationResponse is the API representation of a mediation session.
type MediationResponse struct {
	ID               string `json:"id" doc:"Unique identifier"`
	CaseID           string `json:"case_id" doc:"Owning case"`
	Status           string `json:"status" doc:"Lifecycle state"`
	MediatorID       string `json:"mediator_id" doc:"Assigned mediator"`
	ScheduledDate    string `json:"scheduled_date,omitempty" doc:"Scheduled session date (ISO 8601)"`
	AgreementReached bool   `json:"agreement_reached" doc:"Whether the parties reached agreement"`
	AgreementSummary string `json:"agreement_summary,omitempty" doc:"Recorded agreement terms"`
	Notes            string `json:"notes,omitempty" doc:"Session notes"`
	CreatedAt        string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt        string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toMediationResponse(m domain.MediationSession) MediationResponse {
	return MediationResponse{
		ID:               m.ID,
		CaseID:           m.CaseID,
		Status:           string(m.Status),
		MediatorID:       m.MediatorID,
		ScheduledDate:    formatTimePtr(m.ScheduledDate),
		AgreementReached: m.AgreementReached,
		AgreementSummary: m.AgreementSummary,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt.Format(timeFormat),
		UpdatedAt:        m.UpdatedAt.Format(timeFormat),
	}
}

// --- Request ---

type RequestMediationInput struct {
	Body struct {
		CaseID     string `json:"case_id" minLength:"1" doc:"Case to mediate"`
		MediatorID string `json:"mediator_id" minLength:"1" doc:"Mediator to run the session"`
		Actor      string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type MediationOutput struct {
	Body MediationResponse
}

type GetMediationInput struct {
	ID string `path:"id" doc:"Mediation session ID"`
}

type ListCaseMediationsInput struct {
	CaseID string `path:"caseID" doc:"Case ID"`
}

type ListMediationsOutput struct {
	Body []MediationResponse
}

// --- Schedule / events ---

type ScheduleMediationInput struct {
	ID   string `path:"id" doc:"Mediation session ID"`
	Body struct {
		Date  time.Time `json:"date" doc:"Session date"`
		Actor string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type MediationEventInput struct {
	ID   string `path:"id" doc:"Mediation session ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger" enum:"begin,adjourn,resume,complete,cancel,fail,succeed"`
		Notes string `json:"notes,omitempty" doc:"Session notes"`
		Actor string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

// --- Outcome ---

type RecordOutcomeInput struct {
	ID   string `path:"id" doc:"Mediation session ID"`
	Body struct {
		AgreementSummary string `json:"agreement_summary" minLength:"1" doc:"Agreed terms"`
		Actor            string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type RecordOutcomeOutput struct {
	Body struct {
		Session      MediationResponse `json:"session" doc:"Updated session"`
		CaseResolved bool              `json:"case_resolved" doc:"Whether the owning case accepted the agreement as its resolution"`
	}
}

// RegisterMediations adds all mediation API routes to the Huma API.
func RegisterMediations(api huma.API, svc *app.MediationService) {
	huma.Register(api, huma.Operation{
		OperationID: "request-mediation",
		Method:      http.MethodPost,
		Path:        "/api/v1/mediations",
		Summary:     "Request a mediation session for a case",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *RequestMediationInput) (*MediationOutput, error) {
		m, err := svc.Request(ctx, input.Body.CaseID, input.Body.MediatorID, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &MediationOutput{Body: toMediationResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-mediation",
		Method:      http.MethodGet,
		Path:        "/api/v1/mediations/{id}",
		Summary:     "Get a mediation session by ID",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *GetMediationInput) (*MediationOutput, error) {
		m, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MediationOutput{Body: toMediationResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-case-mediations",
		Method:      http.MethodGet,
		Path:        "/api/v1/cases/{caseID}/mediations",
		Summary:     "List mediation sessions for a case",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *ListCaseMediationsInput) (*ListMediationsOutput, error) {
		sessions, err := svc.ListByCase(ctx, input.CaseID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]MediationResponse, len(sessions))
		for i, m := range sessions {
			resp[i] = toMediationResponse(m)
		}
		return &ListMediationsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "schedule-mediation",
		Method:      http.MethodPost,
		Path:        "/api/v1/mediations/{id}/schedule",
		Summary:     "Schedule a requested mediation session",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *ScheduleMediationInput) (*MediationOutput, error) {
		m, err := svc.Schedule(ctx, input.ID, input.Body.Date, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &MediationOutput{Body: toMediationResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-mediation",
		Method:      http.MethodPost,
		Path:        "/api/v1/mediations/{id}/events",
		Summary:     "Trigger a mediation lifecycle event",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *MediationEventInput) (*MediationOutput, error) {
		m, err := svc.Advance(ctx, input.ID, domain.Event(input.Body.Event), input.Body.Notes, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &MediationOutput{Body: toMediationResponse(m)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-mediation-outcome",
		Method:      http.MethodPost,
		Path:        "/api/v1/mediations/{id}/outcome",
		Summary:     "Record an agreement outcome and propose it to the case",
		Tags:        []string{"Mediations"},
	}, func(ctx context.Context, input *RecordOutcomeInput) (*RecordOutcomeOutput, error) {
		m, caseResolved, err := svc.RecordOutcome(ctx, input.ID, input.Body.AgreementSummary, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		out := &RecordOutcomeOutput{}
		out.Body.Session = toMediationResponse(m)
		out.Body.CaseResolved = caseResolved
		return out, nil
	})
}
