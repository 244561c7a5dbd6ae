package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// CaseResponse is the API representation of a case.
type CaseResponse struct {
	ID                 string `json:"id" doc:"Unique identifier"`
	Number             string `json:"number" doc:"Human-readable reference number"`
	ComplainantID      string `json:"complainant_id" doc:"Complainant party ID"`
	ComplainantName    string `json:"complainant_name" doc:"Complainant display name"`
	RespondentID       string `json:"respondent_id" doc:"Respondent party ID"`
	RespondentName     string `json:"respondent_name" doc:"Respondent display name"`
	Type               string `json:"type" doc:"Case category"`
	Status             string `json:"status" doc:"Lifecycle state"`
	Priority           string `json:"priority" doc:"Handling priority"`
	Description        string `json:"description,omitempty" doc:"Complaint description"`
	PropertyID         string `json:"property_id,omitempty" doc:"Disputed property ID"`
	AgreementID        string `json:"agreement_id,omitempty" doc:"Disputed agreement ID"`
	AssignedOfficerID  string `json:"assigned_officer_id,omitempty" doc:"Assigned case officer"`
	AssignedMediatorID string `json:"assigned_mediator_id,omitempty" doc:"Assigned mediator"`
	Resolution         string `json:"resolution,omitempty" doc:"Recorded resolution"`
	AwardedAmount      *int64 `json:"awarded_amount,omitempty" doc:"Awarded amount in minor units"`
	SubmittedAt        string `json:"submitted_at,omitempty" doc:"Submission timestamp (ISO 8601)"`
	ClosedAt           string `json:"closed_at,omitempty" doc:"Closure timestamp (ISO 8601)"`
	IsActive           bool   `json:"is_active" doc:"Whether the case is still open"`
	CreatedAt          string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt          string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toCaseResponse(c domain.Case) CaseResponse {
	resp := CaseResponse{
		ID:                 c.ID,
		Number:             c.Number,
		ComplainantID:      c.Complainant.ID,
		ComplainantName:    c.Complainant.Name,
		RespondentID:       c.Respondent.ID,
		RespondentName:     c.Respondent.Name,
		Type:               string(c.Type),
		Status:             string(c.Status),
		Priority:           string(c.Priority),
		Description:        c.Description,
		PropertyID:         c.PropertyID,
		AgreementID:        c.AgreementID,
		AssignedOfficerID:  c.AssignedOfficerID,
		AssignedMediatorID: c.AssignedMediatorID,
		AwardedAmount:      c.AwardedAmount,
		SubmittedAt:        formatTimePtr(c.SubmittedAt),
		ClosedAt:           formatTimePtr(c.ClosedAt),
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt.Format(timeFormat),
		UpdatedAt:          c.UpdatedAt.Format(timeFormat),
	}
	if c.Resolution != nil {
		resp.Resolution = string(*c.Resolution)
	}
	return resp
}

// ParticipantResponse is the API representation of a case participant.
type ParticipantResponse struct {
	ID      string `json:"id" doc:"Unique identifier"`
	CaseID  string `json:"case_id" doc:"Owning case ID"`
	PartyID string `json:"party_id,omitempty" doc:"External party ID"`
	Name    string `json:"name" doc:"Display name"`
	Role    string `json:"role" doc:"Participant role"`
	AddedAt string `json:"added_at" doc:"Roster timestamp (ISO 8601)"`
}

func toParticipantResponse(p domain.CaseParticipant) ParticipantResponse {
	return ParticipantResponse{
		ID:      p.ID,
		CaseID:  p.CaseID,
		PartyID: p.PartyID,
		Name:    p.Name,
		Role:    string(p.Role),
		AddedAt: p.AddedAt.Format(timeFormat),
	}
}

// --- Open Case ---

type OpenCaseInput struct {
	Body struct {
		ComplainantID      string `json:"complainant_id" minLength:"1" doc:"Complainant party ID"`
		ComplainantName    string `json:"complainant_name" minLength:"1" doc:"Complainant display name"`
		ComplainantContact string `json:"complainant_contact,omitempty" doc:"Complainant contact details, required before submission"`
		RespondentID       string `json:"respondent_id" minLength:"1" doc:"Respondent party ID"`
		RespondentName     string `json:"respondent_name" minLength:"1" doc:"Respondent display name"`
		RespondentContact  string `json:"respondent_contact,omitempty" doc:"Respondent contact details, required before submission"`
		Type            string `json:"type" doc:"Case category" enum:"rent_increase,eviction,maintenance,deposit_dispute,lease_violation,harassment,illegal_charges,general_complaint"`
		Priority        string `json:"priority,omitempty" doc:"Handling priority" enum:"low,medium,high,urgent"`
		Description     string `json:"description,omitempty" doc:"Complaint description"`
		PropertyID      string `json:"property_id,omitempty" doc:"Disputed property ID"`
		AgreementID     string `json:"agreement_id,omitempty" doc:"Disputed agreement ID"`
		Actor           string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type OpenCaseOutput struct {
	Body CaseResponse
}

// --- Get / List ---

type GetCaseInput struct {
	ID string `path:"id" doc:"Case ID"`
}

type GetCaseOutput struct {
	Body CaseResponse
}

type ListCasesInput struct {
	Status    string `query:"status" required:"false" doc:"Filter by status"`
	OfficerID string `query:"officer_id" required:"false" doc:"Filter by assigned officer"`
	Limit     int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset    int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListCasesOutput struct {
	Body []CaseResponse
}

// --- Events ---

type CaseEventInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		Event string `json:"event" doc:"Lifecycle event to trigger; closure has its own route" enum:"submit,begin_review,open_investigation,schedule_hearing,begin_hearing,await_decision,withdraw,dismiss,reopen"`
		Actor string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type CaseEventOutput struct {
	Body CaseResponse
}

// --- Assignment ---

type AssignOfficerInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		OfficerID string `json:"officer_id" minLength:"1" doc:"Officer to assign"`
		Actor     string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type AssignMediatorInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		MediatorID string `json:"mediator_id" minLength:"1" doc:"Mediator to assign"`
		Actor      string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

// --- Resolution / closure ---

type ResolveCaseInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		Resolution    string `json:"resolution" doc:"Resolution kind" enum:"mediation_agreement,rent_adjustment,compensation_award,complaint_upheld,complaint_rejected,settlement"`
		AwardedAmount *int64 `json:"awarded_amount,omitempty" doc:"Awarded amount in minor units, required for monetary resolutions"`
		Actor         string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type CloseCaseInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		OfficerID string `json:"officer_id" minLength:"1" doc:"Officer closing the case"`
		Actor     string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

// --- Participants ---

type AddParticipantInput struct {
	ID   string `path:"id" doc:"Case ID"`
	Body struct {
		PartyID string `json:"party_id,omitempty" doc:"External party ID"`
		Name    string `json:"name" minLength:"1" doc:"Display name"`
		Role    string `json:"role" doc:"Participant role" enum:"complainant,respondent,witness,representative"`
	}
}

type AddParticipantOutput struct {
	Body ParticipantResponse
}

type ListParticipantsInput struct {
	ID string `path:"id" doc:"Case ID"`
}

type ListParticipantsOutput struct {
	Body []ParticipantResponse
}

// RegisterCases adds all case API routes to the Huma API.
func RegisterCases(api huma.API, svc *app.CaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "open-case",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases",
		Summary:     "File a new case",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *OpenCaseInput) (*OpenCaseOutput, error) {
		c, err := svc.Open(ctx, app.OpenCaseInput{
			Complainant: domain.Party{ID: input.Body.ComplainantID, Name: input.Body.ComplainantName, Contact: input.Body.ComplainantContact},
			Respondent:  domain.Party{ID: input.Body.RespondentID, Name: input.Body.RespondentName, Contact: input.Body.RespondentContact},
			Type:        domain.CaseType(input.Body.Type),
			Priority:    domain.CasePriority(input.Body.Priority),
			Description: input.Body.Description,
			PropertyID:  input.Body.PropertyID,
			AgreementID: input.Body.AgreementID,
			Actor:       input.Body.Actor,
		})
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &OpenCaseOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-case",
		Method:      http.MethodGet,
		Path:        "/api/v1/cases/{id}",
		Summary:     "Get a case by ID",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *GetCaseInput) (*GetCaseOutput, error) {
		c, err := svc.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetCaseOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-cases",
		Method:      http.MethodGet,
		Path:        "/api/v1/cases",
		Summary:     "List cases",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *ListCasesInput) (*ListCasesOutput, error) {
		filter := domain.CaseFilter{
			OfficerID: input.OfficerID,
			Limit:     input.Limit,
			Offset:    input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		cases, err := svc.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]CaseResponse, len(cases))
		for i, c := range cases {
			resp[i] = toCaseResponse(c)
		}
		return &ListCasesOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-case",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/events",
		Summary:     "Trigger a case lifecycle event",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *CaseEventInput) (*CaseEventOutput, error) {
		c, err := svc.Advance(ctx, input.ID, domain.Event(input.Body.Event), input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &CaseEventOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-case-officer",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/officer",
		Summary:     "Assign a case officer",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *AssignOfficerInput) (*CaseEventOutput, error) {
		c, err := svc.AssignOfficer(ctx, input.ID, input.Body.OfficerID, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &CaseEventOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "assign-case-mediator",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/mediator",
		Summary:     "Assign a mediator",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *AssignMediatorInput) (*CaseEventOutput, error) {
		c, err := svc.AssignMediator(ctx, input.ID, input.Body.MediatorID, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &CaseEventOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-case",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/resolution",
		Summary:     "Record a case resolution",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *ResolveCaseInput) (*CaseEventOutput, error) {
		c, err := svc.Resolve(ctx, input.ID, domain.Resolution(input.Body.Resolution), input.Body.AwardedAmount, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &CaseEventOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "close-case",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/closure",
		Summary:     "Close a resolved case",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *CloseCaseInput) (*CaseEventOutput, error) {
		c, err := svc.Close(ctx, input.ID, input.Body.OfficerID, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &CaseEventOutput{Body: toCaseResponse(c)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-case-participant",
		Method:      http.MethodPost,
		Path:        "/api/v1/cases/{id}/participants",
		Summary:     "Add a participant to the case roster",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *AddParticipantInput) (*AddParticipantOutput, error) {
		p, err := svc.AddParticipant(ctx, input.ID, input.Body.PartyID, input.Body.Name, domain.ParticipantRole(input.Body.Role))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AddParticipantOutput{Body: toParticipantResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-case-participants",
		Method:      http.MethodGet,
		Path:        "/api/v1/cases/{id}/participants",
		Summary:     "List the case participant roster",
		Tags:        []string{"Cases"},
	}, func(ctx context.Context, input *ListParticipantsInput) (*ListParticipantsOutput, error) {
		parts, err := svc.ListParticipants(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]ParticipantResponse, len(parts))
		for i, p := range parts {
			resp[i] = toParticipantResponse(p)
		}
		return &ListParticipantsOutput{Body: resp}, nil
	})
}
