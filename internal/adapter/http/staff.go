package http

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// OfficerResponse is the API representation of a case officer.
type OfficerResponse struct {
	ID                 string `json:"id" doc:"Unique identifier"`
	Name               string `json:"name" doc:"Display name"`
	IsActive           bool   `json:"is_active" doc:"Whether the officer may act"`
	CanAssignCases     bool   `json:"can_assign_cases" doc:"Case assignment capability"`
	CanCloseCases      bool   `json:"can_close_cases" doc:"Case closure capability"`
	CanPresideHearings bool   `json:"can_preside_hearings" doc:"Hearing capability"`
}

func toOfficerResponse(o domain.Officer) OfficerResponse {
	return OfficerResponse{
		ID:                 o.ID,
		Name:               o.Name,
		IsActive:           o.IsActive,
		CanAssignCases:     o.CanAssignCases,
		CanCloseCases:      o.CanCloseCases,
		CanPresideHearings: o.CanPresideHearings,
	}
}

// MediatorResponse is the API representation of a mediator.
type MediatorResponse struct {
	ID                 string `json:"id" doc:"Unique identifier"`
	Name               string `json:"name" doc:"Display name"`
	IsActive           bool   `json:"is_active" doc:"Whether the mediator may take cases"`
	MaxActiveCases     int    `json:"max_active_cases" doc:"Caseload ceiling"`
	CurrentActiveCases int    `json:"current_active_cases" doc:"Active assigned cases"`
}

func toMediatorResponse(m domain.Mediator) MediatorResponse {
	return MediatorResponse{
		ID:                 m.ID,
		Name:               m.Name,
		IsActive:           m.IsActive,
		MaxActiveCases:     m.MaxActiveCases,
		CurrentActiveCases: m.CurrentActiveCases,
	}
}

type RegisterOfficerInput struct {
	Body struct {
		Name               string `json:"name" minLength:"1" doc:"Display name"`
		CanAssignCases     bool   `json:"can_assign_cases,omitempty" doc:"Case assignment capability"`
		CanCloseCases      bool   `json:"can_close_cases,omitempty" doc:"Case closure capability"`
		CanPresideHearings bool   `json:"can_preside_hearings,omitempty" doc:"Hearing capability"`
	}
}

type OfficerOutput struct {
	Body OfficerResponse
}

type RegisterMediatorInput struct {
	Body struct {
		Name           string `json:"name" minLength:"1" doc:"Display name"`
		MaxActiveCases int    `json:"max_active_cases" minimum:"1" doc:"Caseload ceiling"`
	}
}

type MediatorOutput struct {
	Body MediatorResponse
}

// RegisterStaff adds officer and mediator registration routes to the Huma
// API.
func RegisterStaff(api huma.API, svc *app.CaseService) {
	huma.Register(api, huma.Operation{
		OperationID: "register-officer",
		Method:      http.MethodPost,
		Path:        "/api/v1/officers",
		Summary:     "Register a case officer",
		Tags:        []string{"Staff"},
	}, func(ctx context.Context, input *RegisterOfficerInput) (*OfficerOutput, error) {
		o, err := svc.RegisterOfficer(ctx, domain.Officer{
			Name:               input.Body.Name,
			IsActive:           true,
			CanAssignCases:     input.Body.CanAssignCases,
			CanCloseCases:      input.Body.CanCloseCases,
			CanPresideHearings: input.Body.CanPresideHearings,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &OfficerOutput{Body: toOfficerResponse(o)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "register-mediator",
		Method:      http.MethodPost,
		Path:        "/api/v1/mediators",
		Summary:     "Register a mediator",
		Tags:        []string{"Staff"},
	}, func(ctx context.Context, input *RegisterMediatorInput) (*MediatorOutput, error) {
		m, err := svc.RegisterMediator(ctx, domain.Mediator{
			Name:           input.Body.Name,
			IsActive:       true,
			MaxActiveCases: input.Body.MaxActiveCases,
		})
		if err != nil {
			return nil, toHumaError(err)
		}
		return &MediatorOutput{Body: toMediatorResponse(m)}, nil
	})
}
