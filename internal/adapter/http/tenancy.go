package http

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// PropertyResponse is the API representation of a registered property.
type PropertyResponse struct {
	ID          string `json:"id" doc:"Unique identifier"`
	Code        string `json:"code" doc:"Registry code"`
	LandlordID  string `json:"landlord_id" doc:"Owning landlord"`
	Status      string `json:"status" doc:"Availability state"`
	MonthlyRent int64  `json:"monthly_rent" doc:"Registered rent in minor units"`
	Location    string `json:"location,omitempty" doc:"Street address"`
	CreatedAt   string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt   string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toPropertyResponse(p domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:          p.ID,
		Code:        p.Code,
		LandlordID:  p.LandlordID,
		Status:      string(p.Status),
		MonthlyRent: p.MonthlyRent,
		Location:    p.Location,
		CreatedAt:   p.CreatedAt.Format(timeFormat),
		UpdatedAt:   p.UpdatedAt.Format(timeFormat),
	}
}

// AgreementResponse is the API representation of a tenancy agreement.
type AgreementResponse struct {
	ID                string `json:"id" doc:"Unique identifier"`
	Number            string `json:"number" doc:"Human-readable reference number"`
	PropertyID        string `json:"property_id" doc:"Leased property"`
	LandlordID        string `json:"landlord_id" doc:"Landlord party"`
	TenantID          string `json:"tenant_id" doc:"Tenant party"`
	MonthlyRent       int64  `json:"monthly_rent" doc:"Agreed rent in minor units"`
	StartDate         string `json:"start_date" doc:"Lease start (ISO 8601)"`
	EndDate           string `json:"end_date" doc:"Lease end (ISO 8601)"`
	Status            string `json:"status" doc:"Lifecycle state"`
	PaymentFrequency  string `json:"payment_frequency" doc:"Rent payment cadence"`
	TerminationReason string `json:"termination_reason,omitempty" doc:"Reason recorded on termination"`
	SuspensionReason  string `json:"suspension_reason,omitempty" doc:"Reason recorded on suspension"`
	ActualVacateDate  string `json:"actual_vacate_date,omitempty" doc:"Date the tenant vacated (ISO 8601)"`
	RenewedFromID     string `json:"renewed_from_id,omitempty" doc:"Predecessor agreement when renewed"`
	CreatedAt         string `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt         string `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toAgreementResponse(a domain.TenancyAgreement) AgreementResponse {
	return AgreementResponse{
		ID:                a.ID,
		Number:            a.Number,
		PropertyID:        a.PropertyID,
		LandlordID:        a.LandlordID,
		TenantID:          a.TenantID,
		MonthlyRent:       a.MonthlyRent,
		StartDate:         a.StartDate.Format(timeFormat),
		EndDate:           a.EndDate.Format(timeFormat),
		Status:            string(a.Status),
		PaymentFrequency:  string(a.PaymentFrequency),
		TerminationReason: a.TerminationReason,
		SuspensionReason:  a.SuspensionReason,
		ActualVacateDate:  formatTimePtr(a.ActualVacateDate),
		RenewedFromID:     a.RenewedFromID,
		CreatedAt:         a.CreatedAt.Format(timeFormat),
		UpdatedAt:         a.UpdatedAt.Format(timeFormat),
	}
}

// PaymentResponse is the API representation of a rent payment.
type PaymentResponse struct {
	ID          string `json:"id" doc:"Unique identifier"`
	AgreementID string `json:"agreement_id" doc:"Owning agreement"`
	Amount      int64  `json:"amount" doc:"Amount in minor units"`
	PaymentDate string `json:"payment_date" doc:"Recording timestamp (ISO 8601)"`
	PeriodStart string `json:"period_start" doc:"Covered period start (ISO 8601)"`
	PeriodEnd   string `json:"period_end" doc:"Covered period end (ISO 8601)"`
	Method      string `json:"method,omitempty" doc:"Payment method"`
	Status      string `json:"status" doc:"Settlement state"`
}

func toPaymentResponse(p domain.RentPayment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		AgreementID: p.AgreementID,
		Amount:      p.Amount,
		PaymentDate: p.PaymentDate.Format(timeFormat),
		PeriodStart: p.PeriodStart.Format(timeFormat),
		PeriodEnd:   p.PeriodEnd.Format(timeFormat),
		Method:      p.Method,
		Status:      string(p.Status),
	}
}

// --- Properties ---

type RegisterPropertyInput struct {
	Body struct {
		Code        string `json:"code" minLength:"1" doc:"Registry code"`
		LandlordID  string `json:"landlord_id" minLength:"1" doc:"Owning landlord"`
		MonthlyRent int64  `json:"monthly_rent" minimum:"1" doc:"Registered rent in minor units"`
		Location    string `json:"location,omitempty" doc:"Street address"`
	}
}

type PropertyOutput struct {
	Body PropertyResponse
}

type GetPropertyInput struct {
	ID string `path:"id" doc:"Property ID"`
}

// --- Agreements ---

type CreateAgreementInput struct {
	Body struct {
		PropertyID  string    `json:"property_id" minLength:"1" doc:"Leased property"`
		LandlordID  string    `json:"landlord_id" minLength:"1" doc:"Landlord party"`
		TenantID    string    `json:"tenant_id" minLength:"1" doc:"Tenant party"`
		MonthlyRent int64     `json:"monthly_rent" minimum:"1" doc:"Agreed rent in minor units"`
		StartDate   time.Time `json:"start_date" doc:"Lease start"`
		EndDate     time.Time `json:"end_date" doc:"Lease end"`
		Frequency   string    `json:"payment_frequency,omitempty" default:"monthly" doc:"Rent payment cadence" enum:"monthly,quarterly,annually"`
		Actor       string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type AgreementOutput struct {
	Body AgreementResponse
}

type GetAgreementInput struct {
	ID string `path:"id" doc:"Agreement ID"`
}

type ListAgreementsInput struct {
	Status     string `query:"status" required:"false" doc:"Filter by status"`
	PropertyID string `query:"property_id" required:"false" doc:"Filter by property"`
	Limit      int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset     int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListAgreementsOutput struct {
	Body []AgreementResponse
}

type AgreementEventInput struct {
	ID   string `path:"id" doc:"Agreement ID"`
	Body struct {
		Event  string `json:"event" doc:"Lifecycle event to trigger" enum:"activate,expire,terminate,suspend,reinstate"`
		Reason string `json:"reason,omitempty" doc:"Reason, required for terminate, suspend and reinstate"`
		Actor  string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type RenewAgreementInput struct {
	ID   string `path:"id" doc:"Agreement ID"`
	Body struct {
		StartDate   time.Time `json:"start_date" doc:"Successor lease start"`
		EndDate     time.Time `json:"end_date" doc:"Successor lease end"`
		MonthlyRent int64     `json:"monthly_rent" minimum:"1" doc:"Successor rent in minor units"`
		Actor       string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type NextPaymentDateOutput struct {
	Body struct {
		NextPaymentDate string `json:"next_payment_date,omitempty" doc:"Next rent due date (ISO 8601), empty when the agreement is not active"`
	}
}

// --- Payments ---

type RecordPaymentInput struct {
	ID   string `path:"id" doc:"Agreement ID"`
	Body struct {
		Amount      int64     `json:"amount" minimum:"1" doc:"Amount in minor units"`
		PeriodStart time.Time `json:"period_start" doc:"Covered period start"`
		PeriodEnd   time.Time `json:"period_end" doc:"Covered period end"`
		Method      string    `json:"method,omitempty" doc:"Payment method"`
		Actor       string    `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type PaymentOutput struct {
	Body PaymentResponse
}

type SettlePaymentInput struct {
	ID   string `path:"id" doc:"Payment ID"`
	Body struct {
		Event string `json:"event" doc:"Settlement event" enum:"confirm,confirm_partial,fail,refund"`
		Actor string `json:"actor,omitempty" doc:"Acting user for the audit trail"`
	}
}

type ListPaymentsInput struct {
	ID string `path:"id" doc:"Agreement ID"`
}

type ListPaymentsOutput struct {
	Body []PaymentResponse
}

// RegisterTenancies adds property, agreement and payment API routes to the
// Huma API.
func RegisterTenancies(api huma.API, svc *app.TenancyService) {
	huma.Register(api, huma.Operation{
		OperationID: "register-property",
		Method:      http.MethodPost,
		Path:        "/api/v1/properties",
		Summary:     "Register a property",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *RegisterPropertyInput) (*PropertyOutput, error) {
		p, err := svc.RegisterProperty(ctx, input.Body.Code, input.Body.LandlordID, input.Body.MonthlyRent, input.Body.Location)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-property",
		Method:      http.MethodGet,
		Path:        "/api/v1/properties/{id}",
		Summary:     "Get a property by ID",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *GetPropertyInput) (*PropertyOutput, error) {
		p, err := svc.GetProperty(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "retire-property",
		Method:      http.MethodDelete,
		Path:        "/api/v1/properties/{id}",
		Summary:     "Retire a property from the registry",
		Tags:        []string{"Properties"},
	}, func(ctx context.Context, input *GetPropertyInput) (*PropertyOutput, error) {
		p, err := svc.RetireProperty(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &PropertyOutput{Body: toPropertyResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-agreement",
		Method:      http.MethodPost,
		Path:        "/api/v1/agreements",
		Summary:     "Draft a tenancy agreement",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *CreateAgreementInput) (*AgreementOutput, error) {
		a, err := svc.CreateDraft(ctx, app.CreateAgreementInput{
			PropertyID:  input.Body.PropertyID,
			LandlordID:  input.Body.LandlordID,
			TenantID:    input.Body.TenantID,
			MonthlyRent: input.Body.MonthlyRent,
			StartDate:   input.Body.StartDate,
			EndDate:     input.Body.EndDate,
			Frequency:   domain.PaymentFrequency(input.Body.Frequency),
			Actor:       input.Body.Actor,
		})
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &AgreementOutput{Body: toAgreementResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-agreement",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}",
		Summary:     "Get an agreement by ID",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *GetAgreementInput) (*AgreementOutput, error) {
		a, err := svc.GetAgreement(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &AgreementOutput{Body: toAgreementResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-agreements",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements",
		Summary:     "List agreements",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *ListAgreementsInput) (*ListAgreementsOutput, error) {
		filter := domain.TenancyFilter{
			PropertyID: input.PropertyID,
			Limit:      input.Limit,
			Offset:     input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		agreements, err := svc.ListAgreements(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]AgreementResponse, len(agreements))
		for i, a := range agreements {
			resp[i] = toAgreementResponse(a)
		}
		return &ListAgreementsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-agreement",
		Method:      http.MethodPost,
		Path:        "/api/v1/agreements/{id}/events",
		Summary:     "Trigger an agreement lifecycle event",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *AgreementEventInput) (*AgreementOutput, error) {
		var a domain.TenancyAgreement
		var err error
		switch domain.Event(input.Body.Event) {
		case domain.EventTenancyActivate:
			a, err = svc.Activate(ctx, input.ID, input.Body.Actor)
		case domain.EventTenancyExpire:
			a, err = svc.Expire(ctx, input.ID, input.Body.Actor)
		case domain.EventTenancyTerminate:
			a, err = svc.Terminate(ctx, input.ID, input.Body.Reason, input.Body.Actor)
		case domain.EventTenancySuspend:
			a, err = svc.Suspend(ctx, input.ID, input.Body.Reason, input.Body.Actor)
		case domain.EventTenancyReinstate:
			a, err = svc.Reinstate(ctx, input.ID, input.Body.Reason, input.Body.Actor)
		default:
			return nil, huma.Error422UnprocessableEntity("unknown event " + input.Body.Event)
		}
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &AgreementOutput{Body: toAgreementResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "renew-agreement",
		Method:      http.MethodPost,
		Path:        "/api/v1/agreements/{id}/renewal",
		Summary:     "Renew an agreement into a draft successor",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *RenewAgreementInput) (*AgreementOutput, error) {
		a, err := svc.Renew(ctx, input.ID, input.Body.StartDate, input.Body.EndDate, input.Body.MonthlyRent, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &AgreementOutput{Body: toAgreementResponse(a)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "next-payment-date",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}/next-payment-date",
		Summary:     "Compute the next rent due date",
		Tags:        []string{"Agreements"},
	}, func(ctx context.Context, input *GetAgreementInput) (*NextPaymentDateOutput, error) {
		next, err := svc.NextPaymentDate(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &NextPaymentDateOutput{}
		out.Body.NextPaymentDate = formatTimePtr(next)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "record-payment",
		Method:      http.MethodPost,
		Path:        "/api/v1/agreements/{id}/payments",
		Summary:     "Record a rent payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *RecordPaymentInput) (*PaymentOutput, error) {
		p, err := svc.RecordPayment(ctx, input.ID, input.Body.Amount, input.Body.PeriodStart, input.Body.PeriodEnd, input.Body.Method, input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &PaymentOutput{Body: toPaymentResponse(p)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-payments",
		Method:      http.MethodGet,
		Path:        "/api/v1/agreements/{id}/payments",
		Summary:     "List payments for an agreement",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *ListPaymentsInput) (*ListPaymentsOutput, error) {
		payments, err := svc.ListPayments(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		resp := make([]PaymentResponse, len(payments))
		for i, p := range payments {
			resp[i] = toPaymentResponse(p)
		}
		return &ListPaymentsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "settle-payment",
		Method:      http.MethodPost,
		Path:        "/api/v1/payments/{id}/events",
		Summary:     "Settle a pending payment",
		Tags:        []string{"Payments"},
	}, func(ctx context.Context, input *SettlePaymentInput) (*PaymentOutput, error) {
		p, err := svc.SettlePayment(ctx, input.ID, domain.Event(input.Body.Event), input.Body.Actor)
		if err = dropWarning(err); err != nil {
			return nil, toHumaError(err)
		}
		return &PaymentOutput{Body: toPaymentResponse(p)}, nil
	})
}
