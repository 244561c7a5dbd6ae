package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/rcdesk/rentcase/internal/adapter/fsm"
	adapter "github.com/rcdesk/rentcase/internal/adapter/http"
	"github.com/rcdesk/rentcase/internal/adapter/sqlite"
	"github.com/rcdesk/rentcase/internal/app"
	"github.com/rcdesk/rentcase/internal/domain"
)

// directRecorder appends audit entries synchronously, bypassing the job queue.
type directRecorder struct {
	store *sqlite.HistoryStore
}

func (r *directRecorder) Record(ctx context.Context, entry domain.HistoryEntry) error {
	return r.store.Append(ctx, entry)
}

// newTestServer creates a full-stack httptest.Server backed by an in-memory
// SQLite database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	recorder := &directRecorder{store: sqlite.NewHistoryStore(db)}
	clock := app.SystemClock{}

	cases := sqlite.NewCaseRepository(db)
	hearings := sqlite.NewHearingRepository(db)
	staff := sqlite.NewStaffRepository(db)

	caseSvc := app.NewCaseService(app.CaseDeps{
		Cases:     cases,
		Hearings:  hearings,
		Staff:     staff,
		Validator: fsm.Case(),
		History:   recorder,
		Clock:     clock,
		Policy:    domain.Policy{ReopenWindow: 30 * 24 * time.Hour},
	})
	tenancySvc := app.NewTenancyService(app.TenancyDeps{
		Agreements:       sqlite.NewTenancyRepository(db),
		Payments:         sqlite.NewRentPaymentRepository(db),
		Occupancies:      sqlite.NewOccupancyRepository(db),
		Properties:       sqlite.NewPropertyRepository(db),
		Validator:        fsm.Tenancy(),
		PaymentValidator: fsm.Payment(),
		History:          recorder,
		Clock:            clock,
	})
	hearingSvc := app.NewHearingService(app.HearingDeps{
		Hearings:  hearings,
		Staff:     staff,
		Cases:     caseSvc,
		Validator: fsm.Hearing(),
		History:   recorder,
		Clock:     clock,
	})
	mediationSvc := app.NewMediationService(app.MediationDeps{
		Sessions:  sqlite.NewMediationRepository(db),
		Staff:     staff,
		Cases:     caseSvc,
		Validator: fsm.Mediation(),
		History:   recorder,
		Clock:     clock,
	})

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("rentcase", "0.1.0"))
	adapter.RegisterCases(api, caseSvc)
	adapter.RegisterTenancies(api, tenancySvc)
	adapter.RegisterHearings(api, hearingSvc)
	adapter.RegisterMediations(api, mediationSvc)
	adapter.RegisterStaff(api, caseSvc)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv
}

// doRequest performs an HTTP request with context (avoids noctx linter).
func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.Fatalf("creating request: %v", err)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func mustStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d (body: %s)", resp.StatusCode, want, body)
	}
}

// mustCreateCase files a complete case, contacts included, via the API.
func mustCreateCase(t *testing.T, srv *httptest.Server) adapter.CaseResponse {
	t.Helper()

	body := `{
		"complainant_id": "tenant-1",
		"complainant_name": "Ada Quill",
		"complainant_contact": "ada@example.org",
		"respondent_id": "landlord-1",
		"respondent_name": "Bram Stone",
		"respondent_contact": "bram@example.org",
		"type": "rent_increase",
		"description": "Rent raised 40% mid-lease"
	}`
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases", body)
	mustStatus(t, resp, http.StatusOK)

	var c adapter.CaseResponse
	decodeBody(t, resp, &c)
	return c
}

func mustRegisterOfficer(t *testing.T, srv *httptest.Server, name string, canClose, canPreside bool) adapter.OfficerResponse {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"can_assign_cases":true,"can_close_cases":%t,"can_preside_hearings":%t}`, name, canClose, canPreside)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/officers", body)
	mustStatus(t, resp, http.StatusOK)

	var o adapter.OfficerResponse
	decodeBody(t, resp, &o)
	return o
}

func mustRegisterMediator(t *testing.T, srv *httptest.Server, name string, maxCases int) adapter.MediatorResponse {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"max_active_cases":%d}`, name, maxCases)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediators", body)
	mustStatus(t, resp, http.StatusOK)

	var m adapter.MediatorResponse
	decodeBody(t, resp, &m)
	return m
}

// mustCaseEvent triggers a lifecycle event and returns the updated case.
func mustCaseEvent(t *testing.T, srv *httptest.Server, caseID, event string) adapter.CaseResponse {
	t.Helper()

	body := fmt.Sprintf(`{"event":%q}`, event)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+caseID+"/events", body)
	mustStatus(t, resp, http.StatusOK)

	var c adapter.CaseResponse
	decodeBody(t, resp, &c)
	return c
}

// mustCaseAtInvestigation walks a fresh case to the investigation stage with
// the given officer assigned.
func mustCaseAtInvestigation(t *testing.T, srv *httptest.Server, officerID string) adapter.CaseResponse {
	t.Helper()

	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "submit")
	mustCaseEvent(t, srv, c.ID, "begin_review")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/officer", fmt.Sprintf(`{"officer_id":%q}`, officerID))
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	return mustCaseEvent(t, srv, c.ID, "open_investigation")
}

func mustCreateProperty(t *testing.T, srv *httptest.Server, code string) adapter.PropertyResponse {
	t.Helper()

	body := fmt.Sprintf(`{"code":%q,"landlord_id":"landlord-1","monthly_rent":95000,"location":"12 Canal Row"}`, code)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/properties", body)
	mustStatus(t, resp, http.StatusOK)

	var p adapter.PropertyResponse
	decodeBody(t, resp, &p)
	return p
}

func mustCreateAgreement(t *testing.T, srv *httptest.Server, propertyID string) adapter.AgreementResponse {
	t.Helper()

	body := fmt.Sprintf(`{
		"property_id": %q,
		"landlord_id": "landlord-1",
		"tenant_id": "tenant-1",
		"monthly_rent": 95000,
		"start_date": "2026-01-01T00:00:00Z",
		"end_date": "2027-01-01T00:00:00Z"
	}`, propertyID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements", body)
	mustStatus(t, resp, http.StatusOK)

	var a adapter.AgreementResponse
	decodeBody(t, resp, &a)
	return a
}

func mustAgreementEvent(t *testing.T, srv *httptest.Server, id, event, reason string) adapter.AgreementResponse {
	t.Helper()

	body := fmt.Sprintf(`{"event":%q,"reason":%q}`, event, reason)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements/"+id+"/events", body)
	mustStatus(t, resp, http.StatusOK)

	var a adapter.AgreementResponse
	decodeBody(t, resp, &a)
	return a
}

func getProperty(t *testing.T, srv *httptest.Server, id string) adapter.PropertyResponse {
	t.Helper()

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/properties/"+id, "")
	mustStatus(t, resp, http.StatusOK)

	var p adapter.PropertyResponse
	decodeBody(t, resp, &p)
	return p
}

// --- Cases ---

func TestCreateCase(t *testing.T) {
	srv := newTestServer(t)
	c := mustCreateCase(t, srv)

	if c.ID == "" {
		t.Error("ID should not be empty")
	}
	if !strings.HasPrefix(c.Number, "CASE-") {
		t.Errorf("Number = %q, want CASE- prefix", c.Number)
	}
	if c.Status != "draft" {
		t.Errorf("Status = %q, want %q", c.Status, "draft")
	}
	if c.Priority != "medium" {
		t.Errorf("Priority = %q, want %q", c.Priority, "medium")
	}
	if !c.IsActive {
		t.Error("IsActive should be true")
	}
	if c.CreatedAt == "" {
		t.Error("CreatedAt should not be empty")
	}
}

func TestCreateCase_UnknownType(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases", `{
		"complainant_id": "t1", "complainant_name": "Ada",
		"respondent_id": "l1", "respondent_name": "Bram",
		"type": "parking_dispute"
	}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestGetCase_NotFound(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodGet, srv.URL+"/api/v1/cases/no-such-case", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

func TestCaseEvent_InvalidTransition(t *testing.T) {
	srv := newTestServer(t)
	c := mustCreateCase(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/events", `{"event":"begin_hearing"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestCaseEvent_CloseOnlyViaClosureRoute(t *testing.T) {
	srv := newTestServer(t)
	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "submit")

	// The events endpoint never closes a case: closure needs an officer with
	// the close capability, which only /closure identifies.
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/events", `{"event":"close"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cases/"+c.ID, "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &c)
	if c.Status != "submitted" {
		t.Errorf("Status = %q, want unchanged %q", c.Status, "submitted")
	}
	if !c.IsActive {
		t.Error("IsActive should still be true")
	}
}

func TestSubmitCase_MissingContact(t *testing.T) {
	srv := newTestServer(t)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases", `{
		"complainant_id": "t1", "complainant_name": "Ada", "complainant_contact": "ada@example.org",
		"respondent_id": "l1", "respondent_name": "Bram",
		"type": "eviction"
	}`)
	mustStatus(t, resp, http.StatusOK)
	var c adapter.CaseResponse
	decodeBody(t, resp, &c)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/events", `{"event":"submit"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestCaseLifecycle_HearingToClosure(t *testing.T) {
	srv := newTestServer(t)
	officer := mustRegisterOfficer(t, srv, "Dana Holt", true, true)
	c := mustCaseAtInvestigation(t, srv, officer.ID)

	if c.Status != "investigation" {
		t.Fatalf("Status = %q, want %q", c.Status, "investigation")
	}
	if c.SubmittedAt == "" {
		t.Error("SubmittedAt should be set after submission")
	}
	if c.AssignedOfficerID != officer.ID {
		t.Errorf("AssignedOfficerID = %q, want %q", c.AssignedOfficerID, officer.ID)
	}

	// Scheduling the first hearing moves the case to the hearing stage.
	hearingBody := fmt.Sprintf(`{
		"case_id": %q,
		"date": "2031-06-10T00:00:00Z",
		"start_time": "2031-06-10T10:00:00Z",
		"end_time": "2031-06-10T12:00:00Z",
		"location": "Tribunal Room 2",
		"presiding_officer_id": %q
	}`, c.ID, officer.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings", hearingBody)
	mustStatus(t, resp, http.StatusOK)
	var h adapter.HearingResponse
	decodeBody(t, resp, &h)

	if h.Status != "scheduled" {
		t.Errorf("hearing Status = %q, want %q", h.Status, "scheduled")
	}
	if h.Date != "2031-06-10" {
		t.Errorf("hearing Date = %q, want %q", h.Date, "2031-06-10")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cases/"+c.ID, "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &c)
	if c.Status != "scheduled_for_hearing" {
		t.Fatalf("case Status = %q, want %q", c.Status, "scheduled_for_hearing")
	}

	// Begin and complete the hearing; the case mirrors both steps.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings/"+h.ID+"/events", `{"event":"begin"}`)
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings/"+h.ID+"/events", `{"event":"complete","notes":"Evidence heard in full"}`)
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &h)
	if h.Status != "completed" {
		t.Errorf("hearing Status = %q, want %q", h.Status, "completed")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cases/"+c.ID, "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &c)
	if c.Status != "decision_pending" {
		t.Fatalf("case Status = %q, want %q", c.Status, "decision_pending")
	}

	// A monetary resolution without an award is rejected.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/resolution", `{"resolution":"compensation_award"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("resolution without award: status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/resolution", `{"resolution":"compensation_award","awarded_amount":125000}`)
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &c)
	if c.Status != "resolved" {
		t.Errorf("case Status = %q, want %q", c.Status, "resolved")
	}
	if c.AwardedAmount == nil || *c.AwardedAmount != 125000 {
		t.Errorf("AwardedAmount = %v, want 125000", c.AwardedAmount)
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/closure", fmt.Sprintf(`{"officer_id":%q}`, officer.ID))
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &c)
	if c.Status != "closed" {
		t.Errorf("case Status = %q, want %q", c.Status, "closed")
	}
	if c.IsActive {
		t.Error("IsActive should be false after closure")
	}
	if c.ClosedAt == "" {
		t.Error("ClosedAt should be set after closure")
	}

	// Reopening within the grace window works and reactivates the case.
	c = mustCaseEvent(t, srv, c.ID, "reopen")
	if c.Status != "reopened" {
		t.Errorf("case Status = %q, want %q", c.Status, "reopened")
	}
	if !c.IsActive {
		t.Error("IsActive should be true after reopening")
	}
}

func TestCloseCase_RequiresCapability(t *testing.T) {
	srv := newTestServer(t)
	clerk := mustRegisterOfficer(t, srv, "Finn Ash", false, false)
	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "submit")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/closure", fmt.Sprintf(`{"officer_id":%q}`, clerk.ID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusForbidden)
	}
}

func TestWithdrawCase(t *testing.T) {
	srv := newTestServer(t)
	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "submit")

	c = mustCaseEvent(t, srv, c.ID, "withdraw")
	if c.Status != "withdrawn" {
		t.Errorf("Status = %q, want %q", c.Status, "withdrawn")
	}
	if c.IsActive {
		t.Error("IsActive should be false after withdrawal")
	}
}

func TestAssignMediator_AtCapacity(t *testing.T) {
	srv := newTestServer(t)
	mediator := mustRegisterMediator(t, srv, "Iris Vale", 1)

	first := mustCreateCase(t, srv)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+first.ID+"/mediator", fmt.Sprintf(`{"mediator_id":%q}`, mediator.ID))
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	second := mustCreateCase(t, srv)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+second.ID+"/mediator", fmt.Sprintf(`{"mediator_id":%q}`, mediator.ID))
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestCaseParticipants(t *testing.T) {
	srv := newTestServer(t)
	c := mustCreateCase(t, srv)

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/cases/"+c.ID+"/participants", `{"name":"Gus Reed","role":"witness"}`)
	mustStatus(t, resp, http.StatusOK)
	var p adapter.ParticipantResponse
	decodeBody(t, resp, &p)
	if p.Role != "witness" {
		t.Errorf("Role = %q, want %q", p.Role, "witness")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/cases/"+c.ID+"/participants", "")
	mustStatus(t, resp, http.StatusOK)
	var roster []adapter.ParticipantResponse
	decodeBody(t, resp, &roster)
	if len(roster) != 1 {
		t.Fatalf("len(roster) = %d, want 1", len(roster))
	}
	if roster[0].Name != "Gus Reed" {
		t.Errorf("Name = %q, want %q", roster[0].Name, "Gus Reed")
	}
}

// --- Tenancies ---

func TestTenancyFlow(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-001")
	a := mustCreateAgreement(t, srv, p.ID)

	if a.Status != "draft" {
		t.Fatalf("Status = %q, want %q", a.Status, "draft")
	}
	if a.PaymentFrequency != "monthly" {
		t.Errorf("PaymentFrequency = %q, want %q", a.PaymentFrequency, "monthly")
	}
	if !strings.HasPrefix(a.Number, "TA-") {
		t.Errorf("Number = %q, want TA- prefix", a.Number)
	}

	a = mustAgreementEvent(t, srv, a.ID, "activate", "")
	if a.Status != "active" {
		t.Fatalf("Status = %q, want %q", a.Status, "active")
	}
	if got := getProperty(t, srv, p.ID); got.Status != "occupied" {
		t.Errorf("property Status = %q, want %q", got.Status, "occupied")
	}

	// Record and settle a rent payment.
	payBody := `{
		"amount": 95000,
		"period_start": "2026-01-01T00:00:00Z",
		"period_end": "2026-02-01T00:00:00Z",
		"method": "bank_transfer"
	}`
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements/"+a.ID+"/payments", payBody)
	mustStatus(t, resp, http.StatusOK)
	var pay adapter.PaymentResponse
	decodeBody(t, resp, &pay)
	if pay.Status != "pending" {
		t.Errorf("payment Status = %q, want %q", pay.Status, "pending")
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/payments/"+pay.ID+"/events", `{"event":"confirm"}`)
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &pay)
	if pay.Status != "completed" {
		t.Errorf("payment Status = %q, want %q", pay.Status, "completed")
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/agreements/"+a.ID+"/next-payment-date", "")
	mustStatus(t, resp, http.StatusOK)
	var next struct {
		NextPaymentDate string `json:"next_payment_date"`
	}
	decodeBody(t, resp, &next)
	if next.NextPaymentDate == "" {
		t.Error("next_payment_date should not be empty for an active agreement")
	}

	// Termination frees the property again.
	a = mustAgreementEvent(t, srv, a.ID, "terminate", "tenant relocated")
	if a.Status != "terminated" {
		t.Errorf("Status = %q, want %q", a.Status, "terminated")
	}
	if a.TerminationReason != "tenant relocated" {
		t.Errorf("TerminationReason = %q, want %q", a.TerminationReason, "tenant relocated")
	}
	if got := getProperty(t, srv, p.ID); got.Status != "available" {
		t.Errorf("property Status = %q, want %q", got.Status, "available")
	}
}

func TestCreateAgreement_BadPeriod(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-002")

	body := fmt.Sprintf(`{
		"property_id": %q,
		"landlord_id": "landlord-1",
		"tenant_id": "tenant-1",
		"monthly_rent": 80000,
		"start_date": "2027-01-01T00:00:00Z",
		"end_date": "2026-01-01T00:00:00Z"
	}`, p.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestTerminateAgreement_MissingReason(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-003")
	a := mustCreateAgreement(t, srv, p.ID)
	mustAgreementEvent(t, srv, a.ID, "activate", "")

	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements/"+a.ID+"/events", `{"event":"terminate"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestRecordPayment_DraftAgreement(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-004")
	a := mustCreateAgreement(t, srv, p.ID)

	body := `{"amount":95000,"period_start":"2026-01-01T00:00:00Z","period_end":"2026-02-01T00:00:00Z"}`
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements/"+a.ID+"/payments", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestRenewAgreement(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-005")
	a := mustCreateAgreement(t, srv, p.ID)
	mustAgreementEvent(t, srv, a.ID, "activate", "")

	body := `{
		"start_date": "2027-01-01T00:00:00Z",
		"end_date": "2028-01-01T00:00:00Z",
		"monthly_rent": 99000
	}`
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/agreements/"+a.ID+"/renewal", body)
	mustStatus(t, resp, http.StatusOK)
	var next adapter.AgreementResponse
	decodeBody(t, resp, &next)

	if next.Status != "draft" {
		t.Errorf("successor Status = %q, want %q", next.Status, "draft")
	}
	if next.RenewedFromID != a.ID {
		t.Errorf("RenewedFromID = %q, want %q", next.RenewedFromID, a.ID)
	}
	if next.MonthlyRent != 99000 {
		t.Errorf("MonthlyRent = %d, want 99000", next.MonthlyRent)
	}

	resp = doRequest(t, http.MethodGet, srv.URL+"/api/v1/agreements/"+a.ID, "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &a)
	if a.Status != "renewed" {
		t.Errorf("predecessor Status = %q, want %q", a.Status, "renewed")
	}
}

func TestRetireProperty_WithActiveAgreement(t *testing.T) {
	srv := newTestServer(t)
	p := mustCreateProperty(t, srv, "PR-006")
	a := mustCreateAgreement(t, srv, p.ID)
	mustAgreementEvent(t, srv, a.ID, "activate", "")

	resp := doRequest(t, http.MethodDelete, srv.URL+"/api/v1/properties/"+p.ID, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

// --- Hearings ---

func TestScheduleHearing_OfficerDoubleBooked(t *testing.T) {
	srv := newTestServer(t)
	officer := mustRegisterOfficer(t, srv, "Dana Holt", true, true)
	first := mustCaseAtInvestigation(t, srv, officer.ID)
	second := mustCaseAtInvestigation(t, srv, officer.ID)

	body := fmt.Sprintf(`{
		"case_id": %q,
		"date": "2031-06-10T00:00:00Z",
		"start_time": "2031-06-10T10:00:00Z",
		"end_time": "2031-06-10T12:00:00Z",
		"presiding_officer_id": %q
	}`, first.ID, officer.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings", body)
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	overlapping := fmt.Sprintf(`{
		"case_id": %q,
		"date": "2031-06-10T00:00:00Z",
		"start_time": "2031-06-10T11:00:00Z",
		"end_time": "2031-06-10T13:00:00Z",
		"presiding_officer_id": %q
	}`, second.ID, officer.ID)
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings", overlapping)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}
}

func TestScheduleHearing_BadWindow(t *testing.T) {
	srv := newTestServer(t)
	officer := mustRegisterOfficer(t, srv, "Dana Holt", true, true)
	c := mustCaseAtInvestigation(t, srv, officer.ID)

	body := fmt.Sprintf(`{
		"case_id": %q,
		"date": "2031-06-10T00:00:00Z",
		"start_time": "2031-06-10T12:00:00Z",
		"end_time": "2031-06-10T10:00:00Z",
		"presiding_officer_id": %q
	}`, c.ID, officer.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestHearingAttendance(t *testing.T) {
	srv := newTestServer(t)
	officer := mustRegisterOfficer(t, srv, "Dana Holt", true, true)
	c := mustCaseAtInvestigation(t, srv, officer.ID)

	body := fmt.Sprintf(`{
		"case_id": %q,
		"date": "2031-06-10T00:00:00Z",
		"start_time": "2031-06-10T10:00:00Z",
		"end_time": "2031-06-10T12:00:00Z",
		"presiding_officer_id": %q
	}`, c.ID, officer.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings", body)
	mustStatus(t, resp, http.StatusOK)
	var h adapter.HearingResponse
	decodeBody(t, resp, &h)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearings/"+h.ID+"/participants", `{"name":"Ada Quill","role":"complainant"}`)
	mustStatus(t, resp, http.StatusOK)
	var attendee adapter.AttendeeResponse
	decodeBody(t, resp, &attendee)

	// Attendance cannot be confirmed before check-in.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearing-participants/"+attendee.ID+"/attendance", "")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("attendance before check-in: status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearing-participants/"+attendee.ID+"/check-in", "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &attendee)
	if attendee.CheckedInAt == "" {
		t.Error("CheckedInAt should be set after check-in")
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/hearing-participants/"+attendee.ID+"/attendance", "")
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &attendee)
	if !attendee.Attended {
		t.Error("Attended should be true after confirmation")
	}
}

// --- Mediations ---

func TestMediationFlow(t *testing.T) {
	srv := newTestServer(t)
	mediator := mustRegisterMediator(t, srv, "Iris Vale", 5)
	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "submit")

	body := fmt.Sprintf(`{"case_id":%q,"mediator_id":%q}`, c.ID, mediator.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations", body)
	mustStatus(t, resp, http.StatusOK)
	var m adapter.MediationResponse
	decodeBody(t, resp, &m)
	if m.Status != "requested" {
		t.Fatalf("Status = %q, want %q", m.Status, "requested")
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations/"+m.ID+"/schedule", `{"date":"2031-07-01T09:00:00Z"}`)
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &m)
	if m.Status != "scheduled" {
		t.Errorf("Status = %q, want %q", m.Status, "scheduled")
	}
	if m.ScheduledDate == "" {
		t.Error("ScheduledDate should be set after scheduling")
	}

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations/"+m.ID+"/events", `{"event":"begin"}`)
	mustStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations/"+m.ID+"/events", `{"event":"succeed","notes":"Parties agreed on a rent freeze"}`)
	mustStatus(t, resp, http.StatusOK)
	decodeBody(t, resp, &m)
	if m.Status != "successful" {
		t.Errorf("Status = %q, want %q", m.Status, "successful")
	}

	// The case is still mid-workflow, so the outcome is recorded but the
	// resolution proposal is declined.
	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations/"+m.ID+"/outcome", `{"agreement_summary":"Rent frozen for 12 months"}`)
	mustStatus(t, resp, http.StatusOK)
	var outcome struct {
		Session      adapter.MediationResponse `json:"session"`
		CaseResolved bool                      `json:"case_resolved"`
	}
	decodeBody(t, resp, &outcome)
	if !outcome.Session.AgreementReached {
		t.Error("AgreementReached should be true")
	}
	if outcome.Session.AgreementSummary != "Rent frozen for 12 months" {
		t.Errorf("AgreementSummary = %q, want %q", outcome.Session.AgreementSummary, "Rent frozen for 12 months")
	}
	if outcome.CaseResolved {
		t.Error("CaseResolved should be false for a case outside the decision stage")
	}
}

func TestRequestMediation_TerminalCase(t *testing.T) {
	srv := newTestServer(t)
	mediator := mustRegisterMediator(t, srv, "Iris Vale", 5)
	c := mustCreateCase(t, srv)
	mustCaseEvent(t, srv, c.ID, "withdraw")

	body := fmt.Sprintf(`{"case_id":%q,"mediator_id":%q}`, c.ID, mediator.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations", body)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}

func TestRecordOutcome_NotRecordable(t *testing.T) {
	srv := newTestServer(t)
	mediator := mustRegisterMediator(t, srv, "Iris Vale", 5)
	c := mustCreateCase(t, srv)

	body := fmt.Sprintf(`{"case_id":%q,"mediator_id":%q}`, c.ID, mediator.ID)
	resp := doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations", body)
	mustStatus(t, resp, http.StatusOK)
	var m adapter.MediationResponse
	decodeBody(t, resp, &m)

	resp = doRequest(t, http.MethodPost, srv.URL+"/api/v1/mediations/"+m.ID+"/outcome", `{"agreement_summary":"terms"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}
}
