package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
	"ispdesk_echo/internal/store"
)

func newTestHandler() *CycleHandler {
	return NewCycleHandler(ledger.NewService(store.NewMemoryStore()))
}

// doRequest invokes an echo handler directly and returns the recorder plus
// the HTTP error it produced, if any
func doRequest(h echo.HandlerFunc, method, target, body string, paramName, paramValue string) (*httptest.ResponseRecorder, *echo.HTTPError) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}

	err := h(c)
	if err == nil {
		return rec, nil
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		he = echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return rec, he
}

func TestRenewCustomerCycle(t *testing.T) {
	h := newTestHandler()

	body := `{"start_date": "2026-02-28", "total_amount": "2500", "previous_balance": "300"}`
	rec, he := doRequest(h.RenewCustomerCycle, http.MethodPost, "/customers/7/cycles/renew", body, "id", "7")
	if he != nil {
		t.Fatalf("unexpected error: %v", he)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var cycle models.BillingCycle
	if err := json.Unmarshal(rec.Body.Bytes(), &cycle); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !cycle.IsRenewal {
		t.Error("expected is_renewal to be set")
	}
	if got := ledger.FormatDate(cycle.CycleEndDate); got != "29-Mar-2026" {
		t.Errorf("cycle end date = %s, want 29-Mar-2026", got)
	}
	if cycle.Status != models.CycleStatusPending {
		t.Errorf("status = %s, want %s", cycle.Status, models.CycleStatusPending)
	}
	if cycle.PreviousBalance == nil || !cycle.PreviousBalance.Equal(decimal.RequireFromString("300")) {
		t.Errorf("previous balance not carried: %v", cycle.PreviousBalance)
	}
}

func TestRenewCustomerCycleNegativeTotal(t *testing.T) {
	h := newTestHandler()

	body := `{"start_date": "2026-02-28", "total_amount": "-100"}`
	_, he := doRequest(h.RenewCustomerCycle, http.MethodPost, "/customers/7/cycles/renew", body, "id", "7")
	if he == nil {
		t.Fatal("expected an error for a negative total")
	}
	if he.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", he.Code, http.StatusBadRequest)
	}
}

func TestAddInstallment(t *testing.T) {
	h := newTestHandler()
	svc := h.ledger

	seed, err := svc.CreateInitialCycle(context.Background(), 3, ledger.AddDays(ledger.Today(), -10), decimal.RequireFromString("2500"))
	if err != nil {
		t.Fatalf("seeding cycle: %v", err)
	}
	id := strconv.FormatUint(uint64(seed.ID), 10)

	body := `{"amount": "1000", "note": "first half"}`
	rec, he := doRequest(h.AddInstallment, http.MethodPost, "/cycles/"+id+"/installments", body, "id", id)
	if he != nil {
		t.Fatalf("unexpected error: %v", he)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var cycle models.BillingCycle
	if err := json.Unmarshal(rec.Body.Bytes(), &cycle); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !cycle.AmountPaid.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("amount paid = %s, want 1000", cycle.AmountPaid)
	}
	if !cycle.AmountPending.Equal(decimal.RequireFromString("1500")) {
		t.Errorf("amount pending = %s, want 1500", cycle.AmountPending)
	}
	if len(cycle.Installments) != 1 {
		t.Errorf("installments = %d, want 1", len(cycle.Installments))
	}
}

func TestAddInstallmentErrors(t *testing.T) {
	h := newTestHandler()
	svc := h.ledger

	seed, err := svc.CreateInitialCycle(context.Background(), 3, ledger.AddDays(ledger.Today(), -10), decimal.RequireFromString("2500"))
	if err != nil {
		t.Fatalf("seeding cycle: %v", err)
	}
	id := strconv.FormatUint(uint64(seed.ID), 10)
	future := ledger.AddDays(ledger.Today(), 5).Format("2006-01-02")

	tests := []struct {
		name     string
		cycleID  string
		body     string
		wantCode int
	}{
		{"unknown cycle", "9999", `{"amount": "100"}`, http.StatusNotFound},
		{"non-numeric id", "abc", `{"amount": "100"}`, http.StatusBadRequest},
		{"zero amount", id, `{"amount": "0"}`, http.StatusBadRequest},
		{"negative amount", id, `{"amount": "-50"}`, http.StatusBadRequest},
		{"future date", id, `{"amount": "100", "date_paid": "` + future + `"}`, http.StatusBadRequest},
		{"malformed date", id, `{"amount": "100", "date_paid": "2026-2-3"}`, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, he := doRequest(h.AddInstallment, http.MethodPost, "/cycles/"+tc.cycleID+"/installments", tc.body, "id", tc.cycleID)
			if he == nil {
				t.Fatal("expected an error")
			}
			if he.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", he.Code, tc.wantCode)
			}
		})
	}

	// None of the rejected payments may have touched the cycle
	cycle, err := svc.Cycle(context.Background(), seed.ID)
	if err != nil {
		t.Fatalf("reloading cycle: %v", err)
	}
	if len(cycle.Installments) != 0 {
		t.Errorf("rejected installments were persisted: %d", len(cycle.Installments))
	}
}

func TestGetActiveCycle(t *testing.T) {
	h := newTestHandler()
	svc := h.ledger

	_, he := doRequest(h.GetActiveCycle, http.MethodGet, "/customers/5/cycles/active", "", "id", "5")
	if he == nil || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for a customer with no cycles, got %v", he)
	}

	if _, err := svc.CreateInitialCycle(context.Background(), 5, ledger.AddDays(ledger.Today(), -60), decimal.RequireFromString("500")); err != nil {
		t.Fatalf("seeding cycle: %v", err)
	}
	latest, err := svc.RenewCycle(context.Background(), 5, ledger.AddDays(ledger.Today(), -20), decimal.RequireFromString("500"))
	if err != nil {
		t.Fatalf("seeding renewal: %v", err)
	}

	rec, he := doRequest(h.GetActiveCycle, http.MethodGet, "/customers/5/cycles/active", "", "id", "5")
	if he != nil {
		t.Fatalf("unexpected error: %v", he)
	}

	var resp struct {
		Cycle models.BillingCycle `json:"cycle"`
		Facts ledger.CycleFacts   `json:"facts"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Cycle.ID != latest.ID {
		t.Errorf("active cycle = %d, want the latest %d", resp.Cycle.ID, latest.ID)
	}
	if !resp.Facts.Unpaid {
		t.Error("expected the active cycle to report unpaid")
	}
}

func TestListCustomerCyclesOrder(t *testing.T) {
	h := newTestHandler()
	svc := h.ledger

	first, err := svc.CreateInitialCycle(context.Background(), 9, ledger.AddDays(ledger.Today(), -90), decimal.RequireFromString("800"))
	if err != nil {
		t.Fatalf("seeding cycle: %v", err)
	}
	second, err := svc.RenewCycle(context.Background(), 9, ledger.AddDays(ledger.Today(), -30), decimal.RequireFromString("800"))
	if err != nil {
		t.Fatalf("seeding renewal: %v", err)
	}

	rec, he := doRequest(h.ListCustomerCycles, http.MethodGet, "/customers/9/cycles", "", "id", "9")
	if he != nil {
		t.Fatalf("unexpected error: %v", he)
	}

	var cycles []models.BillingCycle
	if err := json.Unmarshal(rec.Body.Bytes(), &cycles); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("cycles = %d, want 2", len(cycles))
	}
	if cycles[0].ID != second.ID || cycles[1].ID != first.ID {
		t.Errorf("cycles not ordered most recent first: %d, %d", cycles[0].ID, cycles[1].ID)
	}
}

func TestPatchCycleMetadata(t *testing.T) {
	h := newTestHandler()
	svc := h.ledger

	seed, err := svc.CreateInitialCycle(context.Background(), 2, ledger.Today(), decimal.RequireFromString("1200"))
	if err != nil {
		t.Fatalf("seeding cycle: %v", err)
	}
	id := strconv.FormatUint(uint64(seed.ID), 10)

	body := `{"shifted_amount": "150", "breakdown": {"package_price": "1200"}}`
	rec, he := doRequest(h.PatchCycleMetadata, http.MethodPatch, "/cycles/"+id+"/metadata", body, "id", id)
	if he != nil {
		t.Fatalf("unexpected error: %v", he)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var cycle models.BillingCycle
	if err := json.Unmarshal(rec.Body.Bytes(), &cycle); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if cycle.ShiftedAmount == nil || !cycle.ShiftedAmount.Equal(decimal.RequireFromString("150")) {
		t.Errorf("shifted amount not applied: %v", cycle.ShiftedAmount)
	}
	if !cycle.TotalAmount.Equal(decimal.RequireFromString("1200")) {
		t.Errorf("metadata patch changed the total: %s", cycle.TotalAmount)
	}

	_, he = doRequest(h.PatchCycleMetadata, http.MethodPatch, "/cycles/9999/metadata", `{"shifted_amount": "1"}`, "id", "9999")
	if he == nil || he.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for an unknown cycle, got %v", he)
	}
}
