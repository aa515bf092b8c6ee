package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
)

// CustomerSummary is a customer row decorated with the derived billing view
type CustomerSummary struct {
	Customer      models.Customer      `json:"customer"`
	DisplayStatus ledger.DisplayStatus `json:"display_status"`
	ActiveCycle   *models.BillingCycle `json:"active_cycle,omitempty"`
	Facts         ledger.CycleFacts    `json:"facts"`
}

// CreateCustomerRequest opens a subscriber account and their first cycle.
// Discount and MaterialCharge adjust the locked-in package price; the
// resulting total is what the ledger receives.
type CreateCustomerRequest struct {
	Name           string           `json:"name"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Address        string           `json:"address"`
	PackageID      uint             `json:"package_id"`
	StartDate      string           `json:"start_date"` // YYYY-MM-DD, defaults to today
	Discount       *decimal.Decimal `json:"discount,omitempty"`
	MaterialCharge *decimal.Decimal `json:"material_charge,omitempty"`
}

// UpdateCustomerRequest patches customer identity fields and the manual
// account status. Billing fields are not reachable here.
type UpdateCustomerRequest struct {
	Name      *string                `json:"name,omitempty"`
	Phone     *string                `json:"phone,omitempty"`
	Email     *string                `json:"email,omitempty"`
	Address   *string                `json:"address,omitempty"`
	Status    *models.CustomerStatus `json:"status,omitempty"`
	PackageID *uint                  `json:"package_id,omitempty"`
}

// RenewCycleRequest opens a follow-up cycle. TotalAmount already includes
// any rolled-forward balance the operator chose to carry.
type RenewCycleRequest struct {
	StartDate       string           `json:"start_date"`
	TotalAmount     decimal.Decimal  `json:"total_amount"`
	PreviousBalance *decimal.Decimal `json:"previous_balance,omitempty"`
	ShiftedAmount   *decimal.Decimal `json:"shifted_amount,omitempty"`
}

// AddInstallmentRequest records one payment against a cycle
type AddInstallmentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	DatePaid string          `json:"date_paid"` // YYYY-MM-DD, defaults to today
	Note     string          `json:"note"`
}

// PatchMetadataRequest attaches non-financial bookkeeping to a cycle
type PatchMetadataRequest struct {
	PreviousBalance *decimal.Decimal       `json:"previous_balance,omitempty"`
	ShiftedAmount   *decimal.Decimal       `json:"shifted_amount,omitempty"`
	Breakdown       map[string]interface{} `json:"breakdown,omitempty"`
}

// parseIDParam reads a numeric path parameter
func parseIDParam(c echo.Context, name string) (uint, error) {
	val, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(val), nil
}

// parseDateOrToday parses a YYYY-MM-DD field, defaulting to today when empty
func parseDateOrToday(s string) (time.Time, error) {
	if s == "" {
		return ledger.Today(), nil
	}
	return ledger.ParseDate(s)
}

// ledgerHTTPError maps ledger failures onto HTTP status codes: not-found
// becomes 404, validation failures 400, anything else (store failures) 500.
func ledgerHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ledger.ErrCycleNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidTotal),
		errors.Is(err, ledger.ErrFutureDate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Error saving: "+err.Error())
	}
}
