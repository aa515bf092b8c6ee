package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ispdesk_echo/internal/ledger"
)

// CycleHandler exposes the billing-cycle ledger over HTTP. It depends only
// on the ledger service, so it runs against any CycleStore backend.
type CycleHandler struct {
	ledger *ledger.Service
}

func NewCycleHandler(ledgerSvc *ledger.Service) *CycleHandler {
	return &CycleHandler{ledger: ledgerSvc}
}

// ListCustomerCycles returns a customer's cycles, most recent first
func (h *CycleHandler) ListCustomerCycles(c echo.Context) error {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cycles, err := h.ledger.CyclesForCustomer(c.Request().Context(), customerID)
	if err != nil {
		return ledgerHTTPError(err)
	}
	return c.JSON(http.StatusOK, cycles)
}

// GetActiveCycle returns the customer's latest cycle with its facts.
// "Active" means latest, not unexpired; a long-expired cycle is still the
// active one until a renewal supersedes it.
func (h *CycleHandler) GetActiveCycle(c echo.Context) error {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cycle, err := h.ledger.ActiveCycle(c.Request().Context(), customerID)
	if err != nil {
		return ledgerHTTPError(err)
	}
	if cycle == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Customer has no billing cycles")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cycle": cycle,
		"facts": ledger.Facts(cycle),
	})
}

// RenewCustomerCycle opens a follow-up cycle for a customer
func (h *CycleHandler) RenewCustomerCycle(c echo.Context) error {
	customerID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RenewCycleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	startDate, err := parseDateOrToday(req.StartDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cycle, err := h.ledger.RenewCycle(c.Request().Context(), customerID, startDate, req.TotalAmount)
	if err != nil {
		return ledgerHTTPError(err)
	}

	// Carried-balance bookkeeping rides along as opaque metadata.
	if req.PreviousBalance != nil || req.ShiftedAmount != nil {
		cycle, err = h.ledger.PatchMetadata(c.Request().Context(), cycle.ID, ledger.CycleMetadata{
			PreviousBalance: req.PreviousBalance,
			ShiftedAmount:   req.ShiftedAmount,
		})
		if err != nil {
			return ledgerHTTPError(err)
		}
	}

	return c.JSON(http.StatusCreated, cycle)
}

// GetCycle returns one cycle with its installments and facts
func (h *CycleHandler) GetCycle(c echo.Context) error {
	cycleID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cycle, err := h.ledger.Cycle(c.Request().Context(), cycleID)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"cycle": cycle,
		"facts": ledger.Facts(cycle),
	})
}

// AddInstallment records a payment against a cycle
func (h *CycleHandler) AddInstallment(c echo.Context) error {
	cycleID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AddInstallmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	datePaid, err := parseDateOrToday(req.DatePaid)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cycle, err := h.ledger.AddInstallment(c.Request().Context(), cycleID, req.Amount, datePaid, req.Note)
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusCreated, cycle)
}

// PatchCycleMetadata attaches non-financial bookkeeping to a cycle
func (h *CycleHandler) PatchCycleMetadata(c echo.Context) error {
	cycleID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req PatchMetadataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cycle, err := h.ledger.PatchMetadata(c.Request().Context(), cycleID, ledger.CycleMetadata{
		PreviousBalance: req.PreviousBalance,
		ShiftedAmount:   req.ShiftedAmount,
		Breakdown:       req.Breakdown,
	})
	if err != nil {
		return ledgerHTTPError(err)
	}

	return c.JSON(http.StatusOK, cycle)
}
