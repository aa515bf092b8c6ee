package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
	"ispdesk_echo/internal/services"
)

// DashboardHandler serves the aggregate figures for the landing screen
type DashboardHandler struct {
	db     *gorm.DB
	ledger *ledger.Service
	cache  *services.RedisCache
}

func NewDashboardHandler(db *gorm.DB, ledgerSvc *ledger.Service, cache *services.RedisCache) *DashboardHandler {
	return &DashboardHandler{db: db, ledger: ledgerSvc, cache: cache}
}

// DashboardSummary is the cached aggregate view
type DashboardSummary struct {
	TotalCustomers     int                          `json:"total_customers"`
	StatusCounts       map[ledger.DisplayStatus]int `json:"status_counts"`
	OutstandingTotal   decimal.Decimal              `json:"outstanding_total"`
	CollectedThisMonth decimal.Decimal              `json:"collected_this_month"`
	ExpensesThisMonth  decimal.Decimal              `json:"expenses_this_month"`
}

// Summary returns customer counts per display status plus this month's
// money flow. Counts derive from the same ComputeDisplayStatus used by the
// customer list filter, so the numbers always agree.
func (h *DashboardHandler) Summary(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := services.GetOrSet(h.cache, ctx, "dashboard:summary", time.Minute, func() (DashboardSummary, error) {
		return h.buildSummary(c)
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to build dashboard summary")
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) buildSummary(c echo.Context) (DashboardSummary, error) {
	ctx := c.Request().Context()

	summary := DashboardSummary{
		StatusCounts:       make(map[ledger.DisplayStatus]int),
		OutstandingTotal:   decimal.Zero,
		CollectedThisMonth: decimal.Zero,
		ExpensesThisMonth:  decimal.Zero,
	}

	var customers []models.Customer
	if err := h.db.Find(&customers).Error; err != nil {
		return summary, err
	}
	summary.TotalCustomers = len(customers)

	for _, customer := range customers {
		active, err := h.ledger.ActiveCycle(ctx, customer.ID)
		if err != nil {
			return summary, err
		}
		summary.StatusCounts[ledger.ComputeDisplayStatus(customer.Status, active)]++
		if active != nil {
			summary.OutstandingTotal = summary.OutstandingTotal.Add(active.AmountPending)
		}
	}

	today := ledger.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	var installments []models.Installment
	if err := h.db.Where("date_paid >= ?", monthStart).Find(&installments).Error; err != nil {
		return summary, err
	}
	for _, inst := range installments {
		summary.CollectedThisMonth = summary.CollectedThisMonth.Add(inst.AmountPaid)
	}

	var expenses []models.Expense
	if err := h.db.Where("date >= ?", monthStart).Find(&expenses).Error; err != nil {
		return summary, err
	}
	for _, expense := range expenses {
		summary.ExpensesThisMonth = summary.ExpensesThisMonth.Add(expense.Amount)
	}

	return summary, nil
}
