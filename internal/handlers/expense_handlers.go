package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ispdesk_echo/internal/models"
)

type ExpenseHandler struct {
	db *gorm.DB
}

func NewExpenseHandler(db *gorm.DB) *ExpenseHandler {
	return &ExpenseHandler{db: db}
}

// ExpenseRequest is the create/update body for an expense
type ExpenseRequest struct {
	Date     string          `json:"date"` // YYYY-MM-DD, defaults to today
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

func (h *ExpenseHandler) ListExpenses(c echo.Context) error {
	query := h.db.Order("date desc")

	// Optional month filter, YYYY-MM
	if month := c.QueryParam("month"); month != "" {
		query = query.Where("to_char(date, 'YYYY-MM') = ?", month)
	}
	if category := c.QueryParam("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var expenses []models.Expense
	if err := query.Find(&expenses).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch expenses")
	}
	return c.JSON(http.StatusOK, expenses)
}

func (h *ExpenseHandler) CreateExpense(c echo.Context) error {
	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Amount.Sign() <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	expense := models.Expense{
		Date:     date,
		Category: req.Category,
		Amount:   req.Amount,
		Note:     req.Note,
	}
	if err := h.db.Create(&expense).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create expense")
	}
	return c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) UpdateExpense(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var expense models.Expense
	if err := h.db.First(&expense, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Expense not found")
	}

	var req ExpenseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.Amount.Sign() <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	date, err := parseDateOrToday(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	expense.Date = date
	expense.Category = req.Category
	expense.Amount = req.Amount
	expense.Note = req.Note
	if err := h.db.Save(&expense).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update expense")
	}
	return c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) DeleteExpense(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.db.Delete(&models.Expense{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete expense")
	}
	return c.NoContent(http.StatusNoContent)
}
