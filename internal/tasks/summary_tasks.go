package tasks

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
	"ispdesk_echo/internal/services"
)

// MonthlySummaryTaskDef emails the owner a collections-vs-expenses recap
// for the previous calendar month. Scheduled recurring monthly.
type MonthlySummaryTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *MonthlySummaryTaskDef) TaskID() string {
	return "monthly_summary"
}

// HandleExecution sums last month's installments and expenses and mails
// the recap to ADMIN_EMAIL
func (t *MonthlySummaryTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		return nil, fmt.Errorf("ADMIN_EMAIL not set")
	}

	today := ledger.Today()
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	prevStart := monthStart.AddDate(0, -1, 0)

	var installments []models.Installment
	if err := db.Where("date_paid >= ? AND date_paid < ?", prevStart, monthStart).Find(&installments).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch installments: %w", err)
	}
	collected := decimal.Zero
	for _, inst := range installments {
		collected = collected.Add(inst.AmountPaid)
	}

	var expenses []models.Expense
	if err := db.Where("date >= ? AND date < ?", prevStart, monthStart).Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch expenses: %w", err)
	}
	spent := decimal.Zero
	for _, expense := range expenses {
		spent = spent.Add(expense.Amount)
	}

	month := prevStart.Format("January 2006")
	subject := fmt.Sprintf("Collection summary for %s", month)
	body := fmt.Sprintf(
		"Summary for %s\n\nCollected: %s (%d payments)\nExpenses: %s (%d entries)\nNet: %s\n",
		month,
		collected.StringFixed(2), len(installments),
		spent.StringFixed(2), len(expenses),
		collected.Sub(spent).StringFixed(2))

	if err := services.NewEmailService().SendEmail([]string{adminEmail}, subject, body); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"status":    "success",
		"month":     month,
		"collected": collected.StringFixed(2),
		"expenses":  spent.StringFixed(2),
	}, nil
}

// MonthlySummaryTask is the singleton instance of MonthlySummaryTaskDef
var MonthlySummaryTask = &MonthlySummaryTaskDef{}
