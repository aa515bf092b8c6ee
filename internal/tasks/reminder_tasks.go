package tasks

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"ispdesk_echo/internal/ledger"
	"ispdesk_echo/internal/models"
	"ispdesk_echo/internal/services"
	"ispdesk_echo/internal/store"
)

// SendDueRemindersTaskDef sweeps all active customers and sends a WhatsApp
// reminder to those whose latest cycle has run out with money still owed,
// or is about to run out. Scheduled recurring (typically daily).
type SendDueRemindersTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *SendDueRemindersTaskDef) TaskID() string {
	return "send_due_reminders"
}

// HandleExecution walks every non-suspended customer's latest cycle facts
// and notifies the ones that are expired+unpaid or expiring within the
// "days_before" window (default 3).
func (t *SendDueRemindersTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	daysBefore := 3
	if v, ok := task.Arguments["days_before"].(float64); ok {
		daysBefore = int(v)
	}

	ledgerSvc := ledger.NewService(store.NewGormStore(db))
	waha := services.NewWahaService()

	var customers []models.Customer
	if err := db.Where("status = ?", models.CustomerStatusActive).Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	sent := 0
	skipped := 0
	failed := 0
	var failures []string

	for _, customer := range customers {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		active, err := ledgerSvc.ActiveCycle(ctx, customer.ID)
		if err != nil {
			failed++
			failures = append(failures, fmt.Sprintf("%s: %v", customer.Name, err))
			continue
		}

		facts := ledger.Facts(active)
		msg := reminderMessage(customer, active, facts, daysBefore)
		if msg == "" {
			skipped++
			continue
		}
		if customer.Phone == "" {
			log.Printf("Skipping reminder for %s: no phone number", customer.Name)
			skipped++
			continue
		}

		if err := waha.SendMessage(customer.Phone, msg); err != nil {
			log.Printf("Failed to send reminder to %s: %v", customer.Name, err)
			failed++
			failures = append(failures, fmt.Sprintf("%s: %v", customer.Name, err))
			continue
		}
		sent++
	}

	result := map[string]interface{}{
		"total":   len(customers),
		"sent":    sent,
		"skipped": skipped,
		"failed":  failed,
	}
	if failed > 0 {
		result["errors"] = failures
	}
	return result, nil
}

// reminderMessage picks the message for a customer's cycle facts, or
// returns "" when no reminder is warranted
func reminderMessage(customer models.Customer, cycle *models.BillingCycle, facts ledger.CycleFacts, daysBefore int) string {
	if cycle == nil || facts.DaysLeft == nil {
		return ""
	}

	switch {
	case facts.Expired && facts.Unpaid:
		return fmt.Sprintf(
			"Dear %s, your internet package expired on %s with %s pending. Please renew to avoid disconnection.",
			customer.Name, ledger.FormatDate(cycle.CycleEndDate), cycle.AmountPending.StringFixed(2))
	case facts.Expired:
		return fmt.Sprintf(
			"Dear %s, your internet package expired on %s. Please renew to continue the service.",
			customer.Name, ledger.FormatDate(cycle.CycleEndDate))
	case *facts.DaysLeft <= daysBefore && facts.Unpaid:
		return fmt.Sprintf(
			"Dear %s, your internet package ends on %s (%d days left) and %s is still pending.",
			customer.Name, ledger.FormatDate(cycle.CycleEndDate), *facts.DaysLeft, cycle.AmountPending.StringFixed(2))
	default:
		return ""
	}
}

// SendDueRemindersTask is the singleton instance of SendDueRemindersTaskDef
var SendDueRemindersTask = &SendDueRemindersTaskDef{}
