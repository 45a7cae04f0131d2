package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"bract/internal/models"
)

// DispatchSummary reports the outcome of one reminder dispatch run.
type DispatchSummary struct {
	TotalUsersProcessed int      `json:"total_users_processed"`
	TotalEmailsSent     int      `json:"total_emails_sent"`
	Errors              []string `json:"errors"`
	Timestamp           string   `json:"timestamp"`
}

// DispatchService sends one reminder email per user covering all of their
// stored subscription reminders.
type DispatchService struct {
	reminders models.ReminderRepository
	resolver  EmailResolver
	sender    Sender
}

func NewDispatchService(reminders models.ReminderRepository, resolver EmailResolver, sender Sender) *DispatchService {
	return &DispatchService{
		reminders: reminders,
		resolver:  resolver,
		sender:    sender,
	}
}

// Run dispatches reminders for every user with stored preferences. A failure
// for one user is recorded and does not stop the run.
func (s *DispatchService) Run(ctx context.Context) *DispatchSummary {
	summary := &DispatchSummary{
		Errors:    []string{},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	userIDs := s.reminders.ScanUserIDs(ctx)
	log.Printf("dispatching reminders for %d users", len(userIDs))

	for _, userID := range userIDs {
		summary.TotalUsersProcessed++

		sent, err := s.dispatchUser(ctx, userID)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: %v", userID, err))
			continue
		}
		if sent {
			summary.TotalEmailsSent++
		}
	}

	return summary
}

func (s *DispatchService) dispatchUser(ctx context.Context, userID string) (bool, error) {
	preferences, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list reminders: %w", err)
	}
	if len(preferences) == 0 {
		return false, nil
	}

	address, ok := s.resolver.ResolveUserEmail(ctx, userID)
	if !ok {
		log.Printf("no email address for user %s, skipping", userID)
		return false, nil
	}

	items := make([]ReminderItem, 0, len(preferences))
	for _, preference := range preferences {
		items = append(items, reminderItem(preference))
	}

	if err := s.sender.SendReminderEmail(ctx, address, items); err != nil {
		return false, fmt.Errorf("failed to send email: %w", err)
	}
	return true, nil
}

func reminderItem(p *models.ReminderPreference) ReminderItem {
	item := ReminderItem{
		MerchantName: p.MerchantName,
		Amount:       p.LastAmount.Amount.InexactFloat64(),
		Currency:     p.LastAmount.Currency,
		ReminderDays: p.ReminderDaysBefore,
	}
	if item.MerchantName == "" {
		item.MerchantName = "Unknown"
	}
	if item.Currency == "" {
		item.Currency = "USD"
	}
	return item
}
