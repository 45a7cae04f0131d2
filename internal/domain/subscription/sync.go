// Package subscription keeps stored reminder preferences in step with the
// recurring payment streams detected on linked bank connections.
package subscription

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"bract/internal/infrastructure/plaid"
	"bract/internal/models"
)

// SyncSummary reports the outcome of one sync run across all users.
type SyncSummary struct {
	TotalUsersProcessed      int      `json:"total_users_processed"`
	TotalSubscriptionsSynced int      `json:"total_subscriptions_synced"`
	TotalNewSubscriptions    int      `json:"total_new_subscriptions"`
	Errors                   []string `json:"errors"`
	Timestamp                string   `json:"timestamp"`
}

// SyncService discovers recurring outflow streams for every linked
// institution and upserts a reminder preference per stream. New streams get
// default settings; known streams get their merchant, amount, and frequency
// refreshed without touching user-chosen settings.
type SyncService struct {
	client       plaid.ClientInterface
	institutions models.InstitutionRepository
	reminders    models.ReminderRepository
}

func NewSyncService(client plaid.ClientInterface, institutions models.InstitutionRepository, reminders models.ReminderRepository) *SyncService {
	return &SyncService{
		client:       client,
		institutions: institutions,
		reminders:    reminders,
	}
}

// Run syncs every user with at least one linked institution. A failure for
// one user or institution is recorded and does not stop the run.
func (s *SyncService) Run(ctx context.Context) *SyncSummary {
	summary := &SyncSummary{
		Errors:    []string{},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	userIDs := s.institutions.ScanUserIDs(ctx)
	log.Printf("syncing subscriptions for %d users", len(userIDs))

	for _, userID := range userIDs {
		summary.TotalUsersProcessed++

		institutions, err := s.institutions.ListByUser(ctx, userID)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: failed to list institutions: %v", userID, err))
			continue
		}

		for _, institution := range institutions {
			if err := s.syncInstitution(ctx, userID, institution, summary); err != nil {
				summary.Errors = append(summary.Errors, fmt.Sprintf("user %s institution %s: %v", userID, institution.ItemID, err))
			}
		}
	}

	return summary
}

func (s *SyncService) syncInstitution(ctx context.Context, userID string, institution *models.Institution, summary *SyncSummary) error {
	streams, err := s.client.GetRecurringStreams(ctx, institution.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to fetch recurring streams: %w", err)
	}

	if len(streams.InflowStreams) > 0 {
		log.Printf("user %s: ignoring %d inflow streams", userID, len(streams.InflowStreams))
	}

	existing, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list existing reminders: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, preference := range existing {
		known[preference.StreamID] = true
	}

	now := time.Now().UTC()
	for _, stream := range streams.OutflowStreams {
		if known[stream.StreamID] {
			fields := map[string]any{
				"merchant_name": merchantName(stream),
				"last_amount":   streamAmount(stream.LastAmount),
				"frequency":     frequency(stream),
				"updated_at":    now,
			}
			if err := s.reminders.UpdateFields(ctx, userID, stream.StreamID, fields); err != nil {
				return fmt.Errorf("failed to refresh stream %s: %w", stream.StreamID, err)
			}
		} else {
			preference := &models.ReminderPreference{
				UserID:             userID,
				StreamID:           stream.StreamID,
				ReminderDaysBefore: models.DefaultReminderDaysBefore,
				DeliveryMethod:     models.DefaultDeliveryMethod,
				MerchantName:       merchantName(stream),
				LastAmount:         streamAmount(stream.LastAmount),
				Frequency:          frequency(stream),
				CreatedAt:          now,
				UpdatedAt:          now,
			}
			if err := s.reminders.Put(ctx, preference); err != nil {
				return fmt.Errorf("failed to store stream %s: %w", stream.StreamID, err)
			}
			summary.TotalNewSubscriptions++
		}
		summary.TotalSubscriptionsSynced++
	}

	return nil
}

func merchantName(stream plaid.TransactionStream) string {
	if stream.MerchantName != "" {
		return stream.MerchantName
	}
	if stream.Description != "" {
		return stream.Description
	}
	return "Unknown"
}

func frequency(stream plaid.TransactionStream) string {
	if stream.Frequency != "" {
		return stream.Frequency
	}
	return "monthly"
}

// streamAmount converts the wire amount to an exact decimal. Outflow amounts
// arrive positive from the detection API but are normalized through Abs in
// case an institution reports them signed.
func streamAmount(a plaid.StreamAmount) models.StreamAmount {
	amount := models.StreamAmount{Currency: a.IsoCurrencyCode}
	if a.Amount != "" {
		if parsed, err := decimal.NewFromString(a.Amount.String()); err == nil {
			amount.Amount = parsed.Abs()
		} else {
			log.Printf("failed to parse stream amount %q: %v", a.Amount, err)
		}
	}
	if amount.Currency == "" {
		amount.Currency = "USD"
	}
	return amount
}
