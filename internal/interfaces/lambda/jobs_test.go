package lambda

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"

	"bract/internal/domain/notification"
	"bract/internal/domain/subscription"
	"bract/internal/infrastructure/plaid"
	"bract/internal/models"
)

type stubSender struct{ sent int }

func (s *stubSender) SendReminderEmail(ctx context.Context, toAddress string, items []notification.ReminderItem) error {
	s.sent++
	return nil
}

func TestHandleSyncSubscriptions(t *testing.T) {
	institutions := &MockInstitutionRepo{
		ScanUserIDsFunc: func(ctx context.Context) []string { return []string{"user-1"} },
		ListByUserFunc: func(ctx context.Context, userID string) ([]*models.Institution, error) {
			return []*models.Institution{{UserID: userID, ItemID: "item-1", AccessToken: "access-1"}}, nil
		},
	}
	client := &MockPlaidClient{
		GetRecurringStreamsFunc: func(ctx context.Context, accessToken string) (*plaid.RecurringStreams, error) {
			return &plaid.RecurringStreams{
				OutflowStreams: []plaid.TransactionStream{{StreamID: "s-1", MerchantName: "Netflix"}},
			}, nil
		},
	}
	reminders := &MockReminderRepo{}

	sync := subscription.NewSyncService(client, institutions, reminders)
	dispatch := notification.NewDispatchService(reminders, notification.PlaceholderResolver{}, &stubSender{})
	handler := NewJobHandler(sync, dispatch)

	response, err := handler.HandleSyncSubscriptions(context.Background(), events.APIGatewayProxyRequest{})
	if err != nil {
		t.Fatalf("HandleSyncSubscriptions() unexpected error: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", response.StatusCode)
	}

	got := decodeBody(t, response)
	if got["total_users_processed"] != float64(1) {
		t.Errorf("total_users_processed = %v, want 1", got["total_users_processed"])
	}
	if got["total_new_subscriptions"] != float64(1) {
		t.Errorf("total_new_subscriptions = %v, want 1", got["total_new_subscriptions"])
	}
	if _, ok := got["timestamp"]; !ok {
		t.Error("summary missing timestamp")
	}
	if errorsField, ok := got["errors"].([]any); !ok || len(errorsField) != 0 {
		t.Errorf("errors = %v, want empty array", got["errors"])
	}
}

func TestHandleSendReminders(t *testing.T) {
	sender := &stubSender{}
	reminders := &MockReminderRepo{
		ScanUserIDsFunc: func(ctx context.Context) []string { return []string{"user-1"} },
		ListByUserFunc: func(ctx context.Context, userID string) ([]*models.ReminderPreference, error) {
			return []*models.ReminderPreference{
				{UserID: userID, StreamID: "s-1", ReminderDaysBefore: 3, DeliveryMethod: "email"},
			}, nil
		},
	}

	sync := subscription.NewSyncService(&MockPlaidClient{}, &MockInstitutionRepo{}, reminders)
	dispatch := notification.NewDispatchService(reminders, notification.PlaceholderResolver{}, sender)
	handler := NewJobHandler(sync, dispatch)

	response, err := handler.HandleSendReminders(context.Background(), events.APIGatewayProxyRequest{})
	if err != nil {
		t.Fatalf("HandleSendReminders() unexpected error: %v", err)
	}
	if response.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, want 200", response.StatusCode)
	}

	got := decodeBody(t, response)
	if got["total_emails_sent"] != float64(1) {
		t.Errorf("total_emails_sent = %v, want 1", got["total_emails_sent"])
	}
	if sender.sent != 1 {
		t.Errorf("sender.sent = %d, want 1", sender.sent)
	}
}
