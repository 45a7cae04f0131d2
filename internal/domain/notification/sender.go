// Package notification builds and dispatches subscription reminder emails.
package notification

import "context"

// ReminderItem is one upcoming subscription payment rendered into an email.
type ReminderItem struct {
	MerchantName string
	Amount       float64
	Currency     string
	ReminderDays int
}

// Sender delivers a reminder email to a single recipient.
type Sender interface {
	SendReminderEmail(ctx context.Context, toAddress string, items []ReminderItem) error
}

// EmailResolver maps a user ID to a deliverable email address. The second
// return value reports whether an address is known for the user.
type EmailResolver interface {
	ResolveUserEmail(ctx context.Context, userID string) (string, bool)
}

// PlaceholderResolver derives a synthetic address from the user ID. It stands
// in until user profiles carry verified addresses.
//
// TODO: replace with a Cognito-backed resolver once the user pool exposes
// email attributes to this service.
type PlaceholderResolver struct{}

func (PlaceholderResolver) ResolveUserEmail(_ context.Context, userID string) (string, bool) {
	return "user-" + userID + "@example.com", true
}
