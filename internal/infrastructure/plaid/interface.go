package plaid

import "context"

// ClientInterface defines the Plaid operations used by handlers and the sync
// job, allowing tests to substitute a mock implementation.
type ClientInterface interface {
	CreateLinkToken(ctx context.Context, userID string) (*LinkTokenResult, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (*ExchangeResult, error)
	GetAccounts(ctx context.Context, accessToken string) ([]Account, error)
	GetRecurringStreams(ctx context.Context, accessToken string) (*RecurringStreams, error)
}
