package lambda

import (
	"context"

	"bract/internal/infrastructure/plaid"
	"bract/internal/models"
)

// MockPlaidClient implements plaid.ClientInterface
type MockPlaidClient struct {
	CreateLinkTokenFunc     func(ctx context.Context, userID string) (*plaid.LinkTokenResult, error)
	ExchangePublicTokenFunc func(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error)
	GetAccountsFunc         func(ctx context.Context, accessToken string) ([]plaid.Account, error)
	GetRecurringStreamsFunc func(ctx context.Context, accessToken string) (*plaid.RecurringStreams, error)
}

func (m *MockPlaidClient) CreateLinkToken(ctx context.Context, userID string) (*plaid.LinkTokenResult, error) {
	if m.CreateLinkTokenFunc != nil {
		return m.CreateLinkTokenFunc(ctx, userID)
	}
	return &plaid.LinkTokenResult{}, nil
}

func (m *MockPlaidClient) ExchangePublicToken(ctx context.Context, publicToken string) (*plaid.ExchangeResult, error) {
	if m.ExchangePublicTokenFunc != nil {
		return m.ExchangePublicTokenFunc(ctx, publicToken)
	}
	return &plaid.ExchangeResult{}, nil
}

func (m *MockPlaidClient) GetAccounts(ctx context.Context, accessToken string) ([]plaid.Account, error) {
	if m.GetAccountsFunc != nil {
		return m.GetAccountsFunc(ctx, accessToken)
	}
	return nil, nil
}

func (m *MockPlaidClient) GetRecurringStreams(ctx context.Context, accessToken string) (*plaid.RecurringStreams, error) {
	if m.GetRecurringStreamsFunc != nil {
		return m.GetRecurringStreamsFunc(ctx, accessToken)
	}
	return &plaid.RecurringStreams{}, nil
}

// MockInstitutionRepo implements models.InstitutionRepository
type MockInstitutionRepo struct {
	PutFunc         func(ctx context.Context, institution *models.Institution) error
	ListByUserFunc  func(ctx context.Context, userID string) ([]*models.Institution, error)
	ScanUserIDsFunc func(ctx context.Context) []string
}

func (m *MockInstitutionRepo) Put(ctx context.Context, institution *models.Institution) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, institution)
	}
	return nil
}

func (m *MockInstitutionRepo) ListByUser(ctx context.Context, userID string) ([]*models.Institution, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockInstitutionRepo) ScanUserIDs(ctx context.Context) []string {
	if m.ScanUserIDsFunc != nil {
		return m.ScanUserIDsFunc(ctx)
	}
	return nil
}

// MockAccountRepo implements models.AccountRepository
type MockAccountRepo struct {
	PutFunc        func(ctx context.Context, account *models.Account) error
	ListByUserFunc func(ctx context.Context, userID string) ([]*models.Account, error)
}

func (m *MockAccountRepo) Put(ctx context.Context, account *models.Account) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, account)
	}
	return nil
}

func (m *MockAccountRepo) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

// MockReminderRepo implements models.ReminderRepository
type MockReminderRepo struct {
	PutFunc          func(ctx context.Context, preference *models.ReminderPreference) error
	ListByUserFunc   func(ctx context.Context, userID string) ([]*models.ReminderPreference, error)
	UpdateFieldsFunc func(ctx context.Context, userID, streamID string, fields map[string]any) error
	ScanUserIDsFunc  func(ctx context.Context) []string
}

func (m *MockReminderRepo) Put(ctx context.Context, preference *models.ReminderPreference) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, preference)
	}
	return nil
}

func (m *MockReminderRepo) ListByUser(ctx context.Context, userID string) ([]*models.ReminderPreference, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockReminderRepo) UpdateFields(ctx context.Context, userID, streamID string, fields map[string]any) error {
	if m.UpdateFieldsFunc != nil {
		return m.UpdateFieldsFunc(ctx, userID, streamID, fields)
	}
	return nil
}

func (m *MockReminderRepo) ScanUserIDs(ctx context.Context) []string {
	if m.ScanUserIDsFunc != nil {
		return m.ScanUserIDsFunc(ctx)
	}
	return nil
}
