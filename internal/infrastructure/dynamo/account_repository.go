package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"bract/internal/models"
)

// AccountRepository stores the accounts discovered under a bank connection.
type AccountRepository struct {
	store *Store
	table string
}

var _ models.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(store *Store, table string) *AccountRepository {
	return &AccountRepository{store: store, table: table}
}

func (r *AccountRepository) Put(ctx context.Context, account *models.Account) error {
	item, err := attributevalue.MarshalMap(account)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	return r.store.putItem(ctx, r.table, item)
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]*models.Account, error) {
	items, err := r.store.queryByUser(ctx, r.table, userID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*models.Account, 0, len(items))
	for _, item := range items {
		var account models.Account
		if err := attributevalue.UnmarshalMap(item, &account); err != nil {
			return nil, fmt.Errorf("failed to unmarshal account: %w", err)
		}
		accounts = append(accounts, &account)
	}
	return accounts, nil
}
