package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"bract/internal/models"
)

// InstitutionRepository stores linked bank connections in the items table.
type InstitutionRepository struct {
	store *Store
	table string
}

// Ensure the interface is satisfied.
var _ models.InstitutionRepository = (*InstitutionRepository)(nil)

func NewInstitutionRepository(store *Store, table string) *InstitutionRepository {
	return &InstitutionRepository{store: store, table: table}
}

func (r *InstitutionRepository) Put(ctx context.Context, institution *models.Institution) error {
	item, err := attributevalue.MarshalMap(institution)
	if err != nil {
		return fmt.Errorf("failed to marshal institution: %w", err)
	}
	return r.store.putItem(ctx, r.table, item)
}

func (r *InstitutionRepository) ListByUser(ctx context.Context, userID string) ([]*models.Institution, error) {
	items, err := r.store.queryByUser(ctx, r.table, userID)
	if err != nil {
		return nil, err
	}

	institutions := make([]*models.Institution, 0, len(items))
	for _, item := range items {
		var institution models.Institution
		if err := attributevalue.UnmarshalMap(item, &institution); err != nil {
			return nil, fmt.Errorf("failed to unmarshal institution: %w", err)
		}
		institutions = append(institutions, &institution)
	}
	return institutions, nil
}

func (r *InstitutionRepository) ScanUserIDs(ctx context.Context) []string {
	return r.store.scanUserIDs(ctx, r.table)
}
