package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"bract/internal/models"
)

// ReminderRepository stores per-subscription reminder preferences.
//
// Marshalling is hand-written instead of reflection-based: the last observed
// amount must round-trip as an exact decimal (a DynamoDB number built from
// decimal.Decimal.String), and that conversion lives here at the store edge
// rather than in every handler.
type ReminderRepository struct {
	store *Store
	table string
}

var _ models.ReminderRepository = (*ReminderRepository)(nil)

func NewReminderRepository(store *Store, table string) *ReminderRepository {
	return &ReminderRepository{store: store, table: table}
}

func (r *ReminderRepository) Put(ctx context.Context, preference *models.ReminderPreference) error {
	return r.store.putItem(ctx, r.table, marshalPreference(preference))
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID string) ([]*models.ReminderPreference, error) {
	items, err := r.store.queryByUser(ctx, r.table, userID)
	if err != nil {
		return nil, err
	}

	preferences := make([]*models.ReminderPreference, 0, len(items))
	for _, item := range items {
		preference, err := unmarshalPreference(item)
		if err != nil {
			return nil, err
		}
		preferences = append(preferences, preference)
	}
	return preferences, nil
}

func (r *ReminderRepository) UpdateFields(ctx context.Context, userID, streamID string, fields map[string]any) error {
	attrs := make(map[string]types.AttributeValue, len(fields))
	for name, value := range fields {
		av, err := toAttributeValue(value)
		if err != nil {
			return fmt.Errorf("failed to convert field %s: %w", name, err)
		}
		attrs[name] = av
	}

	key := map[string]types.AttributeValue{
		"user_id":   &types.AttributeValueMemberS{Value: userID},
		"stream_id": &types.AttributeValueMemberS{Value: streamID},
	}
	return r.store.updateFields(ctx, r.table, key, attrs)
}

func (r *ReminderRepository) ScanUserIDs(ctx context.Context) []string {
	return r.store.scanUserIDs(ctx, r.table)
}

func marshalPreference(p *models.ReminderPreference) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"user_id":              &types.AttributeValueMemberS{Value: p.UserID},
		"stream_id":            &types.AttributeValueMemberS{Value: p.StreamID},
		"reminder_days_before": &types.AttributeValueMemberN{Value: strconv.Itoa(p.ReminderDaysBefore)},
		"delivery_method":      &types.AttributeValueMemberS{Value: p.DeliveryMethod},
		"created_at":           &types.AttributeValueMemberS{Value: p.CreatedAt.UTC().Format(time.RFC3339)},
		"updated_at":           &types.AttributeValueMemberS{Value: p.UpdatedAt.UTC().Format(time.RFC3339)},
	}

	// Subscription details only exist once the sync job has observed the
	// stream; a user-created preference carries just the key and settings.
	if p.MerchantName != "" {
		item["merchant_name"] = &types.AttributeValueMemberS{Value: p.MerchantName}
	}
	if !p.LastAmount.IsZero() {
		item["last_amount"] = marshalAmount(p.LastAmount)
	}
	if p.Frequency != "" {
		item["frequency"] = &types.AttributeValueMemberS{Value: p.Frequency}
	}

	return item
}

func unmarshalPreference(item map[string]types.AttributeValue) (*models.ReminderPreference, error) {
	preference := &models.ReminderPreference{
		UserID:         stringAttr(item, "user_id"),
		StreamID:       stringAttr(item, "stream_id"),
		DeliveryMethod: stringAttr(item, "delivery_method"),
		MerchantName:   stringAttr(item, "merchant_name"),
		Frequency:      stringAttr(item, "frequency"),
	}

	if av, ok := item["reminder_days_before"].(*types.AttributeValueMemberN); ok {
		days, err := strconv.Atoi(av.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to parse reminder_days_before %q: %w", av.Value, err)
		}
		preference.ReminderDaysBefore = days
	}

	if av, ok := item["last_amount"].(*types.AttributeValueMemberM); ok {
		amount, err := unmarshalAmount(av.Value)
		if err != nil {
			return nil, err
		}
		preference.LastAmount = amount
	}

	var err error
	if preference.CreatedAt, err = timeAttr(item, "created_at"); err != nil {
		return nil, err
	}
	if preference.UpdatedAt, err = timeAttr(item, "updated_at"); err != nil {
		return nil, err
	}

	return preference, nil
}

func marshalAmount(a models.StreamAmount) types.AttributeValue {
	value := map[string]types.AttributeValue{
		"amount": &types.AttributeValueMemberN{Value: a.Amount.String()},
	}
	if a.Currency != "" {
		value["iso_currency_code"] = &types.AttributeValueMemberS{Value: a.Currency}
	}
	return &types.AttributeValueMemberM{Value: value}
}

func unmarshalAmount(value map[string]types.AttributeValue) (models.StreamAmount, error) {
	amount := models.StreamAmount{Currency: stringAttr(value, "iso_currency_code")}
	if av, ok := value["amount"].(*types.AttributeValueMemberN); ok {
		parsed, err := decimal.NewFromString(av.Value)
		if err != nil {
			return models.StreamAmount{}, fmt.Errorf("failed to parse amount %q: %w", av.Value, err)
		}
		amount.Amount = parsed
	}
	return amount, nil
}

// toAttributeValue converts the partial-update values accepted by
// UpdateFields. The supported types mirror what callers write: settings,
// refreshed subscription details, and timestamps.
func toAttributeValue(value any) (types.AttributeValue, error) {
	switch v := value.(type) {
	case string:
		return &types.AttributeValueMemberS{Value: v}, nil
	case int:
		return &types.AttributeValueMemberN{Value: strconv.Itoa(v)}, nil
	case decimal.Decimal:
		return &types.AttributeValueMemberN{Value: v.String()}, nil
	case time.Time:
		return &types.AttributeValueMemberS{Value: v.UTC().Format(time.RFC3339)}, nil
	case models.StreamAmount:
		return marshalAmount(v), nil
	default:
		return nil, fmt.Errorf("unsupported field type %T", value)
	}
}

func timeAttr(item map[string]types.AttributeValue, name string) (time.Time, error) {
	raw := stringAttr(item, name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s %q: %w", name, raw, err)
	}
	return t, nil
}
