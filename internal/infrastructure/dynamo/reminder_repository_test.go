package dynamo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"

	"bract/internal/models"
)

// fakeAPI implements the API interface
type fakeAPI struct {
	PutItemFunc    func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	QueryFunc      func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItemFunc func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	ScanFunc       func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

func (f *fakeAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.PutItemFunc != nil {
		return f.PutItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, params, optFns...)
	}
	return &dynamodb.QueryOutput{}, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.UpdateItemFunc != nil {
		return f.UpdateItemFunc(ctx, params, optFns...)
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

func (f *fakeAPI) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.ScanFunc != nil {
		return f.ScanFunc(ctx, params, optFns...)
	}
	return &dynamodb.ScanOutput{}, nil
}

func TestReminderRepository_PutListRoundTrip(t *testing.T) {
	ctx := context.Background()
	var stored map[string]types.AttributeValue

	api := &fakeAPI{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			if *params.TableName != "reminders" {
				t.Errorf("TableName = %q, want reminders", *params.TableName)
			}
			stored = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
		QueryFunc: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{stored}}, nil
		},
	}
	repo := NewReminderRepository(New(api), "reminders")

	amount, _ := decimal.NewFromString("129.99")
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	preference := &models.ReminderPreference{
		UserID:             "user-1",
		StreamID:           "stream-1",
		ReminderDaysBefore: 5,
		DeliveryMethod:     "email",
		MerchantName:       "Netflix",
		LastAmount:         models.StreamAmount{Amount: amount, Currency: "USD"},
		Frequency:          "monthly",
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := repo.Put(ctx, preference); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	// The amount must be stored as a DynamoDB number with the exact decimal
	// representation.
	amountAttr, ok := stored["last_amount"].(*types.AttributeValueMemberM)
	if !ok {
		t.Fatal("last_amount not stored as a map attribute")
	}
	if n, ok := amountAttr.Value["amount"].(*types.AttributeValueMemberN); !ok || n.Value != "129.99" {
		t.Errorf("stored amount = %v, want N 129.99", amountAttr.Value["amount"])
	}

	got, err := repo.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByUser() failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("ListByUser() returned %d preferences, want 1", len(got))
	}
	if !got[0].LastAmount.Amount.Equal(amount) {
		t.Errorf("LastAmount = %s, want %s", got[0].LastAmount.Amount, amount)
	}
	if got[0].ReminderDaysBefore != 5 {
		t.Errorf("ReminderDaysBefore = %d, want 5", got[0].ReminderDaysBefore)
	}
	if !got[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, now)
	}
}

func TestReminderRepository_PutOmitsEmptyDetails(t *testing.T) {
	ctx := context.Background()
	var stored map[string]types.AttributeValue

	api := &fakeAPI{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			stored = params.Item
			return &dynamodb.PutItemOutput{}, nil
		},
	}
	repo := NewReminderRepository(New(api), "reminders")

	now := time.Now().UTC()
	err := repo.Put(ctx, &models.ReminderPreference{
		UserID:             "user-1",
		StreamID:           "stream-1",
		ReminderDaysBefore: 3,
		DeliveryMethod:     "email",
		CreatedAt:          now,
		UpdatedAt:          now,
	})
	if err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	for _, attr := range []string{"merchant_name", "last_amount", "frequency"} {
		if _, ok := stored[attr]; ok {
			t.Errorf("attribute %s stored for a preference without subscription details", attr)
		}
	}
}

func TestReminderRepository_UpdateFields(t *testing.T) {
	ctx := context.Background()
	var input *dynamodb.UpdateItemInput

	api := &fakeAPI{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			input = params
			return &dynamodb.UpdateItemOutput{}, nil
		},
	}
	repo := NewReminderRepository(New(api), "reminders")

	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	err := repo.UpdateFields(ctx, "user-1", "stream-1", map[string]any{
		"reminder_days_before": 7,
		"delivery_method":      "email",
		"updated_at":           now,
	})
	if err != nil {
		t.Fatalf("UpdateFields() failed: %v", err)
	}

	if input == nil {
		t.Fatal("UpdateItem was not called")
	}
	if key, ok := input.Key["user_id"].(*types.AttributeValueMemberS); !ok || key.Value != "user-1" {
		t.Errorf("Key user_id = %v, want user-1", input.Key["user_id"])
	}
	if key, ok := input.Key["stream_id"].(*types.AttributeValueMemberS); !ok || key.Value != "stream-1" {
		t.Errorf("Key stream_id = %v, want stream-1", input.Key["stream_id"])
	}

	// Field names sort as delivery_method, reminder_days_before, updated_at.
	want := "SET #f0 = :f0, #f1 = :f1, #f2 = :f2"
	if *input.UpdateExpression != want {
		t.Errorf("UpdateExpression = %q, want %q", *input.UpdateExpression, want)
	}
	if input.ExpressionAttributeNames["#f0"] != "delivery_method" {
		t.Errorf("#f0 = %q, want delivery_method", input.ExpressionAttributeNames["#f0"])
	}
	if n, ok := input.ExpressionAttributeValues[":f1"].(*types.AttributeValueMemberN); !ok || n.Value != "7" {
		t.Errorf(":f1 = %v, want N 7", input.ExpressionAttributeValues[":f1"])
	}
	if s, ok := input.ExpressionAttributeValues[":f2"].(*types.AttributeValueMemberS); !ok || s.Value != "2026-08-30T10:00:00Z" {
		t.Errorf(":f2 = %v, want RFC 3339 timestamp", input.ExpressionAttributeValues[":f2"])
	}
}

func TestReminderRepository_UpdateFieldsRejectsUnsupportedType(t *testing.T) {
	repo := NewReminderRepository(New(&fakeAPI{}), "reminders")

	err := repo.UpdateFields(context.Background(), "user-1", "stream-1", map[string]any{
		"reminder_days_before": 3.5,
	})
	if err == nil {
		t.Error("UpdateFields() expected error for float field, got nil")
	}
}

func TestScanUserIDs_PaginatesAndDedupes(t *testing.T) {
	calls := 0
	api := &fakeAPI{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			calls++
			switch calls {
			case 1:
				if params.ExclusiveStartKey != nil {
					t.Error("first page should not carry ExclusiveStartKey")
				}
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{
						{"user_id": &types.AttributeValueMemberS{Value: "user-b"}},
						{"user_id": &types.AttributeValueMemberS{Value: "user-a"}},
					},
					LastEvaluatedKey: map[string]types.AttributeValue{
						"user_id": &types.AttributeValueMemberS{Value: "user-a"},
					},
				}, nil
			default:
				if params.ExclusiveStartKey == nil {
					t.Error("second page should carry ExclusiveStartKey")
				}
				return &dynamodb.ScanOutput{
					Items: []map[string]types.AttributeValue{
						{"user_id": &types.AttributeValueMemberS{Value: "user-a"}},
						{"user_id": &types.AttributeValueMemberS{Value: "user-c"}},
					},
				}, nil
			}
		},
	}
	repo := NewReminderRepository(New(api), "reminders")

	got := repo.ScanUserIDs(context.Background())

	if calls != 2 {
		t.Errorf("Scan called %d times, want 2", calls)
	}
	want := []string{"user-a", "user-b", "user-c"}
	if len(got) != len(want) {
		t.Fatalf("ScanUserIDs() = %v, want %v", got, want)
	}
	for i, id := range want {
		if got[i] != id {
			t.Errorf("ScanUserIDs()[%d] = %q, want %q", i, got[i], id)
		}
	}
}

func TestScanUserIDs_ErrorReturnsEmpty(t *testing.T) {
	api := &fakeAPI{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			return nil, errors.New("throughput exceeded")
		},
	}
	repo := NewReminderRepository(New(api), "reminders")

	got := repo.ScanUserIDs(context.Background())
	if len(got) != 0 {
		t.Errorf("ScanUserIDs() = %v, want empty on scan error", got)
	}
}
