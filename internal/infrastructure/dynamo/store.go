// Package dynamo implements the account store repositories on DynamoDB.
// Every table shares the same access pattern: partition key user_id, sort
// key the resource identifier of the record kind.
package dynamo

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// API is the subset of the DynamoDB client used by the store. Kept narrow so
// tests can substitute a fake.
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// Store holds the shared DynamoDB client. Repositories wrap it with a table
// name and the marshalling for their record kind.
type Store struct {
	client API
}

func New(client API) *Store {
	return &Store{client: client}
}

func (s *Store) putItem(ctx context.Context, table string, item map[string]types.AttributeValue) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in %s: %w", table, err)
	}
	return nil
}

// queryByUser returns every item in the user's partition.
func (s *Store) queryByUser(ctx context.Context, table, userID string) ([]map[string]types.AttributeValue, error) {
	keyCond := expression.Key("user_id").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build query expression: %w", err)
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return out.Items, nil
}

// updateFields applies a partial update built the same way for every record
// kind: each field gets a name/value placeholder and a SET clause. Fields are
// sorted so the generated expression is deterministic.
func (s *Store) updateFields(ctx context.Context, table string, key map[string]types.AttributeValue, fields map[string]types.AttributeValue) error {
	if len(fields) == 0 {
		return nil
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	exprNames := make(map[string]string, len(fields))
	exprValues := make(map[string]types.AttributeValue, len(fields))
	clauses := make([]string, 0, len(fields))
	for i, name := range names {
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":f%d", i)
		exprNames[namePlaceholder] = name
		exprValues[valuePlaceholder] = fields[name]
		clauses = append(clauses, namePlaceholder+" = "+valuePlaceholder)
	}

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(table),
		Key:                       key,
		UpdateExpression:          aws.String("SET " + strings.Join(clauses, ", ")),
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprValues,
	})
	if err != nil {
		return fmt.Errorf("failed to update item in %s: %w", table, err)
	}
	return nil
}

// scanUserIDs scans the whole table projecting only user_id, following
// pagination until the store reports no more pages, and deduplicates the
// result. It never fails: scans feed best-effort batch jobs, so any error is
// logged and an empty set returned.
func (s *Store) scanUserIDs(ctx context.Context, table string) []string {
	proj := expression.NamesList(expression.Name("user_id"))
	expr, err := expression.NewBuilder().WithProjection(proj).Build()
	if err != nil {
		log.Printf("Error building scan expression for %s: %v", table, err)
		return []string{}
	}

	seen := make(map[string]struct{})
	var lastKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                aws.String(table),
			ProjectionExpression:     expr.Projection(),
			ExpressionAttributeNames: expr.Names(),
			ExclusiveStartKey:        lastKey,
		})
		if err != nil {
			log.Printf("Error scanning user IDs from %s: %v", table, err)
			return []string{}
		}

		for _, item := range out.Items {
			if id := stringAttr(item, "user_id"); id != "" {
				seen[id] = struct{}{}
			}
		}

		if out.LastEvaluatedKey == nil {
			break
		}
		lastKey = out.LastEvaluatedKey
	}

	userIDs := make([]string, 0, len(seen))
	for id := range seen {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)
	return userIDs
}

func stringAttr(item map[string]types.AttributeValue, name string) string {
	if av, ok := item[name].(*types.AttributeValueMemberS); ok {
		return av.Value
	}
	return ""
}
