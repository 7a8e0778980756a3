package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"carwash_payouts/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// DynamoAPI is the subset of *dynamodb.Client the repositories use.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

var _ DynamoAPI = (*dynamodb.Client)(nil)

// tableFromEnv returns the table name configured in key, or def.
func tableFromEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// maxTransactItems is the DynamoDB limit on actions per TransactWriteItems.
const maxTransactItems = 100

func isConditionFailed(err error) bool {
	var cfe *types.ConditionalCheckFailedException
	return errors.As(err, &cfe)
}

// cancelledAt reports which actions of a cancelled transaction failed their
// condition. ok is false if err is not a cancelled transaction.
func cancelledAt(err error) (failed map[int]bool, ok bool) {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return nil, false
	}
	failed = map[int]bool{}
	for i, reason := range tce.CancellationReasons {
		if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
			failed[i] = true
		}
	}
	return failed, true
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t := parseTime(s)
	return &t
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

// moneyDecoder parses the stored money attributes of one item and keeps the
// first failure, so a corrupt amount is never read as zero.
type moneyDecoder struct {
	id  string
	err error
}

func (m *moneyDecoder) parse(name, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		if m.err == nil {
			m.err = fmt.Errorf("%w: %s: %s = %q", interfaces.ErrCorruptRecord, m.id, name, s)
		}
		return decimal.Zero
	}
	return d
}

// optional parses an attribute added after items were first written; empty
// means zero.
func (m *moneyDecoder) optional(name, s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	return m.parse(name, s)
}

// number reads an N attribute as a decimal; absent means zero.
func (m *moneyDecoder) number(item map[string]types.AttributeValue, name string) decimal.Decimal {
	switch v := item[name].(type) {
	case nil:
		return decimal.Zero
	case *types.AttributeValueMemberN:
		return m.parse(name, v.Value)
	default:
		if m.err == nil {
			m.err = fmt.Errorf("%w: %s: %s is not a number", interfaces.ErrCorruptRecord, m.id, name)
		}
		return decimal.Zero
	}
}

func stringAttr(v string) *types.AttributeValueMemberS {
	return &types.AttributeValueMemberS{Value: v}
}

func numberAttr(v string) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: v}
}

func idKey(name, id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{name: stringAttr(id)}
}
