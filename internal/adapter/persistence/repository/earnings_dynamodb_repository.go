package repository

import (
	"context"
	"strconv"
	"time"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultEarningsTableName = "earnings_accounts"
	defaultCreditsTableName  = "earnings_credits"
)

// earningsItem holds the string attributes of an account. lifetime_earned,
// paid_out and reserved are N attributes maintained with ADD and are read
// separately.
type earningsItem struct {
	WorkerID  string `dynamodbav:"worker_id"`
	Version   int64  `dynamodbav:"version"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

type creditItem struct {
	ID        string `dynamodbav:"id"`
	WorkerID  string `dynamodbav:"worker_id"`
	JobID     string `dynamodbav:"job_id,omitempty"`
	Amount    string `dynamodbav:"amount"`
	CreatedAt string `dynamodbav:"created_at"`
}

// EarningsDynamoRepository keeps one accumulator row per worker plus the set of
// applied credits.
//
// Table requirements:
//   - earnings: PK worker_id (string)
//   - credits: PK id (string)
//
// A credit is applied with a single TransactWriteItems: put the credit if its
// id is new, and ADD its amount to the worker's row.

type EarningsDynamoRepository struct {
	ddb          DynamoAPI
	tableName    string
	creditsTable string
}

var _ interfaces.IEarningsRepository = (*EarningsDynamoRepository)(nil)

func NewEarningsDynamoRepository(ddb DynamoAPI) *EarningsDynamoRepository {
	return &EarningsDynamoRepository{
		ddb:          ddb,
		tableName:    tableFromEnv("EARNINGS_TABLE", defaultEarningsTableName),
		creditsTable: tableFromEnv("EARNINGS_CREDITS_TABLE", defaultCreditsTableName),
	}
}

func (r *EarningsDynamoRepository) GetAccount(ctx context.Context, workerID string) (entities.EarningsAccount, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey("worker_id", workerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.EarningsAccount{}, err
	}
	if len(out.Item) == 0 {
		return entities.EarningsAccount{}, nil
	}
	return fromEarningsAttributes(out.Item)
}

func (r *EarningsDynamoRepository) ApplyCredit(ctx context.Context, credit entities.EarningsCredit) (entities.EarningsAccount, error) {
	creditAV, err := attributevalue.MarshalMap(creditItem{
		ID:        credit.ID,
		WorkerID:  credit.WorkerID,
		JobID:     credit.JobID,
		Amount:    credit.Amount.String(),
		CreatedAt: formatTime(credit.CreatedAt),
	})
	if err != nil {
		return entities.EarningsAccount{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                aws.String(r.creditsTable),
				Item:                     creditAV,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
			{Update: &types.Update{
				TableName:        aws.String(r.tableName),
				Key:              idKey("worker_id", credit.WorkerID),
				UpdateExpression: aws.String("SET #paid_out = if_not_exists(#paid_out, :zero), #updated_at = :now ADD #lifetime :amount, #version :one"),
				ExpressionAttributeNames: map[string]string{
					"#paid_out":   "paid_out",
					"#updated_at": "updated_at",
					"#lifetime":   "lifetime_earned",
					"#version":    "version",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":zero":   numberAttr("0"),
					":now":    stringAttr(formatTime(time.Now())),
					":amount": numberAttr(credit.Amount.String()),
					":one":    numberAttr("1"),
				},
			}},
		},
	})
	if err != nil {
		if failed, ok := cancelledAt(err); ok && failed[0] {
			return entities.EarningsAccount{}, interfaces.ErrAlreadyExists
		}
		return entities.EarningsAccount{}, err
	}
	return r.GetAccount(ctx, credit.WorkerID)
}

func (r *EarningsDynamoRepository) GetCredit(ctx context.Context, id string) (entities.EarningsCredit, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.creditsTable),
		Key:            idKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.EarningsCredit{}, err
	}
	if len(out.Item) == 0 {
		return entities.EarningsCredit{}, nil
	}

	var it creditItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.EarningsCredit{}, err
	}
	money := moneyDecoder{id: it.ID}
	credit := entities.EarningsCredit{
		ID:        it.ID,
		WorkerID:  it.WorkerID,
		JobID:     it.JobID,
		Amount:    money.parse("amount", it.Amount),
		CreatedAt: parseTime(it.CreatedAt),
	}
	return credit, money.err
}

func fromEarningsAttributes(item map[string]types.AttributeValue) (entities.EarningsAccount, error) {
	var it earningsItem
	if err := attributevalue.UnmarshalMap(item, &it); err != nil {
		return entities.EarningsAccount{}, err
	}
	money := moneyDecoder{id: it.WorkerID}
	account := entities.EarningsAccount{
		WorkerID:       it.WorkerID,
		LifetimeEarned: money.number(item, "lifetime_earned"),
		PaidOut:        money.number(item, "paid_out"),
		Reserved:       money.number(item, "reserved"),
		Version:        it.Version,
		UpdatedAt:      parseTime(it.UpdatedAt),
	}
	return account, money.err
}

// earningsVersionCheck asserts the worker's account is still at version. A
// worker never credited has version 0 and no row.
func earningsVersionCheck(table, workerID string, version int64) types.TransactWriteItem {
	cond, names, values := earningsVersionCondition(version)
	check := &types.ConditionCheck{
		TableName:                aws.String(table),
		Key:                      idKey("worker_id", workerID),
		ConditionExpression:      aws.String(cond),
		ExpressionAttributeNames: names,
	}
	if len(values) > 0 {
		check.ExpressionAttributeValues = values
	}
	return types.TransactWriteItem{ConditionCheck: check}
}

// earningsVersionCondition is the condition, with its names and values, that
// an account row is still at version.
func earningsVersionCondition(version int64) (string, map[string]string, map[string]types.AttributeValue) {
	if version == 0 {
		return "attribute_not_exists(#worker_id)",
			map[string]string{"#worker_id": "worker_id"},
			map[string]types.AttributeValue{}
	}
	return "#version = :version",
		map[string]string{"#version": "version"},
		map[string]types.AttributeValue{":version": numberAttr(strconv.FormatInt(version, 10))}
}
