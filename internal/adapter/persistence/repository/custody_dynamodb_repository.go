package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sirupsen/logrus"
)

const (
	defaultCustodyTableName      = "custody_records"
	defaultConsumptionsTableName = "consumption_records"
	custodyWorkerIDIndex         = "worker_id-index"
)

type custodyItem struct {
	ID                string `dynamodbav:"id"`
	WorkerID          string `dynamodbav:"worker_id"`
	ItemName          string `dynamodbav:"item_name"`
	ItemKind          string `dynamodbav:"item_kind"`
	QuantityAssigned  int64  `dynamodbav:"quantity_assigned"`
	QuantityReturned  int64  `dynamodbav:"quantity_returned"`
	ConsumedTotal     int64  `dynamodbav:"consumed_total"`
	QuantityRemaining int64  `dynamodbav:"quantity_remaining"`
	UnitPrice         string `dynamodbav:"unit_price"`
	Version           int64  `dynamodbav:"version"`
	CreatedAt         string `dynamodbav:"created_at"`
	UpdatedAt         string `dynamodbav:"updated_at"`
}

type consumptionItem struct {
	ID              string `dynamodbav:"id"`
	CustodyRecordID string `dynamodbav:"custody_record_id"`
	JobID           string `dynamodbav:"job_id"`
	WorkerID        string `dynamodbav:"worker_id"`
	QuantityUsed    int64  `dynamodbav:"quantity_used"`
	CreatedAt       string `dynamodbav:"created_at"`
}

// CustodyDynamoRepository persists custody and consumption records in DynamoDB.
//
// Table requirements:
//   - custody: PK id (string), GSI worker_id-index (PK: worker_id)
//   - consumptions: PK custody_record_id (string), SK id (string)
//
// Every write is conditioned on the version the caller read. A consumption is
// written in the same transaction as the custody record it debits. Keying
// consumptions by their record lets them be listed with a strongly consistent
// query, so the list always agrees with the record's consumed total.

type CustodyDynamoRepository struct {
	ddb               DynamoAPI
	tableName         string
	consumptionsTable string
}

var _ interfaces.ICustodyRepository = (*CustodyDynamoRepository)(nil)

func NewCustodyDynamoRepository(ddb DynamoAPI) *CustodyDynamoRepository {
	return &CustodyDynamoRepository{
		ddb:               ddb,
		tableName:         tableFromEnv("CUSTODY_TABLE", defaultCustodyTableName),
		consumptionsTable: tableFromEnv("CONSUMPTIONS_TABLE", defaultConsumptionsTableName),
	}
}

func (r *CustodyDynamoRepository) Create(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
	av, err := attributevalue.MarshalMap(toCustodyItem(rec))
	if err != nil {
		return entities.CustodyRecord{}, err
	}

	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(#id)"),
		ExpressionAttributeNames: map[string]string{
			"#id": "id",
		},
	})
	if isConditionFailed(err) {
		return entities.CustodyRecord{}, interfaces.ErrAlreadyExists
	}
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	return rec, nil
}

func (r *CustodyDynamoRepository) GetByID(ctx context.Context, id string) (entities.CustodyRecord, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	if len(out.Item) == 0 {
		return entities.CustodyRecord{}, nil
	}

	var it custodyItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.CustodyRecord{}, err
	}
	return fromCustodyItem(it)
}

// ListByWorker reads the worker_id GSI, which is eventually consistent. Callers
// that act on a record re-read it by id.
func (r *CustodyDynamoRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.CustodyRecord, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(custodyWorkerIDIndex),
		KeyConditionExpression: aws.String("worker_id = :wid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wid": stringAttr(workerID),
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.CustodyRecord, 0, len(raw))
	for _, m := range raw {
		var it custodyItem
		if err := attributevalue.UnmarshalMap(m, &it); err != nil {
			return nil, err
		}
		rec, err := fromCustodyItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (r *CustodyDynamoRepository) ApplyConsumption(ctx context.Context, rec entities.CustodyRecord, c entities.ConsumptionRecord) (entities.CustodyRecord, error) {
	next := rec
	next.Version = rec.Version + 1

	recAV, err := attributevalue.MarshalMap(toCustodyItem(next))
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	consAV, err := attributevalue.MarshalMap(toConsumptionItem(c))
	if err != nil {
		return entities.CustodyRecord{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:                 aws.String(r.tableName),
				Item:                      recAV,
				ConditionExpression:       aws.String("#version = :version"),
				ExpressionAttributeNames:  map[string]string{"#version": "version"},
				ExpressionAttributeValues: map[string]types.AttributeValue{":version": versionAttr(rec.Version)},
			}},
			{Put: &types.Put{
				TableName:                aws.String(r.consumptionsTable),
				Item:                     consAV,
				ConditionExpression:      aws.String("attribute_not_exists(#id)"),
				ExpressionAttributeNames: map[string]string{"#id": "id"},
			}},
		},
	})
	if err != nil {
		if failed, ok := cancelledAt(err); ok {
			if failed[1] {
				return entities.CustodyRecord{}, fmt.Errorf("consumption %s: %w", c.ID, interfaces.ErrAlreadyExists)
			}
			logrus.WithFields(logrus.Fields{"custody_id": rec.ID, "version": rec.Version}).
				Debug("[custody][repository] consumption lost version race")
			return entities.CustodyRecord{}, interfaces.ErrVersionConflict
		}
		return entities.CustodyRecord{}, err
	}
	return next, nil
}

func (r *CustodyDynamoRepository) ApplyReturn(ctx context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
	next := rec
	next.Version = rec.Version + 1

	av, err := attributevalue.MarshalMap(toCustodyItem(next))
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                 aws.String(r.tableName),
		Item:                      av,
		ConditionExpression:       aws.String("#version = :version"),
		ExpressionAttributeNames:  map[string]string{"#version": "version"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":version": versionAttr(rec.Version)},
	})
	if isConditionFailed(err) {
		return entities.CustodyRecord{}, interfaces.ErrVersionConflict
	}
	if err != nil {
		return entities.CustodyRecord{}, err
	}
	return next, nil
}

func (r *CustodyDynamoRepository) ListConsumptions(ctx context.Context, custodyRecordID string) ([]entities.ConsumptionRecord, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.consumptionsTable),
		ConsistentRead:         aws.Bool(true),
		KeyConditionExpression: aws.String("custody_record_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": stringAttr(custodyRecordID),
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.ConsumptionRecord, 0, len(raw))
	for _, m := range raw {
		var it consumptionItem
		if err := attributevalue.UnmarshalMap(m, &it); err != nil {
			return nil, err
		}
		items = append(items, fromConsumptionItem(it))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

func (r *CustodyDynamoRepository) Delete(ctx context.Context, rec entities.CustodyRecord) error {
	_, err := r.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 idKey("id", rec.ID),
		ConditionExpression: aws.String("#version = :version AND #consumed = :zero"),
		ExpressionAttributeNames: map[string]string{
			"#version":  "version",
			"#consumed": "consumed_total",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": versionAttr(rec.Version),
			":zero":    numberAttr("0"),
		},
	})
	if isConditionFailed(err) {
		return interfaces.ErrVersionConflict
	}
	return err
}

func versionAttr(v int64) *types.AttributeValueMemberN {
	return numberAttr(strconv.FormatInt(v, 10))
}

// queryAll follows LastEvaluatedKey until the query is exhausted.
func queryAll(ctx context.Context, ddb DynamoAPI, in *dynamodb.QueryInput) ([]map[string]types.AttributeValue, error) {
	var out []map[string]types.AttributeValue
	p := dynamodb.NewQueryPaginator(ddb, in)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Items...)
	}
	return out, nil
}

func toCustodyItem(rec entities.CustodyRecord) custodyItem {
	return custodyItem{
		ID:                rec.ID,
		WorkerID:          rec.WorkerID,
		ItemName:          rec.ItemName,
		ItemKind:          string(rec.ItemKind),
		QuantityAssigned:  rec.QuantityAssigned,
		QuantityReturned:  rec.QuantityReturned,
		ConsumedTotal:     rec.ConsumedTotal,
		QuantityRemaining: rec.QuantityRemaining,
		UnitPrice:         rec.UnitPrice.String(),
		Version:           rec.Version,
		CreatedAt:         formatTime(rec.CreatedAt),
		UpdatedAt:         formatTime(rec.UpdatedAt),
	}
}

func fromCustodyItem(it custodyItem) (entities.CustodyRecord, error) {
	money := moneyDecoder{id: it.ID}
	rec := entities.CustodyRecord{
		ID:                it.ID,
		WorkerID:          it.WorkerID,
		ItemName:          it.ItemName,
		ItemKind:          entities.ItemKind(it.ItemKind),
		QuantityAssigned:  it.QuantityAssigned,
		QuantityReturned:  it.QuantityReturned,
		ConsumedTotal:     it.ConsumedTotal,
		QuantityRemaining: it.QuantityRemaining,
		UnitPrice:         money.parse("unit_price", it.UnitPrice),
		Version:           it.Version,
		CreatedAt:         parseTime(it.CreatedAt),
		UpdatedAt:         parseTime(it.UpdatedAt),
	}
	return rec, money.err
}

func toConsumptionItem(c entities.ConsumptionRecord) consumptionItem {
	return consumptionItem{
		ID:              c.ID,
		CustodyRecordID: c.CustodyRecordID,
		JobID:           c.JobID,
		WorkerID:        c.WorkerID,
		QuantityUsed:    c.QuantityUsed,
		CreatedAt:       formatTime(c.CreatedAt),
	}
}

func fromConsumptionItem(it consumptionItem) entities.ConsumptionRecord {
	return entities.ConsumptionRecord{
		ID:              it.ID,
		CustodyRecordID: it.CustodyRecordID,
		JobID:           it.JobID,
		WorkerID:        it.WorkerID,
		QuantityUsed:    it.QuantityUsed,
		CreatedAt:       parseTime(it.CreatedAt),
	}
}
