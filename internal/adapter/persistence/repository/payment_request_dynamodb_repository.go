package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultPaymentRequestsTableName = "payment_requests"
	paymentRequestsWorkerIDIndex    = "worker_id-index"
	pendingLockPrefix               = "pending#"
)

type paymentRequestItem struct {
	ID                    string `dynamodbav:"id"`
	WorkerID              string `dynamodbav:"worker_id"`
	RequestedAmount       string `dynamodbav:"requested_amount"`
	TotalEarningsSnapshot string `dynamodbav:"total_earnings_snapshot"`
	PaidOutSnapshot       string `dynamodbav:"paid_out_snapshot"`
	ReservedSnapshot      string `dynamodbav:"reserved_snapshot,omitempty"`
	MaterialDeductions    string `dynamodbav:"material_deductions"`
	ToolDeductions        string `dynamodbav:"tool_deductions"`
	Status                string `dynamodbav:"status"`
	ApproverID            string `dynamodbav:"approver_id,omitempty"`
	ApprovalTimestamp     string `dynamodbav:"approval_timestamp,omitempty"`
	Notes                 string `dynamodbav:"notes,omitempty"`
	PayoutReference       string `dynamodbav:"payout_reference,omitempty"`
	PaidAt                string `dynamodbav:"paid_at,omitempty"`
	Version               int64  `dynamodbav:"version"`
	CreatedAt             string `dynamodbav:"created_at"`
	UpdatedAt             string `dynamodbav:"updated_at"`
}

// pendingLockItem lives in the requests table under "pending#<worker_id>". It
// carries no worker_id attribute, so it stays out of the worker GSI.
type pendingLockItem struct {
	ID        string `dynamodbav:"id"`
	RequestID string `dynamodbav:"request_id"`
}

// PaymentRequestDynamoRepository persists payment requests in DynamoDB.
//
// Table requirements:
//   - PK: id (string)
//   - GSI: worker_id-index (PK: worker_id)
//
// At most one pending request per worker is enforced by the pending lock item,
// created in the same transaction as the request and removed by the
// transaction that moves the request out of pending.

type PaymentRequestDynamoRepository struct {
	ddb           DynamoAPI
	tableName     string
	earningsTable string
	custodyTable  string
}

var _ interfaces.IPaymentRequestRepository = (*PaymentRequestDynamoRepository)(nil)

func NewPaymentRequestDynamoRepository(ddb DynamoAPI) *PaymentRequestDynamoRepository {
	return &PaymentRequestDynamoRepository{
		ddb:           ddb,
		tableName:     tableFromEnv("PAYMENT_REQUESTS_TABLE", defaultPaymentRequestsTableName),
		earningsTable: tableFromEnv("EARNINGS_TABLE", defaultEarningsTableName),
		custodyTable:  tableFromEnv("CUSTODY_TABLE", defaultCustodyTableName),
	}
}

// CreatePending writes, in one transaction: the pending lock, the request, a
// version check on the earnings account and a version check on every custody
// record the deduction snapshot was computed from.
func (r *PaymentRequestDynamoRepository) CreatePending(ctx context.Context, p entities.PaymentRequest, guard interfaces.SnapshotGuard) (entities.PaymentRequest, error) {
	if len(guard.CustodyVersions)+3 > maxTransactItems {
		return entities.PaymentRequest{}, fmt.Errorf("snapshot covers %d custody records, more than one transaction can check", len(guard.CustodyVersions))
	}

	lockAV, err := attributevalue.MarshalMap(pendingLockItem{ID: pendingLockPrefix + p.WorkerID, RequestID: p.ID})
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	reqAV, err := attributevalue.MarshalMap(toPaymentRequestItem(p))
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	items := []types.TransactWriteItem{
		{Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     lockAV,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		{Put: &types.Put{
			TableName:                aws.String(r.tableName),
			Item:                     reqAV,
			ConditionExpression:      aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{"#id": "id"},
		}},
		earningsVersionCheck(r.earningsTable, p.WorkerID, guard.EarningsVersion),
	}

	ids := make([]string, 0, len(guard.CustodyVersions))
	for id := range guard.CustodyVersions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		items = append(items, types.TransactWriteItem{ConditionCheck: &types.ConditionCheck{
			TableName:                 aws.String(r.custodyTable),
			Key:                       idKey("id", id),
			ConditionExpression:       aws.String("#version = :version"),
			ExpressionAttributeNames:  map[string]string{"#version": "version"},
			ExpressionAttributeValues: map[string]types.AttributeValue{":version": versionAttr(guard.CustodyVersions[id])},
		}})
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		if failed, ok := cancelledAt(err); ok {
			switch {
			case failed[0]:
				return entities.PaymentRequest{}, interfaces.ErrPendingRequestExists
			case failed[1]:
				return entities.PaymentRequest{}, interfaces.ErrAlreadyExists
			default:
				return entities.PaymentRequest{}, interfaces.ErrVersionConflict
			}
		}
		return entities.PaymentRequest{}, err
	}
	return p, nil
}

func (r *PaymentRequestDynamoRepository) GetByID(ctx context.Context, id string) (entities.PaymentRequest, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey("id", id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentRequest{}, nil
	}
	if _, isRequest := out.Item["worker_id"]; !isRequest {
		return entities.PaymentRequest{}, nil
	}

	var it paymentRequestItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.PaymentRequest{}, err
	}
	return fromPaymentRequestItem(it)
}

func (r *PaymentRequestDynamoRepository) GetPendingByWorker(ctx context.Context, workerID string) (entities.PaymentRequest, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey("id", pendingLockPrefix+workerID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if len(out.Item) == 0 {
		return entities.PaymentRequest{}, nil
	}

	var lock pendingLockItem
	if err := attributevalue.UnmarshalMap(out.Item, &lock); err != nil {
		return entities.PaymentRequest{}, err
	}
	return r.GetByID(ctx, lock.RequestID)
}

func (r *PaymentRequestDynamoRepository) ListByWorker(ctx context.Context, workerID string) ([]entities.PaymentRequest, error) {
	raw, err := queryAll(ctx, r.ddb, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(paymentRequestsWorkerIDIndex),
		KeyConditionExpression: aws.String("worker_id = :wid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":wid": stringAttr(workerID),
		},
	})
	if err != nil {
		return nil, err
	}

	items := make([]entities.PaymentRequest, 0, len(raw))
	for _, m := range raw {
		var it paymentRequestItem
		if err := attributevalue.UnmarshalMap(m, &it); err != nil {
			return nil, err
		}
		p, err := fromPaymentRequestItem(it)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

func (r *PaymentRequestDynamoRepository) Transition(ctx context.Context, p entities.PaymentRequest, from entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
	next := p
	next.Version = p.Version + 1
	put, err := r.guardedPut(next, p.Version, from)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	if from != entities.PaymentRequestPending {
		_, err = r.ddb.PutItem(ctx, &dynamodb.PutItemInput{
			TableName:                 put.TableName,
			Item:                      put.Item,
			ConditionExpression:       put.ConditionExpression,
			ExpressionAttributeNames:  put.ExpressionAttributeNames,
			ExpressionAttributeValues: put.ExpressionAttributeValues,
		})
		if isConditionFailed(err) {
			return entities.PaymentRequest{}, interfaces.ErrVersionConflict
		}
		if err != nil {
			return entities.PaymentRequest{}, err
		}
		return next, nil
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			r.releaseLock(p),
		},
	})
	if err != nil {
		if _, ok := cancelledAt(err); ok {
			return entities.PaymentRequest{}, interfaces.ErrVersionConflict
		}
		return entities.PaymentRequest{}, err
	}
	return next, nil
}

// Approve writes, in one transaction: the approved request, the release of the
// pending lock and the reservation of the amount on the worker's account,
// conditioned on the account still being at earningsVersion.
func (r *PaymentRequestDynamoRepository) Approve(ctx context.Context, p entities.PaymentRequest, earningsVersion int64) (entities.PaymentRequest, error) {
	next := p
	next.Version = p.Version + 1
	put, err := r.guardedPut(next, p.Version, entities.PaymentRequestPending)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	cond, names, values := earningsVersionCondition(earningsVersion)
	names["#lifetime"] = "lifetime_earned"
	names["#paid_out"] = "paid_out"
	names["#updated_at"] = "updated_at"
	names["#reserved"] = "reserved"
	names["#version"] = "version"
	values[":zero"] = numberAttr("0")
	values[":now"] = stringAttr(formatTime(time.Now()))
	values[":amount"] = numberAttr(p.RequestedAmount.String())
	values[":one"] = numberAttr("1")

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			r.releaseLock(p),
			{Update: &types.Update{
				TableName:                 aws.String(r.earningsTable),
				Key:                       idKey("worker_id", p.WorkerID),
				UpdateExpression:          aws.String("SET #lifetime = if_not_exists(#lifetime, :zero), #paid_out = if_not_exists(#paid_out, :zero), #updated_at = :now ADD #reserved :amount, #version :one"),
				ConditionExpression:       aws.String(cond),
				ExpressionAttributeNames:  names,
				ExpressionAttributeValues: values,
			}},
		},
	})
	if err != nil {
		if _, ok := cancelledAt(err); ok {
			return entities.PaymentRequest{}, interfaces.ErrVersionConflict
		}
		return entities.PaymentRequest{}, err
	}
	return next, nil
}

// MarkPaid moves a paying request to paid and moves the amount from the
// worker's reserved total to paid_out in one transaction.
func (r *PaymentRequestDynamoRepository) MarkPaid(ctx context.Context, p entities.PaymentRequest) (entities.PaymentRequest, error) {
	next := p
	next.Version = p.Version + 1
	put, err := r.guardedPut(next, p.Version, entities.PaymentRequestPaying)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	_, err = r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: put},
			{Update: &types.Update{
				TableName:        aws.String(r.earningsTable),
				Key:              idKey("worker_id", p.WorkerID),
				UpdateExpression: aws.String("SET #updated_at = :now ADD #paid_out :amount, #reserved :release, #version :one"),
				ExpressionAttributeNames: map[string]string{
					"#updated_at": "updated_at",
					"#paid_out":   "paid_out",
					"#reserved":   "reserved",
					"#version":    "version",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":now":     stringAttr(formatTime(time.Now())),
					":amount":  numberAttr(p.RequestedAmount.String()),
					":release": numberAttr(p.RequestedAmount.Neg().String()),
					":one":     numberAttr("1"),
				},
			}},
		},
	})
	if err != nil {
		if _, ok := cancelledAt(err); ok {
			return entities.PaymentRequest{}, interfaces.ErrVersionConflict
		}
		return entities.PaymentRequest{}, err
	}
	return next, nil
}

func (r *PaymentRequestDynamoRepository) DeletePending(ctx context.Context, p entities.PaymentRequest) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:           aws.String(r.tableName),
				Key:                 idKey("id", p.ID),
				ConditionExpression: aws.String("#version = :version AND #status = :status"),
				ExpressionAttributeNames: map[string]string{
					"#version": "version",
					"#status":  "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":version": versionAttr(p.Version),
					":status":  stringAttr(string(entities.PaymentRequestPending)),
				},
			}},
			r.releaseLock(p),
		},
	})
	if err != nil {
		if _, ok := cancelledAt(err); ok {
			return interfaces.ErrVersionConflict
		}
		return err
	}
	return nil
}

// guardedPut writes next only if the stored request is still at version in
// status from.
func (r *PaymentRequestDynamoRepository) guardedPut(next entities.PaymentRequest, version int64, from entities.PaymentRequestStatus) (*types.Put, error) {
	av, err := attributevalue.MarshalMap(toPaymentRequestItem(next))
	if err != nil {
		return nil, err
	}
	return &types.Put{
		TableName:           aws.String(r.tableName),
		Item:                av,
		ConditionExpression: aws.String("#version = :version AND #status = :from"),
		ExpressionAttributeNames: map[string]string{
			"#version": "version",
			"#status":  "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":version": versionAttr(version),
			":from":    stringAttr(string(from)),
		},
	}, nil
}

func (r *PaymentRequestDynamoRepository) releaseLock(p entities.PaymentRequest) types.TransactWriteItem {
	return types.TransactWriteItem{Delete: &types.Delete{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey("id", pendingLockPrefix+p.WorkerID),
		ConditionExpression:       aws.String("#request_id = :rid"),
		ExpressionAttributeNames:  map[string]string{"#request_id": "request_id"},
		ExpressionAttributeValues: map[string]types.AttributeValue{":rid": stringAttr(p.ID)},
	}}
}

func toPaymentRequestItem(p entities.PaymentRequest) paymentRequestItem {
	return paymentRequestItem{
		ID:                    p.ID,
		WorkerID:              p.WorkerID,
		RequestedAmount:       p.RequestedAmount.String(),
		TotalEarningsSnapshot: p.TotalEarningsSnapshot.String(),
		PaidOutSnapshot:       p.PaidOutSnapshot.String(),
		ReservedSnapshot:      p.ReservedSnapshot.String(),
		MaterialDeductions:    p.MaterialDeductions.String(),
		ToolDeductions:        p.ToolDeductions.String(),
		Status:                string(p.Status),
		ApproverID:            p.ApproverID,
		ApprovalTimestamp:     formatTimePtr(p.ApprovalTimestamp),
		Notes:                 p.Notes,
		PayoutReference:       p.PayoutReference,
		PaidAt:                formatTimePtr(p.PaidAt),
		Version:               p.Version,
		CreatedAt:             formatTime(p.CreatedAt),
		UpdatedAt:             formatTime(p.UpdatedAt),
	}
}

func fromPaymentRequestItem(it paymentRequestItem) (entities.PaymentRequest, error) {
	money := moneyDecoder{id: it.ID}
	p := entities.PaymentRequest{
		ID:                    it.ID,
		WorkerID:              it.WorkerID,
		RequestedAmount:       money.parse("requested_amount", it.RequestedAmount),
		TotalEarningsSnapshot: money.parse("total_earnings_snapshot", it.TotalEarningsSnapshot),
		PaidOutSnapshot:       money.parse("paid_out_snapshot", it.PaidOutSnapshot),
		ReservedSnapshot:      money.optional("reserved_snapshot", it.ReservedSnapshot),
		MaterialDeductions:    money.parse("material_deductions", it.MaterialDeductions),
		ToolDeductions:        money.parse("tool_deductions", it.ToolDeductions),
		Status:                entities.PaymentRequestStatus(it.Status),
		ApproverID:            it.ApproverID,
		ApprovalTimestamp:     parseTimePtr(it.ApprovalTimestamp),
		Notes:                 it.Notes,
		PayoutReference:       it.PayoutReference,
		PaidAt:                parseTimePtr(it.PaidAt),
		Version:               it.Version,
		CreatedAt:             parseTime(it.CreatedAt),
		UpdatedAt:             parseTime(it.UpdatedAt),
	}
	return p, money.err
}
