package repository

import (
	"context"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/shopspring/decimal"
)

const defaultJobsTableName = "jobs"

type lineItem struct {
	ServiceID            string  `dynamodbav:"service_id"`
	Price                *string `dynamodbav:"price,omitempty"`
	CommissionPercentage *string `dynamodbav:"commission_percentage,omitempty"`
}

type jobItem struct {
	ID               string     `dynamodbav:"id"`
	AssignedWorkerID string     `dynamodbav:"assigned_worker_id"`
	Status           string     `dynamodbav:"status"`
	LineItems        []lineItem `dynamodbav:"line_items"`
	CompletedAt      string     `dynamodbav:"completed_at,omitempty"`
}

// JobDynamoSource reads jobs written by the dispatch side. This service never
// writes to the jobs table.
//
// Table requirements:
//   - PK: id (string)

type JobDynamoSource struct {
	ddb       DynamoAPI
	tableName string
}

var _ interfaces.IJobSource = (*JobDynamoSource)(nil)

func NewJobDynamoSource(ddb DynamoAPI) *JobDynamoSource {
	return &JobDynamoSource{
		ddb:       ddb,
		tableName: tableFromEnv("JOBS_TABLE", defaultJobsTableName),
	}
}

func (s *JobDynamoSource) GetCompletedJob(ctx context.Context, jobID string) (entities.Job, error) {
	out, err := s.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            idKey("id", jobID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return entities.Job{}, err
	}
	if len(out.Item) == 0 {
		return entities.Job{}, nil
	}

	var it jobItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return entities.Job{}, err
	}
	return fromJobItem(it), nil
}

func fromJobItem(it jobItem) entities.Job {
	items := make([]entities.ServiceLineItem, 0, len(it.LineItems))
	for _, li := range it.LineItems {
		items = append(items, entities.ServiceLineItem{
			ServiceID:            li.ServiceID,
			Price:                nullDecimal(li.Price),
			CommissionPercentage: nullDecimal(li.CommissionPercentage),
		})
	}
	return entities.Job{
		ID:               it.ID,
		AssignedWorkerID: it.AssignedWorkerID,
		Status:           entities.JobStatus(it.Status),
		LineItems:        items,
		CompletedAt:      parseTime(it.CompletedAt),
	}
}

// nullDecimal treats an absent or unparsable value as missing.
func nullDecimal(s *string) decimal.NullDecimal {
	if s == nil {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
