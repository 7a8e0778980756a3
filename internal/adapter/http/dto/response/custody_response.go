package response

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"
	"time"
)

type CustodyResponse struct {
	ID                string    `json:"id"`
	WorkerID          string    `json:"worker_id"`
	ItemName          string    `json:"item_name"`
	ItemKind          string    `json:"item_kind"`
	QuantityAssigned  int64     `json:"quantity_assigned"`
	QuantityConsumed  int64     `json:"quantity_consumed"`
	QuantityReturned  int64     `json:"quantity_returned"`
	QuantityRemaining int64     `json:"quantity_remaining"`
	UnitPrice         string    `json:"unit_price"`
	Version           int64     `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func FromCustody(r entities.CustodyRecord) CustodyResponse {
	return CustodyResponse{
		ID:                r.ID,
		WorkerID:          r.WorkerID,
		ItemName:          r.ItemName,
		ItemKind:          string(r.ItemKind),
		QuantityAssigned:  r.QuantityAssigned,
		QuantityConsumed:  r.ConsumedTotal,
		QuantityReturned:  r.QuantityReturned,
		QuantityRemaining: r.QuantityRemaining,
		UnitPrice:         entities.FormatMoney(r.UnitPrice),
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func FromCustodyList(records []entities.CustodyRecord) []CustodyResponse {
	out := make([]CustodyResponse, 0, len(records))
	for _, r := range records {
		out = append(out, FromCustody(r))
	}
	return out
}

type ConsumptionResponse struct {
	ID              string    `json:"id"`
	CustodyRecordID string    `json:"custody_record_id"`
	JobID           string    `json:"job_id"`
	WorkerID        string    `json:"worker_id"`
	QuantityUsed    int64     `json:"quantity_used"`
	CreatedAt       time.Time `json:"created_at"`
}

func FromConsumption(c entities.ConsumptionRecord) ConsumptionResponse {
	return ConsumptionResponse{
		ID:              c.ID,
		CustodyRecordID: c.CustodyRecordID,
		JobID:           c.JobID,
		WorkerID:        c.WorkerID,
		QuantityUsed:    c.QuantityUsed,
		CreatedAt:       c.CreatedAt,
	}
}

func FromConsumptionList(items []entities.ConsumptionRecord) []ConsumptionResponse {
	out := make([]ConsumptionResponse, 0, len(items))
	for _, c := range items {
		out = append(out, FromConsumption(c))
	}
	return out
}

// ConsumptionResultResponse returns the new consumption with the record it drew from.
type ConsumptionResultResponse struct {
	Consumption ConsumptionResponse `json:"consumption"`
	Custody     CustodyResponse     `json:"custody"`
}

func FromConsumptionResult(r usecase.ConsumptionResult) ConsumptionResultResponse {
	return ConsumptionResultResponse{
		Consumption: FromConsumption(r.Consumption),
		Custody:     FromCustody(r.Record),
	}
}
