package request

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"
)

type AssignCustodyRequest struct {
	WorkerID  string `json:"worker_id" binding:"required"`
	ItemName  string `json:"item_name" binding:"required"`
	ItemKind  string `json:"item_kind" binding:"required,itemkind"`
	Quantity  int64  `json:"quantity"`
	UnitPrice string `json:"unit_price" binding:"required,money"`
}

func (r AssignCustodyRequest) ToCommand() usecase.AssignCustodyCommand {
	price, _ := entities.ParseMoney(r.UnitPrice)
	return usecase.AssignCustodyCommand{
		WorkerID:  r.WorkerID,
		ItemName:  r.ItemName,
		ItemKind:  entities.ItemKind(r.ItemKind),
		Quantity:  r.Quantity,
		UnitPrice: price,
	}
}

// ConsumptionRequest records usage against a known custody record.
type ConsumptionRequest struct {
	JobID    string `json:"job_id" binding:"required"`
	Quantity int64  `json:"quantity"`
}

func (r ConsumptionRequest) ToCommand(custodyID string) usecase.RecordConsumptionCommand {
	return usecase.RecordConsumptionCommand{
		CustodyRecordID: custodyID,
		JobID:           r.JobID,
		QuantityUsed:    r.Quantity,
	}
}

// ItemConsumptionRequest records usage by item name; the record is resolved
// from the worker's custody.
type ItemConsumptionRequest struct {
	JobID    string `json:"job_id" binding:"required"`
	ItemName string `json:"item_name" binding:"required"`
	ItemKind string `json:"item_kind" binding:"required,itemkind"`
	Quantity int64  `json:"quantity"`
}

func (r ItemConsumptionRequest) ToCommand(workerID string) usecase.RecordItemConsumptionCommand {
	return usecase.RecordItemConsumptionCommand{
		WorkerID:     workerID,
		JobID:        r.JobID,
		ItemName:     r.ItemName,
		ItemKind:     entities.ItemKind(r.ItemKind),
		QuantityUsed: r.Quantity,
	}
}

type ReturnRequest struct {
	Quantity int64 `json:"quantity"`
}

func (r ReturnRequest) ToCommand(custodyID string) usecase.RecordReturnCommand {
	return usecase.RecordReturnCommand{CustodyRecordID: custodyID, QuantityReturned: r.Quantity}
}
