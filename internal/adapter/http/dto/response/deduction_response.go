package response

import "carwash_payouts/internal/domain/entities"

type UnreturnedItemResponse struct {
	CustodyRecordID    string `json:"custody_record_id"`
	ItemName           string `json:"item_name"`
	ItemKind           string `json:"item_kind"`
	UnreturnedQuantity int64  `json:"unreturned_quantity"`
	UnitPrice          string `json:"unit_price"`
	LineValue          string `json:"line_value"`
	Flagged            bool   `json:"flagged,omitempty"`
}

type DeductionReportResponse struct {
	WorkerID           string                   `json:"worker_id"`
	MaterialDeductions string                   `json:"material_deductions"`
	ToolDeductions     string                   `json:"tool_deductions"`
	TotalDeductions    string                   `json:"total_deductions"`
	UnreturnedItems    []UnreturnedItemResponse `json:"unreturned_items"`
	FlaggedRecordIDs   []string                 `json:"flagged_record_ids,omitempty"`
}

func FromDeductionReport(r entities.DeductionReport) DeductionReportResponse {
	items := make([]UnreturnedItemResponse, 0, len(r.UnreturnedItems))
	for _, it := range r.UnreturnedItems {
		items = append(items, UnreturnedItemResponse{
			CustodyRecordID:    it.CustodyRecordID,
			ItemName:           it.ItemName,
			ItemKind:           string(it.ItemKind),
			UnreturnedQuantity: it.UnreturnedQuantity,
			UnitPrice:          entities.FormatMoney(it.UnitPrice),
			LineValue:          entities.FormatMoney(it.LineValue),
			Flagged:            it.Flagged,
		})
	}
	return DeductionReportResponse{
		WorkerID:           r.WorkerID,
		MaterialDeductions: entities.FormatMoney(r.MaterialDeductions),
		ToolDeductions:     entities.FormatMoney(r.ToolDeductions),
		TotalDeductions:    entities.FormatMoney(r.TotalDeductions),
		UnreturnedItems:    items,
		FlaggedRecordIDs:   r.FlaggedRecordIDs,
	}
}

type PayoutCeilingResponse struct {
	WorkerID        string `json:"worker_id"`
	TotalEarnings   string `json:"total_earnings"`
	PaidOut         string `json:"paid_out"`
	Reserved        string `json:"reserved"`
	TotalDeductions string `json:"total_deductions"`
	Ceiling         string `json:"ceiling"`
}

func FromPayoutCeiling(c entities.PayoutCeiling) PayoutCeilingResponse {
	return PayoutCeilingResponse{
		WorkerID:        c.WorkerID,
		TotalEarnings:   entities.FormatMoney(c.TotalEarnings),
		PaidOut:         entities.FormatMoney(c.PaidOut),
		Reserved:        entities.FormatMoney(c.Reserved),
		TotalDeductions: entities.FormatMoney(c.TotalDeductions),
		Ceiling:         entities.FormatMoney(c.Ceiling),
	}
}
