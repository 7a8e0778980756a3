package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// IDeductionUseCase values what a worker still holds and derives the payout
// ceiling from it.
type IDeductionUseCase interface {
	Reconcile(ctx context.Context, workerID string) (entities.DeductionReport, error)
	PayoutCeiling(ctx context.Context, workerID string) (entities.PayoutCeiling, entities.DeductionReport, entities.EarningsAccount, error)
}

type DeductionUseCase struct {
	custody  interfaces.ICustodyRepository
	earnings IEarningsUseCase
}

var _ IDeductionUseCase = (*DeductionUseCase)(nil)

func NewDeductionUseCase(custody interfaces.ICustodyRepository, earnings IEarningsUseCase) *DeductionUseCase {
	return &DeductionUseCase{custody: custody, earnings: earnings}
}

func (u *DeductionUseCase) Reconcile(ctx context.Context, workerID string) (entities.DeductionReport, error) {
	workerID = strings.TrimSpace(workerID)
	if workerID == "" {
		return entities.DeductionReport{}, ErrInvalidWorkerID
	}
	records, err := u.custody.ListByWorker(ctx, workerID)
	if err != nil {
		return entities.DeductionReport{}, custodyStoreErr("list custody records", err)
	}
	return ReconcileRecords(workerID, records), nil
}

// PayoutCeiling is lifetime earnings minus what was already paid out or
// reserved by approved requests minus current deductions, floored at zero.
func (u *DeductionUseCase) PayoutCeiling(ctx context.Context, workerID string) (entities.PayoutCeiling, entities.DeductionReport, entities.EarningsAccount, error) {
	account, err := u.earnings.GetAccount(ctx, workerID)
	if err != nil {
		return entities.PayoutCeiling{}, entities.DeductionReport{}, entities.EarningsAccount{}, err
	}
	report, err := u.Reconcile(ctx, workerID)
	if err != nil {
		return entities.PayoutCeiling{}, entities.DeductionReport{}, entities.EarningsAccount{}, err
	}
	return CeilingOf(account, report), report, account, nil
}

// CeilingOf combines an earnings account and a deduction report.
func CeilingOf(account entities.EarningsAccount, report entities.DeductionReport) entities.PayoutCeiling {
	ceiling := account.Available().Sub(report.TotalDeductions)
	if ceiling.IsNegative() {
		ceiling = decimal.Zero
	}
	return entities.PayoutCeiling{
		WorkerID:        report.WorkerID,
		TotalEarnings:   account.LifetimeEarned,
		PaidOut:         account.PaidOut,
		Reserved:        account.Reserved,
		TotalDeductions: report.TotalDeductions,
		Ceiling:         entities.RoundMoney(ceiling),
	}
}

// ReconcileRecords values the unreturned quantity of every record:
// (assigned - returned - consumed) * unit price. Materials and supplies are
// charged as material deductions, tools as tool deductions.
//
// A record whose stored quantities give a negative unreturned quantity is
// clamped to zero and listed in FlaggedRecordIDs. It never offsets other
// deductions.
func ReconcileRecords(workerID string, records []entities.CustodyRecord) entities.DeductionReport {
	sorted := make([]entities.CustodyRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	report := entities.DeductionReport{
		WorkerID:           workerID,
		MaterialDeductions: decimal.Zero,
		ToolDeductions:     decimal.Zero,
		TotalDeductions:    decimal.Zero,
		UnreturnedItems:    []entities.UnreturnedItem{},
		CustodyVersions:    make(map[string]int64, len(sorted)),
	}

	for _, rec := range sorted {
		report.CustodyVersions[rec.ID] = rec.Version

		unreturned := rec.Balance()
		flagged := unreturned < 0 || rec.CheckIntegrity() != nil
		if unreturned < 0 {
			unreturned = 0
		}
		if flagged {
			report.FlaggedRecordIDs = append(report.FlaggedRecordIDs, rec.ID)
		}
		if unreturned == 0 && !flagged {
			continue
		}

		value := entities.RoundMoney(rec.UnitPrice.Mul(decimal.NewFromInt(unreturned)))
		report.UnreturnedItems = append(report.UnreturnedItems, entities.UnreturnedItem{
			CustodyRecordID:    rec.ID,
			ItemName:           rec.ItemName,
			ItemKind:           rec.ItemKind,
			UnreturnedQuantity: unreturned,
			UnitPrice:          rec.UnitPrice,
			LineValue:          value,
			Flagged:            flagged,
		})

		if rec.ItemKind.Consumable() {
			report.MaterialDeductions = report.MaterialDeductions.Add(value)
		} else {
			report.ToolDeductions = report.ToolDeductions.Add(value)
		}
	}

	report.TotalDeductions = report.MaterialDeductions.Add(report.ToolDeductions)
	return report
}
