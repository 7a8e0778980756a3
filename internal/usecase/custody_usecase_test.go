package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	mock_interfaces "carwash_payouts/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func custodyRecord(id string, assigned, consumed, returned int64) entities.CustodyRecord {
	return entities.CustodyRecord{
		ID:                id,
		WorkerID:          "w-1",
		ItemName:          "sponge",
		ItemKind:          entities.ItemKindMaterial,
		QuantityAssigned:  assigned,
		ConsumedTotal:     consumed,
		QuantityReturned:  returned,
		QuantityRemaining: assigned - consumed - returned,
		UnitPrice:         dec("50"),
		Version:           1,
	}
}

func TestCustodyUseCase_Assign(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		uc := NewCustodyUseCase(nil)
		cases := []struct {
			name string
			cmd  AssignCustodyCommand
			want error
		}{
			{"worker", AssignCustodyCommand{ItemName: "x", ItemKind: entities.ItemKindTool, Quantity: 1, UnitPrice: dec("1")}, ErrInvalidWorkerID},
			{"name", AssignCustodyCommand{WorkerID: "w", ItemName: "  ", ItemKind: entities.ItemKindTool, Quantity: 1, UnitPrice: dec("1")}, ErrInvalidItemName},
			{"kind", AssignCustodyCommand{WorkerID: "w", ItemName: "x", ItemKind: "gadget", Quantity: 1, UnitPrice: dec("1")}, ErrInvalidItemKind},
			{"quantity", AssignCustodyCommand{WorkerID: "w", ItemName: "x", ItemKind: entities.ItemKindTool, Quantity: 0, UnitPrice: dec("1")}, ErrInvalidQuantity},
			{"price", AssignCustodyCommand{WorkerID: "w", ItemName: "x", ItemKind: entities.ItemKindTool, Quantity: 1, UnitPrice: dec("0")}, ErrInvalidPrice},
			{"price scale", AssignCustodyCommand{WorkerID: "w", ItemName: "x", ItemKind: entities.ItemKindTool, Quantity: 1, UnitPrice: dec("1.005")}, ErrInvalidPrice},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := uc.Assign(context.Background(), tc.cmd)
				if !errors.Is(err, tc.want) {
					t.Fatalf("expected %v, got %v", tc.want, err)
				}
				if KindOf(err) != KindValidation {
					t.Fatalf("expected validation kind, got %s", KindOf(err))
				}
			})
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.CustodyRecord{})).DoAndReturn(
			func(_ context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
				if rec.ID == "" || rec.WorkerID != "w-1" || rec.QuantityAssigned != 10 || rec.QuantityRemaining != 10 {
					t.Fatalf("unexpected record: %+v", rec)
				}
				if rec.ConsumedTotal != 0 || rec.QuantityReturned != 0 || rec.Version != 1 {
					t.Fatalf("unexpected counters: %+v", rec)
				}
				return rec, nil
			},
		)

		rec, err := uc.Assign(context.Background(), AssignCustodyCommand{
			WorkerID: "w-1", ItemName: " sponge ", ItemKind: entities.ItemKindMaterial, Quantity: 10, UnitPrice: dec("50"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.ItemName != "sponge" {
			t.Fatalf("expected trimmed item name, got %q", rec.ItemName)
		}
	})
}

func TestCustodyUseCase_RecordConsumption(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.CustodyRecord{}, nil)

		_, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 1})
		if !errors.Is(err, ErrCustodyNotFound) {
			t.Fatalf("expected ErrCustodyNotFound, got %v", err)
		}
	})

	t.Run("exceeds balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 2), nil)

		_, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 6})
		if !errors.Is(err, ErrInsufficientCustody) {
			t.Fatalf("expected ErrInsufficientCustody, got %v", err)
		}
	})

	t.Run("refuses a corrupted record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		rec := custodyRecord("c-1", 10, 3, 2)
		rec.QuantityRemaining = 9
		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(rec, nil)

		_, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 1})
		if !errors.Is(err, ErrCustodyIntegrity) || KindOf(err) != KindIntegrity {
			t.Fatalf("expected ErrCustodyIntegrity, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 2), nil)
		repo.EXPECT().ApplyConsumption(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec entities.CustodyRecord, c entities.ConsumptionRecord) (entities.CustodyRecord, error) {
				if rec.ConsumedTotal != 5 || rec.QuantityRemaining != 3 || rec.Version != 1 {
					t.Fatalf("unexpected record: %+v", rec)
				}
				if c.ID == "" || c.CustodyRecordID != "c-1" || c.JobID != "job-1" || c.WorkerID != "w-1" || c.QuantityUsed != 2 {
					t.Fatalf("unexpected consumption: %+v", c)
				}
				rec.Version++
				return rec, nil
			},
		)

		res, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Record.Version != 2 || res.Record.Balance() != 3 {
			t.Fatalf("unexpected result: %+v", res.Record)
		}
	})

	t.Run("lost race on the last unit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		won := custodyRecord("c-1", 1, 1, 0)
		won.Version = 2
		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 1, 0, 0), nil),
			repo.EXPECT().ApplyConsumption(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.CustodyRecord{}, interfaces.ErrVersionConflict),
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(won, nil),
		)

		_, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 1})
		if !errors.Is(err, ErrInsufficientCustody) {
			t.Fatalf("expected ErrInsufficientCustody, got %v", err)
		}
	})

	t.Run("lost race with balance left", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		moved := custodyRecord("c-1", 10, 1, 0)
		moved.Version = 2
		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 0, 0), nil),
			repo.EXPECT().ApplyConsumption(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.CustodyRecord{}, interfaces.ErrVersionConflict),
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(moved, nil),
		)

		_, err := uc.RecordConsumption(context.Background(), RecordConsumptionCommand{CustodyRecordID: "c-1", JobID: "job-1", QuantityUsed: 1})
		if !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})
}

func TestCustodyUseCase_RecordItemConsumption(t *testing.T) {
	t.Run("picks the oldest record that covers the quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		oldSmall := custodyRecord("c-old", 1, 0, 0)
		oldSmall.CreatedAt = base
		newer := custodyRecord("c-new", 5, 0, 0)
		newer.CreatedAt = base.Add(time.Hour)
		newest := custodyRecord("c-newest", 5, 0, 0)
		newest.CreatedAt = base.Add(2 * time.Hour)
		tool := custodyRecord("c-tool", 5, 0, 0)
		tool.ItemKind = entities.ItemKindTool
		tool.CreatedAt = base.Add(-time.Hour)

		repo.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{newest, tool, newer, oldSmall}, nil)
		repo.EXPECT().GetByID(gomock.Any(), "c-new").Return(newer, nil)
		repo.EXPECT().ApplyConsumption(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec entities.CustodyRecord, c entities.ConsumptionRecord) (entities.CustodyRecord, error) {
				return rec, nil
			},
		)

		res, err := uc.RecordItemConsumption(context.Background(), RecordItemConsumptionCommand{
			WorkerID: "w-1", JobID: "job-1", ItemName: "sponge", ItemKind: entities.ItemKindMaterial, QuantityUsed: 2,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Consumption.CustodyRecordID != "c-new" {
			t.Fatalf("expected c-new, got %s", res.Consumption.CustodyRecordID)
		}
	})

	t.Run("item names match exactly", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{custodyRecord("c-1", 5, 0, 0)}, nil)

		_, err := uc.RecordItemConsumption(context.Background(), RecordItemConsumptionCommand{
			WorkerID: "w-1", JobID: "job-1", ItemName: "Sponge", ItemKind: entities.ItemKindMaterial, QuantityUsed: 1,
		})
		if !errors.Is(err, ErrCustodyNotFound) {
			t.Fatalf("expected ErrCustodyNotFound, got %v", err)
		}
	})

	t.Run("no single record covers the quantity", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{
			custodyRecord("c-1", 2, 0, 0), custodyRecord("c-2", 2, 0, 0),
		}, nil)

		_, err := uc.RecordItemConsumption(context.Background(), RecordItemConsumptionCommand{
			WorkerID: "w-1", JobID: "job-1", ItemName: "sponge", ItemKind: entities.ItemKindMaterial, QuantityUsed: 3,
		})
		if !errors.Is(err, ErrInsufficientCustody) {
			t.Fatalf("expected ErrInsufficientCustody, got %v", err)
		}
	})
}

func TestCustodyUseCase_RecordReturn(t *testing.T) {
	t.Run("over return", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 2), nil)

		_, err := uc.RecordReturn(context.Background(), RecordReturnCommand{CustodyRecordID: "c-1", QuantityReturned: 6})
		if !errors.Is(err, ErrOverReturn) {
			t.Fatalf("expected ErrOverReturn, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 2), nil)
		repo.EXPECT().ApplyReturn(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, rec entities.CustodyRecord) (entities.CustodyRecord, error) {
				if rec.QuantityReturned != 7 || rec.QuantityRemaining != 0 {
					t.Fatalf("unexpected record: %+v", rec)
				}
				return rec, nil
			},
		)

		rec, err := uc.RecordReturn(context.Background(), RecordReturnCommand{CustodyRecordID: "c-1", QuantityReturned: 5})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !rec.IsFullyReturned() {
			t.Fatalf("expected record to be fully returned")
		}
	})
}

func TestCustodyUseCase_AvailableFor(t *testing.T) {
	t.Run("filters exhausted records", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{
			custodyRecord("c-1", 10, 3, 2), custodyRecord("c-2", 4, 2, 2),
		}, nil)

		got, err := uc.AvailableFor(context.Background(), "w-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].ID != "c-1" {
			t.Fatalf("unexpected records: %+v", got)
		}
	})

	t.Run("integrity failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		bad := custodyRecord("c-1", 3, 3, 2)
		repo.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{bad}, nil)

		_, err := uc.AvailableFor(context.Background(), "w-1")
		if !errors.Is(err, ErrCustodyIntegrity) {
			t.Fatalf("expected ErrCustodyIntegrity, got %v", err)
		}
	})
}

func TestCustodyUseCase_ListConsumptions(t *testing.T) {
	t.Run("sum mismatch", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 0), nil).Times(2)
		repo.EXPECT().ListConsumptions(gomock.Any(), "c-1").Return([]entities.ConsumptionRecord{{ID: "x", QuantityUsed: 2}}, nil)

		_, err := uc.ListConsumptions(context.Background(), "c-1")
		if !errors.Is(err, ErrCustodyIntegrity) {
			t.Fatalf("expected ErrCustodyIntegrity, got %v", err)
		}
	})

	t.Run("consumption committed between reads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		moved := custodyRecord("c-1", 10, 4, 0)
		moved.Version = 2
		both := []entities.ConsumptionRecord{{ID: "x", QuantityUsed: 3}, {ID: "y", QuantityUsed: 1}}
		gomock.InOrder(
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 0), nil),
			repo.EXPECT().ListConsumptions(gomock.Any(), "c-1").Return(both, nil),
			repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(moved, nil),
			repo.EXPECT().ListConsumptions(gomock.Any(), "c-1").Return(both, nil),
		)

		got, err := uc.ListConsumptions(context.Background(), "c-1")
		if err != nil || len(got) != 2 {
			t.Fatalf("expected both consumptions, got %v %v", got, err)
		}
	})

	t.Run("record keeps moving", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		version := int64(0)
		repo.EXPECT().GetByID(gomock.Any(), "c-1").DoAndReturn(func(context.Context, string) (entities.CustodyRecord, error) {
			version++
			rec := custodyRecord("c-1", 10, 3, 0)
			rec.Version = version
			return rec, nil
		}).Times(listAttempts + 1)
		repo.EXPECT().ListConsumptions(gomock.Any(), "c-1").Return([]entities.ConsumptionRecord{{ID: "x", QuantityUsed: 4}}, nil).Times(listAttempts)

		_, err := uc.ListConsumptions(context.Background(), "c-1")
		if !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 3, 0), nil)
		repo.EXPECT().ListConsumptions(gomock.Any(), "c-1").Return([]entities.ConsumptionRecord{
			{ID: "x", QuantityUsed: 2}, {ID: "y", QuantityUsed: 1},
		}, nil)

		got, err := uc.ListConsumptions(context.Background(), "c-1")
		if err != nil || len(got) != 2 {
			t.Fatalf("unexpected result: %v %v", got, err)
		}
	})
}

func TestCustodyUseCase_Revoke(t *testing.T) {
	t.Run("in use", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(custodyRecord("c-1", 10, 1, 0), nil)

		err := uc.Revoke(context.Background(), "c-1")
		if !errors.Is(err, ErrCustodyInUse) {
			t.Fatalf("expected ErrCustodyInUse, got %v", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_interfaces.NewMockICustodyRepository(ctrl)
		uc := NewCustodyUseCase(repo)

		rec := custodyRecord("c-1", 10, 0, 4)
		repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(rec, nil)
		repo.EXPECT().Delete(gomock.Any(), rec).Return(nil)

		if err := uc.Revoke(context.Background(), "c-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestCustodyUseCase_CorruptRecordIsIntegrityFault(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockICustodyRepository(ctrl)
	uc := NewCustodyUseCase(repo)

	repo.EXPECT().GetByID(gomock.Any(), "c-1").Return(entities.CustodyRecord{}, fmt.Errorf("%w: c-1: unit_price = \"x\"", interfaces.ErrCorruptRecord))

	_, err := uc.GetByID(context.Background(), "c-1")
	if !errors.Is(err, ErrCustodyIntegrity) || KindOf(err) != KindIntegrity {
		t.Fatalf("expected ErrCustodyIntegrity, got %v", err)
	}
}
