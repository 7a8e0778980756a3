package usecase

import (
	"context"
	"errors"
	"testing"

	"carwash_payouts/internal/domain/entities"
	mock_interfaces "carwash_payouts/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func lineItem(id, price, pct string) entities.ServiceLineItem {
	item := entities.ServiceLineItem{ServiceID: id}
	if price != "" {
		item.Price = decimal.NewNullDecimal(dec(price))
	}
	if pct != "" {
		item.CommissionPercentage = decimal.NewNullDecimal(dec(pct))
	}
	return item
}

func completedJob(id string, items ...entities.ServiceLineItem) entities.Job {
	return entities.Job{ID: id, AssignedWorkerID: "w-1", Status: entities.JobStatusCompleted, LineItems: items}
}

func TestCommissionUseCase_ComputeWorkerEarnings(t *testing.T) {
	uc := NewCommissionUseCase(nil)

	t.Run("add-on with zero percentage contributes nothing", func(t *testing.T) {
		job := completedJob("job-1", lineItem("wash", "1000", "20"), lineItem("wax", "500", "0"))
		got, err := uc.ComputeWorkerEarnings(job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entities.FormatMoney(got) != "200.00" {
			t.Fatalf("expected 200.00, got %s", entities.FormatMoney(got))
		}
	})

	t.Run("missing fields contribute zero", func(t *testing.T) {
		job := completedJob("job-1", lineItem("wash", "100", "10"), lineItem("tip", "50", ""), lineItem("free", "", "30"))
		got, err := uc.ComputeWorkerEarnings(job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(dec("10")) {
			t.Fatalf("expected 10, got %s", got)
		}
	})

	t.Run("rounds once on the total", func(t *testing.T) {
		// 3 x 0.333 = 0.999 -> 1.00; per-line rounding would give 0.99.
		job := completedJob("job-1",
			lineItem("a", "3.33", "10"), lineItem("b", "3.33", "10"), lineItem("c", "3.33", "10"))
		got, err := uc.ComputeWorkerEarnings(job)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if entities.FormatMoney(got) != "1.00" {
			t.Fatalf("expected 1.00, got %s", entities.FormatMoney(got))
		}
	})

	t.Run("half-up rounding", func(t *testing.T) {
		job := completedJob("job-1", lineItem("a", "0.25", "10"))
		got, _ := uc.ComputeWorkerEarnings(job)
		if entities.FormatMoney(got) != "0.03" {
			t.Fatalf("expected 0.03, got %s", entities.FormatMoney(got))
		}
	})

	t.Run("order independent", func(t *testing.T) {
		a := completedJob("job-1", lineItem("a", "19.99", "12.5"), lineItem("b", "7.01", "33"), lineItem("c", "250", "7"))
		b := completedJob("job-1", a.LineItems[2], a.LineItems[0], a.LineItems[1])
		x, _ := uc.ComputeWorkerEarnings(a)
		y, _ := uc.ComputeWorkerEarnings(b)
		if !x.Equal(y) {
			t.Fatalf("expected equal totals, got %s and %s", x, y)
		}
	})

	t.Run("no line items is zero", func(t *testing.T) {
		got, err := uc.ComputeWorkerEarnings(completedJob("job-1"))
		if err != nil || !got.IsZero() {
			t.Fatalf("expected zero without error, got %s %v", got, err)
		}
	})

	t.Run("line items but zero total", func(t *testing.T) {
		_, err := uc.ComputeWorkerEarnings(completedJob("job-1", lineItem("wax", "500", "0")))
		if !errors.Is(err, ErrNoEarningsComputed) {
			t.Fatalf("expected ErrNoEarningsComputed, got %v", err)
		}
	})

	t.Run("percentage out of range", func(t *testing.T) {
		_, err := uc.ComputeWorkerEarnings(completedJob("job-1", lineItem("a", "10", "101")))
		if !errors.Is(err, ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := uc.ComputeWorkerEarnings(completedJob("job-1", lineItem("a", "-1", "10")))
		if !errors.Is(err, ErrInvalidLineItem) {
			t.Fatalf("expected ErrInvalidLineItem, got %v", err)
		}
	})
}

func TestCommissionUseCase_Breakdown(t *testing.T) {
	uc := NewCommissionUseCase(nil)
	b, err := uc.Breakdown(completedJob("job-1", lineItem("wash", "1000", "20"), lineItem("tip", "50", "")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(b.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(b.Lines))
	}
	if !b.Lines[0].Commissionable || !b.Lines[0].Amount.Equal(dec("200")) {
		t.Fatalf("unexpected first line: %+v", b.Lines[0])
	}
	if b.Lines[1].Commissionable {
		t.Fatalf("expected second line to be non-commissionable")
	}
	if b.WorkerID != "w-1" || b.JobID != "job-1" {
		t.Fatalf("unexpected breakdown ids: %+v", b)
	}
}

func TestCommissionUseCase_ComputeJob(t *testing.T) {
	t.Run("invalid job id", func(t *testing.T) {
		uc := NewCommissionUseCase(nil)
		_, err := uc.ComputeJob(context.Background(), "  ")
		if !errors.Is(err, ErrInvalidJobID) {
			t.Fatalf("expected ErrInvalidJobID, got %v", err)
		}
	})

	t.Run("job not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jobs := mock_interfaces.NewMockIJobSource(ctrl)
		uc := NewCommissionUseCase(jobs)

		jobs.EXPECT().GetCompletedJob(gomock.Any(), "job-1").Return(entities.Job{}, nil)

		_, err := uc.ComputeJob(context.Background(), "job-1")
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("expected ErrJobNotFound, got %v", err)
		}
	})

	t.Run("job not completed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jobs := mock_interfaces.NewMockIJobSource(ctrl)
		uc := NewCommissionUseCase(jobs)

		job := completedJob("job-1", lineItem("wash", "100", "10"))
		job.Status = entities.JobStatusInProgress
		jobs.EXPECT().GetCompletedJob(gomock.Any(), "job-1").Return(job, nil)

		_, err := uc.ComputeJob(context.Background(), "job-1")
		if !errors.Is(err, ErrJobNotCompleted) {
			t.Fatalf("expected ErrJobNotCompleted, got %v", err)
		}
	})

	t.Run("job without worker", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jobs := mock_interfaces.NewMockIJobSource(ctrl)
		uc := NewCommissionUseCase(jobs)

		job := completedJob("job-1", lineItem("wash", "100", "10"))
		job.AssignedWorkerID = ""
		jobs.EXPECT().GetCompletedJob(gomock.Any(), "job-1").Return(job, nil)

		_, err := uc.ComputeJob(context.Background(), "job-1")
		if !errors.Is(err, ErrJobWithoutWorker) {
			t.Fatalf("expected ErrJobWithoutWorker, got %v", err)
		}
	})

	t.Run("source timeout is retryable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jobs := mock_interfaces.NewMockIJobSource(ctrl)
		uc := NewCommissionUseCase(jobs)

		jobs.EXPECT().GetCompletedJob(gomock.Any(), "job-1").Return(entities.Job{}, context.DeadlineExceeded)

		_, err := uc.ComputeJob(context.Background(), "job-1")
		if !errors.Is(err, ErrStoreUnavailable) || KindOf(err) != KindUnavailable {
			t.Fatalf("expected ErrStoreUnavailable, got %v", err)
		}
	})

	t.Run("paid job is commissionable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jobs := mock_interfaces.NewMockIJobSource(ctrl)
		uc := NewCommissionUseCase(jobs)

		job := completedJob("job-1", lineItem("wash", "80", "25"))
		job.Status = entities.JobStatusPaid
		jobs.EXPECT().GetCompletedJob(gomock.Any(), "job-1").Return(job, nil)

		b, err := uc.ComputeJob(context.Background(), "job-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.Total.Equal(dec("20")) {
			t.Fatalf("expected 20, got %s", b.Total)
		}
	})
}
