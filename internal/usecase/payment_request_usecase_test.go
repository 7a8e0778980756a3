package usecase

import (
	"context"
	"errors"
	"testing"

	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	mock_interfaces "carwash_payouts/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type paymentRequestFixture struct {
	repo     *mock_interfaces.MockIPaymentRequestRepository
	custody  *mock_interfaces.MockICustodyRepository
	earnings *mock_interfaces.MockIEarningsRepository
	authz    *mock_interfaces.MockIAuthorizer
	gateway  *mock_interfaces.MockIPayoutGateway
	uc       *PaymentRequestUseCase
}

func newPaymentRequestFixture(t *testing.T, opts PaymentRequestOptions) paymentRequestFixture {
	ctrl := gomock.NewController(t)
	f := paymentRequestFixture{
		repo:     mock_interfaces.NewMockIPaymentRequestRepository(ctrl),
		custody:  mock_interfaces.NewMockICustodyRepository(ctrl),
		earnings: mock_interfaces.NewMockIEarningsRepository(ctrl),
		authz:    mock_interfaces.NewMockIAuthorizer(ctrl),
		gateway:  mock_interfaces.NewMockIPayoutGateway(ctrl),
	}
	earnings := NewEarningsUseCase(f.earnings, nil)
	deductions := NewDeductionUseCase(f.custody, earnings)
	f.uc = NewPaymentRequestUseCase(f.repo, earnings, deductions, f.authz, f.gateway, opts)
	return f
}

// expectSnapshot stubs 1200 earned and 300 of unreturned sponges.
func (f paymentRequestFixture) expectSnapshot() {
	f.repo.EXPECT().GetPendingByWorker(gomock.Any(), "w-1").Return(entities.PaymentRequest{}, nil)
	f.earnings.EXPECT().GetAccount(gomock.Any(), "w-1").Return(entities.EarningsAccount{
		WorkerID: "w-1", LifetimeEarned: dec("1200"), PaidOut: dec("0"), Version: 7,
	}, nil)
	f.custody.EXPECT().ListByWorker(gomock.Any(), "w-1").Return([]entities.CustodyRecord{custodyRecord("c-1", 6, 0, 0)}, nil)
}

func (f paymentRequestFixture) expectAccount(earned, paidOut, reserved string) {
	f.earnings.EXPECT().GetAccount(gomock.Any(), "w-1").Return(entities.EarningsAccount{
		WorkerID: "w-1", LifetimeEarned: dec(earned), PaidOut: dec(paidOut), Reserved: dec(reserved), Version: 7,
	}, nil)
}

func storedRequest(status entities.PaymentRequestStatus) entities.PaymentRequest {
	return entities.PaymentRequest{
		ID:                    "pr-1",
		WorkerID:              "w-1",
		RequestedAmount:       dec("500"),
		TotalEarningsSnapshot: dec("1200"),
		MaterialDeductions:    dec("300"),
		Status:                status,
		Version:               1,
	}
}

func TestPaymentRequestUseCase_Create(t *testing.T) {
	t.Run("exceeds net earnings", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.expectSnapshot()

		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("1000")})
		if !errors.Is(err, ErrInsufficientNetEarnings) {
			t.Fatalf("expected ErrInsufficientNetEarnings, got %v", err)
		}
	})

	t.Run("over ceiling allowed by caller", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.expectSnapshot()
		f.repo.EXPECT().CreatePending(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.PaymentRequest, _ interfaces.SnapshotGuard) (entities.PaymentRequest, error) {
				return p, nil
			},
		)

		p, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("1000"), AllowOverCeiling: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !p.NetCeiling().Equal(dec("900")) {
			t.Fatalf("expected snapshot ceiling 900, got %s", p.NetCeiling())
		}
	})

	t.Run("success snapshots and guards versions", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.expectSnapshot()
		f.repo.EXPECT().CreatePending(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, p entities.PaymentRequest, guard interfaces.SnapshotGuard) (entities.PaymentRequest, error) {
				if p.ID == "" || p.Status != entities.PaymentRequestPending || p.WorkerID != "w-1" {
					t.Fatalf("unexpected request: %+v", p)
				}
				if !p.TotalEarningsSnapshot.Equal(dec("1200")) || !p.MaterialDeductions.Equal(dec("300")) || !p.ToolDeductions.IsZero() {
					t.Fatalf("unexpected snapshot: %+v", p)
				}
				if guard.EarningsVersion != 7 || guard.CustodyVersions["c-1"] != 1 {
					t.Fatalf("unexpected guard: %+v", guard)
				}
				return p, nil
			},
		)

		p, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("900"), Notes: " weekly "})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Notes != "weekly" {
			t.Fatalf("expected trimmed notes, got %q", p.Notes)
		}
	})

	t.Run("already pending", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.repo.EXPECT().GetPendingByWorker(gomock.Any(), "w-1").Return(storedRequest(entities.PaymentRequestPending), nil)

		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("10")})
		if !errors.Is(err, ErrDuplicatePendingRequest) {
			t.Fatalf("expected ErrDuplicatePendingRequest, got %v", err)
		}
	})

	t.Run("lost the pending lock race", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.expectSnapshot()
		f.repo.EXPECT().CreatePending(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.PaymentRequest{}, interfaces.ErrPendingRequestExists)

		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("10")})
		if !errors.Is(err, ErrDuplicatePendingRequest) {
			t.Fatalf("expected ErrDuplicatePendingRequest, got %v", err)
		}
	})

	t.Run("snapshot moved", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.expectSnapshot()
		f.repo.EXPECT().CreatePending(gomock.Any(), gomock.Any(), gomock.Any()).Return(entities.PaymentRequest{}, interfaces.ErrVersionConflict)

		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("10")})
		if !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})

	t.Run("below minimum", func(t *testing.T) {
		f := newPaymentRequestFixture(t, PaymentRequestOptions{EnforceCeiling: true, MinAmount: dec("50")})
		f.repo.EXPECT().GetPendingByWorker(gomock.Any(), "w-1").Return(entities.PaymentRequest{}, nil)

		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("49.99")})
		if !errors.Is(err, ErrBelowMinimumPayout) {
			t.Fatalf("expected ErrBelowMinimumPayout, got %v", err)
		}
	})

	t.Run("invalid amount", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		_, err := f.uc.Create(context.Background(), CreatePaymentRequestCommand{WorkerID: "w-1", RequestedAmount: dec("-5")})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("expected ErrInvalidAmount, got %v", err)
		}
	})
}

func TestPaymentRequestUseCase_Approve(t *testing.T) {
	review := ReviewPaymentRequestCommand{RequestID: "pr-1", ApproverID: "admin-1"}

	t.Run("not authorized", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(false, nil)

		_, err := f.uc.Approve(context.Background(), review)
		if !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("success reserves against the read account version", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil)
		f.expectAccount("1200", "0", "0")
		f.repo.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(7)).DoAndReturn(
			func(_ context.Context, p entities.PaymentRequest, _ int64) (entities.PaymentRequest, error) {
				if p.Status != entities.PaymentRequestApproved || p.ApproverID != "admin-1" || p.ApprovalTimestamp == nil {
					t.Fatalf("unexpected request: %+v", p)
				}
				if !p.MaterialDeductions.Equal(dec("300")) {
					t.Fatalf("snapshot must not be recomputed")
				}
				return p, nil
			},
		)

		p, err := f.uc.Approve(context.Background(), review)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentRequestApproved {
			t.Fatalf("expected approved, got %s", p.Status)
		}
	})

	t.Run("not pending", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestRejected), nil)

		_, err := f.uc.Approve(context.Background(), review)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("earnings already reserved by another approval", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil)
		f.expectAccount("1200", "0", "900")

		_, err := f.uc.Approve(context.Background(), review)
		if !errors.Is(err, ErrInsufficientNetEarnings) {
			t.Fatalf("expected ErrInsufficientNetEarnings, got %v", err)
		}
	})

	t.Run("lost race to a reject", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(true, nil)
		f.expectAccount("1200", "0", "0")
		gomock.InOrder(
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil),
			f.repo.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(7)).Return(entities.PaymentRequest{}, interfaces.ErrVersionConflict),
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestRejected), nil),
		)

		_, err := f.uc.Approve(context.Background(), review)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("earnings moved during approval", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionApprovePaymentRequest).Return(true, nil)
		f.expectAccount("1200", "0", "0")
		gomock.InOrder(
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil),
			f.repo.EXPECT().Approve(gomock.Any(), gomock.Any(), int64(7)).Return(entities.PaymentRequest{}, interfaces.ErrVersionConflict),
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil),
		)

		_, err := f.uc.Approve(context.Background(), review)
		if !errors.Is(err, ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})

	t.Run("missing approver", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		_, err := f.uc.Approve(context.Background(), ReviewPaymentRequestCommand{RequestID: "pr-1"})
		if !errors.Is(err, ErrInvalidApproverID) {
			t.Fatalf("expected ErrInvalidApproverID, got %v", err)
		}
	})
}

func TestPaymentRequestUseCase_Reject(t *testing.T) {
	f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
	f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionRejectPaymentRequest).Return(true, nil)
	f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil)
	f.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), entities.PaymentRequestPending).DoAndReturn(
		func(_ context.Context, p entities.PaymentRequest, _ entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
			if p.Status != entities.PaymentRequestRejected || p.ApprovalTimestamp != nil || p.Notes != "missing receipts" {
				t.Fatalf("unexpected request: %+v", p)
			}
			return p, nil
		},
	)

	_, err := f.uc.Reject(context.Background(), ReviewPaymentRequestCommand{RequestID: "pr-1", ApproverID: "admin-1", Notes: "missing receipts"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPaymentRequestUseCase_Pay(t *testing.T) {
	review := ReviewPaymentRequestCommand{RequestID: "pr-1", ApproverID: "admin-1"}

	t.Run("pending cannot be paid", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionPayPaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil)

		_, err := f.uc.Pay(context.Background(), review)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("paying cannot be paid again", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionPayPaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPaying), nil)

		_, err := f.uc.Pay(context.Background(), review)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("lost the claim to another payer", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionPayPaymentRequest).Return(true, nil)
		gomock.InOrder(
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestApproved), nil),
			f.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), entities.PaymentRequestApproved).Return(entities.PaymentRequest{}, interfaces.ErrVersionConflict),
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPaying), nil),
		)

		_, err := f.uc.Pay(context.Background(), review)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("gateway failure leaves request paying", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionPayPaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestApproved), nil)
		f.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), entities.PaymentRequestApproved).DoAndReturn(claim)
		f.gateway.EXPECT().Disburse(gomock.Any(), gomock.Any()).Return("", errors.New("provider down"))

		_, err := f.uc.Pay(context.Background(), review)
		if !errors.Is(err, ErrPayoutFailed) || KindOf(err) != KindUnavailable {
			t.Fatalf("expected ErrPayoutFailed, got %v", err)
		}
	})

	t.Run("success claims before disbursing", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.authz.EXPECT().IsAuthorized(gomock.Any(), "admin-1", interfaces.ActionPayPaymentRequest).Return(true, nil)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestApproved), nil)
		gomock.InOrder(
			f.repo.EXPECT().Transition(gomock.Any(), gomock.Any(), entities.PaymentRequestApproved).DoAndReturn(claim),
			f.gateway.EXPECT().Disburse(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, p entities.PaymentRequest) (string, error) {
					if p.Status != entities.PaymentRequestPaying || p.Version != 2 {
						t.Fatalf("disbursed an unclaimed request: %+v", p)
					}
					return "mp-123", nil
				},
			),
			f.repo.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, p entities.PaymentRequest) (entities.PaymentRequest, error) {
					if p.Status != entities.PaymentRequestPaid || p.PayoutReference != "mp-123" || p.PaidAt == nil || p.Version != 2 {
						t.Fatalf("unexpected request: %+v", p)
					}
					return p, nil
				},
			),
		)

		p, err := f.uc.Pay(context.Background(), review)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Status != entities.PaymentRequestPaid {
			t.Fatalf("expected paid, got %s", p.Status)
		}
	})
}

// claim stands in for a repository that accepts the approved -> paying write.
func claim(_ context.Context, p entities.PaymentRequest, _ entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
	p.Version++
	return p, nil
}

func TestPaymentRequestUseCase_Cancel(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil)

		err := f.uc.Cancel(context.Background(), CancelPaymentRequestCommand{RequestID: "pr-1", WorkerID: "w-2"})
		if !errors.Is(err, ErrNotRequestOwner) {
			t.Fatalf("expected ErrNotRequestOwner, got %v", err)
		}
	})

	t.Run("already processed", func(t *testing.T) {
		for _, status := range []entities.PaymentRequestStatus{
			entities.PaymentRequestApproved, entities.PaymentRequestRejected, entities.PaymentRequestPaying, entities.PaymentRequestPaid,
		} {
			t.Run(string(status), func(t *testing.T) {
				f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
				f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(status), nil)

				err := f.uc.Cancel(context.Background(), CancelPaymentRequestCommand{RequestID: "pr-1", WorkerID: "w-1"})
				if !errors.Is(err, ErrCannotCancelProcessedRequest) {
					t.Fatalf("expected ErrCannotCancelProcessedRequest, got %v", err)
				}
			})
		}
	})

	t.Run("success", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		p := storedRequest(entities.PaymentRequestPending)
		f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(p, nil)
		f.repo.EXPECT().DeletePending(gomock.Any(), p).Return(nil)

		if err := f.uc.Cancel(context.Background(), CancelPaymentRequestCommand{RequestID: "pr-1", WorkerID: "w-1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("approved while cancelling", func(t *testing.T) {
		f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
		gomock.InOrder(
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestPending), nil),
			f.repo.EXPECT().DeletePending(gomock.Any(), gomock.Any()).Return(interfaces.ErrVersionConflict),
			f.repo.EXPECT().GetByID(gomock.Any(), "pr-1").Return(storedRequest(entities.PaymentRequestApproved), nil),
		)

		err := f.uc.Cancel(context.Background(), CancelPaymentRequestCommand{RequestID: "pr-1", WorkerID: "w-1"})
		if !errors.Is(err, ErrCannotCancelProcessedRequest) {
			t.Fatalf("expected ErrCannotCancelProcessedRequest, got %v", err)
		}
	})
}

func TestPaymentRequestUseCase_GetByID(t *testing.T) {
	f := newPaymentRequestFixture(t, DefaultPaymentRequestOptions())
	f.repo.EXPECT().GetByID(gomock.Any(), "missing").Return(entities.PaymentRequest{}, nil)

	_, err := f.uc.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrPaymentRequestNotFound) || KindOf(err) != KindNotFound {
		t.Fatalf("expected ErrPaymentRequestNotFound, got %v", err)
	}
}
