package usecase

import (
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequestOptions are the payout rules set by the deployment.
type PaymentRequestOptions struct {
	// EnforceCeiling rejects requests above the net earnings ceiling unless the
	// command explicitly allows it.
	EnforceCeiling bool
	MinAmount      decimal.Decimal
}

func DefaultPaymentRequestOptions() PaymentRequestOptions {
	return PaymentRequestOptions{EnforceCeiling: true, MinAmount: decimal.Zero}
}

// IPaymentRequestUseCase is the withdrawal state machine.
//
//	pending -> approved -> paying -> paid
//	pending -> rejected
//	pending -> (cancelled by owner, deleted)
//
// Approve, reject and pay need an authorized approver. Approve reserves the
// requested amount on the earnings account. Pay claims the request as paying
// before calling the payout gateway, so only one caller ever disburses it.

type IPaymentRequestUseCase interface {
	Create(ctx context.Context, cmd CreatePaymentRequestCommand) (entities.PaymentRequest, error)
	Approve(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error)
	Reject(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error)
	Pay(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error)
	Cancel(ctx context.Context, cmd CancelPaymentRequestCommand) error
	GetByID(ctx context.Context, id string) (entities.PaymentRequest, error)
	ListByWorker(ctx context.Context, workerID string) ([]entities.PaymentRequest, error)
	PayoutCeiling(ctx context.Context, workerID string) (entities.PayoutCeiling, error)
}

type PaymentRequestUseCase struct {
	repo       interfaces.IPaymentRequestRepository
	earnings   IEarningsUseCase
	deductions IDeductionUseCase
	authz      interfaces.IAuthorizer
	gateway    interfaces.IPayoutGateway
	opts       PaymentRequestOptions
}

var _ IPaymentRequestUseCase = (*PaymentRequestUseCase)(nil)

func NewPaymentRequestUseCase(
	repo interfaces.IPaymentRequestRepository,
	earnings IEarningsUseCase,
	deductions IDeductionUseCase,
	authz interfaces.IAuthorizer,
	gateway interfaces.IPayoutGateway,
	opts PaymentRequestOptions,
) *PaymentRequestUseCase {
	return &PaymentRequestUseCase{repo: repo, earnings: earnings, deductions: deductions, authz: authz, gateway: gateway, opts: opts}
}

// Create snapshots earnings and deductions and stores a pending request.
//
// The store writes the request only if the worker holds no pending lock and
// the earnings account and every custody record read for the snapshot are
// still at the versions seen here.
func (u *PaymentRequestUseCase) Create(ctx context.Context, cmd CreatePaymentRequestCommand) (entities.PaymentRequest, error) {
	if err := cmd.Validate(); err != nil {
		return entities.PaymentRequest{}, err
	}

	pending, err := u.repo.GetPendingByWorker(ctx, cmd.WorkerID)
	if err != nil {
		return entities.PaymentRequest{}, storeErr("load pending payment request", err)
	}
	if pending.ID != "" {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %s", ErrDuplicatePendingRequest, pending.ID)
	}

	if cmd.RequestedAmount.LessThan(u.opts.MinAmount) {
		return entities.PaymentRequest{}, fmt.Errorf("%w: minimum is %s", ErrBelowMinimumPayout, entities.FormatMoney(u.opts.MinAmount))
	}

	ceiling, report, account, err := u.deductions.PayoutCeiling(ctx, cmd.WorkerID)
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if u.opts.EnforceCeiling && !cmd.AllowOverCeiling && cmd.RequestedAmount.GreaterThan(ceiling.Ceiling) {
		return entities.PaymentRequest{}, fmt.Errorf("%w: requested %s, ceiling %s",
			ErrInsufficientNetEarnings, entities.FormatMoney(cmd.RequestedAmount), entities.FormatMoney(ceiling.Ceiling))
	}

	now := time.Now().UTC()
	p := entities.PaymentRequest{
		ID:                    uuid.NewString(),
		WorkerID:              cmd.WorkerID,
		RequestedAmount:       cmd.RequestedAmount,
		TotalEarningsSnapshot: account.LifetimeEarned,
		PaidOutSnapshot:       account.PaidOut,
		ReservedSnapshot:      account.Reserved,
		MaterialDeductions:    report.MaterialDeductions,
		ToolDeductions:        report.ToolDeductions,
		Status:                entities.PaymentRequestPending,
		Notes:                 cmd.Notes,
		Version:               1,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	guard := interfaces.SnapshotGuard{
		EarningsVersion: account.Version,
		CustodyVersions: report.CustodyVersions,
	}

	created, err := u.repo.CreatePending(ctx, p, guard)
	switch {
	case errors.Is(err, interfaces.ErrPendingRequestExists):
		return entities.PaymentRequest{}, fmt.Errorf("%w: worker %s", ErrDuplicatePendingRequest, cmd.WorkerID)
	case errors.Is(err, interfaces.ErrVersionConflict):
		return entities.PaymentRequest{}, fmt.Errorf("%w: earnings or custody changed while snapshotting", ErrConcurrentUpdate)
	case err != nil:
		return entities.PaymentRequest{}, storeErr("create payment request", err)
	}
	return created, nil
}

// Approve moves a pending request to approved and reserves its amount on the
// worker's earnings account in the same write. With the ceiling enforced, a
// request larger than the earnings not yet paid out or reserved is refused, so
// two approved requests can never claim the same earnings.
func (u *PaymentRequestUseCase) Approve(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error) {
	p, err := u.review(ctx, &cmd, interfaces.ActionApprovePaymentRequest, entities.PaymentRequestApproved)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	account, err := u.earnings.GetAccount(ctx, p.WorkerID)
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if u.opts.EnforceCeiling && p.RequestedAmount.GreaterThan(account.Available()) {
		return entities.PaymentRequest{}, fmt.Errorf("%w: requested %s, unreserved earnings %s",
			ErrInsufficientNetEarnings, entities.FormatMoney(p.RequestedAmount), entities.FormatMoney(account.Available()))
	}

	now := time.Now().UTC()
	from := p.Status
	p.Status = entities.PaymentRequestApproved
	p.ApproverID = cmd.ApproverID
	p.ApprovalTimestamp = &now
	if cmd.Notes != "" {
		p.Notes = cmd.Notes
	}
	p.UpdatedAt = now

	approved, err := u.repo.Approve(ctx, p, account.Version)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		return entities.PaymentRequest{}, u.classifyConflict(ctx, p.ID, from)
	}
	if err != nil {
		return entities.PaymentRequest{}, storeErr("approve payment request", err)
	}
	return approved, nil
}

func (u *PaymentRequestUseCase) Reject(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error) {
	p, err := u.review(ctx, &cmd, interfaces.ActionRejectPaymentRequest, entities.PaymentRequestRejected)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	from := p.Status
	p.Status = entities.PaymentRequestRejected
	if cmd.Notes != "" {
		p.Notes = cmd.Notes
	}
	p.UpdatedAt = time.Now().UTC()
	return u.transition(ctx, p, from)
}

// Pay claims an approved request as paying, disburses it through the payout
// gateway and then marks it paid. Only the caller that wins the claim reaches
// the gateway; concurrent callers get ErrInvalidTransition.
//
// Once claimed the request is never payable again. If the gateway fails, or
// the paid write fails after the money moved, the request stays paying until
// it is reconciled with the provider by its request id.
func (u *PaymentRequestUseCase) Pay(ctx context.Context, cmd ReviewPaymentRequestCommand) (entities.PaymentRequest, error) {
	p, err := u.review(ctx, &cmd, interfaces.ActionPayPaymentRequest, entities.PaymentRequestPaying)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	p.Status = entities.PaymentRequestPaying
	p.UpdatedAt = time.Now().UTC()
	claimed, err := u.transition(ctx, p, entities.PaymentRequestApproved)
	if err != nil {
		return entities.PaymentRequest{}, err
	}

	ref, err := u.gateway.Disburse(ctx, claimed)
	if err != nil {
		return entities.PaymentRequest{}, fmt.Errorf("%w: request %s held as paying: %v", ErrPayoutFailed, claimed.ID, err)
	}

	now := time.Now().UTC()
	claimed.Status = entities.PaymentRequestPaid
	claimed.PayoutReference = ref
	claimed.PaidAt = &now
	claimed.UpdatedAt = now

	paid, err := u.repo.MarkPaid(ctx, claimed)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		return entities.PaymentRequest{}, u.classifyConflict(ctx, claimed.ID, entities.PaymentRequestPaying)
	}
	if err != nil {
		return entities.PaymentRequest{}, storeErr(fmt.Sprintf("mark payment request paid (payout %s)", ref), err)
	}
	return paid, nil
}

// Cancel withdraws the caller's own pending request.
func (u *PaymentRequestUseCase) Cancel(ctx context.Context, cmd CancelPaymentRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	p, err := u.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return err
	}
	if p.WorkerID != cmd.WorkerID {
		return fmt.Errorf("%w: request %s", ErrNotRequestOwner, p.ID)
	}
	if p.Status != entities.PaymentRequestPending {
		return fmt.Errorf("%w: request %s is %s", ErrCannotCancelProcessedRequest, p.ID, p.Status)
	}

	err = u.repo.DeletePending(ctx, p)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		fresh, lerr := u.repo.GetByID(ctx, p.ID)
		if lerr != nil {
			return storeErr("load payment request", lerr)
		}
		if fresh.ID == "" {
			return ErrPaymentRequestNotFound
		}
		if fresh.Status != entities.PaymentRequestPending {
			return fmt.Errorf("%w: request %s is %s", ErrCannotCancelProcessedRequest, p.ID, fresh.Status)
		}
		return fmt.Errorf("%w: request %s", ErrConcurrentUpdate, p.ID)
	}
	return storeErr("delete payment request", err)
}

func (u *PaymentRequestUseCase) GetByID(ctx context.Context, id string) (entities.PaymentRequest, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.PaymentRequest{}, ErrInvalidRequestID
	}
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.PaymentRequest{}, storeErr("load payment request", err)
	}
	if p.ID == "" {
		return entities.PaymentRequest{}, ErrPaymentRequestNotFound
	}
	return p, nil
}

func (u *PaymentRequestUseCase) ListByWorker(ctx context.Context, workerID string) ([]entities.PaymentRequest, error) {
	workerID = strings.TrimSpace(workerID)
	if workerID == "" {
		return nil, ErrInvalidWorkerID
	}
	items, err := u.repo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, storeErr("list payment requests", err)
	}
	return items, nil
}

func (u *PaymentRequestUseCase) PayoutCeiling(ctx context.Context, workerID string) (entities.PayoutCeiling, error) {
	ceiling, _, _, err := u.deductions.PayoutCeiling(ctx, workerID)
	return ceiling, err
}

// review validates the command, checks the approver's role and loads a request
// that may legally move to next.
func (u *PaymentRequestUseCase) review(ctx context.Context, cmd *ReviewPaymentRequestCommand, action interfaces.Action, next entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
	if err := cmd.Validate(); err != nil {
		return entities.PaymentRequest{}, err
	}

	ok, err := u.authz.IsAuthorized(ctx, cmd.ApproverID, action)
	if err != nil {
		return entities.PaymentRequest{}, storeErr("authorize", err)
	}
	if !ok {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %s may not %s", ErrNotAuthorized, cmd.ApproverID, action)
	}

	p, err := u.GetByID(ctx, cmd.RequestID)
	if err != nil {
		return entities.PaymentRequest{}, err
	}
	if !p.Status.CanTransitionTo(next) {
		return entities.PaymentRequest{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, next)
	}
	return p, nil
}

func (u *PaymentRequestUseCase) transition(ctx context.Context, p entities.PaymentRequest, from entities.PaymentRequestStatus) (entities.PaymentRequest, error) {
	updated, err := u.repo.Transition(ctx, p, from)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		return entities.PaymentRequest{}, u.classifyConflict(ctx, p.ID, from)
	}
	if err != nil {
		return entities.PaymentRequest{}, storeErr("update payment request", err)
	}
	return updated, nil
}

// classifyConflict re-reads a request after a lost write. If another writer
// already moved it out of from, the caller's transition is no longer legal.
func (u *PaymentRequestUseCase) classifyConflict(ctx context.Context, id string, from entities.PaymentRequestStatus) error {
	fresh, err := u.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if fresh.Status != from {
		return fmt.Errorf("%w: request %s is already %s", ErrInvalidTransition, id, fresh.Status)
	}
	return fmt.Errorf("%w: request %s", ErrConcurrentUpdate, id)
}
