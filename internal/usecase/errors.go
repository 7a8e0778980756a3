package usecase

import (
	"carwash_payouts/internal/usecase/interfaces"
	"context"
	"errors"
	"fmt"
)

// ErrorKind groups domain errors by who is at fault and whether a retry helps.
type ErrorKind string

const (
	KindValidation  ErrorKind = "validation"
	KindConflict    ErrorKind = "conflict"
	KindNotFound    ErrorKind = "not_found"
	KindIntegrity   ErrorKind = "integrity"
	KindUnavailable ErrorKind = "unavailable"
	KindInternal    ErrorKind = "internal"
)

// DomainError is a typed failure of a use case. Sentinels below are compared
// with errors.Is; call sites attach context with fmt.Errorf("%w: ...").
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func newDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

var (
	ErrInvalidWorkerID         = newDomainError(KindValidation, "INVALID_WORKER_ID", "invalid worker_id")
	ErrInvalidJobID            = newDomainError(KindValidation, "INVALID_JOB_ID", "invalid job_id")
	ErrInvalidCustodyID        = newDomainError(KindValidation, "INVALID_CUSTODY_ID", "invalid custody record id")
	ErrInvalidItemName         = newDomainError(KindValidation, "INVALID_ITEM_NAME", "invalid item name")
	ErrInvalidItemKind         = newDomainError(KindValidation, "INVALID_ITEM_KIND", "invalid item kind")
	ErrInvalidQuantity         = newDomainError(KindValidation, "INVALID_QUANTITY", "quantity must be greater than zero")
	ErrInvalidPrice            = newDomainError(KindValidation, "INVALID_PRICE", "unit price must be greater than zero")
	ErrInvalidAmount           = newDomainError(KindValidation, "INVALID_AMOUNT", "amount must be greater than zero")
	ErrInvalidRequestID        = newDomainError(KindValidation, "INVALID_PAYMENT_REQUEST_ID", "invalid payment request id")
	ErrInvalidApproverID       = newDomainError(KindValidation, "INVALID_APPROVER_ID", "invalid approver id")
	ErrBelowMinimumPayout      = newDomainError(KindValidation, "BELOW_MINIMUM_PAYOUT", "requested amount is below the minimum payout")
	ErrInvalidLineItem         = newDomainError(KindValidation, "INVALID_LINE_ITEM", "line item price or commission percentage out of range")
	ErrJobNotCompleted         = newDomainError(KindValidation, "JOB_NOT_COMPLETED", "job is not completed")
	ErrJobWithoutWorker        = newDomainError(KindValidation, "JOB_WITHOUT_WORKER", "job has no assigned worker")
	ErrNoEarningsComputed      = newDomainError(KindValidation, "NO_EARNINGS_COMPUTED", "job produced no commission; check the service commission configuration")
	ErrInsufficientNetEarnings = newDomainError(KindValidation, "INSUFFICIENT_NET_EARNINGS", "requested amount exceeds earnings net of deductions")

	ErrInsufficientCustody          = newDomainError(KindConflict, "INSUFFICIENT_CUSTODY", "quantity exceeds the remaining custody balance")
	ErrOverReturn                   = newDomainError(KindConflict, "OVER_RETURN", "returned quantity exceeds what is outstanding")
	ErrCustodyInUse                 = newDomainError(KindConflict, "CUSTODY_IN_USE", "custody record has consumptions and cannot be removed")
	ErrDuplicatePendingRequest      = newDomainError(KindConflict, "DUPLICATE_PENDING_REQUEST", "worker already has a pending payment request")
	ErrInvalidTransition            = newDomainError(KindConflict, "INVALID_TRANSITION", "payment request cannot move to the requested status")
	ErrCannotCancelProcessedRequest = newDomainError(KindConflict, "CANNOT_CANCEL_PROCESSED_REQUEST", "only pending payment requests can be cancelled")
	ErrConcurrentUpdate             = newDomainError(KindConflict, "CONCURRENT_UPDATE", "entity was modified concurrently; retry")
	ErrNotAuthorized                = newDomainError(KindConflict, "NOT_AUTHORIZED", "user is not allowed to perform this action")
	ErrCreditKeyReused              = newDomainError(KindConflict, "CREDIT_KEY_REUSED", "credit key was already used for a different credit")
	ErrNotRequestOwner              = newDomainError(KindConflict, "NOT_REQUEST_OWNER", "payment request belongs to another worker")

	ErrJobNotFound            = newDomainError(KindNotFound, "JOB_NOT_FOUND", "job not found")
	ErrCustodyNotFound        = newDomainError(KindNotFound, "CUSTODY_NOT_FOUND", "custody record not found")
	ErrPaymentRequestNotFound = newDomainError(KindNotFound, "PAYMENT_REQUEST_NOT_FOUND", "payment request not found")

	ErrCustodyIntegrity = newDomainError(KindIntegrity, "CUSTODY_INTEGRITY", "stored custody quantities are inconsistent")
	ErrCorruptRecord    = newDomainError(KindIntegrity, "CORRUPT_RECORD", "a stored record could not be read")

	ErrStoreUnavailable = newDomainError(KindUnavailable, "STORE_UNAVAILABLE", "storage did not answer in time; retry")
	ErrPayoutFailed     = newDomainError(KindUnavailable, "PAYOUT_FAILED", "payout provider did not complete the transfer")
)

// KindOf returns the kind of the first DomainError in err's chain.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// storeErr turns deadline and cancellation failures from collaborators into a
// retryable error and undecodable records into an integrity error. Anything
// else is returned unchanged.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
	}
	if errors.Is(err, interfaces.ErrCorruptRecord) {
		return fmt.Errorf("%w: %s: %v", ErrCorruptRecord, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// custodyStoreErr is storeErr for custody reads and writes, where a record that
// cannot be decoded is a custody integrity fault.
func custodyStoreErr(op string, err error) error {
	if errors.Is(err, interfaces.ErrCorruptRecord) {
		return fmt.Errorf("%w: %s: %v", ErrCustodyIntegrity, op, err)
	}
	return storeErr(op, err)
}
