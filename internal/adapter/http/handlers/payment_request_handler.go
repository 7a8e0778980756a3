package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	request "carwash_payouts/internal/adapter/http/dto/request"
	response "carwash_payouts/internal/adapter/http/dto/response"
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/infrastructure/metrics"
	"carwash_payouts/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PaymentRequestHandler handles worker withdrawals and their review.
//
// The worker creating or cancelling a request, and the approver of a review,
// is always the caller identified by X-User-ID.

type PaymentRequestHandler struct {
	usecase    usecase.IPaymentRequestUseCase
	deductions usecase.IDeductionUseCase
}

func NewPaymentRequestHandler(uc usecase.IPaymentRequestUseCase, deductions usecase.IDeductionUseCase) *PaymentRequestHandler {
	return &PaymentRequestHandler{usecase: uc, deductions: deductions}
}

// Create godoc
// @Summary      Request a withdrawal
// @Tags         payment-requests
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string                               true  "Worker id"
// @Param        body       body      request.CreatePaymentRequestRequest  true  "Withdrawal"
// @Success      201        {object}  response.PaymentRequestResponse
// @Failure      400        {object}  pkg.HTTPError
// @Failure      409        {object}  pkg.HTTPError
// @Router       /payment-requests [post]
func (h *PaymentRequestHandler) Create(c *gin.Context) {
	workerID, ok := requireUser(c)
	if !ok {
		return
	}
	var payload request.CreatePaymentRequestRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	cmd := payload.ToCommand(workerID)
	created, err := retryOnConflict("payment_request_create", func() (entities.PaymentRequest, error) {
		return h.usecase.Create(c.Request.Context(), cmd)
	})
	metrics.ObservePaymentRequest("create", outcome(err))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"request_id": created.ID,
		"worker_id":  workerID,
		"amount":     entities.FormatMoney(created.RequestedAmount),
	}).Info("[payment_request][handler] created")

	c.JSON(http.StatusCreated, response.FromPaymentRequest(created))
}

func (h *PaymentRequestHandler) Get(c *gin.Context) {
	p, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentRequest(p))
}

func (h *PaymentRequestHandler) Approve(c *gin.Context) {
	h.review(c, "approve", h.usecase.Approve, true)
}

func (h *PaymentRequestHandler) Reject(c *gin.Context) {
	h.review(c, "reject", h.usecase.Reject, true)
}

// Pay claims the request and disburses it through the payout provider. It is
// not retried on conflict: a conflict means another caller holds the claim.
func (h *PaymentRequestHandler) Pay(c *gin.Context) {
	h.review(c, "pay", h.usecase.Pay, false)
}

func (h *PaymentRequestHandler) review(
	c *gin.Context,
	action string,
	apply func(ctx context.Context, cmd usecase.ReviewPaymentRequestCommand) (entities.PaymentRequest, error),
	retry bool,
) {
	approverID, ok := requireUser(c)
	if !ok {
		return
	}
	var payload request.ReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	cmd := payload.ToCommand(c.Param("id"), approverID)
	run := func() (entities.PaymentRequest, error) { return apply(c.Request.Context(), cmd) }
	var (
		updated entities.PaymentRequest
		err     error
	)
	if retry {
		updated, err = retryOnConflict("payment_request_"+action, run)
	} else {
		updated, err = run()
	}
	metrics.ObservePaymentRequest(action, outcome(err))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"request_id": updated.ID,
		"worker_id":  updated.WorkerID,
		"by":         approverID,
		"status":     updated.Status,
	}).Info("[payment_request][handler] " + action)

	c.JSON(http.StatusOK, response.FromPaymentRequest(updated))
}

// Cancel deletes the caller's own pending request.
func (h *PaymentRequestHandler) Cancel(c *gin.Context) {
	workerID, ok := requireUser(c)
	if !ok {
		return
	}

	cmd := usecase.CancelPaymentRequestCommand{RequestID: c.Param("id"), WorkerID: workerID}
	_, err := retryOnConflict("payment_request_cancel", func() (struct{}, error) {
		return struct{}{}, h.usecase.Cancel(c.Request.Context(), cmd)
	})
	metrics.ObservePaymentRequest("cancel", outcome(err))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"request_id": cmd.RequestID,
		"worker_id":  workerID,
	}).Info("[payment_request][handler] cancelled")

	c.Status(http.StatusNoContent)
}

func (h *PaymentRequestHandler) ListByWorker(c *gin.Context) {
	items, err := h.usecase.ListByWorker(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentRequestList(items))
}

// Deductions godoc
// @Summary      Value of unreturned custody
// @Tags         deductions
// @Produce      json
// @Param        worker_id  path      string  true  "Worker id"
// @Success      200        {object}  response.DeductionReportResponse
// @Router       /workers/{worker_id}/deductions [get]
func (h *PaymentRequestHandler) Deductions(c *gin.Context) {
	report, err := h.deductions.Reconcile(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, "deduction", err)
		return
	}
	if len(report.FlaggedRecordIDs) > 0 {
		metrics.ObserveIntegrityFault()
		logrus.WithFields(logrus.Fields{
			"worker_id":  report.WorkerID,
			"custody_id": report.FlaggedRecordIDs,
		}).Error("[deduction][handler] custody records clamped during reconciliation")
	}
	c.JSON(http.StatusOK, response.FromDeductionReport(report))
}

func (h *PaymentRequestHandler) PayoutCeiling(c *gin.Context) {
	ceiling, err := h.usecase.PayoutCeiling(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, "payment_request", err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayoutCeiling(ceiling))
}
