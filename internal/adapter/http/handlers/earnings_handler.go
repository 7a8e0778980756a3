package handlers

import (
	"fmt"
	"net/http"

	request "carwash_payouts/internal/adapter/http/dto/request"
	response "carwash_payouts/internal/adapter/http/dto/response"
	"carwash_payouts/internal/usecase"
	"carwash_payouts/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EarningsHandler exposes commission previews and the earnings accumulator.
type EarningsHandler struct {
	commission usecase.ICommissionUseCase
	earnings   usecase.IEarningsUseCase
	authz      interfaces.IAuthorizer
}

func NewEarningsHandler(commission usecase.ICommissionUseCase, earnings usecase.IEarningsUseCase, authz interfaces.IAuthorizer) *EarningsHandler {
	return &EarningsHandler{commission: commission, earnings: earnings, authz: authz}
}

// PreviewCommission godoc
// @Summary      Commission breakdown of a job
// @Tags         earnings
// @Produce      json
// @Param        job_id  path      string  true  "Job id"
// @Success      200     {object}  response.CommissionBreakdownResponse
// @Failure      404     {object}  pkg.HTTPError
// @Router       /jobs/{job_id}/commission [get]
func (h *EarningsHandler) PreviewCommission(c *gin.Context) {
	breakdown, err := h.commission.PreviewJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		respondError(c, "earnings", err)
		return
	}
	c.JSON(http.StatusOK, response.FromCommissionBreakdown(breakdown))
}

// CreditJob godoc
// @Summary      Credit the commission of a completed job
// @Description  Idempotent per job: a replay returns the current total with applied=false.
// @Tags         earnings
// @Produce      json
// @Param        job_id  path      string  true  "Job id"
// @Success      200     {object}  response.CreditResponse
// @Failure      400     {object}  pkg.HTTPError
// @Router       /jobs/{job_id}/credit [post]
func (h *EarningsHandler) CreditJob(c *gin.Context) {
	jobID := c.Param("job_id")
	result, err := retryOnConflict("earnings_credit", func() (usecase.EarningsCreditResult, error) {
		return h.earnings.CreditForJob(c.Request.Context(), jobID)
	})
	if err != nil {
		respondError(c, "earnings", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"job_id":    jobID,
		"worker_id": result.Account.WorkerID,
		"amount":    result.Credit.Amount.String(),
		"applied":   result.Applied,
	}).Info("[earnings][handler] job credited")

	c.JSON(http.StatusOK, response.FromCreditResult(result))
}

// CreditManual applies an adjustment credit. The caller needs the
// earnings:credit role.
func (h *EarningsHandler) CreditManual(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var payload request.CreditEarningsRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	allowed, err := h.authz.IsAuthorized(c.Request.Context(), userID, interfaces.ActionCreditEarnings)
	if err != nil {
		respondError(c, "earnings", fmt.Errorf("%w: authorizer: %v", usecase.ErrStoreUnavailable, err))
		return
	}
	if !allowed {
		respondError(c, "earnings", usecase.ErrNotAuthorized)
		return
	}

	cmd := payload.ToCommand(c.Param("worker_id"))
	result, err := retryOnConflict("earnings_credit", func() (usecase.EarningsCreditResult, error) {
		return h.earnings.Credit(c.Request.Context(), cmd)
	})
	if err != nil {
		respondError(c, "earnings", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"worker_id": cmd.WorkerID,
		"credit_id": result.Credit.ID,
		"by":        userID,
		"applied":   result.Applied,
	}).Info("[earnings][handler] manual credit")

	c.JSON(http.StatusOK, response.FromCreditResult(result))
}

func (h *EarningsHandler) GetAccount(c *gin.Context) {
	account, err := h.earnings.GetAccount(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, "earnings", err)
		return
	}
	c.JSON(http.StatusOK, response.FromEarningsAccount(account))
}
