package routes

import (
	"carwash_payouts/internal/adapter/http/handlers"
	"carwash_payouts/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathJobs            = "/jobs"
	PathWorkers         = "/workers"
	PathCustody         = "/custody"
	PathPaymentRequests = "/payment-requests"
)

// Handlers groups the HTTP handlers registered by addPayoutRoutes.
type Handlers struct {
	Custody        *handlers.CustodyHandler
	Earnings       *handlers.EarningsHandler
	PaymentRequest *handlers.PaymentRequestHandler
}

func addPayoutRoutes(rg *gin.RouterGroup, h Handlers, limiter *middleware.RateLimiter) {
	jobs := rg.Group(PathJobs)
	{
		jobs.GET("/:job_id/commission", h.Earnings.PreviewCommission)
		jobs.POST("/:job_id/credit", h.Earnings.CreditJob)
	}

	workers := rg.Group(PathWorkers)
	{
		workers.GET("/:worker_id/earnings", h.Earnings.GetAccount)
		workers.POST("/:worker_id/earnings/credits", h.Earnings.CreditManual)
		workers.GET("/:worker_id/custody", h.Custody.ListForWorker)
		workers.POST("/:worker_id/consumptions", h.Custody.RecordItemConsumption)
		workers.GET("/:worker_id/deductions", h.PaymentRequest.Deductions)
		workers.GET("/:worker_id/payout-ceiling", h.PaymentRequest.PayoutCeiling)
		workers.GET("/:worker_id/payment-requests", h.PaymentRequest.ListByWorker)
	}

	custody := rg.Group(PathCustody)
	{
		custody.POST("", h.Custody.Assign)
		custody.GET("/:id", h.Custody.Get)
		custody.DELETE("/:id", h.Custody.Revoke)
		custody.POST("/:id/consumptions", h.Custody.RecordConsumption)
		custody.GET("/:id/consumptions", h.Custody.ListConsumptions)
		custody.POST("/:id/returns", h.Custody.RecordReturn)
	}

	requests := rg.Group(PathPaymentRequests)
	{
		requests.POST("", limiter.Handler(), h.PaymentRequest.Create)
		requests.GET("/:id", h.PaymentRequest.Get)
		requests.PATCH("/:id/approve", h.PaymentRequest.Approve)
		requests.PATCH("/:id/reject", h.PaymentRequest.Reject)
		requests.PATCH("/:id/pay", h.PaymentRequest.Pay)
		requests.DELETE("/:id", h.PaymentRequest.Cancel)
	}
}
