package handlers

import (
	"net/http"

	request "carwash_payouts/internal/adapter/http/dto/request"
	response "carwash_payouts/internal/adapter/http/dto/response"
	"carwash_payouts/internal/domain/entities"
	"carwash_payouts/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CustodyHandler exposes custody assignment, consumption and returns.
type CustodyHandler struct {
	usecase usecase.ICustodyUseCase
}

func NewCustodyHandler(uc usecase.ICustodyUseCase) *CustodyHandler {
	return &CustodyHandler{usecase: uc}
}

// Assign godoc
// @Summary      Assign items to a worker
// @Tags         custody
// @Accept       json
// @Produce      json
// @Param        body  body      request.AssignCustodyRequest  true  "Custody assignment"
// @Success      201   {object}  response.CustodyResponse
// @Failure      400   {object}  pkg.HTTPError
// @Router       /custody [post]
func (h *CustodyHandler) Assign(c *gin.Context) {
	var payload request.AssignCustodyRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	record, err := h.usecase.Assign(c.Request.Context(), payload.ToCommand())
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"custody_id": record.ID,
		"worker_id":  record.WorkerID,
		"item":       record.ItemName,
		"quantity":   record.QuantityAssigned,
	}).Info("[custody][handler] assigned")

	c.JSON(http.StatusCreated, response.FromCustody(record))
}

func (h *CustodyHandler) Get(c *gin.Context) {
	record, err := h.usecase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusOK, response.FromCustody(record))
}

// Revoke deletes an assignment that was never drawn from.
func (h *CustodyHandler) Revoke(c *gin.Context) {
	id := c.Param("id")
	if err := h.usecase.Revoke(c.Request.Context(), id); err != nil {
		respondError(c, "custody", err)
		return
	}
	logrus.WithField("custody_id", id).Info("[custody][handler] revoked")
	c.Status(http.StatusNoContent)
}

// RecordConsumption godoc
// @Summary      Record usage of a custody record on a job
// @Tags         custody
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Custody record id"
// @Param        body  body      request.ConsumptionRequest  true  "Consumption"
// @Success      201   {object}  response.ConsumptionResultResponse
// @Failure      409   {object}  pkg.HTTPError
// @Router       /custody/{id}/consumptions [post]
func (h *CustodyHandler) RecordConsumption(c *gin.Context) {
	var payload request.ConsumptionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	cmd := payload.ToCommand(c.Param("id"))
	result, err := retryOnConflict("custody_consume", func() (usecase.ConsumptionResult, error) {
		return h.usecase.RecordConsumption(c.Request.Context(), cmd)
	})
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromConsumptionResult(result))
}

// RecordItemConsumption consumes by item name from the worker's custody.
func (h *CustodyHandler) RecordItemConsumption(c *gin.Context) {
	var payload request.ItemConsumptionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	cmd := payload.ToCommand(c.Param("worker_id"))
	result, err := retryOnConflict("custody_consume", func() (usecase.ConsumptionResult, error) {
		return h.usecase.RecordItemConsumption(c.Request.Context(), cmd)
	})
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusCreated, response.FromConsumptionResult(result))
}

func (h *CustodyHandler) ListConsumptions(c *gin.Context) {
	items, err := h.usecase.ListConsumptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusOK, response.FromConsumptionList(items))
}

func (h *CustodyHandler) RecordReturn(c *gin.Context) {
	var payload request.ReturnRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindError(c, err)
		return
	}

	cmd := payload.ToCommand(c.Param("id"))
	record, err := retryOnConflict("custody_return", func() (entities.CustodyRecord, error) {
		return h.usecase.RecordReturn(c.Request.Context(), cmd)
	})
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusOK, response.FromCustody(record))
}

// ListForWorker returns the records with a positive balance.
func (h *CustodyHandler) ListForWorker(c *gin.Context) {
	records, err := h.usecase.AvailableFor(c.Request.Context(), c.Param("worker_id"))
	if err != nil {
		respondError(c, "custody", err)
		return
	}
	c.JSON(http.StatusOK, response.FromCustodyList(records))
}
