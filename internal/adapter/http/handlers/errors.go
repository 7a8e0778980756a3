package handlers

import (
	"errors"
	"net/http"

	"carwash_payouts/internal/adapter/http/middleware"
	"carwash_payouts/internal/infrastructure/metrics"
	"carwash_payouts/internal/usecase"
	"carwash_payouts/pkg"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	errMissingUser = pkg.NewDomainErrorSimple("MISSING_USER_ID", "X-User-ID header is required", http.StatusUnauthorized)
)

var kindStatus = map[usecase.ErrorKind]int{
	usecase.KindValidation:  http.StatusBadRequest,
	usecase.KindConflict:    http.StatusConflict,
	usecase.KindNotFound:    http.StatusNotFound,
	usecase.KindIntegrity:   http.StatusInternalServerError,
	usecase.KindUnavailable: http.StatusServiceUnavailable,
}

// mapDomainError turns a use case error into the HTTP envelope. Codes and
// messages of domain errors are passed through; anything else is internal.
func mapDomainError(err error) *pkg.AppError {
	var de *usecase.DomainError
	if !errors.As(err, &de) {
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}

	status := kindStatus[de.Kind]
	switch {
	case errors.Is(err, usecase.ErrNotAuthorized), errors.Is(err, usecase.ErrNotRequestOwner):
		status = http.StatusForbidden
	case status == 0:
		status = http.StatusInternalServerError
	}
	return pkg.NewDomainError(de.Code, de.Message, err, status)
}

// respondError logs err at a level matching its kind and writes the envelope.
func respondError(c *gin.Context, scope string, err error) {
	appErr := mapDomainError(err)
	entry := logrus.WithFields(logrus.Fields{
		"code":    appErr.Code,
		"status":  appErr.HTTPStatus,
		"path":    c.FullPath(),
		"user_id": middleware.UserID(c),
		"err":     err,
	})

	switch usecase.KindOf(err) {
	case usecase.KindIntegrity:
		metrics.ObserveIntegrityFault()
		entry.Error("[" + scope + "][handler] integrity violation")
	case usecase.KindInternal:
		entry.Error("[" + scope + "][handler] internal error")
	case usecase.KindUnavailable:
		entry.Warn("[" + scope + "][handler] dependency unavailable")
	default:
		entry.Info("[" + scope + "][handler] request rejected")
	}

	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// respondBindError reports which fields failed binding without echoing values.
func respondBindError(c *gin.Context, err error) {
	message := "Invalid request"
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		message = "Invalid field: " + verrs[0].Field()
	}
	appErr := pkg.NewDomainError("INVALID_REQUEST", message, err, http.StatusBadRequest)
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

// requireUser returns the caller id or writes a 401.
func requireUser(c *gin.Context) (string, bool) {
	id := middleware.UserID(c)
	if id == "" {
		c.JSON(errMissingUser.HTTPStatus, errMissingUser.ToHTTPError())
		return "", false
	}
	return id, true
}

// retryOnConflict runs fn again once when it lost an optimistic write race.
func retryOnConflict[T any](op string, fn func() (T, error)) (T, error) {
	v, err := fn()
	if errors.Is(err, usecase.ErrConcurrentUpdate) {
		metrics.ObserveConflict(op)
		v, err = fn()
		if errors.Is(err, usecase.ErrConcurrentUpdate) {
			metrics.ObserveConflict(op)
		}
	}
	return v, err
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var de *usecase.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL_ERROR"
}
