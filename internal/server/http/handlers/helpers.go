package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
	"github.com/polkiloo/palmwine/internal/server/http/middleware"
)

// CurrentAdmin extracts the authenticated admin subject from context.
func CurrentAdmin(c *gin.Context) string {
	return c.GetString(middleware.AdminContextKey)
}

// statusFor maps domain errors to HTTP status codes and client-safe messages.
func statusFor(err error) (int, dto.ErrorResponse) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: verr.Error(), Field: verr.Field, Reason: verr.Reason}
	case errors.Is(err, domainErrors.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return http.StatusConflict, dto.ErrorResponse{Error: "not enough bottles left for this period"}
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: "not found"}
	case errors.Is(err, domainErrors.ErrAlreadyCancelled),
		errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrAlreadyPaid),
		errors.Is(err, domainErrors.ErrConcurrentUpdate),
		errors.Is(err, domainErrors.ErrDiscountExhausted):
		return http.StatusConflict, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domainErrors.ErrNotOnlinePayment):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, domainErrors.ErrPaymentNotVerified), errors.Is(err, domainErrors.ErrAmountMismatch):
		return http.StatusPaymentRequired, dto.ErrorResponse{Error: "payment could not be verified"}
	case errors.Is(err, domainErrors.ErrInvalidSignature), errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"}
	}
}

// writeError responds with the mapped status. Unexpected errors are logged.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError && logger != nil {
		logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}
