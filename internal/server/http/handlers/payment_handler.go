package handlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/palmwine/internal/adapter/paystack"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
)

// PaymentHandler opens checkouts and receives provider callbacks.
type PaymentHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, logger: logger}
}

// Initialize handles POST /api/orders/:number/payment.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	session, err := h.facade.InitializePayment(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentSessionResponse{
		Reference:        session.Reference,
		AuthorizationURL: session.AuthorizationURL,
	})
}

// Verify handles GET /api/payments/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := strings.TrimSpace(c.Query("reference"))
	if reference == "" {
		badRequest(c, "reference is required")
		return
	}
	rec, err := h.facade.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toVerifyResponse(rec))
}

// Webhook handles POST /api/payments/webhook. The signature is checked over the raw body.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "unreadable body")
		return
	}

	rec, err := h.facade.HandleWebhook(c.Request.Context(), body, c.GetHeader(paystack.SignatureHeader))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if rec == nil || rec.Order == nil {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, toVerifyResponse(rec))
}

func toVerifyResponse(rec *model.Reconciliation) dto.PaymentVerifyResponse {
	return dto.PaymentVerifyResponse{
		OrderNumber:   rec.Order.Number,
		PaymentStatus: string(rec.Order.PaymentStatus),
		AlreadyPaid:   rec.AlreadyPaid,
	}
}
