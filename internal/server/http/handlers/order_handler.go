package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
	"github.com/polkiloo/palmwine/internal/usecase"
)

const defaultListLimit = 50

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, usecase.OrderItemInput{Size: item.Size, Quantity: item.Quantity})
	}

	result, err := h.facade.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		Name:          req.CustomerName,
		Phone:         req.CustomerPhone,
		Email:         req.CustomerEmail,
		Items:         items,
		DeliveryType:  model.DeliveryType(req.DeliveryType),
		Address:       req.Address,
		Zone:          req.Zone,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		DiscountCode:  req.DiscountCode,
		Notes:         req.Notes,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response := dto.CreateOrderResponse{Order: toOrderResponse(result.Order)}
	if result.Discount != nil {
		d := toDiscountResponse(*result.Discount)
		response.Discount = &d
	}
	c.JSON(http.StatusCreated, response)
}

// Get handles GET /api/orders/:number.
func (h *OrderHandler) Get(c *gin.Context) {
	order, err := h.facade.Order(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// List handles GET /api/admin/orders.
func (h *OrderHandler) List(c *gin.Context) {
	filter := model.OrderFilter{
		Status:        model.OrderStatus(c.Query("status")),
		PaymentStatus: model.PaymentStatus(c.Query("payment_status")),
		Limit:         defaultListLimit,
	}
	var err error
	if filter.Limit, err = queryInt(c, "limit", defaultListLimit); err != nil {
		writeError(c, h.logger, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		writeError(c, h.logger, err)
		return
	}

	orders, err := h.facade.Orders(c.Request.Context(), filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// UpdateStatus handles PATCH /api/admin/orders/:number/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), c.Param("number"), model.OrderStatus(req.Status))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdatePaymentStatus handles PATCH /api/admin/orders/:number/payment-status.
func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	order, err := h.facade.UpdatePaymentStatus(c.Request.Context(), c.Param("number"), model.PaymentStatus(req.Status))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

// Cancel handles POST /api/admin/orders/:number/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	order, err := h.facade.CancelOrder(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("order cancelled by admin",
		slog.String("order", order.Number),
		slog.String("admin", CurrentAdmin(c)),
	)
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, domainErrors.NewValidationError(key, "must be a non-negative integer")
	}
	return v, nil
}
