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

// InvoiceHandler manages admin invoices.
type InvoiceHandler struct {
	facade InvoiceFacade
	logger *slog.Logger
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade, logger *slog.Logger) *InvoiceHandler {
	return &InvoiceHandler{facade: facade, logger: logger}
}

// List handles GET /api/admin/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.facade.Invoices(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response := make([]dto.InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		response = append(response, toInvoiceResponse(&invoices[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/admin/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	inv, err := h.facade.Invoice(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// Create handles POST /api/admin/invoices.
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	inv, err := h.facade.CreateInvoice(c.Request.Context(), toInvoiceInput(req))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toInvoiceResponse(inv))
}

// Update handles PUT /api/admin/invoices/:id.
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	var req dto.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	inv, err := h.facade.UpdateInvoice(c.Request.Context(), id, toInvoiceInput(req))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// UpdateStatus handles PATCH /api/admin/invoices/:id/status.
func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.invoiceID(c)
	if !ok {
		return
	}
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	inv, err := h.facade.UpdateInvoiceStatus(c.Request.Context(), id, model.InvoiceStatus(req.Status))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

func (h *InvoiceHandler) invoiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, h.logger, domainErrors.NewValidationError("id", "must be a positive integer"))
		return 0, false
	}
	return id, true
}

func toInvoiceInput(req dto.InvoiceRequest) usecase.InvoiceInput {
	return usecase.InvoiceInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Description:   req.Description,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		DeliveryFee:   req.DeliveryFee,
		Discount:      req.Discount,
		DueDate:       req.DueDate,
	}
}
