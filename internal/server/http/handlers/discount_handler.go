package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/palmwine/internal/server/http/dto"
)

// DiscountHandler validates codes for shoppers and manages them for admins.
type DiscountHandler struct {
	facade DiscountFacade
	logger *slog.Logger
}

// NewDiscountHandler constructs DiscountHandler.
func NewDiscountHandler(facade DiscountFacade, logger *slog.Logger) *DiscountHandler {
	return &DiscountHandler{facade: facade, logger: logger}
}

// Validate handles POST /api/discounts/validate. Rejected codes still answer 200.
func (h *DiscountHandler) Validate(c *gin.Context) {
	var req dto.DiscountValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	result, err := h.facade.ValidateDiscount(c.Request.Context(), req.Code, req.OrderTotal)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toDiscountResponse(result))
}

// List handles GET /api/admin/discounts.
func (h *DiscountHandler) List(c *gin.Context) {
	codes, err := h.facade.Discounts(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	response := make([]dto.DiscountCodeResponse, 0, len(codes))
	for i := range codes {
		response = append(response, toDiscountCodeResponse(&codes[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/admin/discounts/:code.
func (h *DiscountHandler) Get(c *gin.Context) {
	code, err := h.facade.Discount(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toDiscountCodeResponse(code))
}

// Create handles POST /api/admin/discounts.
func (h *DiscountHandler) Create(c *gin.Context) {
	var req dto.DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	code := toDiscountCode("", req)
	if err := h.facade.CreateDiscount(c.Request.Context(), code); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toDiscountCodeResponse(code))
}

// Update handles PUT /api/admin/discounts/:code.
func (h *DiscountHandler) Update(c *gin.Context) {
	var req dto.DiscountCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	code := toDiscountCode(c.Param("code"), req)
	if err := h.facade.UpdateDiscount(c.Request.Context(), code); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toDiscountCodeResponse(code))
}

// Delete handles DELETE /api/admin/discounts/:code.
func (h *DiscountHandler) Delete(c *gin.Context) {
	if err := h.facade.DeleteDiscount(c.Request.Context(), c.Param("code")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
