package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
)

// CatalogHandler serves stock, prices and delivery quotes.
type CatalogHandler struct {
	facade CatalogFacade
	logger *slog.Logger
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(facade CatalogFacade, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{facade: facade, logger: logger}
}

// Catalog handles GET /api/stock.
func (h *CatalogHandler) Catalog(c *gin.Context) {
	period, err := h.facade.CurrentStock(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.CatalogResponse{
		Stock:  toStockResponse(period),
		Prices: h.facade.Prices(),
	})
}

// Snapshot handles GET /api/admin/stock. An optional "at" date selects the period.
func (h *CatalogHandler) Snapshot(c *gin.Context) {
	at := time.Now()
	if raw := c.Query("at"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			writeError(c, h.logger, domainErrors.NewValidationError("at", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp"))
			return
		}
		at = parsed
	}
	period, err := h.facade.StockSnapshot(c.Request.Context(), at)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toStockResponse(period))
}

// Reset handles PUT /api/admin/stock.
func (h *CatalogHandler) Reset(c *gin.Context) {
	var req dto.StockResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	var period time.Time
	if req.PeriodStart != nil {
		period = *req.PeriodStart
	}
	entry, err := h.facade.ResetStock(c.Request.Context(), period, req.Total)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("stock reset by admin",
		slog.String("admin", CurrentAdmin(c)),
		slog.Int("total", entry.Total),
	)
	c.JSON(http.StatusOK, toStockResponse(entry))
}

// Reserve handles POST /api/admin/stock/reserve. It books bottles sold off the shop.
func (h *CatalogHandler) Reserve(c *gin.Context) {
	var req dto.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	entry, err := h.facade.ReserveStock(c.Request.Context(), req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("stock reserved by admin",
		slog.String("admin", CurrentAdmin(c)),
		slog.Int("quantity", req.Quantity),
		slog.Int("available", entry.Available()),
	)
	c.JSON(http.StatusOK, toStockResponse(entry))
}

// Release handles POST /api/admin/stock/release.
func (h *CatalogHandler) Release(c *gin.Context) {
	var req dto.StockAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	var period time.Time
	if req.PeriodStart != nil {
		period = *req.PeriodStart
	}
	entry, err := h.facade.ReleaseStock(c.Request.Context(), period, req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	h.logger.Info("stock released by admin",
		slog.String("admin", CurrentAdmin(c)),
		slog.Int("quantity", req.Quantity),
		slog.Int("available", entry.Available()),
	)
	c.JSON(http.StatusOK, toStockResponse(entry))
}

// Quote handles POST /api/delivery/quote.
func (h *CatalogHandler) Quote(c *gin.Context) {
	var req dto.DeliveryQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed request body")
		return
	}
	quote := h.facade.QuoteDelivery(c.Request.Context(), strings.TrimSpace(req.Zone), strings.TrimSpace(req.Address))
	c.JSON(http.StatusOK, dto.DeliveryQuoteResponse{
		Fee:         quote.Fee,
		Zone:        quote.Zone,
		DistanceKM:  quote.DistanceKM,
		Approximate: quote.Approximate,
	})
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
