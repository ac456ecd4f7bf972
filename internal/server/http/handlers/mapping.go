package handlers

import (
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
)

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			Size:      item.Size,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal(),
		})
	}
	return dto.OrderResponse{
		Number:           order.Number,
		CustomerName:     order.Customer.Name,
		CustomerPhone:    order.Customer.Phone,
		CustomerEmail:    order.Customer.Email,
		Items:            items,
		DeliveryType:     string(order.DeliveryType),
		Address:          order.Address,
		Zone:             order.Zone,
		Subtotal:         order.Subtotal,
		DeliveryFee:      order.DeliveryFee,
		DiscountCode:     order.DiscountCode,
		DiscountAmount:   order.DiscountAmount,
		TotalAmount:      order.TotalAmount,
		PaymentMethod:    string(order.PaymentMethod),
		PaymentStatus:    string(order.PaymentStatus),
		PaymentReference: order.PaymentReference,
		Status:           string(order.Status),
		Notes:            order.Notes,
		CreatedAt:        order.CreatedAt,
	}
}

func toDiscountResponse(result model.DiscountResult) dto.DiscountResponse {
	return dto.DiscountResponse{
		Code:   result.Code,
		Valid:  result.Valid,
		Amount: result.Amount,
		Reason: string(result.Reason),
	}
}

func toDiscountCodeResponse(d *model.DiscountCode) dto.DiscountCodeResponse {
	return dto.DiscountCodeResponse{
		Code:           d.Code,
		Type:           string(d.Type),
		Value:          d.Value,
		MinOrderAmount: d.MinOrderAmount,
		MaxUses:        d.MaxUses,
		UsedCount:      d.UsedCount,
		ExpiresAt:      d.ExpiresAt,
		IsActive:       d.IsActive,
		Description:    d.Description,
		CreatedAt:      d.CreatedAt,
	}
}

func toDiscountCode(code string, req dto.DiscountCodeRequest) *model.DiscountCode {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	if code == "" {
		code = req.Code
	}
	return &model.DiscountCode{
		Code:           code,
		Type:           model.DiscountType(req.Type),
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       active,
		Description:    req.Description,
	}
}

func toInvoiceResponse(inv *model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		CustomerEmail: inv.CustomerEmail,
		Description:   inv.Description,
		Quantity:      inv.Quantity,
		UnitPrice:     inv.UnitPrice,
		DeliveryFee:   inv.DeliveryFee,
		Discount:      inv.Discount,
		Total:         inv.Total,
		Status:        string(inv.Status),
		DueDate:       inv.DueDate,
		CreatedAt:     inv.CreatedAt,
	}
}

func toStockResponse(period *model.StockPeriod) dto.StockResponse {
	return dto.StockResponse{
		PeriodStart: period.PeriodStart,
		Total:       period.Total,
		Sold:        period.Sold,
		Available:   period.Available(),
	}
}
