package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// notifications builds outbound messages and hands them to the notifier.
type notifications struct {
	notifier   Notifier
	adminPhone string
}

func (n notifications) send(kind model.NotificationKind, recipient, orderNumber, text string) {
	if n.notifier == nil || strings.TrimSpace(recipient) == "" {
		return
	}
	n.notifier.Notify(model.Notification{
		ID:          uuid.NewString(),
		Kind:        kind,
		Recipient:   recipient,
		Text:        text,
		OrderNumber: orderNumber,
		CreatedAt:   time.Now().UTC(),
	})
}

func (n notifications) orderPlaced(o *model.Order) {
	text := fmt.Sprintf("Hi %s, your palm wine order %s is confirmed. %d bottle(s), total ₦%s.",
		o.Customer.Name, o.Number, o.Quantity(), formatNaira(o.TotalAmount))
	if o.PaymentMethod == model.PaymentMethodOnline {
		text += " Complete payment online to secure your order."
	} else {
		text += " Please have cash ready on delivery."
	}
	n.send(model.NotificationOrderPlaced, o.Customer.Phone, o.Number, text)

	admin := fmt.Sprintf("New order %s from %s (%s): %s, %s, ₦%s, %s.",
		o.Number, o.Customer.Name, o.Customer.Phone, describeItems(o.Items),
		o.DeliveryType, formatNaira(o.TotalAmount), o.PaymentMethod)
	if o.DeliveryType == model.DeliveryTypeDelivery && o.Address != "" {
		admin += " Address: " + o.Address
	}
	n.send(model.NotificationOrderReceived, n.adminPhone, o.Number, admin)
}

func (n notifications) orderCancelled(o *model.Order) {
	text := fmt.Sprintf("Hi %s, your order %s has been cancelled.", o.Customer.Name, o.Number)
	n.send(model.NotificationOrderCancelled, o.Customer.Phone, o.Number, text)
}

func (n notifications) paymentConfirmed(o *model.Order) {
	receipt := fmt.Sprintf("Payment received for order %s: ₦%s. Thank you, %s!",
		o.Number, formatNaira(o.TotalAmount), o.Customer.Name)
	n.send(model.NotificationPaymentReceipt, o.Customer.Phone, o.Number, receipt)

	admin := fmt.Sprintf("Order %s paid online: ₦%s.", o.Number, formatNaira(o.TotalAmount))
	n.send(model.NotificationPaymentAdmin, n.adminPhone, o.Number, admin)
}

func describeItems(items []model.LineItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", item.Quantity, item.Size))
	}
	return strings.Join(parts, ", ")
}

// formatNaira renders whole naira with thousands separators.
func formatNaira(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
