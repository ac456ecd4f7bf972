package model

import "time"

// NotificationKind identifies the event a notification describes.
type NotificationKind string

const (
	NotificationOrderPlaced    NotificationKind = "order.placed"
	NotificationOrderReceived  NotificationKind = "order.received"
	NotificationOrderCancelled NotificationKind = "order.cancelled"
	NotificationPaymentReceipt NotificationKind = "payment.receipt"
	NotificationPaymentAdmin   NotificationKind = "payment.confirmed"
)

// Notification is an outbound message queued for best-effort delivery.
type Notification struct {
	ID          string
	Kind        NotificationKind
	Recipient   string
	Text        string
	OrderNumber string
	CreatedAt   time.Time
}
