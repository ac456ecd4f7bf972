package dto

// PaymentSessionResponse points the customer to the hosted checkout.
type PaymentSessionResponse struct {
	Reference        string `json:"reference"`
	AuthorizationURL string `json:"authorization_url"`
}

// PaymentVerifyResponse reports the reconciled order.
type PaymentVerifyResponse struct {
	OrderNumber   string `json:"order_number"`
	PaymentStatus string `json:"payment_status"`
	AlreadyPaid   bool   `json:"already_paid"`
}
