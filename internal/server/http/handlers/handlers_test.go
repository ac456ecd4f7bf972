package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/server/http/dto"
	"github.com/polkiloo/palmwine/internal/server/http/middleware"
	"github.com/polkiloo/palmwine/internal/test/facadestub"
	"github.com/polkiloo/palmwine/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		c.Set(middleware.AdminContextKey, "admin")
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestCurrentAdmin(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentAdmin(c); got != "" {
		t.Fatalf("expected empty subject, got %q", got)
	}
	c.Set(middleware.AdminContextKey, "owner")
	if got := CurrentAdmin(c); got != "owner" {
		t.Fatalf("expected owner, got %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domainErrors.NewValidationError("customer_phone", "is invalid"), http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{domainErrors.ErrNotOnlinePayment, http.StatusUnprocessableEntity},
		{domainErrors.ErrInsufficientStock, http.StatusConflict},
		{domainErrors.ErrNotFound, http.StatusNotFound},
		{domainErrors.ErrAlreadyCancelled, http.StatusConflict},
		{domainErrors.ErrAlreadyExists, http.StatusConflict},
		{domainErrors.ErrAlreadyPaid, http.StatusConflict},
		{domainErrors.ErrConcurrentUpdate, http.StatusConflict},
		{domainErrors.ErrDiscountExhausted, http.StatusConflict},
		{domainErrors.ErrPaymentNotVerified, http.StatusPaymentRequired},
		{domainErrors.ErrAmountMismatch, http.StatusPaymentRequired},
		{domainErrors.ErrInvalidSignature, http.StatusUnauthorized},
		{domainErrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("op: %w", tc.err)
		if got, _ := statusFor(wrapped); got != tc.status {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.status)
		}
	}

	_, body := statusFor(domainErrors.ErrAmountMismatch)
	if body.Error != "payment could not be verified" {
		t.Fatalf("payment failures must not leak details, got %q", body.Error)
	}
	_, body = statusFor(errors.New("secret dsn"))
	if body.Error != "internal error" {
		t.Fatalf("internal errors must be masked, got %q", body.Error)
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	facade := facadestub.ShopFacadeStub{LoginFn: func(_ context.Context, u, p string) (string, error) {
		if u != "owner" || p != "secret" {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "jwt-token", nil
	}}
	h := NewAuthHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodPost, "/login", "/login", h.Login,
		mustJSON(t, dto.LoginRequest{Username: "owner", Password: "secret"}), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.LoginResponse](t, resp); got.Token != "jwt-token" {
		t.Fatalf("unexpected token %q", got.Token)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", h.Login,
		mustJSON(t, dto.LoginRequest{Username: "owner", Password: "wrong"}), jsonHeaders)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", "/login", h.Login, []byte("{"), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestOrderHandlerCreate(t *testing.T) {
	var got usecase.CreateOrderInput
	facade := facadestub.ShopFacadeStub{CreateOrderFn: func(_ context.Context, in usecase.CreateOrderInput) (*usecase.CreateOrderResult, error) {
		got = in
		order := facadestub.SampleOrder("PW-H4ZR9P")
		return &usecase.CreateOrderResult{
			Order:    order,
			Discount: &model.DiscountResult{Code: "PALM10", Valid: false, Reason: model.DiscountReasonExpired},
		}, nil
	}}
	h := NewOrderHandler(facade, discardLogger())

	req := dto.CreateOrderRequest{
		CustomerName:  "Ada Obi",
		CustomerPhone: "08031234567",
		Items:         []dto.OrderItemRequest{{Size: "1L", Quantity: 2}, {Size: "5L", Quantity: 1}},
		DeliveryType:  "delivery",
		Address:       "12 Allen Avenue, Ikeja",
		Zone:          "ikeja",
		PaymentMethod: "online",
		DiscountCode:  "palm10",
	}
	resp := performRequest(t, http.MethodPost, "/orders", "/orders", h.Create, mustJSON(t, req), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	if got.Name != "Ada Obi" || got.DeliveryType != model.DeliveryTypeDelivery || got.PaymentMethod != model.PaymentMethodOnline {
		t.Fatalf("request not mapped: %+v", got)
	}
	if len(got.Items) != 2 || got.Items[1].Size != "5L" || got.DiscountCode != "palm10" || got.Zone != "ikeja" {
		t.Fatalf("items or discount not mapped: %+v", got)
	}

	body := decode[dto.CreateOrderResponse](t, resp)
	if body.Order.Number != "PW-H4ZR9P" || len(body.Order.Items) != 1 || body.Order.Items[0].Subtotal != 4000 {
		t.Fatalf("unexpected order payload: %+v", body.Order)
	}
	if body.Discount == nil || body.Discount.Valid || body.Discount.Reason != "expired" {
		t.Fatalf("expected rejected discount in response, got %+v", body.Discount)
	}
}

func TestOrderHandlerCreateFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		body   []byte
		status int
		field  string
	}{
		{name: "malformed", body: []byte("{"), status: http.StatusBadRequest},
		{name: "validation", err: domainErrors.NewValidationError("customer_phone", "must be a valid Nigerian phone number"), status: http.StatusUnprocessableEntity, field: "customer_phone"},
		{name: "sold out", err: domainErrors.ErrInsufficientStock, status: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			facade := facadestub.ShopFacadeStub{CreateOrderFn: func(context.Context, usecase.CreateOrderInput) (*usecase.CreateOrderResult, error) {
				return nil, tc.err
			}}
			body := tc.body
			if body == nil {
				body = mustJSON(t, dto.CreateOrderRequest{CustomerName: "x"})
			}
			resp := performRequest(t, http.MethodPost, "/orders", "/orders", NewOrderHandler(facade, discardLogger()).Create, body, jsonHeaders)
			if resp.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.Code)
			}
			if tc.field != "" {
				if got := decode[dto.ErrorResponse](t, resp); got.Field != tc.field {
					t.Fatalf("expected field %q, got %+v", tc.field, got)
				}
			}
		})
	}
}

func TestOrderHandlerGet(t *testing.T) {
	facade := facadestub.ShopFacadeStub{OrderFn: func(_ context.Context, number string) (*model.Order, error) {
		if number == "PW-M1SS22" {
			return nil, domainErrors.ErrNotFound
		}
		return facadestub.SampleOrder(number), nil
	}}
	h := NewOrderHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/orders/:number", "/orders/PW-K7QX3M", h.Get, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.OrderResponse](t, resp); got.Number != "PW-K7QX3M" || got.Status != "pending" {
		t.Fatalf("unexpected order %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/orders/:number", "/orders/PW-M1SS22", h.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestOrderHandlerList(t *testing.T) {
	var got model.OrderFilter
	facade := facadestub.ShopFacadeStub{OrdersFn: func(_ context.Context, f model.OrderFilter) ([]model.Order, error) {
		got = f
		return []model.Order{*facadestub.SampleOrder("A"), *facadestub.SampleOrder("B")}, nil
	}}
	h := NewOrderHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/orders", "/orders?status=confirmed&payment_status=paid&limit=10&offset=20", h.List, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got.Status != model.OrderStatusConfirmed || got.PaymentStatus != model.PaymentStatusPaid || got.Limit != 10 || got.Offset != 20 {
		t.Fatalf("unexpected filter %+v", got)
	}
	if list := decode[[]dto.OrderResponse](t, resp); len(list) != 2 {
		t.Fatalf("expected two orders, got %d", len(list))
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders", h.List, nil, nil)
	if resp.Code != http.StatusOK || got.Limit != defaultListLimit || got.Status != "" {
		t.Fatalf("expected defaults, got %d %+v", resp.Code, got)
	}

	resp = performRequest(t, http.MethodGet, "/orders", "/orders?limit=-1", h.List, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad limit, got %d", resp.Code)
	}
}

func TestOrderHandlerAdminTransitions(t *testing.T) {
	facade := facadestub.ShopFacadeStub{
		UpdateOrderStatusFn: func(_ context.Context, number string, status model.OrderStatus) (*model.Order, error) {
			if status == model.OrderStatusPending {
				return nil, domainErrors.ErrInvalidTransition
			}
			order := facadestub.SampleOrder(number)
			order.Status = status
			return order, nil
		},
		CancelOrderFn: func(_ context.Context, number string) (*model.Order, error) {
			return nil, domainErrors.ErrAlreadyCancelled
		},
	}
	h := NewOrderHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodPatch, "/orders/:number/status", "/orders/A/status", h.UpdateStatus,
		mustJSON(t, dto.StatusRequest{Status: "delivered"}), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.OrderResponse](t, resp); got.Status != "delivered" {
		t.Fatalf("unexpected status %q", got.Status)
	}

	resp = performRequest(t, http.MethodPatch, "/orders/:number/status", "/orders/A/status", h.UpdateStatus,
		mustJSON(t, dto.StatusRequest{Status: "pending"}), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for backwards move, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPatch, "/orders/:number/payment-status", "/orders/A/payment-status", h.UpdatePaymentStatus,
		mustJSON(t, dto.StatusRequest{Status: "paid"}), jsonHeaders)
	if got := decode[dto.OrderResponse](t, resp); resp.Code != http.StatusOK || got.PaymentStatus != "paid" {
		t.Fatalf("unexpected payment update %d %+v", resp.Code, got)
	}

	resp = performRequest(t, http.MethodPost, "/orders/:number/cancel", "/orders/A/cancel", h.Cancel, nil, nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second cancel, got %d", resp.Code)
	}
}

func TestPaymentHandlerInitialize(t *testing.T) {
	h := NewPaymentHandler(facadestub.ShopFacadeStub{}, discardLogger())
	resp := performRequest(t, http.MethodPost, "/orders/:number/payment", "/orders/PW-1/payment", h.Initialize, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if got := decode[dto.PaymentSessionResponse](t, resp); got.Reference != "PW-1-0a1b2c3d" || got.AuthorizationURL == "" {
		t.Fatalf("unexpected session %+v", got)
	}

	h = NewPaymentHandler(facadestub.ShopFacadeStub{InitializePaymentFn: func(context.Context, string) (*model.PaymentSession, error) {
		return nil, domainErrors.ErrNotOnlinePayment
	}}, discardLogger())
	resp = performRequest(t, http.MethodPost, "/orders/:number/payment", "/orders/PW-1/payment", h.Initialize, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for cash order, got %d", resp.Code)
	}
}

func TestPaymentHandlerVerify(t *testing.T) {
	var reference string
	h := NewPaymentHandler(facadestub.ShopFacadeStub{VerifyPaymentFn: func(_ context.Context, ref string) (*model.Reconciliation, error) {
		reference = ref
		if ref == "bad" {
			return nil, fmt.Errorf("verify: %w", domainErrors.ErrPaymentNotVerified)
		}
		order := facadestub.SampleOrder("PW-1")
		order.PaymentStatus = model.PaymentStatusPaid
		return &model.Reconciliation{Order: order, AlreadyPaid: true}, nil
	}}, discardLogger())

	resp := performRequest(t, http.MethodGet, "/verify", "/verify?reference=PW-1-abc", h.Verify, nil, nil)
	if resp.Code != http.StatusOK || reference != "PW-1-abc" {
		t.Fatalf("expected 200 for %q, got %d", reference, resp.Code)
	}
	if got := decode[dto.PaymentVerifyResponse](t, resp); !got.AlreadyPaid || got.PaymentStatus != "paid" || got.OrderNumber != "PW-1" {
		t.Fatalf("unexpected verify payload %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/verify", "/verify?reference=bad", h.Verify, nil, nil)
	if resp.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", resp.Code)
	}
	if got := decode[dto.ErrorResponse](t, resp); got.Error != "payment could not be verified" {
		t.Fatalf("unexpected error body %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/verify", "/verify", h.Verify, nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without reference, got %d", resp.Code)
	}
}

func TestPaymentHandlerWebhook(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"reference":"PW-1-abc"}}`)
	var gotBody []byte
	var gotSig string
	h := NewPaymentHandler(facadestub.ShopFacadeStub{HandleWebhookFn: func(_ context.Context, body []byte, sig string) (*model.Reconciliation, error) {
		gotBody, gotSig = body, sig
		if sig != "good" {
			return nil, domainErrors.ErrInvalidSignature
		}
		return &model.Reconciliation{Order: facadestub.SampleOrder("PW-1")}, nil
	}}, discardLogger())

	resp := performRequest(t, http.MethodPost, "/webhook", "/webhook", h.Webhook, payload,
		map[string]string{"x-paystack-signature": "good", "Content-Type": "application/json"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Equal(gotBody, payload) || gotSig != "good" {
		t.Fatalf("raw body or signature not forwarded: %q %q", gotBody, gotSig)
	}

	resp = performRequest(t, http.MethodPost, "/webhook", "/webhook", h.Webhook, payload,
		map[string]string{"x-paystack-signature": "forged"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}

	ignored := NewPaymentHandler(facadestub.ShopFacadeStub{}, discardLogger())
	resp = performRequest(t, http.MethodPost, "/webhook", "/webhook", ignored.Webhook, []byte(`{"event":"transfer.success"}`), nil)
	if resp.Code != http.StatusOK || resp.Body.Len() != 0 {
		t.Fatalf("expected empty 200 for ignored event, got %d %q", resp.Code, resp.Body.String())
	}
}

func TestCatalogHandler(t *testing.T) {
	var resetPeriod time.Time
	var resetTotal int
	var quoted [2]string
	facade := facadestub.ShopFacadeStub{
		PriceTable: map[string]int64{"1L": 2000, "5L": 9000},
		ResetStockFn: func(_ context.Context, period time.Time, total int) (*model.StockPeriod, error) {
			resetPeriod, resetTotal = period, total
			if total < 0 {
				return nil, domainErrors.NewValidationError("total", "must not be negative")
			}
			return &model.StockPeriod{PeriodStart: period, Total: total, Sold: 3}, nil
		},
		QuoteFn: func(_ context.Context, zone, address string) model.DeliveryQuote {
			quoted = [2]string{zone, address}
			km := 7.5
			return model.DeliveryQuote{Fee: 2000, DistanceKM: &km}
		},
	}
	h := NewCatalogHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodGet, "/stock", "/stock", h.Catalog, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	catalog := decode[dto.CatalogResponse](t, resp)
	if catalog.Stock.Available != 60 || catalog.Prices["5L"] != 9000 {
		t.Fatalf("unexpected catalog %+v", catalog)
	}

	resp = performRequest(t, http.MethodPut, "/stock", "/stock", h.Reset, []byte(`{"total":120}`), jsonHeaders)
	if resp.Code != http.StatusOK || resetTotal != 120 || !resetPeriod.IsZero() {
		t.Fatalf("unexpected reset %d total=%d period=%v", resp.Code, resetTotal, resetPeriod)
	}
	if got := decode[dto.StockResponse](t, resp); got.Available != 117 {
		t.Fatalf("unexpected availability %d", got.Available)
	}

	resp = performRequest(t, http.MethodPut, "/stock", "/stock", h.Reset, []byte(`{"total":-1}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/snapshot", "/snapshot?at=2024-06-05", h.Snapshot, nil, nil)
	if got := decode[dto.StockResponse](t, resp); resp.Code != http.StatusOK || !got.PeriodStart.Equal(time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected snapshot %d %+v", resp.Code, got)
	}
	resp = performRequest(t, http.MethodGet, "/snapshot", "/snapshot?at=yesterday", h.Snapshot, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad date, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/quote", "/quote", h.Quote, []byte(`{"zone":" ","address":" 1 Marina "}`), jsonHeaders)
	if resp.Code != http.StatusOK || quoted != [2]string{"", "1 Marina"} {
		t.Fatalf("unexpected quote call %d %v", resp.Code, quoted)
	}
	if got := decode[dto.DeliveryQuoteResponse](t, resp); got.Fee != 2000 || got.DistanceKM == nil || *got.DistanceKM != 7.5 {
		t.Fatalf("unexpected quote %+v", got)
	}
}

func TestCatalogHandlerStockAdjustments(t *testing.T) {
	var reserved, released int
	var releasePeriod time.Time
	facade := facadestub.ShopFacadeStub{
		ReserveStockFn: func(_ context.Context, quantity int) (*model.StockPeriod, error) {
			reserved = quantity
			if quantity > 10 {
				return nil, domainErrors.ErrInsufficientStock
			}
			return &model.StockPeriod{Total: 10, Sold: quantity}, nil
		},
		ReleaseStockFn: func(_ context.Context, period time.Time, quantity int) (*model.StockPeriod, error) {
			releasePeriod, released = period, quantity
			if quantity < 1 {
				return nil, domainErrors.NewValidationError("quantity", "must be at least 1")
			}
			return &model.StockPeriod{PeriodStart: period, Total: 10, Sold: 1}, nil
		},
	}
	h := NewCatalogHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodPost, "/reserve", "/reserve", h.Reserve, []byte(`{"quantity":4}`), jsonHeaders)
	if resp.Code != http.StatusOK || reserved != 4 {
		t.Fatalf("unexpected reserve %d quantity=%d", resp.Code, reserved)
	}
	if got := decode[dto.StockResponse](t, resp); got.Available != 6 {
		t.Fatalf("unexpected availability %d", got.Available)
	}

	resp = performRequest(t, http.MethodPost, "/reserve", "/reserve", h.Reserve, []byte(`{"quantity":11}`), jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 when sold out, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/reserve", "/reserve", h.Reserve, []byte(`{`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/release", "/release", h.Release, []byte(`{"period_start":"2024-05-27T00:00:00Z","quantity":2}`), jsonHeaders)
	if resp.Code != http.StatusOK || released != 2 || !releasePeriod.Equal(time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected release %d quantity=%d period=%v", resp.Code, released, releasePeriod)
	}

	resp = performRequest(t, http.MethodPost, "/release", "/release", h.Release, []byte(`{"quantity":0}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity || !releasePeriod.IsZero() {
		t.Fatalf("expected 422 with current period, got %d period=%v", resp.Code, releasePeriod)
	}
}

func TestDiscountHandler(t *testing.T) {
	var created, updated *model.DiscountCode
	facade := facadestub.ShopFacadeStub{
		CreateDiscountFn: func(_ context.Context, d *model.DiscountCode) error {
			created = d
			if d.Code == "DUP" {
				return domainErrors.ErrAlreadyExists
			}
			return nil
		},
		UpdateDiscountFn: func(_ context.Context, d *model.DiscountCode) error {
			updated = d
			return nil
		},
		DiscountFn: func(context.Context, string) (*model.DiscountCode, error) {
			return nil, domainErrors.ErrNotFound
		},
	}
	h := NewDiscountHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodPost, "/validate", "/validate", h.Validate,
		mustJSON(t, dto.DiscountValidateRequest{Code: "PALM10", OrderTotal: 10000}), jsonHeaders)
	if got := decode[dto.DiscountResponse](t, resp); resp.Code != http.StatusOK || !got.Valid || got.Amount != 1000 {
		t.Fatalf("unexpected validation %d %+v", resp.Code, got)
	}

	resp = performRequest(t, http.MethodPost, "/discounts", "/discounts", h.Create,
		mustJSON(t, dto.DiscountCodeRequest{Code: "NEW", Type: "fixed", Value: 500}), jsonHeaders)
	if resp.Code != http.StatusCreated || created == nil || !created.IsActive || created.Type != model.DiscountTypeFixed {
		t.Fatalf("unexpected create %d %+v", resp.Code, created)
	}

	resp = performRequest(t, http.MethodPost, "/discounts", "/discounts", h.Create,
		mustJSON(t, dto.DiscountCodeRequest{Code: "DUP", Type: "fixed", Value: 500}), jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d", resp.Code)
	}

	inactive := false
	resp = performRequest(t, http.MethodPut, "/discounts/:code", "/discounts/SUMMER", h.Update,
		mustJSON(t, dto.DiscountCodeRequest{Code: "IGNORED", Type: "percentage", Value: 15, IsActive: &inactive}), jsonHeaders)
	if resp.Code != http.StatusOK || updated.Code != "SUMMER" || updated.IsActive {
		t.Fatalf("path code must win and active flag kept: %d %+v", resp.Code, updated)
	}

	resp = performRequest(t, http.MethodGet, "/discounts/:code", "/discounts/NOPE", h.Get, nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodDelete, "/discounts/:code", "/discounts/SUMMER", h.Delete, nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/discounts", "/discounts", h.List, nil, nil)
	if list := decode[[]dto.DiscountCodeResponse](t, resp); len(list) != 1 || list[0].Code != "PALM10" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestInvoiceHandler(t *testing.T) {
	var input usecase.InvoiceInput
	var status model.InvoiceStatus
	facade := facadestub.ShopFacadeStub{
		CreateInvoiceFn: func(_ context.Context, in usecase.InvoiceInput) (*model.Invoice, error) {
			input = in
			return &model.Invoice{ID: 9, Number: "INV-20240603-0009", CustomerName: in.CustomerName, Quantity: in.Quantity, Total: 118000, Status: model.InvoiceStatusDraft}, nil
		},
		UpdateInvoiceStatusFn: func(_ context.Context, id int64, s model.InvoiceStatus) (*model.Invoice, error) {
			status = s
			if s == model.InvoiceStatusDraft {
				return nil, domainErrors.ErrInvalidTransition
			}
			return &model.Invoice{ID: id, Status: s}, nil
		},
	}
	h := NewInvoiceHandler(facade, discardLogger())

	resp := performRequest(t, http.MethodPost, "/invoices", "/invoices", h.Create,
		mustJSON(t, dto.InvoiceRequest{CustomerName: "Event Hall", Quantity: 40, UnitPrice: 2800, DeliveryFee: 6000}), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	if input.Quantity != 40 || input.UnitPrice != 2800 || input.DeliveryFee != 6000 {
		t.Fatalf("unexpected invoice input %+v", input)
	}
	if got := decode[dto.InvoiceResponse](t, resp); got.Total != 118000 || got.Number != "INV-20240603-0009" {
		t.Fatalf("unexpected invoice %+v", got)
	}

	resp = performRequest(t, http.MethodPatch, "/invoices/:id/status", "/invoices/9/status", h.UpdateStatus,
		mustJSON(t, dto.StatusRequest{Status: "paid"}), jsonHeaders)
	if resp.Code != http.StatusOK || status != model.InvoiceStatusPaid {
		t.Fatalf("unexpected status update %d %q", resp.Code, status)
	}

	resp = performRequest(t, http.MethodPatch, "/invoices/:id/status", "/invoices/9/status", h.UpdateStatus,
		mustJSON(t, dto.StatusRequest{Status: "draft"}), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/invoices/:id", "/invoices/abc", h.Get, nil, nil)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad id, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/invoices", "/invoices", h.List, nil, nil)
	if list := decode[[]dto.InvoiceResponse](t, resp); resp.Code != http.StatusOK || len(list) != 1 {
		t.Fatalf("unexpected list %d %+v", resp.Code, list)
	}
}
