package usecase

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/palmwine/internal/config"
	testhelpers "github.com/polkiloo/palmwine/internal/test"
)

// Monday 3 June 2024, mid-morning.
var testNow = time.Date(2024, 6, 3, 10, 30, 0, 0, time.UTC)

var testPeriod = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		AdminUsername:      "admin",
		AdminPhone:         "+2348099999999",
		PaymentCallbackURL: "http://localhost:8080/api/payments/verify",
		ProviderTimeout:    time.Second,
		GeocoderTimeout:    time.Second,
		ShopLatitude:       6.5244,
		ShopLongitude:      3.3792,
		UnitPrices:         map[string]int64{"75cl": 2000, "50cl": 1500, "5l": 12000},
		StockPeriod:        PeriodWeek,
		StockLocation:      time.UTC,
	}
}

type harness struct {
	cfg       *config.Config
	store     *testhelpers.MemoryStore
	notifier  *testhelpers.NotifierRecorder
	provider  *testhelpers.PaymentProviderStub
	geocoder  testhelpers.GeocoderStub
	stock     *StockUseCase
	discounts *DiscountUseCase
	delivery  *DeliveryUseCase
	orders    *OrderUseCase
	payments  *PaymentUseCase
}

func newHarness(t *testing.T, mutate ...func(*config.Config)) *harness {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(cfg)
	}
	logger := discardLogger()

	h := &harness{
		cfg:      cfg,
		store:    testhelpers.NewMemoryStore(),
		notifier: &testhelpers.NotifierRecorder{},
		provider: &testhelpers.PaymentProviderStub{},
		geocoder: testhelpers.GeocoderStub{},
	}
	h.stock = NewStockUseCase(h.store.Stock(), cfg, logger)
	h.stock.now = func() time.Time { return testNow }
	h.discounts = NewDiscountUseCase(h.store.Discounts(), logger)
	h.discounts.now = func() time.Time { return testNow }
	h.delivery = NewDeliveryUseCase(h.geocoder, cfg, logger)
	h.orders = NewOrderUseCase(OrderDeps{
		Orders:    h.store.Orders(),
		Stock:     h.stock,
		Discounts: h.discounts,
		Delivery:  h.delivery,
		Notifier:  h.notifier,
	}, cfg, logger)
	h.payments = NewPaymentUseCase(h.store.Orders(), h.provider, h.notifier, cfg, logger)
	return h
}

func ptr[T any](v T) *T {
	return &v
}
