package test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/polkiloo/palmwine/internal/domain/model"
)

// NotifierRecorder collects notifications handed to the dispatcher.
type NotifierRecorder struct {
	mu   sync.Mutex
	sent []model.Notification
}

// Notify records n.
func (r *NotifierRecorder) Notify(n model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

// Sent returns a snapshot of recorded notifications.
func (r *NotifierRecorder) Sent() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.sent...)
}

// Count returns how many notifications of kind were recorded.
func (r *NotifierRecorder) Count(kind model.NotificationKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// PaymentProviderStub answers provider calls from configured functions.
type PaymentProviderStub struct {
	InitializeFn func(context.Context, model.PaymentSessionRequest) (*model.PaymentSession, error)
	VerifyFn     func(context.Context, string) (*model.PaymentVerification, error)
	ParseFn      func([]byte, string) (*model.PaymentEvent, error)

	VerifyCalls int32
}

// InitializeSession returns a hosted checkout URL derived from the reference by default.
func (s *PaymentProviderStub) InitializeSession(ctx context.Context, req model.PaymentSessionRequest) (*model.PaymentSession, error) {
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, req)
	}
	return &model.PaymentSession{Reference: req.Reference, AuthorizationURL: "https://checkout.test/" + req.Reference}, nil
}

// Verify counts calls and delegates to VerifyFn.
func (s *PaymentProviderStub) Verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	atomic.AddInt32(&s.VerifyCalls, 1)
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, reference)
	}
	return &model.PaymentVerification{Reference: reference, Success: true, Status: "success"}, nil
}

// ParseWebhook delegates to ParseFn or reports a charge.success for the body as reference.
func (s *PaymentProviderStub) ParseWebhook(body []byte, signature string) (*model.PaymentEvent, error) {
	if s.ParseFn != nil {
		return s.ParseFn(body, signature)
	}
	return &model.PaymentEvent{Event: model.PaymentEventChargeSuccess, Reference: string(body)}, nil
}

// GeocoderStub resolves addresses from a fixed table.
type GeocoderStub struct {
	Points map[string]model.Coordinates
	Err    error
}

// Geocode returns the configured point, nil when unknown, or Err.
func (s GeocoderStub) Geocode(ctx context.Context, address string) (*model.Coordinates, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p, ok := s.Points[address]; ok {
		return &p, nil
	}
	return nil, nil
}

// SinkRecorder records delivered notifications and can block or fail on demand.
type SinkRecorder struct {
	mu    sync.Mutex
	sent  []model.Notification
	Err   error
	Block chan struct{}
}

// Send waits on Block when set, then records n.
func (s *SinkRecorder) Send(ctx context.Context, n model.Notification) error {
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.sent = append(s.sent, n)
	return nil
}

// Sent returns a snapshot of delivered notifications.
func (s *SinkRecorder) Sent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Notification(nil), s.sent...)
}

// PublisherRecorder records mirrored events.
type PublisherRecorder struct {
	mu        sync.Mutex
	published []model.Notification
	Err       error
	Closed    bool
}

// Publish records n.
func (p *PublisherRecorder) Publish(_ context.Context, n model.Notification) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.published = append(p.published, n)
	return nil
}

// Close marks the publisher closed.
func (p *PublisherRecorder) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed = true
	return nil
}

// Published returns a snapshot of mirrored events.
func (p *PublisherRecorder) Published() []model.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Notification(nil), p.published...)
}

// PeriodEnsurerStub counts stock period checks.
type PeriodEnsurerStub struct {
	Calls  int32
	Opened bool
	Err    error
}

// EnsureCurrentPeriod records the call.
func (s *PeriodEnsurerStub) EnsureCurrentPeriod(context.Context, int) (bool, error) {
	atomic.AddInt32(&s.Calls, 1)
	return s.Opened, s.Err
}
