package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/polkiloo/palmwine/internal/config"
	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
	"github.com/polkiloo/palmwine/internal/metrics"
)

// PaymentUseCase opens online payment sessions and reconciles their outcome.
// The browser callback and the provider webhook both end in Reconcile.
type PaymentUseCase struct {
	orders      repository.OrderRepository
	provider    PaymentProvider
	notify      notifications
	callbackURL string
	timeout     time.Duration
	inflight    singleflight.Group
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(orders repository.OrderRepository, provider PaymentProvider, notifier Notifier, cfg *config.Config, logger *slog.Logger) *PaymentUseCase {
	return &PaymentUseCase{
		orders:      orders,
		provider:    provider,
		notify:      notifications{notifier: notifier, adminPhone: cfg.AdminPhone},
		callbackURL: cfg.PaymentCallbackURL,
		timeout:     cfg.ProviderTimeout,
		tracer:      otel.Tracer(tracerName),
		logger:      logger,
	}
}

// InitializePayment opens a provider checkout for an unpaid online order.
// The reference is stored once; later calls return the stored session.
func (u *PaymentUseCase) InitializePayment(ctx context.Context, number string) (*model.PaymentSession, error) {
	order, err := u.orders.GetByNumber(ctx, normalizeNumber(number))
	if err != nil {
		return nil, err
	}
	switch {
	case order.PaymentMethod != model.PaymentMethodOnline:
		return nil, domainErrors.ErrNotOnlinePayment
	case order.PaymentStatus == model.PaymentStatusPaid:
		return nil, domainErrors.ErrAlreadyPaid
	case order.Status == model.OrderStatusCancelled:
		return nil, domainErrors.ErrAlreadyCancelled
	case order.TotalAmount <= 0:
		return nil, domainErrors.NewValidationError("total_amount", "must be positive for online payment")
	}
	if session := storedSession(order); session != nil {
		return session, nil
	}

	reference := order.Number + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	callCtx, cancel := u.providerContext(ctx)
	defer cancel()
	session, err := u.provider.InitializeSession(callCtx, model.PaymentSessionRequest{
		Email:       order.Customer.Email,
		AmountMinor: model.MinorUnits(order.TotalAmount),
		Reference:   reference,
		CallbackURL: u.callbackURL,
		Metadata: map[string]string{
			"order_number":   order.Number,
			"customer_name":  order.Customer.Name,
			"customer_phone": order.Customer.Phone,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize payment session: %w", err)
	}

	stored, err := u.orders.SetPaymentSession(ctx, order.ID, session.Reference, session.AuthorizationURL)
	if err != nil {
		return nil, err
	}
	if !stored {
		current, err := u.orders.GetByNumber(ctx, order.Number)
		if err != nil {
			return nil, err
		}
		if existing := storedSession(current); existing != nil {
			return existing, nil
		}
		return nil, domainErrors.ErrConcurrentUpdate
	}

	u.logger.Info("payment session opened",
		slog.String("order", order.Number),
		slog.String("reference", session.Reference),
	)
	return session, nil
}

func storedSession(order *model.Order) *model.PaymentSession {
	if order.PaymentReference == nil || order.AuthorizationURL == nil {
		return nil
	}
	return &model.PaymentSession{Reference: *order.PaymentReference, AuthorizationURL: *order.AuthorizationURL}
}

// Reconcile verifies reference with the provider and marks the matching order paid exactly once.
// Reconciling an already paid order succeeds with AlreadyPaid set and triggers nothing.
func (u *PaymentUseCase) Reconcile(ctx context.Context, reference string) (*model.Reconciliation, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, domainErrors.NewValidationError("reference", "is required")
	}
	// The flight outlives any single caller; each caller only stops waiting on its own cancellation.
	flight := u.inflight.DoChan(reference, func() (any, error) {
		return u.reconcile(context.WithoutCancel(ctx), reference)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-flight:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*model.Reconciliation), nil
	}
}

func (u *PaymentUseCase) reconcile(ctx context.Context, reference string) (result *model.Reconciliation, err error) {
	ctx, span := u.tracer.Start(ctx, "PaymentUseCase.Reconcile", trace.WithAttributes(attribute.String("payment.reference", reference)))
	defer func() {
		outcome := "paid"
		switch {
		case err != nil:
			outcome = "failed"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case result.AlreadyPaid:
			outcome = "already_paid"
		}
		metrics.PaymentReconciliations.WithLabelValues(outcome).Inc()
		span.End()
	}()

	verification, err := u.verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	order, err := u.orders.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if verification.AmountMinor != model.MinorUnits(order.TotalAmount) {
		u.logger.Warn("payment amount mismatch",
			slog.String("order", order.Number),
			slog.String("reference", reference),
			slog.Int64("expected_minor", model.MinorUnits(order.TotalAmount)),
			slog.Int64("verified_minor", verification.AmountMinor),
		)
		return nil, domainErrors.ErrAmountMismatch
	}
	if order.PaymentStatus == model.PaymentStatusPaid {
		return &model.Reconciliation{Order: order, AlreadyPaid: true}, nil
	}

	updated, transitioned, err := u.orders.MarkPaid(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		return &model.Reconciliation{Order: updated, AlreadyPaid: true}, nil
	}

	u.logger.Info("order paid online",
		slog.String("order", updated.Number),
		slog.String("reference", reference),
	)
	u.notify.paymentConfirmed(updated)
	return &model.Reconciliation{Order: updated}, nil
}

// verify treats provider errors and timeouts as an unverified payment.
func (u *PaymentUseCase) verify(ctx context.Context, reference string) (*model.PaymentVerification, error) {
	callCtx, cancel := u.providerContext(ctx)
	defer cancel()

	verification, err := u.provider.Verify(callCtx, reference)
	if err != nil {
		u.logger.Error("payment verification call failed",
			slog.String("reference", reference),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrPaymentNotVerified, err)
	}
	if !verification.Success {
		u.logger.Info("payment not successful",
			slog.String("reference", reference),
			slog.String("status", verification.Status),
		)
		return nil, domainErrors.ErrPaymentNotVerified
	}
	return verification, nil
}

// HandleWebhook authenticates a provider webhook and reconciles charge.success events.
// Other events are acknowledged with a nil result.
func (u *PaymentUseCase) HandleWebhook(ctx context.Context, body []byte, signature string) (*model.Reconciliation, error) {
	event, err := u.provider.ParseWebhook(body, signature)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidSignature) {
			metrics.WebhookRejections.Inc()
			u.logger.Warn("webhook signature rejected",
				slog.String("event", "security"),
				slog.Int("body_bytes", len(body)),
			)
		}
		return nil, err
	}
	if event.Event != model.PaymentEventChargeSuccess {
		u.logger.Debug("webhook event ignored", slog.String("type", event.Event))
		return nil, nil
	}
	return u.Reconcile(ctx, event.Reference)
}

func (u *PaymentUseCase) providerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}
