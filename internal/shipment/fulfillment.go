package shipment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/alert"
	"github.com/orderbridge/shipping/internal/telemetry"
	"github.com/orderbridge/shipping/pkg/carrier"
)

// FulfillmentOrchestrator hands an order to the fulfillment network
// instead of buying a label directly. The network packs and ships from
// its own warehouses and reports the tracking number asynchronously, so
// the workflow subscribes to status-change notifications after placing
// the order.
type FulfillmentOrchestrator struct {
	client    carrier.FulfillmentClient
	selector  *RateSelector
	retry     carrier.RetryPolicy
	alerter   alert.Alerter
	admin     string
	accountID string
	timeout   time.Duration

	logger  *otelzap.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

type FulfillmentParams struct {
	Client    carrier.FulfillmentClient
	Selector  *RateSelector
	Retry     carrier.RetryPolicy
	Alerter   alert.Alerter
	Admin     string
	AccountID string
	Timeout   time.Duration
	Logger    *otelzap.Logger
	Metrics   *telemetry.Metrics
	Tracer    trace.Tracer
}

func NewFulfillmentOrchestrator(p FulfillmentParams) *FulfillmentOrchestrator {
	if p.Timeout == 0 {
		p.Timeout = 2 * time.Minute
	}
	return &FulfillmentOrchestrator{
		client:    p.Client,
		selector:  p.Selector,
		retry:     p.Retry,
		alerter:   p.Alerter,
		admin:     p.Admin,
		accountID: p.AccountID,
		timeout:   p.Timeout,
		logger:    p.Logger,
		metrics:   p.Metrics,
		tracer:    p.Tracer,
	}
}

// Ship places a fulfillment order for the fastest available speed and
// registers for status-change notifications. It returns the tracking
// number when the network already knows it, and an empty string when the
// shipment has not left the warehouse yet.
func (o *FulfillmentOrchestrator) Ship(ctx context.Context, order *carrier.Order, buyer carrier.Buyer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "shipment.FulfillmentShip",
		trace.WithAttributes(
			attribute.String("order.id", order.ID),
			attribute.String("carrier", o.client.Name()),
		))
	defer span.End()

	start := time.Now()
	tracking, err := o.ship(ctx, order, buyer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.metrics.RecordShipment(o.client.Name(), "failure", time.Since(start))
		o.handleFailure(ctx, order, err)
		return "", err
	}

	o.metrics.RecordShipment(o.client.Name(), "success", time.Since(start))
	o.logger.Ctx(ctx).Info("fulfillment order placed",
		zap.String("order_id", order.ID),
		zap.String("tracking_id", tracking))
	return tracking, nil
}

func (o *FulfillmentOrchestrator) ship(ctx context.Context, order *carrier.Order, buyer carrier.Buyer) (string, error) {
	order.SetShipTo(carrier.UserFromBuyer(buyer))

	previews, err := carrier.RetryWithResult(ctx, o.retry, func() ([]carrier.FulfillmentPreview, error) {
		return o.client.GetFulfillmentPreview(ctx, order, carrier.AvailableSpeedCategories())
	})
	if err != nil {
		return "", fmt.Errorf("previewing fulfillment for order %s: %w", order.ID, err)
	}

	preview, err := o.selector.SelectPreview(previews)
	if err != nil {
		return "", fmt.Errorf("selecting fulfillment speed for order %s: %w", order.ID, err)
	}
	o.logger.Ctx(ctx).Info("fulfillment speed selected",
		zap.String("order_id", order.ID),
		zap.String("category", string(preview.SpeedCategory)))

	if err := o.retry.Do(ctx, func() error {
		return o.client.CreateFulfillmentOrder(ctx, order, preview)
	}); err != nil {
		return "", fmt.Errorf("creating fulfillment order %s: %w", order.ID, err)
	}

	// Notification wiring failures do not undo the placed order; the
	// tracking number can still be pulled on demand.
	destinationName := fmt.Sprintf("ORDER_%s_STATUS_CHANGE", order.ID)
	destinationID, err := o.client.CreateDestination(ctx, destinationName, o.accountID)
	if err != nil {
		o.logger.Ctx(ctx).Warn("creating notification destination failed",
			zap.String("order_id", order.ID),
			zap.Error(err))
	} else if err := o.client.CreateSubscription(ctx, "FULFILLMENT_ORDER_STATUS", destinationID); err != nil {
		o.logger.Ctx(ctx).Warn("creating status subscription failed",
			zap.String("order_id", order.ID),
			zap.String("destination_id", destinationID),
			zap.Error(err))
	}

	tracking, err := o.client.GetFulfillmentOrderTrackingNumber(ctx, order.ID)
	if err != nil {
		o.logger.Ctx(ctx).Info("tracking number not yet assigned",
			zap.String("order_id", order.ID),
			zap.Error(err))
		return "", nil
	}
	return tracking, nil
}

func (o *FulfillmentOrchestrator) handleFailure(ctx context.Context, order *carrier.Order, err error) {
	kind := telemetry.ErrorKind(err)
	o.metrics.RecordError(o.client.Name(), kind)

	o.logger.Ctx(ctx).Error("fulfillment order failed",
		zap.String("order_id", order.ID),
		zap.String("kind", kind),
		zap.Error(err))

	if errors.Is(err, carrier.ErrAuth) {
		message := fmt.Sprintf("carrier authentication failed while placing fulfillment order %s, credentials need attention: %v", order.ID, err)
		if alertErr := o.alerter.Send(ctx, message, o.admin); alertErr != nil {
			o.logger.Ctx(ctx).Error("auth failure alert could not be delivered", zap.Error(alertErr))
		}
		o.metrics.RecordAlert("auth_failure")
	}
}
