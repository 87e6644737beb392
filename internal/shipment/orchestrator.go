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

// Orchestrator runs the shipment purchase workflow: quote rates for an
// order, pick the fastest, buy the label, and hand back the tracking
// identifier.
type Orchestrator struct {
	client   carrier.Client
	selector *RateSelector
	inputs   *AdditionalInputsHandler
	retry    carrier.RetryPolicy
	alerter  alert.Alerter
	admin    string
	timeout  time.Duration
	docSpec  carrier.DocumentSpecification

	logger  *otelzap.Logger
	metrics *telemetry.Metrics
	tracer  trace.Tracer
}

// OrchestratorParams bundles the orchestrator's collaborators.
type OrchestratorParams struct {
	Client   carrier.Client
	Selector *RateSelector
	Inputs   *AdditionalInputsHandler
	Retry    carrier.RetryPolicy
	Alerter  alert.Alerter
	Admin    string
	Timeout  time.Duration
	Logger   *otelzap.Logger
	Metrics  *telemetry.Metrics
	Tracer   trace.Tracer
}

func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	if p.Timeout == 0 {
		p.Timeout = 2 * time.Minute
	}
	return &Orchestrator{
		client:   p.Client,
		selector: p.Selector,
		inputs:   p.Inputs,
		retry:    p.Retry,
		alerter:  p.Alerter,
		admin:    p.Admin,
		timeout:  p.Timeout,
		docSpec:  carrier.DefaultDocumentSpecification(),
		logger:   p.Logger,
		metrics:  p.Metrics,
		tracer:   p.Tracer,
	}
}

// Ship purchases a shipment for the order, delivering to the buyer's
// address. It returns the carrier tracking identifier on success.
func (o *Orchestrator) Ship(ctx context.Context, order *carrier.Order, buyer carrier.Buyer) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "shipment.Ship",
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

	span.SetAttributes(attribute.String("shipment.tracking_id", tracking))
	o.metrics.RecordShipment(o.client.Name(), "success", time.Since(start))
	o.logger.Ctx(ctx).Info("shipment purchased",
		zap.String("order_id", order.ID),
		zap.String("tracking_id", tracking))
	return tracking, nil
}

func (o *Orchestrator) ship(ctx context.Context, order *carrier.Order, buyer carrier.Buyer) (string, error) {
	order.SetShipTo(carrier.UserFromBuyer(buyer))

	type quoteResult struct {
		rates []carrier.Rate
		token carrier.RequestToken
	}
	quote, err := carrier.RetryWithResult(ctx, o.retry, func() (quoteResult, error) {
		rates, token, err := o.client.GetRates(ctx, order)
		return quoteResult{rates: rates, token: token}, err
	})
	if err != nil {
		return "", fmt.Errorf("quoting rates for order %s: %w", order.ID, err)
	}

	rate, err := o.selector.Select(quote.rates)
	if err != nil {
		return "", fmt.Errorf("selecting rate for order %s: %w", order.ID, err)
	}
	o.logger.Ctx(ctx).Info("rate selected",
		zap.String("order_id", order.ID),
		zap.String("rate_id", rate.ID),
		zap.String("service", rate.ServiceName),
		zap.String("category", string(rate.Category)))

	if rate.RequiresAdditionalInputs && o.inputs != nil {
		o.inputs.Handle(ctx, o.client, quote.token, order.ID)
	}

	purchased, err := carrier.RetryWithResult(ctx, o.retry, func() (*carrier.PurchasedShipment, error) {
		return o.client.PurchaseShipment(ctx, quote.token, rate, o.docSpec)
	})
	if err != nil {
		return "", fmt.Errorf("purchasing shipment for order %s: %w", order.ID, err)
	}

	if purchased.TrackingID == "" {
		return "", carrier.NewCarrierError(o.client.Name(), carrier.ErrMissingTracking,
			"MISSING_TRACKING", fmt.Sprintf("shipment %s purchased without a tracking identifier", purchased.ShipmentID))
	}
	return purchased.TrackingID, nil
}

// handleFailure records the failure and escalates authentication errors to
// an operator. Auth failures mean every subsequent purchase will fail too,
// so they page; routine carrier trouble only logs.
func (o *Orchestrator) handleFailure(ctx context.Context, order *carrier.Order, err error) {
	kind := telemetry.ErrorKind(err)
	o.metrics.RecordError(o.client.Name(), kind)

	o.logger.Ctx(ctx).Error("shipment failed",
		zap.String("order_id", order.ID),
		zap.String("kind", kind),
		zap.Error(err))

	if errors.Is(err, carrier.ErrAuth) {
		message := fmt.Sprintf("carrier authentication failed while shipping order %s, credentials need attention: %v", order.ID, err)
		if alertErr := o.alerter.Send(ctx, message, o.admin); alertErr != nil {
			o.logger.Ctx(ctx).Error("auth failure alert could not be delivered", zap.Error(alertErr))
		}
		o.metrics.RecordAlert("auth_failure")
	}
}
