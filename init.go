package main

import (
	"context"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/orderbridge/shipping/internal/alert"
	"github.com/orderbridge/shipping/internal/config"
	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/internal/store"
	"github.com/orderbridge/shipping/internal/telemetry"
	"github.com/orderbridge/shipping/pkg/carrier"
	"github.com/orderbridge/shipping/pkg/carrier/amazonshipping"
	"github.com/orderbridge/shipping/pkg/carrier/fulfillment"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return func(context.Context) error { return nil }, nil
	}

	_, shutdown, err := telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
	return shutdown, err
}

func initAlerter(cfg *config.Config, logger *otelzap.Logger) alert.Alerter {
	if cfg.AlertWebhookURL != "" {
		return alert.NewWebhookAlerter(cfg.AlertWebhookURL, logger)
	}
	return alert.NewLogAlerter(logger)
}

func initService(cfg *config.Config, logger *otelzap.Logger) (*shipment.Service, error) {
	tracer := otel.GetTracerProvider().Tracer(cfg.ServiceName)
	metrics := telemetry.NewMetrics()
	alerter := initAlerter(cfg, logger)
	selector := shipment.NewRateSelector(parseSpeedCategories(cfg.SpeedCategories))
	retry := carrier.RetryPolicy{MaxRetries: uint64(cfg.MaxRetries)}

	shipper, err := initShipper(cfg, logger, tracer, metrics, alerter, selector, retry)
	if err != nil {
		return nil, err
	}

	source := store.NewFileSource(cfg.OrderDataDir)
	return shipment.NewService(source, shipper), nil
}

func initShipper(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer,
	metrics *telemetry.Metrics, alerter alert.Alerter,
	selector *shipment.RateSelector, retry carrier.RetryPolicy) (shipment.Shipper, error) {

	switch cfg.Carrier {
	case "amazon-shipping":
		client := amazonshipping.New(amazonshipping.Config{
			BaseURL:      cfg.ShippingBaseURL,
			BusinessID:   cfg.ShippingBusinessID,
			TokenURL:     cfg.AmazonTokenURL,
			ClientID:     cfg.AmazonClientID,
			ClientSecret: cfg.AmazonClientSecret,
			RefreshToken: cfg.AmazonRefreshToken,
			UseMock:      cfg.ShippingUseMock,
		}, logger, tracer)

		registry := carrier.NewRegistry()
		registry.Register(client)
		selected, err := registry.Get(client.Name())
		if err != nil {
			return nil, err
		}

		inputs := shipment.NewAdditionalInputsHandler(alerter, cfg.AdminEmail, logger)
		return shipment.NewOrchestrator(shipment.OrchestratorParams{
			Client:   selected,
			Selector: selector,
			Inputs:   inputs,
			Retry:    retry,
			Alerter:  alerter,
			Admin:    cfg.AdminEmail,
			Timeout:  cfg.ShipTimeout,
			Logger:   logger,
			Metrics:  metrics,
			Tracer:   tracer,
		}), nil

	case "amazon-fulfillment":
		client := fulfillment.New(fulfillment.Config{
			BaseURL:       cfg.FulfillmentBaseURL,
			Region:        cfg.Region,
			MarketplaceID: cfg.MarketplaceID,
			TokenURL:      cfg.AmazonTokenURL,
			ClientID:      cfg.AmazonClientID,
			ClientSecret:  cfg.AmazonClientSecret,
			RefreshToken:  cfg.AmazonRefreshToken,
			UseMock:       cfg.FulfillmentUseMock,
		}, logger, tracer)

		return shipment.NewFulfillmentOrchestrator(shipment.FulfillmentParams{
			Client:    client,
			Selector:  selector,
			Retry:     retry,
			Alerter:   alerter,
			Admin:     cfg.AdminEmail,
			AccountID: cfg.AccountID,
			Timeout:   cfg.ShipTimeout,
			Logger:    logger,
			Metrics:   metrics,
			Tracer:    tracer,
		}), nil

	default:
		return nil, fmt.Errorf("unknown carrier %q", cfg.Carrier)
	}
}

func parseSpeedCategories(names []string) []carrier.SpeedCategory {
	categories := make([]carrier.SpeedCategory, 0, len(names))
	for _, name := range names {
		for _, known := range carrier.AvailableSpeedCategories() {
			if string(known) == name {
				categories = append(categories, known)
			}
		}
	}
	return categories
}
