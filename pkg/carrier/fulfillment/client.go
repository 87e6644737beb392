// Package fulfillment provides the fulfillment-network carrier integration:
// warehouse-fulfilled shipments with a preview, order and tracking lifecycle.
package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orderbridge/shipping/pkg/carrier"
	"github.com/orderbridge/shipping/pkg/carrier/lwa"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "amazon-fulfillment"

// Config holds fulfillment network configuration.
type Config struct {
	BaseURL       string
	Region        string
	MarketplaceID string
	TokenURL      string
	ClientID      string
	ClientSecret  string
	RefreshToken  string
	UseMock       bool
}

// Client is the fulfillment-network carrier client. It implements the
// carrier.FulfillmentClient interface and delegates API calls to the
// underlying APIClient (mock or HTTP).
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new fulfillment client. If cfg.UseMock is true, it uses a
// mock API client for testing.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		tokens := lwa.NewTokenSource(lwa.Config{
			TokenURL:     cfg.TokenURL,
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RefreshToken: cfg.RefreshToken,
		})
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			Timeout: 30 * time.Second,
		}, tokens)
	}

	return &Client{config: cfg, apiClient: apiClient, logger: logger, tracer: tracer}
}

// NewWithAPIClient creates a new fulfillment client with a custom API client.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{config: cfg, apiClient: apiClient, logger: logger, tracer: tracer}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// GetFulfillmentPreview previews delivery options for the order.
func (c *Client) GetFulfillmentPreview(ctx context.Context, order *carrier.Order, speeds []carrier.SpeedCategory) ([]carrier.FulfillmentPreview, error) {
	if order.ShipTo == nil {
		return nil, carrier.NewCarrierError(carrierName, carrier.ErrBadRequest,
			"MISSING_SHIP_TO", "order has no ship-to address")
	}

	c.logger.Info("Getting fulfillment preview",
		zap.String("order_id", order.ID),
		zap.Int("speed_count", len(speeds)),
	)

	categories := make([]string, len(speeds))
	for i, s := range speeds {
		categories[i] = string(s)
	}

	apiResp, err := c.apiClient.GetFulfillmentPreview(ctx, &PreviewRequest{
		MarketplaceID:           c.config.MarketplaceID,
		Address:                 userToAddress(*order.ShipTo),
		Items:                   previewItems(order),
		ShippingSpeedCategories: categories,
	})
	if err != nil {
		c.logger.Error("Fulfillment API error", zap.Error(err))
		return nil, c.classify(err)
	}

	previews := make([]carrier.FulfillmentPreview, 0, len(apiResp.FulfillmentPreviews))
	for _, p := range apiResp.FulfillmentPreviews {
		previews = append(previews, previewToCarrier(p))
	}
	return previews, nil
}

// CreateFulfillmentOrder places the fulfillment order for the selected preview.
func (c *Client) CreateFulfillmentOrder(ctx context.Context, order *carrier.Order, preview carrier.FulfillmentPreview) error {
	c.logger.Info("Creating fulfillment order",
		zap.String("order_id", order.ID),
		zap.String("speed", string(preview.SpeedCategory)),
	)

	req := &CreateOrderRequest{
		MarketplaceID:            c.config.MarketplaceID,
		SellerFulfillmentOrderID: order.ID,
		DisplayableOrderID:       order.ID,
		DisplayableOrderDate:     order.ShipDate.Format(time.RFC3339),
		ShippingSpeedCategory:    string(preview.SpeedCategory),
		DestinationAddress:       userToAddress(*order.ShipTo),
		Items:                    orderItems(order),
	}
	if preview.EarliestArrival != nil && preview.LatestArrival != nil {
		req.DeliveryWindow = &DeliveryWindow{
			StartDate: preview.EarliestArrival.Format(time.RFC3339),
			EndDate:   preview.LatestArrival.Format(time.RFC3339),
		}
	}

	if err := c.apiClient.CreateFulfillmentOrder(ctx, req); err != nil {
		c.logger.Error("Fulfillment API error", zap.Error(err))
		return c.classify(err)
	}
	return nil
}

// CreateDestination registers a notification destination and returns its id.
func (c *Client) CreateDestination(ctx context.Context, name, accountID string) (string, error) {
	resp, err := c.apiClient.CreateDestination(ctx, &CreateDestinationRequest{
		Name: name,
		ResourceSpecification: DestinationResourceSpecification{
			EventBridge: &EventBridgeResourceSpecification{
				Region:    c.config.Region,
				AccountID: accountID,
			},
		},
	})
	if err != nil {
		c.logger.Error("Fulfillment API error", zap.Error(err))
		return "", c.classify(err)
	}
	return resp.DestinationID, nil
}

// CreateSubscription subscribes the destination to a notification type.
func (c *Client) CreateSubscription(ctx context.Context, notificationType, destinationID string) error {
	err := c.apiClient.CreateSubscription(ctx, notificationType, &CreateSubscriptionRequest{
		PayloadVersion: "1.0",
		DestinationID:  destinationID,
	})
	if err != nil {
		c.logger.Error("Fulfillment API error", zap.Error(err))
		return c.classify(err)
	}
	return nil
}

// GetFulfillmentOrderTrackingNumber returns the tracking number of the last
// package shipped for the order. Empty when the carrier has not assigned one.
func (c *Client) GetFulfillmentOrderTrackingNumber(ctx context.Context, orderID string) (string, error) {
	resp, err := c.apiClient.GetFulfillmentOrder(ctx, orderID)
	if err != nil {
		c.logger.Error("Fulfillment API error", zap.Error(err))
		return "", c.classify(err)
	}

	tracking := ""
	for _, shipment := range resp.FulfillmentShipments {
		for _, pkg := range shipment.FulfillmentShipmentPackage {
			if pkg.TrackingNumber != "" {
				tracking = pkg.TrackingNumber
			}
		}
	}
	return tracking, nil
}

// classify converts API-level failures into the carrier error taxonomy.
func (c *Client) classify(err error) error {
	var authErr *lwa.AuthError
	if errors.As(err, &authErr) {
		return carrier.NewCarrierError(carrierName, carrier.ErrAuth, "AUTH_FAILED", "token acquisition failed").
			WithStatusCode(authErr.StatusCode).WithCause(err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		kind := carrier.ErrUnavailable
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			kind = carrier.ErrAuth
		case apiErr.StatusCode == 400 || apiErr.StatusCode == 404 || apiErr.StatusCode == 422:
			kind = carrier.ErrBadRequest
		}
		return carrier.NewCarrierError(carrierName, kind, apiErr.Code, apiErr.Message).
			WithStatusCode(apiErr.StatusCode).WithCause(err)
	}

	return carrier.NewCarrierError(carrierName, carrier.ErrUnavailable, "TRANSPORT", "request failed").
		WithCause(err)
}

// ============================================================================
// Conversion helpers
// ============================================================================

func userToAddress(u carrier.User) Address {
	addr := Address{
		Name:          u.Name,
		AddressLine1:  u.AddressLine1,
		PostalCode:    u.PostalCode,
		City:          u.City,
		StateOrRegion: u.StateOrRegion,
		CountryCode:   u.CountryCode,
		Phone:         u.PhoneNumber,
	}
	if u.AddressLine2 != nil {
		addr.AddressLine2 = *u.AddressLine2
	}
	return addr
}

func previewItems(order *carrier.Order) []PreviewItem {
	var items []PreviewItem
	for pi, pkg := range order.Packages {
		for ii, it := range pkg.Items {
			item := PreviewItem{
				SellerSKU:                    itemSKU(it),
				Quantity:                     it.Quantity,
				SellerFulfillmentOrderItemID: fmt.Sprintf("%s-%d-%d", order.ID, pi, ii),
			}
			if it.Value != nil {
				item.PerUnitDeclaredValue = &Money{CurrencyCode: it.Value.Currency, Value: it.Value.Amount}
			}
			items = append(items, item)
		}
	}
	return items
}

func orderItems(order *carrier.Order) []OrderItem {
	var items []OrderItem
	for pi, pkg := range order.Packages {
		for ii, it := range pkg.Items {
			item := OrderItem{
				SellerSKU:                    itemSKU(it),
				SellerFulfillmentOrderItemID: fmt.Sprintf("%s-%d-%d", order.ID, pi, ii),
				Quantity:                     it.Quantity,
			}
			if it.Description != nil {
				item.DisplayableComment = *it.Description
			}
			items = append(items, item)
		}
	}
	return items
}

func itemSKU(it carrier.Item) string {
	if it.Identifier != nil {
		return *it.Identifier
	}
	return "UNKNOWN-SKU"
}

func previewToCarrier(p Preview) carrier.FulfillmentPreview {
	preview := carrier.FulfillmentPreview{
		SpeedCategory: carrier.SpeedCategory(p.ShippingSpeedCategory),
	}
	for _, fee := range p.EstimatedFees {
		preview.EstimatedFees = append(preview.EstimatedFees, carrier.Money{
			Amount:   fee.Value,
			Currency: fee.CurrencyCode,
		})
	}
	if len(p.FulfillmentPreviewShipments) > 0 {
		shipment := p.FulfillmentPreviewShipments[0]
		if t, err := time.Parse(time.RFC3339, shipment.EarliestArrivalDate); err == nil {
			preview.EarliestArrival = &t
		}
		if t, err := time.Parse(time.RFC3339, shipment.LatestArrivalDate); err == nil {
			preview.LatestArrival = &t
		}
	}
	return preview
}

var _ carrier.FulfillmentClient = (*Client)(nil)
