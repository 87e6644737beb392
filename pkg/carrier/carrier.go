// Package carrier provides an abstraction layer for shipping carriers.
package carrier

import (
	"context"
)

// Client defines the buy-shipping operations a carrier integration must
// implement: quote, additional-input discovery, and purchase. Implementations
// never retry; retry is layered on top by RetryPolicy.
type Client interface {
	// Name returns the carrier identifier (e.g. "amazon-shipping").
	Name() string

	// GetRates quotes shipping rates for an order. The returned RequestToken
	// binds the quote session and must be reused unchanged for subsequent
	// GetAdditionalInputs and PurchaseShipment calls.
	GetRates(ctx context.Context, order *Order) ([]Rate, RequestToken, error)

	// GetAdditionalInputs discovers carrier-required fields not present in
	// the initial quote request, keyed by field name.
	GetAdditionalInputs(ctx context.Context, token RequestToken) (map[string]InputSchema, error)

	// PurchaseShipment buys the selected rate and returns the purchased
	// shipment with its tracking number.
	PurchaseShipment(ctx context.Context, token RequestToken, rate Rate, spec DocumentSpecification) (*PurchasedShipment, error)
}

// FulfillmentClient defines the fulfillment-network variant: warehouse-fulfilled
// shipments with their own preview, order and tracking lifecycle.
type FulfillmentClient interface {
	// Name returns the carrier identifier (e.g. "amazon-fulfillment").
	Name() string

	// GetFulfillmentPreview returns delivery options for the order across the
	// requested speed categories.
	GetFulfillmentPreview(ctx context.Context, order *Order, speeds []SpeedCategory) ([]FulfillmentPreview, error)

	// CreateFulfillmentOrder places the fulfillment order for the selected preview.
	CreateFulfillmentOrder(ctx context.Context, order *Order, preview FulfillmentPreview) error

	// CreateDestination registers a notification destination and returns its id.
	CreateDestination(ctx context.Context, name, accountID string) (string, error)

	// CreateSubscription subscribes the destination to a notification type.
	CreateSubscription(ctx context.Context, notificationType, destinationID string) error

	// GetFulfillmentOrderTrackingNumber returns the tracking number assigned
	// to a previously created fulfillment order.
	GetFulfillmentOrderTrackingNumber(ctx context.Context, orderID string) (string, error)
}
