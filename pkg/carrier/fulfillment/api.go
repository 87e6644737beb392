package fulfillment

import (
	"context"
	"fmt"
)

// APIClient defines the interface for the fulfillment-network API operations:
// FBA outbound previews and orders, plus the notifications API used to watch
// order status changes.
type APIClient interface {
	// GetFulfillmentPreview previews delivery options.
	// POST /fba/outbound/2020-07-01/fulfillmentOrders/preview
	GetFulfillmentPreview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error)

	// CreateFulfillmentOrder places a fulfillment order.
	// POST /fba/outbound/2020-07-01/fulfillmentOrders
	CreateFulfillmentOrder(ctx context.Context, req *CreateOrderRequest) error

	// CreateDestination registers a notification destination.
	// POST /notifications/v1/destinations
	CreateDestination(ctx context.Context, req *CreateDestinationRequest) (*CreateDestinationResponse, error)

	// CreateSubscription subscribes a destination to a notification type.
	// POST /notifications/v1/subscriptions/{notificationType}
	CreateSubscription(ctx context.Context, notificationType string, req *CreateSubscriptionRequest) error

	// GetFulfillmentOrder fetches a fulfillment order with its shipments.
	// GET /fba/outbound/2020-07-01/fulfillmentOrders/{sellerFulfillmentOrderId}
	GetFulfillmentOrder(ctx context.Context, orderID string) (*GetOrderResponse, error)
}

// ============================================================================
// API Request/Response Types
// ============================================================================

// Address is the fulfillment destination address.
type Address struct {
	Name          string `json:"name"`
	AddressLine1  string `json:"addressLine1"`
	AddressLine2  string `json:"addressLine2,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	City          string `json:"city,omitempty"`
	StateOrRegion string `json:"stateOrRegion,omitempty"`
	CountryCode   string `json:"countryCode"`
	Phone         string `json:"phone,omitempty"`
}

// Money is a monetary amount.
type Money struct {
	CurrencyCode string  `json:"currencyCode"`
	Value        float64 `json:"value,string"`
}

// PreviewItem is one line item in a preview request.
type PreviewItem struct {
	SellerSKU                    string `json:"sellerSku"`
	Quantity                     int    `json:"quantity"`
	PerUnitDeclaredValue         *Money `json:"perUnitDeclaredValue,omitempty"`
	SellerFulfillmentOrderItemID string `json:"sellerFulfillmentOrderItemId"`
}

// PreviewRequest previews delivery options across speed categories.
type PreviewRequest struct {
	MarketplaceID           string        `json:"marketplaceId"`
	Address                 Address       `json:"address"`
	Items                   []PreviewItem `json:"items"`
	ShippingSpeedCategories []string      `json:"shippingSpeedCategories"`
}

// PreviewShipment is the arrival window of one previewed shipment.
type PreviewShipment struct {
	EarliestArrivalDate string `json:"earliestArrivalDate,omitempty"` // RFC 3339
	LatestArrivalDate   string `json:"latestArrivalDate,omitempty"`
}

// Preview is one delivery option.
type Preview struct {
	ShippingSpeedCategory       string            `json:"shippingSpeedCategory"`
	IsFulfillable               bool              `json:"isFulfillable"`
	EstimatedFees               []Money           `json:"estimatedFees,omitempty"`
	FulfillmentPreviewShipments []PreviewShipment `json:"fulfillmentPreviewShipments,omitempty"`
}

// PreviewResponse lists the previewed delivery options.
type PreviewResponse struct {
	FulfillmentPreviews []Preview `json:"fulfillmentPreviews"`
}

// OrderItem is one line item in a fulfillment order.
type OrderItem struct {
	SellerSKU                    string `json:"sellerSku"`
	SellerFulfillmentOrderItemID string `json:"sellerFulfillmentOrderItemId"`
	Quantity                     int    `json:"quantity"`
	DisplayableComment           string `json:"displayableComment,omitempty"`
}

// DeliveryWindow bounds the requested delivery.
type DeliveryWindow struct {
	StartDate string `json:"startDate"` // RFC 3339
	EndDate   string `json:"endDate"`
}

// CreateOrderRequest places a fulfillment order for a previewed option.
type CreateOrderRequest struct {
	MarketplaceID            string          `json:"marketplaceId"`
	SellerFulfillmentOrderID string          `json:"sellerFulfillmentOrderId"`
	DisplayableOrderID       string          `json:"displayableOrderId"`
	DisplayableOrderDate     string          `json:"displayableOrderDate"`
	ShippingSpeedCategory    string          `json:"shippingSpeedCategory"`
	DeliveryWindow           *DeliveryWindow `json:"deliveryWindow,omitempty"`
	DestinationAddress       Address         `json:"destinationAddress"`
	Items                    []OrderItem     `json:"items"`
}

// EventBridgeResourceSpecification identifies the notification target account.
type EventBridgeResourceSpecification struct {
	Region    string `json:"region"`
	AccountID string `json:"accountId"`
}

// DestinationResourceSpecification wraps the supported destination kinds.
type DestinationResourceSpecification struct {
	EventBridge *EventBridgeResourceSpecification `json:"eventBridge,omitempty"`
}

// CreateDestinationRequest registers a notification destination.
type CreateDestinationRequest struct {
	Name                  string                           `json:"name"`
	ResourceSpecification DestinationResourceSpecification `json:"resourceSpecification"`
}

// CreateDestinationResponse returns the registered destination id.
type CreateDestinationResponse struct {
	DestinationID string `json:"destinationId"`
}

// CreateSubscriptionRequest subscribes a destination to a notification type.
type CreateSubscriptionRequest struct {
	PayloadVersion string `json:"payloadVersion"`
	DestinationID  string `json:"destinationId"`
}

// ShipmentPackage is one package of a fulfillment shipment.
type ShipmentPackage struct {
	PackageNumber  int    `json:"packageNumber"`
	CarrierCode    string `json:"carrierCode,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
}

// Shipment is one shipment of a fulfillment order.
type Shipment struct {
	AmazonShipmentID           string            `json:"amazonShipmentId"`
	FulfillmentShipmentStatus  string            `json:"fulfillmentShipmentStatus,omitempty"`
	FulfillmentShipmentPackage []ShipmentPackage `json:"fulfillmentShipmentPackage,omitempty"`
}

// GetOrderResponse holds a fulfillment order and its shipments.
type GetOrderResponse struct {
	FulfillmentShipments []Shipment `json:"fulfillmentShipments,omitempty"`
}

// APIError represents an error from the fulfillment API.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
