package fulfillment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors bool

	OnGetFulfillmentPreview  func(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error)
	OnCreateFulfillmentOrder func(ctx context.Context, req *CreateOrderRequest) error
	OnCreateDestination      func(ctx context.Context, req *CreateDestinationRequest) (*CreateDestinationResponse, error)
	OnCreateSubscription     func(ctx context.Context, notificationType string, req *CreateSubscriptionRequest) error
	OnGetFulfillmentOrder    func(ctx context.Context, orderID string) (*GetOrderResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) simulated() error {
	if m.SimulateErrors {
		return &APIError{Code: "ServiceUnavailable", Message: "Simulated API error", StatusCode: 503}
	}
	return nil
}

// GetFulfillmentPreview returns mock previews across three speed classes.
func (m *MockAPIClient) GetFulfillmentPreview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	if err := m.simulated(); err != nil {
		return nil, err
	}
	if m.OnGetFulfillmentPreview != nil {
		return m.OnGetFulfillmentPreview(ctx, req)
	}

	now := time.Now()
	preview := func(speed string, days int) Preview {
		return Preview{
			ShippingSpeedCategory: speed,
			IsFulfillable:         true,
			FulfillmentPreviewShipments: []PreviewShipment{
				{
					EarliestArrivalDate: now.AddDate(0, 0, days).Format(time.RFC3339),
					LatestArrivalDate:   now.AddDate(0, 0, days+1).Format(time.RFC3339),
				},
			},
		}
	}

	return &PreviewResponse{
		FulfillmentPreviews: []Preview{
			preview("Standard", 4),
			preview("Expedited", 2),
			preview("Priority", 1),
		},
	}, nil
}

// CreateFulfillmentOrder accepts any order.
func (m *MockAPIClient) CreateFulfillmentOrder(ctx context.Context, req *CreateOrderRequest) error {
	if err := m.simulated(); err != nil {
		return err
	}
	if m.OnCreateFulfillmentOrder != nil {
		return m.OnCreateFulfillmentOrder(ctx, req)
	}
	return nil
}

// CreateDestination returns a generated destination id.
func (m *MockAPIClient) CreateDestination(ctx context.Context, req *CreateDestinationRequest) (*CreateDestinationResponse, error) {
	if err := m.simulated(); err != nil {
		return nil, err
	}
	if m.OnCreateDestination != nil {
		return m.OnCreateDestination(ctx, req)
	}
	return &CreateDestinationResponse{DestinationID: "dest-" + uuid.New().String()[:8]}, nil
}

// CreateSubscription accepts any subscription.
func (m *MockAPIClient) CreateSubscription(ctx context.Context, notificationType string, req *CreateSubscriptionRequest) error {
	if err := m.simulated(); err != nil {
		return err
	}
	if m.OnCreateSubscription != nil {
		return m.OnCreateSubscription(ctx, notificationType, req)
	}
	return nil
}

// GetFulfillmentOrder returns one shipped package with a tracking number.
func (m *MockAPIClient) GetFulfillmentOrder(ctx context.Context, orderID string) (*GetOrderResponse, error) {
	if err := m.simulated(); err != nil {
		return nil, err
	}
	if m.OnGetFulfillmentOrder != nil {
		return m.OnGetFulfillmentOrder(ctx, orderID)
	}

	return &GetOrderResponse{
		FulfillmentShipments: []Shipment{
			{
				AmazonShipmentID:          "shp-" + uuid.New().String()[:8],
				FulfillmentShipmentStatus: "SHIPPED",
				FulfillmentShipmentPackage: []ShipmentPackage{
					{
						PackageNumber:  1,
						CarrierCode:    "AMZN_US",
						TrackingNumber: fmt.Sprintf("TBA%012d", time.Now().UnixNano()%1000000000000),
					},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
