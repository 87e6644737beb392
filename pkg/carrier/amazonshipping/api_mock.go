package amazonshipping

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnGetRates            func(ctx context.Context, req *GetRatesRequest) (*GetRatesResponse, error)
	OnGetAdditionalInputs func(ctx context.Context, requestToken string) (*AdditionalInputsResponse, error)
	OnPurchaseShipment    func(ctx context.Context, req *PurchaseShipmentRequest) (*PurchaseShipmentResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// GetRates returns mock shipping rates.
func (m *MockAPIClient) GetRates(ctx context.Context, req *GetRatesRequest) (*GetRatesResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "ServiceUnavailable", Message: "Simulated API error", StatusCode: 503}
	}

	if m.OnGetRates != nil {
		return m.OnGetRates(ctx, req)
	}

	now := time.Now()
	window := func(days int) Promise {
		return Promise{DeliveryWindow: &Window{
			Start: now.AddDate(0, 0, days).Format(time.RFC3339),
			End:   now.AddDate(0, 0, days+1).Format(time.RFC3339),
		}}
	}

	return &GetRatesResponse{
		RequestToken: "amzn-token-" + uuid.New().String()[:8],
		Rates: []Rate{
			{
				RateID:      "rate-" + uuid.New().String()[:8],
				CarrierID:   "UPS",
				CarrierName: "UPS",
				ServiceID:   "UPS_GROUND",
				ServiceName: "UPS Ground",
				TotalCharge: Currency{Value: 14.50, Unit: "USD"},
				Promise:     window(4),
			},
			{
				RateID:      "rate-" + uuid.New().String()[:8],
				CarrierID:   "FEDEX",
				CarrierName: "FedEx",
				ServiceID:   "FEDEX_EXPRESS_SAVER",
				ServiceName: "FedEx Express Saver",
				TotalCharge: Currency{Value: 28.99, Unit: "USD"},
				Promise:     window(2),
			},
			{
				RateID:      "rate-" + uuid.New().String()[:8],
				CarrierID:   "FEDEX",
				CarrierName: "FedEx",
				ServiceID:   "FEDEX_PRIORITY_OVERNIGHT",
				ServiceName: "FedEx Priority Overnight",
				TotalCharge: Currency{Value: 42.75, Unit: "USD"},
				Promise:     window(1),
			},
		},
	}, nil
}

// GetAdditionalInputs returns an empty schema by default.
func (m *MockAPIClient) GetAdditionalInputs(ctx context.Context, requestToken string) (*AdditionalInputsResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "ServiceUnavailable", Message: "Simulated API error", StatusCode: 503}
	}

	if m.OnGetAdditionalInputs != nil {
		return m.OnGetAdditionalInputs(ctx, requestToken)
	}

	return &AdditionalInputsResponse{Properties: map[string]InputSchema{}}, nil
}

// PurchaseShipment purchases a mock shipment.
func (m *MockAPIClient) PurchaseShipment(ctx context.Context, req *PurchaseShipmentRequest) (*PurchaseShipmentResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "ServiceUnavailable", Message: "Simulated API error", StatusCode: 503}
	}

	if m.OnPurchaseShipment != nil {
		return m.OnPurchaseShipment(ctx, req)
	}

	shipmentID := "amzn-ship-" + uuid.New().String()[:8]
	trackingID := fmt.Sprintf("TBA%012d", time.Now().UnixNano()%1000000000000)

	return &PurchaseShipmentResponse{
		ShipmentID: shipmentID,
		TrackingID: trackingID,
		PackageDocumentDetails: []PackageDocumentDetail{
			{
				PackageClientReferenceID: "pkg-1",
				TrackingID:               trackingID,
				PackageDocuments: []Document{
					{Type: "LABEL", Format: req.RequestedDocumentSpecification.Format, Contents: "bW9jay1sYWJlbA=="},
				},
			},
		},
	}, nil
}

var _ APIClient = (*MockAPIClient)(nil)
