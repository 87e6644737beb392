// Package mock provides a mock carrier client for testing and local runs.
package mock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orderbridge/shipping/pkg/carrier"
)

// Client is a mock carrier for testing. Zero value behavior returns canned
// rates and a successful purchase; individual operations are overridable via
// the On* hooks.
type Client struct {
	CarrierName string

	OnGetRates            func(ctx context.Context, order *carrier.Order) ([]carrier.Rate, carrier.RequestToken, error)
	OnGetAdditionalInputs func(ctx context.Context, token carrier.RequestToken) (map[string]carrier.InputSchema, error)
	OnPurchaseShipment    func(ctx context.Context, token carrier.RequestToken, rate carrier.Rate, spec carrier.DocumentSpecification) (*carrier.PurchasedShipment, error)
}

// New creates a new mock carrier client.
func New(name string) *Client {
	return &Client{CarrierName: name}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	if c.CarrierName == "" {
		return "mock"
	}
	return c.CarrierName
}

// GetRates returns canned rates covering three speed classes.
func (c *Client) GetRates(ctx context.Context, order *carrier.Order) ([]carrier.Rate, carrier.RequestToken, error) {
	if c.OnGetRates != nil {
		return c.OnGetRates(ctx, order)
	}

	now := time.Now()
	token := carrier.RequestToken("tok-" + uuid.New().String()[:8])
	return []carrier.Rate{
		rate(c.Name(), "UPS", "Ground", carrier.SpeedStandard, 12.50, now.AddDate(0, 0, 3), now.AddDate(0, 0, 5)),
		rate(c.Name(), "FedEx", "2Day", carrier.SpeedExpedited, 24.00, now.AddDate(0, 0, 2), now.AddDate(0, 0, 3)),
		rate(c.Name(), "FedEx", "Overnight", carrier.SpeedPriority, 42.75, now.AddDate(0, 0, 1), now.AddDate(0, 0, 1)),
	}, token, nil
}

// GetAdditionalInputs returns an empty schema: nothing extra required.
func (c *Client) GetAdditionalInputs(ctx context.Context, token carrier.RequestToken) (map[string]carrier.InputSchema, error) {
	if c.OnGetAdditionalInputs != nil {
		return c.OnGetAdditionalInputs(ctx, token)
	}
	return map[string]carrier.InputSchema{}, nil
}

// PurchaseShipment returns a purchased shipment with a generated tracking id.
func (c *Client) PurchaseShipment(ctx context.Context, token carrier.RequestToken, rate carrier.Rate, spec carrier.DocumentSpecification) (*carrier.PurchasedShipment, error) {
	if c.OnPurchaseShipment != nil {
		return c.OnPurchaseShipment(ctx, token, rate, spec)
	}

	shipmentID := fmt.Sprintf("%s-ship-%s", c.Name(), uuid.New().String()[:8])
	return &carrier.PurchasedShipment{
		ShipmentID: shipmentID,
		TrackingID: fmt.Sprintf("1Z%09d", time.Now().UnixNano()%1000000000),
		Documents: []carrier.Document{
			{Type: "LABEL", Format: spec.Format, Contents: "bW9jay1sYWJlbA=="},
		},
	}, nil
}

func rate(name, carrierID, serviceID string, cat carrier.SpeedCategory, amount float64, earliest, latest time.Time) carrier.Rate {
	return carrier.Rate{
		ID:          fmt.Sprintf("%s-rate-%s", name, uuid.New().String()[:8]),
		CarrierID:   carrierID,
		CarrierName: carrierID,
		ServiceID:   serviceID,
		ServiceName: fmt.Sprintf("%s %s", carrierID, serviceID),
		Category:    cat,
		TotalCharge: carrier.Money{Amount: amount, Currency: "USD"},
		Promise: carrier.DeliveryPromise{
			EarliestArrival: &earliest,
			LatestArrival:   &latest,
		},
		SupportedDocumentFormats: []string{"PDF", "ZPL"},
	}
}

var _ carrier.Client = (*Client)(nil)
