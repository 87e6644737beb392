// Package amazonshipping provides the Amazon Shipping v2 carrier integration.
package amazonshipping

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/orderbridge/shipping/pkg/carrier"
	"github.com/orderbridge/shipping/pkg/carrier/lwa"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const carrierName = "amazon-shipping"

// Config holds Amazon Shipping configuration.
type Config struct {
	BaseURL      string
	BusinessID   string
	TokenURL     string
	ClientID     string
	ClientSecret string
	RefreshToken string
	UseMock      bool // When true, uses mock API client
}

// Client is the Amazon Shipping carrier client. It implements the
// carrier.Client interface and delegates API calls to the underlying
// APIClient (mock or HTTP). The client is safe for concurrent use across
// shipments; token refresh in the HTTP client is internally synchronized.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new Amazon Shipping client. If cfg.UseMock is true, it uses
// a mock API client for testing. Otherwise, it uses the real HTTP API client.
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
			BaseURL:    cfg.BaseURL,
			BusinessID: cfg.BusinessID,
			Timeout:    30 * time.Second,
		}, tokens)
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new Amazon Shipping client with a custom API
// client. This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Name returns the carrier name.
func (c *Client) Name() string {
	return carrierName
}

// GetRates quotes rates for the order. The order's ship-to address must be
// set before calling.
func (c *Client) GetRates(ctx context.Context, order *carrier.Order) ([]carrier.Rate, carrier.RequestToken, error) {
	if order.ShipTo == nil {
		return nil, "", carrier.NewCarrierError(carrierName, carrier.ErrBadRequest,
			"MISSING_SHIP_TO", "order has no ship-to address")
	}

	c.logger.Info("Getting Amazon Shipping rates",
		zap.String("order_id", order.ID),
		zap.Int("package_count", len(order.Packages)),
	)

	apiReq := &GetRatesRequest{
		ShipTo:         userToAddress(*order.ShipTo),
		ShipFrom:       userToAddress(order.ShipFrom),
		ShipDate:       order.ShipDate.Format(time.RFC3339),
		Packages:       packagesToAPI(order.Packages),
		ChannelDetails: ChannelDetails{ChannelType: string(order.Channel.ChannelType)},
	}

	apiResp, err := c.apiClient.GetRates(ctx, apiReq)
	if err != nil {
		c.logger.Error("Amazon Shipping API error", zap.Error(err))
		return nil, "", c.classify(err)
	}

	rates := make([]carrier.Rate, len(apiResp.Rates))
	for i, r := range apiResp.Rates {
		rates[i] = rateToCarrier(r)
	}
	return rates, carrier.RequestToken(apiResp.RequestToken), nil
}

// GetAdditionalInputs discovers additional required fields for the quote
// session bound to token.
func (c *Client) GetAdditionalInputs(ctx context.Context, token carrier.RequestToken) (map[string]carrier.InputSchema, error) {
	apiResp, err := c.apiClient.GetAdditionalInputs(ctx, string(token))
	if err != nil {
		c.logger.Error("Amazon Shipping API error", zap.Error(err))
		return nil, c.classify(err)
	}

	inputs := make(map[string]carrier.InputSchema, len(apiResp.Properties))
	for name, schema := range apiResp.Properties {
		inputs[name] = carrier.InputSchema{
			DataType:    schema.DataType,
			Description: schema.Description,
		}
	}
	return inputs, nil
}

// PurchaseShipment buys the selected rate using the same request token the
// rate was quoted under.
func (c *Client) PurchaseShipment(ctx context.Context, token carrier.RequestToken, rate carrier.Rate, spec carrier.DocumentSpecification) (*carrier.PurchasedShipment, error) {
	c.logger.Info("Purchasing Amazon shipment",
		zap.String("rate_id", rate.ID),
		zap.String("service", rate.ServiceName),
	)

	apiReq := &PurchaseShipmentRequest{
		RequestToken:                   string(token),
		RateID:                         rate.ID,
		RequestedDocumentSpecification: docSpecToAPI(spec),
	}

	apiResp, err := c.apiClient.PurchaseShipment(ctx, apiReq)
	if err != nil {
		c.logger.Error("Amazon Shipping API error", zap.Error(err))
		return nil, c.classify(err)
	}

	return purchaseResponseToCarrier(apiResp), nil
}

// classify converts API-level failures into the carrier error taxonomy. No
// raw transport error leaves the client.
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

	// Transport-level failure: connection refused, timeout, DNS.
	return carrier.NewCarrierError(carrierName, carrier.ErrUnavailable, "TRANSPORT", "request failed").
		WithCause(err)
}

// ============================================================================
// Conversion helpers: carrier models -> API models
// ============================================================================

func userToAddress(u carrier.User) Address {
	return Address{
		Name:          u.Name,
		AddressLine1:  u.AddressLine1,
		AddressLine2:  u.AddressLine2,
		PostalCode:    u.PostalCode,
		City:          u.City,
		StateOrRegion: u.StateOrRegion,
		CountryCode:   u.CountryCode,
		Email:         u.Email,
		PhoneNumber:   u.PhoneNumber,
	}
}

func packagesToAPI(pkgs []carrier.Package) []Package {
	result := make([]Package, len(pkgs))
	for i, p := range pkgs {
		ref := p.ClientReferenceID
		if ref == "" {
			ref = uuid.New().String()
		}
		result[i] = Package{
			Dimensions: Dimensions{
				Length: p.Dimensions.Length,
				Width:  p.Dimensions.Width,
				Height: p.Dimensions.Height,
				Unit:   string(p.Dimensions.Unit),
			},
			Weight:                   Weight{Value: p.Weight.Value, Unit: string(p.Weight.Unit)},
			Items:                    itemsToAPI(p.Items),
			InsuredValue:             moneyToAPI(p.InsuredValue),
			PackageClientReferenceID: ref,
		}
	}
	return result
}

func itemsToAPI(items []carrier.Item) []Item {
	result := make([]Item, len(items))
	for i, it := range items {
		result[i] = Item{
			Quantity:                         it.Quantity,
			Weight:                           Weight{Value: it.Weight.Value, Unit: string(it.Weight.Unit)},
			ItemValue:                        moneyToAPI(it.Value),
			Description:                      it.Description,
			ItemIdentifier:                   it.Identifier,
			IsHazmat:                         it.Hazmat,
			ProductType:                      it.ProductType,
			SerialNumbers:                    it.SerialNumbers,
			DirectFulfillmentItemIdentifiers: it.FulfillmentIdentifiers,
		}
	}
	return result
}

func moneyToAPI(m *carrier.Money) *Currency {
	if m == nil {
		return nil
	}
	return &Currency{Value: m.Amount, Unit: m.Currency}
}

func docSpecToAPI(spec carrier.DocumentSpecification) DocumentSpecification {
	return DocumentSpecification{
		Format: spec.Format,
		Size: DocumentSize{
			Width:  spec.Size.Width,
			Length: spec.Size.Length,
			Unit:   spec.Size.Unit,
		},
		Dpi:                    spec.DPI,
		PageLayout:             spec.PageLayout,
		NeedFileJoining:        spec.NeedFileJoining,
		RequestedDocumentTypes: spec.RequestedDocumentTypes,
	}
}

// ============================================================================
// Conversion helpers: API models -> carrier models
// ============================================================================

func rateToCarrier(r Rate) carrier.Rate {
	rate := carrier.Rate{
		ID:                       r.RateID,
		CarrierID:                r.CarrierID,
		CarrierName:              r.CarrierName,
		ServiceID:                r.ServiceID,
		ServiceName:              r.ServiceName,
		Category:                 mapSpeedCategory(r.ServiceID),
		TotalCharge:              carrier.Money{Amount: r.TotalCharge.Value, Currency: r.TotalCharge.Unit},
		RequiresAdditionalInputs: r.RequiresAdditionalInputs,
	}

	if w := r.Promise.DeliveryWindow; w != nil {
		if t, err := time.Parse(time.RFC3339, w.Start); err == nil {
			rate.Promise.EarliestArrival = &t
		}
		if w.End != "" {
			if t, err := time.Parse(time.RFC3339, w.End); err == nil {
				rate.Promise.LatestArrival = &t
			}
		}
	}

	for _, spec := range r.SupportedDocumentSpecifications {
		rate.SupportedDocumentFormats = append(rate.SupportedDocumentFormats, spec.Format)
	}
	return rate
}

func purchaseResponseToCarrier(resp *PurchaseShipmentResponse) *carrier.PurchasedShipment {
	purchased := &carrier.PurchasedShipment{
		ShipmentID: resp.ShipmentID,
		TrackingID: resp.TrackingID,
	}

	for _, detail := range resp.PackageDocumentDetails {
		if purchased.TrackingID == "" {
			purchased.TrackingID = detail.TrackingID
		}
		for _, doc := range detail.PackageDocuments {
			purchased.Documents = append(purchased.Documents, carrier.Document{
				Type:     doc.Type,
				Format:   doc.Format,
				Contents: doc.Contents,
			})
		}
	}
	return purchased
}

func mapSpeedCategory(serviceID string) carrier.SpeedCategory {
	id := strings.ToUpper(serviceID)
	switch {
	case strings.Contains(id, "OVERNIGHT") || strings.Contains(id, "PRIORITY") || strings.Contains(id, "NEXT_DAY"):
		return carrier.SpeedPriority
	case strings.Contains(id, "EXPRESS") || strings.Contains(id, "EXPEDITED") || strings.Contains(id, "2DAY"):
		return carrier.SpeedExpedited
	case strings.Contains(id, "SCHEDULED"):
		return carrier.SpeedScheduledDelivery
	default:
		return carrier.SpeedStandard
	}
}

var _ carrier.Client = (*Client)(nil)
