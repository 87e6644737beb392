package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/orderbridge/shipping/pkg/carrier/lwa"
)

const outboundPath = "/fba/outbound/2020-07-01"

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	tokens     *lwa.TokenSource
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig, tokens *lwa.TokenSource) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPAPIClient{
		baseURL:    cfg.BaseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetFulfillmentPreview previews delivery options.
func (c *HTTPAPIClient) GetFulfillmentPreview(ctx context.Context, req *PreviewRequest) (*PreviewResponse, error) {
	var result PreviewResponse
	if err := c.doJSON(ctx, http.MethodPost, outboundPath+"/fulfillmentOrders/preview", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateFulfillmentOrder places a fulfillment order.
func (c *HTTPAPIClient) CreateFulfillmentOrder(ctx context.Context, req *CreateOrderRequest) error {
	return c.doJSON(ctx, http.MethodPost, outboundPath+"/fulfillmentOrders", req, nil)
}

// CreateDestination registers a notification destination.
func (c *HTTPAPIClient) CreateDestination(ctx context.Context, req *CreateDestinationRequest) (*CreateDestinationResponse, error) {
	var result CreateDestinationResponse
	if err := c.doJSON(ctx, http.MethodPost, "/notifications/v1/destinations", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateSubscription subscribes a destination to a notification type.
func (c *HTTPAPIClient) CreateSubscription(ctx context.Context, notificationType string, req *CreateSubscriptionRequest) error {
	path := "/notifications/v1/subscriptions/" + notificationType
	return c.doJSON(ctx, http.MethodPost, path, req, nil)
}

// GetFulfillmentOrder fetches a fulfillment order with its shipments.
func (c *HTTPAPIClient) GetFulfillmentOrder(ctx context.Context, orderID string) (*GetOrderResponse, error) {
	var result GetOrderResponse
	if err := c.doJSON(ctx, http.MethodGet, outboundPath+"/fulfillmentOrders/"+orderID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPAPIClient) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-amz-access-token", token)
	req.Header.Set("User-Agent", "orderbridge-shipping/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp)
	}
	if out == nil {
		return nil
	}

	var envelope struct {
		Payload json.RawMessage `json:"payload"`
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Payload) > 0 {
		raw = envelope.Payload
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errs struct {
		Errors []APIError `json:"errors"`
	}
	if err := json.Unmarshal(body, &errs); err == nil && len(errs.Errors) > 0 {
		apiErr := errs.Errors[0]
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message:    string(body),
		StatusCode: resp.StatusCode,
	}
}

var _ APIClient = (*HTTPAPIClient)(nil)
