package amazonshipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/orderbridge/shipping/pkg/carrier/lwa"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	businessID string
	tokens     *lwa.TokenSource
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL    string
	BusinessID string
	Timeout    time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
// Authentication is delegated to the supplied token source.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig, tokens *lwa.TokenSource) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL:    cfg.BaseURL,
		businessID: cfg.BusinessID,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetRates fetches rate quotes from the Amazon Shipping API.
func (c *HTTPAPIClient) GetRates(ctx context.Context, req *GetRatesRequest) (*GetRatesResponse, error) {
	var result GetRatesResponse
	if err := c.doJSON(ctx, http.MethodPost, "/shipments/rates", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetAdditionalInputs fetches the additional-input schema for a quote session.
func (c *HTTPAPIClient) GetAdditionalInputs(ctx context.Context, requestToken string) (*AdditionalInputsResponse, error) {
	query := url.Values{}
	query.Set("requestToken", requestToken)

	var result AdditionalInputsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/shipments/additionalInputs/schema", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PurchaseShipment purchases a quoted rate.
func (c *HTTPAPIClient) PurchaseShipment(ctx context.Context, req *PurchaseShipmentRequest) (*PurchaseShipmentResponse, error) {
	var result PurchaseShipmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/shipments", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doJSON performs an authenticated request and decodes the payload envelope.
func (c *HTTPAPIClient) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	resp, err := c.doRequest(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.parseError(resp)
	}

	// Amazon wraps successful responses in a "payload" envelope.
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

// doRequest performs an HTTP request with auth and business headers. Token
// acquisition happens before each call; an expired token is refreshed
// synchronously by the token source.
func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Response, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-amz-access-token", token)
	req.Header.Set("x-amzn-shipping-business-id", c.businessID)
	req.Header.Set("User-Agent", "orderbridge-shipping/1.0")

	return c.httpClient.Do(req)
}

// parseError extracts error information from an HTTP response.
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

	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.StatusCode = resp.StatusCode
		return &apiErr
	}

	return &APIError{
		Code:       fmt.Sprintf("HTTP_%d", resp.StatusCode),
		Message:    string(body),
		StatusCode: resp.StatusCode,
	}
}

// Ensure HTTPAPIClient implements APIClient interface
var _ APIClient = (*HTTPAPIClient)(nil)
