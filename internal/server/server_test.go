package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/server"
	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/internal/store"
	"github.com/orderbridge/shipping/pkg/carrier"
)

type stubSource struct{}

func (stubSource) Order(_ context.Context, id string) (*carrier.Order, error) {
	if id == "missing" {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	return &carrier.Order{ID: id}, nil
}

func (stubSource) Buyer(_ context.Context, id string) (*carrier.Buyer, error) {
	return &carrier.Buyer{Name: "Jordan Smith"}, nil
}

type stubShipper struct {
	err error
}

func (s stubShipper) Ship(_ context.Context, order *carrier.Order, _ carrier.Buyer) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "TRK-" + order.ID, nil
}

func newTestServer(shipErr error) *httptest.Server {
	logger := otelzap.New(zap.NewNop())
	service := shipment.NewService(stubSource{}, stubShipper{err: shipErr})
	srv := httptest.NewServer(server.New(0, service, logger).Handler())
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_Ship_Success(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/ship", `{"order_id":"ord-1","buyer_id":"buy-1"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ord-1", body["order_id"])
	assert.Equal(t, "TRK-ord-1", body["tracking_id"])
}

func TestServer_Ship_MissingFields(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/ship", `{"order_id":"ord-1"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", body["kind"])
}

func TestServer_Ship_OrderNotFound(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/ship", `{"order_id":"missing","buyer_id":"buy-1"}`)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["kind"])
}

func TestServer_Ship_ErrorTaxonomyStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"unavailable", carrier.NewCarrierError("c", carrier.ErrUnavailable, "SERVICE_UNAVAILABLE", "503"), http.StatusBadGateway, "unavailable"},
		{"auth", carrier.NewCarrierError("c", carrier.ErrAuth, "AUTH_FAILED", "401"), http.StatusBadGateway, "auth"},
		{"bad request", carrier.NewCarrierError("c", carrier.ErrBadRequest, "INVALID_INPUT", "400"), http.StatusBadRequest, "bad_request"},
		{"no rates", carrier.ErrNoRatesAvailable, http.StatusUnprocessableEntity, "no_rates"},
		{"missing tracking", carrier.NewCarrierError("c", carrier.ErrMissingTracking, "MISSING_TRACKING", "no tracking id"), http.StatusBadGateway, "missing_tracking"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(tc.err)
			defer srv.Close()

			resp, body := postJSON(t, srv.URL+"/ship", `{"order_id":"ord-1","buyer_id":"buy-1"}`)

			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, tc.wantKind, body["kind"])
		})
	}
}

func TestServer_ShipBatch(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, body := postJSON(t, srv.URL+"/ship/batch",
		`{"items":[{"order_id":"ord-1","buyer_id":"buy-1"},{"order_id":"ord-2","buyer_id":"buy-1"}]}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	results, ok := body["results"].([]any)
	require.True(t, ok)
	assert.Len(t, results, 2)
}

func TestServer_ShipBatch_Empty(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, _ := postJSON(t, srv.URL+"/ship/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
