// Package server exposes the shipment workflow over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/internal/store"
	"github.com/orderbridge/shipping/pkg/carrier"
)

// Server hosts the shipping HTTP API.
type Server struct {
	port    int
	service *shipment.Service
	logger  *otelzap.Logger
}

func New(port int, service *shipment.Service, logger *otelzap.Logger) *Server {
	return &Server{port: port, service: service, logger: logger}
}

// Handler returns the HTTP routes served by Run.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /ship", s.handleShip)
	mux.HandleFunc("POST /ship/batch", s.handleShipBatch)
	return mux
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type shipRequest struct {
	OrderID string `json:"order_id"`
	BuyerID string `json:"buyer_id"`
}

type shipResponse struct {
	OrderID    string `json:"order_id"`
	TrackingID string `json:"tracking_id"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func (s *Server) handleShip(w http.ResponseWriter, r *http.Request) {
	var req shipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	if req.OrderID == "" || req.BuyerID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "order_id and buyer_id are required", Kind: "bad_request"})
		return
	}

	tracking, err := s.service.Ship(r.Context(), req.OrderID, req.BuyerID)
	if err != nil {
		s.logger.Ctx(r.Context()).Error("ship request failed",
			zap.String("order_id", req.OrderID),
			zap.Error(err))
		status, kind := classifyHTTP(err)
		writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
		return
	}
	writeJSON(w, http.StatusOK, shipResponse{OrderID: req.OrderID, TrackingID: tracking})
}

type batchRequest struct {
	Items []shipRequest `json:"items"`
}

type batchItemResponse struct {
	OrderID    string `json:"order_id"`
	TrackingID string `json:"tracking_id,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleShipBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "bad_request"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "items are required", Kind: "bad_request"})
		return
	}

	items := make([]shipment.BatchItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = shipment.BatchItem{OrderID: it.OrderID, BuyerID: it.BuyerID}
	}

	results := s.service.ShipBatch(r.Context(), items)
	out := make([]batchItemResponse, len(results))
	for i, res := range results {
		out[i] = batchItemResponse{OrderID: res.OrderID, TrackingID: res.TrackingID}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": out})
}

// classifyHTTP maps workflow errors to HTTP statuses. Transient carrier
// trouble surfaces as 502 so callers know a retry later may succeed.
func classifyHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, carrier.ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, carrier.ErrNoRatesAvailable):
		return http.StatusUnprocessableEntity, "no_rates"
	case errors.Is(err, carrier.ErrAuth):
		return http.StatusBadGateway, "auth"
	case errors.Is(err, carrier.ErrUnavailable):
		return http.StatusBadGateway, "unavailable"
	case errors.Is(err, carrier.ErrMissingTracking):
		return http.StatusBadGateway, "missing_tracking"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
