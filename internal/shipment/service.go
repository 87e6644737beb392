package shipment

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/orderbridge/shipping/internal/store"
	"github.com/orderbridge/shipping/pkg/carrier"
)

// Shipper runs the purchase workflow for one order.
type Shipper interface {
	Ship(ctx context.Context, order *carrier.Order, buyer carrier.Buyer) (string, error)
}

// Service resolves orders and buyers from the order source and runs the
// shipment workflow over them.
type Service struct {
	source  store.OrderSource
	shipper Shipper

	// BatchConcurrency bounds parallel shipments in ShipBatch. Zero
	// means DefaultBatchConcurrency.
	BatchConcurrency int
}

const DefaultBatchConcurrency = 4

func NewService(source store.OrderSource, shipper Shipper) *Service {
	return &Service{source: source, shipper: shipper}
}

// Ship loads the order and buyer records and purchases a shipment.
func (s *Service) Ship(ctx context.Context, orderID, buyerID string) (string, error) {
	order, err := s.source.Order(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("loading order %s: %w", orderID, err)
	}
	buyer, err := s.source.Buyer(ctx, buyerID)
	if err != nil {
		return "", fmt.Errorf("loading buyer %s: %w", buyerID, err)
	}
	return s.shipper.Ship(ctx, order, *buyer)
}

// BatchItem pairs an order with its buyer for batch shipping.
type BatchItem struct {
	OrderID string
	BuyerID string
}

// BatchResult reports the outcome of one batch item.
type BatchResult struct {
	OrderID    string
	TrackingID string
	Err        error
}

// ShipBatch ships every item concurrently and returns a result per item.
// Individual failures do not stop the batch; only context cancellation
// does.
func (s *Service) ShipBatch(ctx context.Context, items []BatchItem) []BatchResult {
	limit := s.BatchConcurrency
	if limit <= 0 {
		limit = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(items))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, item := range items {
		g.Go(func() error {
			tracking, err := s.Ship(ctx, item.OrderID, item.BuyerID)
			mu.Lock()
			results[i] = BatchResult{OrderID: item.OrderID, TrackingID: tracking, Err: err}
			mu.Unlock()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
