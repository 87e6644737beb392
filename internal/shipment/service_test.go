package shipment_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/internal/store"
	"github.com/orderbridge/shipping/pkg/carrier"
)

type stubSource struct {
	orders map[string]*carrier.Order
	buyers map[string]*carrier.Buyer
}

func (s *stubSource) Order(_ context.Context, id string) (*carrier.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, store.ErrNotFound)
	}
	return order, nil
}

func (s *stubSource) Buyer(_ context.Context, id string) (*carrier.Buyer, error) {
	buyer, ok := s.buyers[id]
	if !ok {
		return nil, fmt.Errorf("buyer %s: %w", id, store.ErrNotFound)
	}
	return buyer, nil
}

type stubShipper struct {
	calls atomic.Int64
	fn    func(orderID string) (string, error)
}

func (s *stubShipper) Ship(_ context.Context, order *carrier.Order, _ carrier.Buyer) (string, error) {
	s.calls.Add(1)
	if s.fn != nil {
		return s.fn(order.ID)
	}
	return "TRK-" + order.ID, nil
}

func newStubSource(orderIDs ...string) *stubSource {
	src := &stubSource{
		orders: map[string]*carrier.Order{},
		buyers: map[string]*carrier.Buyer{"buy-1": {Name: "Jordan Smith"}},
	}
	for _, id := range orderIDs {
		src.orders[id] = &carrier.Order{ID: id}
	}
	return src
}

func TestService_Ship(t *testing.T) {
	shipper := &stubShipper{}
	service := shipment.NewService(newStubSource("ord-1"), shipper)

	tracking, err := service.Ship(context.Background(), "ord-1", "buy-1")

	require.NoError(t, err)
	assert.Equal(t, "TRK-ord-1", tracking)
}

func TestService_ShipUnknownOrder(t *testing.T) {
	shipper := &stubShipper{}
	service := shipment.NewService(newStubSource(), shipper)

	_, err := service.Ship(context.Background(), "nope", "buy-1")

	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.EqualValues(t, 0, shipper.calls.Load())
}

func TestService_ShipUnknownBuyer(t *testing.T) {
	shipper := &stubShipper{}
	service := shipment.NewService(newStubSource("ord-1"), shipper)

	_, err := service.Ship(context.Background(), "ord-1", "nope")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestService_ShipBatch(t *testing.T) {
	shipper := &stubShipper{}
	service := shipment.NewService(newStubSource("ord-1", "ord-2", "ord-3"), shipper)

	results := service.ShipBatch(context.Background(), []shipment.BatchItem{
		{OrderID: "ord-1", BuyerID: "buy-1"},
		{OrderID: "ord-2", BuyerID: "buy-1"},
		{OrderID: "ord-3", BuyerID: "buy-1"},
	})

	require.Len(t, results, 3)
	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, "TRK-"+res.OrderID, res.TrackingID)
	}
	assert.EqualValues(t, 3, shipper.calls.Load())
}

func TestService_ShipBatchPartialFailure(t *testing.T) {
	shipper := &stubShipper{fn: func(orderID string) (string, error) {
		if orderID == "ord-2" {
			return "", errors.New("carrier rejected")
		}
		return "TRK-" + orderID, nil
	}}
	service := shipment.NewService(newStubSource("ord-1", "ord-2", "ord-3"), shipper)

	results := service.ShipBatch(context.Background(), []shipment.BatchItem{
		{OrderID: "ord-1", BuyerID: "buy-1"},
		{OrderID: "ord-2", BuyerID: "buy-1"},
		{OrderID: "ord-3", BuyerID: "buy-1"},
	})

	require.Len(t, results, 3)
	byOrder := map[string]shipment.BatchResult{}
	for _, res := range results {
		byOrder[res.OrderID] = res
	}
	assert.NoError(t, byOrder["ord-1"].Err)
	assert.Error(t, byOrder["ord-2"].Err)
	assert.NoError(t, byOrder["ord-3"].Err)
}
