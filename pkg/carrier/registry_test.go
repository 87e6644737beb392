package carrier_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/pkg/carrier"
	"github.com/orderbridge/shipping/pkg/carrier/mock"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := carrier.NewRegistry()
	registry.Register(mock.New("mock-a"))
	registry.Register(mock.New("mock-b"))

	client, err := registry.Get("mock-a")
	require.NoError(t, err)
	assert.Equal(t, "mock-a", client.Name())

	assert.Equal(t, 2, registry.Count())
	assert.ElementsMatch(t, []string{"mock-a", "mock-b"}, registry.Names())
}

func TestRegistry_GetUnknownCarrier(t *testing.T) {
	registry := carrier.NewRegistry()

	_, err := registry.Get("nope")
	assert.ErrorIs(t, err, carrier.ErrCarrierNotFound)
}
