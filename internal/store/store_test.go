package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/internal/store"
)

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644))
}

func TestFileSource_Order(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.ord-1.json", `{
		"id": "ord-1",
		"shipFrom": {"name": "Warehouse", "city": "Portland", "countryCode": "US"},
		"packages": [{"weight": {"value": 2.5, "unit": "POUND"}}]
	}`)

	source := store.NewFileSource(dir)
	order, err := source.Order(context.Background(), "ord-1")

	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "Warehouse", order.ShipFrom.Name)
	require.Len(t, order.Packages, 1)
	assert.Equal(t, 2.5, order.Packages[0].Weight.Value)
}

func TestFileSource_OrderIDDefaultsToFilename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.ord-2.json", `{"shipFrom": {"name": "Warehouse"}}`)

	source := store.NewFileSource(dir)
	order, err := source.Order(context.Background(), "ord-2")

	require.NoError(t, err)
	assert.Equal(t, "ord-2", order.ID)
}

func TestFileSource_Buyer(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "buyer.buy-1.json", `{
		"name": "Jordan Smith",
		"addressLine1": "123 Main St",
		"city": "Seattle",
		"region": "WA",
		"postalCode": "98109",
		"countryCode": "US"
	}`)

	source := store.NewFileSource(dir)
	buyer, err := source.Buyer(context.Background(), "buy-1")

	require.NoError(t, err)
	assert.Equal(t, "Jordan Smith", buyer.Name)
	assert.Equal(t, "Seattle", buyer.City)
}

func TestFileSource_NotFound(t *testing.T) {
	source := store.NewFileSource(t.TempDir())

	_, err := source.Order(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = source.Buyer(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestFileSource_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.bad.json", `{not json`)

	source := store.NewFileSource(dir)
	_, err := source.Order(context.Background(), "bad")

	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
