package shipment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/alert"
	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/pkg/carrier"
	"github.com/orderbridge/shipping/pkg/carrier/mock"
)

func TestAdditionalInputsHandler_AlertsOnceWithFieldList(t *testing.T) {
	recorder := &alert.Recorder{}
	handler := shipment.NewAdditionalInputsHandler(recorder, "ops@example.com", otelzap.New(zap.NewNop()))

	client := mock.New("mock")
	client.OnGetAdditionalInputs = func(_ context.Context, token carrier.RequestToken) (map[string]carrier.InputSchema, error) {
		assert.Equal(t, carrier.RequestToken("tok-1"), token)
		return map[string]carrier.InputSchema{
			"customsDeclaration": {DataType: "string", Description: "Customs declaration number"},
			"hazmatClass":        {DataType: "string"},
		}, nil
	}

	handler.Handle(context.Background(), client, "tok-1", "ord-1")

	require.Len(t, recorder.Alerts, 1)
	sent := recorder.Alerts[0]
	assert.Equal(t, "ops@example.com", sent.Recipient)
	assert.Contains(t, sent.Message, "ord-1")
	assert.Contains(t, sent.Message, "customsDeclaration")
	assert.Contains(t, sent.Message, "hazmatClass")
}

func TestAdditionalInputsHandler_EmptySchemaNoAlert(t *testing.T) {
	recorder := &alert.Recorder{}
	handler := shipment.NewAdditionalInputsHandler(recorder, "ops@example.com", otelzap.New(zap.NewNop()))

	handler.Handle(context.Background(), mock.New("mock"), "tok-1", "ord-1")

	assert.Empty(t, recorder.Alerts)
}

func TestAdditionalInputsHandler_FetchFailureIsSwallowed(t *testing.T) {
	recorder := &alert.Recorder{}
	handler := shipment.NewAdditionalInputsHandler(recorder, "ops@example.com", otelzap.New(zap.NewNop()))

	client := mock.New("mock")
	client.OnGetAdditionalInputs = func(_ context.Context, _ carrier.RequestToken) (map[string]carrier.InputSchema, error) {
		return nil, errors.New("schema endpoint down")
	}

	// Must not panic or alert; the purchase continues without the schema.
	handler.Handle(context.Background(), client, "tok-1", "ord-1")

	assert.Empty(t, recorder.Alerts)
}
