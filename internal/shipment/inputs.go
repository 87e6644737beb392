package shipment

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/orderbridge/shipping/internal/alert"
	"github.com/orderbridge/shipping/pkg/carrier"
)

// AdditionalInputsHandler deals with rates that require extra data before
// purchase. The required fields are reported to an operator once per
// shipment; the purchase itself proceeds regardless, since the carrier
// accepts the request and the operator supplies the data out of band.
type AdditionalInputsHandler struct {
	alerter   alert.Alerter
	recipient string
	logger    *otelzap.Logger
}

func NewAdditionalInputsHandler(alerter alert.Alerter, recipient string, logger *otelzap.Logger) *AdditionalInputsHandler {
	return &AdditionalInputsHandler{alerter: alerter, recipient: recipient, logger: logger}
}

// Handle fetches the additional-inputs schema for the pending quote set
// and alerts the operator when the rate requires any. Errors from the
// schema fetch or the alert delivery are logged and swallowed so the
// purchase is never blocked.
func (h *AdditionalInputsHandler) Handle(ctx context.Context, client carrier.Client, token carrier.RequestToken, orderID string) {
	schema, err := client.GetAdditionalInputs(ctx, token)
	if err != nil {
		h.logger.Ctx(ctx).Warn("fetching additional inputs schema failed",
			zap.String("order_id", orderID),
			zap.Error(err))
		return
	}
	if len(schema) == 0 {
		return
	}

	message := fmt.Sprintf("order %s: selected rate requires additional inputs before the label is final: %s",
		orderID, describeSchema(schema))
	if err := h.alerter.Send(ctx, message, h.recipient); err != nil {
		h.logger.Ctx(ctx).Error("additional inputs alert failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}

func describeSchema(schema map[string]carrier.InputSchema) string {
	fields := make([]string, 0, len(schema))
	for name, s := range schema {
		if s.Description != "" {
			fields = append(fields, fmt.Sprintf("%s (%s: %s)", name, s.DataType, s.Description))
		} else {
			fields = append(fields, fmt.Sprintf("%s (%s)", name, s.DataType))
		}
	}
	sort.Strings(fields)
	return strings.Join(fields, ", ")
}
