package shipment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/internal/shipment"
	"github.com/orderbridge/shipping/pkg/carrier"
)

func rateArriving(id string, category carrier.SpeedCategory, latest time.Time) carrier.Rate {
	return carrier.Rate{
		ID:       id,
		Category: category,
		Promise:  carrier.DeliveryPromise{LatestArrival: &latest},
	}
}

func TestRateSelector_PicksEarliestWorstCaseArrival(t *testing.T) {
	now := time.Now()
	selector := shipment.NewRateSelector(nil)

	rate, err := selector.Select([]carrier.Rate{
		rateArriving("slow", carrier.SpeedStandard, now.AddDate(0, 0, 5)),
		rateArriving("fast", carrier.SpeedPriority, now.AddDate(0, 0, 1)),
		rateArriving("mid", carrier.SpeedExpedited, now.AddDate(0, 0, 3)),
	})

	require.NoError(t, err)
	assert.Equal(t, "fast", rate.ID)
}

func TestRateSelector_TieKeepsFirstSeen(t *testing.T) {
	arrival := time.Now().AddDate(0, 0, 2)
	selector := shipment.NewRateSelector(nil)

	rate, err := selector.Select([]carrier.Rate{
		rateArriving("first", carrier.SpeedExpedited, arrival),
		rateArriving("second", carrier.SpeedExpedited, arrival),
	})

	require.NoError(t, err)
	assert.Equal(t, "first", rate.ID)
}

func TestRateSelector_EmptySetYieldsNoRates(t *testing.T) {
	selector := shipment.NewRateSelector(nil)

	_, err := selector.Select(nil)
	assert.ErrorIs(t, err, carrier.ErrNoRatesAvailable)
}

func TestRateSelector_FilterRestrictsCategories(t *testing.T) {
	now := time.Now()
	selector := shipment.NewRateSelector([]carrier.SpeedCategory{carrier.SpeedStandard})

	rate, err := selector.Select([]carrier.Rate{
		rateArriving("slow", carrier.SpeedStandard, now.AddDate(0, 0, 5)),
		rateArriving("fast", carrier.SpeedPriority, now.AddDate(0, 0, 1)),
	})

	require.NoError(t, err)
	assert.Equal(t, "slow", rate.ID)
}

func TestRateSelector_EmptyFilterResultFallsBackToAllRates(t *testing.T) {
	now := time.Now()
	selector := shipment.NewRateSelector([]carrier.SpeedCategory{carrier.SpeedScheduledDelivery})

	rate, err := selector.Select([]carrier.Rate{
		rateArriving("slow", carrier.SpeedStandard, now.AddDate(0, 0, 5)),
		rateArriving("fast", carrier.SpeedPriority, now.AddDate(0, 0, 1)),
	})

	require.NoError(t, err)
	assert.Equal(t, "fast", rate.ID)
}

func TestRateSelector_RateWithoutPromiseSortsLast(t *testing.T) {
	now := time.Now()
	selector := shipment.NewRateSelector(nil)

	rate, err := selector.Select([]carrier.Rate{
		{ID: "unknown", Category: carrier.SpeedStandard},
		rateArriving("known", carrier.SpeedExpedited, now.AddDate(0, 0, 3)),
	})

	require.NoError(t, err)
	assert.Equal(t, "known", rate.ID)
}

func TestRateSelector_FallsBackToEarliestArrival(t *testing.T) {
	now := time.Now()
	soonEarliest := now.AddDate(0, 0, 1)
	latest := now.AddDate(0, 0, 3)
	selector := shipment.NewRateSelector(nil)

	rate, err := selector.Select([]carrier.Rate{
		rateArriving("bounded", carrier.SpeedExpedited, latest),
		{
			ID:       "unbounded",
			Category: carrier.SpeedPriority,
			Promise:  carrier.DeliveryPromise{EarliestArrival: &soonEarliest},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "unbounded", rate.ID)
}

func TestRateSelector_SelectPreview(t *testing.T) {
	now := time.Now()
	slowArrival := now.AddDate(0, 0, 5)
	fastArrival := now.AddDate(0, 0, 1)
	selector := shipment.NewRateSelector(nil)

	preview, err := selector.SelectPreview([]carrier.FulfillmentPreview{
		{SpeedCategory: carrier.SpeedStandard, LatestArrival: &slowArrival},
		{SpeedCategory: carrier.SpeedPriority, LatestArrival: &fastArrival},
	})

	require.NoError(t, err)
	assert.Equal(t, carrier.SpeedPriority, preview.SpeedCategory)
}

func TestRateSelector_SelectPreviewEmpty(t *testing.T) {
	selector := shipment.NewRateSelector(nil)

	_, err := selector.SelectPreview(nil)
	assert.ErrorIs(t, err, carrier.ErrNoRatesAvailable)
}
