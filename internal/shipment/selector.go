package shipment

import (
	"time"

	"github.com/orderbridge/shipping/pkg/carrier"
)

// RateSelector picks the fastest available rate from a quote set. When an
// allow-list of speed categories is configured, rates outside it are
// ignored; if the filter leaves nothing, the full set is considered so a
// misconfigured filter never blocks a purchase.
type RateSelector struct {
	Allowed []carrier.SpeedCategory
}

func NewRateSelector(allowed []carrier.SpeedCategory) *RateSelector {
	return &RateSelector{Allowed: allowed}
}

// Select returns the rate with the earliest worst-case arrival. Ties keep
// the first rate seen. An empty quote set yields ErrNoRatesAvailable.
func (s *RateSelector) Select(rates []carrier.Rate) (carrier.Rate, error) {
	if len(rates) == 0 {
		return carrier.Rate{}, carrier.ErrNoRatesAvailable
	}

	candidates := s.filter(rates)
	if len(candidates) == 0 {
		candidates = rates
	}

	best := candidates[0]
	for _, r := range candidates[1:] {
		if earlier(worstCaseArrival(r.Promise), worstCaseArrival(best.Promise)) {
			best = r
		}
	}
	return best, nil
}

// SelectPreview returns the fulfillment preview with the earliest
// worst-case arrival, using the same rules as Select.
func (s *RateSelector) SelectPreview(previews []carrier.FulfillmentPreview) (carrier.FulfillmentPreview, error) {
	if len(previews) == 0 {
		return carrier.FulfillmentPreview{}, carrier.ErrNoRatesAvailable
	}

	candidates := previews
	if len(s.Allowed) > 0 {
		filtered := make([]carrier.FulfillmentPreview, 0, len(previews))
		for _, p := range previews {
			if s.allowed(p.SpeedCategory) {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			candidates = filtered
		}
	}

	best := candidates[0]
	for _, p := range candidates[1:] {
		if earlier(p.LatestArrival, best.LatestArrival) {
			best = p
		}
	}
	return best, nil
}

func (s *RateSelector) filter(rates []carrier.Rate) []carrier.Rate {
	if len(s.Allowed) == 0 {
		return rates
	}
	filtered := make([]carrier.Rate, 0, len(rates))
	for _, r := range rates {
		if s.allowed(r.Category) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func (s *RateSelector) allowed(category carrier.SpeedCategory) bool {
	for _, a := range s.Allowed {
		if a == category {
			return true
		}
	}
	return false
}

// worstCaseArrival returns the promise's latest arrival, falling back to
// the earliest when the carrier quoted no upper bound. Nil means the
// promise carries no arrival estimate at all; such rates sort last.
func worstCaseArrival(p carrier.DeliveryPromise) *time.Time {
	if p.LatestArrival != nil {
		return p.LatestArrival
	}
	return p.EarliestArrival
}

func earlier(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
