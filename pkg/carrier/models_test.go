package carrier_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/pkg/carrier"
)

func TestUserFromBuyer_MapsEveryField(t *testing.T) {
	buyer := carrier.Buyer{
		Name:         "Jordan Smith",
		AddressLine1: "123 Main St",
		AddressLine2: "Apt 4B",
		PostalCode:   "98109",
		City:         "Seattle",
		Region:       "WA",
		CountryCode:  "US",
		Email:        "jordan@example.com",
		Phone:        "+12065551234",
	}

	user := carrier.UserFromBuyer(buyer)

	assert.Equal(t, buyer.Name, user.Name)
	assert.Equal(t, buyer.AddressLine1, user.AddressLine1)
	require.NotNil(t, user.AddressLine2)
	assert.Equal(t, buyer.AddressLine2, *user.AddressLine2)
	assert.Equal(t, buyer.PostalCode, user.PostalCode)
	assert.Equal(t, buyer.City, user.City)
	assert.Equal(t, buyer.Region, user.StateOrRegion)
	assert.Equal(t, buyer.CountryCode, user.CountryCode)
	assert.Equal(t, buyer.Email, user.Email)
	assert.Equal(t, buyer.Phone, user.PhoneNumber)
}

func TestUserFromBuyer_OmitsEmptySecondAddressLine(t *testing.T) {
	buyer := carrier.Buyer{
		Name:         "Jordan Smith",
		AddressLine1: "123 Main St",
		PostalCode:   "98109",
		City:         "Seattle",
		Region:       "WA",
		CountryCode:  "US",
	}

	user := carrier.UserFromBuyer(buyer)
	assert.Nil(t, user.AddressLine2)
}

func TestOrder_SetShipTo(t *testing.T) {
	order := carrier.Order{ID: "ord-1", ShipDate: time.Now()}
	require.Nil(t, order.ShipTo)

	order.SetShipTo(carrier.User{Name: "Jordan Smith", City: "Seattle"})

	require.NotNil(t, order.ShipTo)
	assert.Equal(t, "Jordan Smith", order.ShipTo.Name)
}

func TestAvailableSpeedCategories(t *testing.T) {
	categories := carrier.AvailableSpeedCategories()

	assert.Equal(t, []carrier.SpeedCategory{
		carrier.SpeedStandard,
		carrier.SpeedExpedited,
		carrier.SpeedPriority,
		carrier.SpeedScheduledDelivery,
	}, categories)
}

func TestDefaultDocumentSpecification(t *testing.T) {
	spec := carrier.DefaultDocumentSpecification()

	assert.Equal(t, "PDF", spec.Format)
	assert.Equal(t, float64(4), spec.Size.Width)
	assert.Equal(t, float64(6), spec.Size.Length)
	assert.Equal(t, "INCH", spec.Size.Unit)
	assert.Equal(t, 300, spec.DPI)
	assert.Equal(t, "DEFAULT", spec.PageLayout)
	assert.Equal(t, []string{"LABEL"}, spec.RequestedDocumentTypes)
}
