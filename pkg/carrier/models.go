package carrier

import (
	"time"
)

// SpeedCategory represents a shipping speed class offered by the carrier.
type SpeedCategory string

const (
	SpeedStandard          SpeedCategory = "Standard"
	SpeedExpedited         SpeedCategory = "Expedited"
	SpeedPriority          SpeedCategory = "Priority"
	SpeedScheduledDelivery SpeedCategory = "ScheduledDelivery"
)

// AvailableSpeedCategories returns the speed classes eligible for rate selection.
func AvailableSpeedCategories() []SpeedCategory {
	return []SpeedCategory{SpeedStandard, SpeedExpedited, SpeedPriority, SpeedScheduledDelivery}
}

// ChannelType identifies the sales channel a shipment originates from.
type ChannelType string

const (
	ChannelExternal ChannelType = "EXTERNAL"
)

// ChannelDetails carries channel metadata sent with every rate request.
type ChannelDetails struct {
	ChannelType ChannelType `json:"channelType"`
}

// WeightUnit represents weight measurement unit.
type WeightUnit string

const (
	WeightGram     WeightUnit = "GRAM"
	WeightKilogram WeightUnit = "KILOGRAM"
	WeightOunce    WeightUnit = "OUNCE"
	WeightPound    WeightUnit = "POUND"
)

// DimensionUnit represents dimension measurement unit.
type DimensionUnit string

const (
	DimensionInch       DimensionUnit = "INCH"
	DimensionCentimeter DimensionUnit = "CENTIMETER"
)

// Money represents a monetary amount.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Weight is a measured package or item weight.
type Weight struct {
	Value float64    `json:"value"`
	Unit  WeightUnit `json:"unit"`
}

// Dimensions describes the physical size of a package.
type Dimensions struct {
	Length float64       `json:"length"`
	Width  float64       `json:"width"`
	Height float64       `json:"height"`
	Unit   DimensionUnit `json:"unit"`
}

// Item is a single line item inside a package. All optional attributes are
// pointers: an absent field is omitted from carrier requests, never sent as
// null or empty.
type Item struct {
	Quantity               int      `json:"quantity"`
	Weight                 Weight   `json:"weight"`
	Value                  *Money   `json:"value,omitempty"`
	Description            *string  `json:"description,omitempty"`
	Identifier             *string  `json:"identifier,omitempty"`
	Hazmat                 *bool    `json:"hazmat,omitempty"`
	ProductType            *string  `json:"productType,omitempty"`
	SerialNumbers          []string `json:"serialNumbers,omitempty"`
	FulfillmentIdentifiers []string `json:"fulfillmentIdentifiers,omitempty"`
}

// Package is a physical parcel owned by exactly one order.
type Package struct {
	Dimensions        Dimensions `json:"dimensions"`
	Weight            Weight     `json:"weight"`
	Items             []Item     `json:"items"`
	InsuredValue      *Money     `json:"insuredValue,omitempty"`
	ClientReferenceID string     `json:"clientReferenceId"`
}

// Buyer is the external party a shipment is addressed to, as provided by the
// order source.
type Buyer struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	PostalCode   string `json:"postalCode"`
	City         string `json:"city"`
	Region       string `json:"region"`
	CountryCode  string `json:"countryCode"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// User is the normalized address-bearing shape the workflow sends to the
// carrier for both ship-from and ship-to parties.
type User struct {
	Name          string  `json:"name"`
	AddressLine1  string  `json:"addressLine1"`
	AddressLine2  *string `json:"addressLine2,omitempty"`
	PostalCode    string  `json:"postalCode"`
	City          string  `json:"city"`
	StateOrRegion string  `json:"stateOrRegion"`
	CountryCode   string  `json:"countryCode"`
	Email         string  `json:"email"`
	PhoneNumber   string  `json:"phoneNumber"`
}

// UserFromBuyer maps a Buyer onto the carrier-facing User shape. The mapping
// is total: every Buyer field lands in exactly one User field.
func UserFromBuyer(b Buyer) User {
	u := User{
		Name:          b.Name,
		AddressLine1:  b.AddressLine1,
		PostalCode:    b.PostalCode,
		City:          b.City,
		StateOrRegion: b.Region,
		CountryCode:   b.CountryCode,
		Email:         b.Email,
		PhoneNumber:   b.Phone,
	}
	if b.AddressLine2 != "" {
		line2 := b.AddressLine2
		u.AddressLine2 = &line2
	}
	return u
}

// Order is one shipment attempt loaded from the order source. It is immutable
// after construction except for the ship-to address, which is set once during
// the workflow before any rate request is issued.
type Order struct {
	ID       string         `json:"id"`
	ShipFrom User           `json:"shipFrom"`
	ShipTo   *User          `json:"shipTo,omitempty"`
	ShipDate time.Time      `json:"shipDate"`
	Packages []Package      `json:"packages"`
	Channel  ChannelDetails `json:"channel"`
}

// SetShipTo assigns the destination address for this shipment attempt.
func (o *Order) SetShipTo(u User) {
	o.ShipTo = &u
}

// RequestToken is an opaque session identifier binding a quote to a later
// purchase. It must be reused unchanged between GetRates, GetAdditionalInputs
// and PurchaseShipment within one workflow run.
type RequestToken string

// DeliveryPromise is the carrier's promised delivery window for a rate.
type DeliveryPromise struct {
	EarliestArrival *time.Time `json:"earliestArrival,omitempty"`
	LatestArrival   *time.Time `json:"latestArrival,omitempty"`
}

// Rate is a priced shipping option quoted by the carrier. Rates are immutable
// and scoped to the RequestToken they were quoted under.
type Rate struct {
	ID                       string          `json:"id"`
	CarrierID                string          `json:"carrierId"`
	CarrierName              string          `json:"carrierName"`
	ServiceID                string          `json:"serviceId"`
	ServiceName              string          `json:"serviceName"`
	Category                 SpeedCategory   `json:"category"`
	TotalCharge              Money           `json:"totalCharge"`
	Promise                  DeliveryPromise `json:"promise"`
	SupportedDocumentFormats []string        `json:"supportedDocumentFormats,omitempty"`
	RequiresAdditionalInputs bool            `json:"requiresAdditionalInputs"`
}

// InputSchema describes one carrier-required field discovered after quoting.
type InputSchema struct {
	DataType    string `json:"dataType,omitempty"`
	Description string `json:"description,omitempty"`
}

// DocumentSize is the physical label size.
type DocumentSize struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Unit   string  `json:"unit"`
}

// DocumentSpecification is the desired label format requested at purchase.
// It is a fixed policy object, not derived from order data.
type DocumentSpecification struct {
	Format                 string       `json:"format"`
	Size                   DocumentSize `json:"size"`
	DPI                    int          `json:"dpi"`
	PageLayout             string       `json:"pageLayout"`
	NeedFileJoining        bool         `json:"needFileJoining"`
	RequestedDocumentTypes []string     `json:"requestedDocumentTypes"`
}

// DefaultDocumentSpecification returns the label policy used for every
// purchase: a 4x6 inch PDF shipping label.
func DefaultDocumentSpecification() DocumentSpecification {
	return DocumentSpecification{
		Format:                 "PDF",
		Size:                   DocumentSize{Width: 4, Length: 6, Unit: "INCH"},
		DPI:                    300,
		PageLayout:             "DEFAULT",
		NeedFileJoining:        false,
		RequestedDocumentTypes: []string{"LABEL"},
	}
}

// Document is a purchased shipping document (e.g. a label).
type Document struct {
	Type     string `json:"type"`
	Format   string `json:"format"`
	Contents string `json:"contents"` // base64
}

// PurchasedShipment is the result of a successful purchase. TrackingID may be
// empty when the carrier omits it; callers must treat that as a failure, not
// an empty success.
type PurchasedShipment struct {
	ShipmentID string     `json:"shipmentId"`
	TrackingID string     `json:"trackingId"`
	Documents  []Document `json:"documents,omitempty"`
}

// FulfillmentPreview is one delivery option returned by the fulfillment
// network, structurally parallel to a Rate in the buy-shipping flow.
type FulfillmentPreview struct {
	SpeedCategory   SpeedCategory `json:"speedCategory"`
	EarliestArrival *time.Time    `json:"earliestArrival,omitempty"`
	LatestArrival   *time.Time    `json:"latestArrival,omitempty"`
	EstimatedFees   []Money       `json:"estimatedFees,omitempty"`
}
