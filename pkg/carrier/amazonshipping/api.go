package amazonshipping

import (
	"context"
	"fmt"
)

// APIClient defines the interface for Amazon Shipping v2 API operations.
// This abstraction allows for mock implementations during testing and real
// implementations in production.
type APIClient interface {
	// GetRates quotes rates for a shipment. POST /shipments/rates
	GetRates(ctx context.Context, req *GetRatesRequest) (*GetRatesResponse, error)

	// GetAdditionalInputs discovers required additional inputs for a quoted
	// shipment. GET /shipments/additionalInputs/schema
	GetAdditionalInputs(ctx context.Context, requestToken string) (*AdditionalInputsResponse, error)

	// PurchaseShipment purchases a quoted rate. POST /shipments
	PurchaseShipment(ctx context.Context, req *PurchaseShipmentRequest) (*PurchaseShipmentResponse, error)
}

// ============================================================================
// API Request/Response Types (match Amazon Shipping API v2 structure)
// ============================================================================

// Address represents a ship-from or ship-to party.
type Address struct {
	Name          string  `json:"name"`
	AddressLine1  string  `json:"addressLine1"`
	AddressLine2  *string `json:"addressLine2,omitempty"`
	PostalCode    string  `json:"postalCode"`
	City          string  `json:"city"`
	StateOrRegion string  `json:"stateOrRegion"`
	CountryCode   string  `json:"countryCode"`
	Email         string  `json:"email,omitempty"`
	PhoneNumber   string  `json:"phoneNumber,omitempty"`
}

// Weight is a measured weight.
type Weight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Dimensions describes package size.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// Currency is a monetary amount.
type Currency struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// Item is a package line item. Optional attributes are omitted from the
// request when absent, never sent as null.
type Item struct {
	Quantity                         int       `json:"quantity"`
	Weight                           Weight    `json:"weight"`
	ItemValue                        *Currency `json:"itemValue,omitempty"`
	Description                      *string   `json:"description,omitempty"`
	ItemIdentifier                   *string   `json:"itemIdentifier,omitempty"`
	IsHazmat                         *bool     `json:"isHazmat,omitempty"`
	ProductType                      *string   `json:"productType,omitempty"`
	SerialNumbers                    []string  `json:"serialNumbers,omitempty"`
	DirectFulfillmentItemIdentifiers []string  `json:"directFulfillmentItemIdentifiers,omitempty"`
}

// Package represents a single parcel.
type Package struct {
	Dimensions               Dimensions `json:"dimensions"`
	Weight                   Weight     `json:"weight"`
	Items                    []Item     `json:"items"`
	InsuredValue             *Currency  `json:"insuredValue,omitempty"`
	PackageClientReferenceID string     `json:"packageClientReferenceId"`
}

// ChannelDetails carries the sales channel metadata.
type ChannelDetails struct {
	ChannelType string `json:"channelType"`
}

// GetRatesRequest is the rate quote request body.
type GetRatesRequest struct {
	ShipTo         Address        `json:"shipTo"`
	ShipFrom       Address        `json:"shipFrom"`
	ShipDate       string         `json:"shipDate"` // RFC 3339
	Packages       []Package      `json:"packages"`
	ChannelDetails ChannelDetails `json:"channelDetails"`
}

// Window is a promised delivery window.
type Window struct {
	Start string `json:"start"` // RFC 3339
	End   string `json:"end,omitempty"`
}

// Promise holds the carrier's delivery promise for a rate.
type Promise struct {
	DeliveryWindow *Window `json:"deliveryWindow,omitempty"`
}

// DocumentSize is a label size.
type DocumentSize struct {
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Unit   string  `json:"unit"`
}

// DocumentSpecification describes a label format supported or requested.
type DocumentSpecification struct {
	Format                 string       `json:"format"`
	Size                   DocumentSize `json:"size"`
	Dpi                    int          `json:"dpi,omitempty"`
	PageLayout             string       `json:"pageLayout,omitempty"`
	NeedFileJoining        bool         `json:"needFileJoining"`
	RequestedDocumentTypes []string     `json:"requestedDocumentTypes,omitempty"`
}

// Rate is a single quoted shipping option.
type Rate struct {
	RateID                          string                  `json:"rateId"`
	CarrierID                       string                  `json:"carrierId"`
	CarrierName                     string                  `json:"carrierName"`
	ServiceID                       string                  `json:"serviceId"`
	ServiceName                     string                  `json:"serviceName"`
	TotalCharge                     Currency                `json:"totalCharge"`
	Promise                         Promise                 `json:"promise"`
	SupportedDocumentSpecifications []DocumentSpecification `json:"supportedDocumentSpecifications,omitempty"`
	RequiresAdditionalInputs        bool                    `json:"requiresAdditionalInputs"`
}

// GetRatesResponse is the rate quote response. The request token binds this
// quote session to subsequent additional-input and purchase calls.
type GetRatesResponse struct {
	RequestToken string `json:"requestToken"`
	Rates        []Rate `json:"rates"`
}

// InputSchema describes one required additional input field.
type InputSchema struct {
	DataType    string `json:"dataType,omitempty"`
	Description string `json:"description,omitempty"`
}

// AdditionalInputsResponse is the discovered additional-input schema,
// keyed by field name.
type AdditionalInputsResponse struct {
	Properties map[string]InputSchema `json:"properties,omitempty"`
}

// PurchaseShipmentRequest purchases a previously quoted rate.
type PurchaseShipmentRequest struct {
	RequestToken                   string                `json:"requestToken"`
	RateID                         string                `json:"rateId"`
	RequestedDocumentSpecification DocumentSpecification `json:"requestedDocumentSpecification"`
}

// PackageDocumentDetail holds the purchased documents for one package.
type PackageDocumentDetail struct {
	PackageClientReferenceID string     `json:"packageClientReferenceId"`
	PackageDocuments         []Document `json:"packageDocuments,omitempty"`
	TrackingID               string     `json:"trackingId,omitempty"`
}

// Document is a purchased shipping document.
type Document struct {
	Type     string `json:"type"`
	Format   string `json:"format"`
	Contents string `json:"contents"` // base64
}

// PurchaseShipmentResponse is the purchase result. TrackingID may be absent.
type PurchaseShipmentResponse struct {
	ShipmentID             string                  `json:"shipmentId"`
	TrackingID             string                  `json:"trackingId,omitempty"`
	PackageDocumentDetails []PackageDocumentDetail `json:"packageDocumentDetails,omitempty"`
}

// APIError represents an error from the Amazon Shipping API.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
