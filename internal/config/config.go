package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Carrier selection
	Carrier string `envconfig:"CARRIER" default:"amazon-shipping"`

	// Amazon selling partner credentials (shared by both carrier variants)
	AmazonTokenURL     string `envconfig:"AMAZON_TOKEN_URL" default:"https://api.amazon.com/auth/o2/token"`
	AmazonClientID     string `envconfig:"AMAZON_CLIENT_ID"`
	AmazonClientSecret string `envconfig:"AMAZON_CLIENT_SECRET"`
	AmazonRefreshToken string `envconfig:"AMAZON_REFRESH_TOKEN"`

	// Amazon Shipping
	ShippingBaseURL    string `envconfig:"SHIPPING_BASE_URL" default:"https://sellingpartnerapi-na.amazon.com/shipping/v2"`
	ShippingBusinessID string `envconfig:"SHIPPING_BUSINESS_ID"`
	ShippingUseMock    bool   `envconfig:"SHIPPING_USE_MOCK" default:"false"`

	// Fulfillment network
	FulfillmentBaseURL string `envconfig:"FULFILLMENT_BASE_URL" default:"https://sellingpartnerapi-na.amazon.com"`
	FulfillmentUseMock bool   `envconfig:"FULFILLMENT_USE_MOCK" default:"false"`
	Region             string `envconfig:"AMAZON_REGION" default:"us-east-1"`
	MarketplaceID      string `envconfig:"MARKETPLACE_ID"`
	AccountID          string `envconfig:"ACCOUNT_ID"`

	// Workflow
	MaxRetries      int           `envconfig:"MAX_RETRIES" default:"5"`
	ShipTimeout     time.Duration `envconfig:"SHIP_TIMEOUT" default:"2m"`
	SpeedCategories []string      `envconfig:"SPEED_CATEGORIES" default:"Standard,Expedited,Priority,ScheduledDelivery"`

	// Operator alerts
	AdminEmail      string `envconfig:"ADMIN_EMAIL" default:"ops@orderbridge.io"`
	AlertWebhookURL string `envconfig:"ALERT_WEBHOOK_URL"`

	// Order source
	OrderDataDir string `envconfig:"ORDER_DATA_DIR" default:"./data"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"orderbridge-shipping"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("carrier", c.Carrier),
		attribute.Bool("shipping.use_mock", c.ShippingUseMock),
	}
}
