package domain

// Platform identifies the external marketplace platform.
type Platform string

const (
	// PlatformShopify is the Shopify marketplace.
	PlatformShopify Platform = "shopify"
	// PlatformEtsy is the Etsy marketplace.
	PlatformEtsy Platform = "etsy"
	// PlatformEBay is the eBay marketplace.
	PlatformEBay Platform = "ebay"
	// PlatformAmazon is the Amazon Seller Central marketplace.
	PlatformAmazon Platform = "amazon"
	// PlatformSquare is the Square online store.
	PlatformSquare Platform = "square"
	// PlatformBigCommerce is the BigCommerce marketplace.
	PlatformBigCommerce Platform = "bigcommerce"
	// PlatformWooCommerce is a self-hosted WooCommerce store.
	PlatformWooCommerce Platform = "woocommerce"
)

// AuthMethod defines how a marketplace account is linked.
type AuthMethod string

const (
	// AuthMethodOAuth uses a browser-based OAuth 2.0 handshake.
	AuthMethodOAuth AuthMethod = "oauth"
	// AuthMethodAPIKey uses raw API credentials entered directly.
	AuthMethodAPIKey AuthMethod = "apikey"
)

// Marketplace describes a linkable marketplace.
type Marketplace struct {
	// ID is the unique identifier (e.g., "shopify", "etsy").
	ID string
	// Name is the human-readable display name.
	Name string
	// Description provides a brief explanation of the marketplace.
	Description string
	// Platform identifies the marketplace platform.
	Platform Platform
	// AuthCapability specifies what linking methods this marketplace supports.
	AuthCapability AuthCapability
	// ConfigKeys lists the parameters the user supplies before linking
	// (display name, shop domain, API credentials for key-based marketplaces).
	ConfigKeys []ConfigKey
	// OAuth holds the marketplace's OAuth endpoints and scopes.
	// Nil for API-key-only marketplaces.
	OAuth *OAuthEndpoints
}

// OAuthEndpoints holds the OAuth 2.0 endpoints for a marketplace.
type OAuthEndpoints struct {
	// AuthURL is the authorization endpoint.
	AuthURL string
	// TokenURL is the token exchange endpoint.
	TokenURL string
	// Scopes are the OAuth scopes to request.
	Scopes []string
}

// RequiresOAuth returns true if this marketplace links via the browser handshake.
func (m *Marketplace) RequiresOAuth() bool {
	return m.AuthCapability.SupportsOAuth()
}

// ConfigKey describes a parameter collected from the user for a marketplace.
type ConfigKey struct {
	// Key is the parameter key name.
	Key string
	// Label is the human-readable label for UI display.
	Label string
	// Description explains what this field is for.
	Description string
	// Default is the default value for this field (shown in placeholder).
	Default string
	// Required indicates whether this field must be provided.
	Required bool
	// Secret indicates whether this field should be masked in UI (e.g., API keys).
	Secret bool
}
