package services

import (
	"fmt"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// displayNameKey collects the user-chosen store name; every marketplace asks for it.
var displayNameKey = domain.ConfigKey{
	Key:         "display_name",
	Label:       "Store Name",
	Description: "How this store appears in Sellbridge",
	Required:    false,
}

// catalogue is the static list of linkable marketplaces, in display order.
var catalogue = []domain.Marketplace{
	{
		ID:             "shopify",
		Name:           "Shopify",
		Description:    "Link a Shopify store",
		Platform:       domain.PlatformShopify,
		AuthCapability: domain.AuthCapOAuth,
		ConfigKeys: []domain.ConfigKey{
			displayNameKey,
			{
				Key:         "shop_domain",
				Label:       "Shop Domain",
				Description: "Your myshopify.com domain (e.g., acme.myshopify.com)",
				Required:    true,
			},
		},
		OAuth: &domain.OAuthEndpoints{
			// Shopify authorization URLs are per-shop; the minter substitutes
			// the shop domain from the handshake parameters.
			AuthURL:  "https://{shop}/admin/oauth/authorize",
			TokenURL: "https://{shop}/admin/oauth/access_token",
			Scopes:   []string{"read_products", "write_products", "read_orders"},
		},
	},
	{
		ID:             "etsy",
		Name:           "Etsy",
		Description:    "Link an Etsy shop",
		Platform:       domain.PlatformEtsy,
		AuthCapability: domain.AuthCapOAuth,
		ConfigKeys:     []domain.ConfigKey{displayNameKey},
		OAuth: &domain.OAuthEndpoints{
			AuthURL:  "https://www.etsy.com/oauth/connect",
			TokenURL: "https://api.etsy.com/v3/public/oauth/token",
			Scopes:   []string{"listings_r", "listings_w", "transactions_r"},
		},
	},
	{
		ID:             "ebay",
		Name:           "eBay",
		Description:    "Link an eBay seller account",
		Platform:       domain.PlatformEBay,
		AuthCapability: domain.AuthCapOAuth,
		ConfigKeys:     []domain.ConfigKey{displayNameKey},
		OAuth: &domain.OAuthEndpoints{
			AuthURL:  "https://auth.ebay.com/oauth2/authorize",
			TokenURL: "https://api.ebay.com/identity/v1/oauth2/token",
			Scopes:   []string{"https://api.ebay.com/oauth/api_scope/sell.inventory"},
		},
	},
	{
		ID:             "amazon",
		Name:           "Amazon",
		Description:    "Link an Amazon Seller Central account",
		Platform:       domain.PlatformAmazon,
		AuthCapability: domain.AuthCapOAuth,
		ConfigKeys:     []domain.ConfigKey{displayNameKey},
		OAuth: &domain.OAuthEndpoints{
			AuthURL:  "https://sellercentral.amazon.com/apps/authorize/consent",
			TokenURL: "https://api.amazon.com/auth/o2/token",
		},
	},
	{
		ID:             "square",
		Name:           "Square",
		Description:    "Link a Square Online store",
		Platform:       domain.PlatformSquare,
		AuthCapability: domain.AuthCapOAuth,
		ConfigKeys:     []domain.ConfigKey{displayNameKey},
		OAuth: &domain.OAuthEndpoints{
			AuthURL:  "https://connect.squareup.com/oauth2/authorize",
			TokenURL: "https://connect.squareup.com/oauth2/token",
			Scopes:   []string{"ITEMS_READ", "ITEMS_WRITE", "ORDERS_READ"},
		},
	},
	{
		ID:             "bigcommerce",
		Name:           "BigCommerce",
		Description:    "Link a BigCommerce store with an API token",
		Platform:       domain.PlatformBigCommerce,
		AuthCapability: domain.AuthCapAPIKey,
		ConfigKeys: []domain.ConfigKey{
			displayNameKey,
			{
				Key:         "store_hash",
				Label:       "Store Hash",
				Description: "The store hash from your BigCommerce API path",
				Required:    true,
			},
			{
				Key:         "access_token",
				Label:       "API Token",
				Description: "A store-level API account access token",
				Required:    true,
				Secret:      true,
			},
		},
	},
	{
		ID:             "woocommerce",
		Name:           "WooCommerce",
		Description:    "Link a self-hosted WooCommerce store with REST keys",
		Platform:       domain.PlatformWooCommerce,
		AuthCapability: domain.AuthCapAPIKey,
		ConfigKeys: []domain.ConfigKey{
			displayNameKey,
			{
				Key:         "site_url",
				Label:       "Site URL",
				Description: "Your WooCommerce site URL",
				Required:    true,
			},
			{
				Key:         "consumer_key",
				Label:       "Consumer Key",
				Description: "REST API consumer key (starts with ck_)",
				Required:    true,
				Secret:      true,
			},
			{
				Key:         "consumer_secret",
				Label:       "Consumer Secret",
				Description: "REST API consumer secret (starts with cs_)",
				Required:    true,
				Secret:      true,
			},
		},
	},
}

// catalogueByID is the ID index over the catalogue.
var catalogueByID map[string]*domain.Marketplace

//nolint:gochecknoinits // Package-level static mapping initialization
func init() {
	catalogueByID = make(map[string]*domain.Marketplace, len(catalogue))
	for i := range catalogue {
		catalogueByID[catalogue[i].ID] = &catalogue[i]
	}
}

// MarketplaceRegistry exposes the marketplace catalogue and resolves the
// user's OAuth app credentials for each marketplace from configuration.
type MarketplaceRegistry struct {
	config driven.ConfigStore
}

// Ensure MarketplaceRegistry implements the interface.
var _ driving.MarketplaceRegistry = (*MarketplaceRegistry)(nil)

// NewMarketplaceRegistry creates a registry backed by the given config store.
func NewMarketplaceRegistry(config driven.ConfigStore) *MarketplaceRegistry {
	return &MarketplaceRegistry{config: config}
}

// List returns all supported marketplaces in display order.
func (r *MarketplaceRegistry) List() []domain.Marketplace {
	result := make([]domain.Marketplace, len(catalogue))
	copy(result, catalogue)
	return result
}

// Get returns the marketplace with the given ID.
func (r *MarketplaceRegistry) Get(id string) (*domain.Marketplace, error) {
	if m, ok := catalogueByID[id]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("unknown marketplace %q: %w", id, domain.ErrNotFound)
}

// OAuthApp looks up the user-configured OAuth client credentials for a
// marketplace. Keys live under `marketplaces.<id>` in the config file.
func (r *MarketplaceRegistry) OAuthApp(id string) (driven.OAuthApp, error) {
	m, err := r.Get(id)
	if err != nil {
		return driven.OAuthApp{}, err
	}
	if !m.RequiresOAuth() {
		return driven.OAuthApp{}, fmt.Errorf("marketplace %s does not use OAuth: %w", id, domain.ErrUnsupportedType)
	}
	if r.config == nil {
		return driven.OAuthApp{}, domain.ErrOAuthNotConfigured
	}

	app := driven.OAuthApp{
		ClientID:     r.config.GetString(fmt.Sprintf("marketplaces.%s.client_id", id)),
		ClientSecret: r.config.GetString(fmt.Sprintf("marketplaces.%s.client_secret", id)),
		Scopes:       r.config.GetStringSlice(fmt.Sprintf("marketplaces.%s.scopes", id)),
	}
	if app.ClientID == "" || app.ClientSecret == "" {
		return driven.OAuthApp{}, fmt.Errorf("marketplace %s: %w", id, domain.ErrOAuthNotConfigured)
	}
	if len(app.Scopes) == 0 && m.OAuth != nil {
		app.Scopes = m.OAuth.Scopes
	}
	return app, nil
}
