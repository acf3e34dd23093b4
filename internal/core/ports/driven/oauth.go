package driven

import (
	"context"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// OAuthApp holds the client credentials for one marketplace's OAuth
// application, configured by the user ahead of linking.
type OAuthApp struct {
	// ClientID is the OAuth client ID from the marketplace's developer console.
	ClientID string
	// ClientSecret is the OAuth client secret.
	ClientSecret string
	// Scopes overrides the marketplace's default scopes when non-empty.
	Scopes []string
}

// AuthURLMinter builds the third-party authorization URL for one
// handshake attempt. The correlation token is embedded as the anti-forgery
// `state` value and callbackURL is where the popup eventually lands.
type AuthURLMinter interface {
	Mint(ctx context.Context, m *domain.Marketplace, app OAuthApp, callbackURL string, state domain.CorrelationToken, params domain.HandshakeParams) (string, error)
}

// TokenExchanger swaps an authorization code for a durable access
// credential via the marketplace's token endpoint. params carries the
// shop domain for marketplaces whose token endpoint is per-shop.
type TokenExchanger interface {
	Exchange(ctx context.Context, m *domain.Marketplace, app OAuthApp, code, callbackURL string, params domain.HandshakeParams) (*domain.OAuthCredentials, error)
}
