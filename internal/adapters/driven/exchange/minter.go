package exchange

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
)

// shopPlaceholder marks per-shop endpoint URLs (Shopify embeds the shop
// domain in its authorization and token URLs).
const shopPlaceholder = "{shop}"

// Ensure Minter implements the interface.
var _ driven.AuthURLMinter = (*Minter)(nil)

// Minter builds marketplace authorization URLs. The correlation token is
// carried as the OAuth `state` parameter, which the callback endpoint
// validates on the way back.
type Minter struct{}

// NewMinter creates a Minter.
func NewMinter() *Minter {
	return &Minter{}
}

// Mint returns the URL the popup window should open.
func (mi *Minter) Mint(_ context.Context, m *domain.Marketplace, app driven.OAuthApp, callbackURL string, state domain.CorrelationToken, params domain.HandshakeParams) (string, error) {
	if m.OAuth == nil {
		return "", fmt.Errorf("marketplace %s: %w", m.ID, domain.ErrOAuthNotConfigured)
	}

	authURL, err := resolveEndpoint(m.OAuth.AuthURL, params)
	if err != nil {
		return "", fmt.Errorf("marketplace %s: %w", m.ID, err)
	}

	cfg := oauth2.Config{
		ClientID:     app.ClientID,
		ClientSecret: app.ClientSecret,
		Scopes:       app.Scopes,
		RedirectURL:  callbackURL,
		Endpoint:     oauth2.Endpoint{AuthURL: authURL},
	}
	return cfg.AuthCodeURL(string(state)), nil
}

// resolveEndpoint substitutes the shop domain into per-shop endpoint
// templates. Marketplaces with fixed endpoints pass through untouched.
func resolveEndpoint(template string, params domain.HandshakeParams) (string, error) {
	if !strings.Contains(template, shopPlaceholder) {
		return template, nil
	}
	shop := domain.NormalizeDomain(params.ShopDomain)
	if shop == "" {
		return "", fmt.Errorf("shop domain required: %w", domain.ErrInvalidInput)
	}
	return strings.ReplaceAll(template, shopPlaceholder, shop), nil
}
