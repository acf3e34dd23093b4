package driving

import (
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
)

// MarketplaceRegistry provides information about linkable marketplaces.
type MarketplaceRegistry interface {
	// List returns all supported marketplaces in display order.
	List() []domain.Marketplace

	// Get returns the marketplace with the given ID.
	Get(id string) (*domain.Marketplace, error)

	// OAuthApp returns the configured OAuth application credentials for a
	// marketplace. Returns domain.ErrOAuthNotConfigured when the user has
	// not added client credentials for it yet.
	OAuthApp(id string) (driven.OAuthApp, error)
}
