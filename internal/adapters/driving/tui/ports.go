// Package tui provides an interactive terminal user interface for sellbridge.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// Ports aggregates everything the TUI needs from the core.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Registry provides the marketplace catalogue and OAuth app lookups.
	Registry driving.MarketplaceRegistry

	// Stores manages persisted store connections.
	Stores driving.StoreService

	// Broker runs the cross-window authorisation handshake.
	Broker driving.HandshakeBroker

	// Exchanger swaps authorization codes for access tokens.
	Exchanger driven.TokenExchanger

	// OwnerUserID identifies the local user owning all connections.
	OwnerUserID string
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	registry driving.MarketplaceRegistry,
	stores driving.StoreService,
	broker driving.HandshakeBroker,
	exchanger driven.TokenExchanger,
	ownerUserID string,
) *Ports {
	return &Ports{
		Registry:    registry,
		Stores:      stores,
		Broker:      broker,
		Exchanger:   exchanger,
		OwnerUserID: ownerUserID,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Registry == nil {
		return ErrMissingRegistry
	}
	if p.Stores == nil {
		return ErrMissingStoreService
	}
	if p.Broker == nil {
		return ErrMissingBroker
	}
	if p.Exchanger == nil {
		return ErrMissingExchanger
	}
	if p.OwnerUserID == "" {
		return ErrMissingOwner
	}
	return nil
}
