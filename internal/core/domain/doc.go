// Package domain defines the core business entities for Sellbridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Marketplace: A linkable marketplace (Shopify, Etsy, ...)
//   - StoreConnection: A persisted link between a user and a store
//   - Outcome: The terminal result of one OAuth handshake attempt
//   - HandoffRecord: The popup-to-opener channel payload
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
