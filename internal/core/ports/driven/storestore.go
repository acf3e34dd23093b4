package driven

import (
	"context"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// StoreConnectionStore persists store connections.
type StoreConnectionStore interface {
	// Upsert stores a connection, updating the existing row when one with
	// the same natural key {owner, platform, domain} already exists. Retried
	// handshakes therefore never create duplicate rows.
	Upsert(ctx context.Context, conn domain.StoreConnection) error

	// Get retrieves a connection by ID.
	Get(ctx context.Context, id string) (*domain.StoreConnection, error)

	// GetByNaturalKey retrieves a connection by its natural key.
	GetByNaturalKey(ctx context.Context, ownerUserID string, platform domain.Platform, storeDomain string) (*domain.StoreConnection, error)

	// Delete removes a connection.
	Delete(ctx context.Context, id string) error

	// List returns all connections for the owning user.
	List(ctx context.Context, ownerUserID string) ([]domain.StoreConnection, error)
}
