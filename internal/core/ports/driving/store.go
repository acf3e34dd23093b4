package driving

import (
	"context"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// StoreService manages persisted store connections.
type StoreService interface {
	// Connect persists a new or retried store connection. The write is an
	// upsert on the natural key {owner, platform, domain}.
	Connect(ctx context.Context, conn domain.StoreConnection) (*domain.StoreConnection, error)

	// Get retrieves a connection by ID.
	Get(ctx context.Context, id string) (*domain.StoreConnection, error)

	// List returns all connections for the owning user.
	List(ctx context.Context, ownerUserID string) ([]domain.StoreConnection, error)

	// Rename updates the display name of a connection.
	Rename(ctx context.Context, id, displayName string) error

	// Remove deletes a connection.
	Remove(ctx context.Context, id string) error
}
