package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driven"
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/ports/driving"
)

// Ensure StoreService implements the interface.
var _ driving.StoreService = (*StoreService)(nil)

// StoreService manages persisted store connections.
type StoreService struct {
	connections driven.StoreConnectionStore
}

// NewStoreService creates a new store service.
func NewStoreService(connections driven.StoreConnectionStore) *StoreService {
	return &StoreService{connections: connections}
}

// Connect persists a freshly linked store. If a connection with the same
// natural key {owner, platform, domain} already exists, its credentials
// and display name are replaced in place: a user re-linking the same store
// never ends up with two rows.
func (s *StoreService) Connect(ctx context.Context, conn domain.StoreConnection) (*domain.StoreConnection, error) {
	if s.connections == nil {
		return nil, domain.ErrNotImplemented
	}
	if conn.OwnerUserID == "" || conn.Platform == "" {
		return nil, domain.ErrInvalidInput
	}
	if !conn.Credentials.IsAuthenticated() {
		return nil, fmt.Errorf("connection %s has no usable credential: %w", conn.Label(), domain.ErrInvalidInput)
	}

	conn.Domain = domain.NormalizeDomain(conn.Domain)

	now := time.Now().UTC()
	conn.UpdatedAt = now

	existing, err := s.connections.GetByNaturalKey(ctx, conn.OwnerUserID, conn.Platform, conn.Domain)
	if err == nil && existing != nil {
		conn.ID = existing.ID
		conn.CreatedAt = existing.CreatedAt
		if conn.DisplayName == "" {
			conn.DisplayName = existing.DisplayName
		}
	} else {
		conn.ID = uuid.NewString()
		conn.CreatedAt = now
	}

	if err := s.connections.Upsert(ctx, conn); err != nil {
		return nil, fmt.Errorf("saving connection: %w", err)
	}
	return &conn, nil
}

// Get retrieves a connection by ID.
func (s *StoreService) Get(ctx context.Context, id string) (*domain.StoreConnection, error) {
	if s.connections == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.connections.Get(ctx, id)
}

// List returns all connections for the owning user.
func (s *StoreService) List(ctx context.Context, ownerUserID string) ([]domain.StoreConnection, error) {
	if s.connections == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.connections.List(ctx, ownerUserID)
}

// Rename updates the display name of a connection.
func (s *StoreService) Rename(ctx context.Context, id, displayName string) error {
	if s.connections == nil {
		return domain.ErrNotImplemented
	}
	conn, err := s.connections.Get(ctx, id)
	if err != nil {
		return err
	}
	conn.DisplayName = displayName
	conn.UpdatedAt = time.Now().UTC()
	return s.connections.Upsert(ctx, *conn)
}

// Remove deletes a connection.
func (s *StoreService) Remove(ctx context.Context, id string) error {
	if s.connections == nil {
		return domain.ErrNotImplemented
	}
	return s.connections.Delete(ctx, id)
}
