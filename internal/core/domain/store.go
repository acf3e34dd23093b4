package domain

import (
	"fmt"
	"strings"
	"time"
)

// StoreConnection represents a persisted link between a Sellbridge user
// and an external marketplace store. Connections are keyed by the natural
// key {OwnerUserID, Platform, Domain} so a retried handshake updates the
// existing row instead of creating a duplicate.
type StoreConnection struct {
	// ID is the unique identifier for the connection.
	ID string

	// OwnerUserID identifies the Sellbridge user who owns this connection.
	OwnerUserID string

	// Platform identifies the marketplace platform.
	Platform Platform

	// Domain is the normalized store domain or account identifier
	// (e.g., "acme.myshopify.com", an Etsy shop id).
	Domain string

	// DisplayName is the user-chosen name for this store.
	DisplayName string

	// Credentials holds the access credential obtained during linking.
	Credentials Credentials

	// CreatedAt is when the connection was first established.
	CreatedAt time.Time

	// UpdatedAt is when the connection was last updated.
	UpdatedAt time.Time
}

// NaturalKey returns the upsert key for this connection.
func (s *StoreConnection) NaturalKey() string {
	return fmt.Sprintf("%s/%s/%s", s.OwnerUserID, s.Platform, s.Domain)
}

// Label returns the display name, falling back to the domain when the
// user never chose one.
func (s *StoreConnection) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Domain
}

// NormalizeDomain canonicalises a store domain so that equivalent user
// input ("HTTPS://Acme.myshopify.com/", "acme.myshopify.com") maps to the
// same natural key.
func NormalizeDomain(raw string) string {
	d := strings.TrimSpace(strings.ToLower(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return d
}
