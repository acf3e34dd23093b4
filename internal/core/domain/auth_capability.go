package domain

import "strings"

// AuthCapability represents supported linking capabilities for a marketplace.
// This is a bitfield allowing marketplaces to support multiple auth methods.
type AuthCapability uint8

const (
	// AuthCapNone indicates no authentication is needed.
	AuthCapNone AuthCapability = 0
	// AuthCapAPIKey indicates direct API credential entry is supported.
	AuthCapAPIKey AuthCapability = 1 << 0
	// AuthCapOAuth indicates the browser OAuth handshake is supported.
	AuthCapOAuth AuthCapability = 1 << 1
)

// SupportsAPIKey returns true if API key entry is supported.
func (c AuthCapability) SupportsAPIKey() bool {
	return c&AuthCapAPIKey != 0
}

// SupportsOAuth returns true if OAuth linking is supported.
func (c AuthCapability) SupportsOAuth() bool {
	return c&AuthCapOAuth != 0
}

// SupportsMultipleMethods returns true if more than one auth method is supported.
func (c AuthCapability) SupportsMultipleMethods() bool {
	return c.SupportsAPIKey() && c.SupportsOAuth()
}

// RequiresAuth returns true if any authentication is required.
func (c AuthCapability) RequiresAuth() bool {
	return c != AuthCapNone
}

// SupportedMethods returns a slice of supported AuthMethods.
// Returns an empty slice if no authentication is required.
func (c AuthCapability) SupportedMethods() []AuthMethod {
	var methods []AuthMethod
	if c.SupportsOAuth() {
		methods = append(methods, AuthMethodOAuth)
	}
	if c.SupportsAPIKey() {
		methods = append(methods, AuthMethodAPIKey)
	}
	return methods
}

// String returns a human-readable representation.
func (c AuthCapability) String() string {
	if c == AuthCapNone {
		return "none"
	}
	var parts []string
	if c.SupportsOAuth() {
		parts = append(parts, "oauth")
	}
	if c.SupportsAPIKey() {
		parts = append(parts, "apikey")
	}
	return strings.Join(parts, ",")
}
