package domain

import "time"

// Credentials stores the access credential for a StoreConnection.
// Exactly one of OAuth or APIKey is set, matching the marketplace's
// auth method.
type Credentials struct {
	// OAuth holds OAuth tokens (for OAuth-linked marketplaces).
	OAuth *OAuthCredentials `json:"oauth,omitempty"`

	// APIKey holds raw API credentials (for key-based marketplaces).
	APIKey *APIKeyCredentials `json:"apikey,omitempty"`
}

// OAuthCredentials stores OAuth tokens for a linked store.
type OAuthCredentials struct {
	// AccessToken is the bearer token for API access.
	AccessToken string `json:"access_token"`
	// RefreshToken is used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`
	// TokenType is typically "Bearer".
	TokenType string `json:"token_type"`
	// Scope is the granted scope string as reported by the provider.
	Scope string `json:"scope,omitempty"`
	// Expiry is when the access token expires.
	Expiry time.Time `json:"expiry,omitempty"`
}

// APIKeyCredentials stores raw API credentials entered by the user.
type APIKeyCredentials struct {
	// Key is the API key or consumer key.
	Key string `json:"key"`
	// Secret is the API secret, empty for single-token marketplaces.
	Secret string `json:"secret,omitempty"`
}

// IsExpired returns true if the OAuth access token has expired.
func (c *OAuthCredentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a usable secret.
func (c *Credentials) IsAuthenticated() bool {
	if c.OAuth != nil && c.OAuth.AccessToken != "" {
		return true
	}
	if c.APIKey != nil && c.APIKey.Key != "" {
		return true
	}
	return false
}

// GetAccessToken returns the credential used for marketplace API calls.
func (c *Credentials) GetAccessToken() string {
	if c.OAuth != nil && c.OAuth.AccessToken != "" {
		return c.OAuth.AccessToken
	}
	if c.APIKey != nil && c.APIKey.Key != "" {
		return c.APIKey.Key
	}
	return ""
}
