// Package exchange talks to marketplace OAuth endpoints: it mints
// authorization URLs for the popup and swaps authorization codes for
// access tokens, with per-platform rate limiting on the token endpoint.
package exchange
