package driven

import (
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// CallbackEndpoint is the local landing pad the provider redirects the
// popup to after authorization. It lives exactly as long as one handshake.
type CallbackEndpoint interface {
	// URL returns the redirect URI embedded in the authorization URL.
	URL() string

	// Close tears the endpoint down. Idempotent.
	Close() error
}

// CallbackBinder creates a callback endpoint bound to one correlation
// token. The endpoint's completion page validates the round-tripped state
// against the token, writes the HandoffRecord, and then invokes notify as
// a hint to the opener. The notification may be dropped; the HandoffStore
// remains the source of truth.
type CallbackBinder interface {
	Bind(token domain.CorrelationToken, notify func()) (CallbackEndpoint, error)
}
