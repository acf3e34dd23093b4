package domain

import "strings"

// CorrelationToken is the single-use, unguessable identifier binding one
// handshake attempt to one popup instance. It round-trips as the OAuth
// `state` parameter and is discarded after resolution.
//
// Format: {userID}.{unixNano}.{random suffix}. The components exist for
// debuggability only; comparisons are always on the full opaque string.
type CorrelationToken string

// String returns the token as a plain string.
func (t CorrelationToken) String() string { return string(t) }

// UserID extracts the initiating-user component of the token.
// Returns empty string for malformed tokens.
func (t CorrelationToken) UserID() string {
	parts := strings.SplitN(string(t), ".", 3)
	if len(parts) != 3 {
		return ""
	}
	return parts[0]
}

// HandoffPayload carries marketplace-specific connection data from the
// popup's completion page back to the opener.
type HandoffPayload struct {
	// AuthorizationCode is the OAuth code to exchange for tokens.
	AuthorizationCode string `json:"authorization_code"`
	// ShopDomain is the store domain reported by the provider, when the
	// provider round-trips it (Shopify's `shop` parameter).
	ShopDomain string `json:"shop_domain,omitempty"`
}

// HandoffRecord is the terminal outcome of one handshake as written by
// the popup's completion page. At most one record exists per correlation
// token; the opener deletes it immediately after reading.
type HandoffRecord struct {
	// Token binds the record to one handshake attempt.
	Token CorrelationToken
	// Err is the user-facing provider error, empty on success.
	Err string
	// Payload is the success payload, zero-valued when Err is set.
	Payload HandoffPayload
}

// Outcome converts the record into the broker outcome it represents.
func (r *HandoffRecord) Outcome() Outcome {
	if r.Err != "" {
		return RemoteErrorOutcome(r.Err)
	}
	return SuccessOutcome(r.Payload)
}

// HandshakeParams are the human-entered parameters collected before the
// popup opens and needed later to finish the writer step.
type HandshakeParams struct {
	// DisplayName is the user-chosen name for the store.
	DisplayName string
	// ShopDomain is the user-entered store domain, when the marketplace
	// needs it to build the authorization URL (Shopify).
	ShopDomain string
}
