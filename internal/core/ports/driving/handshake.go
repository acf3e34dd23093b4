package driving

import (
	"context"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// HandshakeRequest carries everything needed to start one browser
// handshake: the marketplace being linked and the human-entered
// parameters needed later to finish the writer step.
type HandshakeRequest struct {
	// Marketplace is the marketplace being linked.
	Marketplace *domain.Marketplace
	// OwnerUserID identifies the initiating user; it becomes the first
	// component of the correlation token.
	OwnerUserID string
	// Params are the display parameters entered before the popup opened.
	Params domain.HandshakeParams
}

// Handshake is one in-flight broker invocation.
type Handshake interface {
	// Token returns the correlation token bound to this attempt.
	Token() domain.CorrelationToken

	// AuthURL returns the authorization URL the popup opened, for display
	// when the user needs to follow it manually.
	AuthURL() string

	// CallbackURL returns the redirect URI bound to this attempt. The
	// token exchange must present the same value.
	CallbackURL() string

	// Wait blocks until the handshake resolves and returns its single
	// terminal outcome. Cancelling the context cancels the handshake and
	// yields the Cancelled outcome.
	Wait(ctx context.Context) domain.Outcome

	// Cancel forces popup closure and resolves the handshake as Cancelled
	// if it has not resolved yet. Safe to call any number of times.
	Cancel()
}

// HandshakeBroker mediates the cross-window OAuth handshake, producing
// exactly one outcome per started attempt.
type HandshakeBroker interface {
	// Start begins a handshake. It returns an error only when the
	// precondition fails (another unresolved handshake exists for the same
	// marketplace); every protocol failure, including a blocked popup, is
	// reported as the outcome of the returned Handshake.
	Start(ctx context.Context, req HandshakeRequest) (Handshake, error)
}
