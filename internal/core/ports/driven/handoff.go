package driven

import (
	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// HandoffStore is the narrow channel carrying a handshake's terminal
// outcome from the popup's completion page to the opener. It replaces the
// ambient tab-scoped storage of browser flows with an explicit, injectable
// store keyed strictly by correlation token.
//
// Discipline: the popup context writes a record at most once, immediately
// before it closes itself; the opener reads-then-deletes it at most once
// per token. This single-writer/single-reader protocol needs no further
// coordination from callers.
type HandoffStore interface {
	// Put stores the record for its token, replacing any previous record
	// under the same token.
	Put(record domain.HandoffRecord)

	// TakeIfPresent removes and returns the record for the token.
	// Returns false when no record exists; a second take for the same
	// token always returns false.
	TakeIfPresent(token domain.CorrelationToken) (*domain.HandoffRecord, bool)

	// Delete removes the record for the token if present.
	Delete(token domain.CorrelationToken)
}
