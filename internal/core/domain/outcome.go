package domain

// OutcomeKind enumerates the terminal results of one handshake attempt.
// Exactly one outcome is produced per attempt; none of them are surfaced
// as Go errors because the flow is asynchronous and user-cancellable.
type OutcomeKind int

const (
	// OutcomeSuccess means the popup completed authorization and handed
	// back a payload.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRemoteError means the provider or backend explicitly
	// reported failure. The message is user-facing.
	OutcomeRemoteError
	// OutcomeCancelled means the popup closed with no handoff record
	// present. Deliberately not reported as an error: closing the window
	// is an innocuous dismissal.
	OutcomeCancelled
	// OutcomeTimedOut means no resolution arrived within the ceiling and
	// the popup was forcibly closed.
	OutcomeTimedOut
	// OutcomePopupBlocked means the popup window could not be opened at
	// all. No watchers were armed.
	OutcomePopupBlocked
)

// String returns the wire/name form of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeRemoteError:
		return "remote_error"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeTimedOut:
		return "timed_out"
	case OutcomePopupBlocked:
		return "popup_blocked"
	default:
		return "unknown"
	}
}

// Outcome is the tagged result of one handshake attempt. Payload is set
// only for OutcomeSuccess; Message only for OutcomeRemoteError.
type Outcome struct {
	Kind    OutcomeKind
	Payload *HandoffPayload
	Message string
}

// SuccessOutcome builds a success outcome carrying the handoff payload.
func SuccessOutcome(payload HandoffPayload) Outcome {
	return Outcome{Kind: OutcomeSuccess, Payload: &payload}
}

// RemoteErrorOutcome builds an outcome for an explicit provider failure.
func RemoteErrorOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeRemoteError, Message: message}
}

// CancelledOutcome builds the cancellation outcome.
func CancelledOutcome() Outcome {
	return Outcome{Kind: OutcomeCancelled}
}

// TimedOutOutcome builds the timeout outcome.
func TimedOutOutcome() Outcome {
	return Outcome{Kind: OutcomeTimedOut}
}

// PopupBlockedOutcome builds the popup-blocked outcome.
func PopupBlockedOutcome() Outcome {
	return Outcome{Kind: OutcomePopupBlocked}
}

// IsSuccess reports whether the attempt produced a usable payload.
func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess && o.Payload != nil
}

// UserMessage returns the text shown in the wizard's dismissable notice
// for non-success outcomes.
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case OutcomeSuccess:
		return ""
	case OutcomeRemoteError:
		return o.Message
	case OutcomeCancelled:
		return "authorization was cancelled"
	case OutcomeTimedOut:
		return "authorization timed out, please try again"
	case OutcomePopupBlocked:
		return "could not open a browser window"
	default:
		return "authorization failed"
	}
}
