package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeKind_String(t *testing.T) {
	tests := []struct {
		kind     OutcomeKind
		expected string
	}{
		{OutcomeSuccess, "success"},
		{OutcomeRemoteError, "remote_error"},
		{OutcomeCancelled, "cancelled"},
		{OutcomeTimedOut, "timed_out"},
		{OutcomePopupBlocked, "popup_blocked"},
		{OutcomeKind(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.kind.String())
		})
	}
}

func TestSuccessOutcome(t *testing.T) {
	payload := HandoffPayload{AuthorizationCode: "code-abc", ShopDomain: "acme.myshopify.com"}
	outcome := SuccessOutcome(payload)

	assert.True(t, outcome.IsSuccess())
	assert.Equal(t, OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "code-abc", outcome.Payload.AuthorizationCode)
	assert.Empty(t, outcome.UserMessage())
}

func TestRemoteErrorOutcome(t *testing.T) {
	outcome := RemoteErrorOutcome("access denied by user")

	assert.False(t, outcome.IsSuccess())
	assert.Equal(t, OutcomeRemoteError, outcome.Kind)
	assert.Equal(t, "access denied by user", outcome.UserMessage())
	assert.Nil(t, outcome.Payload)
}

func TestNonSuccessOutcomes_HaveUserMessages(t *testing.T) {
	for _, outcome := range []Outcome{CancelledOutcome(), TimedOutOutcome(), PopupBlockedOutcome()} {
		assert.False(t, outcome.IsSuccess())
		assert.NotEmpty(t, outcome.UserMessage())
	}
}

func TestHandoffRecord_Outcome(t *testing.T) {
	success := HandoffRecord{
		Token:   "user-1.1730000000.abc",
		Payload: HandoffPayload{AuthorizationCode: "code-xyz"},
	}
	assert.True(t, success.Outcome().IsSuccess())

	failure := HandoffRecord{
		Token: "user-1.1730000000.abc",
		Err:   "invalid_scope",
	}
	outcome := failure.Outcome()
	assert.Equal(t, OutcomeRemoteError, outcome.Kind)
	assert.Equal(t, "invalid_scope", outcome.Message)
}

func TestCorrelationToken_UserID(t *testing.T) {
	assert.Equal(t, "user-1", CorrelationToken("user-1.1730000000.r4nd0m").UserID())
	assert.Empty(t, CorrelationToken("malformed").UserID())
	assert.Empty(t, CorrelationToken("").UserID())
}
