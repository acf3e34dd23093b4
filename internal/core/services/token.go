package services

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/sellbridge-labs/sellbridge-cli/internal/core/domain"
)

// Random suffix length in bytes before base64url encoding.
const tokenSuffixLength = 16

// NewCorrelationToken generates a fresh single-use token binding one
// handshake attempt to one popup. The token doubles as the OAuth `state`
// value, so the suffix must be unguessable.
func NewCorrelationToken(userID string) (domain.CorrelationToken, error) {
	if userID == "" {
		return "", domain.ErrInvalidInput
	}
	suffix := make([]byte, tokenSuffixLength)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generating token suffix: %w", err)
	}
	token := fmt.Sprintf("%s.%d.%s", userID, time.Now().UnixNano(),
		base64.RawURLEncoding.EncodeToString(suffix))
	return domain.CorrelationToken(token), nil
}
