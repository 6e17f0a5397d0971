package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/Apurer/go-gin-shop-api/internal/domains/payments/ports"
)

type normalizedConfirmInput struct {
	IntentID   string `json:"intentId"`
	PayerToken string `json:"payerToken"`
}

// FingerprintConfirmation builds a deterministic hash of a completion callback.
// Duplicate deliveries of the same callback share a fingerprint.
func FingerprintConfirmation(input ports.ConfirmInput) (string, error) {
	payload, err := json.Marshal(normalizedConfirmInput{
		IntentID:   strings.TrimSpace(input.IntentID),
		PayerToken: strings.TrimSpace(input.PayerToken),
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
