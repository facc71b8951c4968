// Package signature signs and verifies payment confirmations issued by a payment
// gateway for an order.
//
// The scheme follows the common gateway convention:
//
//	signature = hex(HMAC-SHA256(secret, orderID + "|" + paymentReference))
//
// Verification uses a constant-time comparison.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const separator = "|"

var (
	ErrMissingSecret     = errors.New("signature: gateway secret is required")
	ErrMissingPayload    = errors.New("signature: order id and payment reference are required")
	ErrMissingSignature  = errors.New("signature: signature is missing")
	ErrSignatureMismatch = errors.New("signature: mismatch")
)

// HMAC authenticates (orderID, paymentReference) pairs under a shared secret.
type HMAC struct {
	secret []byte
}

// NewHMAC returns a signer/verifier for the given gateway secret.
func NewHMAC(secret string) (*HMAC, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &HMAC{secret: []byte(secret)}, nil
}

// Sign returns the hex encoded signature for the pair.
// It exists for tests and gateway simulators; production signatures come from the gateway.
func (h *HMAC) Sign(orderID, paymentReference string) (string, error) {
	payload, err := payloadFor(orderID, paymentReference)
	if err != nil {
		return "", err
	}
	return h.sum(payload), nil
}

// Verify checks that sig authenticates the pair.
func (h *HMAC) Verify(orderID, paymentReference, sig string) error {
	payload, err := payloadFor(orderID, paymentReference)
	if err != nil {
		return err
	}
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return ErrMissingSignature
	}

	expected := h.sum(payload)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(sig))) {
		return fmt.Errorf("%w: order %s", ErrSignatureMismatch, orderID)
	}
	return nil
}

func (h *HMAC) sum(payload []byte) string {
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func payloadFor(orderID, paymentReference string) ([]byte, error) {
	if orderID == "" || paymentReference == "" {
		return nil, ErrMissingPayload
	}
	return []byte(orderID + separator + paymentReference), nil
}
