package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"fulfillment/internal/pkg/errs"
)

// ErrSignatureInvalid is returned when a webhook signature does not match the
// expected value for the shared secret. Callers must reject the request
// before any state change.
var ErrSignatureInvalid = errors.New("webhook signature is invalid")

// SignatureVerifier authenticates gateway webhooks.
//
// The gateway signs each notification with HMAC-SHA256 over the string
// "<gatewayOrderID>|<gatewayPaymentID>" using the shared webhook secret and
// sends the hex digest in a request header. Verification recomputes the
// digest and compares in constant time.
type SignatureVerifier struct {
	secret []byte
}

// NewSignatureVerifier creates a verifier for the shared webhook secret.
func NewSignatureVerifier(secret string) (SignatureVerifier, error) {
	if secret == "" {
		return SignatureVerifier{}, errs.NewValueIsRequiredError("webhook secret")
	}
	return SignatureVerifier{secret: []byte(secret)}, nil
}

// Sign computes the hex HMAC-SHA256 digest for the order and payment pair.
// Exposed so tests and the gateway simulator can produce valid signatures.
func (v SignatureVerifier) Sign(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the received signature against the expected digest.
// The comparison is constant time, so the check leaks no timing information
// about the expected value.
func (v SignatureVerifier) Verify(gatewayOrderID, gatewayPaymentID, signature string) error {
	expected := v.Sign(gatewayOrderID, gatewayPaymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}
