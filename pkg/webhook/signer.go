package webhook

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// SignatureHeader carries the HMAC of the delivered conversion-event body so
// receivers can confirm the delivery came from this service and was not
// altered in transit.
const SignatureHeader = "X-Docvoice-Signature-256"

// Sign produces an HMAC-SHA256 over the marshaled event envelope, in the
// "sha256=<hex>" format receivers compare against. The signature covers the
// exact delivered bytes; re-marshaling on the receiving side invalidates it.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}

// Verify checks a delivery body against the signature header value using the
// endpoint's secret. Constant-time comparison.
func Verify(secret string, payload []byte, signature string) bool {
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GenerateSecret returns a cryptographically random 32-byte hex string, used
// as the per-endpoint signing secret issued on create and rotate.
func GenerateSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
