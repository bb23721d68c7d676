// Package signature signs and verifies webhook payloads with HMAC-SHA256.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns the hex HMAC of payload.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC verifies a sha256 HMAC hex signature against payload and secret.
// An optional "sha256=" prefix on the signature is accepted.
func VerifyHMAC(secret string, payload []byte, signatureHex string) bool {
	signatureHex = strings.TrimPrefix(strings.TrimSpace(signatureHex), "sha256=")
	if secret == "" || signatureHex == "" {
		return false
	}
	expected := Sign(secret, payload)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signatureHex)))
}
