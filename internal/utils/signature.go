package utils // package utils provides small helpers shared across handlers

import (
	"crypto/hmac"   // keyed hashing for webhook verification
	"crypto/sha256" // SHA-256 as the HMAC hash
	"encoding/hex"  // hex encoding of signatures
)

// SignPayload computes the hex-encoded HMAC-SHA256 of a webhook body
// under the shared secret.  The identity provider signs each delivery
// this way and sends the result in the signature header.
func SignPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether the presented signature matches the
// body under the shared secret.  Comparison is constant-time so the
// check does not leak how many leading characters matched.
func VerifySignature(secret string, body []byte, signature string) bool {
	expected := SignPayload(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
