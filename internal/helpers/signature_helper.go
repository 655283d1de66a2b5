package helpers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// WebhookApikey computes the Apikey header the gateway attaches to its
// payment-result webhooks: hex sha256(reference_id + order_id + secret).
func WebhookApikey(referenceID, orderID, secret string) string {
	sum := sha256.Sum256([]byte(referenceID + orderID + secret))
	return hex.EncodeToString(sum[:])
}

// VerifyWebhookApikey compares the caller-supplied header against the
// recomputed key in constant time.
func VerifyWebhookApikey(headerKey, referenceID, orderID, secret string) bool {
	expected := WebhookApikey(referenceID, orderID, secret)
	return hmac.Equal([]byte(expected), []byte(headerKey))
}
