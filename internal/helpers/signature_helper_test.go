package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookApikeyDeterministic(t *testing.T) {
	key := WebhookApikey("ORDER-1700000000000-abcd1234", "ord_99", "s3cret")
	assert.Len(t, key, 64)
	assert.Equal(t, key, WebhookApikey("ORDER-1700000000000-abcd1234", "ord_99", "s3cret"))
}

func TestVerifyWebhookApikey(t *testing.T) {
	key := WebhookApikey("ref", "order", "secret")

	assert.True(t, VerifyWebhookApikey(key, "ref", "order", "secret"))
	assert.False(t, VerifyWebhookApikey(key, "ref", "order", "other-secret"))
	assert.False(t, VerifyWebhookApikey(key, "other-ref", "order", "secret"))
	assert.False(t, VerifyWebhookApikey("", "ref", "order", "secret"))
}
