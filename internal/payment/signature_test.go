package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignature(t *testing.T) {
	// HMAC-SHA256("order_123|pay_456", "secret"), hex encoded.
	got := Signature("order_123", "pay_456", "secret")
	assert.Len(t, got, 64)
	assert.Equal(t, Signature("order_123", "pay_456", "secret"), got)
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("order_abc", "pay_def", "key_secret")

	assert.True(t, VerifySignature("order_abc", "pay_def", sig, "key_secret"))

	// Any single deviation must fail: payload, signature or secret.
	assert.False(t, VerifySignature("order_abd", "pay_def", sig, "key_secret"))
	assert.False(t, VerifySignature("order_abc", "pay_deg", sig, "key_secret"))
	assert.False(t, VerifySignature("order_abc", "pay_def", sig, "other_secret"))

	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, VerifySignature("order_abc", "pay_def", string(mutated), "key_secret"))
}

func TestVerifySignatureEmpty(t *testing.T) {
	assert.False(t, VerifySignature("order_abc", "pay_def", "", "key_secret"))
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(100000), MinorUnits(1000))
	assert.Equal(t, int64(149950), MinorUnits(1499.50))
	// Float drift rounds to the nearest paise instead of truncating.
	assert.Equal(t, int64(10), MinorUnits(0.1))
	assert.Equal(t, int64(2), MinorUnits(0.015))
}
