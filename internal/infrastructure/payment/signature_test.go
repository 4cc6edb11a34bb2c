package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyRoundTrip(t *testing.T) {
	cases := []struct{ order, pay, secret string }{
		{"order_X", "pay_Y", "s3cret"},
		{"order_MzY2", "pay_Mz9a", "another-secret"},
		{"", "", "k"},
	}
	for _, c := range cases {
		sig := Sign(c.order, c.pay, c.secret)
		assert.Len(t, sig, 64)
		assert.True(t, Verify(c.order, c.pay, sig, c.secret))
		assert.False(t, Verify(c.order, c.pay, sig, c.secret+"x"))
		if c.order != c.pay {
			assert.False(t, Verify(c.pay, c.order, sig, c.secret))
		}
	}
}

func TestVerifyRejectsEverySingleCharMutation(t *testing.T) {
	sig := Sign("order_X", "pay_Y", "s3cret")
	for i := range sig {
		replacement := byte('0')
		if sig[i] == '0' {
			replacement = '1'
		}
		mutated := sig[:i] + string(replacement) + sig[i+1:]
		assert.False(t, Verify("order_X", "pay_Y", mutated, "s3cret"), "mutation at %d accepted", i)
	}
}

func TestVerifyKnownVector(t *testing.T) {
	// printf 'a|b' | openssl dgst -sha256 -hmac key
	assert.Equal(t,
		"8bbc27fa3bd74d7c55f7eda2400213ce30b3434b54909557dc7115aa8f454214",
		Sign("a", "b", "key"),
	)
}

func TestVerifierBindsSecret(t *testing.T) {
	v := NewVerifier("s3cret")
	assert.True(t, v.Verify("order_X", "pay_Y", Sign("order_X", "pay_Y", "s3cret")))
	assert.False(t, v.Verify("order_X", "pay_Y", "deadbeef"))
	assert.False(t, v.Verify("order_X", "pay_Y", ""))
}
