package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns hex(HMAC-SHA256(secret, orderID + "|" + paymentID)), the
// signature the gateway attaches to a completed checkout.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches the recomputed HMAC. The
// comparison is constant-time.
func Verify(orderID, paymentID, signature, secret string) bool {
	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Verifier binds the gateway secret so callers only pass the proof.
type Verifier interface {
	Verify(orderID, paymentID, signature string) bool
}

type hmacVerifier struct {
	secret string
}

func NewVerifier(secret string) Verifier {
	return &hmacVerifier{secret: secret}
}

func (v *hmacVerifier) Verify(orderID, paymentID, signature string) bool {
	return Verify(orderID, paymentID, signature, v.secret)
}
