package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/rookgm/marketplace/internal/models"
)

// SignatureHeader carries webhook body signature
const SignatureHeader = "X-Razorpay-Signature"

// Sign returns hex encoded HMAC-SHA256 of body
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks webhook body signature in constant time
func VerifySignature(body []byte, signature, secret string) error {
	if signature == "" || secret == "" {
		return models.ErrInvalidSignature
	}

	got, err := hex.DecodeString(signature)
	if err != nil {
		return models.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(got, mac.Sum(nil)) {
		return models.ErrInvalidSignature
	}

	return nil
}
