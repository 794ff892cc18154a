package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// resultClaims carries a hash of the exported report payload so a
// downstream renderer can detect tampering of already-computed results.
type resultClaims struct {
	PayloadSHA string `json:"payload_sha,omitempty"`
	jwt.RegisteredClaims
}

// SignPayload marshals v to JSON and returns both the JSON bytes and an
// HMAC-SHA256-signed JWT binding a digest of that JSON, so a caller can
// ship both without the renderer needing to re-derive the hash.
func SignPayload(v any, secret []byte, issuedAt time.Time) (payload []byte, token string, err error) {
	payload, err = json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("report: marshal payload: %w", err)
	}

	claims := resultClaims{
		PayloadSHA: sha256Hex(payload),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(24 * time.Hour)),
			Issuer:    "taxrecon",
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return nil, "", fmt.Errorf("report: sign payload: %w", err)
	}
	return payload, signed, nil
}

// VerifyPayload checks that token was signed with secret and that its
// embedded digest matches payload.
func VerifyPayload(payload []byte, token string, secret []byte) error {
	claims := &resultClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("report: unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("report: parse signature: %w", err)
	}
	if !parsed.Valid {
		return fmt.Errorf("report: signature invalid")
	}
	if claims.PayloadSHA != sha256Hex(payload) {
		return fmt.Errorf("report: payload digest mismatch — result was modified after signing")
	}
	return nil
}
