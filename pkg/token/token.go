// Package token provides compact, signed tokens for embedding JSON payloads.
//
// Tokens use HMAC-SHA256 truncated to 8 bytes, trading cryptographic margin
// for compactness. Suitable for short-lived artifacts like email sign-in
// links; not for high-value or long-lived credentials.
//
// Token format: base64url(payload).base64url(signature)
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrInvalidToken     = errors.New("invalid token format")
	ErrSignatureInvalid = errors.New("signature mismatch")
)

const signatureLen = 8

// Generate creates a token by JSON encoding the payload and appending a
// truncated HMAC-SHA256 signature.
func Generate[T any](payload T, secret string) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(sign(data, secret)), nil
}

// Parse verifies a token's signature and decodes its payload.
func Parse[T any](tok, secret string) (T, error) {
	var payload T

	payloadEnc, sigEnc, ok := strings.Cut(tok, ".")
	if !ok {
		return payload, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(payloadEnc)
	if err != nil {
		return payload, ErrInvalidToken
	}

	sig, err := base64.RawURLEncoding.DecodeString(sigEnc)
	if err != nil {
		return payload, ErrInvalidToken
	}

	if !hmac.Equal(sig, sign(data, secret)) {
		return payload, ErrSignatureInvalid
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, ErrInvalidToken
	}

	return payload, nil
}

func sign(data []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return h.Sum(nil)[:signatureLen]
}
