package jwt

import "errors"

var (
	ErrMissingSigningKey       = errors.New("missing signing key")
	ErrMissingClaims           = errors.New("missing claims")
	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidSignature        = errors.New("invalid token signature")
	ErrExpiredToken            = errors.New("token has expired")
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
)
