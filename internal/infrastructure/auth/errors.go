package auth

import (
	"errors"
)

// Internal rejection causes. They are logged and counted, never returned to
// callers of Authenticate or Verify, which only ever see ErrUnauthorized.
var (
	ErrMissingCredential   = errors.New("missing credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidSignature    = errors.New("invalid signature")
	ErrTokenExpired        = errors.New("token expired")
	ErrTokenNotYetValid    = errors.New("token not yet valid")
)

func reason(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, ErrMalformedCredential):
		return "malformed_credential"
	case errors.Is(err, ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenNotYetValid):
		return "not_yet_valid"
	default:
		return "invalid_token"
	}
}
