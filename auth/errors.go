package auth

import (
	"errors"

	"github.com/jonwraymond/retrier/kind"
)

// Failure kinds for token problems.
var (
	// KindAuth is the parent of every authentication failure.
	KindAuth = kind.New("auth")

	// KindTokenExpired marks a token rejected for being expired. Refreshing
	// the token usually fixes it.
	KindTokenExpired = kind.New("auth.token_expired", KindAuth)

	// KindTokenInvalid marks a token that is malformed, badly signed or
	// carries unacceptable claims.
	KindTokenInvalid = kind.New("auth.token_invalid", KindAuth)
)

// Sentinel errors.
var (
	// ErrNilSource indicates a nil TokenSource was provided.
	ErrNilSource = errors.New("auth: token source is nil")

	// ErrEmptyToken indicates a TokenSource returned an empty token.
	ErrEmptyToken = errors.New("auth: token source returned an empty token")

	// ErrMissingExpiry indicates a token without an exp claim.
	ErrMissingExpiry = errors.New("auth: token has no expiry")
)
