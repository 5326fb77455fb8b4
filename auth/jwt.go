package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/retrier/kind"
)

var invalidTokenErrors = []error{
	jwt.ErrTokenMalformed,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenInvalidSubject,
	jwt.ErrTokenInvalidId,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenInvalidClaims,
}

// Classify maps JWT validation errors to failure kinds.
//
// An expired token becomes KindTokenExpired, any other validation error
// becomes KindTokenInvalid. The original error stays reachable through
// errors.Is and errors.As. Errors already of KindAuth and unrelated errors
// are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if kind.Of(err).Is(KindAuth) {
		return err
	}
	if errors.Is(err, jwt.ErrTokenExpired) {
		return kind.Wrap(KindTokenExpired, err, "auth: token expired")
	}
	for _, target := range invalidTokenErrors {
		if errors.Is(err, target) {
			return kind.Wrap(KindTokenInvalid, err, "auth: token invalid")
		}
	}
	return err
}

// ExpiresAt returns the exp claim of token without verifying its signature.
func ExpiresAt(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, Classify(err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, Classify(err)
	}
	if exp == nil {
		return time.Time{}, ErrMissingExpiry
	}
	return exp.Time, nil
}

// Expired reports whether token expires within leeway of now. Tokens
// without an exp claim never expire; unparsable tokens are always expired.
func Expired(token string, now time.Time, leeway time.Duration) bool {
	exp, err := ExpiresAt(token)
	if errors.Is(err, ErrMissingExpiry) {
		return false
	}
	if err != nil {
		return true
	}
	return !now.Add(leeway).Before(exp)
}

// KeyProvider retrieves signing keys for token verification.
type KeyProvider interface {
	// GetKey returns the key for the given key ID.
	GetKey(ctx context.Context, keyID string) (any, error)
}

// StaticKeyProvider provides a static signing key.
type StaticKeyProvider struct {
	key []byte
}

// NewStaticKeyProvider creates a static key provider.
func NewStaticKeyProvider(key []byte) *StaticKeyProvider {
	return &StaticKeyProvider{key: key}
}

// GetKey returns the static key.
func (p *StaticKeyProvider) GetKey(_ context.Context, _ string) (any, error) {
	return p.key, nil
}

// VerifierConfig configures a Verifier.
type VerifierConfig struct {
	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string

	// Audience is the expected aud claim. Empty skips the check.
	Audience string

	// Leeway tolerates clock skew on time based claims.
	Leeway time.Duration

	// Now overrides the clock. Default: time.Now
	Now func() time.Time
}

// Verifier validates signed tokens and reports failures as kinded errors.
type Verifier struct {
	keys   KeyProvider
	parser *jwt.Parser
}

// NewVerifier creates a Verifier for HMAC and RSA signed tokens.
func NewVerifier(cfg VerifierConfig, keys KeyProvider) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512", "RS256", "RS384", "RS512"}),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	if cfg.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(cfg.Now))
	}
	return &Verifier{keys: keys, parser: jwt.NewParser(opts...)}
}

// Verify validates token and returns its claims. Validation failures are
// of KindTokenExpired or KindTokenInvalid.
func (v *Verifier) Verify(ctx context.Context, token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.GetKey(ctx, kid)
	})
	if err != nil {
		return nil, Classify(err)
	}
	return claims, nil
}

var _ KeyProvider = (*StaticKeyProvider)(nil)
