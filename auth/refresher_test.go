package auth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/retrier/classify"
	"github.com/jonwraymond/retrier/retry"
)

// sequence returns a source issuing the given tokens in order.
func sequence(tokens ...string) (TokenSource, *atomic.Int64) {
	var calls atomic.Int64
	return TokenSourceFunc(func(context.Context) (string, error) {
		n := calls.Add(1)
		if int(n) > len(tokens) {
			return "", errors.New("source exhausted")
		}
		return tokens[n-1], nil
	}), &calls
}

func TestRefresher_FetchesOnFirstUseThenCaches(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := tokenExpiring(t, now.Add(time.Hour))
	src, calls := sequence(tok)
	r := NewRefresher(src, WithClock(func() time.Time { return now }))

	for range 3 {
		got, err := r.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tok, got)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestRefresher_RefetchesExpired(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	first := tokenExpiring(t, now.Add(time.Minute))
	second := tokenExpiring(t, now.Add(time.Hour))
	src, calls := sequence(first, second)
	clock := now
	r := NewRefresher(src, WithClock(func() time.Time { return clock }), WithLeeway(10*time.Second))

	got, err := r.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, got)

	clock = now.Add(55 * time.Second) // within leeway of expiry
	got, err = r.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, second, got)
	assert.EqualValues(t, 2, calls.Load())
}

func TestRefresher_RefreshAndInvalidate(t *testing.T) {
	tokens := make([]string, 3)
	for i := range tokens {
		tokens[i] = signToken(t, jwt.MapClaims{"sub": fmt.Sprintf("svc-%d", i)})
	}
	src, calls := sequence(tokens...)
	r := NewRefresher(src)

	got, err := r.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tokens[0], got)
	got, _ = r.Token(context.Background())
	assert.Equal(t, tokens[0], got, "tokens without exp stay cached")

	require.NoError(t, r.Refresh(context.Background()))
	got, _ = r.Token(context.Background())
	assert.Equal(t, tokens[1], got)

	r.Invalidate()
	got, _ = r.Token(context.Background())
	assert.Equal(t, tokens[2], got)
	assert.EqualValues(t, 3, calls.Load())
}

func TestRefresher_SourceErrors(t *testing.T) {
	boom := errors.New("idp down")
	r := NewRefresher(TokenSourceFunc(func(context.Context) (string, error) { return "", boom }))
	assert.ErrorIs(t, r.Refresh(context.Background()), boom)

	empty := NewRefresher(TokenSourceFunc(func(context.Context) (string, error) { return "", nil }))
	_, err := empty.Token(context.Background())
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestRefresher_NilSourcePanics(t *testing.T) {
	assert.PanicsWithError(t, ErrNilSource.Error(), func() { NewRefresher(nil) })
}

func TestRefresher_ConcurrentRefreshesShareOneFetch(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		release := make(chan struct{})
		var calls atomic.Int64
		r := NewRefresher(TokenSourceFunc(func(context.Context) (string, error) {
			calls.Add(1)
			<-release
			return "shared", nil
		}))

		var g errgroup.Group
		for range 10 {
			g.Go(func() error {
				return r.Refresh(context.Background())
			})
		}

		synctest.Wait()
		close(release)
		require.NoError(t, g.Wait())

		assert.EqualValues(t, 1, calls.Load())
		got, err := r.Token(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "shared", got)
	})
}

// TestRefresher_AsRemedy retries a call whose token the server considers
// expired, refreshing it through the classifier remedy.
func TestRefresher_AsRemedy(t *testing.T) {
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	serverNow := now.Add(2 * time.Hour)

	stale := tokenExpiring(t, now.Add(time.Hour))
	fresh := tokenExpiring(t, now.Add(3*time.Hour))
	src, fetches := sequence(stale, fresh)

	refresher := NewRefresher(src, WithClock(func() time.Time { return now }))
	server := NewVerifier(VerifierConfig{Now: func() time.Time { return serverNow }}, NewStaticKeyProvider(testKey))
	r := retry.MustNew(retry.WithMaxAttempts(3))

	calls := 0
	sub, err := retry.DoWith(context.Background(), r, func(ctx context.Context) (string, error) {
		calls++
		tok, err := refresher.Token(ctx)
		if err != nil {
			return "", err
		}
		claims, err := server.Verify(ctx, tok)
		if err != nil {
			return "", err
		}
		return claims["sub"].(string), nil
	}, classify.OnThen(KindTokenExpired, refresher.Refresh))

	require.NoError(t, err)
	assert.Equal(t, "svc", sub)
	assert.Equal(t, 2, calls)
	assert.EqualValues(t, 2, fetches.Load())
}

func TestRefresher_InvalidTokenIsNotRetried(t *testing.T) {
	src, fetches := sequence("not-a-jwt")
	refresher := NewRefresher(src)
	server := NewVerifier(VerifierConfig{}, NewStaticKeyProvider(testKey))
	r := retry.MustNew(retry.WithMaxAttempts(3))

	calls := 0
	err := r.Run(context.Background(), func(ctx context.Context) error {
		calls++
		tok, err := refresher.Token(ctx)
		if err != nil {
			return err
		}
		_, err = server.Verify(ctx, tok)
		return err
	}, classify.OnThen(KindTokenExpired, refresher.Refresh))

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.EqualValues(t, 1, fetches.Load())
}
