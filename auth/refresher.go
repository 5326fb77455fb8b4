package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// TokenSource issues bearer tokens.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenSourceFunc adapts a function to a TokenSource.
type TokenSourceFunc func(ctx context.Context) (string, error)

// Token calls f(ctx).
func (f TokenSourceFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// RefresherOption configures a Refresher.
type RefresherOption func(*Refresher)

// WithLeeway refreshes tokens that expire within d.
func WithLeeway(d time.Duration) RefresherOption {
	return func(r *Refresher) {
		r.leeway = d
	}
}

// WithClock overrides time.Now for expiry checks.
func WithClock(now func() time.Time) RefresherOption {
	return func(r *Refresher) {
		if now != nil {
			r.now = now
		}
	}
}

// Refresher caches the current token of a TokenSource.
//
// Refresh has the signature of a classifier remedy. Concurrent calls share
// a single fetch from the source.
type Refresher struct {
	src    TokenSource
	leeway time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	token string
	group singleflight.Group // prevents thundering herd
}

// NewRefresher creates a Refresher. It panics if src is nil.
func NewRefresher(src TokenSource, opts ...RefresherOption) *Refresher {
	if src == nil {
		panic(ErrNilSource)
	}
	r := &Refresher{src: src, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Token returns the cached token, fetching a new one on first use or when
// the cached one has expired.
func (r *Refresher) Token(ctx context.Context) (string, error) {
	r.mu.RLock()
	tok := r.token
	r.mu.RUnlock()

	if tok != "" && !Expired(tok, r.now(), r.leeway) {
		return tok, nil
	}
	return r.fetch(ctx)
}

// Refresh replaces the cached token with a new one from the source.
func (r *Refresher) Refresh(ctx context.Context) error {
	_, err := r.fetch(ctx)
	return err
}

// Invalidate drops the cached token.
func (r *Refresher) Invalidate() {
	r.mu.Lock()
	r.token = ""
	r.mu.Unlock()
}

func (r *Refresher) fetch(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do("refresh", func() (any, error) {
		tok, err := r.src.Token(ctx)
		if err != nil {
			return "", fmt.Errorf("auth: refresh token: %w", err)
		}
		if tok == "" {
			return "", ErrEmptyToken
		}

		r.mu.Lock()
		r.token = tok
		r.mu.Unlock()
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

var _ TokenSource = (*Refresher)(nil)
