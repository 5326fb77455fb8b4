// Package retry runs an operation until it succeeds, a limit is exhausted,
// or a handler decides the failure is unrecoverable.
//
// # Usage
//
// A Retrier holds immutable limit values and can be shared between
// goroutines. Every invocation builds its own counters and timers:
//
//	r, err := retry.New(
//	    retry.WithMaxAttempts(5),
//	    retry.WithBackoffMax(100*time.Millisecond, 2*time.Second),
//	    retry.WithTimeout(30*time.Second),
//	)
//
//	body, err := retry.DoWith(ctx, r, func(ctx context.Context) ([]byte, error) {
//	    return fetch(ctx)
//	}, classify.On(KindTransient))
//
// # Pipeline
//
// Each invocation chains three segments whose failure hooks must all
// swallow for the loop to continue:
//
//	[deadline, count, backoff] -> [classifier] -> [deadline]
//
// The count is checked before the backoff sleeps, so an exhausted
// invocation never sleeps for nothing. The deadline is checked on both sides
// of classification and backoff. A failure the classifier does not recognize
// ends the loop at once; the limits before it have already seen it.
//
// Without handlers every failure is recognized. With several handlers the
// first one that swallows wins, like consecutive catch blocks.
//
// # Unbounded loops
//
// A Retrier with neither a maximum attempt count nor a timeout retries
// recognized failures forever. Bounding the loop is the caller's
// responsibility; cancel the context to stop it from outside.
//
// # Errors
//
// The error returned is the operation's own failure, never a wrapper, or
// the error of a remedy that failed, or ctx.Err() when the context was done
// before an attempt started.
package retry
