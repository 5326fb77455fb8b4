// Package limit provides the stateful gates that bound a retry loop.
//
//   - [Count] propagates once the number of attempts reaches a maximum.
//   - [Deadline] propagates once the time since the first attempt exceeds a
//     timeout. It only notices after a failure; it never interrupts a running
//     operation.
//   - [Backoff] never stops the loop by itself. It sleeps initial*2^(n-1)
//     after the n-th failed attempt, optionally clamped to a maximum, and
//     propagates only when the sleep is cancelled.
//
// Each gate counts attempts in BeforeAttempt, so the n-th attempt sees n at
// failure time. Gates are single-use: build a fresh set for every retry
// invocation. They are safe to share between the handlers of one chain (the
// same Deadline is checked both before and after classification).
package limit
