// Package auth provides bearer token remediation for retried operations.
//
// It classifies JWT validation failures into failure kinds and keeps a
// refreshable token whose Refresh method can serve as a classifier remedy:
//
//	refresher := auth.NewRefresher(source)
//	err := r.Run(ctx, call, classify.OnNestedThen(auth.KindTokenExpired, refresher.Refresh))
//
// Concurrent refreshes triggered by many failing invocations are collapsed
// into one call to the token source.
package auth
