// Package handler defines the policy contract shared by retry limits and
// failure classifiers, and the composites that chain them.
//
// A [Handler] is called around each attempt of a retried operation:
// BeforeAttempt before the operation runs, AfterSuccess when it returns a
// result, and OnFailure when it fails. OnFailure answers with an [Outcome]:
// the failure is either swallowed (the retry loop continues) or propagated
// (the loop ends and the error reaches the caller).
//
// Two composites combine handlers:
//
//   - [AllMustPass] asks every child in order and propagates the first
//     propagated outcome. Limits are combined this way.
//   - [FirstMatch] asks every child in order and swallows on the first child
//     that swallows. If none does, the original failure propagates.
//     Classifiers are combined this way, like consecutive catch blocks.
//
// Composites are handlers themselves and nest freely.
package handler
