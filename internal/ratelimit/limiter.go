// Package ratelimit bounds the rate of sensitive operations (login
// attempts, verification resends) per client identifier using a fixed
// window.  The limiter is injected as an interface so single-instance
// deployments can use the in-process map while multi-instance deployments
// share counters through Redis.
package ratelimit

import (
	"context"
	"time"
)

// Result reports the outcome of one Check call.  ResetAt is when the
// current window expires; handlers convert it to a Retry-After hint.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a fixed-window counter keyed by an opaque identifier (an IP,
// a user id, a "purpose:id" compound; callers choose).  The first Check
// for a fresh or expired window opens it with count 1 and allows; further
// calls inside the window increment and deny once the count reaches max.
type Limiter interface {
	// Check records one attempt and reports whether it is allowed.
	Check(ctx context.Context, identifier string, max int, window time.Duration) (Result, error)
	// Reset clears the window for an identifier (after a successful login).
	Reset(ctx context.Context, identifier string) error
}
