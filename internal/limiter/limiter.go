// Package limiter locks out credential probing after repeated failures.
package limiter

import (
	"context"
	"time"
)

// Limiter tracks failed credential checks per (official e-mail, client IP).
type Limiter interface {
	// Allow reports whether a credential check may run now, and the remaining lockout otherwise.
	Allow(ctx context.Context, email, ip string) (bool, time.Duration, error)
	// Success clears the failure counter.
	Success(ctx context.Context, email, ip string) error
	// Failure records a failed check and reports whether it started a lockout.
	Failure(ctx context.Context, email, ip string) (bool, time.Duration, error)
}

// Policy configures the sliding window and lockout length.
type Policy struct {
	Window   time.Duration
	MaxFails int
	BlockFor time.Duration
}
