package domain

import (
	"context"
	"time"
)

// RateLimitDecision is the outcome of an admission check for one inbound
// negotiation request.
type RateLimitDecision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter performs admission control in front of the negotiation core,
// which itself carries no queueing or backpressure.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (RateLimitDecision, error)
}
