package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	// Reservation creation is guest-facing and unauthenticated; keep it
	// cheap to abuse-proof per client IP.
	reservationRate  = 0.5 // tokens per second
	reservationBurst = 5
)

// ReservationLimiter throttles POST /api/reservations per client IP.
// Without redis it stays disabled and allows everything.
type ReservationLimiter struct {
	bucket *TokenBucket
	log    *zap.Logger
}

func NewReservationLimiter(client *redis.Client, log *zap.Logger) *ReservationLimiter {
	limiter := &ReservationLimiter{log: log.Named("ratelimit.reservation")}
	if client != nil {
		limiter.bucket = NewTokenBucket(client)
	} else {
		limiter.log.Warn("redis not configured, reservation rate limiting disabled")
	}
	return limiter
}

// Allow reports whether the client may create a reservation. Limiter
// errors fail open; blocking guest payments on a redis outage is worse
// than letting a burst through.
func (l *ReservationLimiter) Allow(ctx context.Context, clientIP string) *Result {
	if l.bucket == nil {
		return &Result{Allowed: true}
	}

	result, err := l.bucket.Allow(ctx, "ratelimit:reservation:"+clientIP, reservationRate, reservationBurst)
	if err != nil {
		l.log.Warn("rate limiter error", zap.Error(err))
		return &Result{Allowed: true}
	}
	return result
}
