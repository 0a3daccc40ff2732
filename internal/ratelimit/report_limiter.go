package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	redis "github.com/redis/go-redis/v9"

	"github.com/fiscalbr/classtrib/internal/config"
)

const keyReportClient = "report:client:%s"

// ReportLimiter throttles report generation per client. Rendering is the
// most expensive call the service exposes, so it gets its own budget. Nil
// limiter (rate limiting disabled) allows everything.
type ReportLimiter struct {
	enabled bool

	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewReportLimiter(cfg config.Config) (*ReportLimiter, error) {
	if !cfg.RateLimitEnabled {
		return nil, nil
	}

	addr := strings.TrimSpace(cfg.RateLimitRedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if cfg.ReportRatePerSec <= 0 || cfg.ReportBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RateLimitRedisPassword),
		DB:       cfg.RateLimitRedisDB,
	})

	return &ReportLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		rate:    cfg.ReportRatePerSec,
		burst:   cfg.ReportBurst,
	}, nil
}

func (l *ReportLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowClient reports whether the client identified by key (authenticated
// user ID or remote IP) may generate a report now.
func (l *ReportLimiter) AllowClient(ctx context.Context, key string) (*Result, error) {
	if !l.Enabled() {
		return &Result{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyReportClient, strings.TrimSpace(key)), l.rate, l.burst)
}
