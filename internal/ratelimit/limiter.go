// internal/ratelimit/limiter.go
package ratelimit

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter throttles page loads, typically per host, so several ADP
// sources on one site are not requested back to back.
type RateLimiter interface {
	// Wait blocks until a load of urlStr may proceed or ctx is done.
	Wait(ctx context.Context, urlStr string) error
}

// DomainLimiter keeps one token bucket per host.
type DomainLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	perHost  rate.Limit
	burst    int
}

// NewDomainLimiter creates a limiter allowing requestsPerSecond per host
func NewDomainLimiter(requestsPerSecond float64, burst int) *DomainLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.2
	}
	if burst <= 0 {
		burst = 1
	}

	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		perHost:  rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Wait blocks until the load for the given URL can proceed
func (dl *DomainLimiter) Wait(ctx context.Context, urlStr string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	host := extractHost(urlStr)
	if host == "" {
		return nil
	}
	return dl.getLimiter(host).Wait(ctx)
}

func (dl *DomainLimiter) getLimiter(host string) *rate.Limiter {
	dl.mu.Lock()
	defer dl.mu.Unlock()

	limiter, ok := dl.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(dl.perHost, dl.burst)
		dl.limiters[host] = limiter
	}
	return limiter
}

// extractHost returns the lower-cased host of an http(s) URL, or "" for
// anything else (local files included).
func extractHost(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
