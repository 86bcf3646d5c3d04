// Package ratelimit implements fixed-window request limits.
package ratelimit

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) bool
}

// Rule is a limit applied per key
type Rule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// Key joins the rule name and parts into a bucket key
func (r Rule) Key(parts ...string) string {
	return r.Name + ":" + strings.Join(parts, ":")
}

func (r Rule) Allow(ctx context.Context, limiter Limiter, parts ...string) bool {
	if limiter == nil || r.Limit <= 0 || r.Window <= 0 {
		return true
	}
	return limiter.Allow(ctx, r.Key(parts...), r.Limit, r.Window)
}

type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.windowEnd) {
		l.buckets[key] = &bucket{count: 1, windowEnd: now.Add(window)}
		l.sweep(now)
		return true
	}
	if b.count >= limit {
		return false
	}
	b.count++
	return true
}

// sweep drops expired buckets once the map grows; must hold mu
func (l *MemoryLimiter) sweep(now time.Time) {
	if len(l.buckets) < 10000 {
		return
	}
	for k, b := range l.buckets {
		if now.After(b.windowEnd) {
			delete(l.buckets, k)
		}
	}
}

// ClientIP is the peer address. The first X-Forwarded-For hop is used only
// when trustForwarded is set, i.e. a proxy in front rewrites the header.
func ClientIP(r *http.Request, trustForwarded bool) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); trustForwarded && forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
