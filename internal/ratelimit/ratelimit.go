// Package ratelimit 提供按调用方键控的进程内限流器。
// 仅作为滥用防护的软性手段，进程重启即复位，不承担任何正确性职责。
package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// 键数量上限，超过后整体复位，避免 map 无界增长
const maxKeys = 10000

// Limiter 按键维护独立的令牌桶
// 构造一次后以引用方式注入各处使用，不允许作为包级全局状态访问
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// New 构造 Limiter，requestsPerSecond 为每个键的稳态速率
func New(requestsPerSecond float64, burst int) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
	}
}

// Allow 判断指定键的一次请求是否放行
func (l *Limiter) Allow(key string) bool {
	return l.limiterFor(key).Allow()
}

func (l *Limiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.limiters) > maxKeys {
		l.limiters = make(map[string]*rate.Limiter)
	}

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}
