package rate

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLimiter: fixed window en memoria con go-cache.
// Cada clave de ventana expira sola al terminar la ventana.
type MemoryLimiter struct {
	store  *cache.Cache
	prefix string
	max    int64
	window time.Duration
	now    func() time.Time
}

func NewMemoryLimiter(prefix string, max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		store:  cache.New(window, 2*window),
		prefix: prefix,
		max:    int64(max),
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := l.now().UTC()
	k, start := windowKey(l.prefix, key, l.window, now)
	ttl := start.Add(l.window).Sub(now)

	hits := int64(1)
	if err := l.store.Add(k, hits, ttl); err != nil {
		// ya existe: incrementar
		n, err := l.store.IncrementInt64(k, 1)
		if err != nil {
			return Result{}, err
		}
		hits = n
	}
	return result(l.max, hits, ttl), nil
}
