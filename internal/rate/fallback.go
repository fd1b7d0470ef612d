package rate

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellojane/internal/observability/logger"
)

// FallbackLimiter usa Primary (Redis) y, si falla, Secondary (memoria).
// Una caída de Redis no bloquea requests ni los deja sin límite.
type FallbackLimiter struct {
	Primary   Limiter
	Secondary Limiter
	Log       *zap.Logger
}

func (f *FallbackLimiter) Allow(ctx context.Context, key string) (Result, error) {
	res, err := f.Primary.Allow(ctx, key)
	if err == nil {
		return res, nil
	}
	log := f.Log
	if log == nil {
		log = logger.From(ctx)
	}
	log.Warn("rate limiter primary failed, using fallback", logger.Err(err))
	return f.Secondary.Allow(ctx, key)
}
