package reddit

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// RetryConfig задаёт параметры экспоненциального бэкоффа с джиттером.
type RetryConfig struct {
	MaxAttempts    int
	WaitMultiplier time.Duration
	WaitMax        time.Duration
}

// DefaultRetryConfig повторяет параметры политики по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, WaitMultiplier: time.Second, WaitMax: 15 * time.Second}
}

// withRetry выполняет операцию с ретраями для RateLimitError и
// RetryableFetchError. Остальные ошибки прерывают повторы сразу;
// после исчерпания попыток возвращается последняя ошибка без обёртки.
func withRetry[T any](ctx context.Context, cfg RetryConfig, log zerolog.Logger, op string, fn func() (T, error)) (T, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.WaitMultiplier
	policy.MaxInterval = cfg.WaitMax
	policy.MaxElapsedTime = 0

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetryable(err) {
			var zero T
			return zero, backoff.Permanent(err)
		}
		log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("reddit: временный сбой, попробуем ещё раз")
		var zero T
		return zero, err
	}

	return backoff.RetryWithData(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx))
}
