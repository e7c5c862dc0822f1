package reddit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		WaitMultiplier: time.Millisecond,
		WaitMax:        time.Millisecond,
	}
}

func TestWithRetrySucceedsAfterTransientFailure(t *testing.T) {
	calls := 0
	result, err := withRetry(context.Background(), fastRetryConfig(3), zerolog.Nop(), "test", func() (string, error) {
		calls++
		if calls < 3 {
			return "", &RetryableFetchError{Endpoint: "/x", Status: 502}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if result != "ok" || calls != 3 {
		t.Fatalf("ожидали успех с третьей попытки, result=%q calls=%d", result, calls)
	}
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := withRetry(context.Background(), fastRetryConfig(3), zerolog.Nop(), "test", func() (string, error) {
		calls++
		return "", &RateLimitError{Endpoint: "/x"}
	})
	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("после исчерпания попыток возвращается последняя ошибка, получили %v", err)
	}
	if calls != 3 {
		t.Fatalf("ожидали 3 попытки, получили %d", calls)
	}
}

func TestWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := errors.New("bad request")
	_, err := withRetry(context.Background(), fastRetryConfig(5), zerolog.Nop(), "test", func() (string, error) {
		calls++
		return "", permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("ожидали исходную ошибку, получили %v", err)
	}
	if calls != 1 {
		t.Fatalf("неретраибельная ошибка не должна повторяться, попыток %d", calls)
	}
}

func TestWithRetryRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := withRetry(ctx, fastRetryConfig(3), zerolog.Nop(), "test", func() (string, error) {
		return "", &RetryableFetchError{Endpoint: "/x", Status: 502}
	})
	if err == nil {
		t.Fatalf("отменённый контекст должен прерывать ретраи")
	}
}
