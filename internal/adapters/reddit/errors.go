package reddit

import (
	"errors"
	"fmt"

	"diy-workbench/internal/domain"
)

// AuthError — фатальная ошибка авторизации: без валидной сессии выборка
// невозможна, поэтому ошибка не ретраится и прерывает весь запуск.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reddit auth: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("reddit auth: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is позволяет распознавать ошибку через errors.Is(err, domain.ErrAuth).
func (e *AuthError) Is(target error) bool { return target == domain.ErrAuth }

// RateLimitError возвращается при ответе 429; подлежит ретраю.
type RateLimitError struct {
	Endpoint string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("reddit: rate limited (429) on %s", e.Endpoint)
}

// RetryableFetchError покрывает временные транспортные сбои: таймауты,
// обрывы соединения и ответы 5xx.
type RetryableFetchError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RetryableFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reddit: transient failure on %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("reddit: server error %d on %s", e.Status, e.Endpoint)
}

func (e *RetryableFetchError) Unwrap() error { return e.Err }

// IsRetryable сообщает, имеет ли смысл повторять операцию.
func IsRetryable(err error) bool {
	var rateLimit *RateLimitError
	var transient *RetryableFetchError
	return errors.As(err, &rateLimit) || errors.As(err, &transient)
}

// IsAuthError сообщает, что ошибка фатальна для всего запуска.
func IsAuthError(err error) bool {
	var auth *AuthError
	return errors.As(err, &auth)
}
