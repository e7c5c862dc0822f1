package domain

import (
	"context"
	"time"
)

// FetchJobCause описывает источник запроса на выборку.
type FetchJobCause string

const (
	// FetchCauseManual — план отправлен вручную через API.
	FetchCauseManual FetchJobCause = "manual"
	// FetchCauseScheduled — выборка запланирована внешним планировщиком.
	FetchCauseScheduled FetchJobCause = "scheduled"
)

// FetchJob содержит информацию о задаче на выполнение плана поиска.
type FetchJob struct {
	ID          string        `json:"job_id,omitempty"`
	Plan        SearchPlan    `json:"plan"`
	PostLimit   int           `json:"post_limit,omitempty"`
	RequestedAt time.Time     `json:"requested_at"`
	Cause       FetchJobCause `json:"cause"`
}

// FetchQueue описывает очередь задач на выборку.
type FetchQueue interface {
	Enqueue(ctx context.Context, job FetchJob) error
	Pop(ctx context.Context) (FetchJob, error)
}

// ResultSink принимает готовый FetchResult для внешнего куратора.
type ResultSink interface {
	Publish(ctx context.Context, result FetchResult) error
}
