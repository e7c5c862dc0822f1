package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	FetchPairsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_pairs_total",
		Help: "Количество обработанных пар (сабреддит, поисковый запрос)",
	})
	FetchPairErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fetch_pair_errors_total",
		Help: "Ошибки выборки на уровне пары после исчерпания ретраев",
	})
	FetchRunSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fetch_run_seconds",
		Help:    "Время полного выполнения плана поиска",
		Buckets: prometheus.DefBuckets,
	})
	PostsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posts_accepted_total",
		Help: "Посты, прошедшие все стадии фильтрации",
	})
	PostsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_rejected_total",
		Help: "Отклонённые посты по причинам",
	}, []string{"reason"})
	CommentsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "comments_rejected_total",
		Help: "Отклонённые комментарии по причинам",
	}, []string{"reason"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		FetchPairsTotal,
		FetchPairErrors,
		FetchRunSeconds,
		PostsAcceptedTotal,
		PostsRejectedTotal,
		CommentsRejectedTotal,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// IncPostRejected увеличивает счётчик отклонённых постов.
func IncPostRejected(reason string) {
	PostsRejectedTotal.WithLabelValues(reason).Inc()
}

// IncCommentRejected увеличивает счётчик отклонённых комментариев.
func IncCommentRejected(reason string) {
	CommentsRejectedTotal.WithLabelValues(reason).Inc()
}
