package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"diy-workbench/internal/adapters/reddit"
	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/config"
	applog "diy-workbench/internal/infra/log"
	"diy-workbench/internal/infra/metrics"
	"diy-workbench/internal/infra/queue"
	fetchusecase "diy-workbench/internal/usecase/fetch"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)
	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), ":9090")

	if cfg.Reddit.ClientID == "" || cfg.Reddit.ClientSecret == "" {
		logger.Fatal().Msg("fetcher: не заданы REDDIT_CLIENT_ID и REDDIT_CLIENT_SECRET")
	}

	sessions := reddit.NewSessionManager(reddit.Config{
		ClientID:           cfg.Reddit.ClientID,
		ClientSecret:       cfg.Reddit.ClientSecret,
		UserAgent:          cfg.Reddit.UserAgent,
		TokenURL:           cfg.Reddit.TokenURL,
		BaseURL:            cfg.Reddit.BaseURL,
		Timeout:            cfg.Reddit.Timeout,
		TokenRefreshBuffer: cfg.Reddit.TokenRefreshBuffer,
	}, logger.With().Str("component", "reddit").Logger())
	client := reddit.NewClient(sessions, reddit.RetryConfig{
		MaxAttempts:    cfg.Retry.MaxAttempts,
		WaitMultiplier: cfg.Retry.WaitMultiplier,
		WaitMax:        cfg.Retry.WaitMax,
	}, logger.With().Str("component", "reddit").Logger())

	service := fetchusecase.NewService(client, fetchusecase.Config{
		Workers:                cfg.Fetch.Workers,
		Concurrent:             cfg.Fetch.Concurrent,
		CommentLimit:           cfg.Fetch.CommentLimit,
		MinPostLength:          cfg.Fetch.MinPostLength,
		MinCommentLength:       cfg.Fetch.MinCommentLength,
		MinCommentKarma:        cfg.Fetch.MinCommentKarma,
		MaxCommentsPerPost:     cfg.Fetch.MaxCommentsPerPost,
		MinPostScore:           cfg.Fetch.MinPostScore,
		ShowcaseKarmaThreshold: cfg.Fetch.ShowcaseKarmaThreshold,
		RunTimeout:             cfg.Fetch.RunTimeout,
	}, logger.With().Str("component", "fetch").Logger())

	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("fetcher: не задан REDIS_ADDR для публикации результатов")
	}
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	sink := queue.NewRedisResultSink(redisClient, cfg.Queues.Results)

	worker := &jobWorker{
		log:       logger,
		queue:     buildQueue(cfg, redisClient),
		sink:      sink,
		service:   service,
		postLimit: cfg.Fetch.PostLimit,
		limits: fetchusecase.PlanLimits{
			AllowedSubreddits: cfg.Plan.AllowedSubreddits,
			MaxSubreddits:     cfg.Plan.MaxSubreddits,
			MaxSearchTerms:    cfg.Plan.MaxSearchTerms,
		},
	}

	logger.Info().Msg("fetcher: запуск обработки очереди")
	worker.Run(ctx)
	logger.Info().Msg("fetcher: остановлен")
}

func buildQueue(cfg config.AppConfig, redisClient *redis.Client) domain.FetchQueue {
	if cfg.RabbitURL != "" {
		q, err := queue.NewRabbitFetchQueue(cfg.RabbitURL, cfg.RabbitManagementURL, cfg.Queues.Fetch)
		if err == nil {
			return q
		}
	}
	return queue.NewRedisFetchQueue(redisClient, cfg.Queues.Fetch)
}

// jobWorker последовательно обрабатывает задачи из очереди: нормализует
// план, выполняет выборку и публикует результат во внешний sink.
type jobWorker struct {
	log       zerolog.Logger
	queue     domain.FetchQueue
	sink      domain.ResultSink
	service   domain.Fetcher
	limits    fetchusecase.PlanLimits
	postLimit int
}

func (w *jobWorker) Run(ctx context.Context) {
	for {
		job, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return
			}
			w.log.Error().Err(err).Msg("fetcher: ошибка чтения очереди")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		jobLog := w.log.With().
			Str("job_id", job.ID).
			Str("plan_id", job.Plan.PlanID.String()).
			Str("cause", string(job.Cause)).
			Logger()
		w.handleJob(ctx, job, jobLog)
	}
}

func (w *jobWorker) handleJob(ctx context.Context, job domain.FetchJob, jobLog zerolog.Logger) {
	plan, err := fetchusecase.NormalizePlan(job.Plan, w.limits, jobLog)
	if err != nil {
		jobLog.Error().Err(err).Msg("fetcher: план отклонён")
		return
	}

	limit := job.PostLimit
	if limit <= 0 {
		limit = w.postLimit
	}

	result, err := w.service.Fetch(ctx, plan, limit)
	if err != nil {
		jobLog.Error().Err(err).Msg("fetcher: выборка не удалась")
		return
	}

	if err := w.sink.Publish(ctx, result); err != nil {
		jobLog.Error().Err(err).Msg("fetcher: не удалось опубликовать результат")
		return
	}
	jobLog.Info().Int("posts", len(result.Posts)).Msg("fetcher: результат опубликован")
}
