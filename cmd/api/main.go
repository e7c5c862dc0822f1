package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/config"
	httpinfra "diy-workbench/internal/infra/http"
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

	jobQueue := buildQueue(cfg, logger)
	limits := fetchusecase.PlanLimits{
		AllowedSubreddits: cfg.Plan.AllowedSubreddits,
		MaxSubreddits:     cfg.Plan.MaxSubreddits,
		MaxSearchTerms:    cfg.Plan.MaxSearchTerms,
	}

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	srv.Router.Post("/api/v1/fetch", handleEnqueue(jobQueue, limits, cfg.Fetch.PostLimit, logger))

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("api: сервер остановился с ошибкой")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановлен")
}

// handleEnqueue принимает план поиска, нормализует его и ставит задачу
// в очередь фетчера.
func handleEnqueue(jobQueue domain.FetchQueue, limits fetchusecase.PlanLimits, postLimit int, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var plan domain.SearchPlan
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if plan.PlanID == uuid.Nil {
			plan.PlanID = uuid.New()
		}

		normalized, err := fetchusecase.NormalizePlan(plan, limits, logger)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		job := domain.FetchJob{
			ID:          uuid.NewString(),
			Plan:        normalized,
			PostLimit:   postLimit,
			RequestedAt: time.Now().UTC(),
			Cause:       domain.FetchCauseManual,
		}
		if err := jobQueue.Enqueue(r.Context(), job); err != nil {
			logger.Error().Err(err).Str("plan_id", normalized.PlanID.String()).Msg("api: не удалось поставить задачу в очередь")
			writeError(w, http.StatusBadGateway, "queue unavailable")
			return
		}

		logger.Info().
			Str("job_id", job.ID).
			Str("plan_id", normalized.PlanID.String()).
			Msg("api: задача поставлена в очередь")
		writeJSON(w, http.StatusAccepted, map[string]string{
			"job_id":  job.ID,
			"plan_id": normalized.PlanID.String(),
			"status":  "queued",
		})
	}
}

func buildQueue(cfg config.AppConfig, logger zerolog.Logger) domain.FetchQueue {
	if cfg.RabbitURL != "" {
		q, err := queue.NewRabbitFetchQueue(cfg.RabbitURL, cfg.RabbitManagementURL, cfg.Queues.Fetch)
		if err != nil {
			logger.Fatal().Err(err).Msg("api: не удалось инициализировать очередь RabbitMQ")
		}
		return q
	}
	if cfg.RedisAddr == "" {
		logger.Fatal().Msg("api: не задан ни RABBITMQ_URL, ни REDIS_ADDR")
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	return queue.NewRedisFetchQueue(client, cfg.Queues.Fetch)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
