package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig описывает конфигурацию сервисов.
type AppConfig struct {
	AppEnv string `envconfig:"APP_ENV" default:"dev"`
	TZ     string `envconfig:"TZ" default:"Europe/Amsterdam"`
	Port   int    `envconfig:"PORT" default:"8080"`

	Reddit struct {
		ClientID           string        `envconfig:"REDDIT_CLIENT_ID"`
		ClientSecret       string        `envconfig:"REDDIT_CLIENT_SECRET"`
		UserAgent          string        `envconfig:"REDDIT_USER_AGENT" default:"WorkbenchFetcher/1.0"`
		TokenURL           string        `envconfig:"REDDIT_TOKEN_URL" default:"https://www.reddit.com/api/v1/access_token"`
		BaseURL            string        `envconfig:"REDDIT_BASE_URL" default:"https://oauth.reddit.com"`
		Timeout            time.Duration `envconfig:"REDDIT_TIMEOUT" default:"10s"`
		TokenRefreshBuffer time.Duration `envconfig:"REDDIT_TOKEN_REFRESH_BUFFER" default:"60s"`
	} `envconfig:""`

	Retry struct {
		MaxAttempts    int           `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`
		WaitMultiplier time.Duration `envconfig:"RETRY_WAIT_MULTIPLIER" default:"1s"`
		WaitMax        time.Duration `envconfig:"RETRY_WAIT_MAX" default:"15s"`
	} `envconfig:""`

	Fetch struct {
		Workers                int           `envconfig:"FETCH_WORKERS" default:"3"`
		Concurrent             bool          `envconfig:"FETCH_CONCURRENT" default:"true"`
		PostLimit              int           `envconfig:"FETCH_POST_LIMIT" default:"25"`
		CommentLimit           int           `envconfig:"FETCH_COMMENT_LIMIT" default:"50"`
		MinPostLength          int           `envconfig:"MIN_POST_LENGTH" default:"250"`
		MinCommentLength       int           `envconfig:"MIN_COMMENT_LENGTH" default:"140"`
		MinCommentKarma        int           `envconfig:"MIN_COMMENT_KARMA" default:"2"`
		MaxCommentsPerPost     int           `envconfig:"MAX_COMMENTS_PER_POST" default:"5"`
		MinPostScore           float64       `envconfig:"MIN_POST_SCORE" default:"6.0"`
		ShowcaseKarmaThreshold int           `envconfig:"SHOWCASE_KARMA_THRESHOLD" default:"150"`
		RunTimeout             time.Duration `envconfig:"FETCH_RUN_TIMEOUT" default:"0s"`
	} `envconfig:""`

	Plan struct {
		AllowedSubreddits []string `envconfig:"ALLOWED_SUBREDDITS" default:"diy,homeimprovement,woodworking"`
		MaxSubreddits     int      `envconfig:"MAX_SUBREDDITS" default:"3"`
		MaxSearchTerms    int      `envconfig:"MAX_SEARCH_TERMS" default:"5"`
	} `envconfig:""`

	RedisAddr string `envconfig:"REDIS_ADDR"`

	RabbitURL           string `envconfig:"RABBITMQ_URL"`
	RabbitManagementURL string `envconfig:"RABBITMQ_MANAGEMENT_URL"`

	Queues struct {
		Fetch   string `envconfig:"FETCH_QUEUE_KEY" default:"fetch_jobs"`
		Results string `envconfig:"FETCH_RESULTS_KEY" default:"fetch_results"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	return cfg
}
