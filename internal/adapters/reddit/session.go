package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"diy-workbench/internal/infra/metrics"
)

const (
	defaultTokenURL  = "https://www.reddit.com/api/v1/access_token"
	defaultBaseURL   = "https://oauth.reddit.com"
	defaultUserAgent = "WorkbenchFetcher/1.0"
)

// Config описывает параметры доступа к Reddit API.
type Config struct {
	ClientID           string
	ClientSecret       string
	UserAgent          string
	TokenURL           string
	BaseURL            string
	Timeout            time.Duration
	TokenRefreshBuffer time.Duration
}

// SessionManager владеет OAuth-токеном и обновляет его до истечения срока.
// Обновления сериализованы мьютексом: при конкурентном обнаружении
// истёкшего токена выполняется ровно один обмен.
type SessionManager struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewSessionManager создаёт менеджер сессии с дефолтами провайдера.
func NewSessionManager(cfg Config, logger zerolog.Logger) *SessionManager {
	if cfg.TokenURL == "" {
		cfg.TokenURL = defaultTokenURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.TokenRefreshBuffer <= 0 {
		cfg.TokenRefreshBuffer = time.Minute
	}
	return &SessionManager{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  logger,
	}
}

// Token возвращает действующий access token, при необходимости выполняя
// client-credentials обмен. Безопасен для конкурентных вызовов.
func (m *SessionManager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token != "" && time.Now().UTC().Before(m.expiry) {
		return m.token, nil
	}
	return m.refreshLocked(ctx)
}

func (m *SessionManager) refreshLocked(ctx context.Context) (string, error) {
	if m.cfg.ClientID == "" || m.cfg.ClientSecret == "" {
		return "", &AuthError{Reason: "missing client credentials"}
	}

	m.log.Info().Msg("reddit: обновляем OAuth токен")

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Reason: "build token request", Err: err}
	}
	req.SetBasicAuth(m.cfg.ClientID, m.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", m.cfg.UserAgent)

	start := time.Now()
	resp, err := m.http.Do(req)
	metrics.ObserveNetworkRequest("reddit_api", "token_exchange", "oauth", start, err)
	if err != nil {
		return "", &AuthError{Reason: "token exchange failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &AuthError{Reason: "read token response", Err: err}
	}
	if resp.StatusCode >= 300 {
		return "", &AuthError{Reason: fmt.Sprintf("token endpoint returned status %d", resp.StatusCode)}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", &AuthError{Reason: "decode token response", Err: err}
	}
	if payload.AccessToken == "" {
		return "", &AuthError{Reason: "missing access_token in response"}
	}
	expiresIn := payload.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	m.token = payload.AccessToken
	m.expiry = time.Now().UTC().Add(time.Duration(expiresIn)*time.Second - m.cfg.TokenRefreshBuffer)
	m.log.Info().Time("expiry", m.expiry).Msg("reddit: сессия авторизована")
	return m.token, nil
}
