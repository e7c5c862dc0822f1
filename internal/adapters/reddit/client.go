package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/metrics"
)

// Страница поиска не может быть больше 25 элементов — ограничение провайдера.
const maxPageLimit = 25

// Client выполняет поисковые запросы и листинг комментариев поверх
// авторизованной сессии и нормализует отказы транспорта.
type Client struct {
	sessions *SessionManager
	http     *http.Client
	cfg      Config
	retry    RetryConfig
	log      zerolog.Logger
}

var _ domain.SearchClient = (*Client)(nil)

// NewClient создаёт клиента эндпоинтов Reddit.
func NewClient(sessions *SessionManager, retry RetryConfig, logger zerolog.Logger) *Client {
	if retry.MaxAttempts < 1 {
		retry = DefaultRetryConfig()
	}
	return &Client{
		sessions: sessions,
		http:     &http.Client{Timeout: sessions.cfg.Timeout},
		cfg:      sessions.cfg,
		retry:    retry,
		log:      logger,
	}
}

type searchListing struct {
	Data struct {
		Children []struct {
			Data domain.RawPost `json:"data"`
		} `json:"children"`
		After string `json:"after"`
	} `json:"data"`
}

type commentListing struct {
	Data struct {
		Children []struct {
			Data domain.RawComment `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// SearchPage вызывает поиск по сабреддиту с обязательными параметрами:
// restrict_sr=1, include_over_18=false, sort=relevance.
func (c *Client) SearchPage(ctx context.Context, subreddit, query string, limit int, after string) (domain.ListingPage, error) {
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("restrict_sr", "1")
	params.Set("include_over_18", "false")
	params.Set("sort", "relevance")
	if after != "" {
		params.Set("after", after)
	}

	endpoint := fmt.Sprintf("%s/r/%s/search", c.cfg.BaseURL, url.PathEscape(subreddit))
	body, err := c.doGet(ctx, "search", subreddit, endpoint, params)
	if err != nil {
		return domain.ListingPage{}, err
	}

	var listing searchListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return domain.ListingPage{}, fmt.Errorf("decode search listing: %w", err)
	}
	page := domain.ListingPage{After: listing.Data.After}
	for _, child := range listing.Data.Children {
		page.Posts = append(page.Posts, child.Data)
	}
	return page, nil
}

// PaginateSearch обходит листинг по курсору, пока не наберёт limit постов
// или провайдер не вернёт пустой курсор. Каждая страница проходит через
// политику ретраев; ошибка после исчерпания попыток останавливает обход
// и отдаётся вызывающему.
func (c *Client) PaginateSearch(ctx context.Context, subreddit, query string, limit int) ([]domain.RawPost, error) {
	var collected []domain.RawPost
	remaining := limit
	after := ""
	for remaining > 0 {
		pageLimit := remaining
		if pageLimit > maxPageLimit {
			pageLimit = maxPageLimit
		}
		cursor := after
		page, err := withRetry(ctx, c.retry, c.log, "search", func() (domain.ListingPage, error) {
			return c.SearchPage(ctx, subreddit, query, pageLimit, cursor)
		})
		if err != nil {
			return nil, err
		}
		if len(page.Posts) == 0 {
			break
		}
		for _, post := range page.Posts {
			collected = append(collected, post)
			remaining--
			if remaining == 0 {
				break
			}
		}
		if page.After == "" {
			break
		}
		after = page.After
	}
	return collected, nil
}

// FetchComments возвращает верхнеуровневые комментарии поста (depth=1,
// sort=top). Ответ провайдера — массив из двух листингов, комментарии
// лежат во втором.
func (c *Client) FetchComments(ctx context.Context, postID string, limit int) ([]domain.RawComment, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("depth", "1")
	params.Set("sort", "top")

	endpoint := fmt.Sprintf("%s/comments/%s", c.cfg.BaseURL, url.PathEscape(postID))
	body, err := withRetry(ctx, c.retry, c.log, "comments", func() ([]byte, error) {
		return c.doGet(ctx, "comments", postID, endpoint, params)
	})
	if err != nil {
		return nil, err
	}

	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode comments payload: %w", err)
	}
	if len(payload) < 2 {
		return nil, nil
	}
	var listing commentListing
	if err := json.Unmarshal(payload[1], &listing); err != nil {
		return nil, fmt.Errorf("decode comment listing: %w", err)
	}
	comments := make([]domain.RawComment, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		comments = append(comments, child.Data)
	}
	return comments, nil
}

// doGet выполняет авторизованный GET и классифицирует отказ:
// 429 — RateLimitError, сетевые сбои и 5xx — RetryableFetchError,
// остальные статусы — обычная ошибка без ретрая.
func (c *Client) doGet(ctx context.Context, operation, target, endpoint string, params url.Values) ([]byte, error) {
	token, err := c.sessions.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.ObserveNetworkRequest("reddit_api", operation, target, start, err)
	if err != nil {
		return nil, &RetryableFetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RetryableFetchError{Endpoint: endpoint, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Endpoint: endpoint}
	case resp.StatusCode >= 500:
		return nil, &RetryableFetchError{Endpoint: endpoint, Status: resp.StatusCode}
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("reddit: unexpected status %d on %s", resp.StatusCode, endpoint)
	}
	return body, nil
}
