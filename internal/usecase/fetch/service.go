package fetch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/metrics"
)

// Config задаёт пороги и параллелизм пайплайна выборки.
type Config struct {
	Workers                int
	Concurrent             bool
	CommentLimit           int
	MinPostLength          int
	MinCommentLength       int
	MinCommentKarma        int
	MaxCommentsPerPost     int
	MinPostScore           float64
	ShowcaseKarmaThreshold int
	RunTimeout             time.Duration
}

// DefaultConfig возвращает пороги пайплайна по умолчанию.
func DefaultConfig() Config {
	return Config{
		Workers:                3,
		Concurrent:             true,
		CommentLimit:           50,
		MinPostLength:          250,
		MinCommentLength:       140,
		MinCommentKarma:        2,
		MaxCommentsPerPost:     5,
		MinPostScore:           DefaultMinPostScore,
		ShowcaseKarmaThreshold: DefaultShowcaseKarmaThreshold,
	}
}

// Service исполняет план поиска: обходит пары (сабреддит, запрос),
// прогоняет посты через валидацию, скоринг и пайплайн комментариев и
// собирает глобально дедуплицированный результат.
type Service struct {
	client    domain.SearchClient
	validator *Validator
	scorer    *Scorer
	comments  *CommentPipeline
	cfg       Config
	log       zerolog.Logger
}

var _ domain.Fetcher = (*Service)(nil)

// NewService создаёт пайплайн выборки поверх поискового клиента.
func NewService(client domain.SearchClient, cfg Config, logger zerolog.Logger) *Service {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.CommentLimit <= 0 {
		cfg.CommentLimit = defaults.CommentLimit
	}
	if cfg.MinPostLength <= 0 {
		cfg.MinPostLength = defaults.MinPostLength
	}
	if cfg.MinCommentLength <= 0 {
		cfg.MinCommentLength = defaults.MinCommentLength
	}
	if cfg.MaxCommentsPerPost <= 0 {
		cfg.MaxCommentsPerPost = defaults.MaxCommentsPerPost
	}
	if cfg.MinPostScore <= 0 {
		cfg.MinPostScore = defaults.MinPostScore
	}
	if cfg.ShowcaseKarmaThreshold <= 0 {
		cfg.ShowcaseKarmaThreshold = defaults.ShowcaseKarmaThreshold
	}
	return &Service{
		client:    client,
		validator: NewValidator(cfg.ShowcaseKarmaThreshold, logger),
		scorer:    NewScorer(DefaultKeywordGroups(), DefaultNegativeGroup(), cfg.MinPostScore, logger),
		comments:  NewCommentPipeline(cfg.MinCommentKarma, cfg.MinCommentLength, cfg.MaxCommentsPerPost, logger),
		cfg:       cfg,
		log:       logger,
	}
}

type searchPair struct {
	subreddit string
	term      string
}

type pairResult struct {
	pair  searchPair
	posts []domain.Post
	err   error
}

// Fetch исполняет план. Пары обрабатываются пулом горутин, ограниченным
// семафором; слияние результатов и глобальная дедупликация выполняются
// строго в одной горутине. Ошибка отдельной пары логируется и даёт
// пустой вклад; фатальная ошибка авторизации прерывает весь запуск.
func (s *Service) Fetch(ctx context.Context, plan domain.SearchPlan, postLimit int) (domain.FetchResult, error) {
	start := time.Now()
	defer func() {
		metrics.FetchRunSeconds.Observe(time.Since(start).Seconds())
	}()

	if postLimit <= 0 {
		postLimit = 25
	}
	if s.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RunTimeout)
		defer cancel()
	}

	workers := s.cfg.Workers
	if !s.cfg.Concurrent {
		workers = 1
	}

	var pairs []searchPair
	for _, subreddit := range plan.Subreddits {
		for _, term := range plan.SearchTerms {
			pairs = append(pairs, searchPair{subreddit: subreddit, term: term})
		}
	}
	s.log.Info().
		Str("plan_id", plan.PlanID.String()).
		Int("pairs", len(pairs)).
		Int("workers", workers).
		Msg("fetch: запуск плана")

	results := make(chan pairResult)
	go func() {
		defer close(results)
		sem := make(chan struct{}, workers)
		var wg sync.WaitGroup
		for _, p := range pairs {
			p := p
			sem <- struct{}{}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				posts, err := s.fetchPair(ctx, p, postLimit)
				results <- pairResult{pair: p, posts: posts, err: err}
			}()
		}
		wg.Wait()
	}()

	// Единственный потребитель канала: только здесь трогаем общий
	// набор просмотренных ID. Побеждает первый завершившийся воркер.
	seen := make(map[string]struct{})
	var posts []domain.Post
	var authErr error
	for res := range results {
		metrics.FetchPairsTotal.Inc()
		if res.err != nil {
			metrics.FetchPairErrors.Inc()
			if errors.Is(res.err, domain.ErrAuth) && authErr == nil {
				authErr = res.err
			}
			s.log.Warn().
				Err(res.err).
				Str("subreddit", res.pair.subreddit).
				Str("term", res.pair.term).
				Msg("fetch: пара завершилась ошибкой, продолжаем без неё")
			continue
		}
		for _, post := range res.posts {
			if _, ok := seen[post.ID]; ok {
				s.log.Debug().Str("post_id", post.ID).Msg("fetch: глобальный дубликат отброшен")
				continue
			}
			seen[post.ID] = struct{}{}
			posts = append(posts, post)
		}
	}
	if authErr != nil {
		return domain.FetchResult{}, fmt.Errorf("выполнение плана %s: %w", plan.PlanID, authErr)
	}

	result := domain.FetchResult{
		Query:       plan.Query,
		PlanID:      plan.PlanID,
		SearchTerms: plan.SearchTerms,
		Subreddits:  plan.Subreddits,
		Source:      domain.SourceReddit,
		FetchedAt:   time.Now().UTC(),
		Posts:       posts,
	}
	s.log.Info().
		Str("plan_id", plan.PlanID.String()).
		Int("posts", len(posts)).
		Dur("elapsed", time.Since(start)).
		Msg("fetch: план выполнен")
	return result, nil
}

// fetchPair обрабатывает одну пару (сабреддит, запрос) изолированно,
// со своим локальным набором просмотренных ID.
func (s *Service) fetchPair(ctx context.Context, p searchPair, postLimit int) ([]domain.Post, error) {
	rawPosts, err := s.client.PaginateSearch(ctx, p.subreddit, p.term, postLimit)
	if err != nil {
		return nil, fmt.Errorf("поиск r/%s %q: %w", p.subreddit, p.term, err)
	}

	seen := make(map[string]struct{}, len(rawPosts))
	var accepted []domain.Post
	for _, raw := range rawPosts {
		if raw.ID == "" {
			continue
		}
		if _, ok := seen[raw.ID]; ok {
			s.log.Debug().Str("post_id", raw.ID).Msg("fetch: дубликат внутри пары")
			continue
		}
		seen[raw.ID] = struct{}{}

		post, ok, err := s.processPost(ctx, raw)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		accepted = append(accepted, post)
	}
	return accepted, nil
}

// processPost прогоняет пост через все стадии: валидация метаданных,
// очистка текста, скоринг, фильтр длины, комментарии, сборка модели.
// Ошибка возвращается только для фатального сбоя авторизации; любой
// другой отказ роняет только этот пост.
func (s *Service) processPost(ctx context.Context, raw domain.RawPost) (domain.Post, bool, error) {
	if !s.validator.PassesPostValidation(raw) {
		return domain.Post{}, false, nil
	}

	cleanedTitle := CleanText(raw.Title)
	cleanedBody := CleanText(raw.Selftext)

	rel := s.scorer.Evaluate(raw.ID, cleanedTitle, cleanedBody)
	if !rel.Passed {
		metrics.IncPostRejected("relevance")
		return domain.Post{}, false, nil
	}

	if IsPostTooShort(cleanedBody, s.cfg.MinPostLength) {
		metrics.IncPostRejected("too_short")
		s.log.Info().
			Str("post_id", raw.ID).
			Str("reason", "too_short").
			Msg("fetch: пост отклонён")
		return domain.Post{}, false, nil
	}

	rawComments, err := s.client.FetchComments(ctx, raw.ID, s.cfg.CommentLimit)
	if err != nil {
		if errors.Is(err, domain.ErrAuth) {
			return domain.Post{}, false, fmt.Errorf("комментарии поста %s: %w", raw.ID, err)
		}
		metrics.IncPostRejected("comments_failed")
		s.log.Warn().
			Err(err).
			Str("post_id", raw.ID).
			Msg("fetch: не удалось получить комментарии, пост отброшен")
		return domain.Post{}, false, nil
	}

	fetchedAt := time.Now().UTC()
	comments := s.comments.Filter(raw.ID, rawComments, fetchedAt)
	if len(comments) == 0 {
		metrics.IncPostRejected("no_comments")
		s.log.Info().
			Str("post_id", raw.ID).
			Str("reason", "no_comments").
			Msg("fetch: пост отклонён")
		return domain.Post{}, false, nil
	}

	metrics.PostsAcceptedTotal.Inc()
	return BuildPost(raw, cleanedTitle, cleanedBody, rel, comments, fetchedAt), true, nil
}
