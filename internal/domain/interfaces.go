package domain

import "context"

// SearchClient выполняет запросы к Reddit API поверх авторизованной сессии.
type SearchClient interface {
	// PaginateSearch обходит страницы поиска по курсору, пока не наберёт
	// limit постов или провайдер не сообщит об отсутствии следующей страницы.
	PaginateSearch(ctx context.Context, subreddit, query string, limit int) ([]RawPost, error)
	// FetchComments возвращает верхнеуровневые комментарии поста.
	FetchComments(ctx context.Context, postID string, limit int) ([]RawComment, error)
}

// Fetcher превращает план поиска в итоговый результат выборки.
type Fetcher interface {
	Fetch(ctx context.Context, plan SearchPlan, postLimit int) (FetchResult, error)
}
