package domain

import (
	"time"

	"github.com/google/uuid"
)

// SourceReddit — метка происхождения данных во всех результатах выборки.
const SourceReddit = "reddit"

// SearchPlan описывает план поиска, подготовленный внешним планировщиком.
// План неизменяем: фетчер его только читает.
type SearchPlan struct {
	PlanID      uuid.UUID `json:"plan_id"`
	Query       string    `json:"query"`
	SearchTerms []string  `json:"search_terms"`
	Subreddits  []string  `json:"subreddits"`
	Notes       string    `json:"notes,omitempty"`
}

// Comment представляет верхнеуровневый комментарий принятого поста.
type Comment struct {
	CommentID    string    `json:"comment_id"`
	Body         string    `json:"body"`
	CommentKarma int       `json:"comment_karma"`
	FetchedAt    time.Time `json:"fetched_at"`
	Source       string    `json:"source"`
}

// Post представляет принятый пост Reddit вместе с отобранными комментариями.
// Пост попадает в результат только если прошёл все фильтры и сохранил
// хотя бы один комментарий.
type Post struct {
	ID              string    `json:"id"`
	Subreddit       string    `json:"subreddit"`
	Title           string    `json:"title"`
	Selftext        string    `json:"selftext"`
	PostKarma       int       `json:"post_karma"`
	RelevanceScore  float64   `json:"relevance_score"`
	MatchedKeywords []string  `json:"matched_keywords"`
	URL             string    `json:"url"`
	Comments        []Comment `json:"comments"`
	FetchedAt       time.Time `json:"fetched_at"`
	Source          string    `json:"source"`
}

// FetchResult — итоговый агрегат одного запуска фетчера.
// Посты глобально дедуплицированы по ID.
type FetchResult struct {
	Query       string    `json:"query"`
	PlanID      uuid.UUID `json:"plan_id"`
	SearchTerms []string  `json:"search_terms"`
	Subreddits  []string  `json:"subreddits"`
	Source      string    `json:"source"`
	FetchedAt   time.Time `json:"fetched_at"`
	Posts       []Post    `json:"posts"`
}
