package fetch

import (
	"strings"
	"time"

	"diy-workbench/internal/domain"
)

// BuildComment собирает доменную модель комментария из очищенного текста.
func BuildComment(commentID, cleanedBody string, karma int, fetchedAt time.Time) domain.Comment {
	return domain.Comment{
		CommentID:    commentID,
		Body:         cleanedBody,
		CommentKarma: karma,
		FetchedAt:    fetchedAt,
		Source:       domain.SourceReddit,
	}
}

// BuildPost собирает доменную модель принятого поста.
func BuildPost(raw domain.RawPost, cleanedTitle, cleanedBody string, rel Relevance, comments []domain.Comment, fetchedAt time.Time) domain.Post {
	return domain.Post{
		ID:              raw.ID,
		Subreddit:       NormalizeSubreddit(raw.Subreddit),
		Title:           cleanedTitle,
		Selftext:        cleanedBody,
		PostKarma:       raw.Score,
		RelevanceScore:  rel.Score,
		MatchedKeywords: rel.Positive,
		URL:             PostPermalink(raw),
		Comments:        comments,
		FetchedAt:       fetchedAt,
		Source:          domain.SourceReddit,
	}
}

// PostPermalink строит канонический URL поста: относительный permalink
// дополняется хостом, абсолютный берётся как есть; при отсутствии
// permalink используется поле url, иначе — синтетическая ссылка по ID.
func PostPermalink(raw domain.RawPost) string {
	if raw.Permalink != "" {
		if strings.HasPrefix(raw.Permalink, "http") {
			return raw.Permalink
		}
		return "https://www.reddit.com/" + strings.TrimLeft(raw.Permalink, "/")
	}
	if strings.HasPrefix(raw.URL, "http") {
		return raw.URL
	}
	return "https://www.reddit.com/comments/" + raw.ID
}

// NormalizeSubreddit приводит имя к нижнему регистру и снимает префикс r/.
func NormalizeSubreddit(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(normalized, "r/")
}
