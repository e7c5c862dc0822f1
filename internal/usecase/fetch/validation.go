package fetch

import (
	"strings"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/metrics"
)

const autoModeratorName = "AutoModerator"

// IsDeletedOrRemoved распознаёт удалённый или вычищенный модерацией текст.
// Пустое значение и явные маркеры считаются эквивалентными.
func IsDeletedOrRemoved(text string) bool {
	normalized := strings.ToLower(strings.TrimSpace(text))
	return normalized == "" || normalized == "[deleted]" || normalized == "[removed]"
}

// IsAutoModerator проверяет автора на системного бота.
func IsAutoModerator(author string) bool {
	return author == autoModeratorName
}

// IsAdsUI сообщает, что пост создан через рекламный интерфейс.
func IsAdsUI(raw domain.RawPost) bool {
	return raw.CreatedFromAdsUI
}

// IsSelfPost принимает текстовые посты, а также картинки и галереи:
// у них тоже бывают содержательные обсуждения в комментариях.
func IsSelfPost(raw domain.RawPost) bool {
	return raw.IsSelf || hasImageHint(raw)
}

// IsNSFW проверяет флаг over_18.
func IsNSFW(raw domain.RawPost) bool {
	return raw.Over18
}

func hasImageHint(raw domain.RawPost) bool {
	return strings.EqualFold(raw.PostHint, "image") || raw.IsGallery
}

// Validator применяет метаданные-вето до очистки текста и скоринга.
type Validator struct {
	showcaseKeywords []string
	showcaseKarma    int
	log              zerolog.Logger
}

// NewValidator создаёт валидатор с порогом кармы для showcase-эвристики.
func NewValidator(showcaseKarma int, logger zerolog.Logger) *Validator {
	if showcaseKarma <= 0 {
		showcaseKarma = DefaultShowcaseKarmaThreshold
	}
	group := DefaultNegativeGroup()
	keywords := make([]string, 0, len(group.Keywords))
	for _, kw := range group.Keywords {
		keywords = append(keywords, strings.ToLower(kw))
	}
	return &Validator{
		showcaseKeywords: keywords,
		showcaseKarma:    showcaseKarma,
		log:              logger,
	}
}

// IsShowcase распознаёт «похвастаться готовой работой»: визуальный пост
// с хвастливой фразой и высокой кармой. Все три признака обязательны.
func (v *Validator) IsShowcase(raw domain.RawPost) bool {
	if !hasImageHint(raw) {
		return false
	}
	text := strings.ToLower(raw.Title + " " + raw.Selftext)
	found := false
	for _, kw := range v.showcaseKeywords {
		if strings.Contains(text, kw) {
			found = true
			break
		}
	}
	if !found {
		return false
	}
	return raw.Score >= v.showcaseKarma
}

// PassesPostValidation прогоняет пост через вето-проверки в фиксированном
// порядке; первая сработавшая логируется с причиной, остальные не
// вычисляются.
func (v *Validator) PassesPostValidation(raw domain.RawPost) bool {
	switch {
	case IsDeletedOrRemoved(raw.Selftext):
		v.reject(raw, "deleted_or_removed")
		return false
	case IsAutoModerator(raw.Author):
		v.reject(raw, "automoderator")
		return false
	case IsAdsUI(raw):
		v.reject(raw, "ads_ui")
		return false
	case !IsSelfPost(raw):
		v.reject(raw, "non_self_post")
		return false
	case v.IsShowcase(raw):
		v.reject(raw, "showcase_post")
		return false
	case IsNSFW(raw):
		v.reject(raw, "nsfw")
		return false
	}
	return true
}

func (v *Validator) reject(raw domain.RawPost, reason string) {
	metrics.IncPostRejected(reason)
	v.log.Info().
		Str("post_id", raw.ID).
		Str("subreddit", raw.Subreddit).
		Str("reason", reason).
		Msg("fetch: пост отклонён валидацией")
}
