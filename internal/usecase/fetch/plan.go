package fetch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
)

// ErrInvalidPlan возвращается для плана, который нельзя исполнить.
var ErrInvalidPlan = errors.New("некорректный план поиска")

// PlanLimits описывает ограничения на план: разрешённый набор
// сабреддитов и максимальные размеры списков.
type PlanLimits struct {
	AllowedSubreddits []string
	MaxSubreddits     int
	MaxSearchTerms    int
}

// DefaultPlanLimits возвращает ограничения по умолчанию.
func DefaultPlanLimits() PlanLimits {
	return PlanLimits{
		AllowedSubreddits: []string{"diy", "homeimprovement", "woodworking"},
		MaxSubreddits:     3,
		MaxSearchTerms:    5,
	}
}

// NormalizePlan проверяет и нормализует план: непустые дедуплицированные
// поисковые запросы и сабреддиты из разрешённого набора. Избыточные
// элементы отбрасываются с предупреждением, пустые списки — ошибка.
func NormalizePlan(plan domain.SearchPlan, limits PlanLimits, logger zerolog.Logger) (domain.SearchPlan, error) {
	if plan.PlanID == uuid.Nil {
		return domain.SearchPlan{}, fmt.Errorf("%w: пустой plan_id", ErrInvalidPlan)
	}
	if limits.MaxSearchTerms <= 0 {
		limits.MaxSearchTerms = 5
	}
	if limits.MaxSubreddits <= 0 {
		limits.MaxSubreddits = 3
	}

	terms := dedupeStrings(plan.SearchTerms, strings.ToLower)
	if len(terms) == 0 {
		return domain.SearchPlan{}, fmt.Errorf("%w: пустой список поисковых запросов", ErrInvalidPlan)
	}
	if len(terms) > limits.MaxSearchTerms {
		logger.Warn().
			Str("plan_id", plan.PlanID.String()).
			Int("dropped", len(terms)-limits.MaxSearchTerms).
			Msg("fetch: план содержит лишние поисковые запросы, усечён")
		terms = terms[:limits.MaxSearchTerms]
	}

	allowed := make(map[string]struct{}, len(limits.AllowedSubreddits))
	for _, sub := range limits.AllowedSubreddits {
		allowed[NormalizeSubreddit(sub)] = struct{}{}
	}

	var subreddits []string
	seenSubs := make(map[string]struct{}, len(plan.Subreddits))
	for _, sub := range plan.Subreddits {
		normalized := NormalizeSubreddit(sub)
		if normalized == "" {
			continue
		}
		if _, ok := seenSubs[normalized]; ok {
			continue
		}
		seenSubs[normalized] = struct{}{}
		if len(allowed) > 0 {
			if _, ok := allowed[normalized]; !ok {
				logger.Warn().
					Str("plan_id", plan.PlanID.String()).
					Str("subreddit", normalized).
					Msg("fetch: сабреддит вне разрешённого набора, пропущен")
				continue
			}
		}
		subreddits = append(subreddits, normalized)
	}
	if len(subreddits) == 0 {
		return domain.SearchPlan{}, fmt.Errorf("%w: нет ни одного разрешённого сабреддита", ErrInvalidPlan)
	}
	if len(subreddits) > limits.MaxSubreddits {
		logger.Warn().
			Str("plan_id", plan.PlanID.String()).
			Int("dropped", len(subreddits)-limits.MaxSubreddits).
			Msg("fetch: план содержит лишние сабреддиты, усечён")
		subreddits = subreddits[:limits.MaxSubreddits]
	}

	plan.SearchTerms = terms
	plan.Subreddits = subreddits
	return plan, nil
}

// dedupeStrings убирает пустые строки и дубликаты, сохраняя порядок и
// оригинальное написание первого вхождения.
func dedupeStrings(values []string, keyFn func(string) string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		key := keyFn(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
