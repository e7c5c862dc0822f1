package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

// Суффиксные варианты однословных ключей: drill покрывает drills,
// drilled и drilling без раздувания словаря.
var keywordSuffixes = []string{"", "s", "ed", "ing"}

// Relevance — результат оценки поста словарём ключевых слов.
type Relevance struct {
	Score    float64
	Positive []string
	Negative []string
	Passed   bool
}

type compiledKeyword struct {
	keyword  string
	patterns []*regexp.Regexp
}

type compiledGroup struct {
	name     string
	weight   float64
	keywords []compiledKeyword
}

// Scorer вычисляет взвешенную релевантность поста. Паттерны компилируются
// один раз при создании; Evaluate детерминирован и безопасен для
// конкурентных вызовов.
type Scorer struct {
	positive []compiledGroup
	negative []compiledGroup
	minScore float64
	log      zerolog.Logger
}

// NewScorer собирает скорер из групп ключевых слов и порога принятия.
func NewScorer(groups []KeywordGroup, negative KeywordGroup, minScore float64, logger zerolog.Logger) *Scorer {
	if minScore <= 0 {
		minScore = DefaultMinPostScore
	}
	compiled := make([]compiledGroup, 0, len(groups))
	for _, g := range groups {
		compiled = append(compiled, compileGroup(g))
	}
	return &Scorer{
		positive: compiled,
		negative: []compiledGroup{compileGroup(negative)},
		minScore: minScore,
		log:      logger,
	}
}

func compileGroup(g KeywordGroup) compiledGroup {
	out := compiledGroup{name: g.Name, weight: g.Weight}
	for _, kw := range g.Keywords {
		ck := compiledKeyword{keyword: kw}
		for _, variant := range expandVariants(kw) {
			pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(variant) + `\b`)
			ck.patterns = append(ck.patterns, pattern)
		}
		out.keywords = append(out.keywords, ck)
	}
	return out
}

// expandVariants порождает суффиксные формы для однословных ключей;
// фразы из нескольких слов матчатся только дословно.
func expandVariants(keyword string) []string {
	if strings.Contains(keyword, " ") {
		return []string{keyword}
	}
	variants := make([]string, 0, len(keywordSuffixes))
	for _, suffix := range keywordSuffixes {
		variants = append(variants, keyword+suffix)
	}
	return variants
}

func (g compiledGroup) match(text string) []string {
	var matched []string
	for _, ck := range g.keywords {
		for _, pattern := range ck.patterns {
			if pattern.MatchString(text) {
				matched = append(matched, ck.keyword)
				break
			}
		}
	}
	return matched
}

// Evaluate оценивает пост по очищенным заголовку и телу. Вес каждой
// положительной группы прибавляется один раз; отрицательные группы
// проверяются только при полном отсутствии положительных совпадений.
func (s *Scorer) Evaluate(postID, title, body string) Relevance {
	combined := strings.ToLower(title + " " + body)

	var rel Relevance
	for _, group := range s.positive {
		matched := group.match(combined)
		if len(matched) > 0 {
			rel.Score += group.weight
			rel.Positive = append(rel.Positive, matched...)
		}
	}
	if len(rel.Positive) == 0 {
		for _, group := range s.negative {
			matched := group.match(combined)
			if len(matched) > 0 {
				rel.Score += group.weight
				rel.Negative = append(rel.Negative, matched...)
			}
		}
	}
	rel.Passed = rel.Score >= s.minScore

	s.log.Debug().
		Str("post_id", postID).
		Str("relevance_score", fmt.Sprintf("%.1f", rel.Score)).
		Strs("matched_keywords", rel.Positive).
		Strs("negative_keywords", rel.Negative).
		Str("decision_reason", DecisionReason(rel)).
		Msg("fetch: пост оценён")
	return rel
}

// DecisionReason формулирует исход скоринга: passed_threshold,
// negative_veto или below_threshold.
func DecisionReason(rel Relevance) string {
	switch {
	case rel.Passed:
		return "passed_threshold"
	case len(rel.Negative) > 0 && len(rel.Positive) == 0:
		return "negative_veto"
	default:
		return "below_threshold"
	}
}
