package fetch

// Пороговые значения пайплайна по умолчанию; переопределяются конфигом.
const (
	DefaultMinPostScore           = 6.0
	DefaultShowcaseKarmaThreshold = 150
)

// KeywordGroup — именованная группа ключевых слов с общим весом.
// Вес группы прибавляется к релевантности один раз, сколько бы слов
// группы ни совпало.
type KeywordGroup struct {
	Name     string
	Weight   float64
	Keywords []string
}

// DefaultKeywordGroups возвращает положительные группы словаря:
// инструкции, починка, вопросы, инструменты и материалы, безопасность.
func DefaultKeywordGroups() []KeywordGroup {
	return []KeywordGroup{
		{
			Name:   "how_to_instructional",
			Weight: 5.0,
			Keywords: []string{
				"how to", "step by step", "build", "refinish", "install",
				"assemble", "repair", "instructions", "fix",
			},
		},
		{
			Name:   "troubleshooting_repair",
			Weight: 4.0,
			Keywords: []string{
				"won't start", "doesn't work", "stuck", "leaking", "squeaking",
				"shorted", "cracked", "broken", "scratched", "dented", "damage",
			},
		},
		{
			Name:   "question_driven",
			Weight: 3.0,
			Keywords: []string{
				"any tips", "what's the best way", "should i", "how would you",
				"is it possible to", "recommendations for", "looking for advice",
			},
		},
		{
			Name:   "tools_materials",
			Weight: 2.0,
			Keywords: []string{
				"plywood", "2x4", "sandpaper", "drill", "impact driver", "stain",
				"poly", "miter saw", "orbital sander", "screws", "drill bits",
			},
		},
		{
			Name:   "safety_tips",
			Weight: 2.0,
			Keywords: []string{
				"safety gear", "safe to do", "first time", "beginner mistake",
				"newbie", "learning curve", "respirator", "mask",
			},
		},
	}
}

// DefaultNegativeGroup возвращает группу «похвастаться готовой работой».
// Её вес отрицательный, и проверяется она только когда ни одна
// положительная группа не совпала.
func DefaultNegativeGroup() KeywordGroup {
	return KeywordGroup{
		Name:   "showcase_brag",
		Weight: -6.0,
		Keywords: []string{
			"just finished", "before and after", "my latest build",
			"finally done", "check out my", "progress pics", "showing off",
			"i built", "i made", "i finished",
		},
	}
}
