package fetch

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdownRenderer = goldmark.New()
	stripPolicy      = bluemonday.StrictPolicy()

	urlPattern      = regexp.MustCompile(`https?://\S+`)
	nonASCIIPattern = regexp.MustCompile(`[^\x00-\x7F]+`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

// CleanText превращает Reddit-markdown в плоский ASCII-текст:
// рендерит разметку, срезает теги, URL и не-ASCII символы, схлопывает
// пробелы. Функция чистая и идемпотентная: повторная очистка уже
// очищенного текста ничего не меняет.
func CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var rendered bytes.Buffer
	if err := markdownRenderer.Convert([]byte(text), &rendered); err != nil {
		rendered.Reset()
		rendered.WriteString(text)
	}

	plain := stripPolicy.Sanitize(rendered.String())
	plain = html.UnescapeString(plain)
	plain = urlPattern.ReplaceAllString(plain, "")
	plain = nonASCIIPattern.ReplaceAllString(plain, "")
	plain = spacePattern.ReplaceAllString(plain, " ")
	return strings.TrimSpace(plain)
}
