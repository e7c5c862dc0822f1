package fetch

import "strings"

// IsPostTooShort проверяет очищенное тело поста на минимальную длину.
// Короткие тексты не дают материала для инструкции.
func IsPostTooShort(body string, minLength int) bool {
	return len(strings.TrimSpace(body)) < minLength
}

// IsCommentTooShort проверяет очищенный комментарий на минимальную длину.
func IsCommentTooShort(body string, minLength int) bool {
	return len(strings.TrimSpace(body)) < minLength
}
