package fetch

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
	"diy-workbench/internal/infra/metrics"
)

// CommentPipeline фильтрует, ранжирует и ограничивает комментарии поста.
type CommentPipeline struct {
	minKarma   int
	minLength  int
	maxPerPost int
	log        zerolog.Logger
}

// NewCommentPipeline создаёт пайплайн комментариев с заданными порогами.
func NewCommentPipeline(minKarma, minLength, maxPerPost int, logger zerolog.Logger) *CommentPipeline {
	if maxPerPost <= 0 {
		maxPerPost = 5
	}
	return &CommentPipeline{
		minKarma:   minKarma,
		minLength:  minLength,
		maxPerPost: maxPerPost,
		log:        logger,
	}
}

// Filter применяет пер-комментные проверки, сортирует выживших по карме
// по убыванию и обрезает до лимита. Дубликаты ID внутри поста
// отбрасываются, первый экземпляр побеждает.
func (p *CommentPipeline) Filter(postID string, raw []domain.RawComment, fetchedAt time.Time) []domain.Comment {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raw))
	kept := make([]domain.Comment, 0, len(raw))
	for _, rc := range raw {
		if rc.ID == "" {
			p.reject(postID, rc.ID, "missing_id")
			continue
		}
		if _, ok := seen[rc.ID]; ok {
			p.reject(postID, rc.ID, "duplicate")
			continue
		}
		seen[rc.ID] = struct{}{}

		if IsAutoModerator(rc.Author) {
			p.reject(postID, rc.ID, "automoderator")
			continue
		}
		if IsDeletedOrRemoved(rc.Body) {
			p.reject(postID, rc.ID, "deleted_or_removed")
			continue
		}
		if rc.Score < p.minKarma {
			p.reject(postID, rc.ID, "low_karma")
			continue
		}
		cleaned := CleanText(rc.Body)
		if IsCommentTooShort(cleaned, p.minLength) {
			p.reject(postID, rc.ID, "too_short")
			continue
		}
		kept = append(kept, BuildComment(rc.ID, cleaned, rc.Score, fetchedAt))
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].CommentKarma > kept[j].CommentKarma
	})
	if len(kept) > p.maxPerPost {
		kept = kept[:p.maxPerPost]
	}
	return kept
}

func (p *CommentPipeline) reject(postID, commentID, reason string) {
	metrics.IncCommentRejected(reason)
	p.log.Debug().
		Str("post_id", postID).
		Str("comment_id", commentID).
		Str("reason", reason).
		Msg("fetch: комментарий отклонён")
}
