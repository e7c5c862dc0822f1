package fetch

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
)

var longCommentBody = strings.Repeat("Pre-drill the holes and use a countersink bit for a clean finish. ", 4)

func newTestCommentPipeline() *CommentPipeline {
	return NewCommentPipeline(2, 140, 5, zerolog.Nop())
}

func TestFilterCommentsRejectsByRules(t *testing.T) {
	p := newTestCommentPipeline()
	now := time.Now().UTC()

	raw := []domain.RawComment{
		{ID: "", Author: "user1", Body: longCommentBody, Score: 10},
		{ID: "c1", Author: "AutoModerator", Body: longCommentBody, Score: 10},
		{ID: "c2", Author: "user2", Body: "[deleted]", Score: 10},
		{ID: "c3", Author: "user3", Body: longCommentBody, Score: 1},
		{ID: "c4", Author: "user4", Body: "too short to be useful", Score: 10},
		{ID: "c5", Author: "user5", Body: longCommentBody, Score: 10},
	}
	got := p.Filter("post1", raw, now)
	if len(got) != 1 {
		t.Fatalf("ожидали один выживший комментарий, получили %d", len(got))
	}
	if got[0].CommentID != "c5" {
		t.Fatalf("ожидали c5, получили %s", got[0].CommentID)
	}
	if got[0].Source != domain.SourceReddit {
		t.Fatalf("ожидали source=reddit, получили %s", got[0].Source)
	}
}

func TestFilterCommentsDuplicatesFirstWins(t *testing.T) {
	p := newTestCommentPipeline()

	raw := []domain.RawComment{
		{ID: "c1", Author: "user1", Body: longCommentBody, Score: 3},
		{ID: "c1", Author: "user2", Body: longCommentBody, Score: 99},
	}
	got := p.Filter("post1", raw, time.Now().UTC())
	if len(got) != 1 {
		t.Fatalf("дубликат должен быть отброшен, получили %d комментариев", len(got))
	}
	if got[0].CommentKarma != 3 {
		t.Fatalf("должен победить первый экземпляр, карма %d", got[0].CommentKarma)
	}
}

func TestFilterCommentsSortsAndCaps(t *testing.T) {
	p := newTestCommentPipeline()

	var raw []domain.RawComment
	scores := []int{5, 90, 12, 44, 7, 68, 23}
	for i, score := range scores {
		raw = append(raw, domain.RawComment{
			ID:     "c" + string(rune('a'+i)),
			Author: "user",
			Body:   longCommentBody,
			Score:  score,
		})
	}
	got := p.Filter("post1", raw, time.Now().UTC())
	if len(got) != 5 {
		t.Fatalf("ожидали обрезку до 5 комментариев, получили %d", len(got))
	}
	wantKarma := []int{90, 68, 44, 23, 12}
	for i, want := range wantKarma {
		if got[i].CommentKarma != want {
			t.Fatalf("позиция %d: ожидали карму %d, получили %d", i, want, got[i].CommentKarma)
		}
	}
}

func TestFilterCommentsEmptyInput(t *testing.T) {
	p := newTestCommentPipeline()
	if got := p.Filter("post1", nil, time.Now().UTC()); got != nil {
		t.Fatalf("пустой вход должен давать nil, получили %v", got)
	}
}
