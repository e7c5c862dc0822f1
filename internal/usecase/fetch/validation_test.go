package fetch

import (
	"testing"

	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
)

func validRawPost() domain.RawPost {
	return domain.RawPost{
		ID:        "abc123",
		Subreddit: "DIY",
		Title:     "How to fix a squeaky door",
		Selftext:  "The hinge is squeaking and I have no idea where to start. Any tips?",
		Author:    "handy_person",
		Score:     42,
		Permalink: "/r/DIY/comments/abc123/how_to_fix/",
		IsSelf:    true,
	}
}

func TestPassesPostValidationAcceptsSelfPost(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	if !v.PassesPostValidation(validRawPost()) {
		t.Fatalf("валидный текстовый пост должен проходить валидацию")
	}
}

func TestPassesPostValidationDeletedVariants(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	for _, text := range []string{"", "   ", "[deleted]", "[removed]", " [Deleted] "} {
		raw := validRawPost()
		raw.Selftext = text
		if v.PassesPostValidation(raw) {
			t.Fatalf("пост с телом %q должен быть отклонён", text)
		}
	}
}

func TestPassesPostValidationAutoModerator(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	raw := validRawPost()
	raw.Author = "AutoModerator"
	if v.PassesPostValidation(raw) {
		t.Fatalf("пост AutoModerator должен быть отклонён")
	}
}

func TestPassesPostValidationAdsUI(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	raw := validRawPost()
	raw.CreatedFromAdsUI = true
	if v.PassesPostValidation(raw) {
		t.Fatalf("рекламный пост должен быть отклонён")
	}
}

func TestPassesPostValidationLinkPost(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	raw := validRawPost()
	raw.IsSelf = false
	raw.PostHint = "link"
	if v.PassesPostValidation(raw) {
		t.Fatalf("внешняя ссылка должна быть отклонена")
	}
}

func TestPassesPostValidationImagePostAllowed(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	raw := validRawPost()
	raw.IsSelf = false
	raw.PostHint = "image"
	if !v.PassesPostValidation(raw) {
		t.Fatalf("картинка с содержательным текстом должна проходить валидацию")
	}
}

func TestPassesPostValidationNSFW(t *testing.T) {
	v := NewValidator(DefaultShowcaseKarmaThreshold, zerolog.Nop())
	raw := validRawPost()
	raw.Over18 = true
	if v.PassesPostValidation(raw) {
		t.Fatalf("NSFW пост должен быть отклонён")
	}
}

func TestIsShowcaseRequiresAllSignals(t *testing.T) {
	v := NewValidator(150, zerolog.Nop())

	showcase := validRawPost()
	showcase.IsSelf = false
	showcase.PostHint = "image"
	showcase.Title = "Just finished my first dining table"
	showcase.Score = 200
	if !v.IsShowcase(showcase) {
		t.Fatalf("картинка с хвастливой фразой и высокой кармой — showcase")
	}
	if v.PassesPostValidation(showcase) {
		t.Fatalf("showcase пост должен быть отклонён валидацией")
	}

	lowKarma := showcase
	lowKarma.Score = 50
	if v.IsShowcase(lowKarma) {
		t.Fatalf("без высокой кармы пост не считается showcase")
	}

	textPost := showcase
	textPost.IsSelf = true
	textPost.PostHint = ""
	if v.IsShowcase(textPost) {
		t.Fatalf("текстовый пост без картинки не считается showcase")
	}

	noPhrase := showcase
	noPhrase.Title = "Dining table restoration question"
	noPhrase.Selftext = "The finish keeps bubbling, what am I doing wrong here exactly?"
	if v.IsShowcase(noPhrase) {
		t.Fatalf("без хвастливой фразы пост не считается showcase")
	}
}
