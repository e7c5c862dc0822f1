package fetch

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"diy-workbench/internal/domain"
)

func testPlan() domain.SearchPlan {
	return domain.SearchPlan{
		PlanID:      uuid.New(),
		Query:       "fix squeaky door",
		SearchTerms: []string{"squeaky door hinge", "door repair"},
		Subreddits:  []string{"DIY", "homeimprovement"},
	}
}

func TestNormalizePlanAccepts(t *testing.T) {
	plan, err := NormalizePlan(testPlan(), DefaultPlanLimits(), zerolog.Nop())
	if err != nil {
		t.Fatalf("валидный план не должен давать ошибку: %v", err)
	}
	if len(plan.SearchTerms) != 2 || len(plan.Subreddits) != 2 {
		t.Fatalf("неожиданная нормализация: %+v", plan)
	}
	if plan.Subreddits[0] != "diy" {
		t.Fatalf("сабреддит должен быть в нижнем регистре: %v", plan.Subreddits)
	}
}

func TestNormalizePlanRejectsNilID(t *testing.T) {
	plan := testPlan()
	plan.PlanID = uuid.Nil
	if _, err := NormalizePlan(plan, DefaultPlanLimits(), zerolog.Nop()); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("ожидали ErrInvalidPlan, получили %v", err)
	}
}

func TestNormalizePlanRejectsEmptyTerms(t *testing.T) {
	plan := testPlan()
	plan.SearchTerms = []string{"", "   "}
	if _, err := NormalizePlan(plan, DefaultPlanLimits(), zerolog.Nop()); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("ожидали ErrInvalidPlan, получили %v", err)
	}
}

func TestNormalizePlanDeduplicatesAndTruncatesTerms(t *testing.T) {
	plan := testPlan()
	plan.SearchTerms = []string{"one", "One", "two", "three", "four", "five", "six"}
	got, err := NormalizePlan(plan, DefaultPlanLimits(), zerolog.Nop())
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	want := []string{"one", "two", "three", "four", "five"}
	if len(got.SearchTerms) != len(want) {
		t.Fatalf("ожидали %d запросов, получили %v", len(want), got.SearchTerms)
	}
	for i := range want {
		if got.SearchTerms[i] != want[i] {
			t.Fatalf("позиция %d: ожидали %q, получили %q", i, want[i], got.SearchTerms[i])
		}
	}
}

func TestNormalizePlanDropsDisallowedSubreddits(t *testing.T) {
	plan := testPlan()
	plan.Subreddits = []string{"DIY", "askreddit", "r/Woodworking"}
	got, err := NormalizePlan(plan, DefaultPlanLimits(), zerolog.Nop())
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(got.Subreddits) != 2 || got.Subreddits[0] != "diy" || got.Subreddits[1] != "woodworking" {
		t.Fatalf("ожидали [diy woodworking], получили %v", got.Subreddits)
	}

	plan.Subreddits = []string{"askreddit"}
	if _, err := NormalizePlan(plan, DefaultPlanLimits(), zerolog.Nop()); !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("план без разрешённых сабреддитов должен давать ошибку, получили %v", err)
	}
}
