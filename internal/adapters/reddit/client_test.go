package reddit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// newTestClient поднимает фейковый Reddit: mux обслуживает и обмен
// токена, и API-эндпоинты.
func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","expires_in":3600}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	sessions := NewSessionManager(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/api/v1/access_token",
		BaseURL:      srv.URL,
	}, zerolog.Nop())
	client := NewClient(sessions, RetryConfig{
		MaxAttempts:    1,
		WaitMultiplier: time.Millisecond,
		WaitMax:        time.Millisecond,
	}, zerolog.Nop())
	return client, srv
}

func searchPage(ids []string, after string) string {
	children := ""
	for i, id := range ids {
		if i > 0 {
			children += ","
		}
		children += fmt.Sprintf(`{"data":{"id":%q,"title":"t","selftext":"b","author":"u","is_self":true}}`, id)
	}
	return fmt.Sprintf(`{"data":{"children":[%s],"after":%q}}`, children, after)
}

func TestPaginateSearchWalksCursor(t *testing.T) {
	mux := http.NewServeMux()
	var afters []string
	mux.HandleFunc("/r/diy/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("restrict_sr") != "1" || q.Get("include_over_18") != "false" || q.Get("sort") != "relevance" {
			t.Errorf("отсутствуют обязательные параметры поиска: %v", q)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("неожиданный заголовок авторизации: %q", auth)
		}
		after := q.Get("after")
		afters = append(afters, after)
		w.Header().Set("Content-Type", "application/json")
		switch after {
		case "":
			_, _ = w.Write([]byte(searchPage([]string{"a", "b"}, "cursor-1")))
		case "cursor-1":
			_, _ = w.Write([]byte(searchPage([]string{"c"}, "")))
		default:
			t.Errorf("неожиданный курсор %q", after)
		}
	})
	client, _ := newTestClient(t, mux)

	posts, err := client.PaginateSearch(context.Background(), "diy", "leaking pipe", 10)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("ожидали 3 поста, получили %d", len(posts))
	}
	if posts[0].ID != "a" || posts[2].ID != "c" {
		t.Fatalf("неожиданный порядок постов: %+v", posts)
	}
	if len(afters) != 2 || afters[1] != "cursor-1" {
		t.Fatalf("курсор не передан во вторую страницу: %v", afters)
	}
}

func TestPaginateSearchStopsAtLimit(t *testing.T) {
	mux := http.NewServeMux()
	var pages int
	mux.HandleFunc("/r/diy/search", func(w http.ResponseWriter, r *http.Request) {
		pages++
		_, _ = w.Write([]byte(searchPage([]string{"a", "b", "c"}, "more")))
	})
	client, _ := newTestClient(t, mux)

	posts, err := client.PaginateSearch(context.Background(), "diy", "q", 2)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("лимит должен обрезать выдачу: %d", len(posts))
	}
	if pages != 1 {
		t.Fatalf("после достижения лимита обход должен остановиться, страниц %d", pages)
	}
}

func TestFetchCommentsParsesSecondListing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/comments/p1", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("depth") != "1" || q.Get("sort") != "top" {
			t.Errorf("отсутствуют обязательные параметры комментариев: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		payload := `[
			{"data":{"children":[{"data":{"id":"p1"}}]}},
			{"data":{"children":[
				{"data":{"id":"c1","author":"u1","body":"first","score":5}},
				{"data":{"id":"c2","author":"u2","body":"second","score":9}}
			]}}
		]`
		_, _ = w.Write([]byte(payload))
	})
	client, _ := newTestClient(t, mux)

	comments, err := client.FetchComments(context.Background(), "p1", 50)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ожидали 2 комментария, получили %d", len(comments))
	}
	if comments[0].ID != "c1" || comments[1].Score != 9 {
		t.Fatalf("комментарии разобраны неверно: %+v", comments)
	}
}

func TestSearchPageClassifiesFailures(t *testing.T) {
	var status int
	mux := http.NewServeMux()
	mux.HandleFunc("/r/diy/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	client, _ := newTestClient(t, mux)

	status = http.StatusTooManyRequests
	_, err := client.SearchPage(context.Background(), "diy", "q", 5, "")
	var rateLimit *RateLimitError
	if !errors.As(err, &rateLimit) {
		t.Fatalf("429 должен давать RateLimitError, получили %v", err)
	}
	if !IsRetryable(err) {
		t.Fatalf("RateLimitError должен ретраиться")
	}

	status = http.StatusBadGateway
	_, err = client.SearchPage(context.Background(), "diy", "q", 5, "")
	var transient *RetryableFetchError
	if !errors.As(err, &transient) {
		t.Fatalf("5xx должен давать RetryableFetchError, получили %v", err)
	}

	status = http.StatusNotFound
	_, err = client.SearchPage(context.Background(), "diy", "q", 5, "")
	if err == nil || IsRetryable(err) {
		t.Fatalf("404 не должен ретраиться, получили %v", err)
	}
}
