package domain

// RawPost — узкий типизированный срез сырого ответа поиска Reddit.
// Заполняется на транспортной границе, чтобы стадии пайплайна не
// работали со слабо типизированными словарями.
type RawPost struct {
	ID               string `json:"id"`
	Subreddit        string `json:"subreddit"`
	Title            string `json:"title"`
	Selftext         string `json:"selftext"`
	Author           string `json:"author"`
	Score            int    `json:"score"`
	Permalink        string `json:"permalink"`
	URL              string `json:"url"`
	PostHint         string `json:"post_hint"`
	IsSelf           bool   `json:"is_self"`
	IsGallery        bool   `json:"is_gallery"`
	Over18           bool   `json:"over_18"`
	CreatedFromAdsUI bool   `json:"is_created_from_ads_ui"`
}

// RawComment — типизированный срез сырого комментария из листинга.
type RawComment struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Body   string `json:"body"`
	Score  int    `json:"score"`
}

// ListingPage — одна страница поискового листинга вместе с курсором.
type ListingPage struct {
	Posts []RawPost
	After string
}
