package model

import "time"

// Post はフィードから取り込んだ記事を表す。
// URLは全フィードを通じて一意の重複排除キー。
// PublishedAtは解析できなかった場合nilのまま保存し、現在時刻で補完しない。
type Post struct {
	ID          string
	Title       string
	URL         string
	Description *string
	PublishedAt *time.Time
	FeedID      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PostWithFeed はbrowse表示用にフィード名を付加した記事。
type PostWithFeed struct {
	Post
	FeedName string
}
