// Package model はドメインモデルを定義する。
package model

import "time"

// Feed は登録済みのRSSフィードを表す。
// URLはシステム全体で一意。LastFetchedAtがnilのフィードは未フェッチであり、
// スケジューラが最優先で選択する。
type Feed struct {
	ID            string
	Name          string
	URL           string
	UserID        string
	LastFetchedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// FeedWithUser はフィード一覧表示用に登録ユーザー名を付加したフィード。
type FeedWithUser struct {
	FeedName string
	FeedURL  string
	UserName string
}

// FeedFollow はユーザーとフィードのフォロー関係を表す。
type FeedFollow struct {
	ID        string
	UserID    string
	FeedID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FeedFollowDetail はフォロー関係にユーザー名とフィード情報を付加したもの。
type FeedFollowDetail struct {
	ID        string
	UserID    string
	FeedID    string
	UserName  string
	FeedName  string
	FeedURL   string
	CreatedAt time.Time
}
