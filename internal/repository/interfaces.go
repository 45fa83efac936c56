// Package repository はデータ永続化のインターフェースとPostgreSQL実装を提供する。
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hitoshi/gator/internal/model"
)

// ErrConflict は一意制約に違反する書き込みを表す。
// 呼び出し側はerrors.Isで判定し、ドメインエラーへ変換する。
var ErrConflict = errors.New("unique constraint violation")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。nameが重複する場合はErrConflictを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByName は指定名のユーザーを取得する。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.User, error)

	// List は全ユーザーを作成順に返す。
	List(ctx context.Context) ([]*model.User, error)

	// DeleteAll は全ユーザーを削除し、削除件数を返す。
	// フィード、フォロー、記事はCASCADE削除される。
	DeleteAll(ctx context.Context) (int64, error)
}

// FeedRepository はフィードデータの永続化インターフェース。
type FeedRepository interface {
	// Create はフィードを作成する。URLが重複する場合はErrConflictを返す。
	Create(ctx context.Context, feed *model.Feed) error

	// FindByURL はURLでフィードを検索する。見つからない場合はnilを返す。
	FindByURL(ctx context.Context, url string) (*model.Feed, error)

	// ListWithUsers は全フィードを登録ユーザー名付きで返す。
	ListWithUsers(ctx context.Context) ([]model.FeedWithUser, error)

	// NextToFetch は次にフェッチすべきフィードを返す。
	// last_fetched_atが最も古いもの（NULLが最優先）を選び、同値はcreated_at、idの昇順で決定的に選ぶ。
	// フィードが1件も無い場合はnilを返す。
	NextToFetch(ctx context.Context) (*model.Feed, error)

	// MarkFetched はフィードのlast_fetched_atをatに更新する。
	MarkFetched(ctx context.Context, feedID string, at time.Time) error
}

// FeedFollowRepository はフォロー関係の永続化インターフェース。
type FeedFollowRepository interface {
	// Create はフォローを作成し、ユーザー名とフィード情報を付加して返す。
	// 同じユーザーとフィードの組が既に存在する場合はErrConflictを返す。
	Create(ctx context.Context, follow *model.FeedFollow) (*model.FeedFollowDetail, error)

	// Exists はユーザーが指定フィードをフォローしているかを返す。
	Exists(ctx context.Context, userID, feedID string) (bool, error)

	// ListByUserID はユーザーのフォロー一覧を返す。
	ListByUserID(ctx context.Context, userID string) ([]model.FeedFollowDetail, error)

	// DeleteByUserAndFeed はフォローを削除する。削除対象が無かった場合はfalseを返す。
	DeleteByUserAndFeed(ctx context.Context, userID, feedID string) (bool, error)
}

// PostRepository は記事データの永続化インターフェース。
type PostRepository interface {
	// Create は記事を挿入する。URLが既に存在する場合は何もせずfalseを返す。
	// 行単位でアトミックなため、並行実行されても重複行は作られない。
	Create(ctx context.Context, post *model.Post) (bool, error)

	// ListForUser はユーザーがフォローしているフィードの記事を新しい順に最大limit件返す。
	// published_atの降順（NULLは末尾）、同値はcreated_atの降順。
	ListForUser(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error)
}
