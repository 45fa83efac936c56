package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/gator/internal/database"
	"github.com/hitoshi/gator/internal/model"
)

// PostgresFeedRepo はPostgreSQLを使用したフィードリポジトリ。
type PostgresFeedRepo struct {
	db *sql.DB
}

// NewPostgresFeedRepo はPostgresFeedRepoを生成する。
func NewPostgresFeedRepo(db *sql.DB) *PostgresFeedRepo {
	return &PostgresFeedRepo{db: db}
}

var _ FeedRepository = (*PostgresFeedRepo)(nil)

const feedColumns = `id, name, url, user_id, last_fetched_at, created_at, updated_at`

// rowScanner は*sql.Rowと*sql.Rowsの共通インターフェース。
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeed(row rowScanner) (*model.Feed, error) {
	feed := &model.Feed{}
	var lastFetchedAt sql.NullTime

	if err := row.Scan(
		&feed.ID, &feed.Name, &feed.URL, &feed.UserID,
		&lastFetchedAt, &feed.CreatedAt, &feed.UpdatedAt,
	); err != nil {
		return nil, err
	}

	feed.LastFetchedAt = nullTimeValue(lastFetchedAt)
	return feed, nil
}

// Create はフィードを作成する。URLが重複する場合はErrConflictを返す。
func (r *PostgresFeedRepo) Create(ctx context.Context, feed *model.Feed) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO feeds (id, name, url, user_id, last_fetched_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		feed.ID, feed.Name, feed.URL, feed.UserID,
		nullTime(feed.LastFetchedAt), feed.CreatedAt, feed.UpdatedAt,
	)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("フィードURL %q は既に登録されています: %w", feed.URL, ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("フィードの作成に失敗しました: %w", err)
	}
	return nil
}

// FindByURL はURLでフィードを検索する。見つからない場合はnilを返す。
func (r *PostgresFeedRepo) FindByURL(ctx context.Context, url string) (*model.Feed, error) {
	feed, err := scanFeed(r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+` FROM feeds WHERE url = $1`,
		url,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("URLによるフィードの検索に失敗しました: %w", err)
	}
	return feed, nil
}

// ListWithUsers は全フィードを登録ユーザー名付きで返す。
func (r *PostgresFeedRepo) ListWithUsers(ctx context.Context) ([]model.FeedWithUser, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT f.name, f.url, u.name
		 FROM feeds f
		 INNER JOIN users u ON u.id = f.user_id
		 ORDER BY f.created_at ASC, f.name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("フィード一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var feeds []model.FeedWithUser
	for rows.Next() {
		var fw model.FeedWithUser
		if err := rows.Scan(&fw.FeedName, &fw.FeedURL, &fw.UserName); err != nil {
			return nil, fmt.Errorf("フィードのスキャンに失敗しました: %w", err)
		}
		feeds = append(feeds, fw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("フィード一覧の読み取りに失敗しました: %w", err)
	}

	return feeds, nil
}

// NextToFetch は次にフェッチすべきフィードを返す。フィードが無い場合はnilを返す。
func (r *PostgresFeedRepo) NextToFetch(ctx context.Context) (*model.Feed, error) {
	feed, err := scanFeed(r.db.QueryRowContext(ctx,
		`SELECT `+feedColumns+`
		 FROM feeds
		 ORDER BY last_fetched_at ASC NULLS FIRST, created_at ASC, id ASC
		 LIMIT 1`,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("次のフェッチ対象フィードの取得に失敗しました: %w", err)
	}
	return feed, nil
}

// MarkFetched はフィードのlast_fetched_atをatに更新する。
func (r *PostgresFeedRepo) MarkFetched(ctx context.Context, feedID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE feeds SET last_fetched_at = $2, updated_at = $2 WHERE id = $1`,
		feedID, at,
	)
	if err != nil {
		return fmt.Errorf("フィードのフェッチ日時の更新に失敗しました: %w", err)
	}
	return nil
}

// nullString は空文字列をNULLとして扱うsql.NullStringを返す。
func nullString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullStringValue はsql.NullStringから文字列ポインタを取得する。
func nullStringValue(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// nullTime はnilをNULLとして扱うsql.NullTimeを返す。
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullTimeValue はsql.NullTimeから時刻ポインタを取得する。
func nullTimeValue(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
