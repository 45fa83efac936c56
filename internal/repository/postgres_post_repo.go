package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gator/internal/model"
)

// PostgresPostRepo はPostgreSQLを使用した記事リポジトリ。
type PostgresPostRepo struct {
	db *sql.DB
}

// NewPostgresPostRepo はPostgresPostRepoを生成する。
func NewPostgresPostRepo(db *sql.DB) *PostgresPostRepo {
	return &PostgresPostRepo{db: db}
}

var _ PostRepository = (*PostgresPostRepo)(nil)

// Create は記事を挿入する。URLが既に存在する場合は何もせずfalseを返す。
// ON CONFLICT DO NOTHINGは行単位でアトミックに評価される。
func (r *PostgresPostRepo) Create(ctx context.Context, post *model.Post) (bool, error) {
	var id string
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO posts (id, title, url, description, published_at, feed_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO NOTHING
		 RETURNING id`,
		post.ID, post.Title, post.URL, nullString(post.Description),
		nullTime(post.PublishedAt), post.FeedID, post.CreatedAt, post.UpdatedAt,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("記事の挿入に失敗しました: %w", err)
	}
	return true, nil
}

// ListForUser はユーザーがフォローしているフィードの記事を新しい順に最大limit件返す。
func (r *PostgresPostRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.url, p.description, p.published_at,
		        p.feed_id, p.created_at, p.updated_at, f.name
		 FROM posts p
		 INNER JOIN feeds f ON f.id = p.feed_id
		 INNER JOIN feed_follows ff ON ff.feed_id = f.id
		 WHERE ff.user_id = $1
		 ORDER BY p.published_at DESC NULLS LAST, p.created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var posts []model.PostWithFeed
	for rows.Next() {
		var p model.PostWithFeed
		var description sql.NullString
		var publishedAt sql.NullTime

		if err := rows.Scan(
			&p.ID, &p.Title, &p.URL, &description, &publishedAt,
			&p.FeedID, &p.CreatedAt, &p.UpdatedAt, &p.FeedName,
		); err != nil {
			return nil, fmt.Errorf("記事のスキャンに失敗しました: %w", err)
		}

		p.Description = nullStringValue(description)
		p.PublishedAt = nullTimeValue(publishedAt)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("記事一覧の読み取りに失敗しました: %w", err)
	}

	return posts, nil
}
