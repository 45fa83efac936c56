package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gator/internal/database"
	"github.com/hitoshi/gator/internal/model"
)

// PostgresFeedFollowRepo はPostgreSQLを使用したフォローリポジトリ。
type PostgresFeedFollowRepo struct {
	db *sql.DB
}

// NewPostgresFeedFollowRepo はPostgresFeedFollowRepoを生成する。
func NewPostgresFeedFollowRepo(db *sql.DB) *PostgresFeedFollowRepo {
	return &PostgresFeedFollowRepo{db: db}
}

var _ FeedFollowRepository = (*PostgresFeedFollowRepo)(nil)

// Create はフォローを作成し、ユーザー名とフィード情報を付加して返す。
// 同じユーザーとフィードの組が既に存在する場合はErrConflictを返す。
func (r *PostgresFeedFollowRepo) Create(ctx context.Context, follow *model.FeedFollow) (*model.FeedFollowDetail, error) {
	d := &model.FeedFollowDetail{}
	err := r.db.QueryRowContext(ctx,
		`WITH inserted AS (
		     INSERT INTO feed_follows (id, user_id, feed_id, created_at, updated_at)
		     VALUES ($1, $2, $3, $4, $5)
		     RETURNING id, user_id, feed_id, created_at
		 )
		 SELECT i.id, i.user_id, i.feed_id, u.name, f.name, f.url, i.created_at
		 FROM inserted i
		 INNER JOIN users u ON u.id = i.user_id
		 INNER JOIN feeds f ON f.id = i.feed_id`,
		follow.ID, follow.UserID, follow.FeedID, follow.CreatedAt, follow.UpdatedAt,
	).Scan(&d.ID, &d.UserID, &d.FeedID, &d.UserName, &d.FeedName, &d.FeedURL, &d.CreatedAt)

	if database.IsUniqueViolation(err) {
		return nil, fmt.Errorf("フォローは既に存在します: %w", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("フォローの作成に失敗しました: %w", err)
	}

	return d, nil
}

// Exists はユーザーが指定フィードをフォローしているかを返す。
func (r *PostgresFeedFollowRepo) Exists(ctx context.Context, userID, feedID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM feed_follows WHERE user_id = $1 AND feed_id = $2)`,
		userID, feedID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("フォローの確認に失敗しました: %w", err)
	}
	return exists, nil
}

// ListByUserID はユーザーのフォロー一覧をフォローした順に返す。
func (r *PostgresFeedFollowRepo) ListByUserID(ctx context.Context, userID string) ([]model.FeedFollowDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT ff.id, ff.user_id, ff.feed_id, u.name, f.name, f.url, ff.created_at
		 FROM feed_follows ff
		 INNER JOIN users u ON u.id = ff.user_id
		 INNER JOIN feeds f ON f.id = ff.feed_id
		 WHERE ff.user_id = $1
		 ORDER BY ff.created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("フォロー一覧の取得に失敗しました: %w", err)
	}
	defer rows.Close()

	var follows []model.FeedFollowDetail
	for rows.Next() {
		var d model.FeedFollowDetail
		if err := rows.Scan(&d.ID, &d.UserID, &d.FeedID, &d.UserName, &d.FeedName, &d.FeedURL, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("フォローのスキャンに失敗しました: %w", err)
		}
		follows = append(follows, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("フォロー一覧の読み取りに失敗しました: %w", err)
	}

	return follows, nil
}

// DeleteByUserAndFeed はフォローを削除する。削除対象が無かった場合はfalseを返す。
func (r *PostgresFeedFollowRepo) DeleteByUserAndFeed(ctx context.Context, userID, feedID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM feed_follows WHERE user_id = $1 AND feed_id = $2`,
		userID, feedID,
	)
	if err != nil {
		return false, fmt.Errorf("フォローの削除に失敗しました: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("削除件数の取得に失敗しました: %w", err)
	}
	return n > 0, nil
}
