// Package subscription はフィードのフォロー管理のドメインロジックを提供する。
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/repository"
)

// FeedFinder はURLでフィードを検索するインターフェース。
type FeedFinder interface {
	FindByURL(ctx context.Context, url string) (*model.Feed, error)
}

// Service はフォロー管理のサービス層。
type Service struct {
	feeds   FeedFinder
	follows repository.FeedFollowRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(feeds FeedFinder, follows repository.FeedFollowRepository) *Service {
	return &Service{
		feeds:   feeds,
		follows: follows,
	}
}

// Follow はユーザーに登録済みフィードをフォローさせる。
// 既にフォローしている場合はALREADY_FOLLOWINGエラーを返す。
func (s *Service) Follow(ctx context.Context, user *model.User, feedURL string) (*model.FeedFollowDetail, error) {
	feed, err := s.findFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	exists, err := s.follows.Exists(ctx, user.ID, feed.ID)
	if err != nil {
		return nil, fmt.Errorf("フォローの確認に失敗しました: %w", err)
	}
	if exists {
		return nil, model.NewAlreadyFollowingError(user.Name, feed.Name)
	}

	now := time.Now().UTC()
	detail, err := s.follows.Create(ctx, &model.FeedFollow{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FeedID:    feed.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// 確認後に同じフォローが作成された場合は一意制約で検出する
		if errors.Is(err, repository.ErrConflict) {
			return nil, model.NewAlreadyFollowingError(user.Name, feed.Name)
		}
		return nil, err
	}

	return detail, nil
}

// Following はユーザーのフォロー一覧を返す。
func (s *Service) Following(ctx context.Context, user *model.User) ([]model.FeedFollowDetail, error) {
	return s.follows.ListByUserID(ctx, user.ID)
}

// Unfollow はフォローを解除し、対象のフィードを返す。
// フォローしていない場合はNOT_FOLLOWINGエラーを返す。
func (s *Service) Unfollow(ctx context.Context, user *model.User, feedURL string) (*model.Feed, error) {
	feed, err := s.findFeed(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	deleted, err := s.follows.DeleteByUserAndFeed(ctx, user.ID, feed.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, model.NewNotFollowingError(user.Name, feed.Name)
	}

	return feed, nil
}

func (s *Service) findFeed(ctx context.Context, feedURL string) (*model.Feed, error) {
	feed, err := s.feeds.FindByURL(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("フィードの検索に失敗しました: %w", err)
	}
	if feed == nil {
		return nil, model.NewFeedNotFoundError(feedURL)
	}
	return feed, nil
}
