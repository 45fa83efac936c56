// Package feed はフィード登録と一覧のドメインロジックを提供する。
package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/repository"
)

// URLValidator はフィードURLの静的検証のインターフェース。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Service はフィード登録・一覧のサービス層。
// 登録したユーザーは自動的にそのフィードをフォローする。
type Service struct {
	feeds     repository.FeedRepository
	follows   repository.FeedFollowRepository
	validator URLValidator
	logger    *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	feeds repository.FeedRepository,
	follows repository.FeedFollowRepository,
	validator URLValidator,
	logger *slog.Logger,
) *Service {
	return &Service{
		feeds:     feeds,
		follows:   follows,
		validator: validator,
		logger:    logger,
	}
}

// AddFeed はフィードを登録し、登録したユーザーのフォローを作成する。
// フロー: URL検証 → フィード保存（重複チェック） → フォロー作成
func (s *Service) AddFeed(ctx context.Context, user *model.User, name, rawURL string) (*model.Feed, *model.FeedFollowDetail, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil, model.NewInvalidArgumentError("feed name must not be empty")
	}

	feedURL := strings.TrimSpace(rawURL)
	if err := s.validator.ValidateURL(feedURL); err != nil {
		return nil, nil, model.NewInvalidURLError(err.Error())
	}

	now := time.Now().UTC()
	f := &model.Feed{
		ID:        uuid.New().String(),
		Name:      name,
		URL:       feedURL,
		UserID:    user.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.feeds.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, nil, model.NewDuplicateFeedError(feedURL)
		}
		return nil, nil, err
	}

	follow, err := s.follows.Create(ctx, &model.FeedFollow{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		FeedID:    f.ID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("フィード登録者のフォロー作成に失敗しました: %w", err)
	}

	s.logger.Info("フィードを登録しました",
		slog.String("feed_id", f.ID),
		slog.String("feed_url", f.URL),
		slog.String("user_id", user.ID),
	)

	return f, follow, nil
}

// ListFeeds は全フィードを登録ユーザー名付きで返す。
func (s *Service) ListFeeds(ctx context.Context) ([]model.FeedWithUser, error) {
	return s.feeds.ListWithUsers(ctx)
}
