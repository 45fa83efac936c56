package post

import (
	"context"
	"fmt"

	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/repository"
)

// DefaultBrowseLimit はbrowseで件数が指定されなかった場合の表示件数。
const DefaultBrowseLimit = 2

// Service は記事閲覧のサービス。
type Service struct {
	posts repository.PostRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(posts repository.PostRepository) *Service {
	return &Service{posts: posts}
}

// Browse はユーザーがフォローしているフィードの記事を新しい順に最大limit件返す。
// 公開日時の無い記事は日時付きの記事より後に並ぶ。
func (s *Service) Browse(ctx context.Context, user *model.User, limit int) ([]model.PostWithFeed, error) {
	if limit <= 0 {
		return nil, model.NewInvalidLimitError()
	}

	posts, err := s.posts.ListForUser(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("記事一覧の取得に失敗: %w", err)
	}
	return posts, nil
}
