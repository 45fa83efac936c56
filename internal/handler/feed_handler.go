package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
)

// FeedServiceInterface はフィードハンドラーが必要とするサービスインターフェース。
type FeedServiceInterface interface {
	// AddFeed はフィードを登録し、登録したユーザーのフォローを作成する。
	AddFeed(ctx context.Context, user *model.User, name, rawURL string) (*model.Feed, *model.FeedFollowDetail, error)
	// ListFeeds は全フィードを登録ユーザー名付きで返す。
	ListFeeds(ctx context.Context) ([]model.FeedWithUser, error)
}

// FeedHandler はフィード管理コマンドのハンドラー。
type FeedHandler struct {
	service FeedServiceInterface
	out     io.Writer
}

// NewFeedHandler はFeedHandlerを生成する。
func NewFeedHandler(service FeedServiceInterface, out io.Writer) *FeedHandler {
	return &FeedHandler{
		service: service,
		out:     out,
	}
}

// AddFeed はフィードを登録する。
// addfeed <name> <url>（ログイン必須）
func (h *FeedHandler) AddFeed(ctx context.Context, cmd command.Command, user *model.User) error {
	if err := requireArgs(cmd, 2, "addfeed command requires a name and a url"); err != nil {
		return err
	}

	feed, follow, err := h.service.AddFeed(ctx, user, cmd.Args[0], cmd.Args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(h.out, "Feed created:")
	fmt.Fprintf(h.out, "- name: %s\n", feed.Name)
	fmt.Fprintf(h.out, "- url: %s\n", feed.URL)
	fmt.Fprintf(h.out, "- user: %s\n", user.Name)
	fmt.Fprintf(h.out, "%s is now following %s\n", follow.UserName, follow.FeedName)
	return nil
}

// Feeds は全フィードを一覧表示する。
// feeds
func (h *FeedHandler) Feeds(ctx context.Context, cmd command.Command) error {
	feeds, err := h.service.ListFeeds(ctx)
	if err != nil {
		return err
	}

	for _, f := range feeds {
		fmt.Fprintf(h.out, "* %s\n", f.FeedName)
		fmt.Fprintf(h.out, "  - url: %s\n", f.FeedURL)
		fmt.Fprintf(h.out, "  - user: %s\n", f.UserName)
	}
	return nil
}
