package handler

import (
	"context"
	"fmt"
	"io"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
)

// SubscriptionServiceInterface はフォローハンドラーが必要とするサービスインターフェース。
type SubscriptionServiceInterface interface {
	Follow(ctx context.Context, user *model.User, feedURL string) (*model.FeedFollowDetail, error)
	Following(ctx context.Context, user *model.User) ([]model.FeedFollowDetail, error)
	Unfollow(ctx context.Context, user *model.User, feedURL string) (*model.Feed, error)
}

// SubscriptionHandler はフォロー管理コマンドのハンドラー。
// すべてログイン必須。
type SubscriptionHandler struct {
	service SubscriptionServiceInterface
	out     io.Writer
}

// NewSubscriptionHandler はSubscriptionHandlerを生成する。
func NewSubscriptionHandler(service SubscriptionServiceInterface, out io.Writer) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		out:     out,
	}
}

// Follow は登録済みフィードをフォローする。
// follow <url>
func (h *SubscriptionHandler) Follow(ctx context.Context, cmd command.Command, user *model.User) error {
	if err := requireArgs(cmd, 1, "follow command requires a url"); err != nil {
		return err
	}

	d, err := h.service.Follow(ctx, user, cmd.Args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "%s is now following %s\n", d.UserName, d.FeedName)
	return nil
}

// Following はフォロー中のフィード名を一覧表示する。
// following
func (h *SubscriptionHandler) Following(ctx context.Context, cmd command.Command, user *model.User) error {
	follows, err := h.service.Following(ctx, user)
	if err != nil {
		return err
	}

	for _, f := range follows {
		fmt.Fprintf(h.out, "* %s\n", f.FeedName)
	}
	return nil
}

// Unfollow はフォローを解除する。
// unfollow <url>
func (h *SubscriptionHandler) Unfollow(ctx context.Context, cmd command.Command, user *model.User) error {
	if err := requireArgs(cmd, 1, "unfollow command requires a url"); err != nil {
		return err
	}

	feed, err := h.service.Unfollow(ctx, user, cmd.Args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "%s unfollowed %s\n", user.Name, feed.Name)
	return nil
}
