package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/post"
)

// PostServiceInterface は記事ハンドラーが必要とするサービスインターフェース。
type PostServiceInterface interface {
	Browse(ctx context.Context, user *model.User, limit int) ([]model.PostWithFeed, error)
}

// PostHandler は記事閲覧コマンドのハンドラー。
type PostHandler struct {
	service PostServiceInterface
	out     io.Writer
}

// NewPostHandler はPostHandlerを生成する。
func NewPostHandler(service PostServiceInterface, out io.Writer) *PostHandler {
	return &PostHandler{
		service: service,
		out:     out,
	}
}

// Browse はフォロー中のフィードの記事を新しい順に表示する。
// browse [limit]（ログイン必須、省略時は2件）
func (h *PostHandler) Browse(ctx context.Context, cmd command.Command, user *model.User) error {
	limit, err := parseLimit(cmd.Args)
	if err != nil {
		return err
	}

	posts, err := h.service.Browse(ctx, user, limit)
	if err != nil {
		return err
	}

	for _, p := range posts {
		when := "unknown date"
		if p.PublishedAt != nil {
			when = p.PublishedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(h.out, "* %s\n", p.Title)
		fmt.Fprintf(h.out, "  - %s\n", p.URL)
		fmt.Fprintf(h.out, "  - feed: %s\n", p.FeedName)
		fmt.Fprintf(h.out, "  - published: %s\n", when)
	}
	return nil
}

// parseLimit はbrowseの件数引数を解釈する。正の整数以外はINVALID_LIMIT。
func parseLimit(args []string) (int, error) {
	if len(args) == 0 {
		return post.DefaultBrowseLimit, nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n <= 0 {
		return 0, model.NewInvalidLimitError()
	}
	return n, nil
}
