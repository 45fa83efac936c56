package handler

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	Register(ctx context.Context, name string) (*model.User, error)
	Login(ctx context.Context, name string) error
	Reset(ctx context.Context) error
	List(ctx context.Context) ([]user.Entry, error)
}

// UserHandler はユーザー管理コマンドのハンドラー。
type UserHandler struct {
	service UserServiceInterface
	out     io.Writer
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface, out io.Writer) *UserHandler {
	return &UserHandler{
		service: service,
		out:     out,
	}
}

// Register はユーザーを登録し、カレントユーザーに設定する。
// register <name>
func (h *UserHandler) Register(ctx context.Context, cmd command.Command) error {
	if err := requireArgs(cmd, 1, "register command requires a username"); err != nil {
		return err
	}

	u, err := h.service.Register(ctx, cmd.Args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "User created: %s\n", u.Name)
	fmt.Fprintf(h.out, "- id: %s\n", u.ID)
	fmt.Fprintf(h.out, "- created_at: %s\n", u.CreatedAt.UTC().Format(time.RFC3339))
	return nil
}

// Login はカレントユーザーを切り替える。
// login <name>
func (h *UserHandler) Login(ctx context.Context, cmd command.Command) error {
	if err := requireArgs(cmd, 1, "login command requires a username"); err != nil {
		return err
	}

	name := strings.TrimSpace(cmd.Args[0])
	if err := h.service.Login(ctx, name); err != nil {
		return err
	}

	fmt.Fprintf(h.out, "User set to %s\n", name)
	return nil
}

// Reset は全ユーザーと関連データを削除する。
// reset
func (h *UserHandler) Reset(ctx context.Context, cmd command.Command) error {
	if err := h.service.Reset(ctx); err != nil {
		return err
	}

	fmt.Fprintln(h.out, "Database reset successful")
	return nil
}

// Users は全ユーザーを一覧表示する。カレントユーザーには(current)を付ける。
// users
func (h *UserHandler) Users(ctx context.Context, cmd command.Command) error {
	entries, err := h.service.List(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Current {
			fmt.Fprintf(h.out, "* %s (current)\n", e.Name)
			continue
		}
		fmt.Fprintf(h.out, "* %s\n", e.Name)
	}
	return nil
}
