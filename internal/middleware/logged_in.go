// Package middleware はコマンドハンドラ用のミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/config"
	"github.com/hitoshi/gator/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はコンテキストにログイン中のユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// ConfigReader は設定ファイルの読み込みに必要なインターフェース。
type ConfigReader interface {
	Read() (*config.Config, error)
}

// UserFinder はユーザー名での検索に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByName(ctx context.Context, name string) (*model.User, error)
}

// UserHandlerFunc はログイン中のユーザーを受け取るコマンドハンドラ。
type UserHandlerFunc func(ctx context.Context, cmd command.Command, user *model.User) error

// LoggedIn はUserHandlerFuncをcommand.HandlerFuncに変換する関数。
type LoggedIn func(next UserHandlerFunc) command.HandlerFunc

// NewLoggedInMiddleware は設定ファイルのカレントユーザーを解決してから
// ハンドラを呼び出すミドルウェアを返す。
// カレントユーザー未設定ならNOT_LOGGED_IN、存在しなければUNKNOWN_USERを返す。
func NewLoggedInMiddleware(cfg ConfigReader, users UserFinder) LoggedIn {
	return func(next UserHandlerFunc) command.HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			// 1. 設定ファイルからカレントユーザー名を取得
			c, err := cfg.Read()
			if err != nil {
				return fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
			}
			if c.CurrentUserName == "" {
				return model.NewNotLoggedInError()
			}

			// 2. ユーザーの存在を確認
			user, err := users.FindByName(ctx, c.CurrentUserName)
			if err != nil {
				return fmt.Errorf("カレントユーザーの取得に失敗しました: %w", err)
			}
			if user == nil {
				return model.NewUnknownUserError(c.CurrentUserName)
			}

			// 3. ユーザーをコンテキストに注入してハンドラを実行
			return next(ContextWithUser(ctx, user), cmd, user)
		}
	}
}

// UserFromContext はコンテキストからログイン中のユーザーを取得する。
// ログイン必須コマンドの実行中でのみ有効。
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userContextKey).(*model.User)
	return u, ok && u != nil
}

// ContextWithUser はコンテキストにユーザーを注入する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
