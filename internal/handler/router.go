// Package handler はCLIコマンドのハンドラーとコマンドルーティングを提供する。
package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Out    io.Writer
	Logger *slog.Logger

	// ログイン判定
	ConfigReader middleware.ConfigReader
	UserFinder   middleware.UserFinder

	// サービス
	UserService         UserServiceInterface
	FeedService         FeedServiceInterface
	SubscriptionService SubscriptionServiceInterface
	PostService         PostServiceInterface

	// 集約
	Aggregator   Aggregator
	StatusServer *http.Server

	// スキーマ
	Migrate MigrateFunc
}

// NewRouter は全コマンドとミドルウェアチェーンを構成したRegistryを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RecoveryMiddleware → LoggingMiddleware → (LoggedIn) → ハンドラー
func NewRouter(deps *RouterDeps) *command.Registry {
	r := command.NewRegistry()

	r.Use(middleware.NewRecoveryMiddleware(deps.Logger))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	loggedIn := middleware.NewLoggedInMiddleware(deps.ConfigReader, deps.UserFinder)

	userHandler := NewUserHandler(deps.UserService, deps.Out)
	feedHandler := NewFeedHandler(deps.FeedService, deps.Out)
	subHandler := NewSubscriptionHandler(deps.SubscriptionService, deps.Out)
	postHandler := NewPostHandler(deps.PostService, deps.Out)
	aggHandler := NewAggHandler(deps.Aggregator, deps.StatusServer, deps.Out, deps.Logger)
	migrateHandler := NewMigrateHandler(deps.Migrate, deps.Out, deps.Logger)

	// --- ログイン不要のコマンド ---
	r.Register("register", userHandler.Register)
	r.Register("login", userHandler.Login)
	r.Register("reset", userHandler.Reset)
	r.Register("users", userHandler.Users)
	r.Register("feeds", feedHandler.Feeds)
	r.Register("agg", aggHandler.Agg)
	r.Register("migrate", migrateHandler.Migrate)

	// --- ログインが必要なコマンド ---
	r.Register("addfeed", loggedIn(feedHandler.AddFeed))
	r.Register("follow", loggedIn(subHandler.Follow))
	r.Register("following", loggedIn(subHandler.Following))
	r.Register("unfollow", loggedIn(subHandler.Unfollow))
	r.Register("browse", loggedIn(postHandler.Browse))

	return r
}
