// Package app はgatorコマンドの初期化と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/hitoshi/gator/internal/config"
	"github.com/hitoshi/gator/internal/database"
	"github.com/hitoshi/gator/internal/feed"
	"github.com/hitoshi/gator/internal/handler"
	"github.com/hitoshi/gator/internal/logger"
	"github.com/hitoshi/gator/internal/metrics"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/post"
	"github.com/hitoshi/gator/internal/repository"
	"github.com/hitoshi/gator/internal/security"
	"github.com/hitoshi/gator/internal/subscription"
	"github.com/hitoshi/gator/internal/user"
	fetchpkg "github.com/hitoshi/gator/internal/worker/fetch"
)

const (
	// dbConnectTimeout は起動時のDB疎通確認の上限。
	dbConnectTimeout = 5 * time.Second

	// aggCommand は常駐するコマンドの名前。ログレベルの既定値が他と異なる。
	aggCommand = "agg"
)

// Init は実行時設定を読み込み、JSON構造化ログをセットアップする。
// ログレベルはGATOR_LOG_LEVELが優先され、未指定ならaggはinfo、それ以外はwarn。
func Init(w io.Writer, commandName string) (*config.Settings, *slog.Logger, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	fallback := slog.LevelWarn
	if commandName == aggCommand {
		fallback = slog.LevelInfo
	}
	l := logger.SetupDefault(w, logger.ParseLevel(settings.LogLevel, fallback))

	return settings, l, nil
}

// Run はアプリケーションのメインエントリーポイント。
// stdoutにはコマンドの表示出力、stderrにはJSON構造化ログを書き込む。
// argsにはos.Args[1:]を渡す。
func Run(stdout, stderr io.Writer, args []string) error {
	cmd, err := ParseCommand(args)
	if err != nil {
		return err
	}

	settings, log, err := Init(stderr, cmd.Name)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	// SIGINTとSIGTERMでコンテキストをキャンセルする。
	// 最初のシグナル以降は通知を解除し、2回目のシグナルで強制終了できるようにする。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	releaseOnDone(ctx, stop)

	// 1. 設定ファイルの読み込み
	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfgFile := config.NewFile(path)
	cfg, err := cfgFile.Read()
	if err != nil {
		return err
	}

	log.Debug("starting command",
		slog.String("command", cmd.Name),
		slog.String("config_path", cfgFile.Path()),
		slog.String("database_url", maskDatabaseURL(cfg.DBURL)),
	)

	// 2. DBハンドルの作成（sql.Openは接続しない）
	db, err := database.Open(cfg.DBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. ワイヤリングとコマンド名の確認（DBへの問い合わせより前に行う）
	migrate := func() (uint, error) {
		return database.RunMigrations(cfg.DBURL)
	}
	router := handler.NewRouter(buildRouterDeps(db, cfgFile, settings, stdout, log, migrate))
	if !router.Has(cmd.Name) {
		return model.NewUnknownCommandError(cmd.Name)
	}

	// 4. DB疎通確認
	if err := database.Ping(ctx, db, dbConnectTimeout); err != nil {
		return err
	}

	// 5. スキーマの自動適用（migrateコマンド自身は除く）
	if settings.AutoMigrate && cmd.Name != "migrate" {
		version, err := migrate()
		if err != nil {
			return fmt.Errorf("auto migration failed: %w", err)
		}
		log.Debug("schema is up to date", slog.Uint64("version", uint64(version)))
	}

	// 6. コマンド実行
	return router.Run(ctx, cmd)
}

// releaseOnDone はctxの終了後にstopを呼び、シグナル通知を既定の動作に戻す。
func releaseOnDone(ctx context.Context, stop context.CancelFunc) {
	go func() {
		<-ctx.Done()
		stop()
	}()
}

// buildRouterDeps はリポジトリ、サービス、集約ワーカーを組み立てる。
func buildRouterDeps(
	db *sql.DB,
	cfgFile *config.File,
	settings *config.Settings,
	out io.Writer,
	log *slog.Logger,
	migrate handler.MigrateFunc,
) *handler.RouterDeps {
	// 1. リポジトリの初期化
	userRepo := repository.NewPostgresUserRepo(db)
	feedRepo := repository.NewPostgresFeedRepo(db)
	followRepo := repository.NewPostgresFeedFollowRepo(db)
	postRepo := repository.NewPostgresPostRepo(db)

	// 2. セキュリティサービスの初期化
	ssrfGuard := security.NewSSRFGuard(settings.AllowPrivateNetworks)
	sanitizer := security.NewTextSanitizer()

	// 3. メトリクスの初期化
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(reg)

	// 4. 集約ワーカーの初期化
	limiter := rate.NewLimiter(rate.Limit(settings.FetchRateLimit), settings.FetchBurst)
	fetcher := fetchpkg.NewFetcher(
		ssrfGuard, limiter, log, recorder,
		settings.FetchTimeout, settings.FetchMaxSize,
	)
	ingester := post.NewIngestService(postRepo, sanitizer, log)
	scheduler := fetchpkg.NewScheduler(feedRepo, fetcher, ingester, log, out, recorder)

	var status *http.Server
	if settings.MetricsAddr != "" {
		status = &http.Server{
			Addr:              settings.MetricsAddr,
			Handler:           metrics.NewStatusRouter(reg),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}

	// 5. ドメインサービスの初期化
	return &handler.RouterDeps{
		Out:    out,
		Logger: log,

		ConfigReader: cfgFile,
		UserFinder:   userRepo,

		UserService:         user.NewService(userRepo, cfgFile, log),
		FeedService:         feed.NewService(feedRepo, followRepo, ssrfGuard, log),
		SubscriptionService: subscription.NewService(feedRepo, followRepo),
		PostService:         post.NewService(postRepo),

		Aggregator:   scheduler,
		StatusServer: status,

		Migrate: migrate,
	}
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	return u.Redacted()
}
