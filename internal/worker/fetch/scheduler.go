// Package fetch はaggコマンドのバックグラウンド集約処理を提供する。
// スケジューラとフェッチャーを含む。
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hitoshi/gator/internal/metrics"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/rss"
)

// FeedStore はスケジューラが使用するフィード永続化のインターフェース。
type FeedStore interface {
	NextToFetch(ctx context.Context) (*model.Feed, error)
	MarkFetched(ctx context.Context, feedID string, at time.Time) error
}

// ChannelFetcher はフィードURLからチャンネルを取得するインターフェース。
type ChannelFetcher interface {
	FetchChannel(ctx context.Context, feedURL string) (*rss.Channel, error)
}

// Ingester はチャンネルの記事を保存し、新規作成件数を返すインターフェース。
type Ingester interface {
	Ingest(ctx context.Context, feedID string, ch *rss.Channel) (int, error)
}

// Scheduler は最も古くフェッチされたフィードを1件ずつ集約する。
// 同時に実行されるサイクルは常に1つで、実行中に届いたティックは破棄する。
type Scheduler struct {
	feeds    FeedStore
	fetcher  ChannelFetcher
	ingester Ingester
	logger   *slog.Logger
	out      io.Writer
	metrics  metrics.Recorder
	now      func() time.Time

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewScheduler はSchedulerの新しいインスタンスを生成する。
// outにはコンソール向けの進捗メッセージを書き込む。
func NewScheduler(
	feeds FeedStore,
	fetcher ChannelFetcher,
	ingester Ingester,
	logger *slog.Logger,
	out io.Writer,
	recorder metrics.Recorder,
) *Scheduler {
	return &Scheduler{
		feeds:    feeds,
		fetcher:  fetcher,
		ingester: ingester,
		logger:   logger,
		out:      out,
		metrics:  recorder,
		now:      time.Now,
	}
}

// Start は即座に1サイクルを実行し、以降intervalごとにサイクルを実行する。
// コンテキストがキャンセルされると新しいサイクルの開始を止め、
// 実行中のサイクルの完了を待ってから戻る。
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("集約スケジューラを開始しました",
		slog.Duration("interval", interval),
	)

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("集約スケジューラを停止しました")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick は実行中のサイクルが無ければ新しいサイクルを起動する。
func (s *Scheduler) tick(ctx context.Context) {
	if !s.busy.CompareAndSwap(false, true) {
		s.metrics.RecordCycleSkipped()
		s.logger.Warn("前回のサイクルが実行中のためティックをスキップしました")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.busy.Store(false)

		// シグナル受信後も実行中のサイクルは最後まで完了させる
		if err := s.RunOnce(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("集約サイクルの実行に失敗しました",
				slog.String("error", err.Error()),
			)
		}
	}()
}

// RunOnce は1サイクルを実行する。
// 対象フィードのlast_fetched_atはフェッチより前に更新するため、
// フェッチに失敗したフィードも次回はキューの末尾に回る。
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()

	feed, err := s.feeds.NextToFetch(ctx)
	if err != nil {
		s.metrics.RecordCycle(metrics.CycleFailed, time.Since(start))
		return fmt.Errorf("次のフィードの取得に失敗: %w", err)
	}
	if feed == nil {
		fmt.Fprintln(s.out, "No feeds found to fetch.")
		s.metrics.RecordCycle(metrics.CycleEmpty, time.Since(start))
		return nil
	}

	created, err := s.collect(ctx, feed)
	if err != nil {
		s.metrics.RecordCycle(metrics.CycleFailed, time.Since(start))
		return err
	}

	duration := time.Since(start)
	s.metrics.RecordCycle(metrics.CycleOK, duration)
	s.metrics.RecordPostsCreated(created)
	s.logger.Info("集約サイクルが完了しました",
		slog.String("feed_id", feed.ID),
		slog.String("feed_url", feed.URL),
		slog.Int("posts_created", created),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)

	return nil
}

func (s *Scheduler) collect(ctx context.Context, feed *model.Feed) (int, error) {
	fmt.Fprintf(s.out, "Fetching: %s (%s)\n", feed.Name, feed.URL)

	if err := s.feeds.MarkFetched(ctx, feed.ID, s.now().UTC()); err != nil {
		return 0, fmt.Errorf("フィード %s のフェッチ日時更新に失敗: %w", feed.Name, err)
	}

	ch, err := s.fetcher.FetchChannel(ctx, feed.URL)
	if err != nil {
		return 0, fmt.Errorf("フィード %s の取得に失敗: %w", feed.Name, err)
	}

	created, err := s.ingester.Ingest(ctx, feed.ID, ch)
	if err != nil {
		return 0, fmt.Errorf("フィード %s の記事保存に失敗: %w", feed.Name, err)
	}

	fmt.Fprintf(s.out, "Saved %d new posts from %s\n", created, feed.Name)
	return created, nil
}
