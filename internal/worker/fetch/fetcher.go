package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/gator/internal/metrics"
	"github.com/hitoshi/gator/internal/rss"
)

// URLGuard はフィードURLの検証とHTTPクライアント生成のインターフェース。
type URLGuard interface {
	ValidateURL(rawURL string) error
	NewClient(timeout time.Duration) *http.Client
}

const (
	userAgent    = "gator"
	acceptHeader = "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.1"
)

// Fetcher はフィードのHTTP取得とRSS検証を行う。
// 外部への送信レートはrate.Limiterで制限する。
type Fetcher struct {
	guard       URLGuard
	client      *http.Client
	limiter     *rate.Limiter
	logger      *slog.Logger
	metrics     metrics.Recorder
	maxBodySize int64
}

// NewFetcher はFetcherの新しいインスタンスを生成する。
func NewFetcher(
	guard URLGuard,
	limiter *rate.Limiter,
	logger *slog.Logger,
	recorder metrics.Recorder,
	timeout time.Duration,
	maxBodySize int64,
) *Fetcher {
	return &Fetcher{
		guard:       guard,
		client:      guard.NewClient(timeout),
		limiter:     limiter,
		logger:      logger,
		metrics:     recorder,
		maxBodySize: maxBodySize,
	}
}

// FetchChannel はフィードURLを取得し、検証済みのチャンネルを返す。
//
// 2xx以外のステータスとネットワークエラーは*rss.FetchError、
// 本文の検証失敗は*rss.ParseErrorまたは*rss.SchemaErrorを返す。
func (f *Fetcher) FetchChannel(ctx context.Context, feedURL string) (*rss.Channel, error) {
	if err := f.guard.ValidateURL(feedURL); err != nil {
		f.metrics.RecordFetchFailure(metrics.ReasonFetch)
		return nil, fmt.Errorf("SSRF検証に失敗: %w", err)
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("レート制限の待機に失敗: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエスト作成に失敗: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.metrics.RecordFetchFailure(metrics.ReasonFetch)
		f.logger.Error("HTTPリクエストに失敗しました",
			slog.String("feed_url", feedURL),
			slog.String("error", err.Error()),
		)
		return nil, &rss.FetchError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	f.metrics.RecordHTTPStatus(resp.StatusCode)
	f.metrics.RecordFetchLatency(duration)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.metrics.RecordFetchFailure(metrics.ReasonFetch)
		f.logger.Warn("フィードが成功以外のステータスを返しました",
			slog.String("feed_url", feedURL),
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, rss.NewStatusError(resp.StatusCode)
	}

	body, err := f.readBody(resp.Body)
	if err != nil {
		f.metrics.RecordFetchFailure(metrics.ReasonFetch)
		f.logger.Warn("レスポンスボディの読み取りに失敗しました",
			slog.String("feed_url", feedURL),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	ch, err := rss.Parse(bytes.NewReader(body))
	if err != nil {
		f.metrics.RecordFetchFailure(failureReason(err))
		f.logger.Warn("フィードの検証に失敗しました",
			slog.String("feed_url", feedURL),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	f.metrics.RecordFetchSuccess()
	f.logger.Info("フィードを取得しました",
		slog.String("feed_url", feedURL),
		slog.Int("http_status", resp.StatusCode),
		slog.Int("items_total", len(ch.Items)),
		slog.Int64("duration_ms", duration.Milliseconds()),
	)

	return ch, nil
}

// readBody は最大maxBodySizeバイトを読み取る。上限を超える本文は切り詰めずにエラーとする。
func (f *Fetcher) readBody(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, f.maxBodySize+1))
	if err != nil {
		return nil, &rss.FetchError{Reason: "failed to read response body", Err: err}
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, &rss.FetchError{Reason: fmt.Sprintf("response body exceeds %d bytes", f.maxBodySize)}
	}
	return body, nil
}

func failureReason(err error) string {
	var schemaErr *rss.SchemaError
	if errors.As(err, &schemaErr) {
		return metrics.ReasonSchema
	}
	return metrics.ReasonParse
}
