package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/worker/fetch"
)

// statusShutdownTimeout はステータスサーバーの停止を待つ上限。
const statusShutdownTimeout = 5 * time.Second

// Aggregator は集約ループのインターフェース。
// Startはコンテキストがキャンセルされ、実行中のサイクルが完了するまでブロックする。
type Aggregator interface {
	Start(ctx context.Context, interval time.Duration)
}

// AggHandler はaggコマンドのハンドラー。
type AggHandler struct {
	aggregator Aggregator
	status     *http.Server
	out        io.Writer
	logger     *slog.Logger
}

// NewAggHandler はAggHandlerを生成する。
// statusがnilでなければ集約中にメトリクス用のステータスサーバーを起動する。
func NewAggHandler(aggregator Aggregator, status *http.Server, out io.Writer, logger *slog.Logger) *AggHandler {
	return &AggHandler{
		aggregator: aggregator,
		status:     status,
		out:        out,
		logger:     logger,
	}
}

// Agg は指定間隔でフィードを集約し続ける。SIGINT/SIGTERMで停止する。
// agg <time_between_reqs>
func (h *AggHandler) Agg(ctx context.Context, cmd command.Command) error {
	if err := requireArgs(cmd, 1, "agg command requires a time_between_reqs argument"); err != nil {
		return err
	}

	interval, err := fetch.ParseInterval(cmd.Args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(h.out, "Collecting feeds every %s\n", fetch.FormatInterval(interval))

	if h.status != nil {
		h.startStatusServer()
		defer h.stopStatusServer()
	}

	h.aggregator.Start(ctx, interval)

	fmt.Fprintln(h.out, "Shutting down feed aggregator...")
	return nil
}

func (h *AggHandler) startStatusServer() {
	go func() {
		h.logger.Info("ステータスサーバーを起動しました",
			slog.String("addr", h.status.Addr),
		)
		if err := h.status.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("ステータスサーバーの起動に失敗しました",
				slog.String("addr", h.status.Addr),
				slog.String("error", err.Error()),
			)
		}
	}()
}

func (h *AggHandler) stopStatusServer() {
	ctx, cancel := context.WithTimeout(context.Background(), statusShutdownTimeout)
	defer cancel()

	if err := h.status.Shutdown(ctx); err != nil {
		h.logger.Warn("ステータスサーバーの停止に失敗しました",
			slog.String("error", err.Error()),
		)
	}
}
