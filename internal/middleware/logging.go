package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
)

// NewLoggingMiddleware はコマンド実行のJSON構造化ログを出力するミドルウェアを返す。
// ログにはcommand、args、duration_ms、error（失敗時）を含む。
func NewLoggingMiddleware(logger *slog.Logger) command.Middleware {
	return func(next command.HandlerFunc) command.HandlerFunc {
		return func(ctx context.Context, cmd command.Command) error {
			start := time.Now()

			err := next(ctx, cmd)

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []any{
				slog.String("command", cmd.Name),
				slog.Int("args", len(cmd.Args)),
				slog.Float64("duration_ms", durationMs),
			}

			// 利用者の入力ミスはWarn、それ以外の失敗はError
			level := slog.LevelInfo
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				var appErr *model.AppError
				if errors.As(err, &appErr) {
					attrs = append(attrs, slog.String("code", appErr.Code))
					level = slog.LevelWarn
				} else {
					level = slog.LevelError
				}
			}

			logger.Log(ctx, level, "command", attrs...)
			return err
		}
	}
}
