package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/hitoshi/gator/internal/command"
)

// NewRecoveryMiddleware はpanic発生時にプロセスクラッシュを防ぎ、
// エラーとして返すミドルウェアを生成する。
func NewRecoveryMiddleware(logger *slog.Logger) command.Middleware {
	return func(next command.HandlerFunc) command.HandlerFunc {
		return func(ctx context.Context, cmd command.Command) (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("command", cmd.Name),
						slog.String("stack", string(debug.Stack())),
					)
					err = fmt.Errorf("internal error in %s command: %v", cmd.Name, rec)
				}
			}()
			return next(ctx, cmd)
		}
	}
}
