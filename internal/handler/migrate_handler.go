package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/hitoshi/gator/internal/command"
)

// MigrateFunc は未適用のマイグレーションを適用し、適用後のバージョンを返す関数。
type MigrateFunc func() (uint, error)

// MigrateHandler はmigrateコマンドのハンドラー。
type MigrateHandler struct {
	migrate MigrateFunc
	out     io.Writer
	logger  *slog.Logger
}

// NewMigrateHandler はMigrateHandlerを生成する。
func NewMigrateHandler(migrate MigrateFunc, out io.Writer, logger *slog.Logger) *MigrateHandler {
	return &MigrateHandler{
		migrate: migrate,
		out:     out,
		logger:  logger,
	}
}

// Migrate はスキーマを最新にする。
// migrate
func (h *MigrateHandler) Migrate(ctx context.Context, cmd command.Command) error {
	version, err := h.migrate()
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	h.logger.Info("マイグレーションを適用しました",
		slog.Uint64("version", uint64(version)),
	)
	fmt.Fprintln(h.out, "Database migrations applied")
	return nil
}
