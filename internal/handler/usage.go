package handler

import (
	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
)

// requireArgs はcmdの引数がn個以上あることを確認する。
// 不足している場合はusageをメッセージとするINVALID_ARGUMENTエラーを返す。
func requireArgs(cmd command.Command, n int, usage string) error {
	if len(cmd.Args) < n {
		return model.NewInvalidArgumentError(usage)
	}
	return nil
}
