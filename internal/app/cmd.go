package app

import (
	"github.com/hitoshi/gator/internal/command"
	"github.com/hitoshi/gator/internal/model"
)

// ParseCommand はコマンドライン引数をコマンド名と引数に分解する。
// argsにはos.Args[1:]を渡す。
func ParseCommand(args []string) (command.Command, error) {
	if len(args) == 0 {
		return command.Command{}, model.NewInvalidArgumentError("Not enough arguments provided")
	}
	return command.Command{Name: args[0], Args: args[1:]}, nil
}
