// Package command はCLIコマンドのディスパッチを提供する。
package command

import (
	"context"
	"sort"

	"github.com/hitoshi/gator/internal/model"
)

// Command はコマンド名と位置引数の組。
type Command struct {
	Name string
	Args []string
}

// HandlerFunc はコマンドを実行する関数。
type HandlerFunc func(ctx context.Context, cmd Command) error

// Middleware はHandlerFuncをラップする関数。
type Middleware func(next HandlerFunc) HandlerFunc

// Chain はhにミドルウェアを適用する。mws[0]が最も外側になる。
func Chain(h HandlerFunc, mws ...Middleware) HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Registry はコマンド名からハンドラへの対応表。
type Registry struct {
	handlers    map[string]HandlerFunc
	middlewares []Middleware
}

// NewRegistry は空のRegistryを生成する。
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]HandlerFunc)}
}

// Use は全コマンドに適用するミドルウェアを追加する。
// Runの時点で登録済みのミドルウェアが適用される。
func (r *Registry) Use(mws ...Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

// Register はコマンドを登録する。同名の登録は上書きする。
func (r *Registry) Register(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// Run はコマンド名に対応するハンドラを実行する。
// 未登録の名前にはUNKNOWN_COMMANDエラーを返す。
func (r *Registry) Run(ctx context.Context, cmd Command) error {
	h, ok := r.handlers[cmd.Name]
	if !ok {
		return model.NewUnknownCommandError(cmd.Name)
	}
	return Chain(h, r.middlewares...)(ctx, cmd)
}

// Has はnameが登録済みかどうかを返す。
func (r *Registry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names は登録済みのコマンド名を昇順で返す。
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
