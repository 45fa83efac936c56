// Package config は設定ファイルと実行時設定の読み込みを提供する。
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// configFileName はホームディレクトリ直下に置く設定ファイル名。
const configFileName = ".gatorconfig.json"

// placeholderDBURL は設定ファイルが存在しない場合に書き込む接続文字列。
const placeholderDBURL = "postgres://example"

// Config は設定ファイルに永続化される内容を表す。
type Config struct {
	DBURL           string `json:"db_url"`
	CurrentUserName string `json:"current_user_name,omitempty"`
}

// Validate は設定内容を検証する。db_urlは必須。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBURL) == "" {
		return fmt.Errorf(`config must include a non-empty "db_url" string`)
	}
	return nil
}

// File は設定ファイルの読み書きを行う。
// プロセス内で共有するグローバル状態は持たず、起動時に生成して各コマンドへ渡す。
type File struct {
	path string
}

// NewFile は指定パスの設定ファイルを扱うFileを生成する。
func NewFile(path string) *File {
	return &File{path: path}
}

// DefaultPath は設定ファイルのパスを返す。
// 環境変数GATOR_CONFIGが設定されていればそれを優先する。
func DefaultPath() (string, error) {
	if p := os.Getenv("GATOR_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// Path は設定ファイルのパスを返す。
func (f *File) Path() string {
	return f.path
}

// Read は設定ファイルを読み込み検証する。
// ファイルが存在しない場合はプレースホルダの接続文字列で作成してから読み込む。
func (f *File) Read() (*Config, error) {
	if err := f.ensureExists(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Write は設定を整形済みJSONとして書き込む。
func (f *File) Write(cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(f.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetUser はカレントユーザー名を更新して保存する。
func (f *File) SetUser(name string) error {
	cfg, err := f.Read()
	if err != nil {
		return err
	}
	cfg.CurrentUserName = name
	return f.Write(cfg)
}

func (f *File) ensureExists() error {
	_, err := os.Stat(f.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	return f.Write(&Config{DBURL: placeholderDBURL})
}
