// Package user はユーザー登録とログイン状態のドメインロジックを提供する。
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gator/internal/config"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/repository"
)

// ConfigStore は現在のユーザー名を保持する設定ファイルのインターフェース。
type ConfigStore interface {
	Read() (*config.Config, error)
	SetUser(name string) error
}

// Entry はユーザー一覧の1行。
type Entry struct {
	Name    string
	Current bool
}

// Service はユーザー管理のサービス層。
type Service struct {
	users  repository.UserRepository
	config ConfigStore
	logger *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(users repository.UserRepository, cfg ConfigStore, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		config: cfg,
		logger: logger,
	}
}

// Register はユーザーを作成し、現在のユーザーに設定する。
func (s *Service) Register(ctx context.Context, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewInvalidArgumentError("username must not be empty")
	}

	existing, err := s.users.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateUserError(name)
	}

	now := time.Now().UTC()
	u := &model.User{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 確認後に別プロセスが同名で登録した場合
		if errors.Is(err, repository.ErrConflict) {
			return nil, model.NewDuplicateUserError(name)
		}
		return nil, err
	}

	if err := s.config.SetUser(name); err != nil {
		return nil, fmt.Errorf("現在のユーザーの保存に失敗しました: %w", err)
	}

	s.logger.Info("ユーザーを登録しました",
		slog.String("user_id", u.ID),
		slog.String("user_name", u.Name),
	)

	return u, nil
}

// Login は既存ユーザーを現在のユーザーに設定する。
func (s *Service) Login(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.NewInvalidArgumentError("username must not be empty")
	}

	u, err := s.users.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if u == nil {
		return model.NewUnknownUserError(name)
	}

	if err := s.config.SetUser(u.Name); err != nil {
		return fmt.Errorf("現在のユーザーの保存に失敗しました: %w", err)
	}
	return nil
}

// Reset は全ユーザーを削除する。フィード、フォロー、記事はCASCADEで削除される。
// 設定ファイルの現在のユーザー名は変更しない。
func (s *Service) Reset(ctx context.Context) error {
	n, err := s.users.DeleteAll(ctx)
	if err != nil {
		return err
	}

	s.logger.Warn("データベースをリセットしました",
		slog.Int64("users_deleted", n),
	)
	return nil
}

// List は全ユーザーを、現在のユーザーかどうかの印付きで返す。
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	cfg, err := s.config.Read()
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(users))
	for _, u := range users {
		entries = append(entries, Entry{
			Name:    u.Name,
			Current: cfg.CurrentUserName != "" && u.Name == cfg.CurrentUserName,
		})
	}
	return entries, nil
}
