package post

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/hitoshi/gator/internal/model"
)

// mockPostRepo はURLの一意制約を再現するPostRepositoryのテスト用モック。
type mockPostRepo struct {
	mu            sync.Mutex
	byURL         map[string]*model.Post
	createErr     error
	listForUserFn func(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error)
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{byURL: make(map[string]*model.Post)}
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return false, m.createErr
	}
	if _, exists := m.byURL[post.URL]; exists {
		return false, nil
	}
	m.byURL[post.URL] = post
	return true, nil
}

func (m *mockPostRepo) ListForUser(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error) {
	if m.listForUserFn != nil {
		return m.listForUserFn(ctx, userID, limit)
	}
	return nil, nil
}

// stubSanitizer は入力をそのまま返す。
type stubSanitizer struct{}

func (stubSanitizer) Sanitize(raw string) string { return raw }

func newTestLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = &bytes.Buffer{}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
