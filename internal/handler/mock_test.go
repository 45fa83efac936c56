package handler

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hitoshi/gator/internal/config"
	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/user"
)

// --- モック定義 ---

type mockUserService struct {
	registerFn func(ctx context.Context, name string) (*model.User, error)
	loginFn    func(ctx context.Context, name string) error
	resetFn    func(ctx context.Context) error
	listFn     func(ctx context.Context) ([]user.Entry, error)
}

func (m *mockUserService) Register(ctx context.Context, name string) (*model.User, error) {
	if m.registerFn != nil {
		return m.registerFn(ctx, name)
	}
	return &model.User{ID: "user-1", Name: name}, nil
}

func (m *mockUserService) Login(ctx context.Context, name string) error {
	if m.loginFn != nil {
		return m.loginFn(ctx, name)
	}
	return nil
}

func (m *mockUserService) Reset(ctx context.Context) error {
	if m.resetFn != nil {
		return m.resetFn(ctx)
	}
	return nil
}

func (m *mockUserService) List(ctx context.Context) ([]user.Entry, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

type mockFeedService struct {
	addFeedFn   func(ctx context.Context, u *model.User, name, rawURL string) (*model.Feed, *model.FeedFollowDetail, error)
	listFeedsFn func(ctx context.Context) ([]model.FeedWithUser, error)
}

func (m *mockFeedService) AddFeed(ctx context.Context, u *model.User, name, rawURL string) (*model.Feed, *model.FeedFollowDetail, error) {
	if m.addFeedFn != nil {
		return m.addFeedFn(ctx, u, name, rawURL)
	}
	f := &model.Feed{ID: "feed-1", Name: name, URL: rawURL, UserID: u.ID}
	return f, &model.FeedFollowDetail{UserName: u.Name, FeedName: name}, nil
}

func (m *mockFeedService) ListFeeds(ctx context.Context) ([]model.FeedWithUser, error) {
	if m.listFeedsFn != nil {
		return m.listFeedsFn(ctx)
	}
	return nil, nil
}

type mockSubscriptionService struct {
	followFn    func(ctx context.Context, u *model.User, feedURL string) (*model.FeedFollowDetail, error)
	followingFn func(ctx context.Context, u *model.User) ([]model.FeedFollowDetail, error)
	unfollowFn  func(ctx context.Context, u *model.User, feedURL string) (*model.Feed, error)
}

func (m *mockSubscriptionService) Follow(ctx context.Context, u *model.User, feedURL string) (*model.FeedFollowDetail, error) {
	if m.followFn != nil {
		return m.followFn(ctx, u, feedURL)
	}
	return &model.FeedFollowDetail{UserName: u.Name, FeedName: "Feed"}, nil
}

func (m *mockSubscriptionService) Following(ctx context.Context, u *model.User) ([]model.FeedFollowDetail, error) {
	if m.followingFn != nil {
		return m.followingFn(ctx, u)
	}
	return nil, nil
}

func (m *mockSubscriptionService) Unfollow(ctx context.Context, u *model.User, feedURL string) (*model.Feed, error) {
	if m.unfollowFn != nil {
		return m.unfollowFn(ctx, u, feedURL)
	}
	return &model.Feed{Name: "Feed", URL: feedURL}, nil
}

type mockPostService struct {
	browseFn func(ctx context.Context, u *model.User, limit int) ([]model.PostWithFeed, error)
}

func (m *mockPostService) Browse(ctx context.Context, u *model.User, limit int) ([]model.PostWithFeed, error) {
	if m.browseFn != nil {
		return m.browseFn(ctx, u, limit)
	}
	return nil, nil
}

// mockAggregator はStartの呼び出しを記録し、コンテキストのキャンセルまでブロックする。
type mockAggregator struct {
	mu       sync.Mutex
	interval time.Duration
	started  chan struct{}
}

func newMockAggregator() *mockAggregator {
	return &mockAggregator{started: make(chan struct{})}
}

func (m *mockAggregator) Start(ctx context.Context, interval time.Duration) {
	m.mu.Lock()
	m.interval = interval
	m.mu.Unlock()
	close(m.started)
	<-ctx.Done()
}

type mockConfigReader struct {
	current string
}

func (m *mockConfigReader) Read() (*config.Config, error) {
	return &config.Config{DBURL: "postgres://example", CurrentUserName: m.current}, nil
}

type mockUserFinder struct {
	users map[string]*model.User
}

func (m *mockUserFinder) FindByName(_ context.Context, name string) (*model.User, error) {
	return m.users[name], nil
}

// --- テストヘルパー ---

var testUser = &model.User{ID: "user-1", Name: "kahya"}

func newTestLogger() *slog.Logger {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil))
}

func timePtr(t time.Time) *time.Time {
	return &t
}
