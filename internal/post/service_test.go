package post

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/gator/internal/model"
)

func TestService_Browse_PassesUserAndLimit(t *testing.T) {
	var gotUserID string
	var gotLimit int
	repo := newMockPostRepo()
	repo.listForUserFn = func(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error) {
		gotUserID = userID
		gotLimit = limit
		return []model.PostWithFeed{{FeedName: "blog"}}, nil
	}
	svc := NewService(repo)

	posts, err := svc.Browse(context.Background(), &model.User{ID: "user-1", Name: "kahya"}, 5)
	if err != nil {
		t.Fatalf("Browse() error = %v", err)
	}
	if gotUserID != "user-1" || gotLimit != 5 {
		t.Errorf("ListForUser(%q, %d), want (user-1, 5)", gotUserID, gotLimit)
	}
	if len(posts) != 1 {
		t.Errorf("len(posts) = %d, want 1", len(posts))
	}
}

func TestService_Browse_RejectsNonPositiveLimit(t *testing.T) {
	called := false
	repo := newMockPostRepo()
	repo.listForUserFn = func(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error) {
		called = true
		return nil, nil
	}
	svc := NewService(repo)

	for _, limit := range []int{0, -1} {
		_, err := svc.Browse(context.Background(), &model.User{ID: "user-1"}, limit)
		if !model.HasCode(err, model.ErrCodeInvalidLimit) {
			t.Errorf("limit=%d: error = %v, want INVALID_LIMIT", limit, err)
		}
	}
	if called {
		t.Error("不正なlimitでリポジトリを呼んではならない")
	}
}

func TestService_Browse_WrapsRepositoryError(t *testing.T) {
	dbErr := errors.New("db down")
	repo := newMockPostRepo()
	repo.listForUserFn = func(ctx context.Context, userID string, limit int) ([]model.PostWithFeed, error) {
		return nil, dbErr
	}

	_, err := NewService(repo).Browse(context.Background(), &model.User{ID: "user-1"}, DefaultBrowseLimit)
	if !errors.Is(err, dbErr) {
		t.Errorf("error = %v, want wrapped %v", err, dbErr)
	}
}
