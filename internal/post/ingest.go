// Package post は記事の保存と閲覧を提供する。
package post

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"

	"github.com/hitoshi/gator/internal/model"
	"github.com/hitoshi/gator/internal/repository"
	"github.com/hitoshi/gator/internal/rss"
)

// Sanitizer は記事の説明文を表示用の平文に変換する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// IngestService はチャンネルの記事をURL単位で重複排除しながら保存する。
type IngestService struct {
	posts     repository.PostRepository
	sanitizer Sanitizer
	logger    *slog.Logger
	now       func() time.Time
}

// NewIngestService はIngestServiceの新しいインスタンスを生成する。
func NewIngestService(
	posts repository.PostRepository,
	sanitizer Sanitizer,
	logger *slog.Logger,
) *IngestService {
	return &IngestService{
		posts:     posts,
		sanitizer: sanitizer,
		logger:    logger,
		now:       time.Now,
	}
}

// Ingest はチャンネルの全記事を保存し、新規に作成された件数を返す。
// URLが既に存在する記事は何もせず件数にも含めない。
// 挿入エラーが発生した時点で処理を中断する。
func (s *IngestService) Ingest(ctx context.Context, feedID string, ch *rss.Channel) (int, error) {
	created := 0
	now := s.now().UTC()

	for _, item := range ch.Items {
		post := &model.Post{
			ID:          uuid.New().String(),
			Title:       strings.TrimSpace(item.Title),
			URL:         item.Link,
			Description: s.description(item.Description),
			PublishedAt: ParsePublishedAt(item.PubDate),
			FeedID:      feedID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if post.PublishedAt == nil {
			s.logger.Debug("公開日時を解釈できないためNULLとして保存します",
				slog.String("feed_id", feedID),
				slog.String("post_url", post.URL),
				slog.String("pub_date", item.PubDate),
			)
		}

		inserted, err := s.posts.Create(ctx, post)
		if err != nil {
			return created, fmt.Errorf("記事 %s の保存に失敗: %w", post.URL, err)
		}
		if inserted {
			created++
		}
	}

	s.logger.Debug("記事の保存が完了しました",
		slog.String("feed_id", feedID),
		slog.Int("items_total", len(ch.Items)),
		slog.Int("posts_created", created),
	)

	return created, nil
}

func (s *IngestService) description(raw string) *string {
	text := s.sanitizer.Sanitize(raw)
	if text == "" {
		return nil
	}
	return &text
}

// pubDateLayouts はRSSで使われる代表的な日時形式。dateparseより先に厳密に試す。
var pubDateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// rfc822Zones はRFC 822で定義されたタイムゾーン名と固定オフセットの対応。
// time.Parseは未知の略称をオフセット0として扱うため、解釈前に数値へ置き換える。
var rfc822Zones = map[string]string{
	"UT":  "+0000",
	"GMT": "+0000",
	"Z":   "+0000",
	"EST": "-0500",
	"EDT": "-0400",
	"CST": "-0600",
	"CDT": "-0500",
	"MST": "-0700",
	"MDT": "-0600",
	"PST": "-0800",
	"PDT": "-0700",
}

// normalizeZone は末尾のRFC 822タイムゾーン名を数値オフセットに置き換える。
func normalizeZone(raw string) string {
	i := strings.LastIndexByte(raw, ' ')
	if i < 0 {
		return raw
	}
	if offset, ok := rfc822Zones[strings.ToUpper(raw[i+1:])]; ok {
		return raw[:i+1] + offset
	}
	return raw
}

// ParsePublishedAt はpubDateを解釈する。
// 空文字列や解釈できない値にはnilを返し、現在時刻で代用することはない。
// タイムゾーンを含まない値はUTCとして扱う。
func ParsePublishedAt(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	raw = normalizeZone(raw)

	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return inRange(t)
		}
	}

	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil
	}
	return inRange(t)
}

// inRange はPostgreSQLのtimestamptzとRFC3339表示で扱える範囲に収まる時刻だけを返す。
func inRange(t time.Time) *time.Time {
	if t.Year() < 1 || t.Year() > 9999 {
		return nil
	}
	utc := t.UTC()
	return &utc
}
