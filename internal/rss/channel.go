// Package rss はRSSフィードの取得結果を検証し、チャンネルと記事に変換する。
package rss

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"
)

// Channel は検証済みのRSSチャンネル。
type Channel struct {
	Title       string
	Link        string
	Description string
	Items       []Item
}

// Item は検証済みのRSS記事。全フィールドが空でないことが保証される。
type Item struct {
	Title       string
	Link        string
	Description string
	PubDate     string
}

// channelPaths はチャンネル要素を探す順序。
var channelPaths = [][]string{
	{"rss", "channel"},
	{"feed", "channel"},
	{"channel"},
}

// Parse はRSS文書を読み取り、検証済みのChannelを返す。
//
// XMLとして不正な場合は*ParseError、チャンネルまたはその必須フィールドが
// 欠けている場合は*SchemaErrorを返す。必須フィールドを欠く記事は黙って除外する。
func Parse(r io.Reader) (*Channel, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read body: %w", err)}
	}

	tree, err := decodeTree(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Err: err, Hint: formatHint(body)}
	}

	node, ok := lookupChannel(tree).(map[string]any)
	if !ok {
		return nil, &SchemaError{Field: "channel", Hint: formatHint(body)}
	}

	ch := &Channel{}
	fields := []struct {
		name string
		dst  *string
	}{
		{"title", &ch.Title},
		{"link", &ch.Link},
		{"description", &ch.Description},
	}
	for _, f := range fields {
		v, ok := nonEmptyString(node[f.name])
		if !ok {
			return nil, &SchemaError{Field: "channel." + f.name}
		}
		*f.dst = v
	}

	ch.Items = lo.FilterMap(normalizeItems(node["item"]), func(raw any, _ int) (Item, bool) {
		return toItem(raw)
	})

	return ch, nil
}

func lookupChannel(tree map[string]any) any {
	for _, path := range channelPaths {
		var node any = tree
		for _, key := range path {
			m, ok := node.(map[string]any)
			if !ok {
				node = nil
				break
			}
			node = m[key]
		}
		if node != nil {
			return node
		}
	}
	return nil
}

// normalizeItems は item の値を常にスライスとして扱えるようにする。
func normalizeItems(v any) []any {
	switch items := v.(type) {
	case nil:
		return nil
	case []any:
		return items
	default:
		return []any{items}
	}
}

func toItem(raw any) (Item, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return Item{}, false
	}

	var item Item
	for key, dst := range map[string]*string{
		"title":       &item.Title,
		"link":        &item.Link,
		"description": &item.Description,
		"pubDate":     &item.PubDate,
	} {
		v, ok := nonEmptyString(m[key])
		if !ok {
			return Item{}, false
		}
		*dst = v
	}

	return item, true
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// formatHint はRSS以外のフィード形式を検出した場合に利用者向けの説明を返す。
func formatHint(body []byte) string {
	switch gofeed.DetectFeedType(bytes.NewReader(body)) {
	case gofeed.FeedTypeAtom:
		return "document is an Atom feed, only RSS is supported"
	case gofeed.FeedTypeJSON:
		return "document is a JSON feed, only RSS is supported"
	default:
		return ""
	}
}
