package rss

import (
	"fmt"
	"net/http"
)

// FetchError はフィード取得時のHTTPエラーまたはネットワークエラーを表す。
// ネットワークエラーの場合StatusCodeは0。
type FetchError struct {
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return fmt.Sprintf("failed to fetch feed: %v", e.Err)
		}
		return "failed to fetch feed: " + e.Reason
	}
	return fmt.Sprintf("failed to fetch feed: %d %s", e.StatusCode, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// NewStatusError はHTTPステータスコードからFetchErrorを生成する。
func NewStatusError(statusCode int) *FetchError {
	return &FetchError{StatusCode: statusCode, Reason: http.StatusText(statusCode)}
}

// ParseError はレスポンスボディがXMLとして解釈できないことを表す。
type ParseError struct {
	Err  error
	Hint string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid RSS: malformed XML: %v", e.Err)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError は必須の要素が欠けていることを表す。
// Fieldは "channel" や "channel.title" のようなパス。
type SchemaError struct {
	Field string
	Hint  string
}

func (e *SchemaError) Error() string {
	msg := "invalid RSS: missing " + e.Field
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}
