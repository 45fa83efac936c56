// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// AppError はコマンド実行時の統一エラーフォーマットを表す。
// Messageはそのまま標準エラー出力に表示される。
type AppError struct {
	Code     string // エラーコード
	Message  string // 表示用メッセージ
	Category string // カテゴリ: command, auth, validation, feed
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return e.Message
}

// 定義済みエラーコード
const (
	ErrCodeUnknownCommand   = "UNKNOWN_COMMAND"
	ErrCodeInvalidArgument  = "INVALID_ARGUMENT"
	ErrCodeNotLoggedIn      = "NOT_LOGGED_IN"
	ErrCodeUnknownUser      = "UNKNOWN_USER"
	ErrCodeDuplicateUser    = "DUPLICATE_USER"
	ErrCodeDuplicateFeed    = "DUPLICATE_FEED"
	ErrCodeFeedNotFound     = "FEED_NOT_FOUND"
	ErrCodeAlreadyFollowing = "ALREADY_FOLLOWING"
	ErrCodeNotFollowing     = "NOT_FOLLOWING"
	ErrCodeInvalidDuration  = "INVALID_DURATION"
	ErrCodeInvalidLimit     = "INVALID_LIMIT"
	ErrCodeInvalidURL       = "INVALID_URL"
)

// HasCode はエラーチェーン中に指定コードのAppErrorが含まれるかを返す。
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// NewUnknownCommandError は未登録コマンドのエラーを生成する。
func NewUnknownCommandError(name string) *AppError {
	return &AppError{
		Code:     ErrCodeUnknownCommand,
		Message:  fmt.Sprintf("Unknown command: %s", name),
		Category: "command",
	}
}

// NewInvalidArgumentError は引数不足などの使い方の誤りを表すエラーを生成する。
func NewInvalidArgumentError(message string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidArgument,
		Message:  message,
		Category: "command",
	}
}

// NewNotLoggedInError はカレントユーザー未設定のエラーを生成する。
func NewNotLoggedInError() *AppError {
	return &AppError{
		Code:     ErrCodeNotLoggedIn,
		Message:  "no current user set",
		Category: "auth",
	}
}

// NewUnknownUserError は存在しないユーザー名のエラーを生成する。
func NewUnknownUserError(name string) *AppError {
	return &AppError{
		Code:     ErrCodeUnknownUser,
		Message:  fmt.Sprintf("user %q does not exist", name),
		Category: "auth",
	}
}

// NewDuplicateUserError は登録済みユーザー名のエラーを生成する。
func NewDuplicateUserError(name string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateUser,
		Message:  fmt.Sprintf("user %q already exists", name),
		Category: "validation",
	}
}

// NewDuplicateFeedError は登録済みフィードURLのエラーを生成する。
func NewDuplicateFeedError(url string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateFeed,
		Message:  fmt.Sprintf("feed already exists: %s", url),
		Category: "feed",
	}
}

// NewFeedNotFoundError はURLに対応するフィードが無い場合のエラーを生成する。
func NewFeedNotFoundError(url string) *AppError {
	return &AppError{
		Code:     ErrCodeFeedNotFound,
		Message:  fmt.Sprintf("feed not found: %s", url),
		Category: "feed",
	}
}

// NewAlreadyFollowingError は既にフォロー済みのフィードを再フォローした場合のエラーを生成する。
func NewAlreadyFollowingError(userName, feedName string) *AppError {
	return &AppError{
		Code:     ErrCodeAlreadyFollowing,
		Message:  fmt.Sprintf("user %q is already following %q", userName, feedName),
		Category: "feed",
	}
}

// NewNotFollowingError はフォローしていないフィードのアンフォローエラーを生成する。
func NewNotFollowingError(userName, feedName string) *AppError {
	return &AppError{
		Code:     ErrCodeNotFollowing,
		Message:  fmt.Sprintf("user %q is not following %q", userName, feedName),
		Category: "feed",
	}
}

// NewInvalidDurationError は収集間隔の文字列が不正な場合のエラーを生成する。
func NewInvalidDurationError(s string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidDuration,
		Message:  fmt.Sprintf("invalid duration: %s", s),
		Category: "validation",
	}
}

// NewInvalidLimitError はbrowseの件数指定が正の整数でない場合のエラーを生成する。
func NewInvalidLimitError() *AppError {
	return &AppError{
		Code:     ErrCodeInvalidLimit,
		Message:  "browse limit must be a positive number",
		Category: "validation",
	}
}

// NewInvalidURLError はフィードURLが無効な場合のエラーを生成する。
func NewInvalidURLError(reason string) *AppError {
	return &AppError{
		Code:     ErrCodeInvalidURL,
		Message:  fmt.Sprintf("invalid feed url: %s", reason),
		Category: "validation",
	}
}
