package errors

import (
	"errors"
	"fmt"
)

// Category classifies a transcription failure for the user
type Category string

const (
	CategoryFileTooLarge    Category = "file_too_large"
	CategoryEncodingFailed  Category = "encoding_failed"
	CategoryAuth            Category = "auth_error"
	CategoryPayloadTooLarge Category = "payload_too_large"
	CategoryTransport       Category = "transport_error"
	CategoryEmptyResponse   Category = "empty_response"
)

// Messages shown to the end user, one per category
var messages = map[Category]string{
	CategoryFileTooLarge:    "ファイルサイズが大きすぎます。100MB以下のファイルを選択してください。",
	CategoryEncodingFailed:  "ファイルの読み込みに失敗しました。",
	CategoryAuth:            "APIキーが無効です。設定を確認してください。",
	CategoryPayloadTooLarge: "ファイルサイズが大きすぎます。より小さいファイルで試してください。",
	CategoryTransport:       "Gemini APIとの通信中にエラーが発生しました。",
	CategoryEmptyResponse:   "APIから有効な文字起こしテキストが返されませんでした。",
}

// UnknownMessage is shown when a failure carries no category
const UnknownMessage = "文字起こし中に不明なエラーが発生しました。"

// Sentinel errors for errors.Is comparisons
var (
	ErrFileTooLarge    = New(CategoryFileTooLarge)
	ErrEncodingFailed  = New(CategoryEncodingFailed)
	ErrAuth            = New(CategoryAuth)
	ErrPayloadTooLarge = New(CategoryPayloadTooLarge)
	ErrTransport       = New(CategoryTransport)
	ErrEmptyResponse   = New(CategoryEmptyResponse)
)

// Error is a categorized transcription failure
type Error struct {
	category Category
	cause    error
}

// New creates an error of the given category without a cause
func New(category Category) *Error {
	return &Error{category: category}
}

// Wrap attaches a category to an underlying failure
func Wrap(err error, category Category) error {
	if err == nil {
		return nil
	}
	return &Error{category: category, cause: err}
}

// Wrapf attaches a category and a formatted cause
func Wrapf(category Category, format string, args ...interface{}) error {
	return &Error{category: category, cause: fmt.Errorf(format, args...)}
}

// Category returns the failure category
func (e *Error) Category() Category {
	return e.category
}

// Message returns the user-facing message for the category
func (e *Error) Message() string {
	if msg, ok := messages[e.category]; ok {
		return msg
	}
	return UnknownMessage
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.category, e.cause)
	}
	return string(e.category)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error of the same category
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.category == t.category
}

// CategoryOf returns the category of err, or "" when it carries none
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.category
	}
	return ""
}

// UserMessage returns the message to show for err
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message()
	}
	return UnknownMessage
}
