package apperror

import "errors"

// エラー種別。各ドメインのエラーはいずれかの種別をラップする
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrAuthorization = errors.New("authorization error")
	ErrConflict      = errors.New("conflict")
)

// Error は種別付きのドメインエラー
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

// Unwrap は種別を返す（errors.Is で種別判定できるようにする）
func (e *Error) Unwrap() error { return e.kind }

// Kind はエラー種別を返す
func (e *Error) Kind() error { return e.kind }

func Validation(msg string) *Error    { return &Error{kind: ErrValidation, msg: msg} }
func NotFound(msg string) *Error      { return &Error{kind: ErrNotFound, msg: msg} }
func Authorization(msg string) *Error { return &Error{kind: ErrAuthorization, msg: msg} }
func Conflict(msg string) *Error      { return &Error{kind: ErrConflict, msg: msg} }

// KindOf はエラーチェーンから種別を取り出す。種別が無い場合は nil
func KindOf(err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrAuthorization, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
