package user

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

// User ドメインのエラー定義
var (
	ErrUserNotFound  = apperror.NotFound("ユーザーが見つかりません")
	ErrNameRequired  = apperror.Validation("ユーザー名は必須です")
	ErrEmailRequired = apperror.Validation("メールアドレスは必須です")
	ErrEmailTaken    = apperror.Conflict("このメールアドレスは既に使用されています")
)
