package category

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

// Category ドメインのエラー定義
var (
	ErrCategoryNotFound = apperror.NotFound("カテゴリが見つかりません")
	ErrNameRequired     = apperror.Validation("カテゴリ名は必須です")
	ErrNameTaken        = apperror.Conflict("このカテゴリ名は既に使用されています")
)
