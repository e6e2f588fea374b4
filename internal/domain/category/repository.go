package category

import "context"

// Repository はカテゴリリポジトリのインターフェース
type Repository interface {
	// Create は新しいカテゴリを作成する
	Create(ctx context.Context, category *Category) error

	// Exists はカテゴリが存在するかを返す
	Exists(ctx context.Context, id int64) (bool, error)
}
