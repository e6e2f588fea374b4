package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
)

// CategoryRepository はカテゴリリポジトリのPostgreSQL実装
type CategoryRepository struct{ db *sqlx.DB }

func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	if err := r.db.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID); err != nil {
		if isUniqueViolation(err) {
			return category.ErrNameTaken
		}
		return fmt.Errorf("カテゴリ作成に失敗: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id); err != nil {
		return false, fmt.Errorf("カテゴリ存在確認に失敗: %w", err)
	}
	return exists, nil
}

var _ category.Repository = (*CategoryRepository)(nil)
