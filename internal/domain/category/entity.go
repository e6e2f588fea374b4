package category

import "strings"

// Category はイベントのカテゴリ
type Category struct {
	ID   int64
	Name string
}

// NewCategory は新しいカテゴリを作成する
func NewCategory(name string) *Category {
	return &Category{Name: strings.TrimSpace(name)}
}

// Validate はカテゴリの検証を行う
func (c *Category) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	return nil
}
