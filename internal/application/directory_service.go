package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
)

// DirectoryService は管理者によるユーザーとカテゴリの登録を扱う
type DirectoryService struct {
	userRepo     user.Repository
	categoryRepo category.Repository
}

func NewDirectoryService(userRepo user.Repository, categoryRepo category.Repository) *DirectoryService {
	return &DirectoryService{userRepo: userRepo, categoryRepo: categoryRepo}
}

func (s *DirectoryService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	u := user.NewUser(name, email)
	if err := u.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info("ユーザーを登録しました", zap.Int64("user_id", u.ID))
	return u, nil
}

func (s *DirectoryService) CreateCategory(ctx context.Context, name string) (*category.Category, error) {
	c := category.NewCategory(name)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
