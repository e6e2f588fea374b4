package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminHandler は管理者によるユーザー・カテゴリ登録
type AdminHandler struct {
	directory DirectoryServiceInterface
}

func NewAdminHandler(directory DirectoryServiceInterface) *AdminHandler {
	return &AdminHandler{directory: directory}
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required,notblank,min=2,max=250" example:"山田太郎"`
	Email string `json:"email" validate:"required,email,max=254" example:"taro@example.com"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=50" example:"コンサート"`
}

type CategoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateUser godoc
// @Summary ユーザーを登録
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "ユーザー情報"
// @Success 201 {object} UserResponse
// @Failure 409 {object} api.ErrorResponse "メールアドレス重複"
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := h.directory.CreateUser(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, UserResponse{ID: u.ID, Name: u.Name, Email: u.Email})
}

// CreateCategory godoc
// @Summary カテゴリを登録
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateCategoryRequest true "カテゴリ名"
// @Success 201 {object} CategoryResponse
// @Failure 409 {object} api.ErrorResponse "カテゴリ名重複"
// @Router /admin/categories [post]
func (h *AdminHandler) CreateCategory(c echo.Context) error {
	var req CreateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cat, err := h.directory.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CategoryResponse{ID: cat.ID, Name: cat.Name})
}
