package handler

import (
	"github.com/labstack/echo/v4"
)

// Handlers はルーティング対象のハンドラー一式
type Handlers struct {
	Event         *EventHandler
	Participation *ParticipationHandler
	Admin         *AdminHandler
	Health        *HealthHandler
}

// RegisterRoutes は /api/v1 配下にルートを登録する。adminAuth は管理者APIに適用される
func RegisterRoutes(e *echo.Echo, h Handlers, adminAuth echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Check)

	v1 := e.Group("/api/v1")
	v1.GET("/health", h.Health.Check)

	users := v1.Group("/users/:user_id")
	users.POST("/requests", h.Participation.Create)
	users.GET("/requests", h.Participation.ListMine)
	users.PATCH("/requests/:request_id/cancel", h.Participation.Cancel)

	users.POST("/events", h.Event.Create)
	users.GET("/events", h.Event.List)
	users.GET("/events/:event_id", h.Event.GetByID)
	users.PATCH("/events/:event_id", h.Event.Update)
	users.DELETE("/events/:event_id", h.Event.Delete)
	users.GET("/events/:event_id/requests", h.Participation.ListForEvent)
	users.PATCH("/events/:event_id/requests", h.Participation.UpdateStatuses)

	admin := v1.Group("/admin", adminAuth)
	admin.PATCH("/events/:event_id", h.Event.AdminUpdate)
	admin.POST("/users", h.Admin.CreateUser)
	admin.POST("/categories", h.Admin.CreateCategory)
}
