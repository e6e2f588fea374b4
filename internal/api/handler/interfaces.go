package handler

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
)

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, initiatorID int64, d event.Details) (*application.EventSummary, error)
	UpdateEvent(ctx context.Context, actorID, eventID int64, patch event.UpdatePatch) (*application.EventSummary, error)
	AdminUpdateEvent(ctx context.Context, eventID int64, patch event.UpdatePatch) (*application.EventSummary, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (*application.EventSummary, error)
	ListUserEvents(ctx context.Context, userID int64, from, size int) ([]*application.EventSummary, error)
	DeleteEvent(ctx context.Context, actorID, eventID int64) error
}

// ParticipationServiceInterface は参加リクエストサービスのインターフェース
type ParticipationServiceInterface interface {
	CreateRequest(ctx context.Context, requesterID, eventID int64) (*participation.Request, error)
	CancelRequest(ctx context.Context, requesterID, requestID int64) (*participation.Request, error)
	ProcessBatch(ctx context.Context, organizerID, eventID int64, requestIDs []int64, desired participation.Status) (*participation.BatchResult, error)
	ListUserRequests(ctx context.Context, userID int64) ([]*participation.Request, error)
	ListEventRequests(ctx context.Context, organizerID, eventID int64) ([]*participation.Request, error)
}

// DirectoryServiceInterface はユーザー・カテゴリ登録のインターフェース
type DirectoryServiceInterface interface {
	CreateUser(ctx context.Context, name, email string) (*user.User, error)
	CreateCategory(ctx context.Context, name string) (*category.Category, error)
}
