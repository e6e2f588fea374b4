package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/category"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ViewSource は表示用の閲覧数を提供する
type ViewSource interface {
	ViewCount(ctx context.Context, eventID int64) int64
	ViewCounts(ctx context.Context, eventIDs []int64) map[int64]int64
	Forget(ctx context.Context, eventID int64)
}

// EventSummary は確定済み参加者数と閲覧数を付加したイベント
type EventSummary struct {
	*event.Event
	ConfirmedRequests int
	Views             int64
}

type EventService struct {
	tx           *txRunner
	eventRepo    event.Repository
	requestRepo  participation.Repository
	userRepo     user.Repository
	categoryRepo category.Repository
	views        ViewSource
	now          func() time.Time
}

// NewEventService は EventService を作成する。views と m は nil でもよい
func NewEventService(
	txm transaction.Manager,
	eventRepo event.Repository,
	requestRepo participation.Repository,
	userRepo user.Repository,
	categoryRepo category.Repository,
	views ViewSource,
	m *metrics.Metrics,
	maxTxAttempts uint,
) *EventService {
	return &EventService{
		tx:           newTxRunner(txm, m, maxTxAttempts),
		eventRepo:    eventRepo,
		requestRepo:  requestRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		views:        views,
		now:          time.Now,
	}
}

// CreateEvent は審査待ちのイベントを作成する
func (s *EventService) CreateEvent(ctx context.Context, initiatorID int64, d event.Details) (*EventSummary, error) {
	if err := event.ValidateEventDate(d.EventDate, s.now()); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, d.CategoryID); err != nil {
		return nil, err
	}

	e := event.NewEvent(initiatorID, d)
	if err := e.Validate(); err != nil {
		return nil, fmt.Errorf("バリデーションエラー: %w", err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	logger.Info("イベントを作成しました", zap.Int64("event_id", e.ID), zap.Int64("initiator_id", initiatorID))
	return &EventSummary{Event: e}, nil
}

// UpdateEvent は主催者によるイベント更新
func (s *EventService) UpdateEvent(ctx context.Context, actorID, eventID int64, patch event.UpdatePatch) (*EventSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, actorID); err != nil {
		return nil, err
	}
	return s.update(ctx, actorID, false, eventID, patch)
}

// AdminUpdateEvent は管理者によるイベント更新。審査待ちのイベントのみ公開・却下できる
func (s *EventService) AdminUpdateEvent(ctx context.Context, eventID int64, patch event.UpdatePatch) (*EventSummary, error) {
	return s.update(ctx, 0, true, eventID, patch)
}

func (s *EventService) update(ctx context.Context, actorID int64, asAdmin bool, eventID int64, patch event.UpdatePatch) (*EventSummary, error) {
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	before := e.State
	if err := e.ApplyUpdate(actorID, asAdmin, patch, s.now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, err
	}
	if e.State != before {
		logger.Info("イベントの状態を変更しました",
			zap.Int64("event_id", e.ID),
			zap.String("from", string(before)),
			zap.String("to", string(e.State)),
			zap.Bool("admin", asAdmin),
		)
	}
	return s.summarize(ctx, e)
}

// GetUserEvent は主催者が自分のイベントを取得する。他人のイベントは存在しないものとして扱う
func (s *EventService) GetUserEvent(ctx context.Context, userID, eventID int64) (*EventSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.InitiatorID != userID {
		return nil, event.ErrEventNotFound
	}
	return s.summarize(ctx, e)
}

// ListUserEvents は主催者のイベント一覧を from 件目から size 件返す
func (s *EventService) ListUserEvents(ctx context.Context, userID int64, from, size int) ([]*EventSummary, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	if from < 0 {
		from = 0
	}

	events, err := s.eventRepo.ListByInitiator(ctx, userID, size, from)
	if err != nil {
		return nil, err
	}
	return s.summarizeAll(ctx, events)
}

// DeleteEvent は有効な参加リクエストのない未公開イベントを削除する
func (s *EventService) DeleteEvent(ctx context.Context, actorID, eventID int64) error {
	_, err := inTx(ctx, s.tx, "delete_event", func(tx transaction.Tx) (struct{}, error) {
		e, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return struct{}{}, err
		}
		if e.InitiatorID != actorID {
			return struct{}{}, event.ErrNotInitiator
		}
		if e.IsPublished() {
			return struct{}{}, event.ErrEventPublished
		}
		active, err := s.requestRepo.CountActive(ctx, tx, eventID)
		if err != nil {
			return struct{}{}, err
		}
		if active > 0 {
			return struct{}{}, event.ErrEventHasActiveRequests
		}
		return struct{}{}, s.eventRepo.Delete(ctx, tx, eventID)
	})
	if err != nil {
		return err
	}
	if s.views != nil {
		s.views.Forget(ctx, eventID)
	}
	logger.Info("イベントを削除しました", zap.Int64("event_id", eventID))
	return nil
}

func (s *EventService) ensureCategory(ctx context.Context, categoryID int64) error {
	if categoryID == 0 {
		return nil
	}
	ok, err := s.categoryRepo.Exists(ctx, categoryID)
	if err != nil {
		return err
	}
	if !ok {
		return category.ErrCategoryNotFound
	}
	return nil
}

func (s *EventService) summarize(ctx context.Context, e *event.Event) (*EventSummary, error) {
	confirmed, err := s.requestRepo.CountConfirmedByEvents(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	summary := &EventSummary{Event: e, ConfirmedRequests: confirmed[e.ID]}
	if s.views != nil {
		summary.Views = s.views.ViewCount(ctx, e.ID)
	}
	return summary, nil
}

// summarizeAll は確定済み件数をDBから、閲覧数を統計サービスからまとめて取得する
func (s *EventService) summarizeAll(ctx context.Context, events []*event.Event) ([]*EventSummary, error) {
	ids := make([]int64, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	confirmed, err := s.requestRepo.CountConfirmedByEvents(ctx, ids)
	if err != nil {
		return nil, err
	}
	var views map[int64]int64
	if s.views != nil {
		views = s.views.ViewCounts(ctx, ids)
	}

	summaries := make([]*EventSummary, len(events))
	for i, e := range events {
		summaries[i] = &EventSummary{
			Event:             e,
			ConfirmedRequests: confirmed[e.ID],
			Views:             views[e.ID],
		}
	}
	return summaries, nil
}
