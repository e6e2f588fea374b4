package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/apperror"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/domain/user"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// ParticipationService は参加リクエストの受付と承認を扱う。
// 確定済み件数の確認と書き込みは、イベント行をロックした同一トランザクション内で行う
type ParticipationService struct {
	tx          *txRunner
	requestRepo participation.Repository
	eventRepo   event.Repository
	userRepo    user.Repository
	locker      transaction.Locker
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewParticipationService は ParticipationService を作成する。
// locker と m は nil でもよい
func NewParticipationService(
	txm transaction.Manager,
	requestRepo participation.Repository,
	eventRepo event.Repository,
	userRepo user.Repository,
	locker transaction.Locker,
	m *metrics.Metrics,
	maxTxAttempts uint,
) *ParticipationService {
	return &ParticipationService{
		tx:          newTxRunner(txm, m, maxTxAttempts),
		requestRepo: requestRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
		locker:      locker,
		metrics:     m,
		now:         time.Now,
	}
}

// CreateRequest は参加リクエストを作成する
func (s *ParticipationService) CreateRequest(ctx context.Context, requesterID, eventID int64) (*participation.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	unlock, err := s.lockEvent(ctx, eventID)
	if err != nil {
		s.countRequest(err, "")
		return nil, err
	}
	defer unlock()

	req, err := inTx(ctx, s.tx, "create_request", func(tx transaction.Tx) (*participation.Request, error) {
		ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		hasActive, err := s.requestRepo.ExistsActive(ctx, tx, requesterID, eventID)
		if err != nil {
			return nil, err
		}
		confirmed, err := s.requestRepo.CountByStatus(ctx, tx, eventID, participation.StatusConfirmed)
		if err != nil {
			return nil, err
		}
		status, err := participation.Admit(ev, requesterID, confirmed, hasActive)
		if err != nil {
			return nil, err
		}

		req := participation.NewRequest(eventID, requesterID, status)
		now := s.now()
		req.CreatedAt, req.UpdatedAt = now, now
		if err := s.requestRepo.Create(ctx, tx, req); err != nil {
			return nil, err
		}
		return req, nil
	})
	if err != nil {
		s.countRequest(err, "")
		return nil, err
	}

	s.countRequest(nil, req.Status)
	logger.Info("参加リクエストを作成しました",
		zap.Int64("request_id", req.ID),
		zap.Int64("event_id", eventID),
		zap.Int64("requester_id", requesterID),
		zap.String("status", string(req.Status)),
	)
	return req, nil
}

// CancelRequest は申請者本人が参加リクエストを取り消す。
// 既にキャンセル・却下されたリクエストはそのまま返す
func (s *ParticipationService) CancelRequest(ctx context.Context, requesterID, requestID int64) (*participation.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	return inTx(ctx, s.tx, "cancel_request", func(tx transaction.Tx) (*participation.Request, error) {
		req, err := s.requestRepo.GetByIDForUpdate(ctx, tx, requestID)
		if err != nil {
			return nil, err
		}
		changed, err := req.Cancel(requesterID, s.now())
		if err != nil {
			return nil, err
		}
		if !changed {
			return req, nil
		}
		if err := s.requestRepo.UpdateStatus(ctx, tx, req); err != nil {
			return nil, err
		}
		logger.Info("参加リクエストをキャンセルしました",
			zap.Int64("request_id", req.ID),
			zap.Int64("event_id", req.EventID),
		)
		return req, nil
	})
}

// ProcessBatch は主催者が保留中のリクエストをまとめて承認・却下する。
// 空き枠を超えた分は指定順の後ろから却下される
func (s *ParticipationService) ProcessBatch(ctx context.Context, organizerID, eventID int64, requestIDs []int64, desired participation.Status) (*participation.BatchResult, error) {
	if _, err := s.userRepo.GetByID(ctx, organizerID); err != nil {
		return nil, err
	}
	ids := uniqueIDs(requestIDs)

	unlock, err := s.lockEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	result, err := inTx(ctx, s.tx, "process_batch", func(tx transaction.Tx) (*participation.BatchResult, error) {
		ev, err := s.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return nil, err
		}
		if ev.InitiatorID != organizerID {
			return nil, participation.ErrNotOrganizer
		}
		confirmed, err := s.requestRepo.CountByStatus(ctx, tx, eventID, participation.StatusConfirmed)
		if err != nil {
			return nil, err
		}
		locked, err := s.requestRepo.GetByIDsForUpdate(ctx, tx, ids)
		if err != nil {
			return nil, err
		}
		ordered, err := orderByIDs(locked, ids)
		if err != nil {
			return nil, err
		}

		result, err := participation.PartitionBatch(ev, confirmed, ordered, desired, s.now())
		if err != nil {
			return nil, err
		}

		changed := make([]*participation.Request, 0, len(ordered))
		changed = append(changed, result.Confirmed...)
		changed = append(changed, result.Rejected...)
		if err := s.requestRepo.UpdateStatus(ctx, tx, changed...); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.BatchDecisionsTotal.WithLabelValues(string(participation.StatusConfirmed)).Add(float64(len(result.Confirmed)))
		s.metrics.BatchDecisionsTotal.WithLabelValues(string(participation.StatusRejected)).Add(float64(len(result.Rejected)))
	}
	logger.Info("参加リクエストを一括処理しました",
		zap.Int64("event_id", eventID),
		zap.String("desired", string(desired)),
		zap.Int("confirmed", len(result.Confirmed)),
		zap.Int("rejected", len(result.Rejected)),
	)
	return result, nil
}

// ListUserRequests はユーザー自身の参加リクエスト一覧を返す
func (s *ParticipationService) ListUserRequests(ctx context.Context, userID int64) ([]*participation.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.requestRepo.ListByRequester(ctx, userID)
}

// ListEventRequests は主催者が自分のイベントへの参加リクエスト一覧を取得する
func (s *ParticipationService) ListEventRequests(ctx context.Context, organizerID, eventID int64) ([]*participation.Request, error) {
	if _, err := s.userRepo.GetByID(ctx, organizerID); err != nil {
		return nil, err
	}
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev.InitiatorID != organizerID {
		return nil, participation.ErrNotOrganizer
	}
	return s.requestRepo.ListByEvent(ctx, eventID)
}

// ConfirmedCount はイベントの確定済み参加者数を返す
func (s *ParticipationService) ConfirmedCount(ctx context.Context, eventID int64) (int, error) {
	return s.requestRepo.CountByStatus(ctx, nil, eventID, participation.StatusConfirmed)
}

// lockEvent はイベント単位の分散ロックを取得する。
// ロックが設定されていない、混み合って取得できない、またはRedisに到達できない場合は
// DBの行ロックのみで処理する
func (s *ParticipationService) lockEvent(ctx context.Context, eventID int64) (func(), error) {
	if s.locker == nil {
		return func() {}, nil
	}
	lock, err := s.locker.LockEvent(ctx, eventID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, transaction.ErrLockNotAcquired) {
			logger.Debug("分散ロックが混み合っているため行ロックで待機します", zap.Int64("event_id", eventID))
			return func() {}, nil
		}
		logger.Warn("分散ロックを取得できないため行ロックのみで処理します",
			zap.Int64("event_id", eventID),
			zap.Error(err),
		)
		return func() {}, nil
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("分散ロックの解放に失敗しました", zap.Int64("event_id", eventID), zap.Error(err))
		}
	}, nil
}

func (s *ParticipationService) countRequest(err error, status participation.Status) {
	if s.metrics == nil {
		return
	}
	s.metrics.ParticipationRequestsTotal.WithLabelValues(requestResult(err, status)).Inc()
}

// requestResult はメトリクス用に作成結果を分類する
func requestResult(err error, status participation.Status) string {
	switch {
	case err == nil && status == participation.StatusConfirmed:
		return "confirmed"
	case err == nil:
		return "pending"
	case errors.Is(err, participation.ErrDuplicateRequest):
		return "duplicate"
	case errors.Is(err, participation.ErrParticipantLimitReached):
		return "full"
	case apperror.KindOf(err) != nil:
		return "rejected"
	}
	return "error"
}

// uniqueIDs は重複IDを最初の出現位置に寄せて取り除く
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// orderByIDs はロック取得順に並んだリクエストを呼び出し元の指定順に並べ直す
func orderByIDs(requests []*participation.Request, ids []int64) ([]*participation.Request, error) {
	byID := make(map[int64]*participation.Request, len(requests))
	for _, r := range requests {
		byID[r.ID] = r
	}
	ordered := make([]*participation.Request, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("参加リクエストID=%d: %w", id, participation.ErrRequestNotFound)
		}
		ordered = append(ordered, r)
	}
	return ordered, nil
}
