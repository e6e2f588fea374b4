package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
)

// ViewStatsClient は外部の閲覧数統計サービス
type ViewStatsClient interface {
	ViewCount(ctx context.Context, eventID int64) (int64, error)
	ViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, error)
}

// ViewCountCache は閲覧数の短期キャッシュ
type ViewCountCache interface {
	GetViewCount(ctx context.Context, eventID int64) (int64, bool, error)
	GetViewCounts(ctx context.Context, eventIDs []int64) (map[int64]int64, []int64, error)
	SetViewCounts(ctx context.Context, counts map[int64]int64) error
	Invalidate(ctx context.Context, eventID int64) error
}

// ViewCounter はキャッシュ優先で閲覧数を取得する。
// 閲覧数は表示専用のため、取得に失敗しても0として扱いエラーを返さない
type ViewCounter struct {
	client ViewStatsClient
	cache  ViewCountCache
}

// NewViewCounter は ViewCounter を作成する。cache は nil でもよい
func NewViewCounter(client ViewStatsClient, cache ViewCountCache) *ViewCounter {
	return &ViewCounter{client: client, cache: cache}
}

// ViewCount は1件のイベントの閲覧数を返す
func (v *ViewCounter) ViewCount(ctx context.Context, eventID int64) int64 {
	if v == nil {
		return 0
	}
	if v.cache != nil {
		n, ok, err := v.cache.GetViewCount(ctx, eventID)
		if err != nil {
			logger.Warn("閲覧数キャッシュの取得に失敗しました", zap.Int64("event_id", eventID), zap.Error(err))
		} else if ok {
			return n
		}
	}
	if v.client == nil {
		return 0
	}

	n, err := v.client.ViewCount(ctx, eventID)
	if err != nil {
		logger.Warn("統計サービスから閲覧数を取得できませんでした", zap.Int64("event_id", eventID), zap.Error(err))
		return 0
	}
	if v.cache != nil {
		if err := v.cache.SetViewCounts(ctx, map[int64]int64{eventID: n}); err != nil {
			logger.Warn("閲覧数キャッシュの保存に失敗しました", zap.Error(err))
		}
	}
	return n
}

// Forget は削除されたイベントの閲覧数キャッシュを破棄する
func (v *ViewCounter) Forget(ctx context.Context, eventID int64) {
	if v == nil || v.cache == nil {
		return
	}
	if err := v.cache.Invalidate(ctx, eventID); err != nil {
		logger.Warn("閲覧数キャッシュの破棄に失敗しました", zap.Int64("event_id", eventID), zap.Error(err))
	}
}

// ViewCounts はイベントごとの閲覧数を返す
func (v *ViewCounter) ViewCounts(ctx context.Context, eventIDs []int64) map[int64]int64 {
	counts := make(map[int64]int64, len(eventIDs))
	for _, id := range eventIDs {
		counts[id] = 0
	}
	if v == nil || len(eventIDs) == 0 {
		return counts
	}

	missing := eventIDs
	if v.cache != nil {
		hits, miss, err := v.cache.GetViewCounts(ctx, eventIDs)
		if err != nil {
			logger.Warn("閲覧数キャッシュの取得に失敗しました", zap.Error(err))
		} else {
			for id, n := range hits {
				counts[id] = n
			}
			missing = miss
		}
	}
	if len(missing) == 0 || v.client == nil {
		return counts
	}

	fetched, err := v.client.ViewCounts(ctx, missing)
	if err != nil {
		logger.Warn("統計サービスから閲覧数を取得できませんでした", zap.Int64s("event_ids", missing), zap.Error(err))
		return counts
	}
	for id, n := range fetched {
		counts[id] = n
	}
	if v.cache != nil {
		if err := v.cache.SetViewCounts(ctx, fetched); err != nil {
			logger.Warn("閲覧数キャッシュの保存に失敗しました", zap.Error(err))
		}
	}
	return counts
}
