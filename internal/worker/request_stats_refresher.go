package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

// StatusCounter は状態別の参加リクエスト数を数える
type StatusCounter interface {
	CountGroupByStatus(ctx context.Context) (map[participation.Status]int, error)
}

// RequestStatsRefresher は状態別の参加リクエスト数を定期的にゲージへ反映するワーカー。
// 読み取り専用で、リクエストの状態は変更しない
type RequestStatsRefresher struct {
	counter  StatusCounter
	metrics  *metrics.Metrics
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewRequestStatsRefresher は新しいワーカーを作成
func NewRequestStatsRefresher(counter StatusCounter, m *metrics.Metrics, interval time.Duration) *RequestStatsRefresher {
	return &RequestStatsRefresher{
		counter:  counter,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はワーカーを開始する。起動直後に一度集計する
func (r *RequestStatsRefresher) Start(ctx context.Context) {
	logger.Info("参加リクエスト集計ワーカー開始", zap.Duration("interval", r.interval))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	defer close(r.doneCh)

	r.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("参加リクエスト集計ワーカー停止（コンテキストキャンセル）")
			return
		case <-r.stopCh:
			logger.Info("参加リクエスト集計ワーカー停止（シグナル受信）")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Stop はワーカーを停止し、ループの終了を待つ
func (r *RequestStatsRefresher) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
	<-r.doneCh
}

func (r *RequestStatsRefresher) refresh(ctx context.Context) {
	counts, err := r.counter.CountGroupByStatus(ctx)
	if err != nil {
		logger.Error("参加リクエストの集計に失敗", zap.Error(err))
		return
	}
	for status, n := range counts {
		r.metrics.ParticipationRequests.WithLabelValues(string(status)).Set(float64(n))
	}
	logger.Debug("参加リクエストを集計",
		zap.Int("pending", counts[participation.StatusPending]),
		zap.Int("confirmed", counts[participation.StatusConfirmed]),
	)
}
