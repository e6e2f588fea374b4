package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/pkg/logger"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

const defaultMaxTxAttempts uint = 3

// txRunner は処理全体を1トランザクションで実行し、
// シリアライズ失敗やデッドロックの場合のみ指数バックオフで再実行する
type txRunner struct {
	manager         transaction.Manager
	metrics         *metrics.Metrics
	maxAttempts     uint
	initialInterval time.Duration
	maxInterval     time.Duration
}

func newTxRunner(manager transaction.Manager, m *metrics.Metrics, maxAttempts uint) *txRunner {
	if maxAttempts == 0 {
		maxAttempts = defaultMaxTxAttempts
	}
	return &txRunner{
		manager:         manager,
		metrics:         m,
		maxAttempts:     maxAttempts,
		initialInterval: 20 * time.Millisecond,
		maxInterval:     200 * time.Millisecond,
	}
}

// inTx は fn をトランザクション内で実行し、成功時にコミットする
func inTx[T any](ctx context.Context, r *txRunner, operation string, fn func(tx transaction.Tx) (T, error)) (T, error) {
	attempt := func() (T, error) {
		var zero T
		tx, err := r.manager.Begin(ctx)
		if err != nil {
			return zero, backoff.Permanent(fmt.Errorf("トランザクション開始に失敗: %w", err))
		}
		defer tx.Rollback()

		result, err := fn(tx)
		if err == nil {
			if cerr := tx.Commit(); cerr != nil {
				err = fmt.Errorf("コミットに失敗: %w", cerr)
			}
		}
		if err != nil {
			if errors.Is(err, transaction.ErrSerializationFailure) {
				return zero, err
			}
			return zero, backoff.Permanent(err)
		}
		return result, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval
	b.MaxInterval = r.maxInterval

	result, err := backoff.Retry(ctx, attempt,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.maxAttempts),
		backoff.WithNotify(func(err error, next time.Duration) {
			if r.metrics != nil {
				r.metrics.TransactionRetriesTotal.WithLabelValues(operation).Inc()
			}
			logger.Warn("トランザクション競合のため再実行します",
				zap.String("operation", operation),
				zap.Duration("backoff", next),
				zap.Error(err),
			)
		}),
	)
	// 試行回数の上限に達した場合は Permanent のラップが残る
	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Unwrap()
	}
	return result, err
}
