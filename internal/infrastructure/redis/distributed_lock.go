package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
	"github.com/sanosuguru/go-event-participation/internal/pkg/metrics"
)

var (
	ErrLockNotAcquired = transaction.ErrLockNotAcquired
	ErrLockNotOwned    = errors.New("ロックの所有者ではありません")
)

// 所有者確認と削除をアトミックに行う
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// DistributedLock は Redis を使用した分散ロック
type DistributedLock struct {
	client  *redis.Client
	metrics *metrics.Metrics
	key     string
	value   string
}

// LockManager は分散ロックを管理する
type LockManager struct {
	client  *redis.Client
	metrics *metrics.Metrics
}

// NewLockManager は LockManager を作成する。m が nil の場合はメトリクスを記録しない
func NewLockManager(client *redis.Client, m *metrics.Metrics) *LockManager {
	return &LockManager{client: client, metrics: m}
}

// AcquireLock はロックを取得する
func (m *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (*DistributedLock, error) {
	start := time.Now()
	lockKey := "lock:" + key
	lockValue := uuid.New().String()

	ok, err := m.client.SetNX(ctx, lockKey, lockValue, ttl).Result()
	if err != nil {
		observe(m.metrics, "acquire", false, start)
		return nil, fmt.Errorf("ロック取得に失敗: %w", err)
	}
	observe(m.metrics, "acquire", ok, start)
	if !ok {
		return nil, ErrLockNotAcquired
	}

	return &DistributedLock{
		client:  m.client,
		metrics: m.metrics,
		key:     lockKey,
		value:   lockValue,
	}, nil
}

// AcquireLockWithRetry はリトライ付きでロックを取得する
func (m *LockManager) AcquireLockWithRetry(ctx context.Context, key string, ttl time.Duration, maxRetries int, retryDelay time.Duration) (*DistributedLock, error) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		lock, err := m.AcquireLock(ctx, key, ttl)
		if err == nil {
			return lock, nil
		}
		lastErr = err
		if !errors.Is(err, ErrLockNotAcquired) {
			return nil, err
		}
		if i == maxRetries-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, lastErr
}

// Release はロックを解放する
func (l *DistributedLock) Release(ctx context.Context) error {
	start := time.Now()
	result, err := releaseScript.Run(ctx, l.client, []string{l.key}, l.value).Int()
	if err != nil {
		observe(l.metrics, "release", false, start)
		return fmt.Errorf("ロック解放に失敗: %w", err)
	}
	observe(l.metrics, "release", result != 0, start)
	if result == 0 {
		return ErrLockNotOwned
	}
	return nil
}

func observe(m *metrics.Metrics, operation string, ok bool, start time.Time) {
	if m == nil {
		return
	}
	status := "success"
	if !ok {
		status = "failed"
	}
	m.DistributedLockDuration.WithLabelValues(operation, status).Observe(time.Since(start).Seconds())
}

// EventLockOptions はイベントロックの取得設定
type EventLockOptions struct {
	TTL        time.Duration
	Retries    int
	RetryDelay time.Duration
}

// EventLocker はイベントIDをキーにした transaction.Locker 実装
type EventLocker struct {
	manager *LockManager
	opts    EventLockOptions
}

func NewEventLocker(manager *LockManager, opts EventLockOptions) *EventLocker {
	return &EventLocker{manager: manager, opts: opts}
}

// LockEvent はイベント単位のロックを取得する
func (l *EventLocker) LockEvent(ctx context.Context, eventID int64) (transaction.Lock, error) {
	lock, err := l.manager.AcquireLockWithRetry(ctx, eventLockKey(eventID), l.opts.TTL, l.opts.Retries, l.opts.RetryDelay)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

func eventLockKey(eventID int64) string {
	return "event:" + strconv.FormatInt(eventID, 10)
}

var _ transaction.Locker = (*EventLocker)(nil)
