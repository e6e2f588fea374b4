package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ViewCache はイベント閲覧数のキャッシュを管理する
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache は新しいViewCacheインスタンスを作成する
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

// GetViewCount はイベントの閲覧数をキャッシュから取得する。キャッシュにない場合 ok は false
func (c *ViewCache) GetViewCount(ctx context.Context, eventID int64) (n int64, ok bool, err error) {
	n, err = c.client.Get(ctx, viewKey(eventID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return n, true, nil
}

// GetViewCounts は複数イベントの閲覧数をまとめて取得する。
// キャッシュにないイベントIDは missing に入る
func (c *ViewCache) GetViewCounts(ctx context.Context, eventIDs []int64) (hits map[int64]int64, missing []int64, err error) {
	hits = make(map[int64]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return hits, nil, nil
	}
	keys := make([]string, len(eventIDs))
	for i, id := range eventIDs {
		keys[i] = viewKey(id)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			missing = append(missing, eventIDs[i])
			continue
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			missing = append(missing, eventIDs[i])
			continue
		}
		hits[eventIDs[i]] = n
	}
	return hits, missing, nil
}

// SetViewCounts は閲覧数をTTL付きでキャッシュに保存する
func (c *ViewCache) SetViewCounts(ctx context.Context, counts map[int64]int64) error {
	if len(counts) == 0 {
		return nil
	}
	pipe := c.client.Pipeline()
	for id, n := range counts {
		pipe.Set(ctx, viewKey(id), n, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate はイベントのキャッシュを無効化する
func (c *ViewCache) Invalidate(ctx context.Context, eventID int64) error {
	if err := c.client.Del(ctx, viewKey(eventID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func viewKey(eventID int64) string {
	return "views:event:" + strconv.FormatInt(eventID, 10)
}
