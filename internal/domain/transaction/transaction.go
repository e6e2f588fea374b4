package transaction

import (
	"context"
	"errors"
)

// ErrSerializationFailure はコミット時の競合（シリアライズ失敗・デッドロック）を表す。
// 処理全体を再実行すれば成功する可能性がある
var ErrSerializationFailure = errors.New("トランザクションの競合が発生しました")

// Tx はトランザクションを表すインターフェース
// ドメイン層がインフラ層（sqlx等）に依存しないようにするための抽象化
type Tx interface {
	// Commit はトランザクションをコミットする
	Commit() error
	// Rollback はトランザクションをロールバックする
	Rollback() error
}

// Manager はトランザクションを管理するインターフェース
type Manager interface {
	// Begin は新しいトランザクションを開始する
	Begin(ctx context.Context) (Tx, error)
}

// ErrLockNotAcquired は排他ロックを規定回数内に取得できなかったことを表す
var ErrLockNotAcquired = errors.New("ロックを取得できませんでした")

// Lock は取得済みの排他ロック
type Lock interface {
	Release(ctx context.Context) error
}

// Locker はイベント単位のプロセス間排他ロックを提供する
type Locker interface {
	LockEvent(ctx context.Context, eventID int64) (Lock, error)
}
