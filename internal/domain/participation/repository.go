package participation

import (
	"context"

	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

// Repository は参加リクエストリポジトリのインターフェース
type Repository interface {
	// Create は新しい参加リクエストを作成する（トランザクション必須）
	Create(ctx context.Context, tx transaction.Tx, request *Request) error

	// GetByID はIDから参加リクエストを取得する
	GetByID(ctx context.Context, id int64) (*Request, error)

	// GetByIDForUpdate は参加リクエスト行をロックして取得する（トランザクション必須）
	GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id int64) (*Request, error)

	// GetByIDsForUpdate は複数の参加リクエスト行をロックして取得する（順序は保証しない）
	GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []int64) ([]*Request, error)

	// ListByRequester は申請者の参加リクエスト一覧を取得する
	ListByRequester(ctx context.Context, requesterID int64) ([]*Request, error)

	// ListByEvent はイベントへの参加リクエスト一覧を取得する
	ListByEvent(ctx context.Context, eventID int64) ([]*Request, error)

	// ExistsActive はキャンセルされていない同一申請が存在するかを返す（トランザクション必須）
	ExistsActive(ctx context.Context, tx transaction.Tx, requesterID, eventID int64) (bool, error)

	// CountByStatus はイベントの指定状態のリクエスト数を数える。tx が nil の場合はトランザクション外で数える
	CountByStatus(ctx context.Context, tx transaction.Tx, eventID int64, status Status) (int, error)

	// CountActive はイベントのキャンセルされていないリクエスト数を数える
	CountActive(ctx context.Context, tx transaction.Tx, eventID int64) (int, error)

	// CountConfirmedByEvents は複数イベントの確定済みリクエスト数を数える
	CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error)

	// CountGroupByStatus は全リクエストの状態別件数を数える
	CountGroupByStatus(ctx context.Context) (map[Status]int, error)

	// UpdateStatus は参加リクエストの状態を更新する（トランザクション必須）
	UpdateStatus(ctx context.Context, tx transaction.Tx, requests ...*Request) error
}
