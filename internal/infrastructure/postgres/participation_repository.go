package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

const requestColumns = `id, event_id, requester_id, status, created_at, updated_at`

type requestRow struct {
	ID          int64     `db:"id"`
	EventID     int64     `db:"event_id"`
	RequesterID int64     `db:"requester_id"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *requestRow) toEntity() *participation.Request {
	return &participation.Request{
		ID:          r.ID,
		EventID:     r.EventID,
		RequesterID: r.RequesterID,
		Status:      participation.Status(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toRequests(rows []requestRow) []*participation.Request {
	result := make([]*participation.Request, len(rows))
	for i := range rows {
		result[i] = rows[i].toEntity()
	}
	return result
}

// ParticipationRepository は参加リクエストリポジトリのPostgreSQL実装
type ParticipationRepository struct{ db *sqlx.DB }

func NewParticipationRepository(db *sqlx.DB) *ParticipationRepository {
	return &ParticipationRepository{db: db}
}

func (r *ParticipationRepository) Create(ctx context.Context, tx transaction.Tx, req *participation.Request) error {
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	query := `INSERT INTO participation_requests (event_id, requester_id, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := stx.QueryRowContext(ctx, query, req.EventID, req.RequesterID, string(req.Status), req.CreatedAt, req.UpdatedAt).Scan(&req.ID); err != nil {
		if isUniqueViolation(err) {
			return participation.ErrDuplicateRequest
		}
		return fmt.Errorf("参加リクエスト作成に失敗: %w", translateError(err))
	}
	return nil
}

func (r *ParticipationRepository) GetByID(ctx context.Context, id int64) (*participation.Request, error) {
	var row requestRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+requestColumns+` FROM participation_requests WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, participation.ErrRequestNotFound
		}
		return nil, fmt.Errorf("参加リクエスト取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ParticipationRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id int64) (*participation.Request, error) {
	stx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	var row requestRow
	if err := stx.GetContext(ctx, &row, `SELECT `+requestColumns+` FROM participation_requests WHERE id = $1 FOR UPDATE`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, participation.ErrRequestNotFound
		}
		return nil, fmt.Errorf("参加リクエストのロック取得に失敗: %w", translateError(err))
	}
	return row.toEntity(), nil
}

// GetByIDsForUpdate はID順にロックを取得する。存在しないIDは結果に含まれない
func (r *ParticipationRepository) GetByIDsForUpdate(ctx context.Context, tx transaction.Tx, ids []int64) ([]*participation.Request, error) {
	stx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*participation.Request{}, nil
	}
	var rows []requestRow
	query := `SELECT ` + requestColumns + ` FROM participation_requests WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	if err := stx.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("参加リクエストのロック取得に失敗: %w", translateError(err))
	}
	return toRequests(rows), nil
}

func (r *ParticipationRepository) ListByRequester(ctx context.Context, requesterID int64) ([]*participation.Request, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+requestColumns+` FROM participation_requests WHERE requester_id = $1 ORDER BY id`, requesterID); err != nil {
		return nil, fmt.Errorf("参加リクエスト一覧取得に失敗: %w", err)
	}
	return toRequests(rows), nil
}

func (r *ParticipationRepository) ListByEvent(ctx context.Context, eventID int64) ([]*participation.Request, error) {
	var rows []requestRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+requestColumns+` FROM participation_requests WHERE event_id = $1 ORDER BY id`, eventID); err != nil {
		return nil, fmt.Errorf("参加リクエスト一覧取得に失敗: %w", err)
	}
	return toRequests(rows), nil
}

func (r *ParticipationRepository) ExistsActive(ctx context.Context, tx transaction.Tx, requesterID, eventID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM participation_requests WHERE requester_id = $1 AND event_id = $2 AND status <> 'CANCELED')`
	if err := sqlx.GetContext(ctx, extFor(r.db, tx), &exists, query, requesterID, eventID); err != nil {
		return false, fmt.Errorf("重複申請の確認に失敗: %w", translateError(err))
	}
	return exists, nil
}

func (r *ParticipationRepository) CountByStatus(ctx context.Context, tx transaction.Tx, eventID int64, status participation.Status) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status = $2`
	if err := sqlx.GetContext(ctx, extFor(r.db, tx), &count, query, eventID, string(status)); err != nil {
		return 0, fmt.Errorf("参加リクエスト数の取得に失敗: %w", translateError(err))
	}
	return count, nil
}

func (r *ParticipationRepository) CountActive(ctx context.Context, tx transaction.Tx, eventID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM participation_requests WHERE event_id = $1 AND status <> 'CANCELED'`
	if err := sqlx.GetContext(ctx, extFor(r.db, tx), &count, query, eventID); err != nil {
		return 0, fmt.Errorf("有効な参加リクエスト数の取得に失敗: %w", translateError(err))
	}
	return count, nil
}

func (r *ParticipationRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EventID int64 `db:"event_id"`
		Count   int   `db:"cnt"`
	}
	query := `SELECT event_id, COUNT(*) AS cnt FROM participation_requests WHERE event_id = ANY($1) AND status = 'CONFIRMED' GROUP BY event_id`
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(eventIDs)); err != nil {
		return nil, fmt.Errorf("確定済み参加者数の取得に失敗: %w", err)
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (r *ParticipationRepository) CountGroupByStatus(ctx context.Context) (map[participation.Status]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"cnt"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS cnt FROM participation_requests GROUP BY status`); err != nil {
		return nil, fmt.Errorf("状態別件数の取得に失敗: %w", err)
	}
	counts := map[participation.Status]int{
		participation.StatusPending:   0,
		participation.StatusConfirmed: 0,
		participation.StatusRejected:  0,
		participation.StatusCanceled:  0,
	}
	for _, row := range rows {
		counts[participation.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func (r *ParticipationRepository) UpdateStatus(ctx context.Context, tx transaction.Tx, requests ...*participation.Request) error {
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	for _, req := range requests {
		result, err := stx.ExecContext(ctx, `UPDATE participation_requests SET status = $1, updated_at = $2 WHERE id = $3`, string(req.Status), req.UpdatedAt, req.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return participation.ErrDuplicateRequest
			}
			return fmt.Errorf("参加リクエスト更新に失敗: %w", translateError(err))
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return participation.ErrRequestNotFound
		}
	}
	return nil
}

var _ participation.Repository = (*ParticipationRepository)(nil)
