package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
	"github.com/sanosuguru/go-event-participation/internal/domain/transaction"
)

const eventColumns = `id, title, annotation, description, category_id, event_date, lat, lon, paid,
	participant_limit, request_moderation, state, initiator_id, created_at, published_at, updated_at, version`

// eventRow はDBの行を表す構造体
type eventRow struct {
	ID                int64         `db:"id"`
	Title             string        `db:"title"`
	Annotation        string        `db:"annotation"`
	Description       string        `db:"description"`
	CategoryID        sql.NullInt64 `db:"category_id"`
	EventDate         time.Time     `db:"event_date"`
	Lat               float64       `db:"lat"`
	Lon               float64       `db:"lon"`
	Paid              bool          `db:"paid"`
	ParticipantLimit  int           `db:"participant_limit"`
	RequestModeration bool          `db:"request_moderation"`
	State             string        `db:"state"`
	InitiatorID       int64         `db:"initiator_id"`
	CreatedAt         time.Time     `db:"created_at"`
	PublishedAt       *time.Time    `db:"published_at"`
	UpdatedAt         time.Time     `db:"updated_at"`
	Version           int           `db:"version"`
}

// toEntity はeventRowをEventエンティティに変換する
func (r *eventRow) toEntity() *event.Event {
	return &event.Event{
		ID:                r.ID,
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.CategoryID.Int64,
		EventDate:         r.EventDate,
		Location:          event.Location{Lat: r.Lat, Lon: r.Lon},
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
		State:             event.State(r.State),
		InitiatorID:       r.InitiatorID,
		CreatedAt:         r.CreatedAt,
		PublishedAt:       r.PublishedAt,
		UpdatedAt:         r.UpdatedAt,
		Version:           r.Version,
	}
}

func nullCategory(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}

// EventRepository はイベントリポジトリのPostgreSQL実装
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository はEventRepositoryを作成する
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create は新しいイベントを作成する
func (r *EventRepository) Create(ctx context.Context, e *event.Event) error {
	query := `
		INSERT INTO events (title, annotation, description, category_id, event_date, lat, lon, paid,
			participant_limit, request_moderation, state, initiator_id, created_at, published_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		e.Title, e.Annotation, e.Description, nullCategory(e.CategoryID), e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.InitiatorID, e.CreatedAt, e.PublishedAt, e.UpdatedAt, e.Version,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	return nil
}

// GetByID はIDからイベントを取得する
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*event.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var row eventRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	return row.toEntity(), nil
}

// GetByIDForUpdate はイベント行を排他ロックして取得する。
// 同一イベントへの参加受付はこのロックでコミットまで直列化される
func (r *EventRepository) GetByIDForUpdate(ctx context.Context, tx transaction.Tx, id int64) (*event.Event, error) {
	stx, err := requireTx(tx)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1 FOR UPDATE`

	var row eventRow
	if err := stx.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, event.ErrEventNotFound
		}
		return nil, fmt.Errorf("イベントのロック取得に失敗しました: %w", translateError(err))
	}
	return row.toEntity(), nil
}

// ListByInitiator は主催者のイベント一覧を取得する
func (r *EventRepository) ListByInitiator(ctx context.Context, initiatorID int64, limit, offset int) ([]*event.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE initiator_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3`

	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, query, initiatorID, limit, offset); err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}

	events := make([]*event.Event, len(rows))
	for i := range rows {
		events[i] = rows[i].toEntity()
	}
	return events, nil
}

// Update はイベントを更新する（楽観的ロック）
func (r *EventRepository) Update(ctx context.Context, e *event.Event) error {
	query := `
		UPDATE events
		SET title = $1, annotation = $2, description = $3, category_id = $4, event_date = $5,
		    lat = $6, lon = $7, paid = $8, participant_limit = $9, request_moderation = $10,
		    state = $11, published_at = $12, updated_at = $13, version = version + 1
		WHERE id = $14 AND version = $15
	`
	result, err := r.db.ExecContext(ctx, query,
		e.Title, e.Annotation, e.Description, nullCategory(e.CategoryID), e.EventDate,
		e.Location.Lat, e.Location.Lon, e.Paid, e.ParticipantLimit, e.RequestModeration,
		string(e.State), e.PublishedAt, e.UpdatedAt, e.ID, e.Version,
	)
	if err != nil {
		return fmt.Errorf("イベント更新に失敗しました: %w", translateError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("更新結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		// 行が存在すればバージョン不一致
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM events WHERE id = $1)`, e.ID); err != nil {
			return fmt.Errorf("イベント存在確認に失敗しました: %w", err)
		}
		if exists {
			return event.ErrOptimisticLockConflict
		}
		return event.ErrEventNotFound
	}

	e.Version++
	return nil
}

// Delete はイベントを削除する
func (r *EventRepository) Delete(ctx context.Context, tx transaction.Tx, id int64) error {
	stx, err := requireTx(tx)
	if err != nil {
		return err
	}
	result, err := stx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("イベント削除に失敗しました: %w", translateError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("削除結果の確認に失敗しました: %w", err)
	}
	if rowsAffected == 0 {
		return event.ErrEventNotFound
	}
	return nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventRepository)(nil)
