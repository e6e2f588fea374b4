package participation

import (
	"fmt"
	"time"

	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

// InitialStatus は新規リクエストの初期状態を返す。
// 承認不要または無制限のイベントでは即時確定する
func InitialStatus(ev *event.Event) Status {
	if ev.NeedsModeration() {
		return StatusPending
	}
	return StatusConfirmed
}

// Admit は参加リクエストを作成できるか判定し、初期状態を返す。
// confirmedCount はイベント行をロックした状態で数えた確定済み件数
func Admit(ev *event.Event, requesterID int64, confirmedCount int, hasActive bool) (Status, error) {
	if requesterID == ev.InitiatorID {
		return "", ErrInitiatorCannotRequest
	}
	if !ev.IsPublished() {
		return "", ErrEventNotPublished
	}
	if hasActive {
		return "", ErrDuplicateRequest
	}
	if ev.IsFull(confirmedCount) {
		return "", ErrParticipantLimitReached
	}
	return InitialStatus(ev), nil
}

// BatchResult は一括処理の結果
type BatchResult struct {
	Confirmed []*Request
	Rejected  []*Request
}

// ValidateBatch は一括処理の前提条件を検証する
func ValidateBatch(ev *event.Event, confirmedCount int, desired Status) error {
	if desired != StatusConfirmed && desired != StatusRejected {
		return ErrInvalidBatchStatus
	}
	if !ev.RequestModeration {
		return ErrModerationDisabled
	}
	if ev.IsUnlimited() {
		return ErrUnlimitedEvent
	}
	if ev.IsFull(confirmedCount) {
		return ErrNoFreeSlots
	}
	return nil
}

// PartitionBatch は保留中リクエストを確定と却下に振り分ける。
//
// 空き枠は呼び出し時点で一度だけ計算し、requests の並び順で先着の分だけ確定する。
// 空き枠を使い切った後のリクエストは同じ呼び出し内でもすべて却下される。
// 他イベントのリクエストや保留中でないリクエストが一件でも含まれる場合は何も変更せずエラーを返す。
func PartitionBatch(ev *event.Event, confirmedCount int, requests []*Request, desired Status, now time.Time) (*BatchResult, error) {
	if err := ValidateBatch(ev, confirmedCount, desired); err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.EventID != ev.ID {
			return nil, fmt.Errorf("参加リクエストID=%d: %w", r.ID, ErrRequestForOtherEvent)
		}
		if r.Status != StatusPending {
			return nil, fmt.Errorf("参加リクエストID=%d: %w", r.ID, ErrRequestNotPending)
		}
	}

	result := &BatchResult{Confirmed: []*Request{}, Rejected: []*Request{}}
	freeSlots := ev.FreeSlots(confirmedCount)
	for _, r := range requests {
		if desired == StatusConfirmed && len(result.Confirmed) < freeSlots {
			if err := r.Confirm(now); err != nil {
				return nil, err
			}
			result.Confirmed = append(result.Confirmed, r)
			continue
		}
		if err := r.Reject(now); err != nil {
			return nil, err
		}
		result.Rejected = append(result.Rejected, r)
	}
	return result, nil
}
