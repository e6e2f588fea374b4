package participation

import "time"

// Status は参加リクエストの状態を表す
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusRejected  Status = "REJECTED"
	StatusCanceled  Status = "CANCELED"
)

// ParseStatus は外部表現を Status に変換する
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCanceled:
		return st, nil
	}
	return "", ErrUnknownStatus
}

// Request は参加リクエストエンティティを表す
type Request struct {
	ID          int64
	EventID     int64
	RequesterID int64
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRequest は新しい参加リクエストを作成する
func NewRequest(eventID, requesterID int64, status Status) *Request {
	now := time.Now()
	return &Request{
		EventID:     eventID,
		RequesterID: requesterID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsTerminal は以降変更されない状態かを返す
func (r *Request) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCanceled
}

// Confirm は保留中のリクエストを確定する
func (r *Request) Confirm(now time.Time) error {
	if r.Status != StatusPending {
		return ErrRequestNotPending
	}
	r.Status = StatusConfirmed
	r.UpdatedAt = now
	return nil
}

// Reject は保留中のリクエストを却下する
func (r *Request) Reject(now time.Time) error {
	if r.Status != StatusPending {
		return ErrRequestNotPending
	}
	r.Status = StatusRejected
	r.UpdatedAt = now
	return nil
}

// Cancel は申請者本人によるキャンセル。
// 終了状態のリクエストは変更せず false を返す
func (r *Request) Cancel(requesterID int64, now time.Time) (bool, error) {
	if r.RequesterID != requesterID {
		return false, ErrNotRequester
	}
	if r.IsTerminal() {
		return false, nil
	}
	r.Status = StatusCanceled
	r.UpdatedAt = now
	return true, nil
}
