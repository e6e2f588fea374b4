package event

import (
	"strings"
	"time"
)

// MinLeadTime はイベント開始日時に必要な現在時刻からの猶予
const MinLeadTime = 2 * time.Hour

// ValidateEventDate は開始日時が現在時刻から MinLeadTime 以上先であることを検証する
func ValidateEventDate(candidate, now time.Time) error {
	if candidate.Before(now.Add(MinLeadTime)) {
		return ErrEventDateTooSoon
	}
	return nil
}

// StateAction はイベントの状態遷移アクション
type StateAction int

const (
	StateActionPublish StateAction = iota + 1
	StateActionSendToReview
	StateActionCancel
)

// ParseStateAction は外部表現を StateAction に変換する。
// 未知の値はキャンセル扱いにせずエラーにする
func ParseStateAction(s string) (StateAction, error) {
	switch s {
	case "PUBLISH_EVENT":
		return StateActionPublish, nil
	case "SEND_TO_REVIEW":
		return StateActionSendToReview, nil
	case "CANCEL_REVIEW", "REJECT_EVENT":
		return StateActionCancel, nil
	}
	return 0, ErrUnknownStateAction
}

func (a StateAction) String() string {
	switch a {
	case StateActionPublish:
		return "PUBLISH_EVENT"
	case StateActionSendToReview:
		return "SEND_TO_REVIEW"
	case StateActionCancel:
		return "CANCEL_REVIEW"
	}
	return "UNKNOWN"
}

func (a StateAction) valid() bool {
	return a >= StateActionPublish && a <= StateActionCancel
}

// UpdatePatch はイベントの部分更新。nil の項目は変更しない
type UpdatePatch struct {
	Title             *string
	Annotation        *string
	Description       *string
	CategoryID        *int64
	EventDate         *time.Time
	Lat               *float64
	Lon               *float64
	Paid              *bool
	ParticipantLimit  *int
	RequestModeration *bool
	StateAction       *StateAction
}

// changesAdmission は参加受付に影響する項目を含むかを返す
func (p UpdatePatch) changesAdmission() bool {
	return p.ParticipantLimit != nil || p.RequestModeration != nil
}

// ApplyUpdate はパッチをイベントに適用する。
// 検証はすべて変更前に行い、エラー時はイベントを変更しない
func (e *Event) ApplyUpdate(actorID int64, asAdmin bool, p UpdatePatch, now time.Time) error {
	if asAdmin {
		if e.IsPublished() && p.changesAdmission() {
			return ErrEventPublished
		}
		if p.StateAction != nil && e.State != StatePendingReview {
			return ErrEventAlreadyDecided
		}
	} else {
		if e.InitiatorID != actorID {
			return ErrNotInitiator
		}
		if e.IsPublished() {
			return ErrEventPublished
		}
		if p.StateAction != nil && *p.StateAction == StateActionPublish {
			return ErrPublishNotAllowed
		}
	}

	if p.StateAction != nil && !p.StateAction.valid() {
		return ErrUnknownStateAction
	}
	if p.EventDate != nil {
		if err := ValidateEventDate(*p.EventDate, now); err != nil {
			return err
		}
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.ParticipantLimit != nil && *p.ParticipantLimit < 0 {
		return ErrInvalidParticipantLimit
	}

	if p.Annotation != nil {
		e.Annotation = *p.Annotation
	}
	if p.CategoryID != nil {
		e.CategoryID = *p.CategoryID
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.EventDate != nil {
		e.EventDate = *p.EventDate
	}
	if p.Lat != nil {
		e.Location.Lat = *p.Lat
	}
	if p.Lon != nil {
		e.Location.Lon = *p.Lon
	}
	if p.Paid != nil {
		e.Paid = *p.Paid
	}
	if p.ParticipantLimit != nil {
		e.ParticipantLimit = *p.ParticipantLimit
	}
	if p.RequestModeration != nil {
		e.RequestModeration = *p.RequestModeration
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.StateAction != nil {
		e.transition(*p.StateAction, now)
	}
	e.UpdatedAt = now
	return nil
}

func (e *Event) transition(a StateAction, now time.Time) {
	switch a {
	case StateActionPublish:
		publishedAt := now
		e.State = StatePublished
		e.PublishedAt = &publishedAt
	case StateActionSendToReview:
		e.State = StatePendingReview
	case StateActionCancel:
		e.State = StateCanceled
	}
}
