package event

import (
	"strings"
	"time"
)

// State はイベントの状態を表す
type State string

const (
	StatePendingReview State = "PENDING_REVIEW"
	StatePublished     State = "PUBLISHED"
	StateCanceled      State = "CANCELED"
)

// Location はイベント会場の座標
type Location struct {
	Lat float64
	Lon float64
}

// Details はイベント作成時に主催者が指定する項目
type Details struct {
	Title             string
	Annotation        string
	Description       string
	CategoryID        int64
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int
	RequestModeration bool
}

// Event はイベントエンティティを表す
type Event struct {
	ID                int64
	Title             string
	Annotation        string
	Description       string
	CategoryID        int64
	EventDate         time.Time
	Location          Location
	Paid              bool
	ParticipantLimit  int // 0 は無制限
	RequestModeration bool
	State             State
	InitiatorID       int64
	CreatedAt         time.Time
	PublishedAt       *time.Time
	UpdatedAt         time.Time
	Version           int // 楽観的ロック用
}

// NewEvent は新しいイベントを作成する。作成直後は必ず審査待ち
func NewEvent(initiatorID int64, d Details) *Event {
	now := time.Now()
	return &Event{
		Title:             d.Title,
		Annotation:        d.Annotation,
		Description:       d.Description,
		CategoryID:        d.CategoryID,
		EventDate:         d.EventDate,
		Location:          d.Location,
		Paid:              d.Paid,
		ParticipantLimit:  d.ParticipantLimit,
		RequestModeration: d.RequestModeration,
		State:             StatePendingReview,
		InitiatorID:       initiatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Validate はイベントの検証を行う
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrTitleRequired
	}
	if e.ParticipantLimit < 0 {
		return ErrInvalidParticipantLimit
	}
	if e.InitiatorID == 0 {
		return ErrInitiatorRequired
	}
	return nil
}

// IsPublished は公開済みかを返す
func (e *Event) IsPublished() bool {
	return e.State == StatePublished
}

// IsUnlimited は参加者数が無制限かを返す
func (e *Event) IsUnlimited() bool {
	return e.ParticipantLimit == 0
}

// NeedsModeration は参加リクエストに主催者の承認が必要かを返す
func (e *Event) NeedsModeration() bool {
	return e.RequestModeration && !e.IsUnlimited()
}

// IsFull は確定済み参加者数が上限に達しているかを返す
func (e *Event) IsFull(confirmedCount int) bool {
	return !e.IsUnlimited() && confirmedCount >= e.ParticipantLimit
}

// FreeSlots は残りの参加枠を返す。無制限の場合は -1
func (e *Event) FreeSlots(confirmedCount int) int {
	if e.IsUnlimited() {
		return -1
	}
	if free := e.ParticipantLimit - confirmedCount; free > 0 {
		return free
	}
	return 0
}
