package participation

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

// Participation ドメインのエラー定義
var (
	ErrRequestNotFound         = apperror.NotFound("参加リクエストが見つかりません")
	ErrUnknownStatus           = apperror.Validation("不明な参加リクエストの状態です")
	ErrInvalidBatchStatus      = apperror.Validation("一括処理で指定できる状態は CONFIRMED または REJECTED のみです")
	ErrModerationDisabled      = apperror.Validation("このイベントは参加リクエストの承認を必要としません")
	ErrUnlimitedEvent          = apperror.Validation("参加者数が無制限のイベントは承認不要です")
	ErrRequestForOtherEvent    = apperror.Validation("他のイベントへの参加リクエストです")
	ErrRequestNotPending       = apperror.Validation("参加リクエストは保留中ではありません")
	ErrNotRequester            = apperror.Authorization("他のユーザーの参加リクエストはキャンセルできません")
	ErrNotOrganizer            = apperror.Authorization("参加リクエストを扱えるのはイベントの主催者のみです")
	ErrInitiatorCannotRequest  = apperror.Conflict("主催者は自分のイベントに参加申請できません")
	ErrEventNotPublished       = apperror.Conflict("参加申請できるのは公開済みのイベントのみです")
	ErrDuplicateRequest        = apperror.Conflict("このイベントへの参加リクエストは既に存在します")
	ErrParticipantLimitReached = apperror.Conflict("イベントの参加者数が上限に達しています")
	ErrNoFreeSlots             = apperror.Conflict("イベントに空き枠がありません")
)
