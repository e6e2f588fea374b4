package event

import "github.com/sanosuguru/go-event-participation/internal/domain/apperror"

// Event ドメインのエラー定義
var (
	ErrEventNotFound           = apperror.NotFound("イベントが見つかりません")
	ErrTitleRequired           = apperror.Validation("イベントのタイトルは必須です")
	ErrInvalidParticipantLimit = apperror.Validation("参加者数の上限は0以上である必要があります")
	ErrInitiatorRequired       = apperror.Validation("イベントの主催者は必須です")
	ErrEventDateTooSoon        = apperror.Validation("イベント開始日時は現在時刻の2時間後以降である必要があります")
	ErrUnknownStateAction      = apperror.Validation("不明な状態遷移アクションです")
	ErrNotInitiator            = apperror.Authorization("イベントを操作できるのは主催者または管理者のみです")
	ErrPublishNotAllowed       = apperror.Authorization("イベントを公開できるのは管理者のみです")
	ErrEventPublished          = apperror.Conflict("公開済みのイベントは変更できません")
	ErrEventAlreadyDecided     = apperror.Conflict("イベントは既に公開またはキャンセルされています")
	ErrEventHasActiveRequests  = apperror.Conflict("有効な参加リクエストがあるイベントは削除できません")
	ErrOptimisticLockConflict  = apperror.Conflict("イベントが他の操作で更新されました")
)
