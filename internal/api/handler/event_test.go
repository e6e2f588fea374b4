package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-event-participation/internal/api"
	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

const validEventBody = `{
	"title": "Go勉強会",
	"annotation": "Goの並行処理について基礎から学ぶ勉強会です",
	"description": "goroutine と channel を中心に実践的な内容を扱います",
	"category": 3,
	"eventDate": "2030-01-15 19:00:00",
	"location": {"lat": 35.68, "lon": 139.76},
	"participantLimit": 20
}`

func newSummary(id int64, state event.State) *application.EventSummary {
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.Local)
	return &application.EventSummary{
		Event: &event.Event{
			ID:                id,
			Title:             "Go勉強会",
			Annotation:        "Goの並行処理について基礎から学ぶ勉強会です",
			Description:       "goroutine と channel を中心に実践的な内容を扱います",
			CategoryID:        3,
			EventDate:         time.Date(2030, 1, 15, 19, 0, 0, 0, time.Local),
			Location:          event.Location{Lat: 35.68, Lon: 139.76},
			ParticipantLimit:  20,
			RequestModeration: true,
			State:             state,
			InitiatorID:       1,
			CreatedAt:         created,
		},
		ConfirmedRequests: 4,
		Views:             120,
	}
}

func TestEventHandler_Create(t *testing.T) {
	t.Run("正常にイベントを作成できる", func(t *testing.T) {
		r := newTestRouter()
		wantDate := time.Date(2030, 1, 15, 19, 0, 0, 0, time.Local)
		r.events.On("CreateEvent", mock.Anything, int64(1), mock.MatchedBy(func(d event.Details) bool {
			return d.Title == "Go勉強会" &&
				d.CategoryID == 3 &&
				d.EventDate.Equal(wantDate) &&
				d.Location.Lat == 35.68 &&
				d.ParticipantLimit == 20 &&
				d.RequestModeration
		})).Return(newSummary(10, event.StatePendingReview), nil)

		rec := r.do(http.MethodPost, "/api/v1/users/1/events", validEventBody)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		resp := decode[EventResponse](t, rec)
		assert.Equal(t, int64(10), resp.ID)
		assert.Equal(t, "PENDING_REVIEW", resp.State)
		assert.Equal(t, "2030-01-15 19:00:00", resp.EventDate)
		r.events.AssertExpectations(t)
	})

	t.Run("承認制を明示的に無効にできる", func(t *testing.T) {
		r := newTestRouter()
		body := strings.Replace(validEventBody, `"participantLimit": 20`, `"participantLimit": 20, "requestModeration": false`, 1)
		r.events.On("CreateEvent", mock.Anything, int64(1), mock.MatchedBy(func(d event.Details) bool {
			return !d.RequestModeration
		})).Return(newSummary(10, event.StatePendingReview), nil)

		rec := r.do(http.MethodPost, "/api/v1/users/1/events", body)

		assert.Equal(t, http.StatusCreated, rec.Code)
		r.events.AssertExpectations(t)
	})

	tests := []struct {
		name string
		path string
		body string
	}{
		{"タイトルが短すぎる", "/api/v1/users/1/events", strings.Replace(validEventBody, `"Go勉強会"`, `"Go"`, 1)},
		{"概要が短すぎる", "/api/v1/users/1/events", strings.Replace(validEventBody, `"Goの並行処理について基礎から学ぶ勉強会です"`, `"短い"`, 1)},
		{"定員が負", "/api/v1/users/1/events", strings.Replace(validEventBody, `"participantLimit": 20`, `"participantLimit": -1`, 1)},
		{"日時の形式が不正", "/api/v1/users/1/events", strings.Replace(validEventBody, "2030-01-15 19:00:00", "2030-01-15T19:00:00Z", 1)},
		{"緯度が範囲外", "/api/v1/users/1/events", strings.Replace(validEventBody, `"lat": 35.68`, `"lat": 135.68`, 1)},
		{"JSONが不正", "/api/v1/users/1/events", "invalid"},
		{"ユーザーIDが数値でない", "/api/v1/users/abc/events", validEventBody},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()

			rec := r.do(http.MethodPost, tt.path, tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			r.events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("開始日時が近すぎる場合400", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("CreateEvent", mock.Anything, int64(1), mock.Anything).Return(nil, event.ErrEventDateTooSoon)

		rec := r.do(http.MethodPost, "/api/v1/users/1/events", validEventBody)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode[api.ErrorResponse](t, rec)
		assert.Equal(t, event.ErrEventDateTooSoon.Error(), resp.Details)
	})
}

func TestEventHandler_GetByID(t *testing.T) {
	t.Run("確定済み件数と閲覧数を返す", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("GetUserEvent", mock.Anything, int64(1), int64(10)).Return(newSummary(10, event.StatePublished), nil)

		rec := r.do(http.MethodGet, "/api/v1/users/1/events/10", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[EventResponse](t, rec)
		assert.Equal(t, 4, resp.ConfirmedRequests)
		assert.Equal(t, int64(120), resp.Views)
	})

	t.Run("見つからない場合404", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("GetUserEvent", mock.Anything, int64(2), int64(10)).Return(nil, event.ErrEventNotFound)

		rec := r.do(http.MethodGet, "/api/v1/users/2/events/10", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEventHandler_List(t *testing.T) {
	t.Run("既定のページング", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("ListUserEvents", mock.Anything, int64(1), 0, 10).
			Return([]*application.EventSummary{newSummary(10, event.StatePublished), newSummary(11, event.StateCanceled)}, nil)

		rec := r.do(http.MethodGet, "/api/v1/users/1/events", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decode[[]EventResponse](t, rec), 2)
	})

	t.Run("from と size を指定", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("ListUserEvents", mock.Anything, int64(1), 20, 5).Return([]*application.EventSummary{}, nil)

		rec := r.do(http.MethodGet, "/api/v1/users/1/events?from=20&size=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("size が不正", func(t *testing.T) {
		r := newTestRouter()

		rec := r.do(http.MethodGet, "/api/v1/users/1/events?size=-1", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEventHandler_Update(t *testing.T) {
	t.Run("指定した項目だけをパッチにする", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("UpdateEvent", mock.Anything, int64(1), int64(10), mock.MatchedBy(func(p event.UpdatePatch) bool {
			return p.Title != nil && *p.Title == "新しいタイトル" &&
				p.Description == nil &&
				p.ParticipantLimit == nil &&
				p.StateAction != nil && *p.StateAction == event.StateActionSendToReview
		})).Return(newSummary(10, event.StatePendingReview), nil)

		rec := r.do(http.MethodPatch, "/api/v1/users/1/events/10", `{"title":"新しいタイトル","stateAction":"SEND_TO_REVIEW"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		r.events.AssertExpectations(t)
	})

	t.Run("未知の状態遷移は400", func(t *testing.T) {
		r := newTestRouter()

		rec := r.do(http.MethodPatch, "/api/v1/users/1/events/10", `{"stateAction":"ARCHIVE"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		r.events.AssertNotCalled(t, "UpdateEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("主催者による公開は403", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("UpdateEvent", mock.Anything, int64(1), int64(10), mock.Anything).Return(nil, event.ErrPublishNotAllowed)

		rec := r.do(http.MethodPatch, "/api/v1/users/1/events/10", `{"stateAction":"PUBLISH_EVENT"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("公開済みイベントの変更は409", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("UpdateEvent", mock.Anything, int64(1), int64(10), mock.Anything).Return(nil, event.ErrEventPublished)

		rec := r.do(http.MethodPatch, "/api/v1/users/1/events/10", `{"paid":true}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestEventHandler_AdminUpdate(t *testing.T) {
	t.Run("公開できる", func(t *testing.T) {
		r := newTestRouter()
		summary := newSummary(10, event.StatePublished)
		published := time.Date(2026, 10, 20, 9, 0, 0, 0, time.Local)
		summary.PublishedAt = &published
		r.events.On("AdminUpdateEvent", mock.Anything, int64(10), mock.MatchedBy(func(p event.UpdatePatch) bool {
			return p.StateAction != nil && *p.StateAction == event.StateActionPublish
		})).Return(summary, nil)

		rec := r.do(http.MethodPatch, "/api/v1/admin/events/10", `{"stateAction":"PUBLISH_EVENT"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decode[EventResponse](t, rec)
		require.NotNil(t, resp.PublishedOn)
		assert.Equal(t, "2026-10-20 09:00:00", *resp.PublishedOn)
	})

	t.Run("再公開は409", func(t *testing.T) {
		r := newTestRouter()
		r.events.On("AdminUpdateEvent", mock.Anything, int64(10), mock.Anything).Return(nil, event.ErrEventAlreadyDecided)

		rec := r.do(http.MethodPatch, "/api/v1/admin/events/10", `{"stateAction":"PUBLISH_EVENT"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestEventHandler_Delete(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"削除できる", nil, http.StatusNoContent},
		{"参加リクエストがあると409", event.ErrEventHasActiveRequests, http.StatusConflict},
		{"主催者以外は403", event.ErrNotInitiator, http.StatusForbidden},
		{"想定外のエラーは500", errors.New("接続断"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter()
			r.events.On("DeleteEvent", mock.Anything, int64(1), int64(10)).Return(tt.err)

			rec := r.do(http.MethodDelete, "/api/v1/users/1/events/10", "")

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestEventHandler_Create_Direct(t *testing.T) {
	e := NewTestEcho()
	h := NewEventHandler(new(MockEventService))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validEventBody))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("user_id")
	c.SetParamValues("0")

	err := h.Create(c)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestToEventResponse(t *testing.T) {
	s := newSummary(10, event.StatePendingReview)

	resp := toEventResponse(s)

	assert.Equal(t, s.ID, resp.ID)
	assert.Equal(t, "2030-01-15 19:00:00", resp.EventDate)
	assert.Equal(t, "2026-10-19 12:00:00", resp.CreatedOn)
	assert.Nil(t, resp.PublishedOn)
	assert.Equal(t, int64(1), resp.Initiator)
	assert.Equal(t, 139.76, resp.Location.Lon)
	assert.True(t, resp.RequestModeration)
}
