package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/application"
	"github.com/sanosuguru/go-event-participation/internal/domain/event"
)

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type LocationDTO struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90" example:"55.754167"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180" example:"37.62"`
}

type CreateEventRequest struct {
	Title             string       `json:"title" validate:"required,notblank,min=3,max=120" example:"Go勉強会"`
	Annotation        string       `json:"annotation" validate:"required,notblank,min=20,max=2000"`
	Description       string       `json:"description" validate:"required,notblank,min=20,max=7000"`
	Category          int64        `json:"category" validate:"gte=0" example:"1"`
	EventDate         string       `json:"eventDate" validate:"required" example:"2026-12-31 18:00:00"`
	Location          *LocationDTO `json:"location"`
	Paid              bool         `json:"paid"`
	ParticipantLimit  int          `json:"participantLimit" validate:"gte=0" example:"10"`
	RequestModeration *bool        `json:"requestModeration"`
}

// UpdateEventRequest は部分更新。省略した項目は変更しない
type UpdateEventRequest struct {
	Title             *string      `json:"title" validate:"omitempty,notblank,min=3,max=120"`
	Annotation        *string      `json:"annotation" validate:"omitempty,notblank,min=20,max=2000"`
	Description       *string      `json:"description" validate:"omitempty,notblank,min=20,max=7000"`
	Category          *int64       `json:"category" validate:"omitempty,gte=0"`
	EventDate         *string      `json:"eventDate"`
	Location          *LocationDTO `json:"location"`
	Paid              *bool        `json:"paid"`
	ParticipantLimit  *int         `json:"participantLimit" validate:"omitempty,gte=0"`
	RequestModeration *bool        `json:"requestModeration"`
	StateAction       *string      `json:"stateAction" example:"SEND_TO_REVIEW"`
}

type EventResponse struct {
	ID                int64       `json:"id" example:"1"`
	Title             string      `json:"title"`
	Annotation        string      `json:"annotation"`
	Description       string      `json:"description"`
	Category          int64       `json:"category,omitempty"`
	EventDate         string      `json:"eventDate" example:"2026-12-31 18:00:00"`
	Location          LocationDTO `json:"location"`
	Paid              bool        `json:"paid"`
	ParticipantLimit  int         `json:"participantLimit"`
	RequestModeration bool        `json:"requestModeration"`
	State             string      `json:"state" example:"PENDING_REVIEW"`
	Initiator         int64       `json:"initiator"`
	CreatedOn         string      `json:"createdOn"`
	PublishedOn       *string     `json:"publishedOn,omitempty"`
	ConfirmedRequests int         `json:"confirmedRequests"`
	Views             int64       `json:"views"`
}

func toEventResponse(s *application.EventSummary) EventResponse {
	resp := EventResponse{
		ID:                s.ID,
		Title:             s.Title,
		Annotation:        s.Annotation,
		Description:       s.Description,
		Category:          s.CategoryID,
		EventDate:         formatDateTime(s.EventDate),
		Location:          LocationDTO{Lat: s.Location.Lat, Lon: s.Location.Lon},
		Paid:              s.Paid,
		ParticipantLimit:  s.ParticipantLimit,
		RequestModeration: s.RequestModeration,
		State:             string(s.State),
		Initiator:         s.InitiatorID,
		CreatedOn:         formatDateTime(s.CreatedAt),
		ConfirmedRequests: s.ConfirmedRequests,
		Views:             s.Views,
	}
	if s.PublishedAt != nil {
		published := formatDateTime(*s.PublishedAt)
		resp.PublishedOn = &published
	}
	return resp
}

func (r *CreateEventRequest) details() (event.Details, error) {
	eventDate, err := parseDateTime(r.EventDate)
	if err != nil {
		return event.Details{}, err
	}
	d := event.Details{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		EventDate:         eventDate,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: true,
	}
	if r.Location != nil {
		d.Location = event.Location{Lat: r.Location.Lat, Lon: r.Location.Lon}
	}
	if r.RequestModeration != nil {
		d.RequestModeration = *r.RequestModeration
	}
	return d, nil
}

func (r *UpdateEventRequest) patch() (event.UpdatePatch, error) {
	p := event.UpdatePatch{
		Title:             r.Title,
		Annotation:        r.Annotation,
		Description:       r.Description,
		CategoryID:        r.Category,
		Paid:              r.Paid,
		ParticipantLimit:  r.ParticipantLimit,
		RequestModeration: r.RequestModeration,
	}
	if r.EventDate != nil {
		t, err := parseDateTime(*r.EventDate)
		if err != nil {
			return p, err
		}
		p.EventDate = &t
	}
	if r.Location != nil {
		p.Lat = &r.Location.Lat
		p.Lon = &r.Location.Lon
	}
	if r.StateAction != nil {
		action, err := event.ParseStateAction(*r.StateAction)
		if err != nil {
			return p, err
		}
		p.StateAction = &action
	}
	return p, nil
}

// Create godoc
// @Summary イベントを作成
// @Description 審査待ちのイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{user_id}/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	var req CreateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	details, err := req.details()
	if err != nil {
		return err
	}

	summary, err := h.eventService.CreateEvent(c.Request().Context(), userID, details)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(summary))
}

// List godoc
// @Summary 自分のイベント一覧
// @Tags events
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param from query int false "開始位置" default(0)
// @Param size query int false "取得件数" default(10)
// @Success 200 {array} EventResponse
// @Router /users/{user_id}/events [get]
func (h *EventHandler) List(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	from, err := queryInt(c, "from", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", 10)
	if err != nil {
		return err
	}

	summaries, err := h.eventService.ListUserEvents(c.Request().Context(), userID, from, size)
	if err != nil {
		return err
	}
	resp := make([]EventResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = toEventResponse(s)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetByID godoc
// @Summary 自分のイベントを取得
// @Tags events
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param event_id path int true "イベントID"
// @Success 200 {object} EventResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{user_id}/events/{event_id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}

	summary, err := h.eventService.GetUserEvent(c.Request().Context(), userID, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(summary))
}

// Update godoc
// @Summary 主催者によるイベント更新
// @Description 公開前のイベントのみ変更できます。stateAction は SEND_TO_REVIEW または CANCEL_REVIEW
// @Tags events
// @Accept json
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param event_id path int true "イベントID"
// @Param request body UpdateEventRequest true "変更内容"
// @Success 200 {object} EventResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /users/{user_id}/events/{event_id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	summary, err := h.eventService.UpdateEvent(c.Request().Context(), userID, eventID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(summary))
}

// Delete godoc
// @Summary 未公開イベントを削除
// @Tags events
// @Param user_id path int true "主催者ID"
// @Param event_id path int true "イベントID"
// @Success 204
// @Failure 409 {object} api.ErrorResponse "公開済み、または有効な参加リクエストあり"
// @Router /users/{user_id}/events/{event_id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), userID, eventID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminUpdate godoc
// @Summary 管理者によるイベント審査・更新
// @Description stateAction は PUBLISH_EVENT または REJECT_EVENT。審査待ちのイベントのみ対象
// @Tags admin
// @Accept json
// @Produce json
// @Param event_id path int true "イベントID"
// @Param request body UpdateEventRequest true "変更内容"
// @Success 200 {object} EventResponse
// @Failure 409 {object} api.ErrorResponse
// @Router /admin/events/{event_id} [patch]
func (h *EventHandler) AdminUpdate(c echo.Context) error {
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}
	var req UpdateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	summary, err := h.eventService.AdminUpdateEvent(c.Request().Context(), eventID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toEventResponse(summary))
}
