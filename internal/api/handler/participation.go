package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-event-participation/internal/domain/participation"
)

type ParticipationHandler struct {
	service ParticipationServiceInterface
}

func NewParticipationHandler(s ParticipationServiceInterface) *ParticipationHandler {
	return &ParticipationHandler{service: s}
}

type ParticipationRequestResponse struct {
	ID        int64  `json:"id" example:"1"`
	Event     int64  `json:"event" example:"10"`
	Requester int64  `json:"requester" example:"2"`
	Status    string `json:"status" example:"PENDING"`
	Created   string `json:"created" example:"2026-10-19 12:00:00"`
}

// StatusUpdateRequest は主催者による一括承認・却下
type StatusUpdateRequest struct {
	RequestIDs []int64 `json:"requestIds" validate:"required,min=1,dive,gt=0"`
	Status     string  `json:"status" validate:"required,oneof=CONFIRMED REJECTED" example:"CONFIRMED"`
}

type StatusUpdateResponse struct {
	ConfirmedRequests []ParticipationRequestResponse `json:"confirmedRequests"`
	RejectedRequests  []ParticipationRequestResponse `json:"rejectedRequests"`
}

func toRequestResponse(r *participation.Request) ParticipationRequestResponse {
	return ParticipationRequestResponse{
		ID:        r.ID,
		Event:     r.EventID,
		Requester: r.RequesterID,
		Status:    string(r.Status),
		Created:   formatDateTime(r.CreatedAt),
	}
}

func toRequestResponses(requests []*participation.Request) []ParticipationRequestResponse {
	resp := make([]ParticipationRequestResponse, len(requests))
	for i, r := range requests {
		resp[i] = toRequestResponse(r)
	}
	return resp
}

// Create godoc
// @Summary 参加リクエストを作成
// @Description 承認不要のイベントでは即時確定します
// @Tags requests
// @Produce json
// @Param user_id path int true "申請者ID"
// @Param eventId query int true "イベントID"
// @Success 201 {object} ParticipationRequestResponse
// @Failure 404 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "重複申請・未公開・定員到達"
// @Router /users/{user_id}/requests [post]
func (h *ParticipationHandler) Create(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := queryID(c, "eventId")
	if err != nil {
		return err
	}

	req, err := h.service.CreateRequest(c.Request().Context(), userID, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRequestResponse(req))
}

// ListMine godoc
// @Summary 自分の参加リクエスト一覧
// @Tags requests
// @Produce json
// @Param user_id path int true "申請者ID"
// @Success 200 {array} ParticipationRequestResponse
// @Router /users/{user_id}/requests [get]
func (h *ParticipationHandler) ListMine(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	requests, err := h.service.ListUserRequests(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(requests))
}

// Cancel godoc
// @Summary 参加リクエストを取り消す
// @Tags requests
// @Produce json
// @Param user_id path int true "申請者ID"
// @Param request_id path int true "参加リクエストID"
// @Success 200 {object} ParticipationRequestResponse
// @Failure 403 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /users/{user_id}/requests/{request_id}/cancel [patch]
func (h *ParticipationHandler) Cancel(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	requestID, err := pathID(c, "request_id")
	if err != nil {
		return err
	}

	req, err := h.service.CancelRequest(c.Request().Context(), userID, requestID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponse(req))
}

// ListForEvent godoc
// @Summary 自分のイベントへの参加リクエスト一覧
// @Tags requests
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param event_id path int true "イベントID"
// @Success 200 {array} ParticipationRequestResponse
// @Failure 403 {object} api.ErrorResponse
// @Router /users/{user_id}/events/{event_id}/requests [get]
func (h *ParticipationHandler) ListForEvent(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}

	requests, err := h.service.ListEventRequests(c.Request().Context(), userID, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRequestResponses(requests))
}

// UpdateStatuses godoc
// @Summary 参加リクエストの一括承認・却下
// @Description 空き枠を超えた分は指定順の後ろから却下されます
// @Tags requests
// @Accept json
// @Produce json
// @Param user_id path int true "主催者ID"
// @Param event_id path int true "イベントID"
// @Param request body StatusUpdateRequest true "対象と状態"
// @Success 200 {object} StatusUpdateResponse
// @Failure 400 {object} api.ErrorResponse "保留中でないリクエストを含む"
// @Failure 409 {object} api.ErrorResponse "空き枠なし"
// @Router /users/{user_id}/events/{event_id}/requests [patch]
func (h *ParticipationHandler) UpdateStatuses(c echo.Context) error {
	userID, err := pathID(c, "user_id")
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "event_id")
	if err != nil {
		return err
	}
	var req StatusUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status, err := participation.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	result, err := h.service.ProcessBatch(c.Request().Context(), userID, eventID, req.RequestIDs, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusUpdateResponse{
		ConfirmedRequests: toRequestResponses(result.Confirmed),
		RejectedRequests:  toRequestResponses(result.Rejected),
	})
}
