package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/middleware"
	"github.com/noah-isme/lms-availability-api/internal/models"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
	"github.com/noah-isme/lms-availability-api/pkg/response"
)

type noticeService interface {
	List(ctx context.Context, instructorID string, query dto.NoticeListQuery) ([]models.AvailabilityNotice, error)
	MarkRead(ctx context.Context, instructorID, noticeID string) error
}

// NoticeHandler serves the caller's dropped-recurrence notices.
type NoticeHandler struct {
	service noticeService
}

// NewNoticeHandler constructs the handler.
func NewNoticeHandler(svc noticeService) *NoticeHandler {
	return &NoticeHandler{service: svc}
}

// List godoc
// @Summary List the caller's dropped-recurrence notices
// @Tags Availability
// @Produce json
// @Param unread query bool false "Only unread notices"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} response.Envelope
// @Router /availability/notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.NoticeListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notice query"))
		return
	}
	notices, err := h.service.List(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices)
}

// MarkRead godoc
// @Summary Acknowledge a notice
// @Tags Availability
// @Param notice_id path string true "Notice ID"
// @Success 204
// @Router /availability/notices/{notice_id}/read [post]
func (h *NoticeHandler) MarkRead(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), claims.UserID, c.Param("notice_id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
