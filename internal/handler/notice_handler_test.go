package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/middleware"
	"github.com/noah-isme/lms-availability-api/internal/models"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
)

type noticeServiceMock struct {
	notices   []models.AvailabilityNotice
	err       error
	lastUser  string
	lastQuery dto.NoticeListQuery
	lastID    string
}

func (m *noticeServiceMock) List(ctx context.Context, instructorID string, query dto.NoticeListQuery) ([]models.AvailabilityNotice, error) {
	m.lastUser, m.lastQuery = instructorID, query
	return m.notices, m.err
}

func (m *noticeServiceMock) MarkRead(ctx context.Context, instructorID, noticeID string) error {
	m.lastUser, m.lastID = instructorID, noticeID
	return m.err
}

func TestNoticeHandlerListUsesCaller(t *testing.T) {
	mockSvc := &noticeServiceMock{notices: []models.AvailabilityNotice{{ID: "n-1"}}}
	h := NewNoticeHandler(mockSvc)
	c, w := newTestContext(http.MethodGet, "/availability/notices?unread=true&limit=5", nil, nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "I1", Role: models.RoleInstructor})

	h.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "I1", mockSvc.lastUser)
	assert.True(t, mockSvc.lastQuery.Unread)
	assert.Equal(t, 5, mockSvc.lastQuery.Limit)
}

func TestNoticeHandlerRequiresClaims(t *testing.T) {
	h := NewNoticeHandler(&noticeServiceMock{})
	c, w := newTestContext(http.MethodGet, "/availability/notices", nil, nil)

	h.List(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNoticeHandlerMarkRead(t *testing.T) {
	mockSvc := &noticeServiceMock{}
	h := NewNoticeHandler(mockSvc)
	c, w := newTestContext(http.MethodPost, "/availability/notices/n-1/read", nil, gin.Params{{Key: "notice_id", Value: "n-1"}})
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "I1"})

	h.MarkRead(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "n-1", mockSvc.lastID)

	mockSvc.err = appErrors.Clone(appErrors.ErrNotFound, "notice not found")
	c, w = newTestContext(http.MethodPost, "/availability/notices/n-2/read", nil, gin.Params{{Key: "notice_id", Value: "n-2"}})
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "I1"})
	h.MarkRead(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
