package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
	"github.com/noah-isme/lms-availability-api/pkg/jobs"
)

type fakeNoticeRepo struct {
	mu       sync.Mutex
	created  map[string]*models.AvailabilityNotice
	listed   []models.AvailabilityNotice
	markErr  error
	marked   []string
	lastArgs []interface{}
}

func newFakeNoticeRepo() *fakeNoticeRepo {
	return &fakeNoticeRepo{created: map[string]*models.AvailabilityNotice{}}
}

func (f *fakeNoticeRepo) Create(ctx context.Context, notice *models.AvailabilityNotice) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created[notice.ID] = notice
	return nil
}

func (f *fakeNoticeRepo) ListByInstructor(ctx context.Context, instructorID string, unreadOnly bool, limit int) ([]models.AvailabilityNotice, error) {
	f.lastArgs = []interface{}{instructorID, unreadOnly, limit}
	return f.listed, nil
}

func (f *fakeNoticeRepo) MarkRead(ctx context.Context, instructorID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.marked = append(f.marked, id)
	return f.markErr
}

func (f *fakeNoticeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

type fakePublisher struct {
	mu     sync.Mutex
	bodies [][]byte
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, messageType string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.bodies = append(f.bodies, body)
	return nil
}

var droppedCells = []scheduling.Cell{{Date: scheduling.MustParseDate("2025-01-13"), TimeslotID: 1}}

func TestNoticeServiceDeliversInline(t *testing.T) {
	repo := newFakeNoticeRepo()
	pub := &fakePublisher{}
	svc := NewNoticeService(repo, pub, nil, nil, nil, nil)

	require.NoError(t, svc.NotifyDropped(context.Background(), "I1", droppedCells))
	require.Equal(t, 1, repo.count())
	for _, notice := range repo.created {
		assert.Equal(t, "I1", notice.InstructorID)
		assert.JSONEq(t, `[{"date":"2025-01-13","timeslot_id":1}]`, string(notice.Dropped))
	}

	require.Len(t, pub.bodies, 1)
	var payload DroppedNotice
	require.NoError(t, json.Unmarshal(pub.bodies[0], &payload))
	assert.Equal(t, droppedCells, payload.Dropped)
}

func TestNoticeServiceIgnoresEmpty(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := NewNoticeService(repo, nil, nil, nil, nil, nil)
	require.NoError(t, svc.NotifyDropped(context.Background(), "I1", nil))
	assert.Zero(t, repo.count())
}

func TestNoticeServicePublishFailure(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := NewNoticeService(repo, &fakePublisher{err: errors.New("broker down")}, nil, nil, nil, nil)

	err := svc.NotifyDropped(context.Background(), "I1", droppedCells)
	require.Error(t, err)
	assert.Equal(t, 1, repo.count())
}

func TestNoticeServiceThroughQueue(t *testing.T) {
	repo := newFakeNoticeRepo()
	queue := jobs.NewQueue("notices", jobs.QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})
	svc := NewNoticeService(repo, nil, queue, nil, nil, nil)
	queue.Register(NoticeJobType, svc.HandleJob)
	queue.Start(context.Background())
	defer queue.Stop()

	require.NoError(t, svc.NotifyDropped(context.Background(), "I1", droppedCells))
	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestNoticeServiceHandleJobRejectsPayload(t *testing.T) {
	svc := NewNoticeService(newFakeNoticeRepo(), nil, nil, nil, nil, nil)
	err := svc.HandleJob(context.Background(), jobs.Job{ID: "j-1", Type: NoticeJobType, Payload: "nope"})
	assert.Error(t, err)
}

func TestNoticeServiceList(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := NewNoticeService(repo, nil, nil, nil, nil, nil)

	notices, err := svc.List(context.Background(), "I1", dto.NoticeListQuery{Unread: true, Limit: 5})
	require.NoError(t, err)
	assert.NotNil(t, notices)
	assert.Equal(t, []interface{}{"I1", true, 5}, repo.lastArgs)

	_, err = svc.List(context.Background(), "I1", dto.NoticeListQuery{Limit: 500})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestNoticeServiceMarkRead(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := NewNoticeService(repo, nil, nil, nil, nil, nil)
	ctx := context.Background()
	id := "7d3c3f7e-2a4b-4c59-9a51-0c8f1f0d6b11"
	require.NoError(t, svc.MarkRead(ctx, "I1", id))

	repo.markErr = sql.ErrNoRows
	assert.ErrorIs(t, svc.MarkRead(ctx, "I1", id), appErrors.ErrNotFound)

	repo.markErr = errors.New("timeout")
	assert.ErrorIs(t, svc.MarkRead(ctx, "I1", id), appErrors.ErrTransport)
}

func TestNoticeServiceMarkReadRejectsMalformedID(t *testing.T) {
	repo := newFakeNoticeRepo()
	svc := NewNoticeService(repo, nil, nil, nil, nil, nil)

	err := svc.MarkRead(context.Background(), "I1", "n-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.NotErrorIs(t, err, appErrors.ErrTransport)
	assert.Empty(t, repo.marked)
}
