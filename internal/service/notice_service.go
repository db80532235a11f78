package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
	"github.com/noah-isme/lms-availability-api/pkg/jobs"
)

// NoticeJobType routes dropped-recurrence notices on the job queue.
const NoticeJobType = "availability.recurring_dropped"

type noticeRepository interface {
	Create(ctx context.Context, notice *models.AvailabilityNotice) error
	ListByInstructor(ctx context.Context, instructorID string, unreadOnly bool, limit int) ([]models.AvailabilityNotice, error)
	MarkRead(ctx context.Context, instructorID, id string) error
}

// NoticePublisher forwards notices to an external broker.
type NoticePublisher interface {
	Publish(ctx context.Context, messageType string, body []byte) error
}

// JobEnqueuer accepts background jobs.
type JobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// DroppedNotice is the job payload describing recurring cells that were
// skipped because the instructor already teaches then.
type DroppedNotice struct {
	ID           string            `json:"id"`
	InstructorID string            `json:"instructor_id"`
	Dropped      []scheduling.Cell `json:"dropped"`
	CreatedAt    time.Time         `json:"created_at"`
}

// NoticeService records dropped-recurrence notices and lets instructors read them.
type NoticeService struct {
	repo      noticeRepository
	publisher NoticePublisher
	queue     JobEnqueuer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoticeService builds the service. publisher and queue may be nil: without
// a queue notices are delivered inline, without a publisher they are only stored.
func NewNoticeService(repo noticeRepository, publisher NoticePublisher, queue JobEnqueuer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{
		repo:      repo,
		publisher: publisher,
		queue:     queue,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// NotifyDropped schedules a notice for the dropped cells.
func (s *NoticeService) NotifyDropped(ctx context.Context, instructorID string, cells []scheduling.Cell) error {
	if len(cells) == 0 {
		return nil
	}
	notice := DroppedNotice{
		ID:           uuid.NewString(),
		InstructorID: instructorID,
		Dropped:      cells,
		CreatedAt:    time.Now().UTC(),
	}
	if s.queue == nil {
		return s.deliver(ctx, notice)
	}
	if err := s.queue.Enqueue(jobs.Job{ID: notice.ID, Type: NoticeJobType, Payload: notice}); err != nil {
		s.logger.Warn("notice queue unavailable, delivering inline", zap.String("instructor_id", instructorID), zap.Error(err))
		return s.deliver(ctx, notice)
	}
	return nil
}

// HandleJob is the queue handler for NoticeJobType.
func (s *NoticeService) HandleJob(ctx context.Context, job jobs.Job) error {
	notice, ok := job.Payload.(DroppedNotice)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}
	return s.deliver(ctx, notice)
}

// deliver stores the notice and publishes it. The notice id makes retries
// idempotent at storage.
func (s *NoticeService) deliver(ctx context.Context, notice DroppedNotice) error {
	dropped, err := json.Marshal(notice.Dropped)
	if err != nil {
		return fmt.Errorf("marshal dropped cells: %w", err)
	}
	record := &models.AvailabilityNotice{
		ID:           notice.ID,
		InstructorID: notice.InstructorID,
		Dropped:      types.JSONText(dropped),
		CreatedAt:    notice.CreatedAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.metrics.RecordNotice("store_failed")
		return err
	}

	if s.publisher != nil {
		body, err := json.Marshal(notice)
		if err != nil {
			return fmt.Errorf("marshal notice: %w", err)
		}
		if err := s.publisher.Publish(ctx, NoticeJobType, body); err != nil {
			s.metrics.RecordNotice("publish_failed")
			return err
		}
	}

	s.metrics.RecordNotice("delivered")
	s.logger.Info("recurring availability dropped",
		zap.String("notice_id", notice.ID),
		zap.String("instructor_id", notice.InstructorID),
		zap.Int("dropped", len(notice.Dropped)),
	)
	return nil
}

// List returns the instructor's notices, newest first.
func (s *NoticeService) List(ctx context.Context, instructorID string, query dto.NoticeListQuery) ([]models.AvailabilityNotice, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice query")
	}
	notices, err := s.repo.ListByInstructor(ctx, instructorID, query.Unread, query.Limit)
	if err != nil {
		return nil, appErrors.Transport(err, "failed to load notices")
	}
	if notices == nil {
		notices = []models.AvailabilityNotice{}
	}
	return notices, nil
}

// MarkRead acknowledges a notice.
func (s *NoticeService) MarkRead(ctx context.Context, instructorID, noticeID string) error {
	if _, err := uuid.Parse(noticeID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
	}
	if err := s.repo.MarkRead(ctx, instructorID, noticeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return appErrors.Transport(err, "failed to update notice")
	}
	return nil
}
