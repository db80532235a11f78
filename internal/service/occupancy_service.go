package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
)

type teachingSessionRepository interface {
	ListOccupied(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.OccupiedSlot, error)
}

// OccupancyService answers which cells an instructor already teaches.
type OccupancyService struct {
	sessions teachingSessionRepository
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewOccupancyService builds the resolver.
func NewOccupancyService(sessions teachingSessionRepository, metrics *MetricsService, logger *zap.Logger) *OccupancyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OccupancyService{sessions: sessions, metrics: metrics, logger: logger}
}

// Occupied returns the occupied cells inside [start, end] as a set, plus the
// underlying session rows.
func (s *OccupancyService) Occupied(ctx context.Context, instructorID string, start, end scheduling.Date) (scheduling.CellSet, []models.OccupiedSlot, error) {
	began := time.Now()
	rows, err := s.sessions.ListOccupied(ctx, instructorID, start, end)
	s.metrics.ObserveDBQuery("list_occupied", time.Since(began))
	if err != nil {
		s.logger.Error("failed to load teaching sessions", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, nil, appErrors.Transport(err, "failed to load teaching sessions")
	}

	set := scheduling.NewCellSet()
	for _, row := range rows {
		set.Add(row.Cell())
	}
	if rows == nil {
		rows = []models.OccupiedSlot{}
	}
	return set, rows, nil
}
