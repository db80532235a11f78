package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
	"github.com/noah-isme/lms-availability-api/pkg/export"
)

// DefaultMaxWindowDays bounds the span of a single read or replace.
const DefaultMaxWindowDays = 366

type instructorRepository interface {
	FindByID(ctx context.Context, id string) (*models.Instructor, error)
}

type availabilityRepository interface {
	ListWindow(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.AvailabilitySlot, error)
	ReplaceWindow(ctx context.Context, instructorID string, start, end scheduling.Date, slots []models.AvailabilitySlot) error
	InsertMissing(ctx context.Context, slots []models.AvailabilitySlot) ([]bool, error)
}

type occupancyResolver interface {
	Occupied(ctx context.Context, instructorID string, start, end scheduling.Date) (scheduling.CellSet, []models.OccupiedSlot, error)
}

type droppedNotifier interface {
	NotifyDropped(ctx context.Context, instructorID string, cells []scheduling.Cell) error
}

// AvailabilityConfig tunes the service.
type AvailabilityConfig struct {
	MaxWindowDays int
	CacheTTL      time.Duration
}

// AvailabilityService is the availability ledger: it guards every write with
// the occupancy and eligibility rules and keeps the window cache coherent.
type AvailabilityService struct {
	instructors instructorRepository
	repo        availabilityRepository
	occupancy   occupancyResolver
	notices     droppedNotifier
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         AvailabilityConfig
}

// NewAvailabilityService wires the ledger. notices, cache and metrics are optional.
func NewAvailabilityService(
	instructors instructorRepository,
	repo availabilityRepository,
	occupancy occupancyResolver,
	notices droppedNotifier,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AvailabilityConfig,
) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxWindowDays <= 0 {
		cfg.MaxWindowDays = DefaultMaxWindowDays
	}
	return &AvailabilityService{
		instructors: instructors,
		repo:        repo,
		occupancy:   occupancy,
		notices:     notices,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
	}
}

// TimeSlots returns the slot catalog.
func (s *AvailabilityService) TimeSlots() []scheduling.TimeSlot {
	return scheduling.AllSlots()
}

// WeeksOfYear lists the Monday of every week overlapping year.
func (s *AvailabilityService) WeeksOfYear(year int) ([]scheduling.Date, error) {
	if year < 1 || year > 9999 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be between 1 and 9999")
	}
	return scheduling.WeeksOfYear(year), nil
}

// Read returns the stored declarations inside [start, end].
func (s *AvailabilityService) Read(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.AvailabilitySlot, error) {
	if err := s.checkWindow(start, end); err != nil {
		return nil, err
	}
	if _, err := s.loadInstructor(ctx, instructorID); err != nil {
		return nil, err
	}
	return s.listWindow(ctx, instructorID, start, end)
}

// GetWindow returns declarations and occupied sessions for [start, end].
// Only the declarations are cached; sessions are confirmed elsewhere so
// occupancy is resolved on every call.
func (s *AvailabilityService) GetWindow(ctx context.Context, instructorID string, start, end scheduling.Date) (*models.AvailabilityWindow, error) {
	if err := s.checkWindow(start, end); err != nil {
		return nil, err
	}

	key := windowCacheKey(instructorID, start, end)
	var slots []models.AvailabilitySlot
	if !s.cache.Get(ctx, key, &slots) {
		if _, err := s.loadInstructor(ctx, instructorID); err != nil {
			return nil, err
		}
		var err error
		slots, err = s.listWindow(ctx, instructorID, start, end)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, key, slots, s.cfg.CacheTTL)
	}
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}

	_, occupied, err := s.occupancy.Occupied(ctx, instructorID, start, end)
	if err != nil {
		return nil, err
	}

	return &models.AvailabilityWindow{
		InstructorID: instructorID,
		StartDate:    start,
		EndDate:      end,
		Availability: slots,
		Occupied:     occupied,
	}, nil
}

// ReplaceWindow makes the stored declarations inside the window exactly equal
// to the request. Any rejected entry fails the whole request and nothing is written.
func (s *AvailabilityService) ReplaceWindow(ctx context.Context, instructorID string, req dto.ReplaceWindowRequest) (*models.AvailabilityWindow, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	if err := s.checkWindow(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	instructor, empType, err := s.loadEmployment(ctx, instructorID)
	if err != nil {
		return nil, err
	}
	occupiedSet, occupied, err := s.occupancy.Occupied(ctx, instructorID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	seen := scheduling.NewCellSet()
	var violations []models.SlotViolation
	cells := make([]scheduling.Cell, 0, len(req.Slots))
	for _, entry := range req.Slots {
		cell := entry.Cell()
		if seen.Has(cell) {
			continue
		}
		seen.Add(cell)

		if !cell.Date.IsZero() && !cell.Date.Within(req.StartDate, req.EndDate) {
			violations = append(violations, violation(cell, models.ReasonOutsideWindow))
			continue
		}
		if v := scheduling.CheckWritable(cell, empType, occupiedSet); v != scheduling.ViolationNone {
			violations = append(violations, violation(cell, string(v)))
			continue
		}
		cells = append(cells, cell)
	}
	if len(violations) > 0 {
		s.metrics.RecordWindowReplacement(ReplaceResultRejected)
		return nil, appErrors.WithDetails(
			appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%d availability slot(s) rejected", len(violations))),
			violations,
		)
	}

	scheduling.SortCells(cells)
	slots := make([]models.AvailabilitySlot, len(cells))
	for i, cell := range cells {
		slots[i] = models.AvailabilitySlot{
			InstructorID:   instructor.ID,
			Date:           cell.Date,
			TimeslotID:     cell.TimeslotID,
			InstructorType: empType,
		}
	}

	began := time.Now()
	err = s.repo.ReplaceWindow(ctx, instructorID, req.StartDate, req.EndDate, slots)
	s.metrics.ObserveDBQuery("replace_window", time.Since(began))
	if err != nil {
		s.metrics.RecordWindowReplacement(ReplaceResultFailed)
		s.logger.Error("failed to replace availability window", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, appErrors.Transport(err, "failed to save availability")
	}

	s.metrics.RecordWindowReplacement(ReplaceResultOK)
	s.cache.Invalidate(ctx, instructorCachePattern(instructorID))
	s.logger.Info("availability window replaced",
		zap.String("instructor_id", instructorID),
		zap.Stringer("start_date", req.StartDate),
		zap.Stringer("end_date", req.EndDate),
		zap.Int("slots", len(slots)),
	)

	return &models.AvailabilityWindow{
		InstructorID: instructorID,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Availability: slots,
		Occupied:     occupied,
	}, nil
}

// AddSlots declares each entry unless it is already stored. Entries that fail
// a rule are skipped individually; only a storage failure aborts the batch.
func (s *AvailabilityService) AddSlots(ctx context.Context, instructorID string, req dto.AddSlotsRequest) (*models.AddSlotsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	instructor, empType, err := s.loadEmployment(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	occupiedSet := scheduling.NewCellSet()
	if first, last, ok := dateRange(req.Slots); ok {
		occupiedSet, _, err = s.occupancy.Occupied(ctx, instructorID, first, last)
		if err != nil {
			return nil, err
		}
	}

	outcomes := make([]models.SlotOutcome, len(req.Slots))
	seen := scheduling.NewCellSet()
	var pending []models.AvailabilitySlot
	var pendingIdx []int
	for i, entry := range req.Slots {
		cell := entry.Cell()
		outcomes[i] = models.SlotOutcome{Date: cell.Date, TimeslotID: cell.TimeslotID}

		switch scheduling.CheckWritable(cell, empType, occupiedSet) {
		case scheduling.ViolationInvalidDate, scheduling.ViolationInvalidSlot:
			outcomes[i].Status = models.OutcomeSkippedInvalid
			continue
		case scheduling.ViolationOccupied:
			outcomes[i].Status = models.OutcomeSkippedOccupied
			continue
		case scheduling.ViolationIneligible:
			outcomes[i].Status = models.OutcomeSkippedIneligible
			continue
		}
		if seen.Has(cell) {
			outcomes[i].Status = models.OutcomeAlreadyPresent
			continue
		}
		seen.Add(cell)
		pending = append(pending, models.AvailabilitySlot{
			InstructorID:   instructor.ID,
			Date:           cell.Date,
			TimeslotID:     cell.TimeslotID,
			InstructorType: empType,
		})
		pendingIdx = append(pendingIdx, i)
	}

	if len(pending) > 0 {
		began := time.Now()
		inserted, err := s.repo.InsertMissing(ctx, pending)
		s.metrics.ObserveDBQuery("insert_availability", time.Since(began))
		if err != nil {
			s.logger.Error("failed to add availability slots", zap.String("instructor_id", instructorID), zap.Error(err))
			return nil, appErrors.Transport(err, "failed to save availability")
		}
		for j, idx := range pendingIdx {
			if j < len(inserted) && inserted[j] {
				outcomes[idx].Status = models.OutcomeInserted
			} else {
				outcomes[idx].Status = models.OutcomeAlreadyPresent
			}
		}
	}

	result := &models.AddSlotsResult{Outcomes: outcomes}
	for _, o := range outcomes {
		switch {
		case o.Status == models.OutcomeInserted:
			result.Inserted++
		case !o.Status.Durable():
			result.Skipped++
		}
	}

	s.metrics.RecordSlotOutcomes(outcomes)
	if result.Inserted > 0 {
		s.cache.Invalidate(ctx, instructorCachePattern(instructorID))
	}
	if dropped := result.Dropped(); len(dropped) > 0 && s.notices != nil {
		if err := s.notices.NotifyDropped(ctx, instructorID, dropped); err != nil {
			s.logger.Warn("failed to record dropped availability notice", zap.String("instructor_id", instructorID), zap.Error(err))
		}
	}
	s.logger.Info("availability slots added",
		zap.String("instructor_id", instructorID),
		zap.Int("requested", len(req.Slots)),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ExpandRecurring repeats one cell weekly and adds the result.
func (s *AvailabilityService) ExpandRecurring(ctx context.Context, instructorID string, req dto.ExpandRecurringRequest) (*models.AddSlotsResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid recurrence payload")
	}
	if req.Date.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date is required")
	}
	if !scheduling.IsSupportedRecurrence(req.Weeks) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "weeks must be 4 or 12")
	}

	cells := scheduling.Expand(req.Date, req.TimeslotID, req.Weeks)
	entries := make([]dto.SlotEntry, len(cells))
	for i, cell := range cells {
		entries[i] = dto.SlotEntry{Date: cell.Date, TimeslotID: cell.TimeslotID}
	}
	return s.AddSlots(ctx, instructorID, dto.AddSlotsRequest{Slots: entries})
}

// WeekGrid resolves the state of every cell of the week containing weekStart.
func (s *AvailabilityService) WeekGrid(ctx context.Context, instructorID string, weekStart scheduling.Date) (*scheduling.WeekGrid, error) {
	if weekStart.IsZero() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_start is required")
	}
	_, empType, err := s.loadEmployment(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	start := scheduling.WeekStart(weekStart)
	end := scheduling.WeekEnd(start)
	occupied, _, err := s.occupancy.Occupied(ctx, instructorID, start, end)
	if err != nil {
		return nil, err
	}
	slots, err := s.listWindow(ctx, instructorID, start, end)
	if err != nil {
		return nil, err
	}
	declared := scheduling.NewCellSet()
	for _, slot := range slots {
		declared.Add(slot.Cell())
	}

	grid := scheduling.BuildWeekGrid(start, empType, occupied, declared)
	return &grid, nil
}

// ExportedSheet is a rendered week sheet ready for download.
type ExportedSheet struct {
	Filename    string
	ContentType string
	Body        []byte
}

var stateFill = map[string][3]int{
	string(scheduling.CellOccupied):   {230, 57, 70},
	string(scheduling.CellRestricted): {200, 200, 200},
	string(scheduling.CellDeclared):   {82, 183, 136},
}

// ExportWeek renders the week grid as csv or pdf.
func (s *AvailabilityService) ExportWeek(ctx context.Context, instructorID string, weekStart scheduling.Date, format string) (*ExportedSheet, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported export format")
	}
	grid, err := s.WeekGrid(ctx, instructorID, weekStart)
	if err != nil {
		return nil, err
	}

	headers := []string{"Timeslot"}
	for _, day := range grid.Days {
		headers = append(headers, fmt.Sprintf("%s %s", day.Weekday().String()[:3], day))
	}
	rows := make([][]string, len(grid.Rows))
	for i, row := range grid.Rows {
		slot := grid.Slots[i]
		line := []string{fmt.Sprintf("%s-%s", slot.StartTime, slot.EndTime)}
		for _, cell := range row {
			line = append(line, string(cell.State))
		}
		rows[i] = line
	}

	body, err := renderer.Render(export.Sheet{
		Title:   fmt.Sprintf("Availability %s (%s to %s)", instructorID, grid.WeekStart, grid.WeekEnd),
		Headers: headers,
		Rows:    rows,
		Fill:    stateFill,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportedSheet{
		Filename:    fmt.Sprintf("availability-%s-%s.%s", instructorID, grid.WeekStart, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *AvailabilityService) checkWindow(start, end scheduling.Date) error {
	if start.IsZero() || end.IsZero() {
		return appErrors.Clone(appErrors.ErrValidation, "start_date and end_date are required")
	}
	if start.After(end) {
		return appErrors.Clone(appErrors.ErrValidation, "start_date must not be after end_date")
	}
	if start.DaysUntil(end)+1 > s.cfg.MaxWindowDays {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("window must not exceed %d days", s.cfg.MaxWindowDays))
	}
	return nil
}

func (s *AvailabilityService) loadInstructor(ctx context.Context, instructorID string) (*models.Instructor, error) {
	instructor, err := s.instructors.FindByID(ctx, instructorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
		}
		s.logger.Error("failed to load instructor", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, appErrors.Transport(err, "failed to load instructor")
	}
	return instructor, nil
}

func (s *AvailabilityService) loadEmployment(ctx context.Context, instructorID string) (*models.Instructor, scheduling.EmploymentType, error) {
	instructor, err := s.loadInstructor(ctx, instructorID)
	if err != nil {
		return nil, "", err
	}
	empType, err := scheduling.ParseEmploymentType(string(instructor.EmploymentType))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "instructor has an unknown employment type")
	}
	return instructor, empType, nil
}

func (s *AvailabilityService) listWindow(ctx context.Context, instructorID string, start, end scheduling.Date) ([]models.AvailabilitySlot, error) {
	began := time.Now()
	slots, err := s.repo.ListWindow(ctx, instructorID, start, end)
	s.metrics.ObserveDBQuery("list_availability", time.Since(began))
	if err != nil {
		s.logger.Error("failed to read availability", zap.String("instructor_id", instructorID), zap.Error(err))
		return nil, appErrors.Transport(err, "failed to read availability")
	}
	if slots == nil {
		slots = []models.AvailabilitySlot{}
	}
	return slots, nil
}

func violation(cell scheduling.Cell, reason string) models.SlotViolation {
	return models.SlotViolation{Date: cell.Date, TimeslotID: cell.TimeslotID, Reason: reason}
}

// dateRange spans the non-zero dates of entries.
func dateRange(entries []dto.SlotEntry) (scheduling.Date, scheduling.Date, bool) {
	var first, last scheduling.Date
	found := false
	for _, e := range entries {
		if e.Date.IsZero() {
			continue
		}
		if !found || e.Date.Before(first) {
			first = e.Date
		}
		if !found || e.Date.After(last) {
			last = e.Date
		}
		found = true
	}
	return first, last, found
}
