package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-availability-api/internal/dto"
	"github.com/noah-isme/lms-availability-api/internal/models"
	"github.com/noah-isme/lms-availability-api/internal/scheduling"
	"github.com/noah-isme/lms-availability-api/internal/service"
	appErrors "github.com/noah-isme/lms-availability-api/pkg/errors"
	"github.com/noah-isme/lms-availability-api/pkg/response"
)

type availabilityService interface {
	GetWindow(ctx context.Context, instructorID string, start, end scheduling.Date) (*models.AvailabilityWindow, error)
	ReplaceWindow(ctx context.Context, instructorID string, req dto.ReplaceWindowRequest) (*models.AvailabilityWindow, error)
	AddSlots(ctx context.Context, instructorID string, req dto.AddSlotsRequest) (*models.AddSlotsResult, error)
	ExpandRecurring(ctx context.Context, instructorID string, req dto.ExpandRecurringRequest) (*models.AddSlotsResult, error)
	WeekGrid(ctx context.Context, instructorID string, weekStart scheduling.Date) (*scheduling.WeekGrid, error)
	ExportWeek(ctx context.Context, instructorID string, weekStart scheduling.Date, format string) (*service.ExportedSheet, error)
	WeeksOfYear(year int) ([]scheduling.Date, error)
	TimeSlots() []scheduling.TimeSlot
}

// AvailabilityHandler exposes the instructor availability endpoints.
type AvailabilityHandler struct {
	service availabilityService
	now     func() time.Time
}

// NewAvailabilityHandler constructs the handler.
func NewAvailabilityHandler(svc availabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc, now: time.Now}
}

// GetWindow godoc
// @Summary Get instructor availability for a date range
// @Tags Availability
// @Produce json
// @Param id path string true "Instructor ID"
// @Param start_date query string true "Window start (YYYY-MM-DD)"
// @Param end_date query string true "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /instructors/{id}/availability [get]
func (h *AvailabilityHandler) GetWindow(c *gin.Context) {
	start, ok := dateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end_date")
	if !ok {
		return
	}
	window, err := h.service.GetWindow(c.Request.Context(), c.Param("id"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window)
}

// ReplaceWindow godoc
// @Summary Replace instructor availability inside a window
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.ReplaceWindowRequest true "Window payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /instructors/{id}/availability/window [put]
func (h *AvailabilityHandler) ReplaceWindow(c *gin.Context) {
	var req dto.ReplaceWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	window, err := h.service.ReplaceWindow(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, window)
}

// AddRecurring godoc
// @Summary Add availability slots without replacing existing ones
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.AddSlotsRequest true "Slots"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/availability/recurring [post]
func (h *AvailabilityHandler) AddRecurring(c *gin.Context) {
	var req dto.AddSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid availability payload"))
		return
	}
	result, err := h.service.AddSlots(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, addSlotsMeta(result))
}

// ExpandRecurring godoc
// @Summary Repeat one slot weekly for 4 or 12 weeks
// @Tags Availability
// @Accept json
// @Produce json
// @Param id path string true "Instructor ID"
// @Param payload body dto.ExpandRecurringRequest true "Recurrence seed"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/availability/recurring/expand [post]
func (h *AvailabilityHandler) ExpandRecurring(c *gin.Context) {
	var req dto.ExpandRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recurrence payload"))
		return
	}
	result, err := h.service.ExpandRecurring(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, addSlotsMeta(result))
}

// Grid godoc
// @Summary Resolved cell states for one week
// @Tags Availability
// @Produce json
// @Param id path string true "Instructor ID"
// @Param week_start query string false "Any date inside the week, defaults to today"
// @Success 200 {object} response.Envelope
// @Router /instructors/{id}/availability/grid [get]
func (h *AvailabilityHandler) Grid(c *gin.Context) {
	weekStart, ok := h.weekQuery(c)
	if !ok {
		return
	}
	grid, err := h.service.WeekGrid(c.Request.Context(), c.Param("id"), weekStart)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid)
}

// Export godoc
// @Summary Download a week of availability as CSV or PDF
// @Tags Availability
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Instructor ID"
// @Param week_start query string false "Any date inside the week"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /instructors/{id}/availability/export [get]
func (h *AvailabilityHandler) Export(c *gin.Context) {
	weekStart, ok := h.weekQuery(c)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "csv")))
	sheet, err := h.service.ExportWeek(c.Request.Context(), c.Param("id"), weekStart, format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, sheet.Filename, sheet.ContentType, sheet.Body)
}

// TimeSlots godoc
// @Summary List the daily slot catalog
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /availability/timeslots [get]
func (h *AvailabilityHandler) TimeSlots(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.TimeSlots())
}

// Weeks godoc
// @Summary List the Monday of every week overlapping a year
// @Tags Availability
// @Produce json
// @Param year query int false "Calendar year, defaults to the current year"
// @Success 200 {object} response.Envelope
// @Router /availability/weeks [get]
func (h *AvailabilityHandler) Weeks(c *gin.Context) {
	year := h.now().Year()
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
			return
		}
		year = parsed
	}
	weeks, err := h.service.WeeksOfYear(year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, weeks, map[string]interface{}{"year": year, "count": len(weeks)})
}

func (h *AvailabilityHandler) weekQuery(c *gin.Context) (scheduling.Date, bool) {
	if strings.TrimSpace(c.Query("week_start")) == "" {
		return scheduling.WeekStart(scheduling.DateOf(h.now())), true
	}
	return dateQuery(c, "week_start")
}

func dateQuery(c *gin.Context, name string) (scheduling.Date, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" is required"))
		return scheduling.Date{}, false
	}
	date, err := scheduling.ParseDate(raw)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, name+" must be YYYY-MM-DD"))
		return scheduling.Date{}, false
	}
	return date, true
}

func addSlotsMeta(result *models.AddSlotsResult) map[string]interface{} {
	return map[string]interface{}{
		"requested": len(result.Outcomes),
		"inserted":  result.Inserted,
		"skipped":   result.Skipped,
	}
}
