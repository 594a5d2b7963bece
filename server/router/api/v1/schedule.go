package v1

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	serrors "github.com/hrygo/schedsense/internal/errors"
	"github.com/hrygo/schedsense/internal/observability"
	"github.com/hrygo/schedsense/server/service/scheduling"
	"github.com/hrygo/schedsense/server/timezone"
)

// ScheduleMeetingRequest is the payload for a direct scheduling attempt,
// bypassing the conversational agent.
type ScheduleMeetingRequest struct {
	Summary  string `json:"summary"`
	When     string `json:"when"`
	Duration string `json:"duration,omitempty"`
	// Now overrides the reference instant (RFC3339). Empty means wall clock.
	Now string `json:"now,omitempty"`
}

// ScheduleMeetingResponse wraps the scheduling outcome.
type ScheduleMeetingResponse struct {
	Outcome scheduling.SchedulingOutcome `json:"outcome"`
	// Display is a human-readable rendering of the decisive interval.
	Display string `json:"display,omitempty"`
}

// ScheduleMeeting runs one scheduling attempt.
// POST /api/v1/schedule
func (s *APIV1Service) ScheduleMeeting(c echo.Context) error {
	ctx := c.Request().Context()
	rc := observability.NewRequestContext(slog.Default())

	var req ScheduleMeetingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Summary == "" || req.When == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "summary and when are required"})
	}

	if err := s.scheduleSemaphore.Acquire(ctx, 1); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "server busy"})
	}
	defer s.scheduleSemaphore.Release(1)

	loc := timezone.MustParseTimezone(s.Profile.Timezone)
	now := time.Now().In(loc)
	if req.Now != "" {
		parsed, err := time.Parse(time.RFC3339, req.Now)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "now must be RFC3339"})
		}
		now = parsed.In(loc)
	}

	tc := scheduling.TemporalContext{
		Now:              now,
		Location:         loc,
		DefaultTimeOfDay: scheduling.TimeOfDay{Hour: s.Profile.DefaultHour, Minute: s.Profile.DefaultMinute},
	}
	policy := s.searchPolicy()

	outcome := s.Orchestrator.Schedule(ctx, req.Summary, req.When, req.Duration, tc, policy)
	rc.Info("scheduling attempt finished",
		slog.String(observability.LogFieldOutcome, string(outcome.Kind)),
		slog.String("summary", req.Summary),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	resp := ScheduleMeetingResponse{Outcome: outcome}
	if !outcome.Interval.IsZero() {
		resp.Display = timezone.FormatRange(outcome.Interval.Start, outcome.Interval.End, loc)
	}
	return c.JSON(http.StatusOK, resp)
}

// ListEventsResponse lists busy events in a window.
type ListEventsResponse struct {
	Events        []scheduling.BusyEvent `json:"events"`
	UsingMockData bool                   `json:"using_mock_data"`
}

// ListEvents lists calendar events in a window.
// GET /api/v1/events?start=...&end=...
func (s *APIV1Service) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()

	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "start must be RFC3339"})
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "end must be RFC3339"})
	}

	window, err := scheduling.NewInterval(start, end)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	events, err := s.Backend.FetchBusy(ctx, window)
	if err != nil {
		return s.calendarError(c, err)
	}

	return c.JSON(http.StatusOK, ListEventsResponse{
		Events:        events,
		UsingMockData: s.Profile.UseMockCalendar(),
	})
}

// calendarError maps calendar backend failures to HTTP statuses.
func (s *APIV1Service) calendarError(c echo.Context, err error) error {
	code := serrors.GetCodeFromError(err, serrors.ErrCodeCalendarUnavailable)
	status := http.StatusBadGateway
	if code == serrors.ErrCodeCalendarAuth {
		status = http.StatusUnauthorized
	}
	return c.JSON(status, map[string]string{
		"error": err.Error(),
		"code":  string(code),
	})
}

func (s *APIV1Service) searchPolicy() scheduling.SearchPolicy {
	policy := scheduling.DefaultSearchPolicy()
	policy.BusinessOpen = scheduling.TimeOfDay{Hour: s.Profile.BusinessOpenHour}
	policy.BusinessClose = scheduling.TimeOfDay{Hour: s.Profile.BusinessCloseHour}
	return policy
}
