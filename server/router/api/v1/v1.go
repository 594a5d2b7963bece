// Package v1 exposes the scheduling assistant over a JSON HTTP API.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/hrygo/schedsense/internal/profile"
	"github.com/hrygo/schedsense/plugin/ai/agent"
	mw "github.com/hrygo/schedsense/server/middleware"
	"github.com/hrygo/schedsense/server/service/scheduling"
	"github.com/hrygo/schedsense/store"
)

type APIV1Service struct {
	Profile      *profile.Profile
	Store        *store.Store
	Orchestrator *scheduling.Orchestrator
	Backend      scheduling.CalendarBackend
	// Agent is nil when AI is disabled; the chat endpoint then returns 503.
	Agent *agent.SchedulerAgent

	// scheduleSemaphore bounds concurrent scheduling attempts so a burst
	// of chat traffic cannot hammer the calendar API.
	scheduleSemaphore *semaphore.Weighted
	rateLimiter       *mw.RateLimiter
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, orchestrator *scheduling.Orchestrator, backend scheduling.CalendarBackend, schedAgent *agent.SchedulerAgent) *APIV1Service {
	return &APIV1Service{
		Profile:           profile,
		Store:             store,
		Orchestrator:      orchestrator,
		Backend:           backend,
		Agent:             schedAgent,
		scheduleSemaphore: semaphore.NewWeighted(4),
		rateLimiter:       mw.NewRateLimiter(10, 20),
	}
}

// Register registers all v1 routes on the Echo instance.
func (s *APIV1Service) Register(echoServer *echo.Echo) {
	echoServer.GET("/healthz", s.GetHealth)

	apiV1 := echoServer.Group("/api/v1", s.rateLimitMiddleware)
	apiV1.POST("/schedule", s.ScheduleMeeting)
	apiV1.GET("/events", s.ListEvents)
	apiV1.POST("/chat", s.Chat)
	apiV1.GET("/conversations", s.ListConversations)
	apiV1.GET("/conversations/:uid/messages", s.ListMessages)
	apiV1.DELETE("/conversations/:uid", s.DeleteConversation)
}

// GetHealth reports liveness.
// GET /healthz
func (s *APIV1Service) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":     "ok",
		"version":    s.Profile.Version,
		"calendar":   s.Profile.CalendarProvider,
		"using_mock": s.Profile.UseMockCalendar(),
		"ai_enabled": s.Agent != nil,
	})
}

// rateLimitMiddleware applies per-client-IP rate limiting.
func (s *APIV1Service) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.rateLimiter.Allow(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
		}
		return next(c)
	}
}
