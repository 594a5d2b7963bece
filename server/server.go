// Package server assembles the HTTP server: echo instance, calendar
// backend, scheduling orchestrator and the optional AI agent.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/schedsense/internal/profile"
	"github.com/hrygo/schedsense/plugin/ai"
	"github.com/hrygo/schedsense/plugin/ai/agent"
	"github.com/hrygo/schedsense/server/calendar"
	apiv1 "github.com/hrygo/schedsense/server/router/api/v1"
	"github.com/hrygo/schedsense/server/service/scheduling"
	"github.com/hrygo/schedsense/server/timezone"
	"github.com/hrygo/schedsense/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	backend    scheduling.CalendarBackend
}

// NewServer wires all components from the validated profile.
func NewServer(ctx context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	logger := slog.Default()

	loc, err := timezone.ParseTimezone(profile.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse timezone")
	}

	backend, err := newCalendarBackend(ctx, profile, logger)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create calendar backend")
	}

	resolver := scheduling.NewResolver(loc)
	orchestrator := scheduling.NewOrchestrator(backend, resolver, profile.UseMockCalendar(), logger)

	var schedAgent *agent.SchedulerAgent
	if profile.IsAIEnabled() {
		llmService, err := ai.NewLLMService(&ai.LLMConfig{
			BaseURL: profile.AIBaseURL,
			APIKey:  profile.AIAPIKey,
			Model:   profile.AIModel,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create LLM service")
		}

		policy := scheduling.DefaultSearchPolicy()
		policy.BusinessOpen = scheduling.TimeOfDay{Hour: profile.BusinessOpenHour}
		policy.BusinessClose = scheduling.TimeOfDay{Hour: profile.BusinessCloseHour}

		schedAgent, err = agent.NewSchedulerAgent(llmService, agent.SchedulerAgentOptions{
			Orchestrator: orchestrator,
			Backend:      backend,
			Timezone:     profile.Timezone,
			DefaultTOD:   scheduling.TimeOfDay{Hour: profile.DefaultHour, Minute: profile.DefaultMinute},
			Policy:       policy,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create scheduler agent")
		}
	} else {
		logger.Info("AI assistant disabled, chat endpoint unavailable")
	}

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(echomw.Recover())

	apiService := apiv1.NewAPIV1Service(profile, store, orchestrator, backend, schedAgent)
	apiService.Register(echoServer)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
		backend:    backend,
	}, nil
}

func newCalendarBackend(ctx context.Context, profile *profile.Profile, logger *slog.Logger) (scheduling.CalendarBackend, error) {
	switch profile.CalendarProvider {
	case "google":
		return calendar.NewGoogleBackend(ctx, calendar.GoogleConfig{
			ClientID:     profile.GoogleClientID,
			ClientSecret: profile.GoogleClientSecret,
			TokenFile:    profile.GoogleTokenFile,
			CalendarID:   profile.GoogleCalendarID,
		}, logger)
	case "mock":
		loc := timezone.MustParseTimezone(profile.Timezone)
		logger.Warn("using MOCK calendar backend, bookings are not real")
		return calendar.NewSeededMockBackend(time.Now().In(loc), logger), nil
	default:
		return nil, errors.Errorf("unknown calendar provider %q", profile.CalendarProvider)
	}
}

// Start begins serving. Blocks until the listener fails or is shut down.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started",
		slog.String("address", address),
		slog.String("mode", s.Profile.Mode),
		slog.String("calendar", s.Profile.CalendarProvider))
	return s.echoServer.Start(address)
}

// Shutdown drains in-flight requests and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.String("error", err.Error()))
	}
	slog.Info("server shutdown complete")
}
