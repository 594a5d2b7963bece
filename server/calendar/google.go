// Package calendar provides the calendar backends consumed by the
// scheduling orchestrator: a real Google Calendar client and an
// in-memory mock for development and tests.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	serrors "github.com/hrygo/schedsense/internal/errors"
	"github.com/hrygo/schedsense/server/service/scheduling"
)

// GoogleConfig holds the credentials and target calendar for the real
// backend. ClientID/ClientSecret come from the environment; TokenFile
// points at a previously obtained OAuth2 token.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	TokenFile    string
	CalendarID   string
}

// GoogleBackend implements scheduling.CalendarBackend against the
// Google Calendar v3 API. No retries: every failure surfaces once with
// a typed code and the caller decides what to do.
type GoogleBackend struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewGoogleBackend builds an authenticated client from a stored token.
// The token must already exist; obtaining one is an out-of-band step.
func NewGoogleBackend(ctx context.Context, cfg GoogleConfig, logger *slog.Logger) (*GoogleBackend, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, serrors.CalendarAuth("google client credentials not configured", nil)
	}
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if logger == nil {
		logger = slog.Default()
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{calendar.CalendarScope},
		Endpoint:     google.Endpoint,
	}

	token, err := tokenFromFile(cfg.TokenFile)
	if err != nil {
		return nil, serrors.CalendarAuth(
			fmt.Sprintf("could not load token file %s, run the auth command first", cfg.TokenFile), err)
	}

	client := oauthCfg.Client(ctx, token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, serrors.CalendarUnavailable("failed to create calendar service", err)
	}

	return &GoogleBackend{
		service:    service,
		calendarID: cfg.CalendarID,
		logger:     logger,
	}, nil
}

// FetchBusy lists the timed events overlapping the window, ordered by
// start time. All-day events without a concrete start time are skipped.
func (g *GoogleBackend) FetchBusy(ctx context.Context, window scheduling.Interval) ([]scheduling.BusyEvent, error) {
	g.logger.Debug("fetching events",
		"calendar_id", g.calendarID,
		"window", window.String())

	events, err := g.service.Events.List(g.calendarID).
		Context(ctx).
		ShowDeleted(false).
		SingleEvents(true).
		TimeMin(window.Start.Format(time.RFC3339)).
		TimeMax(window.End.Format(time.RFC3339)).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, mapGoogleError("failed to list events", err)
	}

	var busy []scheduling.BusyEvent
	for _, item := range events.Items {
		if item.Start == nil || item.Start.DateTime == "" {
			continue
		}
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(time.RFC3339, item.End.DateTime)
		if err != nil {
			continue
		}
		busy = append(busy, scheduling.BusyEvent{
			ID:       item.Id,
			Summary:  item.Summary,
			Interval: scheduling.Interval{Start: start, End: end},
		})
	}

	g.logger.Info("fetched events",
		"calendar_id", g.calendarID,
		"count", len(busy))
	return busy, nil
}

// CreateEvent inserts the event and returns Google's event ID.
func (g *GoogleBackend) CreateEvent(ctx context.Context, interval scheduling.Interval, summary string) (string, error) {
	event := &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: interval.Start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: interval.End.Format(time.RFC3339)},
	}

	created, err := g.service.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", mapGoogleError("failed to insert event", err)
	}

	g.logger.Info("event created",
		"calendar_id", g.calendarID,
		"event_id", created.Id,
		"interval", interval.String())
	return created.Id, nil
}

// mapGoogleError classifies an API failure into the calendar error
// taxonomy: 401/403 are auth, transport errors are network, everything
// else is unavailable.
func mapGoogleError(msg string, err error) error {
	if gerr, ok := err.(*googleapi.Error); ok {
		if gerr.Code == 401 || gerr.Code == 403 {
			return serrors.CalendarAuth(msg, err)
		}
		return serrors.CalendarUnavailable(msg, err)
	}
	if _, ok := err.(net.Error); ok {
		return serrors.CalendarNetwork(msg, err)
	}
	return serrors.CalendarUnavailable(msg, err)
}

// tokenFromFile retrieves a token from a local file.
func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

// SaveToken saves a token to a file path, for the one-time auth flow.
func SaveToken(path string, token *oauth2.Token) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create token file: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}
