package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_Validate_Defaults(t *testing.T) {
	p := &Profile{Mode: "nonsense", Data: t.TempDir()}
	require.NoError(t, p.Validate())

	assert.Equal(t, "demo", p.Mode)
	assert.Equal(t, "sqlite", p.Driver)
	assert.NotEmpty(t, p.DSN)
	assert.Equal(t, "UTC", p.Timezone)
	assert.Equal(t, 9, p.DefaultHour)
	assert.Equal(t, 9, p.BusinessOpenHour)
	assert.Equal(t, 17, p.BusinessCloseHour)
	assert.Equal(t, "mock", p.CalendarProvider)
	assert.True(t, p.UseMockCalendar())
}

func TestProfile_Validate_RejectsBadValues(t *testing.T) {
	p := &Profile{Mode: "dev", Data: t.TempDir(), Timezone: "Not/AZone"}
	assert.Error(t, p.Validate())

	p = &Profile{Mode: "dev", Data: t.TempDir(), CalendarProvider: "outlook"}
	assert.Error(t, p.Validate())

	p = &Profile{Mode: "dev", Data: t.TempDir(), BusinessOpenHour: 18, BusinessCloseHour: 9}
	assert.Error(t, p.Validate())
}

func TestProfile_IsAIEnabled(t *testing.T) {
	p := &Profile{AIEnabled: true}
	assert.False(t, p.IsAIEnabled(), "AI without an API key stays disabled")

	p.AIAPIKey = "sk-test"
	assert.True(t, p.IsAIEnabled())

	p.AIEnabled = false
	assert.False(t, p.IsAIEnabled())
}

func TestProfile_FromEnv(t *testing.T) {
	t.Setenv("SCHEDSENSE_TIMEZONE", "Europe/Berlin")
	t.Setenv("SCHEDSENSE_CALENDAR_PROVIDER", "google")
	t.Setenv("SCHEDSENSE_AI_ENABLED", "true")
	t.Setenv("SCHEDSENSE_AI_API_KEY", "sk-test")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "Europe/Berlin", p.Timezone)
	assert.Equal(t, "google", p.CalendarProvider)
	assert.True(t, p.AIEnabled)
	assert.Equal(t, "primary", p.GoogleCalendarID)
	assert.Equal(t, "token.json", p.GoogleTokenFile)
}
