package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubblenetwork/eidtracker/internal/ble"
	"github.com/hubblenetwork/eidtracker/internal/clock"
	"github.com/hubblenetwork/eidtracker/internal/coordinator"
	"github.com/hubblenetwork/eidtracker/internal/config"
	"github.com/hubblenetwork/eidtracker/internal/logging"
	"github.com/hubblenetwork/eidtracker/internal/store"
	"github.com/hubblenetwork/eidtracker/internal/tui/screens"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	scanner := ble.NewMockScanner()
	coord := coordinator.New(scanner, store.NewMemoryStore(), clock.NewFixed(time.Unix(0, 0)), logging.Discard())
	return NewApp(coord, scanner)
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)
	assert.NotNil(t, app)
	assert.Equal(t, ScreenHome, app.screen)
}

func TestAppWindowSizeMsg(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	updated := model.(*App)

	assert.Equal(t, 100, updated.width)
	assert.Equal(t, 50, updated.height)
	assert.True(t, updated.ready)
}

func TestAppViewNotReady(t *testing.T) {
	app := newTestApp(t)
	app.ready = false
	assert.Equal(t, "Loading...", app.View())
}

func TestAppHandleNavigation(t *testing.T) {
	app := newTestApp(t)
	app.screen = ScreenHome
	app.ready = true
	app.width, app.height = 80, 24

	tests := []struct {
		screen   string
		expected Screen
	}{
		{"add_beacon", ScreenAddBeacon},
		{"beacons", ScreenBeacons},
		{"live_scan", ScreenLiveScan},
		{"settings", ScreenSettings},
		{"home", ScreenHome},
	}

	for _, tt := range tests {
		model, _ := app.handleNavigation(tt.screen, nil)
		updated := model.(*App)
		assert.Equal(t, tt.expected, updated.screen, "navigation to %s", tt.screen)
	}
}

func TestAppHandleNavigationBack(t *testing.T) {
	app := newTestApp(t)
	app.screen = ScreenHome
	app.handleNavigation("add_beacon", nil)

	model, _ := app.handleNavigation("back", nil)
	updated := model.(*App)
	assert.Equal(t, ScreenHome, updated.screen)
}

func TestAppAddBeaconRegistersWithCoordinator(t *testing.T) {
	app := newTestApp(t)

	cfg, err := config.Validate(config.Input{
		Name:           "Front Door Tag",
		Brand:          config.BrandGeneric,
		IdentityKeyHex: "12345678901234567890123456789012",
		Exponent:       15,
		WindowSize:     3,
	})
	require.NoError(t, err)

	model, _ := app.Update(screens.BeaconAddRequestedMsg{Config: cfg})
	updated := model.(*App)

	assert.Len(t, updated.coordinator.Snapshots(), 1)
}

func TestAppTickIntervalChangedUpdatesCoordinator(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(screens.TickIntervalChangedMsg{Interval: 5 * time.Minute})
	updated := model.(*App)
	assert.NotNil(t, updated)
}

func TestAppStoreClearRequestedReturnsClearedMsg(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(screens.StoreClearRequestedMsg{})
	require.NotNil(t, cmd)

	msg := cmd()
	cleared, ok := msg.(screens.StoreClearedMsg)
	require.True(t, ok)
	assert.NoError(t, cleared.Error)
}
