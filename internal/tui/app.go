package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hubblenetwork/eidtracker/internal/coordinator"
	"github.com/hubblenetwork/eidtracker/internal/tui/screens"
)

// Screen represents the current screen in the TUI.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenAddBeacon
	ScreenBeacons
	ScreenBeaconDetail
	ScreenLiveScan
	ScreenSettings
)

// refreshInterval controls how often the beacons/detail screens are
// repainted with a fresh coordinator snapshot.
const refreshInterval = 2 * time.Second

// App is the root Bubble Tea model. It owns the coordinator and routes
// messages to whichever screen is active, the way the source CLI's App
// model dispatches between its login/home/devices/packets screens.
type App struct {
	screen     Screen
	prevScreen Screen
	width      int
	height     int
	ready      bool

	coordinator *coordinator.Coordinator
	scanner     screens.Scanner

	homeModel       screens.HomeModel
	addBeaconModel  screens.AddBeaconModel
	beaconsModel    screens.BeaconsModel
	beaconDetailMdl screens.BeaconDetailModel
	liveScanModel   screens.LiveScanModel
	settingsModel   screens.SettingsModel
}

// NewApp creates a new application instance wired to coord for persistence
// and tracking, and scanner for the live-scan screen.
func NewApp(coord *coordinator.Coordinator, scanner screens.Scanner) *App {
	return &App{
		screen:        ScreenHome,
		coordinator:   coord,
		scanner:       scanner,
		homeModel:     screens.NewHomeModel(len(coord.Snapshots())),
		beaconsModel:  screens.NewBeaconsModel(),
		settingsModel: screens.NewSettingsModel(coordinator.DefaultTickInterval),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.homeModel.Init(), a.refreshTick())
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, a.forwardToCurrentScreen(msg)

	case screens.NavigateMsg:
		return a.handleNavigation(msg.Screen, msg.Data)

	case refreshTickMsg:
		snapshots := a.coordinator.Snapshots()
		a.homeModel.SetBeaconCount(len(snapshots))
		var cmds []tea.Cmd
		cmds = append(cmds, a.refreshTick())
		cmd := a.forwardToCurrentScreen(screens.BeaconsRefreshMsg{Snapshots: snapshots})
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case screens.BeaconAddRequestedMsg:
		if _, err := a.coordinator.AddBeacon(msg.Config); err != nil {
			a.addBeaconModel, _ = a.addBeaconModel.Update(screens.BeaconAddErrorMsg{Err: err})
			return a, nil
		}
		a.addBeaconModel, _ = a.addBeaconModel.Update(screens.BeaconAddedMsg{Name: msg.Config.Name})
		return a, nil

	case screens.BeaconRemoveRequestedMsg:
		_ = a.coordinator.RemoveBeacon(msg.Fingerprint)
		return a, func() tea.Msg {
			return screens.BeaconsRefreshMsg{Snapshots: a.coordinator.Snapshots()}
		}

	case screens.TickIntervalChangedMsg:
		a.coordinator.SetTickInterval(msg.Interval)
		return a, nil

	case screens.StoreClearRequestedMsg:
		err := a.coordinator.ClearAllState()
		return a, func() tea.Msg { return screens.StoreClearedMsg{Error: err} }
	}

	cmd := a.forwardToCurrentScreen(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Loading..."
	}

	switch a.screen {
	case ScreenHome:
		return a.homeModel.View()
	case ScreenAddBeacon:
		return a.addBeaconModel.View()
	case ScreenBeacons:
		return a.beaconsModel.View()
	case ScreenBeaconDetail:
		return a.beaconDetailMdl.View()
	case ScreenLiveScan:
		return a.liveScanModel.View()
	case ScreenSettings:
		return a.settingsModel.View()
	default:
		return "Unknown screen"
	}
}

func (a *App) forwardToCurrentScreen(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch a.screen {
	case ScreenHome:
		a.homeModel, cmd = a.homeModel.Update(msg)
	case ScreenAddBeacon:
		a.addBeaconModel, cmd = a.addBeaconModel.Update(msg)
	case ScreenBeacons:
		a.beaconsModel, cmd = a.beaconsModel.Update(msg)
	case ScreenBeaconDetail:
		a.beaconDetailMdl, cmd = a.beaconDetailMdl.Update(msg)
	case ScreenLiveScan:
		a.liveScanModel, cmd = a.liveScanModel.Update(msg)
	case ScreenSettings:
		a.settingsModel, cmd = a.settingsModel.Update(msg)
	}

	return cmd
}

func (a *App) handleNavigation(screen string, data interface{}) (tea.Model, tea.Cmd) {
	if screen == "back" {
		a.screen = a.prevScreen
		return a, a.forwardToCurrentScreen(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}

	a.prevScreen = a.screen

	var initCmd tea.Cmd

	switch screen {
	case "home":
		a.screen = ScreenHome

	case "add_beacon":
		a.screen = ScreenAddBeacon
		a.addBeaconModel = screens.NewAddBeaconModel()
		initCmd = a.addBeaconModel.Init()

	case "beacons":
		a.screen = ScreenBeacons
		initCmd = func() tea.Msg {
			return screens.BeaconsRefreshMsg{Snapshots: a.coordinator.Snapshots()}
		}

	case "beacon_detail":
		fp, _ := data.(string)
		a.screen = ScreenBeaconDetail
		a.beaconDetailMdl = screens.NewBeaconDetailModel(fp)
		initCmd = func() tea.Msg {
			return screens.BeaconsRefreshMsg{Snapshots: a.coordinator.Snapshots()}
		}

	case "live_scan":
		a.screen = ScreenLiveScan
		a.liveScanModel = screens.NewLiveScanModel(a.scanner)
		initCmd = a.liveScanModel.Init()

	case "settings":
		a.screen = ScreenSettings
		initCmd = a.settingsModel.Init()
	}

	sizeCmd := a.forwardToCurrentScreen(tea.WindowSizeMsg{Width: a.width, Height: a.height})

	if initCmd != nil {
		return a, tea.Batch(initCmd, sizeCmd)
	}
	return a, sizeCmd
}

type refreshTickMsg struct{}

func (a *App) refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}
