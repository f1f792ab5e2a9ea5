package screens

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/coordinator"
	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// BeaconsRefreshMsg carries a fresh snapshot list for the beacons screen,
// produced by polling the coordinator on a tea.Tick.
type BeaconsRefreshMsg struct {
	Snapshots []coordinator.BeaconSnapshot
}

// BeaconsModel is the model for the beacon list screen.
type BeaconsModel struct {
	snapshots []coordinator.BeaconSnapshot
	table     table.Model
	help      help.Model
	keys      common.ListKeyMap

	width  int
	height int
}

// NewBeaconsModel creates a new beacons list model.
func NewBeaconsModel() BeaconsModel {
	columns := []table.Column{
		{Title: "Name", Width: 22},
		{Title: "Counter", Width: 12},
		{Title: "Last Seen", Width: 20},
		{Title: "Battery", Width: 10},
		{Title: "Temp °C", Width: 10},
		{Title: "New", Width: 5},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(common.ColorBorder).
		BorderBottom(true).
		Bold(true).
		Foreground(common.ColorSecondary)
	s.Selected = s.Selected.
		Foreground(common.ColorForeground).
		Background(common.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	return BeaconsModel{
		table: t,
		help:  help.New(),
		keys:  common.DefaultListKeyMap(),
	}
}

// Init initializes the beacons model.
func (m BeaconsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the beacons screen.
func (m BeaconsModel) Update(msg tea.Msg) (BeaconsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case BeaconsRefreshMsg:
		m.snapshots = msg.Snapshots
		m.rebuildRows()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return NavigateMsg{Screen: "home"} }

		case key.Matches(msg, m.keys.Select):
			if fp, ok := m.selectedFingerprint(); ok {
				return m, func() tea.Msg { return NavigateMsg{Screen: "beacon_detail", Data: fp} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if fp, ok := m.selectedFingerprint(); ok {
				return m, func() tea.Msg { return BeaconRemoveRequestedMsg{Fingerprint: fp} }
			}
			return m, nil

		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// BeaconRemoveRequestedMsg is sent when the user asks to remove the
// currently selected beacon.
type BeaconRemoveRequestedMsg struct {
	Fingerprint string
}

func (m *BeaconsModel) rebuildRows() {
	sorted := make([]coordinator.BeaconSnapshot, len(m.snapshots))
	copy(sorted, m.snapshots)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	rows := make([]table.Row, 0, len(sorted))
	for _, s := range sorted {
		lastSeen := "never"
		if s.HasLastSeen {
			lastSeen = s.LastSeen.Format(time.RFC3339)
		}
		newData := ""
		if s.NewDataAvailable {
			newData = "●"
		}
		rows = append(rows, table.Row{
			s.Name,
			fmt.Sprintf("0x%08X", s.Counter),
			lastSeen,
			fmt.Sprintf("%d mV", s.BatteryMV),
			fmt.Sprintf("%.1f", s.Temperature),
			newData,
		})
	}
	m.table.SetRows(rows)
	m.snapshots = sorted
}

func (m BeaconsModel) selectedFingerprint() (string, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.snapshots) {
		return "", false
	}
	return m.snapshots[idx].Fingerprint, true
}

// View renders the beacons screen.
func (m BeaconsModel) View() string {
	var content strings.Builder

	content.WriteString(common.TitleStyle.Render("Beacons"))
	content.WriteString("\n\n")

	if len(m.snapshots) == 0 {
		content.WriteString(common.MutedTextStyle.Render("No beacons registered yet. Add one from the home screen."))
	} else {
		content.WriteString(m.table.View())
	}

	content.WriteString("\n\n")
	content.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}
