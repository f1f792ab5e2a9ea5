package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/coordinator"
	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// BeaconDetailKeyMap defines key bindings for the beacon detail screen.
type BeaconDetailKeyMap struct {
	Back    key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultBeaconDetailKeyMap() BeaconDetailKeyMap {
	return BeaconDetailKeyMap{
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k BeaconDetailKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Back, k.Quit}
}

// BeaconDetailModel renders a single beacon's live state, the way the
// source CLI's packets screen renders a detail pane for one device.
type BeaconDetailModel struct {
	fingerprint string
	snapshot    coordinator.BeaconSnapshot
	found       bool
	keys        BeaconDetailKeyMap
	help        help.Model

	width  int
	height int
}

// NewBeaconDetailModel creates a detail model bound to fingerprint. The
// caller refreshes its snapshot via Update(BeaconsRefreshMsg{...}).
func NewBeaconDetailModel(fingerprint string) BeaconDetailModel {
	return BeaconDetailModel{
		fingerprint: fingerprint,
		keys:        defaultBeaconDetailKeyMap(),
		help:        help.New(),
	}
}

// Init initializes the detail model.
func (m BeaconDetailModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail screen.
func (m BeaconDetailModel) Update(msg tea.Msg) (BeaconDetailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case BeaconsRefreshMsg:
		for _, s := range msg.Snapshots {
			if s.Fingerprint == m.fingerprint {
				m.snapshot = s
				m.found = true
				return m, nil
			}
		}
		m.found = false
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return NavigateMsg{Screen: "beacons"} }
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the detail screen.
func (m BeaconDetailModel) View() string {
	var content strings.Builder

	content.WriteString(common.TitleStyle.Render("Beacon Detail"))
	content.WriteString("\n")

	if !m.found {
		content.WriteString(common.ErrorTextStyle.Render("Beacon no longer registered."))
		content.WriteString("\n\n")
		content.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
	}

	s := m.snapshot
	content.WriteString(common.SubtitleStyle.Render(s.Name))
	content.WriteString("\n\n")

	lastSeen := "never"
	if s.HasLastSeen {
		lastSeen = s.LastSeen.Format(time.RFC3339)
	}
	address := "unknown"
	if s.HasAddress {
		address = s.Address
	}

	rows := []struct{ label, value string }{
		{"Counter", fmt.Sprintf("0x%08X", s.Counter)},
		{"Last seen", lastSeen},
		{"Address", address},
		{"Resync pending", fmt.Sprintf("%t", s.HasResyncWindow)},
		{"Temperature", fmt.Sprintf("%.2f °C", s.Temperature)},
		{"Battery", fmt.Sprintf("%d mV", s.BatteryMV)},
		{"Advertising count", fmt.Sprintf("%d", s.AdvertisingCount)},
		{"Uptime", fmt.Sprintf("%d s", s.UptimeS)},
		{"Signal strength", fmt.Sprintf("%d dBm", s.SignalStrengthDBM)},
	}

	labelStyle := lipgloss.NewStyle().Foreground(common.ColorMuted).Width(20)
	for _, r := range rows {
		content.WriteString(labelStyle.Render(r.label))
		content.WriteString(common.TextStyle.Render(r.value))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return common.BoxStyle.Render(content.String())
}
