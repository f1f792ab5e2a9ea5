package screens

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// MenuItem represents a menu option on the home screen.
type MenuItem struct {
	Title       string
	Description string
	Icon        string
	Screen      string
}

// HomeModel is the model for the home/menu screen.
type HomeModel struct {
	items       []MenuItem
	cursor      int
	keys        common.MenuKeyMap
	help        help.Model
	beaconCount int
	showHelp    bool
	width       int
	height      int
}

// NewHomeModel creates a new home screen model.
func NewHomeModel(beaconCount int) HomeModel {
	items := []MenuItem{
		{Title: "Beacons", Description: "View tracked Eddystone-EID beacons", Icon: "📡", Screen: "beacons"},
		{Title: "Add Beacon", Description: "Register a beacon by identity key", Icon: "➕", Screen: "add_beacon"},
		{Title: "Live Scan", Description: "Watch raw BLE advertisements arrive", Icon: "📶", Screen: "live_scan"},
		{Title: "Settings", Description: "Adjust polling interval and clear stored state", Icon: "⚙️", Screen: "settings"},
	}

	return HomeModel{
		items:       items,
		cursor:      0,
		keys:        common.DefaultMenuKeyMap(),
		help:        help.New(),
		beaconCount: beaconCount,
	}
}

// Init initializes the home model.
func (m HomeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the home screen.
func (m HomeModel) Update(msg tea.Msg) (HomeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.cursor--
			if m.cursor < 0 {
				m.cursor = len(m.items) - 1
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.cursor++
			if m.cursor >= len(m.items) {
				m.cursor = 0
			}
			return m, nil

		case key.Matches(msg, m.keys.Select):
			return m, m.navigateToSelected()

		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the home screen.
func (m HomeModel) View() string {
	var content strings.Builder

	content.WriteString(m.renderHeader())
	content.WriteString("\n\n")
	content.WriteString(m.renderMenu())
	content.WriteString("\n\n")

	if m.showHelp {
		content.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		content.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func (m HomeModel) renderHeader() string {
	var b strings.Builder
	b.WriteString(common.TitleStyle.Copy().MarginBottom(0).Render("eidtracker"))
	b.WriteString("\n")
	b.WriteString(common.MutedTextStyle.Render(fmt.Sprintf("%d beacon(s) tracked", m.beaconCount)))
	return b.String()
}

func (m HomeModel) renderMenu() string {
	var b strings.Builder
	menuWidth := 54

	for i, item := range m.items {
		isSelected := i == m.cursor
		var itemContent strings.Builder
		titleLine := fmt.Sprintf("%s  %s", item.Icon, item.Title)

		if isSelected {
			titleStyle := lipgloss.NewStyle().Bold(true).Foreground(common.ColorPrimary)
			descStyle := lipgloss.NewStyle().Foreground(common.ColorMuted).PaddingLeft(4)
			itemContent.WriteString(titleStyle.Render("▸ " + titleLine))
			itemContent.WriteString("\n")
			itemContent.WriteString(descStyle.Render(item.Description))
		} else {
			itemContent.WriteString(lipgloss.NewStyle().Foreground(common.ColorForeground).Render("  " + titleLine))
		}

		itemStr := itemContent.String()
		if isSelected {
			itemStr = common.FocusedBoxStyle.Copy().Width(menuWidth).Render(itemStr)
		} else {
			itemStr = lipgloss.NewStyle().Width(menuWidth).Padding(0, 2).Render(itemStr)
		}

		b.WriteString(itemStr)
		if i < len(m.items)-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m HomeModel) navigateToSelected() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	screen := m.items[m.cursor].Screen
	return func() tea.Msg {
		return NavigateMsg{Screen: screen}
	}
}

// NavigateMsg is sent when navigating to a new screen.
type NavigateMsg struct {
	Screen string
	Data   interface{}
}

// SetBeaconCount updates the count shown in the header.
func (m *HomeModel) SetBeaconCount(n int) {
	m.beaconCount = n
}
