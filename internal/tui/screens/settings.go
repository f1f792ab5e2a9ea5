package screens

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// SettingsState represents the current state of the settings screen.
type SettingsState int

const (
	SettingsStateReady SettingsState = iota
	SettingsStateConfirmClear
	SettingsStateSuccess
	SettingsStateError
)

var tickIntervalChoices = []time.Duration{
	15 * time.Second,
	30 * time.Second,
	60 * time.Second,
	5 * time.Minute,
}

// Settings messages.
type (
	// TickIntervalChangedMsg asks the coordinator to adopt a new poll interval.
	TickIntervalChangedMsg struct {
		Interval time.Duration
	}

	// StoreClearRequestedMsg asks the app to wipe all persisted beacon state.
	StoreClearRequestedMsg struct{}

	// StoreClearedMsg reports the result of a clear request.
	StoreClearedMsg struct {
		Error error
	}
)

type settingsKeyMap struct {
	CycleInterval key.Binding
	Clear         key.Binding
	Confirm       key.Binding
	Cancel        key.Binding
	Back          key.Binding
	Quit          key.Binding
}

func defaultSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		CycleInterval: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "cycle poll interval")),
		Clear:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear stored state")),
		Confirm:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
		Cancel:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "cancel")),
		Back:          key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// SettingsModel is the model for the settings screen.
type SettingsModel struct {
	help help.Model
	keys settingsKeyMap

	state         SettingsState
	err           error
	intervalIndex int

	width  int
	height int
}

// NewSettingsModel creates a new settings screen model, starting at the
// given poll interval (falling back to 60s when it is not one of the
// known choices).
func NewSettingsModel(currentInterval time.Duration) SettingsModel {
	idx := 2 // default to 60s
	for i, d := range tickIntervalChoices {
		if d == currentInterval {
			idx = i
			break
		}
	}
	return SettingsModel{
		help:          help.New(),
		keys:          defaultSettingsKeyMap(),
		state:         SettingsStateReady,
		intervalIndex: idx,
	}
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings screen.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case SettingsStateConfirmClear:
			switch {
			case key.Matches(msg, m.keys.Confirm):
				m.state = SettingsStateReady
				return m, func() tea.Msg { return StoreClearRequestedMsg{} }
			case key.Matches(msg, m.keys.Cancel):
				m.state = SettingsStateReady
				return m, nil
			}

		case SettingsStateSuccess, SettingsStateError:
			m.state = SettingsStateReady
			return m, nil

		default:
			switch {
			case key.Matches(msg, m.keys.Back):
				return m, func() tea.Msg { return NavigateMsg{Screen: "home"} }

			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit

			case key.Matches(msg, m.keys.CycleInterval):
				m.intervalIndex = (m.intervalIndex + 1) % len(tickIntervalChoices)
				interval := tickIntervalChoices[m.intervalIndex]
				return m, func() tea.Msg { return TickIntervalChangedMsg{Interval: interval} }

			case key.Matches(msg, m.keys.Clear):
				m.state = SettingsStateConfirmClear
				return m, nil
			}
		}

	case StoreClearedMsg:
		if msg.Error != nil {
			m.state = SettingsStateError
			m.err = msg.Error
		} else {
			m.state = SettingsStateSuccess
		}
		return m, nil
	}

	return m, nil
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	var content strings.Builder

	content.WriteString(common.TitleStyle.Render("Settings"))
	content.WriteString("\n")
	content.WriteString(common.SubtitleStyle.Render("Adjust polling and persisted beacon state"))
	content.WriteString("\n\n")

	boxStyle := common.BoxStyle.Copy().Width(60)

	intervalInfo := fmt.Sprintf("Poll interval: %s", tickIntervalChoices[m.intervalIndex])
	content.WriteString(boxStyle.Render(intervalInfo))
	content.WriteString("\n\n")

	switch m.state {
	case SettingsStateConfirmClear:
		confirmBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(common.ColorWarning).
			Padding(1, 2).
			Width(60)

		confirmContent := common.WarningTextStyle.Render("Clear all persisted beacon state?") + "\n\n" +
			common.MutedTextStyle.Render("Counters and last-seen timestamps will be forgotten.") + "\n" +
			common.MutedTextStyle.Render("Beacons will resync from their next advertisement.") + "\n\n" +
			common.FormatHelp("y", "confirm") + "  " + common.FormatHelp("n", "cancel")

		content.WriteString(confirmBox.Render(confirmContent))

	case SettingsStateSuccess:
		content.WriteString(common.SuccessTextStyle.Render("Stored state cleared."))

	case SettingsStateError:
		content.WriteString(common.ErrorTextStyle.Render("Error: " + m.err.Error()))

	default:
		content.WriteString(common.MutedTextStyle.Render("Press 'i' to cycle the poll interval, 'c' to clear stored state."))
	}

	content.WriteString("\n\n")
	content.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.CycleInterval, m.keys.Clear, m.keys.Back, m.keys.Quit}))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}
