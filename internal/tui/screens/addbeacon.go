package screens

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/config"
	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// AddBeaconState represents the current state of the add-beacon form.
type AddBeaconState int

const (
	AddBeaconStateInput AddBeaconState = iota
	AddBeaconStateError
	AddBeaconStateSuccess
)

var availableBrands = []config.Brand{config.BrandKontaktIO, config.BrandBlueCats, config.BrandGeneric}

// Add-beacon messages.
type (
	// BeaconAddRequestedMsg is sent when the form submits a valid config.
	BeaconAddRequestedMsg struct {
		Config config.BeaconConfig
	}

	// BeaconAddErrorMsg is sent when the coordinator rejects the config.
	BeaconAddErrorMsg struct {
		Err error
	}

	// BeaconAddedMsg is sent once the coordinator has registered the beacon.
	BeaconAddedMsg struct {
		Name string
	}
)

// AddBeaconModel is the model for the add-beacon form screen.
type AddBeaconModel struct {
	nameInput textinput.Model
	keyInput  textinput.Model
	kInput    textinput.Model
	wInput    textinput.Model
	help      help.Model
	keys      common.FormKeyMap

	brandIndex int
	focusIndex int
	state      AddBeaconState
	err        error

	width  int
	height int
}

// NewAddBeaconModel creates a new add-beacon form model.
func NewAddBeaconModel() AddBeaconModel {
	name := textinput.New()
	name.Placeholder = "Front Door Tag"
	name.CharLimit = 64
	name.Width = 50
	name.Focus()

	keyInput := textinput.New()
	keyInput.Placeholder = "32 hex characters (16 bytes)"
	keyInput.CharLimit = 32
	keyInput.Width = 50

	kInput := textinput.New()
	kInput.Placeholder = "15"
	kInput.CharLimit = 2
	kInput.Width = 6

	wInput := textinput.New()
	wInput.Placeholder = "3"
	wInput.CharLimit = 3
	wInput.Width = 6

	return AddBeaconModel{
		nameInput: name,
		keyInput:  keyInput,
		kInput:    kInput,
		wInput:    wInput,
		help:      help.New(),
		keys:      common.DefaultFormKeyMap(),
		state:     AddBeaconStateInput,
	}
}

// Init initializes the add-beacon model.
func (m AddBeaconModel) Init() tea.Cmd {
	return textinput.Blink
}

// fieldIndex* names the focusable elements of the form.
const (
	fieldIndexName = iota
	fieldIndexKey
	fieldIndexBrand
	fieldIndexExponent
	fieldIndexWindow
	fieldIndexSubmit
	fieldCount
)

// Update handles messages for the add-beacon screen.
func (m AddBeaconModel) Update(msg tea.Msg) (AddBeaconModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return NavigateMsg{Screen: "home"} }

		case key.Matches(msg, m.keys.Tab):
			m.focusIndex = (m.focusIndex + 1) % fieldCount
			m.updateFocus()
			return m, nil

		case key.Matches(msg, m.keys.ShiftTab):
			m.focusIndex--
			if m.focusIndex < 0 {
				m.focusIndex = fieldCount - 1
			}
			m.updateFocus()
			return m, nil

		case key.Matches(msg, m.keys.Submit):
			if m.focusIndex == fieldIndexBrand {
				m.brandIndex = (m.brandIndex + 1) % len(availableBrands)
				return m, nil
			}
			if m.focusIndex == fieldIndexSubmit || m.canSubmit() {
				return m.submit()
			}
			m.focusIndex = (m.focusIndex + 1) % fieldCount
			m.updateFocus()
			return m, nil
		}

	case BeaconAddErrorMsg:
		m.state = AddBeaconStateError
		m.err = msg.Err
		return m, nil

	case BeaconAddedMsg:
		m.state = AddBeaconStateSuccess
		return m, nil
	}

	if m.state == AddBeaconStateInput || m.state == AddBeaconStateError {
		var cmd tea.Cmd
		switch m.focusIndex {
		case fieldIndexName:
			m.nameInput, cmd = m.nameInput.Update(msg)
			cmds = append(cmds, cmd)
		case fieldIndexKey:
			m.keyInput, cmd = m.keyInput.Update(msg)
			cmds = append(cmds, cmd)
		case fieldIndexExponent:
			m.kInput, cmd = m.kInput.Update(msg)
			cmds = append(cmds, cmd)
		case fieldIndexWindow:
			m.wInput, cmd = m.wInput.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// View renders the add-beacon screen.
func (m AddBeaconModel) View() string {
	var content strings.Builder

	content.WriteString(common.TitleStyle.Render("Add Beacon"))
	content.WriteString("\n")
	content.WriteString(common.SubtitleStyle.Render("Enter the beacon's name, brand, and 128-bit identity key"))
	content.WriteString("\n\n")

	switch m.state {
	case AddBeaconStateSuccess:
		content.WriteString(common.SuccessTextStyle.Render(fmt.Sprintf("✓ %s added.", m.nameInput.Value())))
	default:
		content.WriteString(m.renderForm())
	}

	content.WriteString("\n\n")
	content.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func (m AddBeaconModel) renderForm() string {
	var b strings.Builder

	b.WriteString(m.renderField("Name", fieldIndexName, m.nameInput.View()))
	b.WriteString("\n\n")
	b.WriteString(m.renderField("Identity Key (hex)", fieldIndexKey, m.keyInput.View()))
	b.WriteString("\n\n")

	brandLabel := "Brand"
	brandValue := string(availableBrands[m.brandIndex])
	if m.focusIndex == fieldIndexBrand {
		b.WriteString(common.SelectedStyle.Render(brandLabel))
	} else {
		b.WriteString(common.UnselectedStyle.Render(brandLabel))
	}
	b.WriteString("\n")
	b.WriteString(common.InputStyle.Render(brandValue + "  (enter to cycle)"))
	b.WriteString("\n\n")

	if _, _, ok := availableBrands[m.brandIndex].Preset(); ok {
		b.WriteString(common.MutedTextStyle.Render("Exponent and window are set by the brand preset."))
	} else {
		b.WriteString(m.renderField("Exponent K (0-15)", fieldIndexExponent, m.kInput.View()))
		b.WriteString("\n\n")
		b.WriteString(m.renderField("Window size W", fieldIndexWindow, m.wInput.View()))
	}
	b.WriteString("\n\n")

	buttonText := "  Add Beacon  "
	if m.focusIndex == fieldIndexSubmit {
		b.WriteString(common.ButtonStyle.Render(buttonText))
	} else if m.canSubmit() {
		b.WriteString(common.ButtonStyle.Copy().Background(common.ColorBorder).Render(buttonText))
	} else {
		b.WriteString(common.DisabledButtonStyle.Render(buttonText))
	}

	if m.state == AddBeaconStateError && m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(common.ErrorTextStyle.Render("Error: " + m.err.Error()))
	}

	return b.String()
}

func (m AddBeaconModel) renderField(label string, index int, view string) string {
	var b strings.Builder
	if m.focusIndex == index {
		b.WriteString(common.SelectedStyle.Render(label))
	} else {
		b.WriteString(common.UnselectedStyle.Render(label))
	}
	b.WriteString("\n")

	style := common.InputStyle
	if m.focusIndex == index {
		style = common.FocusedInputStyle
	}
	b.WriteString(style.Render(view))
	return b.String()
}

func (m *AddBeaconModel) updateFocus() {
	m.nameInput.Blur()
	m.keyInput.Blur()
	m.kInput.Blur()
	m.wInput.Blur()
	switch m.focusIndex {
	case fieldIndexName:
		m.nameInput.Focus()
	case fieldIndexKey:
		m.keyInput.Focus()
	case fieldIndexExponent:
		m.kInput.Focus()
	case fieldIndexWindow:
		m.wInput.Focus()
	}
}

func (m AddBeaconModel) canSubmit() bool {
	return strings.TrimSpace(m.nameInput.Value()) != "" && strings.TrimSpace(m.keyInput.Value()) != ""
}

// parseUintField parses s as a base-10 uint, returning def if s is blank.
func parseUintField(s string, def uint64) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return def
	}
	return v
}

func (m AddBeaconModel) submit() (AddBeaconModel, tea.Cmd) {
	if !m.canSubmit() {
		return m, nil
	}

	cfg, err := config.Validate(config.Input{
		Name:           strings.TrimSpace(m.nameInput.Value()),
		Brand:          availableBrands[m.brandIndex],
		IdentityKeyHex: strings.TrimSpace(m.keyInput.Value()),
		Exponent:       uint8(parseUintField(m.kInput.Value(), 15)),
		WindowSize:     int(parseUintField(m.wInput.Value(), 3)),
	})
	if err != nil {
		m.state = AddBeaconStateError
		m.err = err
		return m, nil
	}

	m.err = nil
	return m, func() tea.Msg {
		return BeaconAddRequestedMsg{Config: cfg}
	}
}
