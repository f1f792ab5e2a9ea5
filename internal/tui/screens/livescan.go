package screens

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hubblenetwork/eidtracker/internal/ble"
	"github.com/hubblenetwork/eidtracker/internal/tui/common"
)

// LiveScanState represents the current state of the live scan screen.
type LiveScanState int

const (
	LiveScanStateInit LiveScanState = iota
	LiveScanStateScanning
	LiveScanStateError
)

// Live scan messages.
type (
	// LiveScanStartedMsg indicates scanning has started.
	LiveScanStartedMsg struct {
		Results <-chan ble.ScanResult
	}

	// LiveScanFrameMsg is sent when a raw advertisement is observed.
	LiveScanFrameMsg struct {
		Result ble.ScanResult
	}

	// LiveScanStoppedMsg indicates scanning has stopped.
	LiveScanStoppedMsg struct {
		Error error
	}

	// LiveScanTickMsg drives non-blocking polling of the results channel.
	LiveScanTickMsg struct{}
)

type liveScanKeyMap struct {
	Pause  key.Binding
	Resume key.Binding
	Clear  key.Binding
	Back   key.Binding
	Quit   key.Binding
}

func defaultLiveScanKeyMap() liveScanKeyMap {
	return liveScanKeyMap{
		Pause:  key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p/space", "pause")),
		Resume: key.NewBinding(key.WithKeys("p", " ", "r"), key.WithHelp("p/space/r", "resume")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

// Scanner is the minimal interface the live scan screen drives.
type Scanner interface {
	ScanStream(ctx context.Context) (<-chan ble.ScanResult, error)
	Stop()
}

// LiveScanModel is the model for the raw BLE advertisement screen.
type LiveScanModel struct {
	scanner Scanner
	results []ble.ScanResult
	table   table.Model
	spinner spinner.Model
	help    help.Model
	keys    liveScanKeyMap

	state       LiveScanState
	err         error
	scanCtx     context.Context
	cancelScan  context.CancelFunc
	resultsChan <-chan ble.ScanResult

	width  int
	height int
}

// NewLiveScanModel creates a new live scan screen model backed by scanner.
func NewLiveScanModel(scanner Scanner) LiveScanModel {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Time", Width: 13},
		{Title: "RSSI", Width: 7},
		{Title: "Frame", Width: 10},
		{Title: "Address", Width: 18},
		{Title: "Data", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Bold(true).
		Foreground(common.ColorSecondary).
		BorderStyle(lipgloss.HiddenBorder())
	s.Cell = s.Cell.BorderStyle(lipgloss.HiddenBorder())
	s.Selected = s.Selected.
		Foreground(common.ColorForeground).
		Background(common.ColorPrimary).
		Bold(true)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(common.ColorPrimary)

	return LiveScanModel{
		scanner: scanner,
		table:   t,
		spinner: sp,
		help:    help.New(),
		keys:    defaultLiveScanKeyMap(),
		state:   LiveScanStateInit,
	}
}

// Init starts scanning automatically when the screen is entered.
func (m LiveScanModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startScan())
}

// Update handles messages for the live scan screen.
func (m LiveScanModel) Update(msg tea.Msg) (LiveScanModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(m.height - 18)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			if m.state == LiveScanStateScanning {
				m.stopScan()
			}
			return m, func() tea.Msg { return NavigateMsg{Screen: "home"} }

		case key.Matches(msg, m.keys.Quit):
			if m.state == LiveScanStateScanning {
				m.stopScan()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Pause) || key.Matches(msg, m.keys.Resume):
			if m.state == LiveScanStateScanning {
				m.stopScan()
				m.state = LiveScanStateInit
				return m, nil
			}
			return m, m.startScan()

		case key.Matches(msg, m.keys.Clear):
			m.results = nil
			m.updateTable()
			return m, nil
		}

	case LiveScanStartedMsg:
		m.state = LiveScanStateScanning
		m.resultsChan = msg.Results
		return m, tea.Batch(m.spinner.Tick, m.tickCmd())

	case LiveScanFrameMsg:
		m.results = append(m.results, msg.Result)
		m.updateTable()
		if m.state == LiveScanStateScanning {
			return m, nil
		}
		return m, nil

	case LiveScanStoppedMsg:
		m.state = LiveScanStateInit
		if msg.Error != nil {
			m.state = LiveScanStateError
			m.err = msg.Error
		}
		return m, nil

	case LiveScanTickMsg:
		if m.state == LiveScanStateScanning {
			result := m.pollResultSync()
			if result != nil {
				next, cmd := m.Update(result)
				return next, tea.Batch(cmd, m.tickCmd())
			}
			return m, m.tickCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state == LiveScanStateScanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	if len(m.results) > 0 {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the live scan screen.
func (m LiveScanModel) View() string {
	var content strings.Builder

	content.WriteString(common.TitleStyle.Render("Live Scan"))
	content.WriteString("\n")
	content.WriteString(common.SubtitleStyle.Render("Raw Eddystone advertisements observed over the air"))
	content.WriteString("\n\n")
	content.WriteString(m.renderStatus())
	content.WriteString("\n\n")

	switch m.state {
	case LiveScanStateScanning:
		content.WriteString(fmt.Sprintf("%s Scanning...  %d frame(s)", m.spinner.View(), len(m.results)))
		content.WriteString("\n\n")
		content.WriteString(m.table.View())

	case LiveScanStateError:
		content.WriteString(common.ErrorTextStyle.Render("Error: " + m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString(common.MutedTextStyle.Render("Press 'r' to retry"))

	case LiveScanStateInit:
		content.WriteString(fmt.Sprintf("Paused. %d frame(s) captured", len(m.results)))
		content.WriteString("\n\n")
		content.WriteString(m.table.View())
	}

	content.WriteString("\n\n")
	content.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.Pause, m.keys.Clear, m.keys.Back, m.keys.Quit}))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content.String())
}

func (m LiveScanModel) renderStatus() string {
	switch m.state {
	case LiveScanStateScanning:
		return common.SuccessTextStyle.Render("SCANNING")
	case LiveScanStateError:
		return common.ErrorTextStyle.Render("ERROR")
	default:
		return common.MutedTextStyle.Render("PAUSED")
	}
}

func (m *LiveScanModel) updateTable() {
	rows := make([]table.Row, len(m.results))
	for i := len(m.results) - 1; i >= 0; i-- {
		r := m.results[i]
		rowIdx := len(m.results) - 1 - i

		frameKind := "other"
		dataHex := "-"
		if r.Error == nil {
			switch {
			case len(r.Frame.Data) >= 2 && r.Frame.Data[0] == 0x30:
				frameKind = "eid"
			case len(r.Frame.Data) >= 2 && r.Frame.Data[0] == 0x20 && len(r.Frame.Data) >= 2 && r.Frame.Data[1] == 0x01:
				frameKind = "etlm"
			case len(r.Frame.Data) >= 1 && r.Frame.Data[0] == 0x00:
				frameKind = "uid"
			case len(r.Frame.Data) >= 1 && r.Frame.Data[0] == 0x10:
				frameKind = "url"
			}
			dataHex = fmt.Sprintf("%x", r.Frame.Data)
			if len(dataHex) > 22 {
				dataHex = dataHex[:19] + "..."
			}
		} else {
			frameKind = "error"
			dataHex = r.Error.Error()
		}

		rows[rowIdx] = table.Row{
			fmt.Sprintf("%d", i+1),
			r.Raw.Timestamp.Format("15:04:05.000"),
			fmt.Sprintf("%d", r.Raw.RSSI),
			frameKind,
			r.Raw.Address,
			dataHex,
		}
	}
	m.table.SetRows(rows)
}

func (m *LiveScanModel) startScan() tea.Cmd {
	m.scanCtx, m.cancelScan = context.WithCancel(context.Background())
	scanner := m.scanner

	return func() tea.Msg {
		results, err := scanner.ScanStream(m.scanCtx)
		if err != nil {
			return LiveScanStoppedMsg{Error: err}
		}
		return LiveScanStartedMsg{Results: results}
	}
}

func (m *LiveScanModel) stopScan() {
	if m.cancelScan != nil {
		m.cancelScan()
		m.cancelScan = nil
	}
	if m.scanner != nil {
		m.scanner.Stop()
	}
	m.resultsChan = nil
}

func (m LiveScanModel) tickCmd() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
		return LiveScanTickMsg{}
	})
}

func (m *LiveScanModel) pollResultSync() tea.Msg {
	if m.resultsChan == nil {
		return nil
	}
	select {
	case result, ok := <-m.resultsChan:
		if !ok {
			return LiveScanStoppedMsg{}
		}
		return LiveScanFrameMsg{Result: result}
	default:
		return nil
	}
}
