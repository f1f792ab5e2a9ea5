package screens

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubblenetwork/eidtracker/internal/ble"
)

type fakeLiveScanner struct {
	ch  chan ble.ScanResult
	err error
}

func (f *fakeLiveScanner) ScanStream(ctx context.Context) (<-chan ble.ScanResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.ch, nil
}

func (f *fakeLiveScanner) Stop() {}

func TestLiveScanModelStartScanSucceeds(t *testing.T) {
	scanner := &fakeLiveScanner{ch: make(chan ble.ScanResult, 1)}
	m := NewLiveScanModel(scanner)

	cmd := m.startScan()
	require.NotNil(t, cmd)

	msg := cmd()
	started, ok := msg.(LiveScanStartedMsg)
	require.True(t, ok)

	next, _ := m.Update(started)
	assert.Equal(t, LiveScanStateScanning, next.state)
}

func TestLiveScanModelStartScanFailure(t *testing.T) {
	scanner := &fakeLiveScanner{err: errors.New("adapter unavailable")}
	m := NewLiveScanModel(scanner)

	cmd := m.startScan()
	require.NotNil(t, cmd)

	msg := cmd()
	stopped, ok := msg.(LiveScanStoppedMsg)
	require.True(t, ok)
	assert.Error(t, stopped.Error)

	next, _ := m.Update(stopped)
	assert.Equal(t, LiveScanStateError, next.state)
}

func TestLiveScanModelClearResetsResults(t *testing.T) {
	scanner := &fakeLiveScanner{ch: make(chan ble.ScanResult, 1)}
	m := NewLiveScanModel(scanner)
	m.results = []ble.ScanResult{{}}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	assert.Empty(t, next.results)
}

func TestLiveScanModelBackStopsAndNavigatesHome(t *testing.T) {
	scanner := &fakeLiveScanner{ch: make(chan ble.ScanResult, 1)}
	m := NewLiveScanModel(scanner)
	m.state = LiveScanStateScanning

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	nav, ok := cmd().(NavigateMsg)
	require.True(t, ok)
	assert.Equal(t, "home", nav.Screen)
}
