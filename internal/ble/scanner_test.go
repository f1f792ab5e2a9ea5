package ble

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubblenetwork/eidtracker/internal/tracker"
)

func TestMockScannerReplaysConfiguredFrames(t *testing.T) {
	m := NewMockScanner()
	m.SetFrames([]tracker.AdvertisingFrame{
		{Address: "AA", RSSI: -50, Data: []byte{0x30, 0x00}},
		{Address: "BB", RSSI: -60, Data: []byte{0x30, 0x00}},
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	results, err := m.ScanStream(ctx)
	require.NoError(t, err)

	var got []tracker.AdvertisingFrame
	for r := range results {
		require.NoError(t, r.Error)
		got = append(got, r.Frame)
	}

	assert.Len(t, got, 2)
	assert.Equal(t, "AA", got[0].Address)
	assert.Equal(t, "BB", got[1].Address)
}

func TestMockScannerReturnsConfiguredError(t *testing.T) {
	m := NewMockScanner()
	m.Error = assert.AnError

	_, err := m.ScanStream(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
