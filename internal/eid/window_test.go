package eid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWindowShapeAndOrdering(t *testing.T) {
	key := testIdentityKey(t)

	win, err := BuildWindow(key, 15, 3, 0)
	require.NoError(t, err)

	assert.Equal(t, 7, win.Len())
	assert.Equal(t, 3, win.Center())
	assert.Equal(t, uint32(0), win.CounterAt())

	// successive counters differ by exactly 2^K, wrapping.
	step := uint32(1) << 15
	for i := 1; i < win.Len(); i++ {
		prev := win.Entry(i - 1).Counter
		cur := win.Entry(i).Counter
		assert.Equal(t, step, cur-prev)
	}

	assert.Equal(t, uint32(0)-3*step, win.Entry(0).Counter)
	assert.Equal(t, uint32(0)+3*step, win.Entry(6).Counter)
}

func TestBuildWindowRejectsUnalignedCounter(t *testing.T) {
	key := testIdentityKey(t)
	_, err := BuildWindow(key, 15, 3, 1)
	assert.Error(t, err)
}

func TestBuildWindowRejectsInvalidShape(t *testing.T) {
	key := testIdentityKey(t)

	_, err := BuildWindow(key, 16, 3, 0)
	assert.Error(t, err)

	_, err = BuildWindow(key, 15, 0, 0)
	assert.Error(t, err)
}

func TestBuildWindowStraddlesCounterWrap(t *testing.T) {
	key := testIdentityKey(t)

	// centerCounter chosen so the upper entries wrap past 2^32 back to zero.
	step := uint32(1) << 15
	center := uint32(0) - step // 2^32 - 2^15, low 15 bits are zero
	win, err := BuildWindow(key, 15, 3, center)
	require.NoError(t, err)

	assert.Equal(t, 7, win.Len())
	for i := 1; i < win.Len(); i++ {
		prev := win.Entry(i - 1).Counter
		cur := win.Entry(i).Counter
		assert.Equal(t, step, cur-prev, "wrapping subtraction must hold at index %d", i)
	}
}

func TestSearchFindsEntryAndRecentersToCenter(t *testing.T) {
	key := testIdentityKey(t)

	win, err := BuildWindow(key, 15, 3, 0)
	require.NoError(t, err)

	// the window-start entry (index 0) should match its own EID.
	startEntry := win.Entry(0)
	idx, ok := win.Search(startEntry.EID)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	require.NoError(t, win.Recenter(idx))
	assert.Equal(t, 7, win.Len())
	assert.Equal(t, 3, win.Center())
	assert.Equal(t, startEntry.Counter, win.CounterAt())
}

func TestRecenterIsIdempotentAtCenter(t *testing.T) {
	key := testIdentityKey(t)

	win, err := BuildWindow(key, 15, 3, 0)
	require.NoError(t, err)

	before := append([]WindowEntry(nil), win.Entries()...)
	require.NoError(t, win.Recenter(win.Center()))
	assert.Equal(t, before, win.Entries())
}

func TestSearchMissReturnsFalse(t *testing.T) {
	key := testIdentityKey(t)

	win, err := BuildWindow(key, 15, 3, 0)
	require.NoError(t, err)

	var absent EID
	copy(absent[:], []byte{1, 2, 3, 4, 5, 6, 7, 8})
	_, ok := win.Search(absent)
	assert.False(t, ok)
}

func TestRecenterFromWindowEndShiftsRight(t *testing.T) {
	key := testIdentityKey(t)

	win, err := BuildWindow(key, 15, 3, 0)
	require.NoError(t, err)

	endEntry := win.Entry(6)
	idx, ok := win.Search(endEntry.EID)
	require.True(t, ok)
	assert.Equal(t, 6, idx)

	require.NoError(t, win.Recenter(idx))
	assert.Equal(t, endEntry.Counter, win.CounterAt())
}
