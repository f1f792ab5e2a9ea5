package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintIsStableAndNonTrivial(t *testing.T) {
	key := [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}

	a := Fingerprint(key)
	b := Fingerprint(key)
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "01020304")

	other := key
	other[0] = 0xFF
	assert.NotEqual(t, a, Fingerprint(other))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	fp := "abc123"

	_, err := s.Load(fp)
	assert.ErrorIs(t, err, ErrNotFound)

	want := State{Counter: 0x00018000, LastSeen: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), HasSeen: true}
	require.NoError(t, s.Save(fp, want))

	got, err := s.Load(fp)
	require.NoError(t, err)
	assert.Equal(t, want.Counter, got.Counter)
	assert.True(t, got.LastSeen.Equal(want.LastSeen))
	assert.True(t, got.HasSeen)

	require.NoError(t, s.Delete(fp))
	_, err = s.Load(fp)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEncodeDecodeStateRoundTrip(t *testing.T) {
	want := State{Counter: 42, LastSeen: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), HasSeen: true}

	raw, err := encodeState(want)
	require.NoError(t, err)

	got, err := decodeState(raw)
	require.NoError(t, err)
	assert.Equal(t, want.Counter, got.Counter)
	assert.True(t, got.LastSeen.Equal(want.LastSeen))
}
