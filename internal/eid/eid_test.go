package eid

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentityKey(t *testing.T) IdentityKey {
	t.Helper()
	raw, err := hex.DecodeString("12345678901234567890123456789012")
	require.NoError(t, err)
	var key IdentityKey
	copy(key[:], raw)
	return key
}

func mustEID(t *testing.T, s string) EID {
	t.Helper()
	raw, err := hex.DecodeString(s)
	require.NoError(t, err)
	var e EID
	copy(e[:], raw)
	return e
}

func TestDeriveAtKnownVectors(t *testing.T) {
	key := testIdentityKey(t)

	cases := []struct {
		name    string
		counter uint32
		want    string
	}{
		{"center", 0x00000000, "b1dc360a2dd3df22"},
		{"window start at -3*2^15", 0xFFFE8000, "6c37713d94e96369"},
		{"resync counter", 0x05540000, "9d977cab2a358ada"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeriveAt(key, 15, tc.counter)
			require.NoError(t, err)
			assert.Equal(t, mustEID(t, tc.want), got)
		})
	}
}

func TestDeriveIsDeterministicAndHistoryIndependent(t *testing.T) {
	key := testIdentityKey(t)

	a, err := DeriveAt(key, 15, 0x00018000)
	require.NoError(t, err)

	b, err := DeriveAt(key, 15, 0x00018000)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestAlignCounterClearsLowBits(t *testing.T) {
	assert.Equal(t, uint32(0x00018000), AlignCounter(0x00018123, 15))
	assert.Equal(t, uint32(0), AlignCounter(0x7FFF, 15))
	assert.Equal(t, uint32(0xFFFFFFFF), AlignCounter(0xFFFFFFFF, 0))
}

func TestCounterMask(t *testing.T) {
	assert.Equal(t, uint32(0), CounterMask(0))
	assert.Equal(t, uint32(0x7FFF), CounterMask(15))
}
