package ble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainsEddystoneServiceAcceptsKnownUUIDForms(t *testing.T) {
	adv := RawAdvertisement{ServiceData: map[string][]byte{"feaa": {0x30, 0x00}}}
	assert.True(t, ContainsEddystoneService(adv))

	adv2 := RawAdvertisement{ServiceData: map[string][]byte{"0000feaa-0000-1000-8000-00805f9b34fb": {0x30, 0x00}}}
	assert.True(t, ContainsEddystoneService(adv2))
}

func TestContainsEddystoneServiceRejectsUnrelatedUUID(t *testing.T) {
	adv := RawAdvertisement{ServiceData: map[string][]byte{"0000fca6-0000-1000-8000-00805f9b34fb": {0x01}}}
	assert.False(t, ContainsEddystoneService(adv))
}

func TestExtractFramePullsEddystoneBytes(t *testing.T) {
	want := []byte{0x30, 0x00, 1, 2, 3, 4, 5, 6, 7, 8}
	adv := RawAdvertisement{
		Address:     "AA:BB:CC:DD:EE:FF",
		RSSI:        -50,
		ServiceData: map[string][]byte{"feaa": want},
	}

	frame, ok := ExtractFrame(adv)
	require.True(t, ok)
	assert.Equal(t, want, frame.Data)
	assert.Equal(t, -50, frame.RSSI)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", frame.Address)
}

func TestExtractFrameMissesWithoutEddystoneData(t *testing.T) {
	adv := RawAdvertisement{ServiceData: map[string][]byte{"0000fca6-0000-1000-8000-00805f9b34fb": {0x01}}}
	_, ok := ExtractFrame(adv)
	assert.False(t, ok)
}
