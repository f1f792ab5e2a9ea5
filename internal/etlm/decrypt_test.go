package etlm

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) [16]byte {
	t.Helper()
	raw, err := hex.DecodeString("12345678901234567890123456789012")
	require.NoError(t, err)
	var k [16]byte
	copy(k[:], raw)
	return k
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := testKey(t)
	salt := [SaltSize]byte{0xAB, 0xCD}
	want := Telemetry{
		BatteryMV:        2953,
		TemperatureCQ88:  int16(20.5 * 256),
		AdvertisingCount: 46,
		UptimeS:          408,
	}

	frame, err := Encrypt(key, 0, salt, want)
	require.NoError(t, err)

	got, ok, err := Decrypt(key, 0, frame)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
	assert.InDelta(t, 20.5, got.TemperatureC(), 1.0/256.0)
}

func TestDecryptRejectsBitFlippedCiphertext(t *testing.T) {
	key := testKey(t)
	salt := [SaltSize]byte{0x01, 0x02}

	frame, err := Encrypt(key, 100, salt, Telemetry{BatteryMV: 3000})
	require.NoError(t, err)

	frame.Ciphertext[0] ^= 0x01

	_, ok, err := Decrypt(key, 100, frame)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecryptRejectsWrongCounter(t *testing.T) {
	key := testKey(t)
	salt := [SaltSize]byte{0x01, 0x02}

	frame, err := Encrypt(key, 100, salt, Telemetry{BatteryMV: 3000})
	require.NoError(t, err)

	_, ok, err := Decrypt(key, 101, frame)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDecryptRejectsWrongSalt(t *testing.T) {
	key := testKey(t)

	frame, err := Encrypt(key, 100, [SaltSize]byte{0x01, 0x02}, Telemetry{BatteryMV: 3000})
	require.NoError(t, err)

	frame.Salt = [SaltSize]byte{0x03, 0x04}

	_, ok, err := Decrypt(key, 100, frame)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRetagRoundTripLaw(t *testing.T) {
	// Encrypt(K,N,P) -> (C,T); decrypt-no-verify(K,N,C) = P; re-encrypt ->
	// (_, T'); T'[0:2] == T[0:2].
	key := testKey(t)
	salt := [SaltSize]byte{0x9, 0x9}
	nonce := buildNonce(42, salt)
	plaintext := encodeTelemetry(Telemetry{BatteryMV: 1111, UptimeS: 99})

	ciphertext, tag, err := eaxEncrypt(key[:], nonce, nil, plaintext)
	require.NoError(t, err)

	recovered, err := eaxDecryptNoVerify(key[:], nonce, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, recovered)

	_, tag2, err := eaxEncrypt(key[:], nonce, nil, recovered)
	require.NoError(t, err)
	assert.Equal(t, tag[:TagSize], tag2[:TagSize])
}

func TestParseFrameRejectsWrongLength(t *testing.T) {
	_, err := ParseFrame(make([]byte, 10))
	assert.Error(t, err)
}

func TestFrameBytesRoundTripsThroughParseFrame(t *testing.T) {
	key := testKey(t)
	frame, err := Encrypt(key, 7, [SaltSize]byte{0x1, 0x1}, Telemetry{BatteryMV: 42})
	require.NoError(t, err)

	parsed, err := ParseFrame(frame.Bytes())
	require.NoError(t, err)
	assert.Equal(t, frame, parsed)
}

func TestNegativeTemperaturePreservesSign(t *testing.T) {
	key := testKey(t)
	want := Telemetry{TemperatureCQ88: int16(-5.5 * 256)}

	frame, err := Encrypt(key, 0, [SaltSize]byte{}, want)
	require.NoError(t, err)

	got, ok, err := Decrypt(key, 0, frame)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -5.5, got.TemperatureC(), 1.0/256.0)
}
