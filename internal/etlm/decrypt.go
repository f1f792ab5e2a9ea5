package etlm

import (
	"encoding/binary"
	"fmt"
)

const (
	// CiphertextSize is the number of encrypted telemetry bytes.
	CiphertextSize = 12
	// SaltSize is the number of opaque salt bytes folded into the nonce.
	SaltSize = 2
	// TagSize is the number of transmitted truncated-tag bytes.
	TagSize = 2
	// PlaintextSize is the size of the decrypted telemetry payload.
	PlaintextSize = 12
)

// Telemetry is the decoded ETLM plaintext payload.
type Telemetry struct {
	BatteryMV        uint16
	TemperatureCQ88  int16 // raw signed 8.8 fixed-point, °C
	AdvertisingCount uint32
	UptimeS          uint32
}

// TemperatureC returns the telemetry temperature in degrees Celsius,
// decoded from the signed 8.8 fixed-point wire representation.
func (t Telemetry) TemperatureC() float64 {
	return float64(t.TemperatureCQ88) / 256.0
}

// Frame is the parsed ETLM wire payload: 12 bytes ciphertext, a 2-byte
// salt, and a 2-byte truncated tag.
type Frame struct {
	Ciphertext [CiphertextSize]byte
	Salt       [SaltSize]byte
	Tag        [TagSize]byte
}

// Bytes renders f as the 18-byte ETLM service-data payload, including the
// [0x20, 0x01] header.
func (f Frame) Bytes() []byte {
	buf := make([]byte, 0, 2+CiphertextSize+SaltSize+TagSize)
	buf = append(buf, 0x20, 0x01)
	buf = append(buf, f.Ciphertext[:]...)
	buf = append(buf, f.Salt[:]...)
	buf = append(buf, f.Tag[:]...)
	return buf
}

// ParseFrame extracts a Frame from the 18-byte ETLM service-data payload
// (after the 2-byte [0x20, 0x01] header has already been validated by the
// caller): bytes 2..14 ciphertext, 14..16 salt, 16..18 tag.
func ParseFrame(serviceData []byte) (Frame, error) {
	const expectedLen = 2 + CiphertextSize + SaltSize + TagSize
	if len(serviceData) != expectedLen {
		return Frame{}, fmt.Errorf("etlm: service data length %d, want %d", len(serviceData), expectedLen)
	}

	var f Frame
	copy(f.Ciphertext[:], serviceData[2:2+CiphertextSize])
	copy(f.Salt[:], serviceData[2+CiphertextSize:2+CiphertextSize+SaltSize])
	copy(f.Tag[:], serviceData[2+CiphertextSize+SaltSize:])
	return f, nil
}

// Decrypt verifies and decrypts an ETLM frame using identityKey and the
// tracker's current counter.
//
// Verification cannot use a library's built-in EAX tag check because the
// on-wire tag is truncated to 2 bytes, below what most implementations
// accept. Instead: decrypt without verifying, re-encrypt the resulting
// plaintext under the same key and nonce to obtain a full 16-byte tag, and
// compare its first two bytes against the transmitted tag.
func Decrypt(identityKey [16]byte, counter uint32, f Frame) (Telemetry, bool, error) {
	nonce := buildNonce(counter, f.Salt)

	plaintext, err := eaxDecryptNoVerify(identityKey[:], nonce, f.Ciphertext[:])
	if err != nil {
		return Telemetry{}, false, err
	}

	_, fullTag, err := eaxEncrypt(identityKey[:], nonce, nil, plaintext)
	if err != nil {
		return Telemetry{}, false, err
	}

	if fullTag[0] != f.Tag[0] || fullTag[1] != f.Tag[1] {
		return Telemetry{}, false, nil
	}

	return decodeTelemetry(plaintext), true, nil
}

// Encrypt builds a valid ETLM Frame for telemetry under identityKey,
// counter, and salt. It exists for tests and for synthesizing demo traffic;
// real beacons perform this step, not the receiver.
func Encrypt(identityKey [16]byte, counter uint32, salt [SaltSize]byte, t Telemetry) (Frame, error) {
	nonce := buildNonce(counter, salt)
	plaintext := encodeTelemetry(t)

	ciphertext, fullTag, err := eaxEncrypt(identityKey[:], nonce, nil, plaintext)
	if err != nil {
		return Frame{}, err
	}

	var f Frame
	copy(f.Ciphertext[:], ciphertext)
	f.Salt = salt
	copy(f.Tag[:], fullTag[:TagSize])
	return f, nil
}

func encodeTelemetry(t Telemetry) []byte {
	buf := make([]byte, PlaintextSize)
	binary.BigEndian.PutUint16(buf[0:2], t.BatteryMV)
	binary.BigEndian.PutUint16(buf[2:4], uint16(t.TemperatureCQ88))
	binary.BigEndian.PutUint32(buf[4:8], t.AdvertisingCount)
	binary.BigEndian.PutUint32(buf[8:12], t.UptimeS)
	return buf
}

func decodeTelemetry(plaintext []byte) Telemetry {
	return Telemetry{
		BatteryMV:        binary.BigEndian.Uint16(plaintext[0:2]),
		TemperatureCQ88:  int16(binary.BigEndian.Uint16(plaintext[2:4])),
		AdvertisingCount: binary.BigEndian.Uint32(plaintext[4:8]),
		UptimeS:          binary.BigEndian.Uint32(plaintext[8:12]),
	}
}
