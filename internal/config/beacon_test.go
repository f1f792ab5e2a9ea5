package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validKeyHex = "12345678901234567890123456789012"

func TestValidateAppliesBrandPreset(t *testing.T) {
	cfg, err := Validate(Input{
		Name:           "Front Door Tag",
		Brand:          BrandKontaktIO,
		IdentityKeyHex: validKeyHex,
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(15), cfg.Exponent)
	assert.Equal(t, 3, cfg.WindowSize)
	assert.True(t, cfg.IsValid())
}

func TestValidateGenericUsesSuppliedExponentAndWindow(t *testing.T) {
	cfg, err := Validate(Input{
		Name:           "Custom Tag",
		Brand:          BrandGeneric,
		IdentityKeyHex: validKeyHex,
		Exponent:       10,
		WindowSize:     5,
	})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), cfg.Exponent)
	assert.Equal(t, 5, cfg.WindowSize)
}

func TestValidateRejectsEmptyName(t *testing.T) {
	_, err := Validate(Input{IdentityKeyHex: validKeyHex, Brand: BrandKontaktIO})
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestValidateRejectsBadKeyLength(t *testing.T) {
	_, err := Validate(Input{Name: "x", IdentityKeyHex: "1234", Brand: BrandKontaktIO})
	assert.ErrorIs(t, err, ErrInvalidIdentityKey)
}

func TestValidateRejectsNonHexKey(t *testing.T) {
	_, err := Validate(Input{Name: "x", IdentityKeyHex: "not-hex-not-hex-not-hex-not-hex", Brand: BrandKontaktIO})
	assert.ErrorIs(t, err, ErrInvalidIdentityKey)
}

func TestValidateRejectsExponentOutOfRange(t *testing.T) {
	_, err := Validate(Input{
		Name: "x", IdentityKeyHex: validKeyHex, Brand: BrandGeneric,
		Exponent: 16, WindowSize: 1,
	})
	assert.ErrorIs(t, err, ErrExponentOutOfRange)
}

func TestValidateRejectsWindowTooSmall(t *testing.T) {
	_, err := Validate(Input{
		Name: "x", IdentityKeyHex: validKeyHex, Brand: BrandGeneric,
		Exponent: 5, WindowSize: 0,
	})
	assert.ErrorIs(t, err, ErrWindowTooSmall)
}

func TestBrandPresetReportsUnknownForGeneric(t *testing.T) {
	_, _, ok := BrandGeneric.Preset()
	assert.False(t, ok)
}
