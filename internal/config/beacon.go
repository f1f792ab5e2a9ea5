// Package config validates the per-beacon configuration collected from a
// user (brand selection, identity key, rotation exponent) before a
// tracker.BeaconTracker is constructed from it, the way the hubcli models
// package validates Credentials before they reach the API client.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/hubblenetwork/eidtracker/internal/eid"
)

// Brand is a preset identifying a known beacon vendor's default exponent
// and window size, so a user adding a beacon only has to supply its name
// and identity key.
type Brand string

const (
	// BrandGeneric applies no preset; K and W must be supplied explicitly.
	BrandGeneric Brand = "generic"
	// BrandKontaktIO presets exponent/window for Kontakt.io Eddystone-EID tags.
	BrandKontaktIO Brand = "kontakt_io"
	// BrandBlueCats presets exponent/window for BlueCats Eddystone-EID tags.
	BrandBlueCats Brand = "bluecats"
)

// Preset returns the default (K, W) for a brand, or ok=false for
// BrandGeneric and any unrecognized brand.
func (b Brand) Preset() (k uint8, w int, ok bool) {
	switch b {
	case BrandKontaktIO:
		return 15, 3, true
	case BrandBlueCats:
		return 12, 2, true
	default:
		return 0, 0, false
	}
}

// BeaconConfig is the validated, construction-ready input to
// tracker.New. Raw user input (brand pick, hex key string, form fields)
// is converted into one of these by Validate before it reaches the core.
type BeaconConfig struct {
	Name        string
	Brand       Brand
	IdentityKey eid.IdentityKey
	Exponent    uint8
	WindowSize  int
}

// Errors returned by Validate. Each names the offending field so a form
// screen can attach it to the right input.
var (
	ErrEmptyName          = errors.New("config: name must not be empty")
	ErrInvalidIdentityKey = errors.New("config: identity key must be exactly 16 bytes of hex")
	ErrExponentOutOfRange = errors.New("config: exponent K must be between 0 and 15")
	ErrWindowTooSmall     = errors.New("config: window size W must be at least 1")
)

// Input is the raw, unvalidated form data collected from a user.
type Input struct {
	Name           string
	Brand          Brand
	IdentityKeyHex string
	// Exponent and WindowSize are only consulted for a brand without a
	// preset (BrandGeneric or an unrecognized brand); a brand with a
	// preset supplies its own values and these are ignored.
	Exponent   uint8
	WindowSize int
}

// Validate converts raw form input into a BeaconConfig, applying the
// brand's preset exponent/window when one exists. It never mutates Input.
func Validate(in Input) (BeaconConfig, error) {
	if in.Name == "" {
		return BeaconConfig{}, ErrEmptyName
	}

	key, err := decodeIdentityKey(in.IdentityKeyHex)
	if err != nil {
		return BeaconConfig{}, err
	}

	k, w := in.Exponent, in.WindowSize
	if presetK, presetW, ok := in.Brand.Preset(); ok {
		k, w = presetK, presetW
	}

	if k > eid.MaxExponent {
		return BeaconConfig{}, ErrExponentOutOfRange
	}
	if w < 1 {
		return BeaconConfig{}, ErrWindowTooSmall
	}

	return BeaconConfig{
		Name:        in.Name,
		Brand:       in.Brand,
		IdentityKey: key,
		Exponent:    k,
		WindowSize:  w,
	}, nil
}

func decodeIdentityKey(s string) (eid.IdentityKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return eid.IdentityKey{}, fmt.Errorf("%w: %v", ErrInvalidIdentityKey, err)
	}
	if len(raw) != eid.IdentityKeySize {
		return eid.IdentityKey{}, ErrInvalidIdentityKey
	}

	var key eid.IdentityKey
	copy(key[:], raw)
	return key, nil
}

// IsValid reports whether c was produced by a successful Validate call
// and has not been zeroed out since, mirroring the Credentials.IsValid
// convenience check used before a network call in the source CLI.
func (c BeaconConfig) IsValid() bool {
	return c.Name != "" && c.WindowSize >= 1 && c.Exponent <= eid.MaxExponent
}
