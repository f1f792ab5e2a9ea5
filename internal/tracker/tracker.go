// Package tracker implements the per-beacon receiver state machine: EID
// window search and recentring, resync after a long absence, and ETLM
// telemetry decryption. See BeaconTracker for the entry point.
package tracker

import (
	"fmt"
	"time"

	"github.com/hubblenetwork/eidtracker/internal/clock"
	"github.com/hubblenetwork/eidtracker/internal/eid"
	"github.com/hubblenetwork/eidtracker/internal/etlm"
	"github.com/hubblenetwork/eidtracker/internal/logging"
)

// BeaconTracker is a single device's receiver-side state: the sliding
// window of plausible EIDs, an optional resync window, the last matching
// address, and decrypted telemetry. ProcessPacket is its only mutating
// entry point and never returns an error — malformed or unrecognized
// packets are dropped silently (logged at info), so a hostile or stray
// packet can never disrupt the BLE callback path.
type BeaconTracker struct {
	name        string
	identityKey eid.IdentityKey
	k           uint8
	w           int

	clock clock.Clock
	log   *logging.Log

	counter uint32
	window  *eid.Window
	resync  *eid.Window

	hasLastSeen bool
	lastSeen    time.Time

	hasAddress bool
	address    string

	temperature      float64
	batteryMV        uint16
	advertisingCount uint32
	uptimeS          uint32
	signalStrength   int
	newDataAvailable bool
}

// New constructs a tracker from persisted (or default) state. counter is
// masked to clear its low K bits rather than rejected, per the explicit
// construction-time carve-out; K outside 0..15 and W<1 are the only
// rejected configurations.
func New(name string, identityKey eid.IdentityKey, k uint8, w int, counter uint32, lastSeen *time.Time, clk clock.Clock, log *logging.Log) (*BeaconTracker, error) {
	if k > eid.MaxExponent {
		return nil, fmt.Errorf("tracker: exponent K=%d out of range 0..%d", k, eid.MaxExponent)
	}
	if w < 1 {
		return nil, fmt.Errorf("tracker: window size W=%d must be >= 1", w)
	}
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logging.Discard()
	}

	aligned := eid.AlignCounter(counter, k)
	win, err := eid.BuildWindow(identityKey, k, w, aligned)
	if err != nil {
		return nil, fmt.Errorf("tracker: build initial window: %w", err)
	}

	bt := &BeaconTracker{
		name:        name,
		identityKey: identityKey,
		k:           k,
		w:           w,
		clock:       clk,
		log:         log.Named(name),
		counter:     aligned,
		window:      win,
	}

	if lastSeen != nil {
		bt.hasLastSeen = true
		bt.lastSeen = lastSeen.UTC()
	}

	return bt, nil
}

// Name returns the device name.
func (bt *BeaconTracker) Name() string { return bt.name }

// Counter returns the counter the tracker currently believes is correct.
func (bt *BeaconTracker) Counter() uint32 { return bt.counter }

// LastSeen returns the UTC time of the last successful EID match, and
// whether one has ever occurred.
func (bt *BeaconTracker) LastSeen() (time.Time, bool) { return bt.lastSeen, bt.hasLastSeen }

// Address returns the last BLE address that produced an EID match, and
// whether one has ever occurred.
func (bt *BeaconTracker) Address() (string, bool) { return bt.address, bt.hasAddress }

// Temperature returns the last decrypted telemetry temperature, in °C.
func (bt *BeaconTracker) Temperature() float64 { return bt.temperature }

// BatteryMV returns the last decrypted battery voltage, in millivolts.
func (bt *BeaconTracker) BatteryMV() uint16 { return bt.batteryMV }

// AdvertisingCount returns the last decrypted advertising counter.
func (bt *BeaconTracker) AdvertisingCount() uint32 { return bt.advertisingCount }

// UptimeS returns the last decrypted uptime, in seconds.
func (bt *BeaconTracker) UptimeS() uint32 { return bt.uptimeS }

// SignalStrengthDBM returns the RSSI of the advertisement that carried the
// last successfully decrypted telemetry.
func (bt *BeaconTracker) SignalStrengthDBM() int { return bt.signalStrength }

// NewDataAvailable reports whether telemetry has been updated since the
// last call to ClearNewData.
func (bt *BeaconTracker) NewDataAvailable() bool { return bt.newDataAvailable }

// ClearNewData resets the NewDataAvailable flag. The coordinator calls this
// after publishing a snapshot; the core never clears it on its own.
func (bt *BeaconTracker) ClearNewData() { bt.newDataAvailable = false }

// HasResyncWindow reports whether a resync window is currently active,
// exposed for observability/tests.
func (bt *BeaconTracker) HasResyncWindow() bool { return bt.resync != nil }

// ProcessPacket ingests one advertising frame, dispatching on its first
// service-data byte. It performs only CPU-bounded AES operations and
// in-memory mutations, runs to completion without blocking, and never
// returns an error.
func (bt *BeaconTracker) ProcessPacket(frame AdvertisingFrame) {
	switch classify(frame.Data) {
	case FrameEID:
		bt.handleEID(frame)
	case FrameTLMEncrypted:
		if bt.hasAddress && frame.Address == bt.address {
			bt.handleETLM(frame)
		}
	case FrameUID, FrameURL:
		// Out of scope: ignored.
	default:
		bt.log.Info("dropping unrecognized frame", "device", bt.name, "len", len(frame.Data))
	}
}

func (bt *BeaconTracker) handleEID(frame AdvertisingFrame) {
	now := bt.clock.Now()
	bt.checkStale(now)

	if len(frame.Data) != eidFrameLen {
		bt.log.Info("dropping malformed eid frame", "device", bt.name, "len", len(frame.Data))
		return
	}

	var id eid.EID
	copy(id[:], frame.Data[2:eidFrameLen])

	if idx, ok := bt.window.Search(id); ok {
		bt.resync = nil
		bt.applyMatch(bt.window, idx, frame, now)
		return
	}

	if bt.resync != nil {
		if idx, ok := bt.resync.Search(id); ok {
			bt.window = bt.resync
			bt.resync = nil
			bt.applyMatch(bt.window, idx, frame, now)
			return
		}
	}

	bt.log.Debug("no eid match", "device", bt.name, "counter", bt.counter)
}

// checkStale compares the expected counter (extrapolated from elapsed
// wall-clock time since last_seen) against the active window's trailing
// edge. If the active window is presumably too old to match, a resync
// window is (re)built around the expected counter — the active window is
// never discarded at this stage.
func (bt *BeaconTracker) checkStale(now time.Time) {
	if !bt.hasLastSeen {
		return
	}

	elapsed := now.Sub(bt.lastSeen)
	if elapsed < 0 {
		elapsed = 0
	}
	elapsedSeconds := uint32(elapsed / time.Second)

	expected := eid.AlignCounter(bt.window.CounterAt()+elapsedSeconds, bt.k)
	lastEntry := bt.window.Entry(bt.window.Len() - 1)

	if expected <= lastEntry.Counter {
		return
	}

	if bt.resync != nil && bt.resync.CounterAt() == expected {
		return
	}

	newResync, err := eid.BuildWindow(bt.identityKey, bt.k, bt.w, expected)
	if err != nil {
		bt.log.Info("failed to build resync window", "device", bt.name, "expected", expected, "err", err)
		return
	}

	bt.resync = newResync
	bt.log.Info("built resync window", "device", bt.name, "expected", expected)
}

// applyMatch applies the post-match side effects described in spec.md
// §4.4.2: update last_seen and address, recentre the matched window onto
// index W, and mirror its center counter onto the tracker.
func (bt *BeaconTracker) applyMatch(win *eid.Window, idx int, frame AdvertisingFrame, now time.Time) {
	if err := win.Recenter(idx); err != nil {
		bt.log.Info("failed to recenter window", "device", bt.name, "err", err)
		return
	}

	bt.hasLastSeen = true
	bt.lastSeen = now
	bt.address = frame.Address
	bt.hasAddress = true
	bt.counter = win.CounterAt()

	bt.log.Debug("eid match", "device", bt.name, "counter", bt.counter, "index", idx)
}

func (bt *BeaconTracker) handleETLM(frame AdvertisingFrame) {
	if len(frame.Data) != etlmFrameLen {
		bt.log.Info("dropping malformed etlm frame", "device", bt.name, "len", len(frame.Data))
		return
	}

	f, err := etlm.ParseFrame(frame.Data)
	if err != nil {
		bt.log.Info("dropping malformed etlm frame", "device", bt.name, "err", err)
		return
	}

	telemetry, ok, err := etlm.Decrypt([16]byte(bt.identityKey), bt.counter, f)
	if err != nil {
		bt.log.Info("etlm decryption error", "device", bt.name, "counter", bt.counter, "err", err)
		return
	}
	if !ok {
		bt.log.Info("etlm verification failed", "device", bt.name, "counter", bt.counter)
		return
	}

	bt.temperature = telemetry.TemperatureC()
	bt.batteryMV = telemetry.BatteryMV
	bt.advertisingCount = telemetry.AdvertisingCount
	bt.uptimeS = telemetry.UptimeS
	bt.signalStrength = frame.RSSI
	bt.newDataAvailable = true

	bt.log.Debug("etlm verified", "device", bt.name, "counter", bt.counter)
}
