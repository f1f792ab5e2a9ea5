// Package coordinator owns a set of tracker.BeaconTracker instances,
// feeds them frames from a BLE scanner, persists their {counter,
// last_seen} state on change, and publishes periodic snapshots for the
// terminal UI — the periodic-tick/quitChan shape is grounded on the
// dc4eu-vc tree service's ticker loop.
package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/hubblenetwork/eidtracker/internal/ble"
	"github.com/hubblenetwork/eidtracker/internal/clock"
	"github.com/hubblenetwork/eidtracker/internal/config"
	"github.com/hubblenetwork/eidtracker/internal/logging"
	"github.com/hubblenetwork/eidtracker/internal/store"
	"github.com/hubblenetwork/eidtracker/internal/tracker"
)

// DefaultTickInterval is the suggested polling period from the core's
// concurrency model.
const DefaultTickInterval = 60 * time.Second

// Scanner is the subset of ble.Scanner/ble.MockScanner the coordinator
// depends on, so tests can substitute a mock without importing the real
// BLE stack.
type Scanner interface {
	ScanStream(ctx context.Context) (<-chan ble.ScanResult, error)
}

// BeaconSnapshot is a read-only view of one tracked beacon, suitable for
// rendering in the terminal UI without exposing the tracker itself.
type BeaconSnapshot struct {
	Name              string
	Fingerprint       string
	Counter           uint32
	LastSeen          time.Time
	HasLastSeen       bool
	Address           string
	HasAddress        bool
	Temperature       float64
	BatteryMV         uint16
	AdvertisingCount  uint32
	UptimeS           uint32
	SignalStrengthDBM int
	HasResyncWindow   bool
	NewDataAvailable  bool
}

type managedBeacon struct {
	fingerprint string
	tracker     *tracker.BeaconTracker

	hasPersistedSeen bool
	persistedSeen    time.Time
}

// Coordinator wires a Scanner, a Store, and a set of BeaconTrackers
// together and drives them from a single-threaded event loop, matching
// the core's assumption that a tracker's updates are serialized by its
// host.
type Coordinator struct {
	mu      sync.Mutex
	beacons map[string]*managedBeacon

	scanner      Scanner
	store        store.Store
	clock        clock.Clock
	log          *logging.Log
	tickInterval time.Duration

	quitChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Coordinator with no beacons registered yet.
func New(scanner Scanner, st store.Store, clk clock.Clock, log *logging.Log) *Coordinator {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logging.Discard()
	}

	return &Coordinator{
		beacons:      make(map[string]*managedBeacon),
		scanner:      scanner,
		store:        st,
		clock:        clk,
		log:          log.Named("coordinator"),
		tickInterval: DefaultTickInterval,
		quitChan:     make(chan struct{}),
	}
}

// SetTickInterval overrides DefaultTickInterval; callers should do this
// before calling Run.
func (c *Coordinator) SetTickInterval(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickInterval = d
}

// AddBeacon builds a tracker from cfg and previously persisted state (if
// any), and registers it under its fingerprint.
func (c *Coordinator) AddBeacon(cfg config.BeaconConfig) (string, error) {
	fp := store.Fingerprint(cfg.IdentityKey)

	var counter uint32
	var lastSeen *time.Time
	if persisted, err := c.store.Load(fp); err == nil {
		counter = persisted.Counter
		if persisted.HasSeen {
			t := persisted.LastSeen
			lastSeen = &t
		}
	}

	bt, err := tracker.New(cfg.Name, cfg.IdentityKey, cfg.Exponent, cfg.WindowSize, counter, lastSeen, c.clock, c.log)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.beacons[fp] = &managedBeacon{fingerprint: fp, tracker: bt}
	c.mu.Unlock()

	return fp, nil
}

// RemoveBeacon unregisters a beacon and deletes its persisted state.
func (c *Coordinator) RemoveBeacon(fingerprint string) error {
	c.mu.Lock()
	delete(c.beacons, fingerprint)
	c.mu.Unlock()

	return c.store.Delete(fingerprint)
}

// ClearAllState deletes persisted state for every registered beacon. It
// does not touch in-memory tracker state, so a currently-tracked beacon
// keeps its live counter/last-seen until the next persist recreates its
// store entry.
func (c *Coordinator) ClearAllState() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for fp, mb := range c.beacons {
		if err := c.store.Delete(fp); err != nil && firstErr == nil {
			firstErr = err
		}
		mb.hasPersistedSeen = false
	}
	return firstErr
}

// Snapshots returns a BeaconSnapshot for every registered beacon.
func (c *Coordinator) Snapshots() []BeaconSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]BeaconSnapshot, 0, len(c.beacons))
	for _, mb := range c.beacons {
		out = append(out, snapshotOf(mb))
	}
	return out
}

func snapshotOf(mb *managedBeacon) BeaconSnapshot {
	bt := mb.tracker
	lastSeen, hasLastSeen := bt.LastSeen()
	address, hasAddress := bt.Address()

	return BeaconSnapshot{
		Name:              bt.Name(),
		Fingerprint:       mb.fingerprint,
		Counter:           bt.Counter(),
		LastSeen:          lastSeen,
		HasLastSeen:       hasLastSeen,
		Address:           address,
		HasAddress:        hasAddress,
		Temperature:       bt.Temperature(),
		BatteryMV:         bt.BatteryMV(),
		AdvertisingCount:  bt.AdvertisingCount(),
		UptimeS:           bt.UptimeS(),
		SignalStrengthDBM: bt.SignalStrengthDBM(),
		HasResyncWindow:   bt.HasResyncWindow(),
		NewDataAvailable:  bt.NewDataAvailable(),
	}
}

// dispatch hands one scanned frame to every registered tracker, each of
// which decides for itself whether the frame is one of its own, and then
// persists any tracker whose last_seen advanced. This is O(n) in the
// number of registered beacons per packet, acceptable at the scale of a
// handful of tracked tags.
func (c *Coordinator) dispatch(frame ble.ScanResult) {
	if frame.Error != nil {
		c.log.Info("scan error", "err", frame.Error)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, mb := range c.beacons {
		mb.tracker.ProcessPacket(frame.Frame)
		c.maybePersist(mb)
	}
}

// maybePersist saves mb's state only if last_seen advanced since the last
// persist, so a store write happens at most once per genuine EID match
// rather than once per tick or per packet.
func (c *Coordinator) maybePersist(mb *managedBeacon) {
	lastSeen, hasSeen := mb.tracker.LastSeen()
	if !hasSeen {
		return
	}
	if mb.hasPersistedSeen && lastSeen.Equal(mb.persistedSeen) {
		return
	}

	err := c.store.Save(mb.fingerprint, store.State{
		Counter:  mb.tracker.Counter(),
		LastSeen: lastSeen,
		HasSeen:  hasSeen,
	})
	if err != nil {
		c.log.Info("failed to persist beacon state", "name", mb.tracker.Name(), "err", err)
		return
	}

	mb.hasPersistedSeen = true
	mb.persistedSeen = lastSeen
}

// Run starts the scan-ingestion loop and a periodic Tick that persists any
// tracker's state that changed since the last persist, until ctx is
// cancelled or Stop is called.
func (c *Coordinator) Run(ctx context.Context) error {
	results, err := c.scanner.ScanStream(ctx)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(c.tickInterval)
	defer ticker.Stop()

	c.wg.Add(1)
	defer c.wg.Done()

	for {
		select {
		case result, ok := <-results:
			if !ok {
				return nil
			}
			c.dispatch(result)
		case <-ticker.C:
			c.Tick(ctx)
		case <-c.quitChan:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Tick reads every tracker's read-only accessors into a BeaconSnapshot,
// persists {counter, last_seen} via the store only for beacons whose
// last_seen advanced since the previous persist, clears NewDataAvailable
// on each tracker it reads, and returns the resulting snapshots. Run calls
// this once per tick interval; tests may call it directly.
func (c *Coordinator) Tick(ctx context.Context) []BeaconSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]BeaconSnapshot, 0, len(c.beacons))
	for _, mb := range c.beacons {
		c.maybePersist(mb)
		out = append(out, snapshotOf(mb))
		mb.tracker.ClearNewData()
	}
	return out
}

// Stop ends the Run loop and blocks until it has exited.
func (c *Coordinator) Stop() {
	close(c.quitChan)
	c.wg.Wait()
}
