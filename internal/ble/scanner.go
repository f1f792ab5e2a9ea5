package ble

import (
	"context"
	"errors"
	"sync"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/hubblenetwork/eidtracker/internal/tracker"
)

var (
	// ErrAdapterNotEnabled indicates Bluetooth could not be enabled.
	ErrAdapterNotEnabled = errors.New("ble: bluetooth adapter not enabled")
	// ErrScanInProgress indicates a scan is already running on this Scanner.
	ErrScanInProgress = errors.New("ble: scan already in progress")
)

// ScanResult is one item streamed from Scanner.ScanStream: either a frame
// recognized under the Eddystone UUID, or an error from the adapter.
type ScanResult struct {
	Frame tracker.AdvertisingFrame
	Raw   RawAdvertisement
	Error error
}

// Scanner is the production BLE source, wrapping tinygo.org/x/bluetooth.
type Scanner struct {
	adapter *bluetooth.Adapter

	mu       sync.Mutex
	scanning bool
	stopCh   chan struct{}
}

// NewScanner enables the default Bluetooth adapter and returns a Scanner
// bound to it.
func NewScanner() (*Scanner, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, errors.Join(ErrAdapterNotEnabled, err)
	}

	return &Scanner{adapter: adapter}, nil
}

// IsScanning reports whether a scan is currently running.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// Stop ends an in-progress scan; it is a no-op if none is running.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scanning && s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}
}

// ScanStream starts scanning and streams recognized Eddystone frames (and
// any adapter error) on the returned channel until ctx is cancelled or
// Stop is called. The channel is closed when scanning ends.
func (s *Scanner) ScanStream(ctx context.Context) (<-chan ScanResult, error) {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	s.scanning = true
	stopCh := make(chan struct{})
	s.stopCh = stopCh
	s.mu.Unlock()

	results := make(chan ScanResult, 100)

	go func() {
		defer func() {
			s.mu.Lock()
			s.scanning = false
			s.mu.Unlock()
			close(results)
		}()

		err := s.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			select {
			case <-stopCh:
				adapter.StopScan()
				return
			case <-ctx.Done():
				adapter.StopScan()
				return
			default:
			}

			raw := convertScanResult(result)
			if !ContainsEddystoneService(raw) {
				return
			}

			frame, ok := ExtractFrame(raw)
			scanResult := ScanResult{Raw: raw}
			if ok {
				scanResult.Frame = frame
			}

			select {
			case results <- scanResult:
			default:
			}
		})
		if err != nil {
			results <- ScanResult{Error: err}
		}
	}()

	return results, nil
}

func convertScanResult(result bluetooth.ScanResult) RawAdvertisement {
	raw := RawAdvertisement{
		LocalName:   result.LocalName(),
		RSSI:        int(result.RSSI),
		Address:     result.Address.String(),
		Timestamp:   time.Now(),
		ServiceData: make(map[string][]byte),
	}

	for _, elem := range result.ServiceData() {
		raw.ServiceData[elem.UUID.String()] = elem.Data
	}

	return raw
}

// MockScanner is a Scanner substitute for tests and for development
// without real BLE hardware: it replays a fixed sequence of frames.
type MockScanner struct {
	Frames []tracker.AdvertisingFrame
	Error  error

	mu       sync.Mutex
	scanning bool
}

// NewMockScanner creates a mock scanner with no pre-configured frames.
func NewMockScanner() *MockScanner {
	return &MockScanner{}
}

// SetFrames sets the frames the next ScanStream call replays.
func (m *MockScanner) SetFrames(frames []tracker.AdvertisingFrame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames = frames
}

// IsScanning reports whether a mock scan is in progress.
func (m *MockScanner) IsScanning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanning
}

// Stop is a no-op; the mock scanner stops on its own once it has replayed
// every configured frame, or when the context passed to ScanStream ends.
func (m *MockScanner) Stop() {}

// ScanStream replays the configured frames on a channel, one every 10ms,
// then closes it.
func (m *MockScanner) ScanStream(ctx context.Context) (<-chan ScanResult, error) {
	m.mu.Lock()
	if m.Error != nil {
		err := m.Error
		m.mu.Unlock()
		return nil, err
	}
	frames := m.Frames
	m.scanning = true
	m.mu.Unlock()

	results := make(chan ScanResult, len(frames))

	go func() {
		defer func() {
			m.mu.Lock()
			m.scanning = false
			m.mu.Unlock()
			close(results)
		}()

		for _, f := range frames {
			select {
			case <-ctx.Done():
				return
			default:
				results <- ScanResult{Frame: f}
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	return results, nil
}
