// Package ble adapts raw BLE advertisements into the tracker package's
// AdvertisingFrame type, filtering to the Eddystone service UUID the way
// the hubcli ble package filters to its own vendor service UUID.
package ble

import (
	"time"

	"github.com/hubblenetwork/eidtracker/internal/tracker"
)

// RawAdvertisement represents a raw BLE advertisement received from
// scanning, independent of any particular BLE stack.
type RawAdvertisement struct {
	LocalName   string
	ServiceData map[string][]byte
	RSSI        int
	Address     string
	Timestamp   time.Time
}

// ContainsEddystoneService reports whether adv carries service data under
// the Eddystone UUID, in any of its common textual forms.
func ContainsEddystoneService(adv RawAdvertisement) bool {
	for uuid := range adv.ServiceData {
		if isEddystoneUUID(uuid) {
			return true
		}
	}
	return false
}

func isEddystoneUUID(uuid string) bool {
	switch uuid {
	case tracker.EddystoneServiceUUID, "feaa", "FEAA", "0xfeaa", "0xFEAA":
		return true
	default:
		return false
	}
}

// ExtractFrame pulls the Eddystone service-data bytes out of adv and
// returns a tracker.AdvertisingFrame, or ok=false if adv carries no
// Eddystone service data at all. The tracker itself is responsible for
// rejecting bytes of the wrong length or frame type.
func ExtractFrame(adv RawAdvertisement) (tracker.AdvertisingFrame, bool) {
	for uuid, data := range adv.ServiceData {
		if isEddystoneUUID(uuid) {
			return tracker.AdvertisingFrame{
				Address: adv.Address,
				RSSI:    adv.RSSI,
				Data:    data,
			}, true
		}
	}
	return tracker.AdvertisingFrame{}, false
}
