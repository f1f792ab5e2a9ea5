package eid

import "fmt"

// WindowEntry is a single candidate counter/identifier pair.
type WindowEntry struct {
	Counter uint32
	EID     EID
}

// Window is the ordered sequence of 2*W+1 candidate identifiers a receiver
// searches against. Counters increase by 2^K (wrapping) between successive
// entries; the entry at index W is the device's currently believed counter.
type Window struct {
	identityKey IdentityKey
	k           uint8
	w           int

	entries []WindowEntry

	tempKey  [TempKeySize]byte
	upper    uint16
	haveTemp bool
}

// Center returns the index of the window's center entry (always W).
func (win *Window) Center() int {
	return win.w
}

// Len returns the number of entries in the window (always 2*W+1).
func (win *Window) Len() int {
	return len(win.entries)
}

// Entry returns the entry at index i.
func (win *Window) Entry(i int) WindowEntry {
	return win.entries[i]
}

// Entries returns the window's entries in order. The returned slice must
// not be mutated by the caller.
func (win *Window) Entries() []WindowEntry {
	return win.entries
}

// CounterAt returns the counter of the center entry, i.e. the counter the
// window currently believes is correct.
func (win *Window) CounterAt() uint32 {
	return win.entries[win.w].Counter
}

// step returns 2^K as a wrapping uint32 addend.
func (win *Window) step() uint32 {
	return uint32(1) << win.k
}

// derive computes the EID at counter, reusing the cached temporary key
// unless counter's upper 16 bits differ from the cached epoch.
func (win *Window) derive(counter uint32) (EID, error) {
	up := UpperCount(counter)
	if !win.haveTemp || up != win.upper {
		tk, err := DeriveTempKey(win.identityKey, up)
		if err != nil {
			return EID{}, err
		}
		win.tempKey = tk
		win.upper = up
		win.haveTemp = true
	}
	return Derive(win.tempKey, win.k, counter)
}

// BuildWindow constructs a window of 2*W+1 entries centered on
// centerCounter, whose low K bits must already be zero.
func BuildWindow(identityKey IdentityKey, k uint8, w int, centerCounter uint32) (*Window, error) {
	if k > MaxExponent {
		return nil, fmt.Errorf("eid: exponent K=%d out of range 0..%d", k, MaxExponent)
	}
	if w < 1 {
		return nil, fmt.Errorf("eid: window size W=%d must be >= 1", w)
	}
	if centerCounter&CounterMask(k) != 0 {
		return nil, fmt.Errorf("eid: center counter %#x not aligned to K=%d", centerCounter, k)
	}

	win := &Window{identityKey: identityKey, k: k, w: w}
	step := win.step()

	c := centerCounter - uint32(w)*step
	entries := make([]WindowEntry, 0, 2*w+1)
	for i := 0; i < 2*w+1; i++ {
		e, err := win.derive(c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, WindowEntry{Counter: c, EID: e})
		c += step
	}
	win.entries = entries
	return win, nil
}

// Search scans the window for id, returning the index of the first match.
// Equal EIDs are not expected to occur (AES-derived uniqueness), but if
// they ever did, the first hit wins.
func (win *Window) Search(id EID) (int, bool) {
	for i, e := range win.entries {
		if e.EID == id {
			return i, true
		}
	}
	return -1, false
}

// Recenter shifts the window, one boundary entry at a time, until the
// match found at index i sits at the center (index W). Each boundary
// replacement derives at most one new entry, re-deriving the temporary key
// only when the new boundary crosses a 16-bit upper-counter epoch.
func (win *Window) Recenter(i int) error {
	step := win.step()

	for i < win.w {
		newCounter := win.entries[0].Counter - step
		e, err := win.derive(newCounter)
		if err != nil {
			return err
		}
		win.entries = append([]WindowEntry{{Counter: newCounter, EID: e}}, win.entries[:len(win.entries)-1]...)
		i++
	}

	for i > win.w {
		last := win.entries[len(win.entries)-1]
		newCounter := last.Counter + step
		e, err := win.derive(newCounter)
		if err != nil {
			return err
		}
		win.entries = append(win.entries[1:], WindowEntry{Counter: newCounter, EID: e})
		i--
	}

	return nil
}
