package store

import (
	"github.com/zalando/go-keyring"
)

// KeychainService is the service name under which beacon state is stored
// in the OS keychain.
const KeychainService = "eidtracker"

// KeychainStore implements Store using the OS keychain via go-keyring, one
// item per beacon fingerprint holding a JSON-encoded State.
type KeychainStore struct{}

// NewKeychainStore creates a new KeychainStore.
func NewKeychainStore() *KeychainStore {
	return &KeychainStore{}
}

// Load retrieves the persisted state for fingerprint, or ErrNotFound if
// nothing has been saved yet.
func (s *KeychainStore) Load(fingerprint string) (State, error) {
	raw, err := keyring.Get(KeychainService, fingerprint)
	if err != nil {
		if err == keyring.ErrNotFound {
			return State{}, ErrNotFound
		}
		return State{}, err
	}

	return decodeState(raw)
}

// Save persists state under fingerprint, overwriting any prior value.
func (s *KeychainStore) Save(fingerprint string, state State) error {
	raw, err := encodeState(state)
	if err != nil {
		return err
	}
	return keyring.Set(KeychainService, fingerprint, raw)
}

// Delete removes the persisted state for fingerprint, ignoring a
// not-found error since the end state is the same either way.
func (s *KeychainStore) Delete(fingerprint string) error {
	err := keyring.Delete(KeychainService, fingerprint)
	if err != nil && err != keyring.ErrNotFound {
		return err
	}
	return nil
}
