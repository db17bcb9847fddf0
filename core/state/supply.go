package state

import (
	"fmt"

	"repledger/core/types"
)

// TokenSupply returns the persisted total supply. Missing entries default to
// zero.
func (m *Manager) TokenSupply() (uint64, error) {
	if m == nil {
		return 0, fmt.Errorf("state manager unavailable")
	}
	var total uint64
	ok, err := m.KVGet(supplyKeyBytes, &total)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return total, nil
}

// SetTokenSupply overwrites the stored total supply.
func (m *Manager) SetTokenSupply(total uint64) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	return m.KVPut(supplyKeyBytes, total)
}

// TokenMetadata returns the stored token descriptors. The boolean reports
// whether metadata has been initialised.
func (m *Manager) TokenMetadata() (*types.TokenMetadata, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("state manager unavailable")
	}
	meta := new(types.TokenMetadata)
	ok, err := m.KVGet(metadataKeyBytes, meta)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return meta, true, nil
}

// SetTokenMetadata stores the token descriptors. Metadata is immutable after
// initialisation; re-initialisation is rejected.
func (m *Manager) SetTokenMetadata(meta *types.TokenMetadata) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if meta == nil {
		return fmt.Errorf("token metadata required")
	}
	if _, ok, err := m.TokenMetadata(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("token metadata already initialised")
	}
	return m.KVPut(metadataKeyBytes, meta)
}

// Admin returns the administrative identity established at initialisation.
func (m *Manager) Admin() ([20]byte, bool, error) {
	var admin [20]byte
	if m == nil {
		return admin, false, fmt.Errorf("state manager unavailable")
	}
	var raw []byte
	ok, err := m.KVGet(adminKeyBytes, &raw)
	if err != nil {
		return admin, false, err
	}
	if !ok || len(raw) != 20 {
		return admin, false, nil
	}
	copy(admin[:], raw)
	return admin, true, nil
}

// SetAdmin stores the administrative identity. The admin is immutable for the
// system's lifetime; re-initialisation is rejected.
func (m *Manager) SetAdmin(admin [20]byte) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if _, ok, err := m.Admin(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("admin already initialised")
	}
	return m.KVPut(adminKeyBytes, admin[:])
}
