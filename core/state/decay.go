package state

import "fmt"

// LastDecayHeight returns the height recorded by the most recent global decay
// trigger. Missing markers default to zero, making the first trigger eligible
// once a full period has elapsed from genesis.
func (m *Manager) LastDecayHeight() (uint64, error) {
	if m == nil {
		return 0, fmt.Errorf("state manager unavailable")
	}
	var height uint64
	ok, err := m.KVGet(decayMarkerKey, &height)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return height, nil
}

// SetLastDecayHeight advances the global decay marker.
func (m *Manager) SetLastDecayHeight(height uint64) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	return m.KVPut(decayMarkerKey, height)
}
