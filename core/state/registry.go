package state

import (
	"bytes"
	"fmt"
	"sort"
)

// Auditors returns the verified auditor set as raw 20-byte identities, sorted
// lexicographically. The set is stored as a single aggregate record so the
// count is always derived from the cardinality rather than tracked in a
// separate counter.
func (m *Manager) Auditors() ([][20]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("state manager unavailable")
	}
	var raw [][]byte
	ok, err := m.KVGet(auditorSetKey, &raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return [][20]byte{}, nil
	}
	set := make([][20]byte, 0, len(raw))
	for _, entry := range raw {
		if len(entry) != 20 {
			return nil, fmt.Errorf("registry: malformed auditor entry (%d bytes)", len(entry))
		}
		var addr [20]byte
		copy(addr[:], entry)
		set = append(set, addr)
	}
	return set, nil
}

// SetAuditors overwrites the verified auditor set. Entries are normalised to
// sorted order to keep the stored record deterministic.
func (m *Manager) SetAuditors(set [][20]byte) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	raw := make([][]byte, 0, len(set))
	for _, addr := range set {
		raw = append(raw, append([]byte(nil), addr[:]...))
	}
	sort.Slice(raw, func(i, j int) bool { return bytes.Compare(raw[i], raw[j]) < 0 })
	return m.KVPut(auditorSetKey, raw)
}

// IsAuditor reports whether the identity is a verified auditor.
func (m *Manager) IsAuditor(addr [20]byte) (bool, error) {
	set, err := m.Auditors()
	if err != nil {
		return false, err
	}
	for _, auditor := range set {
		if auditor == addr {
			return true, nil
		}
	}
	return false, nil
}

// AuditorCount reports the cardinality of the verified auditor set.
func (m *Manager) AuditorCount() (uint64, error) {
	set, err := m.Auditors()
	if err != nil {
		return 0, err
	}
	return uint64(len(set)), nil
}
