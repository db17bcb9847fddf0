package state

import (
	"fmt"

	"repledger/core/types"
)

// AuditRecord returns the stored report for (auditID, auditor). The boolean
// reports whether the record exists.
func (m *Manager) AuditRecord(auditID uint64, auditor [20]byte) (*types.AuditRecord, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("state manager unavailable")
	}
	record := new(types.AuditRecord)
	ok, err := m.KVGet(auditRecordKey(auditID, auditor), record)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return record, true, nil
}

// PutAuditRecord stores the report under (auditID, auditor). Records are
// immutable once written; duplicate guarding is enforced by the audit engine.
func (m *Manager) PutAuditRecord(auditID uint64, auditor [20]byte, record *types.AuditRecord) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if record == nil {
		return fmt.Errorf("audit record required")
	}
	return m.KVPut(auditRecordKey(auditID, auditor), record)
}

// AuditorStats returns the running statistics for the auditor. Missing
// entries default to zero counts with the baseline multiplier unset.
func (m *Manager) AuditorStats(auditor [20]byte) (*types.AuditorStats, error) {
	if m == nil {
		return nil, fmt.Errorf("state manager unavailable")
	}
	stats := new(types.AuditorStats)
	ok, err := m.KVGet(auditStatsKey(auditor), stats)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.AuditorStats{}, nil
	}
	return stats, nil
}

// PutAuditorStats overwrites the running statistics for the auditor.
func (m *Manager) PutAuditorStats(auditor [20]byte, stats *types.AuditorStats) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if stats == nil {
		stats = &types.AuditorStats{}
	}
	return m.KVPut(auditStatsKey(auditor), stats)
}
