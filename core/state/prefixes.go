package state

import "fmt"

// Logical key prefixes, one per record family. The key builders below append
// the per-record discriminator before hashing.
var (
	accountPrefix     = []byte("ledger/account/")
	supplyKeyBytes    = []byte("ledger/supply")
	metadataKeyBytes  = []byte("ledger/metadata")
	adminKeyBytes     = []byte("ledger/admin")
	auditorSetKey     = []byte("registry/auditors")
	auditRecordPrefix = []byte("audit/record/")
	auditStatsPrefix  = []byte("audit/stats/")
	stakePrefix       = []byte("stake/position/")
	decayMarkerKey    = []byte("decay/last")
)

func accountKey(addr [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", accountPrefix, addr))
}

func auditRecordKey(auditID uint64, auditor [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%d/%x", auditRecordPrefix, auditID, auditor))
}

func auditStatsKey(auditor [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", auditStatsPrefix, auditor))
}

func stakeKey(staker [20]byte) []byte {
	return []byte(fmt.Sprintf("%s%x", stakePrefix, staker))
}
