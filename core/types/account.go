package types

// Account captures the reputation balance held by a participant. Balances are
// unsigned fixed-point integers with six implied decimals. LastInteraction
// records the block height of the most recent balance-affecting operation and
// anchors the decay projection.
type Account struct {
	Balance         uint64 `json:"balance"`
	LastInteraction uint64 `json:"lastInteraction"`
}

// AuditRecord is an immutable audit report stored under (auditID, auditor).
type AuditRecord struct {
	Score     uint64 `json:"score"`
	Height    uint64 `json:"height"`
	Status    string `json:"status"`
	AuditData string `json:"auditData"`
}

// AuditStatusCompleted is the only status produced by report submission.
const AuditStatusCompleted = "completed"

// AuditorStats tracks the running statistics for a verified auditor. The
// average is an integer running mean in [0,100]; the multiplier is a tiered
// scalar in hundredths (100 = 1.0x, 125 = 1.25x, 150 = 1.5x).
type AuditorStats struct {
	TotalAudits          uint64 `json:"totalAudits"`
	AverageScore         uint64 `json:"averageScore"`
	ReputationMultiplier uint64 `json:"reputationMultiplier"`
}

// StakingPosition records tokens locked by a holder until a future height.
type StakingPosition struct {
	Amount       uint64 `json:"amount"`
	UnlockHeight uint64 `json:"unlockHeight"`
}

// TokenMetadata carries the immutable-after-init token descriptors.
type TokenMetadata struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
	URI      string `json:"uri"`
}
