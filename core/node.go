package core

import (
	"fmt"
	"sync"

	"repledger/core/events"
	"repledger/core/state"
	"repledger/core/types"
	"repledger/native/audit"
	"repledger/native/common"
	"repledger/native/decay"
	"repledger/native/ledger"
	"repledger/native/registry"
	"repledger/native/staking"
	"repledger/storage"
)

// Params bundles the chain parameters established at initialisation.
type Params struct {
	MaxSupply   uint64
	DecayRate   uint64
	DecayPeriod uint64
	MaxAuditors uint64
	RewardRate  uint64
	Token       types.TokenMetadata
	Admin       [20]byte
}

// Validate ensures the parameter set is internally consistent.
func (p Params) Validate() error {
	if p.MaxSupply == 0 {
		return fmt.Errorf("core: max supply must be positive")
	}
	if err := (decay.Params{RatePercent: p.DecayRate, PeriodBlocks: p.DecayPeriod}).Validate(); err != nil {
		return err
	}
	if p.Admin == ([20]byte{}) {
		return fmt.Errorf("core: admin identity required")
	}
	return nil
}

// Node owns the ledger state and serializes every mutating call behind a
// single writer lock, reproducing the atomic all-or-nothing transition the
// original hosting environment guaranteed. The height counter stands in for
// the host's monotonic block height; the core never advances it on its own.
type Node struct {
	mu      sync.Mutex
	db      storage.Database
	manager *state.Manager
	params  Params

	ledger   *ledger.Engine
	decay    *decay.Engine
	registry *registry.Engine
	audit    *audit.Engine
	staking  *staking.Engine

	collector *events.Collector
	height    uint64
}

// NewNode constructs a node over the provided database and wires every engine
// against the shared state manager and event collector.
func NewNode(db storage.Database, params Params) (*Node, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	manager := state.NewManager(db)
	collector := events.NewCollector(1024)

	decayEngine, err := decay.NewEngine(manager, decay.Params{RatePercent: params.DecayRate, PeriodBlocks: params.DecayPeriod})
	if err != nil {
		return nil, err
	}
	stakingEngine, err := staking.NewEngine(manager, staking.Params{RewardRatePercent: params.RewardRate, PeriodBlocks: params.DecayPeriod})
	if err != nil {
		return nil, err
	}
	node := &Node{
		db:        db,
		manager:   manager,
		params:    params,
		ledger:    ledger.NewEngine(manager, params.MaxSupply),
		decay:     decayEngine,
		registry:  registry.NewEngine(manager, params.MaxAuditors),
		audit:     audit.NewEngine(manager),
		staking:   stakingEngine,
		collector: collector,
	}
	node.ledger.SetEmitter(collector)
	node.decay.SetEmitter(collector)
	node.registry.SetEmitter(collector)
	node.audit.SetEmitter(collector)
	node.staking.SetEmitter(collector)
	return node, nil
}

// InitGenesis establishes token metadata, the administrative identity and the
// initial allocations. It is a no-op when state already carries metadata, so
// restarting against an existing database is safe.
func (n *Node) InitGenesis(allocations map[[20]byte]uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, ok, err := n.manager.TokenMetadata(); err != nil {
		return err
	} else if ok {
		return nil
	}
	total := uint64(0)
	for _, amount := range allocations {
		sum, err := common.SafeAdd(total, amount)
		if err != nil {
			return err
		}
		total = sum
	}
	if total > n.params.MaxSupply {
		return fmt.Errorf("core: genesis allocations %d exceed max supply %d", total, n.params.MaxSupply)
	}
	if err := n.manager.SetTokenMetadata(&n.params.Token); err != nil {
		return err
	}
	if err := n.manager.SetAdmin(n.params.Admin); err != nil {
		return err
	}
	for holder, amount := range allocations {
		if err := n.manager.PutAccount(holder, &types.Account{Balance: amount}); err != nil {
			return err
		}
	}
	return n.manager.SetTokenSupply(total)
}

// SetHeight advances the monotonic height counter. Regressions are ignored to
// preserve the host's non-decreasing time guarantee.
func (n *Node) SetHeight(height uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if height > n.height {
		n.height = height
	}
}

// Height reports the current height counter.
func (n *Node) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height
}

// --- Mutating operations ---

// Transfer moves amount between participant balances.
func (n *Node) Transfer(caller, from, to [20]byte, amount uint64, memo string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Transfer(caller, from, to, amount, memo, n.height)
}

// Burn destroys amount from the owner's balance.
func (n *Node) Burn(caller, owner [20]byte, amount uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Burn(caller, owner, amount)
}

// VerifyAuditor adds the candidate to the verified auditor set.
func (n *Node) VerifyAuditor(caller, candidate [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.Verify(caller, candidate)
}

// RemoveAuditor deletes the auditor from the verified set.
func (n *Node) RemoveAuditor(caller, auditor [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.Remove(caller, auditor)
}

// AuditAuditor emits the peer-audit liveness signal for the target.
func (n *Node) AuditAuditor(target [20]byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.AuditAuditor(target)
}

// SubmitAuditReport accepts a scored audit report from a verified auditor and
// returns the computed quality score.
func (n *Node) SubmitAuditReport(caller [20]byte, auditID, completeness, accuracy, timeliness uint64, auditData string) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audit.SubmitReport(caller, auditID, completeness, accuracy, timeliness, auditData, n.height)
}

// StakeTokens locks amount from the caller for lockPeriod blocks.
func (n *Node) StakeTokens(caller [20]byte, amount, lockPeriod uint64) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.staking.Stake(caller, amount, lockPeriod, n.height)
}

// UnstakeTokens releases the caller's matured position and returns the freed
// amount.
func (n *Node) UnstakeTokens(caller [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.staking.Unstake(caller, n.height)
}

// TriggerDecay advances the global decay marker when a full period elapsed.
func (n *Node) TriggerDecay() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.decay.TriggerDecay(n.height)
}

// --- Query surface (read-only, side-effect free) ---

// BalanceOf returns the raw balance for the address.
func (n *Node) BalanceOf(addr [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.BalanceOf(addr)
}

// DecayedBalanceOf returns the time-decayed projection for the address.
func (n *Node) DecayedBalanceOf(addr [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.decay.DecayedBalance(addr, n.height)
}

// TotalSupply returns the current total supply.
func (n *Node) TotalSupply() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.TotalSupply()
}

// TokenMetadata returns the immutable token descriptors.
func (n *Node) TokenMetadata() (*types.TokenMetadata, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.Metadata()
}

// CheckMaxSupply reports whether the total supply escaped the cap.
func (n *Node) CheckMaxSupply() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.ledger.CheckMaxSupply()
}

// IsAuditor reports registry membership for the identity.
func (n *Node) IsAuditor(addr [20]byte) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.IsAuditor(addr)
}

// AuditorCount reports the size of the verified auditor set.
func (n *Node) AuditorCount() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.registry.Count()
}

// AuditRecord returns the stored report for (auditID, auditor).
func (n *Node) AuditRecord(auditID uint64, auditor [20]byte) (*types.AuditRecord, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audit.Record(auditID, auditor)
}

// AuditorStats returns the running statistics for the auditor.
func (n *Node) AuditorStats(auditor [20]byte) (*types.AuditorStats, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.audit.Stats(auditor)
}

// StakingPosition returns the staker's active position, if any.
func (n *Node) StakingPosition(staker [20]byte) (*types.StakingPosition, bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.staking.Position(staker)
}

// StakeRewards projects the accrued reward for the staker.
func (n *Node) StakeRewards(staker [20]byte) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.staking.Rewards(staker, n.height)
}

// LastDecayHeight reports the most recent accepted decay trigger.
func (n *Node) LastDecayHeight() (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.decay.LastTrigger()
}

// RecentEvents returns the retained event log, oldest first.
func (n *Node) RecentEvents() []*types.Event {
	return n.collector.Recent()
}

// Close releases the underlying database.
func (n *Node) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.db.Close()
}
