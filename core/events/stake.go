package events

import (
	"strconv"

	"repledger/core/types"
)

const (
	// TypeTokensStaked captures a new staking lock.
	TypeTokensStaked = "stake.locked"
	// TypeTokensUnstaked captures a released staking lock.
	TypeTokensUnstaked = "stake.released"
	// TypeDecayTriggered captures an accepted global decay trigger.
	TypeDecayTriggered = "decay.triggered"
)

// TokensStaked captures the lock recorded when tokens are staked.
type TokensStaked struct {
	Staker       [20]byte
	Amount       uint64
	UnlockHeight uint64
}

// EventType satisfies the Event interface.
func (TokensStaked) EventType() string { return TypeTokensStaked }

// Event converts the structured payload into a broadcastable event.
func (e TokensStaked) Event() *types.Event {
	return &types.Event{Type: TypeTokensStaked, Attributes: map[string]string{
		"staker":       formatAddress(e.Staker),
		"amount":       formatAmount(e.Amount),
		"unlockHeight": strconv.FormatUint(e.UnlockHeight, 10),
	}}
}

// TokensUnstaked captures the release of a matured staking lock.
type TokensUnstaked struct {
	Staker [20]byte
	Amount uint64
}

// EventType satisfies the Event interface.
func (TokensUnstaked) EventType() string { return TypeTokensUnstaked }

// Event converts the structured payload into a broadcastable event.
func (e TokensUnstaked) Event() *types.Event {
	return &types.Event{Type: TypeTokensUnstaked, Attributes: map[string]string{
		"staker": formatAddress(e.Staker),
		"amount": formatAmount(e.Amount),
	}}
}

// DecayTriggered captures the advance of the global decay marker.
type DecayTriggered struct {
	Height uint64
}

// EventType satisfies the Event interface.
func (DecayTriggered) EventType() string { return TypeDecayTriggered }

// Event converts the structured payload into a broadcastable event.
func (e DecayTriggered) Event() *types.Event {
	return &types.Event{Type: TypeDecayTriggered, Attributes: map[string]string{
		"height": strconv.FormatUint(e.Height, 10),
	}}
}
