package state

import (
	"fmt"

	"repledger/core/types"
)

// StakingPosition returns the active position for the staker. The boolean
// reports whether a position exists.
func (m *Manager) StakingPosition(staker [20]byte) (*types.StakingPosition, bool, error) {
	if m == nil {
		return nil, false, fmt.Errorf("state manager unavailable")
	}
	position := new(types.StakingPosition)
	ok, err := m.KVGet(stakeKey(staker), position)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return position, true, nil
}

// PutStakingPosition records the active position for the staker.
func (m *Manager) PutStakingPosition(staker [20]byte, position *types.StakingPosition) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if position == nil {
		return fmt.Errorf("staking position required")
	}
	return m.KVPut(stakeKey(staker), position)
}

// DeleteStakingPosition removes the staker's position after release.
func (m *Manager) DeleteStakingPosition(staker [20]byte) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	return m.KVDelete(stakeKey(staker))
}
