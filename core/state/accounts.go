package state

import (
	"fmt"

	"repledger/core/types"
)

// Account returns the stored account for the address. Missing accounts
// default to a zero balance with no recorded interaction.
func (m *Manager) Account(addr [20]byte) (*types.Account, error) {
	if m == nil {
		return nil, fmt.Errorf("state manager unavailable")
	}
	account := new(types.Account)
	ok, err := m.KVGet(accountKey(addr), account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Account{}, nil
	}
	return account, nil
}

// PutAccount overwrites the stored account record for the address.
func (m *Manager) PutAccount(addr [20]byte, account *types.Account) error {
	if m == nil {
		return fmt.Errorf("state manager unavailable")
	}
	if account == nil {
		account = &types.Account{}
	}
	return m.KVPut(accountKey(addr), account)
}
