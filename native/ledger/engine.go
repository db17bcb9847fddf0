package ledger

import (
	"repledger/core/errors"
	"repledger/core/events"
	"repledger/core/types"
	"repledger/native/common"
)

// ledgerState abstracts the subset of state manager functionality required by
// the token ledger.
type ledgerState interface {
	Account(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
	TokenSupply() (uint64, error)
	SetTokenSupply(total uint64) error
	TokenMetadata() (*types.TokenMetadata, bool, error)
}

// Engine implements the fungible reputation balance ledger. All preconditions
// are checked before the first write so a failed call leaves state untouched.
type Engine struct {
	state     ledgerState
	emitter   events.Emitter
	maxSupply uint64
}

// NewEngine constructs a ledger engine bound to the provided state backend.
func NewEngine(state ledgerState, maxSupply uint64) *Engine {
	return &Engine{state: state, emitter: events.NoopEmitter{}, maxSupply: maxSupply}
}

// SetEmitter overrides the event sink. A nil emitter restores the discard
// default.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// MaxSupply reports the configured supply cap.
func (e *Engine) MaxSupply() uint64 {
	if e == nil {
		return 0
	}
	return e.maxSupply
}

// Transfer debits from and credits to, recording the recipient's last
// interaction at the current height. The caller must be the sender.
func (e *Engine) Transfer(caller, from, to [20]byte, amount uint64, memo string, now uint64) error {
	if caller != from {
		return errors.ErrUnauthorized
	}
	if amount == 0 {
		return errors.ErrZeroAmount
	}
	if from == to {
		return errors.ErrSelfTransfer
	}
	sender, err := e.state.Account(from)
	if err != nil {
		return err
	}
	if sender.Balance < amount {
		return errors.ErrInsufficientFunds
	}
	recipient, err := e.state.Account(to)
	if err != nil {
		return err
	}
	debited, err := common.SafeSub(sender.Balance, amount)
	if err != nil {
		return err
	}
	credited, err := common.SafeAdd(recipient.Balance, amount)
	if err != nil {
		return err
	}
	sender.Balance = debited
	recipient.Balance = credited
	recipient.LastInteraction = now
	if err := e.state.PutAccount(from, sender); err != nil {
		return err
	}
	if err := e.state.PutAccount(to, recipient); err != nil {
		return err
	}
	e.emitter.Emit(events.Transfer{From: from, To: to, Amount: amount, Memo: memo})
	return nil
}

// Burn destroys amount from the owner's balance, shrinking total supply. The
// caller must be the owner.
func (e *Engine) Burn(caller, owner [20]byte, amount uint64) error {
	if caller != owner {
		return errors.ErrUnauthorized
	}
	if amount == 0 {
		return errors.ErrZeroAmount
	}
	account, err := e.state.Account(owner)
	if err != nil {
		return err
	}
	if account.Balance < amount {
		return errors.ErrInsufficientFunds
	}
	supply, err := e.state.TokenSupply()
	if err != nil {
		return err
	}
	debited, err := common.SafeSub(account.Balance, amount)
	if err != nil {
		return err
	}
	reduced, err := common.SafeSub(supply, amount)
	if err != nil {
		return err
	}
	account.Balance = debited
	if err := e.state.PutAccount(owner, account); err != nil {
		return err
	}
	if err := e.state.SetTokenSupply(reduced); err != nil {
		return err
	}
	e.emitter.Emit(events.Burned{Owner: owner, Amount: amount, Supply: reduced})
	return nil
}

// BalanceOf returns the raw (undecayed) balance for the address.
func (e *Engine) BalanceOf(addr [20]byte) (uint64, error) {
	account, err := e.state.Account(addr)
	if err != nil {
		return 0, err
	}
	return account.Balance, nil
}

// TotalSupply returns the current total supply.
func (e *Engine) TotalSupply() (uint64, error) {
	return e.state.TokenSupply()
}

// Metadata returns the immutable token descriptors.
func (e *Engine) Metadata() (*types.TokenMetadata, error) {
	meta, ok, err := e.state.TokenMetadata()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.ErrNotFound
	}
	return meta, nil
}

// CheckMaxSupply is a monitoring query reporting whether the total supply has
// escaped the configured cap. It enforces nothing; no mint path exists.
func (e *Engine) CheckMaxSupply() error {
	supply, err := e.state.TokenSupply()
	if err != nil {
		return err
	}
	if supply > e.maxSupply {
		return errors.ErrSupplyExceeded
	}
	return nil
}
