package staking

import (
	stderrors "errors"
	"math/big"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"repledger/core/errors"
	"repledger/core/events"
	"repledger/core/types"
	"repledger/native/common"
)

// BaseRewardRate is the reward percentage applied per reward period.
const BaseRewardRate uint64 = 5

// CustodyAddress is the ledger's own holding identity for locked stakes. It
// is derived deterministically so every deployment shares the same custodial
// account and no key material exists for it.
var CustodyAddress = deriveCustody()

func deriveCustody() [20]byte {
	digest := ethcrypto.Keccak256([]byte("repledger/staking/custody"))
	var out [20]byte
	copy(out[:], digest[12:])
	return out
}

// Params controls reward accrual for released positions.
type Params struct {
	// RewardRatePercent is the reward percentage per period.
	RewardRatePercent uint64
	// PeriodBlocks is the accrual period length, shared with the decay
	// period in the reference configuration.
	PeriodBlocks uint64
}

// Validate ensures the configuration is internally consistent.
func (p Params) Validate() error {
	if p.PeriodBlocks == 0 {
		return stderrors.New("staking: period must be positive")
	}
	return nil
}

// stakingState abstracts the subset of state manager functionality required
// by the staking engine.
type stakingState interface {
	Account(addr [20]byte) (*types.Account, error)
	PutAccount(addr [20]byte, account *types.Account) error
	StakingPosition(staker [20]byte) (*types.StakingPosition, bool, error)
	PutStakingPosition(staker [20]byte, position *types.StakingPosition) error
	DeleteStakingPosition(staker [20]byte) error
}

// Engine locks balances into the custodial holding identity and releases
// them once the lock matures. Rewards are a pure projection; no payout path
// exists.
type Engine struct {
	state   stakingState
	emitter events.Emitter
	params  Params
}

// NewEngine constructs a staking engine with the supplied parameters.
func NewEngine(state stakingState, params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.RewardRatePercent == 0 {
		params.RewardRatePercent = BaseRewardRate
	}
	return &Engine{state: state, emitter: events.NoopEmitter{}, params: params}, nil
}

// SetEmitter overrides the event sink.
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

// Stake locks amount from the caller until now+lockPeriod. A caller with an
// active position must release it first; overlapping locks are rejected so no
// funds are silently orphaned.
func (e *Engine) Stake(caller [20]byte, amount, lockPeriod, now uint64) error {
	if amount == 0 {
		return errors.ErrZeroAmount
	}
	if _, active, err := e.state.StakingPosition(caller); err != nil {
		return err
	} else if active {
		return errors.ErrStakeActive
	}
	staker, err := e.state.Account(caller)
	if err != nil {
		return err
	}
	if staker.Balance < amount {
		return errors.ErrInsufficientFunds
	}
	custody, err := e.state.Account(CustodyAddress)
	if err != nil {
		return err
	}
	unlockHeight, err := common.SafeAdd(now, lockPeriod)
	if err != nil {
		return err
	}
	debited, err := common.SafeSub(staker.Balance, amount)
	if err != nil {
		return err
	}
	credited, err := common.SafeAdd(custody.Balance, amount)
	if err != nil {
		return err
	}
	staker.Balance = debited
	custody.Balance = credited
	custody.LastInteraction = now
	if err := e.state.PutAccount(caller, staker); err != nil {
		return err
	}
	if err := e.state.PutAccount(CustodyAddress, custody); err != nil {
		return err
	}
	position := &types.StakingPosition{Amount: amount, UnlockHeight: unlockHeight}
	if err := e.state.PutStakingPosition(caller, position); err != nil {
		return err
	}
	e.emitter.Emit(events.TokensStaked{Staker: caller, Amount: amount, UnlockHeight: unlockHeight})
	return nil
}

// Unstake releases the caller's matured position, returning the full locked
// amount from custody. Missing and still-locked positions both fail the
// access gate.
func (e *Engine) Unstake(caller [20]byte, now uint64) (uint64, error) {
	position, active, err := e.state.StakingPosition(caller)
	if err != nil {
		return 0, err
	}
	if !active || now < position.UnlockHeight {
		return 0, errors.ErrUnauthorized
	}
	custody, err := e.state.Account(CustodyAddress)
	if err != nil {
		return 0, err
	}
	staker, err := e.state.Account(caller)
	if err != nil {
		return 0, err
	}
	debited, err := common.SafeSub(custody.Balance, position.Amount)
	if err != nil {
		return 0, err
	}
	credited, err := common.SafeAdd(staker.Balance, position.Amount)
	if err != nil {
		return 0, err
	}
	custody.Balance = debited
	staker.Balance = credited
	staker.LastInteraction = now
	if err := e.state.PutAccount(CustodyAddress, custody); err != nil {
		return 0, err
	}
	if err := e.state.PutAccount(caller, staker); err != nil {
		return 0, err
	}
	if err := e.state.DeleteStakingPosition(caller); err != nil {
		return 0, err
	}
	e.emitter.Emit(events.TokensUnstaked{Staker: caller, Amount: position.Amount})
	return position.Amount, nil
}

// Rewards projects the accrued reward for the staker at the supplied height:
// amount × rate × elapsed / (100 × period), where elapsed counts blocks past
// the unlock height. Stakers without a position project zero rather than
// failing.
func (e *Engine) Rewards(staker [20]byte, now uint64) (uint64, error) {
	position, active, err := e.state.StakingPosition(staker)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, nil
	}
	if now <= position.UnlockHeight {
		return 0, nil
	}
	elapsed := now - position.UnlockHeight
	value := new(big.Int).SetUint64(position.Amount)
	value.Mul(value, new(big.Int).SetUint64(e.params.RewardRatePercent))
	value.Mul(value, new(big.Int).SetUint64(elapsed))
	denominator := new(big.Int).Mul(big.NewInt(100), new(big.Int).SetUint64(e.params.PeriodBlocks))
	value.Div(value, denominator)
	return common.NarrowBig(value)
}

// Position returns the staker's active position, if any.
func (e *Engine) Position(staker [20]byte) (*types.StakingPosition, bool, error) {
	return e.state.StakingPosition(staker)
}
