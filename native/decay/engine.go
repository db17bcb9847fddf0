package decay

import (
	"errors"
	"fmt"
	"math/big"

	corerr "repledger/core/errors"
	"repledger/core/events"
	"repledger/core/types"
	"repledger/native/common"
)

// PercentDenominator is the scaling base for the per-period decay rate.
const PercentDenominator uint64 = 100

// Beyond this many elapsed periods the projection is zero for any
// representable balance, even at the minimum 1% rate, so the exponentiation
// is short-circuited.
const zeroCutoffPeriods uint64 = 1 << 16

// Params controls the decay projection and the global trigger gate.
type Params struct {
	// RatePercent is the per-period reduction, 0-99.
	RatePercent uint64
	// PeriodBlocks is the number of blocks per decay period.
	PeriodBlocks uint64
}

// Validate ensures the configuration is internally consistent.
func (p Params) Validate() error {
	if p.PeriodBlocks == 0 {
		return errors.New("decay: period must be positive")
	}
	if p.RatePercent >= PercentDenominator {
		return fmt.Errorf("decay: rate must be below %d percent", PercentDenominator)
	}
	return nil
}

// decayState abstracts the subset of state manager functionality required by
// the decay engine.
type decayState interface {
	Account(addr [20]byte) (*types.Account, error)
	LastDecayHeight() (uint64, error)
	SetLastDecayHeight(height uint64) error
}

// Engine computes time-decayed balance projections and gates the global decay
// trigger. Decay is lazy: the projection never mutates stored balances and
// the trigger only advances the process-wide marker.
type Engine struct {
	state   decayState
	emitter events.Emitter
	params  Params
}

// NewEngine constructs a decay engine with the supplied parameters.
func NewEngine(state decayState, params Params) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
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

// Params returns the engine configuration.
func (e *Engine) Params() Params {
	if e == nil {
		return Params{}
	}
	return e.params
}

// DecayedBalance returns the decayed view of the account's balance at the
// supplied height. The stored balance is left untouched.
func (e *Engine) DecayedBalance(addr [20]byte, now uint64) (uint64, error) {
	account, err := e.state.Account(addr)
	if err != nil {
		return 0, err
	}
	periods := uint64(0)
	if now > account.LastInteraction {
		periods = (now - account.LastInteraction) / e.params.PeriodBlocks
	}
	return Project(account.Balance, e.params.RatePercent, periods)
}

// Project applies the decay formula balance × (100−rate)^periods /
// 100^periods with integer exponentiation and a single truncating division.
// Truncation deliberately biases the projection downward.
func Project(balance, ratePercent, periods uint64) (uint64, error) {
	if periods == 0 || balance == 0 || ratePercent == 0 {
		return balance, nil
	}
	if ratePercent >= PercentDenominator {
		return 0, nil
	}
	if periods >= zeroCutoffPeriods {
		return 0, nil
	}
	exponent := new(big.Int).SetUint64(periods)
	numerator := new(big.Int).Exp(new(big.Int).SetUint64(PercentDenominator-ratePercent), exponent, nil)
	denominator := new(big.Int).Exp(new(big.Int).SetUint64(PercentDenominator), exponent, nil)
	value := new(big.Int).SetUint64(balance)
	value.Mul(value, numerator)
	value.Div(value, denominator)
	return common.NarrowBig(value)
}

// TriggerDecay advances the global decay marker once a full period has
// elapsed since the previous trigger. It does not write decayed balances into
// any account; the balance-facing decay stays a read projection.
func (e *Engine) TriggerDecay(now uint64) error {
	last, err := e.state.LastDecayHeight()
	if err != nil {
		return err
	}
	due, err := common.SafeAdd(last, e.params.PeriodBlocks)
	if err != nil {
		return err
	}
	if now < due {
		return corerr.ErrDecayNotDue
	}
	if err := e.state.SetLastDecayHeight(now); err != nil {
		return err
	}
	e.emitter.Emit(events.DecayTriggered{Height: now})
	return nil
}

// LastTrigger reports the height recorded by the most recent accepted trigger.
func (e *Engine) LastTrigger() (uint64, error) {
	return e.state.LastDecayHeight()
}
